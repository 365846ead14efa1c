package dcmesh

import "errors"

// ErrDegenerateRegion is returned by Render when the input region has
// lo > hi on some axis. It is the only error that crosses the public
// boundary (ยง7); every other fault (evaluator NaN, singular QEF, vertex
// escaping its cell) is recovered locally during meshing.
var ErrDegenerateRegion = errors.New("dcmesh: degenerate region: lo > hi on some axis")
