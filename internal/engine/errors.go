package engine

import "errors"

// ErrNotImplemented marks a forecast method or report kind that is
// recognised but not supported yet.
var ErrNotImplemented = errors.New("not implemented")
