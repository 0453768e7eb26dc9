package llamacpp

import "errors"

var errClosed = errors.New("model handle is closed")
