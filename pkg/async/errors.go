package async

import "errors"

var ErrClosed = errors.New("async: inflight tracker no longer accepts work")
