package agent

import "errors"

// ErrNilInvoker is returned by New when no backend invoker is supplied.
var ErrNilInvoker = errors.New("agent: invoker must not be nil")
