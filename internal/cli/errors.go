package cli

import "errors"

// ErrUsage matches, via errors.Is, every error caused by how the command was
// invoked: bad flags, an unreadable config or definition file, or options the
// generator rejects before reading any source.
var ErrUsage = errors.New("cli usage error")

type usageError struct {
	msg string
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

func (e usageError) Error() string {
	return e.msg
}

func (e usageError) Is(target error) bool {
	return target == ErrUsage
}
