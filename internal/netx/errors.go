package netx

import "errors"

var (
	ErrTimeout     = errors.New("download timed out")
	ErrUnreachable = errors.New("download source unreachable")
)
