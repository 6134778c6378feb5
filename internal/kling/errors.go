package kling

import (
	"errors"
	"fmt"
)

var (
	ErrUnreachable   = errors.New("try-on service unreachable")
	ErrRejected      = errors.New("try-on service rejected the request")
	ErrJobFailed     = errors.New("try-on job failed")
	ErrPollExhausted = errors.New("try-on job still running after max polls")
)

// RemoteError carries the message reported by the service. Kind is one of
// ErrUnreachable, ErrRejected or ErrJobFailed and is matched by errors.Is.
type RemoteError struct {
	Kind       error
	Message    string
	StatusCode int
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%v: http %d: %s", e.Kind, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%v: http %d", e.Kind, e.StatusCode)
	case e.Message != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	default:
		return e.Kind.Error()
	}
}

func (e *RemoteError) Unwrap() error { return e.Kind }

func unreachable(status int, msg string) error {
	return &RemoteError{Kind: ErrUnreachable, StatusCode: status, Message: msg}
}

func rejected(status int, msg string) error {
	return &RemoteError{Kind: ErrRejected, StatusCode: status, Message: msg}
}

func jobFailed(msg string) error {
	return &RemoteError{Kind: ErrJobFailed, Message: msg}
}
