package imaging

import "errors"

var (
	ErrDecodeFailed      = errors.New("image could not be decoded")
	ErrInvalidDimensions = errors.New("image dimensions out of range")
)
