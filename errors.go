package tiff

import "errors"

// Errors returned while writing. All of them abort the whole write; they are
// wrapped with more detail, so compare with errors.Is.
var (
	ErrUnsupportedLayout      = errors.New("tiff: unsupported layout")
	ErrUnsupportedCompression = errors.New("tiff: unsupported compression")
	ErrLayoutMismatch         = errors.New("tiff: layout mismatch")
	ErrInvalidFieldType       = errors.New("tiff: invalid field type")
)

// FormatError describes a directory that cannot be written as it stands,
// such as one missing a required tag.
type FormatError struct {
	msg string // description of error
}

func (e *FormatError) Error() string { return "tiff: " + e.msg }
