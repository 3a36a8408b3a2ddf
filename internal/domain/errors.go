package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrSlugTaken      = errors.New("slug already in use")
	ErrWrongValueKind = errors.New("value does not match attribute data type")
	ErrOptionMismatch = errors.New("option does not belong to attribute")
)
