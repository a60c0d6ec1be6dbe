package indexing

import "errors"

var (
	ErrEmptyID   = errors.New("document id is empty")
	ErrEmptyName = errors.New("document name is empty")
)
