package listview

import "errors"

var (
	ErrPageOutOfRange = errors.New("page out of range")
	ErrNotMounted     = errors.New("view is not mounted")
	ErrRowNotFound    = errors.New("no such row on the current page")
)
