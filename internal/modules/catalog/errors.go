package catalog

import "errors"

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrCodeTaken    = errors.New("room code already in use")
)
