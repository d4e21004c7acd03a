package core

import (
	"errors"
)

var (
	ErrStaleHandle = errors.New("handle is stale or was never issued")
	ErrQueueEmpty  = errors.New("queue is empty")
	ErrUnknown     = errors.New("unknown")
)
