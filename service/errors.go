package service

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrTooManySessions  = errors.New("too many sessions")
	ErrSessionChanged   = errors.New("session image changed during request")
	ErrQueueFull        = errors.New("processing queue is full")
	ErrUpstream         = errors.New("upstream service error")
	ErrMissingPrompt    = errors.New("missing prompt")
	ErrNoSegmentation   = errors.New("missing segmentation image")
	ErrNoOriginal       = errors.New("no original image")
	ErrInvalidLocation  = errors.New("invalid location")
	ErrNotImageResponse = errors.New("response is not an image")
)
