package domain

import "errors"

var (
	// ErrBusy another turn is still being analyzed or spoken
	ErrBusy = errors.New("a turn is already in progress")
	// ErrEmptyTurn neither text nor an image was provided
	ErrEmptyTurn = errors.New("nothing to send: provide text or an image")
	// ErrUnsupportedImage the uploaded file is not an image we can send to the model
	ErrUnsupportedImage = errors.New("unsupported image")
)
