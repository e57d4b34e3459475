package service

import "errors"

// ErrClientClosed indicates the client has been closed.
var ErrClientClosed = errors.New("aoi: client is closed")

// ErrInvalidArgument indicates a caller supplied a value the service rejects.
var ErrInvalidArgument = errors.New("invalid argument")
