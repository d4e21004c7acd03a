package graphics

import "errors"

var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrUnsupportedFeature   = errors.New("unsupported device feature")
	ErrNoVertexBuffer       = errors.New("no vertex buffer bound")
	ErrNoIndexBuffer        = errors.New("no index buffer bound")
	ErrTooManyRenderTargets = errors.New("too many render targets")
	ErrResourceDisposed     = errors.New("graphics resource is disposed")
	ErrDeviceDisposed       = errors.New("graphics device is disposed")
)
