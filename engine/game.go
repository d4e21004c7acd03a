package engine

import (
	"github.com/spaghettifunk/xnagfx/engine/graphics"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func(device *graphics.GraphicsDevice) error
type Update func(deltaTime float64) error

// Render draws one frame. The engine presents once it returns.
type Render func(device *graphics.GraphicsDevice, deltaTime float64) error
type OnResize func(width int32, height int32) error
type Shutdown func() error
