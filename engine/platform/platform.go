package platform

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/xnagfx/engine/config"
	"github.com/spaghettifunk/xnagfx/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// Platform owns the optional window. Without one every call is a no-op and
// the device renders offscreen.
type Platform struct {
	Window *glfw.Window
	events *core.EventSystem
}

func New(events *core.EventSystem) *Platform {
	return &Platform{events: events}
}

func (p *Platform) Startup(window config.Window, width, height int32) error {
	if !window.Enabled {
		core.LogDebug("no window requested, rendering offscreen")
		return nil
	}
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	w, err := glfw.CreateWindow(int(width), int(height), window.Title, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		glfw.Terminate()
		return err
	}
	p.Window = w

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetPos(int(window.X), int(window.Y))
	p.Window.Show()
	return nil
}

// WindowHandle is handed to the device as the present target. Zero without a window.
func (p *Platform) WindowHandle() uintptr {
	if p.Window == nil {
		return 0
	}
	return uintptr(p.Window.Handle())
}

// PumpMessages processes pending window events and reports whether the
// window is still open.
func (p *Platform) PumpMessages() bool {
	if p.Window == nil {
		return true
	}
	glfw.PollEvents()
	return !p.Window.ShouldClose()
}

func (p *Platform) Shutdown() error {
	if p.Window == nil {
		return nil
	}
	p.Window.Destroy()
	p.Window = nil
	glfw.Terminate()
	return nil
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		p.events.Fire(core.EVENT_CODE_APPLICATION_QUIT, p, core.EventContext{})
	}
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	// Minimized.
	if width == 0 || height == 0 {
		return
	}
	p.events.Fire(core.EVENT_CODE_RESIZED, p, core.EventContext{Data: [2]int32{int32(width), int32(height)}})
}
