package engine

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/xnagfx/engine/config"
	"github.com/spaghettifunk/xnagfx/engine/core"
	"github.com/spaghettifunk/xnagfx/engine/graphics"
	"github.com/spaghettifunk/xnagfx/engine/platform"
)

type Stage uint8

const (
	EngineStageUninitialized Stage = iota
	EngineStageInitializing
	EngineStageInitialized
	EngineStageRunning
	EngineStageShuttingDown
	EngineStageShutdown
)

var ErrNotInitialized = errors.New("engine not initialized")

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    atomic.Bool
	config       *config.Config
	watcher      *config.Watcher
	events       *core.EventSystem
	platform     *platform.Platform
	device       *graphics.GraphicsDevice
	clock        *core.Clock
	metrics      *core.FrameMetrics
	lastTime     float64
	frameCount   int

	// Resizes arrive from window callbacks and are applied between frames.
	pendingResize *[2]int32
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("game without an application config")
	}
	cfg, err := g.ApplicationConfig.load()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	if err := core.SetLogLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	if cfg.Window.Title == "" {
		cfg.Window.Title = g.ApplicationConfig.Name
	}

	events := core.NewEventSystem()
	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		config:       cfg,
		events:       events,
		platform:     platform.New(events),
		clock:        core.NewClock(),
		metrics:      core.NewFrameMetrics(),
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_RESIZED, e, e.onResized)

	pp := e.config.Graphics.Presentation
	if err := e.platform.Startup(e.config.Window, pp.BackBufferWidth, pp.BackBufferHeight); err != nil {
		return err
	}
	pp.DeviceWindowHandle = e.platform.WindowHandle()

	device, err := graphics.NewGraphicsDevice(&pp,
		graphics.WithRenderer(e.config.Graphics.Backend),
		graphics.WithProfile(e.config.Graphics.Profile),
		graphics.WithDebug(e.config.Graphics.Debug),
		graphics.WithBackgroundContext(e.config.Graphics.BackgroundContext),
		graphics.WithEventSystem(e.events),
	)
	if err != nil {
		return err
	}
	e.device = device

	if e.gameInstance.ApplicationConfig.Watch && e.gameInstance.ApplicationConfig.ConfigPath != "" {
		if e.watcher, err = config.NewWatcher(e.gameInstance.ApplicationConfig.ConfigPath); err != nil {
			return err
		}
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e.device); err != nil {
			return err
		}
	}
	if err := e.resized(pp.BackBufferWidth, pp.BackBufferHeight); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized", e.gameInstance.ApplicationConfig.Name)
	return nil
}

// Device is nil before Initialize.
func (e *Engine) Device() *graphics.GraphicsDevice {
	return e.device
}

func (e *Engine) Config() *config.Config {
	return e.config
}

func (e *Engine) FrameCount() int {
	return e.frameCount
}

// Quit stops the loop after the current frame. Safe to call from any goroutine.
func (e *Engine) Quit() {
	e.events.Fire(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{})
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return ErrNotInitialized
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	maxFrames := e.config.Testbed.Frames

	for e.isRunning.Load() {
		if !e.platform.PumpMessages() {
			e.isRunning.Store(false)
			break
		}
		if err := e.pollConfig(); err != nil {
			return err
		}
		if e.pendingResize != nil {
			size := *e.pendingResize
			e.pendingResize = nil
			if err := e.resize(size[0], size[1]); err != nil {
				return err
			}
		}
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("game update failed, shutting down: %s", err)
				return err
			}
		}
		if e.gameInstance.FnRender != nil {
			if err := e.gameInstance.FnRender(e.device, delta); err != nil {
				core.LogError("game render failed, shutting down: %s", err)
				return err
			}
		}
		if err := e.device.Present(); err != nil {
			return err
		}

		e.clock.Update()
		e.metrics.Update(e.clock.Elapsed() - currentTime)
		e.frameCount++
		e.lastTime = currentTime

		if maxFrames > 0 && e.frameCount >= maxFrames {
			e.isRunning.Store(false)
		}
	}

	fps, frameTime := e.metrics.Frame()
	core.LogInfo("stopped after %d frames (%.1f fps, %.3f ms)", e.frameCount, fps, frameTime)
	e.currentStage = EngineStageInitialized
	return nil
}

// pollConfig applies a reloaded configuration without blocking the frame.
func (e *Engine) pollConfig() error {
	if e.watcher == nil {
		return nil
	}
	select {
	case next, ok := <-e.watcher.Configs():
		if ok {
			return e.applyConfig(next)
		}
	case err, ok := <-e.watcher.Errors():
		if ok {
			core.LogWarn("keeping the current configuration: %s", err)
		}
	default:
	}
	return nil
}

// applyConfig takes over the settings of next that can change at runtime.
// Presentation changes reset the device; a different backend or profile
// only takes effect on restart.
func (e *Engine) applyConfig(next *config.Config) error {
	if next.Logging.Level != e.config.Logging.Level {
		if err := core.SetLogLevel(next.Logging.Level); err != nil {
			return err
		}
	}
	if next.Graphics.Backend != e.config.Graphics.Backend || next.Graphics.Profile != e.config.Graphics.Profile {
		core.LogWarn("graphics backend and profile changes apply on restart")
		next.Graphics.Backend = e.config.Graphics.Backend
		next.Graphics.Profile = e.config.Graphics.Profile
	}

	changed := e.config.PresentationChanged(next)
	prev := e.config.Graphics.Presentation
	next.Window.Title = e.config.Window.Title
	e.config = next
	if !changed {
		return nil
	}

	pp := next.Graphics.Presentation
	pp.DeviceWindowHandle = prev.DeviceWindowHandle
	if err := e.device.ResetWith(&pp); err != nil {
		return err
	}
	if pp.BackBufferWidth != prev.BackBufferWidth || pp.BackBufferHeight != prev.BackBufferHeight {
		return e.resized(pp.BackBufferWidth, pp.BackBufferHeight)
	}
	return nil
}

func (e *Engine) resize(width, height int32) error {
	pp := e.device.PresentationParameters()
	if pp.BackBufferWidth == width && pp.BackBufferHeight == height {
		return nil
	}
	pp.BackBufferWidth = width
	pp.BackBufferHeight = height
	if err := e.device.ResetWith(&pp); err != nil {
		return err
	}
	e.config.Graphics.Presentation.BackBufferWidth = width
	e.config.Graphics.Presentation.BackBufferHeight = height
	return e.resized(width, height)
}

func (e *Engine) resized(width, height int32) error {
	if e.gameInstance.FnOnResize == nil {
		return nil
	}
	return e.gameInstance.FnOnResize(width, height)
}

// Shutdown releases the game, the device and the window. Calling it again is a no-op.
func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning.Store(false)

	var errs []error
	if e.watcher != nil {
		errs = append(errs, e.watcher.Close())
	}
	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	if e.device != nil {
		e.device.Dispose()
	}
	errs = append(errs, e.platform.Shutdown())
	e.events.Shutdown()

	e.currentStage = EngineStageShutdown
	return errors.Join(errs...)
}

func (e *Engine) onEvent(code core.EventCode, sender, listener interface{}, data core.EventContext) {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning.Store(false)
	}
}

func (e *Engine) onResized(code core.EventCode, sender, listener interface{}, data core.EventContext) {
	size, ok := data.Data.([2]int32)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", code)
		return
	}
	e.pendingResize = &size
}
