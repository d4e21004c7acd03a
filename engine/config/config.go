package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/xnagfx/engine/core"
	"github.com/spaghettifunk/xnagfx/engine/renderer"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Logging struct {
	Level core.LogLevel `toml:"level"`
}

type Graphics struct {
	Backend           renderer.RendererType           `toml:"backend"`
	Profile           metadata.GraphicsProfile        `toml:"profile"`
	Debug             bool                            `toml:"debug"`
	BackgroundContext bool                            `toml:"background_context"`
	Presentation      metadata.PresentationParameters `toml:"presentation"`
}

// Window is only opened when Enabled is set; the device renders offscreen otherwise.
type Window struct {
	Enabled bool   `toml:"enabled"`
	Title   string `toml:"title"`
	X       int32  `toml:"x"`
	Y       int32  `toml:"y"`
}

type Testbed struct {
	// Frames stops the game after that many frames. Zero runs until quit.
	Frames     int    `toml:"frames"`
	OutputPath string `toml:"output_path"`
}

type Config struct {
	Logging  Logging  `toml:"logging"`
	Graphics Graphics `toml:"graphics"`
	Window   Window   `toml:"window"`
	Testbed  Testbed  `toml:"testbed"`
}

func Default() *Config {
	return &Config{
		Logging: Logging{Level: core.LogLevelInfo},
		Graphics: Graphics{
			Backend:      renderer.Software,
			Profile:      metadata.GraphicsProfileHiDef,
			Presentation: metadata.DefaultPresentationParameters(),
		},
		Window: Window{
			Title: "xnagfx",
			X:     100,
			Y:     100,
		},
	}
}

// Load reads path over Default. Keys that map to no field are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := Default()
	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s: %s", ErrInvalidConfig, path, strict.String())
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := log.ParseLevel(string(c.Logging.Level)); err != nil {
		return fmt.Errorf("%w: logging.level: %s", ErrInvalidConfig, err)
	}
	pp := c.Graphics.Presentation
	if pp.BackBufferWidth <= 0 || pp.BackBufferHeight <= 0 {
		return fmt.Errorf("%w: backbuffer %dx%d", ErrInvalidConfig, pp.BackBufferWidth, pp.BackBufferHeight)
	}
	if pp.MultiSampleCount < 0 {
		return fmt.Errorf("%w: multi_sample_count %d", ErrInvalidConfig, pp.MultiSampleCount)
	}
	if c.Testbed.Frames < 0 {
		return fmt.Errorf("%w: testbed.frames %d", ErrInvalidConfig, c.Testbed.Frames)
	}
	return nil
}

// Marshal encodes c as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// PresentationChanged reports whether applying next needs a device reset.
func (c *Config) PresentationChanged(next *Config) bool {
	a, b := c.Graphics.Presentation, next.Graphics.Presentation
	a.DeviceWindowHandle, b.DeviceWindowHandle = 0, 0
	return a != b
}
