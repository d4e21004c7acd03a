package testbed

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/xnagfx/engine"
	"github.com/spaghettifunk/xnagfx/engine/config"
	"github.com/spaghettifunk/xnagfx/engine/core"
	"github.com/spaghettifunk/xnagfx/engine/math"
)

func TestTestbedWritesFrame(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = core.LogLevelError
	cfg.Graphics.Presentation.BackBufferWidth = 32
	cfg.Graphics.Presentation.BackBufferHeight = 32
	cfg.Testbed.Frames = 2

	tg := NewTestGame(&engine.ApplicationConfig{Name: "testbed", Config: cfg})
	out := filepath.Join(t.TempDir(), "frame.png")
	tg.SetOutputPath(out)

	e, err := engine.New(tg.Game)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := e.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	s := tg.state()
	if s.frames != 2 {
		t.Errorf("frames = %d, want 2", s.frames)
	}
	if s.overlayPixels <= 0 {
		t.Errorf("overlay pixel count = %d, want > 0", s.overlayPixels)
	}
	scene := make([]byte, sceneSize*sceneSize*4)
	if err := s.scene.GetData(0, nil, scene); err != nil {
		t.Fatalf("GetData() error = %v", err)
	}
	i := (sceneSize/2*sceneSize + sceneSize/2) * 4
	if got := math.NewColor(scene[i], scene[i+1], scene[i+2], scene[i+3]); got != sceneColor {
		t.Errorf("scene centre = %v, want %v", got, sceneColor)
	}

	if err := e.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"background", 0, 0, color.RGBA{20, 20, 40, 255}},
		{"additive overlay", 16, 16, color.RGBA{220, 120, 40, 255}},
	}
	for _, tt := range tests {
		if got := color.RGBAModel.Convert(img.At(tt.x, tt.y)).(color.RGBA); got != tt.want {
			t.Errorf("%s: At(%d, %d) = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
}
