package testbed

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	gomath "math"
	"os"

	"github.com/spaghettifunk/xnagfx/engine"
	"github.com/spaghettifunk/xnagfx/engine/core"
	"github.com/spaghettifunk/xnagfx/engine/graphics"
	"github.com/spaghettifunk/xnagfx/engine/math"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

const sceneSize = 64

var (
	backgroundColor = math.NewColor(20, 20, 40, 255)
	sceneColor      = math.NewColor(100, 149, 237, 255)
	overlayColor    = math.NewColor(200, 100, 0, 255)

	// The software device accepts any non-empty effect blob.
	overlayEffectCode = []byte{0xfe, 0xff, 0x09, 0x01}
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	device  *graphics.GraphicsDevice
	scene   *graphics.RenderTarget2D
	overlay *graphics.Effect
	query   *graphics.OcclusionQuery

	angle         float64
	frames        int
	width         int32
	height        int32
	overlayPixels int32
	outputPath    string
}

func NewTestGame(app *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: app,
			State:             &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

// SetOutputPath makes Shutdown write the last presented frame as a PNG.
func (g *TestGame) SetOutputPath(path string) {
	g.state().outputPath = path
}

func (g *TestGame) Initialize(device *graphics.GraphicsDevice) error {
	s := g.state()
	s.device = device

	var err error
	s.scene, err = graphics.NewRenderTarget2D(device, sceneSize, sceneSize, false,
		metadata.SurfaceFormatColor, metadata.DepthFormatDepth24, 4, metadata.RenderTargetUsagePreserveContents)
	if err != nil {
		return err
	}

	s.overlay, err = graphics.NewEffect(device, overlayEffectCode, graphics.EffectTechniqueDescription{
		Name: "Overlay",
		Passes: []graphics.EffectPassDescription{
			{
				Name: "Additive",
				StateChanges: graphics.PassStateChanges{
					Blend: func(b *graphics.BlendState) {
						b.ColorSourceBlend = metadata.BlendSourceAlpha
						b.AlphaSourceBlend = metadata.BlendSourceAlpha
						b.ColorDestinationBlend = metadata.BlendOne
						b.AlphaDestinationBlend = metadata.BlendOne
					},
					Samplers: map[int]func(*graphics.SamplerState){
						0: func(s *graphics.SamplerState) {
							s.Filter = metadata.TextureFilterPoint
							s.AddressU = metadata.TextureAddressModeClamp
							s.AddressV = metadata.TextureAddressModeClamp
						},
					},
				},
			},
		},
	})
	if err != nil {
		return err
	}

	if s.query, err = graphics.NewOcclusionQuery(device); err != nil {
		return err
	}
	core.LogInfo("testbed initialized")
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	s := g.state()
	s.angle += deltaTime
	s.frames++
	return nil
}

func (g *TestGame) Render(device *graphics.GraphicsDevice, deltaTime float64) error {
	s := g.state()
	if err := g.renderScene(device); err != nil {
		return err
	}

	// Back to the backbuffer; this resolves the multisampled scene.
	if err := device.SetRenderTarget(nil); err != nil {
		return err
	}
	device.Clear(backgroundColor)
	device.SetDepthStencilState(graphics.DepthStencilStateNone)
	device.SetRasterizerState(graphics.RasterizerStateCullNone)
	device.Textures.Set(0, s.scene)

	if err := s.overlay.CurrentTechnique.Passes[0].Apply(); err != nil {
		return err
	}
	if err := s.query.Begin(); err != nil {
		return err
	}
	c := overlayColor
	quad := []graphics.VertexPositionColor{
		{Position: math.Vec3{X: -0.5, Y: -0.5}, Color: c},
		{Position: math.Vec3{X: -0.5, Y: 0.5}, Color: c},
		{Position: math.Vec3{X: 0.5, Y: -0.5}, Color: c},
		{Position: math.Vec3{X: 0.5, Y: 0.5}, Color: c},
	}
	err := graphics.DrawUserIndexedPrimitives(device, metadata.PrimitiveTypeTriangleList,
		quad, 0, int32(len(quad)), []uint16{0, 1, 2, 2, 1, 3}, 0, 2,
		graphics.VertexPositionColor{}.VertexDeclaration())
	if err != nil {
		return err
	}
	if err := s.query.End(); err != nil {
		return err
	}
	if s.overlayPixels, err = s.query.PixelCount(); err != nil {
		return err
	}

	// Next frame starts from the device defaults again.
	device.Textures.Set(0, nil)
	device.SetBlendState(nil)
	return nil
}

// renderScene draws a triangle spinning around the centre of the scene target.
func (g *TestGame) renderScene(device *graphics.GraphicsDevice) error {
	s := g.state()
	if err := device.SetRenderTarget(s.scene); err != nil {
		return err
	}
	device.Clear(math.ColorBlack)
	device.SetRasterizerState(graphics.RasterizerStateCullNone)
	device.SetDepthStencilState(graphics.DepthStencilStateDefault)

	tri := make([]graphics.VertexPositionColor, 3)
	for i := range tri {
		a := s.angle + float64(i)*2*gomath.Pi/3
		tri[i] = graphics.VertexPositionColor{
			Position: math.Vec3{X: float32(0.8 * gomath.Cos(a)), Y: float32(0.8 * gomath.Sin(a))},
			Color:    sceneColor,
		}
	}
	return graphics.DrawUserPrimitives(device, metadata.PrimitiveTypeTriangleList, tri, 0, 1,
		graphics.VertexPositionColor{}.VertexDeclaration())
}

func (g *TestGame) OnResize(width int32, height int32) error {
	s := g.state()
	s.width, s.height = width, height
	core.LogDebug("testbed resized to %dx%d", width, height)
	return nil
}

func (g *TestGame) Shutdown() error {
	s := g.state()
	var errs []error
	if s.outputPath != "" && s.device != nil {
		errs = append(errs, g.writeFrame(s.outputPath))
	}
	if s.query != nil {
		s.query.Dispose()
	}
	if s.overlay != nil {
		s.overlay.Dispose()
	}
	if s.scene != nil {
		s.scene.Dispose()
	}
	core.LogInfo("testbed rendered %d frames", s.frames)
	return errors.Join(errs...)
}

func (g *TestGame) writeFrame(path string) error {
	s := g.state()
	pp := s.device.PresentationParameters()
	img := image.NewRGBA(image.Rect(0, 0, int(pp.BackBufferWidth), int(pp.BackBufferHeight)))
	if err := s.device.GetBackBufferData(nil, img.Pix); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	core.LogInfo("frame written to %s", path)
	return f.Close()
}
