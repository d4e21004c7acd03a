package graphics

import (
	"fmt"

	"github.com/spaghettifunk/xnagfx/engine/math"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

// Texture is implemented by every texture type that can be bound to a
// sampler slot.
type Texture interface {
	Dispose()
	IsDisposed() bool
	texture() *textureBase
}

type textureBase struct {
	GraphicsResource

	Format     metadata.SurfaceFormat
	LevelCount int32

	native metadata.Texture
}

func (t *textureBase) texture() *textureBase {
	return t
}

func (t *textureBase) releaseNative() {
	t.device.disposal.textures.Enqueue(t.native)
}

// region validates a transfer of data against level of a width x height
// texture and returns the rectangle it covers.
func (t *textureBase) region(width, height, level int32, rect *math.Rectangle, dataLen int) (math.Rectangle, error) {
	if t.IsDisposed() {
		return math.Rectangle{}, ErrResourceDisposed
	}
	if level < 0 || level >= t.LevelCount {
		return math.Rectangle{}, fmt.Errorf("%w: level %d of %d", ErrInvalidArgument, level, t.LevelCount)
	}
	lw, lh := metadata.MipLevelSize(width, level), metadata.MipLevelSize(height, level)
	r := math.NewRectangle(0, 0, lw, lh)
	if rect != nil {
		if rect.X < 0 || rect.Y < 0 || rect.Right() > lw || rect.Bottom() > lh || rect.IsEmpty() {
			return math.Rectangle{}, fmt.Errorf("%w: rectangle %v outside %dx%d level", ErrInvalidArgument, *rect, lw, lh)
		}
		r = *rect
	}
	if need := metadata.TextureDataSize(t.Format, r.Width, r.Height); int32(dataLen) < need {
		return math.Rectangle{}, fmt.Errorf("%w: %d bytes given, %d needed", ErrInvalidArgument, dataLen, need)
	}
	return r, nil
}

// CalculateMipLevels returns the length of a full mip chain.
func CalculateMipLevels(width, height int32) int32 {
	levels := int32(1)
	for size := max(width, height); size > 1; size >>= 1 {
		levels++
	}
	return levels
}

type Texture2D struct {
	textureBase

	Width  int32
	Height int32
}

func NewTexture2D(device *GraphicsDevice, width, height int32, mipMap bool, format metadata.SurfaceFormat) (*Texture2D, error) {
	t := &Texture2D{}
	if err := t.create(device, width, height, mipMap, format, false); err != nil {
		return nil, err
	}
	t.track(device, t, t.releaseNative)
	return t, nil
}

func (t *Texture2D) create(device *GraphicsDevice, width, height int32, mipMap bool, format metadata.SurfaceFormat, isRenderTarget bool) error {
	if device == nil || width <= 0 || height <= 0 {
		return fmt.Errorf("%w: texture %dx%d", ErrInvalidArgument, width, height)
	}
	t.Width = width
	t.Height = height
	t.Format = format
	t.LevelCount = 1
	if mipMap {
		t.LevelCount = CalculateMipLevels(width, height)
	}
	device.run(func() {
		t.native = device.backend.CreateTexture2D(format, width, height, t.LevelCount, isRenderTarget)
	})
	return nil
}

func (t *Texture2D) Bounds() math.Rectangle {
	return math.NewRectangle(0, 0, t.Width, t.Height)
}

// SetData uploads data into rect of a mip level; a nil rect covers the level.
func (t *Texture2D) SetData(level int32, rect *math.Rectangle, data []byte) error {
	r, err := t.region(t.Width, t.Height, level, rect, len(data))
	if err != nil {
		return err
	}
	t.device.run(func() {
		t.device.backend.SetTextureData2D(t.native, r.X, r.Y, r.Width, r.Height, level, data)
	})
	return nil
}

func (t *Texture2D) GetData(level int32, rect *math.Rectangle, data []byte) error {
	r, err := t.region(t.Width, t.Height, level, rect, len(data))
	if err != nil {
		return err
	}
	t.device.run(func() {
		t.device.backend.GetTextureData2D(t.native, r.X, r.Y, r.Width, r.Height, level, data)
	})
	return nil
}

type TextureCube struct {
	textureBase

	Size int32
}

func NewTextureCube(device *GraphicsDevice, size int32, mipMap bool, format metadata.SurfaceFormat) (*TextureCube, error) {
	t := &TextureCube{}
	if err := t.create(device, size, mipMap, format, false); err != nil {
		return nil, err
	}
	t.track(device, t, t.releaseNative)
	return t, nil
}

func (t *TextureCube) create(device *GraphicsDevice, size int32, mipMap bool, format metadata.SurfaceFormat, isRenderTarget bool) error {
	if device == nil || size <= 0 {
		return fmt.Errorf("%w: cube size %d", ErrInvalidArgument, size)
	}
	t.Size = size
	t.Format = format
	t.LevelCount = 1
	if mipMap {
		t.LevelCount = CalculateMipLevels(size, size)
	}
	device.run(func() {
		t.native = device.backend.CreateTextureCube(format, size, t.LevelCount, isRenderTarget)
	})
	return nil
}

func (t *TextureCube) SetData(face metadata.CubeMapFace, level int32, rect *math.Rectangle, data []byte) error {
	if !face.IsValid() {
		return fmt.Errorf("%w: cube map face %d", ErrInvalidArgument, face)
	}
	r, err := t.region(t.Size, t.Size, level, rect, len(data))
	if err != nil {
		return err
	}
	t.device.run(func() {
		t.device.backend.SetTextureDataCube(t.native, r.X, r.Y, r.Width, r.Height, face, level, data)
	})
	return nil
}

func (t *TextureCube) GetData(face metadata.CubeMapFace, level int32, rect *math.Rectangle, data []byte) error {
	if !face.IsValid() {
		return fmt.Errorf("%w: cube map face %d", ErrInvalidArgument, face)
	}
	r, err := t.region(t.Size, t.Size, level, rect, len(data))
	if err != nil {
		return err
	}
	t.device.run(func() {
		t.device.backend.GetTextureDataCube(t.native, r.X, r.Y, r.Width, r.Height, face, level, data)
	})
	return nil
}
