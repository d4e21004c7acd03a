package software

import (
	"errors"
	"image"

	"github.com/spaghettifunk/xnagfx/engine/core"
	"github.com/spaghettifunk/xnagfx/engine/math"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

var ErrEmptyEffectCode = errors.New("effect code is empty")

type depthBuffer struct {
	width   int32
	height  int32
	format  metadata.DepthFormat
	depth   []float32
	stencil []uint8
}

func newDepthBuffer(width, height int32, format metadata.DepthFormat) *depthBuffer {
	if format == metadata.DepthFormatNone {
		return nil
	}
	db := &depthBuffer{
		width:  width,
		height: height,
		format: format,
		depth:  make([]float32, width*height),
	}
	for i := range db.depth {
		db.depth[i] = 1
	}
	if format.HasStencil() {
		db.stencil = make([]uint8, width*height)
	}
	return db
}

type texture struct {
	format     metadata.SurfaceFormat
	width      int32
	height     int32
	levelCount int32
	isCube     bool
	// levels[face][level]
	levels [][][]byte
}

func newTexture(format metadata.SurfaceFormat, width, height, levelCount int32, faces int) *texture {
	levelCount = max(levelCount, 1)
	t := &texture{
		format:     format,
		width:      width,
		height:     height,
		levelCount: levelCount,
		isCube:     faces == 6,
		levels:     make([][][]byte, faces),
	}
	for f := range t.levels {
		t.levels[f] = make([][]byte, levelCount)
		for l := int32(0); l < levelCount; l++ {
			w, h := t.levelSize(l)
			t.levels[f][l] = make([]byte, metadata.TextureDataSize(format, w, h))
		}
	}
	return t
}

func (t *texture) levelSize(level int32) (int32, int32) {
	return metadata.MipLevelSize(t.width, level), metadata.MipLevelSize(t.height, level)
}

func (t *texture) level(face metadata.CubeMapFace, level int32) []byte {
	f := 0
	if t.isCube {
		f = int(face)
	}
	if f >= len(t.levels) || level < 0 || level >= t.levelCount {
		return nil
	}
	return t.levels[f][level]
}

// levelImage views a level of a 32-bit colour texture as an image. The image
// shares the texture's storage.
func (t *texture) levelImage(face metadata.CubeMapFace, level int32) *image.RGBA {
	if t.format.Size() != 4 || t.format.IsCompressed() {
		return nil
	}
	pix := t.level(face, level)
	if pix == nil {
		return nil
	}
	w, h := t.levelSize(level)
	return &image.RGBA{
		Pix:    pix,
		Stride: int(w * 4),
		Rect:   image.Rect(0, 0, int(w), int(h)),
	}
}

type renderbuffer struct {
	width            int32
	height           int32
	multiSampleCount int32
	color            *image.RGBA
	depth            *depthBuffer
	texture          metadata.Texture
}

type buffer struct {
	data    []byte
	dynamic bool
	usage   metadata.BufferUsage
}

type effect struct {
	code []byte
}

type query struct {
	active   bool
	complete bool
	pixels   int32
}

func (b *Backend) CreateTexture2D(format metadata.SurfaceFormat, width, height, levelCount int32, isRenderTarget bool) metadata.Texture {
	h := metadata.Texture(b.newHandle())
	b.textures[h] = newTexture(format, width, height, levelCount, 1)
	return h
}

func (b *Backend) CreateTextureCube(format metadata.SurfaceFormat, size, levelCount int32, isRenderTarget bool) metadata.Texture {
	h := metadata.Texture(b.newHandle())
	b.textures[h] = newTexture(format, size, size, levelCount, 6)
	return h
}

func (b *Backend) AddDisposeTexture(texture metadata.Texture) {
	delete(b.textures, texture)
	for i := range b.samplers {
		if b.samplers[i].texture == texture {
			b.samplers[i].texture = 0
		}
	}
	for i := range b.vertexSamplers {
		if b.vertexSamplers[i].texture == texture {
			b.vertexSamplers[i].texture = 0
		}
	}
}

func (b *Backend) textureData(texture metadata.Texture, face metadata.CubeMapFace, x, y, w, h, level int32, data []byte, write bool) {
	tex, ok := b.textures[texture]
	if !ok {
		core.LogWarn("texture %d does not exist", texture)
		return
	}
	pix := tex.level(face, level)
	if pix == nil {
		core.LogWarn("texture %d has no level %d", texture, level)
		return
	}
	// Block compressed levels are only transferred whole.
	if tex.format.IsCompressed() {
		if write {
			copy(pix, data)
		} else {
			copy(data, pix)
		}
		return
	}
	lw, _ := tex.levelSize(level)
	bpp := tex.format.Size()
	copyRect(data, pix, int(lw*bpp), bpp, x, y, w, h, write)
}

func (b *Backend) SetTextureData2D(texture metadata.Texture, x, y, w, h, level int32, data []byte) {
	b.textureData(texture, metadata.CubeMapFacePositiveX, x, y, w, h, level, data, true)
}

func (b *Backend) SetTextureDataCube(texture metadata.Texture, x, y, w, h int32, cubeMapFace metadata.CubeMapFace, level int32, data []byte) {
	b.textureData(texture, cubeMapFace, x, y, w, h, level, data, true)
}

func (b *Backend) GetTextureData2D(texture metadata.Texture, x, y, w, h, level int32, data []byte) {
	b.textureData(texture, metadata.CubeMapFacePositiveX, x, y, w, h, level, data, false)
}

func (b *Backend) GetTextureDataCube(texture metadata.Texture, x, y, w, h int32, cubeMapFace metadata.CubeMapFace, level int32, data []byte) {
	b.textureData(texture, cubeMapFace, x, y, w, h, level, data, false)
}

func (b *Backend) GenColorRenderbuffer(width, height int32, format metadata.SurfaceFormat, multiSampleCount int32, texture metadata.Texture) metadata.Renderbuffer {
	h := metadata.Renderbuffer(b.newHandle())
	b.renderbuffers[h] = &renderbuffer{
		width:            width,
		height:           height,
		multiSampleCount: multiSampleCount,
		color:            image.NewRGBA(image.Rect(0, 0, int(width), int(height))),
		texture:          texture,
	}
	return h
}

func (b *Backend) GenDepthStencilRenderbuffer(width, height int32, format metadata.DepthFormat, multiSampleCount int32) metadata.Renderbuffer {
	h := metadata.Renderbuffer(b.newHandle())
	b.renderbuffers[h] = &renderbuffer{
		width:            width,
		height:           height,
		multiSampleCount: multiSampleCount,
		depth:            newDepthBuffer(width, height, format),
	}
	return h
}

func (b *Backend) AddDisposeRenderbuffer(renderbuffer metadata.Renderbuffer) {
	delete(b.renderbuffers, renderbuffer)
}

func (b *Backend) genBuffer(dynamic bool, usage metadata.BufferUsage, sizeInBytes int32) metadata.Buffer {
	h := metadata.Buffer(b.newHandle())
	b.buffers[h] = &buffer{
		data:    make([]byte, sizeInBytes),
		dynamic: dynamic,
		usage:   usage,
	}
	return h
}

func (b *Backend) GenVertexBuffer(dynamic bool, usage metadata.BufferUsage, sizeInBytes int32) metadata.Buffer {
	return b.genBuffer(dynamic, usage, sizeInBytes)
}

func (b *Backend) GenIndexBuffer(dynamic bool, usage metadata.BufferUsage, sizeInBytes int32) metadata.Buffer {
	return b.genBuffer(dynamic, usage, sizeInBytes)
}

func (b *Backend) AddDisposeVertexBuffer(buffer metadata.Buffer) {
	delete(b.buffers, buffer)
}

func (b *Backend) AddDisposeIndexBuffer(buffer metadata.Buffer) {
	delete(b.buffers, buffer)
}

func (b *Backend) SetVertexBufferData(buffer metadata.Buffer, offsetInBytes int32, data []byte, elementCount, elementSizeInBytes, vertexStride int32, options metadata.SetDataOptions) {
	buf, ok := b.buffers[buffer]
	if !ok {
		core.LogWarn("vertex buffer %d does not exist", buffer)
		return
	}
	if vertexStride == 0 || vertexStride == elementSizeInBytes {
		copy(buf.data[min(int(offsetInBytes), len(buf.data)):], data)
		return
	}
	for i := int32(0); i < elementCount; i++ {
		dst := int(offsetInBytes + i*vertexStride)
		src := int(i * elementSizeInBytes)
		if dst >= len(buf.data) || src >= len(data) {
			return
		}
		copy(buf.data[dst:], data[src:min(src+int(elementSizeInBytes), len(data))])
	}
}

func (b *Backend) GetVertexBufferData(buffer metadata.Buffer, offsetInBytes int32, data []byte, elementCount, elementSizeInBytes, vertexStride int32) {
	buf, ok := b.buffers[buffer]
	if !ok {
		core.LogWarn("vertex buffer %d does not exist", buffer)
		return
	}
	if vertexStride == 0 || vertexStride == elementSizeInBytes {
		copy(data, buf.data[min(int(offsetInBytes), len(buf.data)):])
		return
	}
	for i := int32(0); i < elementCount; i++ {
		src := int(offsetInBytes + i*vertexStride)
		dst := int(i * elementSizeInBytes)
		if src >= len(buf.data) || dst >= len(data) {
			return
		}
		copy(data[dst:min(dst+int(elementSizeInBytes), len(data))], buf.data[src:])
	}
}

func (b *Backend) SetIndexBufferData(buffer metadata.Buffer, offsetInBytes int32, data []byte, options metadata.SetDataOptions) {
	buf, ok := b.buffers[buffer]
	if !ok {
		core.LogWarn("index buffer %d does not exist", buffer)
		return
	}
	copy(buf.data[min(int(offsetInBytes), len(buf.data)):], data)
}

func (b *Backend) GetIndexBufferData(buffer metadata.Buffer, offsetInBytes int32, data []byte) {
	buf, ok := b.buffers[buffer]
	if !ok {
		core.LogWarn("index buffer %d does not exist", buffer)
		return
	}
	copy(data, buf.data[min(int(offsetInBytes), len(buf.data)):])
}

// CreateEffect keeps the effect bytecode; the software rasterizer has a fixed
// pass-through vertex stage and a vertex colour pixel stage.
func (b *Backend) CreateEffect(code []byte) (metadata.Effect, error) {
	if len(code) == 0 {
		return 0, ErrEmptyEffectCode
	}
	h := metadata.Effect(b.newHandle())
	b.effects[h] = &effect{code: append([]byte(nil), code...)}
	return h, nil
}

func (b *Backend) AddDisposeEffect(effect metadata.Effect) {
	delete(b.effects, effect)
	if b.currentEffect == effect {
		b.currentEffect = 0
	}
}

func (b *Backend) ApplyEffect(effect metadata.Effect, pass uint32) {
	b.currentEffect = effect
	b.currentPass = pass
}

func (b *Backend) CreateQuery() metadata.Query {
	h := metadata.Query(b.newHandle())
	b.queries[h] = &query{}
	return h
}

func (b *Backend) AddDisposeQuery(query metadata.Query) {
	if q, ok := b.queries[query]; ok && q == b.activeQuery {
		b.activeQuery = nil
	}
	delete(b.queries, query)
}

func (b *Backend) QueryBegin(query metadata.Query) {
	q, ok := b.queries[query]
	if !ok {
		return
	}
	q.active = true
	q.complete = false
	q.pixels = 0
	b.activeQuery = q
}

func (b *Backend) QueryEnd(query metadata.Query) {
	q, ok := b.queries[query]
	if !ok {
		return
	}
	q.active = false
	q.complete = true
	if b.activeQuery == q {
		b.activeQuery = nil
	}
}

func (b *Backend) QueryComplete(query metadata.Query) bool {
	q, ok := b.queries[query]
	return ok && q.complete
}

func (b *Backend) QueryPixelCount(query metadata.Query) int32 {
	if q, ok := b.queries[query]; ok {
		return q.pixels
	}
	return 0
}

// SamplerTexture reports the texture bound to a sampler slot.
func (b *Backend) SamplerTexture(index int32) metadata.Texture {
	if index < 0 || int(index) >= len(b.samplers) {
		return 0
	}
	return b.samplers[index].texture
}

// CurrentEffect reports the effect and pass of the last ApplyEffect.
func (b *Backend) CurrentEffect() (metadata.Effect, uint32) {
	return b.currentEffect, b.currentPass
}

// ScissorRect reports the last scissor rectangle handed to the backend.
func (b *Backend) ScissorRect() math.Rectangle {
	return b.scissor
}

// Viewport reports the last viewport handed to the backend.
func (b *Backend) Viewport() metadata.Viewport {
	return b.viewport
}
