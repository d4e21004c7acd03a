package software

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/spaghettifunk/xnagfx/engine/core"
	"github.com/spaghettifunk/xnagfx/engine/math"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

var ErrInvalidPresentationParameters = errors.New("invalid presentation parameters")

const (
	defaultTextureSlots       int32 = 16
	defaultVertexTextureSlots int32 = 4
	defaultMaxMultiSample     int32 = 8
)

type options struct {
	instancing     bool
	noOverwrite    bool
	maxMultiSample int32
}

// Option configures a software Backend.
type Option func(*options)

// WithoutInstancing makes the backend report no hardware instancing support.
func WithoutInstancing() Option {
	return func(o *options) {
		o.instancing = false
	}
}

// WithMaxMultiSampleCount caps the multisample count reported by GetMaxMultiSampleCount.
func WithMaxMultiSampleCount(count int32) Option {
	return func(o *options) {
		o.maxMultiSample = count
	}
}

type samplerSlot struct {
	texture metadata.Texture
	state   metadata.SamplerState
}

/**
 * @brief A CPU reference implementation of the native device. Pixels live in
 * memory so tests and headless runs can read back exactly what was rendered.
 * Rasterization covers triangle lists and strips with position and colour
 * attributes, blending, colour write masks, culling, scissor and depth testing.
 */
type Backend struct {
	opts   options
	params metadata.PresentationParameters

	backbuffer      *image.RGBA
	backbufferDepth *depthBuffer
	frontbuffer     *image.RGBA

	nextHandle    uint64
	textures      map[metadata.Texture]*texture
	renderbuffers map[metadata.Renderbuffer]*renderbuffer
	buffers       map[metadata.Buffer]*buffer
	effects       map[metadata.Effect]*effect
	queries       map[metadata.Query]*query

	viewport         metadata.Viewport
	scissor          math.Rectangle
	blend            metadata.BlendState
	depthStencil     metadata.DepthStencilState
	rasterizer       metadata.RasterizerState
	cullMode         metadata.CullMode
	blendFactor      math.Color
	multiSampleMask  int32
	referenceStencil int32

	samplers       []samplerSlot
	vertexSamplers []samplerSlot

	vertexBindings []metadata.VertexBufferBinding

	targets           []metadata.RenderTargetBinding
	colorAttachments  []*image.RGBA
	depthAttachment   *depthBuffer
	renderTargetBound bool

	currentEffect metadata.Effect
	currentPass   uint32
	activeQuery   *query

	warnedPresent bool
}

// New creates a software device for the given presentation parameters.
func New(params *metadata.PresentationParameters, opts ...Option) (*Backend, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: nil", ErrInvalidPresentationParameters)
	}
	if params.BackBufferWidth <= 0 || params.BackBufferHeight <= 0 {
		return nil, fmt.Errorf("%w: backbuffer %dx%d", ErrInvalidPresentationParameters, params.BackBufferWidth, params.BackBufferHeight)
	}

	o := options{
		instancing:     true,
		noOverwrite:    true,
		maxMultiSample: defaultMaxMultiSample,
	}
	for _, opt := range opts {
		opt(&o)
	}

	b := &Backend{
		opts:            o,
		textures:        make(map[metadata.Texture]*texture),
		renderbuffers:   make(map[metadata.Renderbuffer]*renderbuffer),
		buffers:         make(map[metadata.Buffer]*buffer),
		effects:         make(map[metadata.Effect]*effect),
		queries:         make(map[metadata.Query]*query),
		samplers:        make([]samplerSlot, defaultTextureSlots),
		vertexSamplers:  make([]samplerSlot, defaultVertexTextureSlots),
		blendFactor:     math.ColorWhite,
		multiSampleMask: -1,
		cullMode:        metadata.CullModeCullCounterClockwiseFace,
	}
	b.ResetBackbuffer(params)
	b.blend = metadata.BlendState{
		ColorSourceBlend:      metadata.BlendOne,
		ColorDestinationBlend: metadata.BlendZero,
		AlphaSourceBlend:      metadata.BlendOne,
		AlphaDestinationBlend: metadata.BlendZero,
		ColorWriteEnable:      metadata.ColorWriteChannelsAll,
		ColorWriteEnable1:     metadata.ColorWriteChannelsAll,
		ColorWriteEnable2:     metadata.ColorWriteChannelsAll,
		ColorWriteEnable3:     metadata.ColorWriteChannelsAll,
		BlendFactor:           math.ColorWhite,
		MultiSampleMask:       -1,
	}

	core.LogDebug("software backend created (%dx%d, depth=%s)", params.BackBufferWidth, params.BackBufferHeight, params.DepthStencilFormat)
	return b, nil
}

func (b *Backend) DestroyDevice() {
	b.textures = nil
	b.renderbuffers = nil
	b.buffers = nil
	b.effects = nil
	b.queries = nil
	b.colorAttachments = nil
	b.depthAttachment = nil
	core.LogDebug("software backend destroyed")
}

func (b *Backend) newHandle() uint64 {
	b.nextHandle++
	return b.nextHandle
}

// FrontBuffer returns the image produced by the last SwapBuffers, or nil.
func (b *Backend) FrontBuffer() *image.RGBA {
	return b.frontbuffer
}

func (b *Backend) SwapBuffers(sourceRectangle, destinationRectangle *math.Rectangle, overrideWindowHandle uintptr) {
	if overrideWindowHandle != 0 && !b.warnedPresent {
		core.LogDebug("software backend keeps presented frames in memory; window handle %#x ignored", overrideWindowHandle)
		b.warnedPresent = true
	}

	src := b.backbuffer.Bounds()
	if sourceRectangle != nil {
		src = toImageRect(*sourceRectangle).Intersect(src)
	}
	dst := image.Rect(0, 0, src.Dx(), src.Dy())
	if destinationRectangle != nil {
		dst = toImageRect(*destinationRectangle)
	}
	if b.frontbuffer == nil || b.frontbuffer.Bounds() != dst {
		b.frontbuffer = image.NewRGBA(dst)
	}
	if dst.Dx() == src.Dx() && dst.Dy() == src.Dy() {
		draw.Copy(b.frontbuffer, dst.Min, b.backbuffer, src, draw.Src, nil)
		return
	}
	draw.NearestNeighbor.Scale(b.frontbuffer, dst, b.backbuffer, src, draw.Src, nil)
}

func (b *Backend) Clear(options metadata.ClearOptions, clearColor math.Vec4, depth float32, stencil int32) {
	if options&metadata.ClearOptionsTarget != 0 {
		c := math.NewColorFromVec4(clearColor)
		fill := image.NewUniform(color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
		for _, img := range b.colorAttachments {
			draw.Draw(img, img.Bounds(), fill, image.Point{}, draw.Src)
		}
	}
	if db := b.depthAttachment; db != nil {
		if options&metadata.ClearOptionsDepthBuffer != 0 {
			for i := range db.depth {
				db.depth[i] = depth
			}
		}
		if options&metadata.ClearOptionsStencil != 0 {
			for i := range db.stencil {
				db.stencil[i] = uint8(stencil)
			}
		}
	}
}

func (b *Backend) SetViewport(viewport *metadata.Viewport) {
	b.viewport = *viewport
}

func (b *Backend) SetScissorRect(scissor *math.Rectangle) {
	b.scissor = *scissor
}

func (b *Backend) GetBlendFactor() math.Color          { return b.blendFactor }
func (b *Backend) SetBlendFactor(blendFactor math.Color) { b.blendFactor = blendFactor }
func (b *Backend) GetMultiSampleMask() int32             { return b.multiSampleMask }
func (b *Backend) SetMultiSampleMask(mask int32)         { b.multiSampleMask = mask }
func (b *Backend) GetReferenceStencil() int32            { return b.referenceStencil }
func (b *Backend) SetReferenceStencil(ref int32)         { b.referenceStencil = ref }

func (b *Backend) SetBlendState(blendState *metadata.BlendState) {
	b.blend = *blendState
	b.blendFactor = blendState.BlendFactor
	b.multiSampleMask = blendState.MultiSampleMask
}

func (b *Backend) SetDepthStencilState(depthStencilState *metadata.DepthStencilState) {
	b.depthStencil = *depthStencilState
	b.referenceStencil = depthStencilState.ReferenceStencil
}

// ApplyRasterizerState resolves the cull mode against the current target.
// Offscreen rendering is vertically flipped, which reverses the winding of
// every triangle, so the cull mode is swapped while a render target is bound.
func (b *Backend) ApplyRasterizerState(rasterizerState *metadata.RasterizerState) {
	b.rasterizer = *rasterizerState
	b.cullMode = rasterizerState.CullMode
	if b.renderTargetBound {
		switch rasterizerState.CullMode {
		case metadata.CullModeCullClockwiseFace:
			b.cullMode = metadata.CullModeCullCounterClockwiseFace
		case metadata.CullModeCullCounterClockwiseFace:
			b.cullMode = metadata.CullModeCullClockwiseFace
		}
	}
}

func (b *Backend) VerifySampler(index int32, texture metadata.Texture, sampler *metadata.SamplerState) {
	if index < 0 || int(index) >= len(b.samplers) {
		core.LogWarn("sampler index %d out of range", index)
		return
	}
	b.samplers[index] = samplerSlot{texture: texture, state: *sampler}
}

func (b *Backend) VerifyVertexSampler(index int32, texture metadata.Texture, sampler *metadata.SamplerState) {
	if index < 0 || int(index) >= len(b.vertexSamplers) {
		core.LogWarn("vertex sampler index %d out of range", index)
		return
	}
	b.vertexSamplers[index] = samplerSlot{texture: texture, state: *sampler}
}

func (b *Backend) ApplyVertexBufferBindings(bindings []metadata.VertexBufferBinding, bindingsUpdated bool, baseVertex int32) {
	b.vertexBindings = append(b.vertexBindings[:0], bindings...)
}

func (b *Backend) SetRenderTargets(renderTargets []metadata.RenderTargetBinding, depthStencilBuffer metadata.Renderbuffer, depthFormat metadata.DepthFormat, preserveTargetContents bool) {
	b.targets = append(b.targets[:0], renderTargets...)
	b.colorAttachments = b.colorAttachments[:0]

	if len(renderTargets) == 0 {
		b.renderTargetBound = false
		b.colorAttachments = append(b.colorAttachments, b.backbuffer)
		b.depthAttachment = b.backbufferDepth
		return
	}

	b.renderTargetBound = true
	for i := range renderTargets {
		if img := b.attachmentImage(&renderTargets[i]); img != nil {
			b.colorAttachments = append(b.colorAttachments, img)
		}
	}
	b.depthAttachment = nil
	if depthFormat != metadata.DepthFormatNone {
		if rb, ok := b.renderbuffers[depthStencilBuffer]; ok {
			b.depthAttachment = rb.depth
		}
	}
}

func (b *Backend) attachmentImage(binding *metadata.RenderTargetBinding) *image.RGBA {
	if binding.ColorBuffer != 0 {
		if rb, ok := b.renderbuffers[binding.ColorBuffer]; ok && rb.color != nil {
			return rb.color
		}
	}
	tex, ok := b.textures[binding.Texture]
	if !ok {
		core.LogWarn("render target texture %d does not exist", binding.Texture)
		return nil
	}
	face := metadata.CubeMapFacePositiveX
	if binding.Type == metadata.RenderTargetTypeCube {
		face = binding.CubeMapFace
	}
	return tex.levelImage(face, 0)
}

// ResolveTarget copies a multisampled colour buffer into its texture and
// regenerates the texture's mip chain.
func (b *Backend) ResolveTarget(target *metadata.RenderTargetBinding) {
	tex, ok := b.textures[target.Texture]
	if !ok {
		return
	}
	face := metadata.CubeMapFacePositiveX
	if target.Type == metadata.RenderTargetTypeCube {
		face = target.CubeMapFace
	}
	base := tex.levelImage(face, 0)
	if base == nil {
		return
	}
	if target.MultiSampleCount > 0 {
		if rb, ok := b.renderbuffers[target.ColorBuffer]; ok && rb.color != nil {
			draw.Copy(base, image.Point{}, rb.color, rb.color.Bounds(), draw.Src, nil)
		}
	}
	for level := int32(1); level < tex.levelCount; level++ {
		if dst := tex.levelImage(face, level); dst != nil {
			draw.ApproxBiLinear.Scale(dst, dst.Bounds(), base, base.Bounds(), draw.Src, nil)
		}
	}
}

func (b *Backend) ResetBackbuffer(presentationParameters *metadata.PresentationParameters) {
	b.params = *presentationParameters
	w, h := b.params.BackBufferWidth, b.params.BackBufferHeight
	b.backbuffer = image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	b.backbufferDepth = newDepthBuffer(w, h, b.params.DepthStencilFormat)
	if !b.renderTargetBound {
		b.colorAttachments = append(b.colorAttachments[:0], b.backbuffer)
		b.depthAttachment = b.backbufferDepth
	}
}

func (b *Backend) ReadBackbuffer(x, y, w, h int32, data []byte) {
	copyRect(data, b.backbuffer.Pix, b.backbuffer.Stride, 4, x, y, w, h, false)
}

func (b *Backend) GetBackbufferSize() (int32, int32) {
	return b.params.BackBufferWidth, b.params.BackBufferHeight
}

func (b *Backend) GetBackbufferSurfaceFormat() metadata.SurfaceFormat {
	return b.params.BackBufferFormat
}

func (b *Backend) GetBackbufferDepthFormat() metadata.DepthFormat {
	return b.params.DepthStencilFormat
}

func (b *Backend) GetBackbufferMultiSampleCount() int32 {
	return b.params.MultiSampleCount
}

func (b *Backend) SupportsHardwareInstancing() bool {
	return b.opts.instancing
}

func (b *Backend) SupportsNoOverwrite() bool {
	return b.opts.noOverwrite
}

func (b *Backend) GetMaxTextureSlots() (int32, int32) {
	return int32(len(b.samplers)), int32(len(b.vertexSamplers))
}

func (b *Backend) GetMaxMultiSampleCount(format metadata.SurfaceFormat, multiSampleCount int32) int32 {
	return min(multiSampleCount, b.opts.maxMultiSample)
}

func toImageRect(r math.Rectangle) image.Rectangle {
	return image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height))
}

// copyRect copies a w x h pixel rectangle between a tightly packed slice and a
// strided surface. When toSurface is false, data receives the surface pixels.
func copyRect(data, surface []byte, stride int, bpp, x, y, w, h int32, toSurface bool) {
	rowBytes := int(w * bpp)
	for row := int32(0); row < h; row++ {
		so := int(y+row)*stride + int(x*bpp)
		do := int(row) * rowBytes
		if so+rowBytes > len(surface) || do+rowBytes > len(data) {
			return
		}
		if toSurface {
			copy(surface[so:so+rowBytes], data[do:do+rowBytes])
		} else {
			copy(data[do:do+rowBytes], surface[so:so+rowBytes])
		}
	}
}
