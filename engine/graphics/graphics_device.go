package graphics

import (
	"fmt"

	"github.com/spaghettifunk/xnagfx/engine/core"
	"github.com/spaghettifunk/xnagfx/engine/math"
	"github.com/spaghettifunk/xnagfx/engine/renderer"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

const (
	MaxTextureSamplers       = 16
	MaxVertexTextureSamplers = 4
	MaxRenderTargetBindings  = 4
	MaxVertexBufferBindings  = 16
)

type Viewport = metadata.Viewport

var (
	// discardColorDebug marks render target content that was never drawn.
	discardColorDebug   = math.NewColor(68, 34, 136, 255)
	discardColorRelease = math.ColorBlack
)

/**
 * @brief Front end of a native device.
 *
 * The device keeps a shadow of the state it last handed to the backend and
 * only emits the native calls needed to bring the backend up to date. All
 * methods except resource disposal belong to the goroutine that created the
 * device.
 */
type GraphicsDevice struct {
	backend    renderer.Backend
	params     metadata.PresentationParameters
	profile    metadata.GraphicsProfile
	debug      bool
	events     *core.EventSystem
	background *backgroundContext
	disposed   bool

	PipelineCache *PipelineCache

	Textures            *TextureCollection
	SamplerStates       *SamplerStateCollection
	VertexTextures      *TextureCollection
	VertexSamplerStates *SamplerStateCollection

	modifiedSamplers       []bool
	modifiedVertexSamplers []bool

	resources *core.HandleTable[*GraphicsResource]
	disposal  disposalQueues

	// Render state. The current* fields hold what the backend has.
	blendState          *BlendState
	depthStencilState   *DepthStencilState
	rasterizerState     *RasterizerState
	currentBlend        *BlendState
	currentDepthStencil *DepthStencilState
	blendFactor         math.Color
	multiSampleMask     int32
	referenceStencil    int32

	viewport         Viewport
	scissorRectangle math.Rectangle

	renderTargetBindings     [MaxRenderTargetBindings]RenderTargetBinding
	renderTargetCount        int
	nativeTargetBindings     [MaxRenderTargetBindings]metadata.RenderTargetBinding
	nativeTargetBindingsNext [MaxRenderTargetBindings]metadata.RenderTargetBinding

	vertexBufferBindings [MaxVertexBufferBindings]VertexBufferBinding
	nativeBufferBindings [MaxVertexBufferBindings]metadata.VertexBufferBinding
	vertexBufferCount    int
	vertexBuffersUpdated bool
	indices              *IndexBuffer

	currentEffect    *Effect
	currentTechnique *EffectTechnique
	currentPass      *EffectPass
	effectApplied    bool

	// What the last draw bound.
	ldBaseVertex int32
	ldEffect     *Effect
	ldTechnique  *EffectTechnique
	ldPass       *EffectPass

	userVertexBuffer     metadata.Buffer
	userVertexBufferSize int32
	userIndexBuffer      metadata.Buffer
	userIndexBufferSize  int32

	metrics DeviceMetrics
}

func NewGraphicsDevice(params *metadata.PresentationParameters, opts ...DeviceOption) (*GraphicsDevice, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: nil presentation parameters", ErrInvalidArgument)
	}
	options := defaultDeviceOptions()
	for _, opt := range opts {
		opt(&options)
	}

	d := &GraphicsDevice{
		params:       *params,
		profile:      options.profile,
		debug:        options.debug,
		events:       options.events,
		resources:    core.NewHandleTable[*GraphicsResource](64),
		disposal:     newDisposalQueues(),
		ldBaseVertex: -1,
	}
	if d.events == nil {
		d.events = core.NewEventSystem()
	}

	var err error
	if options.backendFactory != nil {
		d.backend, err = options.backendFactory(&d.params)
	} else {
		d.backend, err = renderer.New(options.rendererType, &d.params)
	}
	if err != nil {
		return nil, fmt.Errorf("creating backend: %w", err)
	}

	if count := d.clampMultiSampleCount(&d.params); count != params.MultiSampleCount {
		core.LogDebug("multisample count %d clamped to %d", params.MultiSampleCount, count)
		d.backend.ResetBackbuffer(&d.params)
	}

	textures, vertexTextures := d.backend.GetMaxTextureSlots()
	d.modifiedSamplers = make([]bool, min(int(textures), MaxTextureSamplers))
	d.modifiedVertexSamplers = make([]bool, min(int(vertexTextures), MaxVertexTextureSamplers))
	d.Textures = newTextureCollection(d.modifiedSamplers)
	d.SamplerStates = newSamplerStateCollection(d.modifiedSamplers)
	d.VertexTextures = newTextureCollection(d.modifiedVertexSamplers)
	d.VertexSamplerStates = newSamplerStateCollection(d.modifiedVertexSamplers)
	// The native sampler state is unknown until every slot has been verified once.
	for i := range d.modifiedSamplers {
		d.modifiedSamplers[i] = true
	}
	for i := range d.modifiedVertexSamplers {
		d.modifiedVertexSamplers[i] = true
	}

	d.blendState = BlendStateOpaque
	d.depthStencilState = DepthStencilStateDefault
	d.rasterizerState = RasterizerStateCullCounterClockwise
	d.blendFactor = d.backend.GetBlendFactor()
	d.multiSampleMask = d.backend.GetMultiSampleMask()
	d.referenceStencil = d.backend.GetReferenceStencil()

	d.PipelineCache = NewPipelineCache(d)

	d.setViewport(Viewport{Width: d.params.BackBufferWidth, Height: d.params.BackBufferHeight, MaxDepth: 1})
	d.setScissorRectangle(math.NewRectangle(0, 0, d.params.BackBufferWidth, d.params.BackBufferHeight))

	if options.backgroundContext {
		if d.background, err = newBackgroundContext(); err != nil {
			d.backend.DestroyDevice()
			return nil, fmt.Errorf("creating background context: %w", err)
		}
	}

	core.LogInfo("graphics device created (%dx%d, msaa %d, %d samplers, %d vertex samplers)",
		d.params.BackBufferWidth, d.params.BackBufferHeight, d.params.MultiSampleCount,
		len(d.modifiedSamplers), len(d.modifiedVertexSamplers))
	return d, nil
}

func (d *GraphicsDevice) clampMultiSampleCount(params *metadata.PresentationParameters) int32 {
	params.MultiSampleCount = d.backend.GetMaxMultiSampleCount(
		params.BackBufferFormat,
		math.ClosestMSAAPower(params.MultiSampleCount),
	)
	return params.MultiSampleCount
}

func (d *GraphicsDevice) Backend() renderer.Backend {
	return d.backend
}

func (d *GraphicsDevice) Events() *core.EventSystem {
	return d.events
}

func (d *GraphicsDevice) PresentationParameters() metadata.PresentationParameters {
	return d.params
}

func (d *GraphicsDevice) GraphicsProfile() metadata.GraphicsProfile {
	return d.profile
}

func (d *GraphicsDevice) IsDisposed() bool {
	return d.disposed
}

// ResourceCount reports the number of resources that have not been disposed.
func (d *GraphicsDevice) ResourceCount() int {
	return d.resources.Len()
}

/* Render state properties */

func (d *GraphicsDevice) BlendState() *BlendState {
	return d.blendState
}

// SetBlendState takes effect at the next draw. nil restores BlendStateOpaque.
func (d *GraphicsDevice) SetBlendState(state *BlendState) {
	if state == nil {
		state = BlendStateOpaque
	}
	d.blendState = state
}

func (d *GraphicsDevice) DepthStencilState() *DepthStencilState {
	return d.depthStencilState
}

// SetDepthStencilState takes effect at the next draw. nil restores
// DepthStencilStateDefault.
func (d *GraphicsDevice) SetDepthStencilState(state *DepthStencilState) {
	if state == nil {
		state = DepthStencilStateDefault
	}
	d.depthStencilState = state
}

func (d *GraphicsDevice) RasterizerState() *RasterizerState {
	return d.rasterizerState
}

// SetRasterizerState takes effect at the next draw. nil restores
// RasterizerStateCullCounterClockwise.
func (d *GraphicsDevice) SetRasterizerState(state *RasterizerState) {
	if state == nil {
		state = RasterizerStateCullCounterClockwise
	}
	d.rasterizerState = state
}

func (d *GraphicsDevice) BlendFactor() math.Color {
	return d.blendFactor
}

// SetBlendFactor overrides the blend factor of the applied BlendState until
// a different BlendState is applied.
func (d *GraphicsDevice) SetBlendFactor(factor math.Color) {
	if factor == d.blendFactor {
		return
	}
	defer d.lock()()
	d.backend.SetBlendFactor(factor)
	d.blendFactor = factor
}

func (d *GraphicsDevice) MultiSampleMask() int32 {
	return d.multiSampleMask
}

func (d *GraphicsDevice) SetMultiSampleMask(mask int32) {
	if mask == d.multiSampleMask {
		return
	}
	defer d.lock()()
	d.backend.SetMultiSampleMask(mask)
	d.multiSampleMask = mask
}

func (d *GraphicsDevice) ReferenceStencil() int32 {
	return d.referenceStencil
}

func (d *GraphicsDevice) SetReferenceStencil(ref int32) {
	if ref == d.referenceStencil {
		return
	}
	defer d.lock()()
	d.backend.SetReferenceStencil(ref)
	d.referenceStencil = ref
}

/* Viewport and scissor. Both are stored top-left based; the backbuffer is
 * bottom-left based in the backend, so y is flipped when no render target is
 * bound. */

func (d *GraphicsDevice) Viewport() Viewport {
	return d.viewport
}

func (d *GraphicsDevice) SetViewport(viewport Viewport) {
	defer d.lock()()
	d.setViewport(viewport)
}

func (d *GraphicsDevice) setViewport(viewport Viewport) {
	d.viewport = viewport
	native := viewport
	if d.renderTargetCount == 0 {
		native.Y = d.params.BackBufferHeight - viewport.Y - viewport.Height
	}
	d.backend.SetViewport(&native)
}

func (d *GraphicsDevice) ScissorRectangle() math.Rectangle {
	return d.scissorRectangle
}

func (d *GraphicsDevice) SetScissorRectangle(rect math.Rectangle) {
	defer d.lock()()
	d.setScissorRectangle(rect)
}

func (d *GraphicsDevice) setScissorRectangle(rect math.Rectangle) {
	d.scissorRectangle = rect
	native := rect
	if d.renderTargetCount == 0 {
		native.Y = d.params.BackBufferHeight - rect.Y - rect.Height
	}
	d.backend.SetScissorRect(&native)
}

/* Clearing */

// Clear clears colour, depth and stencil of the bound targets.
func (d *GraphicsDevice) Clear(color math.Color) {
	d.ClearWith(
		metadata.ClearOptionsTarget|metadata.ClearOptionsDepthBuffer|metadata.ClearOptionsStencil,
		color.ToVec4(),
		d.viewport.MaxDepth,
		0,
	)
}

// ClearWith drops the depth and stencil options the bound depth format
// cannot hold before clearing.
func (d *GraphicsDevice) ClearWith(options metadata.ClearOptions, color math.Vec4, depth float32, stencil int32) {
	defer d.lock()()
	d.clear(options, color, depth, stencil)
}

func (d *GraphicsDevice) clear(options metadata.ClearOptions, color math.Vec4, depth float32, stencil int32) {
	format := d.params.DepthStencilFormat
	if d.renderTargetCount > 0 {
		format = d.renderTargetBindings[0].RenderTarget.renderTarget().DepthStencilFormat
	}
	if format == metadata.DepthFormatNone {
		options &= metadata.ClearOptionsTarget
	} else if format != metadata.DepthFormatDepth24Stencil8 {
		options &^= metadata.ClearOptionsStencil
	}
	d.backend.Clear(options, color, depth, stencil)
	d.metrics.Clears++
}

/* State application */

// applyState brings the backend up to date before a draw. The order is part
// of the contract: blend, depth-stencil, rasterizer, samplers.
func (d *GraphicsDevice) applyState() {
	if d.currentBlend != d.blendState {
		native := d.blendState.native()
		d.backend.SetBlendState(&native)
		d.currentBlend = d.blendState
		d.blendFactor = d.blendState.BlendFactor
		d.multiSampleMask = d.blendState.MultiSampleMask
		d.metrics.BlendStateChanges++
	}

	if d.currentDepthStencil != d.depthStencilState {
		native := d.depthStencilState.native()
		d.backend.SetDepthStencilState(&native)
		d.currentDepthStencil = d.depthStencilState
		d.referenceStencil = d.depthStencilState.ReferenceStencil
		d.metrics.DepthStencilChanges++
	}

	// Applied every time: the native cull winding depends on whether a
	// render target is bound.
	native := d.rasterizerState.native()
	d.backend.ApplyRasterizerState(&native)
	d.metrics.RasterizerApplies++

	d.applySamplers()
}

func (d *GraphicsDevice) applySamplers() {
	for i, modified := range d.modifiedSamplers {
		if !modified {
			continue
		}
		d.modifiedSamplers[i] = false
		native := d.SamplerStates.Get(i).native()
		d.backend.VerifySampler(int32(i), d.Textures.native(i), &native)
		d.metrics.SamplerVerifies++
	}
	for i, modified := range d.modifiedVertexSamplers {
		if !modified {
			continue
		}
		d.modifiedVertexSamplers[i] = false
		native := d.VertexSamplerStates.Get(i).native()
		d.backend.VerifyVertexSampler(int32(i), d.VertexTextures.native(i), &native)
		d.metrics.SamplerVerifies++
	}
}

/* Presentation */

func (d *GraphicsDevice) Present() error {
	return d.PresentRect(nil, nil, d.params.DeviceWindowHandle)
}

// PresentRect swaps sourceRectangle of the backbuffer into
// destinationRectangle of the window, then destroys queued native objects.
func (d *GraphicsDevice) PresentRect(sourceRectangle, destinationRectangle *math.Rectangle, overrideWindowHandle uintptr) error {
	if d.disposed {
		return ErrDeviceDisposed
	}
	defer d.lock()()
	d.backend.SwapBuffers(sourceRectangle, destinationRectangle, overrideWindowHandle)
	d.flushDisposals()
	d.metrics.Presents++
	return nil
}

// GetBackBufferData reads rect of the backbuffer, or all of it when rect is
// nil, as 32-bit colour rows.
func (d *GraphicsDevice) GetBackBufferData(rect *math.Rectangle, data []byte) error {
	w, h := d.backend.GetBackbufferSize()
	r := math.NewRectangle(0, 0, w, h)
	if rect != nil {
		r = *rect
	}
	if r.X < 0 || r.Y < 0 || r.Right() > w || r.Bottom() > h || r.IsEmpty() {
		return fmt.Errorf("%w: rectangle %v outside %dx%d backbuffer", ErrInvalidArgument, r, w, h)
	}
	if need := int(r.Width * r.Height * 4); len(data) < need {
		return fmt.Errorf("%w: %d bytes given, %d needed", ErrInvalidArgument, len(data), need)
	}
	defer d.lock()()
	d.backend.ReadBackbuffer(r.X, r.Y, r.Width, r.Height, data)
	return nil
}

/* Reset and teardown */

// Reset rebuilds the backbuffer with the current presentation parameters.
func (d *GraphicsDevice) Reset() error {
	return d.ResetWith(&d.params)
}

func (d *GraphicsDevice) ResetWith(params *metadata.PresentationParameters) error {
	if params == nil {
		return fmt.Errorf("%w: nil presentation parameters", ErrInvalidArgument)
	}
	if d.disposed {
		return ErrDeviceDisposed
	}
	next := *params
	d.clampMultiSampleCount(&next)

	d.events.Fire(core.EVENT_CODE_DEVICE_RESETTING, d, core.EventContext{Data: &next})

	unlock := d.lock()
	d.params = next
	d.backend.ResetBackbuffer(&d.params)
	d.setViewport(Viewport{Width: d.params.BackBufferWidth, Height: d.params.BackBufferHeight, MaxDepth: 1})
	d.setScissorRectangle(math.NewRectangle(0, 0, d.params.BackBufferWidth, d.params.BackBufferHeight))
	unlock()

	core.LogInfo("graphics device reset (%dx%d, msaa %d)", d.params.BackBufferWidth, d.params.BackBufferHeight, d.params.MultiSampleCount)
	d.events.Fire(core.EVENT_CODE_DEVICE_RESET, d, core.EventContext{Data: &d.params})
	return nil
}

// Dispose disposes every resource still alive, flushes the disposal queues
// and destroys the native device. Calling it again is a no-op.
func (d *GraphicsDevice) Dispose() {
	if d.disposed {
		return
	}
	d.events.Fire(core.EVENT_CODE_DISPOSING, d, core.EventContext{})

	for _, r := range d.resources.Snapshot() {
		core.LogWarn("graphics resource %s was not disposed", r)
		r.Dispose()
	}

	unlock := d.lock()
	if d.userVertexBuffer != 0 {
		d.disposal.vertexBuffers.Enqueue(d.userVertexBuffer)
		d.userVertexBuffer = 0
	}
	if d.userIndexBuffer != 0 {
		d.disposal.indexBuffers.Enqueue(d.userIndexBuffer)
		d.userIndexBuffer = 0
	}
	d.flushDisposals()
	d.backend.DestroyDevice()
	d.disposed = true
	unlock()

	if d.background != nil {
		d.background.shutdown()
	}
	core.LogInfo("graphics device disposed")
}
