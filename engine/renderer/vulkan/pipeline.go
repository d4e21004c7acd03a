package vulkan

import (
	"sync"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/xnagfx/engine/core"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

const maxColorAttachments = 4

/**
 * @brief The fixed-function portion of a Vulkan graphics pipeline, built from
 * the device state that was current at draw time.
 */
type VulkanPipeline struct {
	/** @brief Sequential id, assigned when the state combination is first seen. */
	ID uint32
	/** @brief Number of draws that used this pipeline. */
	Uses uint64

	ColorBlendAttachments []vk.PipelineColorBlendAttachmentState
	ColorBlend            vk.PipelineColorBlendStateCreateInfo
	DepthStencil          vk.PipelineDepthStencilStateCreateInfo
	Rasterization         vk.PipelineRasterizationStateCreateInfo
	Multisample           vk.PipelineMultisampleStateCreateInfo
	InputAssembly         vk.PipelineInputAssemblyStateCreateInfo

	ColorFormats []vk.Format
	DepthFormat  vk.Format
	Effect       metadata.Effect
	Pass         uint32
}

// stencilKey and pipelineKey hold only enum and scalar values so they can be
// used as map keys.
type stencilKey struct {
	fail, pass, depthFail vk.StencilOp
	compare               vk.CompareOp
}

type attachmentKey struct {
	enable             vk.Bool32
	srcColor, dstColor vk.BlendFactor
	colorOp            vk.BlendOp
	srcAlpha, dstAlpha vk.BlendFactor
	alphaOp            vk.BlendOp
	writeMask          vk.ColorComponentFlags
}

type pipelineKey struct {
	attachments    [maxColorAttachments]attachmentKey
	attachmentN    int
	blendConstants [4]float32

	depthTest, depthWrite, stencilTest vk.Bool32
	depthCompare                       vk.CompareOp
	front, back                        stencilKey
	stencilCompareMask                 uint32
	stencilWriteMask                   uint32

	polygonMode vk.PolygonMode
	cullMode    vk.CullModeFlags
	frontFace   vk.FrontFace
	depthBias   [2]float32

	samples    vk.SampleCountFlagBits
	sampleMask uint32
	topology   vk.PrimitiveTopology

	colorFormats [maxColorAttachments]vk.Format
	depthFormat  vk.Format
	effect       metadata.Effect
	pass         uint32
}

type samplerKey struct {
	minFilter, magFilter vk.Filter
	mipmap               vk.SamplerMipmapMode
	u, v, w              vk.SamplerAddressMode
	lodBias              float32
	anisotropy           int32
	maxMipLevel          int32
}

/**
 * @brief Translates device state into Vulkan pipeline and sampler
 * descriptions. A pipeline is created the first time a draw uses a state
 * combination and looked up on every later draw.
 */
type PipelineTranslator struct {
	mutex sync.Mutex

	blend        metadata.BlendState
	depthStencil metadata.DepthStencilState
	rasterizer   metadata.RasterizerState
	blendFactor  [4]float32
	sampleMask   uint32

	renderTargetBound bool
	colorFormats      []vk.Format
	backbufferFormat  vk.Format
	depthFormat       vk.Format
	backbufferDepth   vk.Format
	samples           vk.SampleCountFlagBits
	backbufferSamples vk.SampleCountFlagBits

	effect metadata.Effect
	pass   uint32

	pipelines map[pipelineKey]*VulkanPipeline
	samplers  map[samplerKey]vk.SamplerCreateInfo
	current   *VulkanPipeline
}

func NewPipelineTranslator(params *metadata.PresentationParameters) *PipelineTranslator {
	t := &PipelineTranslator{
		pipelines:   make(map[pipelineKey]*VulkanPipeline),
		samplers:    make(map[samplerKey]vk.SamplerCreateInfo),
		sampleMask:  0xFFFFFFFF,
		blendFactor: [4]float32{1, 1, 1, 1},
	}
	t.ResetBackbuffer(params)
	return t
}

func (t *PipelineTranslator) ResetBackbuffer(params *metadata.PresentationParameters) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.backbufferFormat = Format(params.BackBufferFormat)
	t.backbufferDepth = DepthFormat(params.DepthStencilFormat)
	t.backbufferSamples = SampleCount(params.MultiSampleCount)
	if !t.renderTargetBound {
		t.colorFormats = append(t.colorFormats[:0], t.backbufferFormat)
		t.depthFormat = t.backbufferDepth
		t.samples = t.backbufferSamples
	}
}

func (t *PipelineTranslator) SetBlendState(blendState *metadata.BlendState) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.blend = *blendState
	f := blendState.BlendFactor.ToVec4()
	t.setBlendFactor(f.X, f.Y, f.Z, f.W)
	t.sampleMask = uint32(blendState.MultiSampleMask)
}

func (t *PipelineTranslator) setBlendFactor(r, g, b, a float32) {
	t.blendFactor = [4]float32{r, g, b, a}
}

// SetBlendFactor records the blend constants.
func (t *PipelineTranslator) SetBlendFactor(r, g, b, a float32) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.setBlendFactor(r, g, b, a)
}

func (t *PipelineTranslator) SetMultiSampleMask(mask int32) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.sampleMask = uint32(mask)
}

func (t *PipelineTranslator) SetDepthStencilState(depthStencilState *metadata.DepthStencilState) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.depthStencil = *depthStencilState
}

func (t *PipelineTranslator) ApplyRasterizerState(rasterizerState *metadata.RasterizerState) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.rasterizer = *rasterizerState
}

func (t *PipelineTranslator) SetRenderTargets(renderTargets []metadata.RenderTargetBinding, depthFormat metadata.DepthFormat, formats []metadata.SurfaceFormat) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if len(renderTargets) == 0 {
		t.renderTargetBound = false
		t.colorFormats = append(t.colorFormats[:0], t.backbufferFormat)
		t.depthFormat = t.backbufferDepth
		t.samples = t.backbufferSamples
		return
	}
	t.renderTargetBound = true
	t.colorFormats = t.colorFormats[:0]
	for i := range renderTargets {
		format := metadata.SurfaceFormatColor
		if i < len(formats) {
			format = formats[i]
		}
		t.colorFormats = append(t.colorFormats, Format(format))
	}
	t.depthFormat = DepthFormat(depthFormat)
	t.samples = SampleCount(renderTargets[0].MultiSampleCount)
}

func (t *PipelineTranslator) ApplyEffect(effect metadata.Effect, pass uint32) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.effect = effect
	t.pass = pass
}

// Sampler returns the sampler description for a sampler state, creating it on
// first use.
func (t *PipelineTranslator) Sampler(sampler *metadata.SamplerState) vk.SamplerCreateInfo {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	minFilter, magFilter, mip := Filter(sampler.Filter)
	key := samplerKey{
		minFilter:   minFilter,
		magFilter:   magFilter,
		mipmap:      mip,
		u:           SamplerAddressMode(sampler.AddressU),
		v:           SamplerAddressMode(sampler.AddressV),
		w:           SamplerAddressMode(sampler.AddressW),
		lodBias:     sampler.MipMapLevelOfDetailBias,
		anisotropy:  sampler.MaxAnisotropy,
		maxMipLevel: sampler.MaxMipLevel,
	}
	if info, ok := t.samplers[key]; ok {
		return info
	}
	info := vk.SamplerCreateInfo{
		SType:            vk.StructureTypeSamplerCreateInfo,
		MagFilter:        magFilter,
		MinFilter:        minFilter,
		MipmapMode:       mip,
		AddressModeU:     key.u,
		AddressModeV:     key.v,
		AddressModeW:     key.w,
		MipLodBias:       sampler.MipMapLevelOfDetailBias,
		AnisotropyEnable: boolToVk(sampler.Filter == metadata.TextureFilterAnisotropic),
		MaxAnisotropy:    float32(max(sampler.MaxAnisotropy, 1)),
		CompareEnable:    vk.False,
		CompareOp:        vk.CompareOpNever,
		MinLod:           float32(sampler.MaxMipLevel),
		MaxLod:           1000,
	}
	t.samplers[key] = info
	core.LogDebug("vulkan sampler description %d created", len(t.samplers))
	return info
}

// Draw returns the pipeline for the current state and the given topology.
func (t *PipelineTranslator) Draw(primitiveType metadata.PrimitiveType) *VulkanPipeline {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	key := t.key(PrimitiveTopology(primitiveType))
	if p, ok := t.pipelines[key]; ok {
		p.Uses++
		t.current = p
		return p
	}
	p := t.build(&key)
	p.ID = uint32(len(t.pipelines)) + 1
	p.Uses = 1
	t.pipelines[key] = p
	t.current = p
	core.LogDebug("vulkan pipeline %d created (topology=%d, attachments=%d)", p.ID, key.topology, key.attachmentN)
	return p
}

// PipelineCount reports how many distinct pipelines have been created.
func (t *PipelineTranslator) PipelineCount() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return len(t.pipelines)
}

// SamplerCount reports how many distinct samplers have been created.
func (t *PipelineTranslator) SamplerCount() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return len(t.samplers)
}

// Current returns the pipeline used by the last draw, or nil.
func (t *PipelineTranslator) Current() *VulkanPipeline {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.current
}

func (t *PipelineTranslator) key(topology vk.PrimitiveTopology) pipelineKey {
	bs := &t.blend
	ds := &t.depthStencil
	rs := &t.rasterizer

	key := pipelineKey{
		attachmentN:    min(len(t.colorFormats), maxColorAttachments),
		blendConstants: t.blendFactor,

		depthTest:    boolToVk(ds.DepthBufferEnable),
		depthWrite:   boolToVk(ds.DepthBufferEnable && ds.DepthBufferWriteEnable),
		depthCompare: CompareOp(ds.DepthBufferFunction),
		stencilTest:  boolToVk(ds.StencilEnable),

		polygonMode: PolygonMode(rs.FillMode),
		cullMode:    CullMode(rs.CullMode),
		frontFace:   FrontFace(t.renderTargetBound),
		depthBias:   [2]float32{rs.DepthBias, rs.SlopeScaleDepthBias},

		samples:    t.samples,
		sampleMask: t.sampleMask,
		topology:   topology,

		depthFormat: t.depthFormat,
		effect:      t.effect,
		pass:        t.pass,
	}
	if !rs.MultiSampleAntiAlias {
		key.samples = vk.SampleCount1Bit
	}
	if ds.StencilEnable {
		key.stencilCompareMask = uint32(ds.StencilMask)
		key.stencilWriteMask = uint32(ds.StencilWriteMask)
		key.front = stencilKey{
			fail:      StencilOp(ds.StencilFail),
			pass:      StencilOp(ds.StencilPass),
			depthFail: StencilOp(ds.StencilDepthBufferFail),
			compare:   CompareOp(ds.StencilFunction),
		}
		key.back = key.front
		if ds.TwoSidedStencilMode {
			key.back = stencilKey{
				fail:      StencilOp(ds.CounterClockwiseStencilFail),
				pass:      StencilOp(ds.CounterClockwiseStencilPass),
				depthFail: StencilOp(ds.CounterClockwiseStencilDepthBufferFail),
				compare:   CompareOp(ds.CounterClockwiseStencilFunction),
			}
		}
	}

	enabled := !(bs.ColorSourceBlend == metadata.BlendOne && bs.ColorDestinationBlend == metadata.BlendZero &&
		bs.AlphaSourceBlend == metadata.BlendOne && bs.AlphaDestinationBlend == metadata.BlendZero)
	for i := 0; i < key.attachmentN; i++ {
		key.colorFormats[i] = t.colorFormats[i]
		key.attachments[i] = attachmentKey{
			enable:    boolToVk(enabled),
			srcColor:  BlendFactor(bs.ColorSourceBlend),
			dstColor:  BlendFactor(bs.ColorDestinationBlend),
			colorOp:   BlendOp(bs.ColorBlendFunction),
			srcAlpha:  BlendFactor(bs.AlphaSourceBlend),
			dstAlpha:  BlendFactor(bs.AlphaDestinationBlend),
			alphaOp:   BlendOp(bs.AlphaBlendFunction),
			writeMask: ColorWriteMask(bs.WriteMask(i)),
		}
	}
	return key
}

func (t *PipelineTranslator) build(key *pipelineKey) *VulkanPipeline {
	p := &VulkanPipeline{
		DepthFormat: key.depthFormat,
		Effect:      key.effect,
		Pass:        key.pass,
	}

	for i := 0; i < key.attachmentN; i++ {
		a := key.attachments[i]
		p.ColorBlendAttachments = append(p.ColorBlendAttachments, vk.PipelineColorBlendAttachmentState{
			BlendEnable:         a.enable,
			SrcColorBlendFactor: a.srcColor,
			DstColorBlendFactor: a.dstColor,
			ColorBlendOp:        a.colorOp,
			SrcAlphaBlendFactor: a.srcAlpha,
			DstAlphaBlendFactor: a.dstAlpha,
			AlphaBlendOp:        a.alphaOp,
			ColorWriteMask:      a.writeMask,
		})
		p.ColorFormats = append(p.ColorFormats, key.colorFormats[i])
	}
	p.ColorBlend = vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: uint32(len(p.ColorBlendAttachments)),
		PAttachments:    p.ColorBlendAttachments,
		BlendConstants:  key.blendConstants,
	}

	stencil := func(s stencilKey) vk.StencilOpState {
		return vk.StencilOpState{
			FailOp:      s.fail,
			PassOp:      s.pass,
			DepthFailOp: s.depthFail,
			CompareOp:   s.compare,
			CompareMask: key.stencilCompareMask,
			WriteMask:   key.stencilWriteMask,
		}
	}
	p.DepthStencil = vk.PipelineDepthStencilStateCreateInfo{
		SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:       key.depthTest,
		DepthWriteEnable:      key.depthWrite,
		DepthCompareOp:        key.depthCompare,
		DepthBoundsTestEnable: vk.False,
		StencilTestEnable:     key.stencilTest,
		Front:                 stencil(key.front),
		Back:                  stencil(key.back),
		MinDepthBounds:        0,
		MaxDepthBounds:        1,
	}

	p.Rasterization = vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             key.polygonMode,
		CullMode:                key.cullMode,
		FrontFace:               key.frontFace,
		DepthBiasEnable:         boolToVk(key.depthBias[0] != 0 || key.depthBias[1] != 0),
		DepthBiasConstantFactor: key.depthBias[0],
		DepthBiasClamp:          0,
		DepthBiasSlopeFactor:    key.depthBias[1],
		LineWidth:               1.0,
	}

	p.Multisample = vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples:  key.samples,
		SampleShadingEnable:   vk.False,
		MinSampleShading:      1.0,
		PSampleMask:           []vk.SampleMask{vk.SampleMask(key.sampleMask)},
		AlphaToCoverageEnable: vk.False,
		AlphaToOneEnable:      vk.False,
	}

	p.InputAssembly = vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               key.topology,
		PrimitiveRestartEnable: vk.False,
	}
	return p
}
