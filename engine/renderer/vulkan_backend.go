package renderer

import (
	"sync"

	"github.com/spaghettifunk/xnagfx/engine/math"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
	"github.com/spaghettifunk/xnagfx/engine/renderer/vulkan"
)

/**
 * @brief Decorates a Backend with a Vulkan pipeline translator. Every state
 * change is forwarded to the wrapped device and mirrored into the translator,
 * and every draw resolves the Vulkan pipeline for the state it was issued with.
 */
type VulkanBackend struct {
	Backend

	translator *vulkan.PipelineTranslator

	mutex   sync.Mutex
	formats map[metadata.Texture]metadata.SurfaceFormat
}

func NewVulkanBackend(inner Backend, params *metadata.PresentationParameters) *VulkanBackend {
	return &VulkanBackend{
		Backend:    inner,
		translator: vulkan.NewPipelineTranslator(params),
		formats:    make(map[metadata.Texture]metadata.SurfaceFormat),
	}
}

func (v *VulkanBackend) Translator() *vulkan.PipelineTranslator {
	return v.translator
}

func (v *VulkanBackend) SetBlendFactor(blendFactor math.Color) {
	f := blendFactor.ToVec4()
	v.translator.SetBlendFactor(f.X, f.Y, f.Z, f.W)
	v.Backend.SetBlendFactor(blendFactor)
}

func (v *VulkanBackend) SetMultiSampleMask(mask int32) {
	v.translator.SetMultiSampleMask(mask)
	v.Backend.SetMultiSampleMask(mask)
}

func (v *VulkanBackend) SetBlendState(blendState *metadata.BlendState) {
	v.translator.SetBlendState(blendState)
	v.Backend.SetBlendState(blendState)
}

func (v *VulkanBackend) SetDepthStencilState(depthStencilState *metadata.DepthStencilState) {
	v.translator.SetDepthStencilState(depthStencilState)
	v.Backend.SetDepthStencilState(depthStencilState)
}

func (v *VulkanBackend) ApplyRasterizerState(rasterizerState *metadata.RasterizerState) {
	v.translator.ApplyRasterizerState(rasterizerState)
	v.Backend.ApplyRasterizerState(rasterizerState)
}

func (v *VulkanBackend) VerifySampler(index int32, texture metadata.Texture, sampler *metadata.SamplerState) {
	v.translator.Sampler(sampler)
	v.Backend.VerifySampler(index, texture, sampler)
}

func (v *VulkanBackend) VerifyVertexSampler(index int32, texture metadata.Texture, sampler *metadata.SamplerState) {
	v.translator.Sampler(sampler)
	v.Backend.VerifyVertexSampler(index, texture, sampler)
}

func (v *VulkanBackend) SetRenderTargets(renderTargets []metadata.RenderTargetBinding, depthStencilBuffer metadata.Renderbuffer, depthFormat metadata.DepthFormat, preserveTargetContents bool) {
	formats := make([]metadata.SurfaceFormat, len(renderTargets))
	v.mutex.Lock()
	for i := range renderTargets {
		formats[i] = v.formats[renderTargets[i].Texture]
	}
	v.mutex.Unlock()
	v.translator.SetRenderTargets(renderTargets, depthFormat, formats)
	v.Backend.SetRenderTargets(renderTargets, depthStencilBuffer, depthFormat, preserveTargetContents)
}

func (v *VulkanBackend) ResetBackbuffer(presentationParameters *metadata.PresentationParameters) {
	v.translator.ResetBackbuffer(presentationParameters)
	v.Backend.ResetBackbuffer(presentationParameters)
}

func (v *VulkanBackend) ApplyEffect(effect metadata.Effect, pass uint32) {
	v.translator.ApplyEffect(effect, pass)
	v.Backend.ApplyEffect(effect, pass)
}

func (v *VulkanBackend) CreateTexture2D(format metadata.SurfaceFormat, width, height, levelCount int32, isRenderTarget bool) metadata.Texture {
	t := v.Backend.CreateTexture2D(format, width, height, levelCount, isRenderTarget)
	v.mutex.Lock()
	v.formats[t] = format
	v.mutex.Unlock()
	return t
}

func (v *VulkanBackend) CreateTextureCube(format metadata.SurfaceFormat, size, levelCount int32, isRenderTarget bool) metadata.Texture {
	t := v.Backend.CreateTextureCube(format, size, levelCount, isRenderTarget)
	v.mutex.Lock()
	v.formats[t] = format
	v.mutex.Unlock()
	return t
}

func (v *VulkanBackend) AddDisposeTexture(texture metadata.Texture) {
	v.mutex.Lock()
	delete(v.formats, texture)
	v.mutex.Unlock()
	v.Backend.AddDisposeTexture(texture)
}

func (v *VulkanBackend) DrawPrimitives(primitiveType metadata.PrimitiveType, vertexStart, primitiveCount int32) {
	v.translator.Draw(primitiveType)
	v.Backend.DrawPrimitives(primitiveType, vertexStart, primitiveCount)
}

func (v *VulkanBackend) DrawIndexedPrimitives(primitiveType metadata.PrimitiveType, baseVertex, minVertexIndex, numVertices, startIndex, primitiveCount int32, indices metadata.Buffer, indexElementSize metadata.IndexElementSize) {
	v.translator.Draw(primitiveType)
	v.Backend.DrawIndexedPrimitives(primitiveType, baseVertex, minVertexIndex, numVertices, startIndex, primitiveCount, indices, indexElementSize)
}

func (v *VulkanBackend) DrawInstancedPrimitives(primitiveType metadata.PrimitiveType, baseVertex, minVertexIndex, numVertices, startIndex, primitiveCount, instanceCount int32, indices metadata.Buffer, indexElementSize metadata.IndexElementSize) {
	v.translator.Draw(primitiveType)
	v.Backend.DrawInstancedPrimitives(primitiveType, baseVertex, minVertexIndex, numVertices, startIndex, primitiveCount, instanceCount, indices, indexElementSize)
}
