package renderer

import (
	"github.com/spaghettifunk/xnagfx/engine/math"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

// Backend is the native device. A Backend value is the device handle: it is
// created by New and destroyed by DestroyDevice. Every method must be called
// from the goroutine that owns the device; objects released on other
// goroutines are queued and handed to the AddDispose* family from there.
type Backend interface {
	DestroyDevice()

	// Presentation
	SwapBuffers(sourceRectangle, destinationRectangle *math.Rectangle, overrideWindowHandle uintptr)

	// Drawing
	Clear(options metadata.ClearOptions, color math.Vec4, depth float32, stencil int32)
	DrawIndexedPrimitives(primitiveType metadata.PrimitiveType, baseVertex, minVertexIndex, numVertices, startIndex, primitiveCount int32, indices metadata.Buffer, indexElementSize metadata.IndexElementSize)
	DrawInstancedPrimitives(primitiveType metadata.PrimitiveType, baseVertex, minVertexIndex, numVertices, startIndex, primitiveCount, instanceCount int32, indices metadata.Buffer, indexElementSize metadata.IndexElementSize)
	DrawPrimitives(primitiveType metadata.PrimitiveType, vertexStart, primitiveCount int32)

	// Mutable render states
	SetViewport(viewport *metadata.Viewport)
	SetScissorRect(scissor *math.Rectangle)
	GetBlendFactor() math.Color
	SetBlendFactor(blendFactor math.Color)
	GetMultiSampleMask() int32
	SetMultiSampleMask(mask int32)
	GetReferenceStencil() int32
	SetReferenceStencil(ref int32)

	// Immutable render states
	SetBlendState(blendState *metadata.BlendState)
	SetDepthStencilState(depthStencilState *metadata.DepthStencilState)
	ApplyRasterizerState(rasterizerState *metadata.RasterizerState)
	VerifySampler(index int32, texture metadata.Texture, sampler *metadata.SamplerState)
	VerifyVertexSampler(index int32, texture metadata.Texture, sampler *metadata.SamplerState)

	// Vertex state
	ApplyVertexBufferBindings(bindings []metadata.VertexBufferBinding, bindingsUpdated bool, baseVertex int32)

	// Render targets
	SetRenderTargets(renderTargets []metadata.RenderTargetBinding, depthStencilBuffer metadata.Renderbuffer, depthFormat metadata.DepthFormat, preserveTargetContents bool)
	ResolveTarget(target *metadata.RenderTargetBinding)

	// Backbuffer
	ResetBackbuffer(presentationParameters *metadata.PresentationParameters)
	ReadBackbuffer(x, y, w, h int32, data []byte)
	GetBackbufferSize() (int32, int32)
	GetBackbufferSurfaceFormat() metadata.SurfaceFormat
	GetBackbufferDepthFormat() metadata.DepthFormat
	GetBackbufferMultiSampleCount() int32

	// Textures
	CreateTexture2D(format metadata.SurfaceFormat, width, height, levelCount int32, isRenderTarget bool) metadata.Texture
	CreateTextureCube(format metadata.SurfaceFormat, size, levelCount int32, isRenderTarget bool) metadata.Texture
	AddDisposeTexture(texture metadata.Texture)
	SetTextureData2D(texture metadata.Texture, x, y, w, h, level int32, data []byte)
	SetTextureDataCube(texture metadata.Texture, x, y, w, h int32, cubeMapFace metadata.CubeMapFace, level int32, data []byte)
	GetTextureData2D(texture metadata.Texture, x, y, w, h, level int32, data []byte)
	GetTextureDataCube(texture metadata.Texture, x, y, w, h int32, cubeMapFace metadata.CubeMapFace, level int32, data []byte)

	// Renderbuffers
	GenColorRenderbuffer(width, height int32, format metadata.SurfaceFormat, multiSampleCount int32, texture metadata.Texture) metadata.Renderbuffer
	GenDepthStencilRenderbuffer(width, height int32, format metadata.DepthFormat, multiSampleCount int32) metadata.Renderbuffer
	AddDisposeRenderbuffer(renderbuffer metadata.Renderbuffer)

	// Vertex buffers
	GenVertexBuffer(dynamic bool, usage metadata.BufferUsage, sizeInBytes int32) metadata.Buffer
	AddDisposeVertexBuffer(buffer metadata.Buffer)
	SetVertexBufferData(buffer metadata.Buffer, offsetInBytes int32, data []byte, elementCount, elementSizeInBytes, vertexStride int32, options metadata.SetDataOptions)
	GetVertexBufferData(buffer metadata.Buffer, offsetInBytes int32, data []byte, elementCount, elementSizeInBytes, vertexStride int32)

	// Index buffers
	GenIndexBuffer(dynamic bool, usage metadata.BufferUsage, sizeInBytes int32) metadata.Buffer
	AddDisposeIndexBuffer(buffer metadata.Buffer)
	SetIndexBufferData(buffer metadata.Buffer, offsetInBytes int32, data []byte, options metadata.SetDataOptions)
	GetIndexBufferData(buffer metadata.Buffer, offsetInBytes int32, data []byte)

	// Effects
	CreateEffect(code []byte) (metadata.Effect, error)
	AddDisposeEffect(effect metadata.Effect)
	ApplyEffect(effect metadata.Effect, pass uint32)

	// Queries
	CreateQuery() metadata.Query
	AddDisposeQuery(query metadata.Query)
	QueryBegin(query metadata.Query)
	QueryEnd(query metadata.Query)
	QueryComplete(query metadata.Query) bool
	QueryPixelCount(query metadata.Query) int32

	// Feature queries
	SupportsHardwareInstancing() bool
	SupportsNoOverwrite() bool
	GetMaxTextureSlots() (textures int32, vertexTextures int32)
	GetMaxMultiSampleCount(format metadata.SurfaceFormat, multiSampleCount int32) int32
}
