package graphics

import (
	"testing"

	"github.com/spaghettifunk/xnagfx/engine/math"
	"github.com/spaghettifunk/xnagfx/engine/renderer"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
	"github.com/spaghettifunk/xnagfx/engine/renderer/software"
)

// spyBackend records the native calls a device issues and forwards them to a
// software backend.
type spyBackend struct {
	*software.Backend

	calls     []string
	clears    []metadata.ClearOptions
	resolved  []metadata.RenderTargetBinding
	viewports []metadata.Viewport
	scissors  []math.Rectangle
}

func (s *spyBackend) record(name string) {
	s.calls = append(s.calls, name)
}

func (s *spyBackend) count(name string) int {
	n := 0
	for _, c := range s.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (s *spyBackend) reset() {
	s.calls = nil
	s.clears = nil
	s.resolved = nil
	s.viewports = nil
	s.scissors = nil
}

func (s *spyBackend) SwapBuffers(sourceRectangle, destinationRectangle *math.Rectangle, overrideWindowHandle uintptr) {
	s.record("SwapBuffers")
	s.Backend.SwapBuffers(sourceRectangle, destinationRectangle, overrideWindowHandle)
}

func (s *spyBackend) Clear(options metadata.ClearOptions, color math.Vec4, depth float32, stencil int32) {
	s.record("Clear")
	s.clears = append(s.clears, options)
	s.Backend.Clear(options, color, depth, stencil)
}

func (s *spyBackend) DrawPrimitives(primitiveType metadata.PrimitiveType, vertexStart, primitiveCount int32) {
	s.record("DrawPrimitives")
	s.Backend.DrawPrimitives(primitiveType, vertexStart, primitiveCount)
}

func (s *spyBackend) DrawIndexedPrimitives(primitiveType metadata.PrimitiveType, baseVertex, minVertexIndex, numVertices, startIndex, primitiveCount int32, indices metadata.Buffer, indexElementSize metadata.IndexElementSize) {
	s.record("DrawIndexedPrimitives")
	s.Backend.DrawIndexedPrimitives(primitiveType, baseVertex, minVertexIndex, numVertices, startIndex, primitiveCount, indices, indexElementSize)
}

func (s *spyBackend) DrawInstancedPrimitives(primitiveType metadata.PrimitiveType, baseVertex, minVertexIndex, numVertices, startIndex, primitiveCount, instanceCount int32, indices metadata.Buffer, indexElementSize metadata.IndexElementSize) {
	s.record("DrawInstancedPrimitives")
	s.Backend.DrawInstancedPrimitives(primitiveType, baseVertex, minVertexIndex, numVertices, startIndex, primitiveCount, instanceCount, indices, indexElementSize)
}

func (s *spyBackend) SetViewport(viewport *metadata.Viewport) {
	s.record("SetViewport")
	s.viewports = append(s.viewports, *viewport)
	s.Backend.SetViewport(viewport)
}

func (s *spyBackend) SetScissorRect(scissor *math.Rectangle) {
	s.record("SetScissorRect")
	s.scissors = append(s.scissors, *scissor)
	s.Backend.SetScissorRect(scissor)
}

func (s *spyBackend) SetBlendFactor(blendFactor math.Color) {
	s.record("SetBlendFactor")
	s.Backend.SetBlendFactor(blendFactor)
}

func (s *spyBackend) SetMultiSampleMask(mask int32) {
	s.record("SetMultiSampleMask")
	s.Backend.SetMultiSampleMask(mask)
}

func (s *spyBackend) SetReferenceStencil(ref int32) {
	s.record("SetReferenceStencil")
	s.Backend.SetReferenceStencil(ref)
}

func (s *spyBackend) SetBlendState(blendState *metadata.BlendState) {
	s.record("SetBlendState")
	s.Backend.SetBlendState(blendState)
}

func (s *spyBackend) SetDepthStencilState(depthStencilState *metadata.DepthStencilState) {
	s.record("SetDepthStencilState")
	s.Backend.SetDepthStencilState(depthStencilState)
}

func (s *spyBackend) ApplyRasterizerState(rasterizerState *metadata.RasterizerState) {
	s.record("ApplyRasterizerState")
	s.Backend.ApplyRasterizerState(rasterizerState)
}

func (s *spyBackend) VerifySampler(index int32, texture metadata.Texture, sampler *metadata.SamplerState) {
	s.record("VerifySampler")
	s.Backend.VerifySampler(index, texture, sampler)
}

func (s *spyBackend) VerifyVertexSampler(index int32, texture metadata.Texture, sampler *metadata.SamplerState) {
	s.record("VerifyVertexSampler")
	s.Backend.VerifyVertexSampler(index, texture, sampler)
}

func (s *spyBackend) ApplyVertexBufferBindings(bindings []metadata.VertexBufferBinding, bindingsUpdated bool, baseVertex int32) {
	s.record("ApplyVertexBufferBindings")
	s.Backend.ApplyVertexBufferBindings(bindings, bindingsUpdated, baseVertex)
}

func (s *spyBackend) SetRenderTargets(renderTargets []metadata.RenderTargetBinding, depthStencilBuffer metadata.Renderbuffer, depthFormat metadata.DepthFormat, preserveTargetContents bool) {
	s.record("SetRenderTargets")
	s.Backend.SetRenderTargets(renderTargets, depthStencilBuffer, depthFormat, preserveTargetContents)
}

func (s *spyBackend) ResolveTarget(target *metadata.RenderTargetBinding) {
	s.record("ResolveTarget")
	s.resolved = append(s.resolved, *target)
	s.Backend.ResolveTarget(target)
}

func (s *spyBackend) AddDisposeTexture(texture metadata.Texture) {
	s.record("AddDisposeTexture")
	s.Backend.AddDisposeTexture(texture)
}

func (s *spyBackend) AddDisposeVertexBuffer(buffer metadata.Buffer) {
	s.record("AddDisposeVertexBuffer")
	s.Backend.AddDisposeVertexBuffer(buffer)
}

func (s *spyBackend) ResetBackbuffer(presentationParameters *metadata.PresentationParameters) {
	s.record("ResetBackbuffer")
	s.Backend.ResetBackbuffer(presentationParameters)
}

func (s *spyBackend) ApplyEffect(effect metadata.Effect, pass uint32) {
	s.record("ApplyEffect")
	s.Backend.ApplyEffect(effect, pass)
}

func spyFactory(spy **spyBackend, opts ...software.Option) DeviceOption {
	return WithBackendFactory(func(params *metadata.PresentationParameters) (renderer.Backend, error) {
		sw, err := software.New(params, opts...)
		if err != nil {
			return nil, err
		}
		*spy = &spyBackend{Backend: sw}
		return *spy, nil
	})
}

func testParams(width, height int32) metadata.PresentationParameters {
	pp := metadata.DefaultPresentationParameters()
	pp.BackBufferWidth = width
	pp.BackBufferHeight = height
	return pp
}

func newTestDevice(t *testing.T, width, height int32, opts ...DeviceOption) (*GraphicsDevice, *spyBackend) {
	t.Helper()
	var spy *spyBackend
	pp := testParams(width, height)
	d, err := NewGraphicsDevice(&pp, append([]DeviceOption{spyFactory(&spy)}, opts...)...)
	if err != nil {
		t.Fatalf("NewGraphicsDevice() error = %v", err)
	}
	t.Cleanup(d.Dispose)
	return d, spy
}

// fullscreenTriangle covers the whole viewport and is clockwise on screen.
func fullscreenTriangle(c math.Color) []VertexPositionColor {
	return []VertexPositionColor{
		{Position: math.Vec3{X: -1, Y: -1}, Color: c},
		{Position: math.Vec3{X: -1, Y: 3}, Color: c},
		{Position: math.Vec3{X: 3, Y: -1}, Color: c},
	}
}

func newTriangleBuffer(t *testing.T, d *GraphicsDevice, c math.Color) *VertexBuffer {
	t.Helper()
	verts := fullscreenTriangle(c)
	vb, err := NewVertexBuffer(d, VertexPositionColor{}.VertexDeclaration(), int32(len(verts)), metadata.BufferUsageWriteOnly)
	if err != nil {
		t.Fatalf("NewVertexBuffer() error = %v", err)
	}
	if err := SetVertexData(vb, verts); err != nil {
		t.Fatalf("SetVertexData() error = %v", err)
	}
	t.Cleanup(vb.Dispose)
	return vb
}

func pixelAt(data []byte, width, x, y int) math.Color {
	i := (y*width + x) * 4
	return math.NewColor(data[i], data[i+1], data[i+2], data[i+3])
}
