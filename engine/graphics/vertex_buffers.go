package graphics

import (
	"fmt"

	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

type VertexBufferBinding struct {
	VertexBuffer      *VertexBuffer
	VertexOffset      int32
	InstanceFrequency int32
}

func (b VertexBufferBinding) native() metadata.VertexBufferBinding {
	return metadata.VertexBufferBinding{
		VertexBuffer:      b.VertexBuffer.native,
		VertexDeclaration: b.VertexBuffer.VertexDeclaration.native(),
		VertexOffset:      b.VertexOffset,
		InstanceFrequency: b.InstanceFrequency,
	}
}

func (d *GraphicsDevice) GetVertexBuffers() []VertexBufferBinding {
	return append([]VertexBufferBinding(nil), d.vertexBufferBindings[:d.vertexBufferCount]...)
}

// SetVertexBuffer binds vertexBuffer alone at vertexOffset. nil unbinds every
// vertex buffer.
func (d *GraphicsDevice) SetVertexBuffer(vertexBuffer *VertexBuffer, vertexOffset int32) {
	if vertexBuffer == nil {
		d.clearVertexBuffers()
		return
	}
	first := &d.vertexBufferBindings[0]
	if first.VertexBuffer != vertexBuffer || first.VertexOffset != vertexOffset || first.InstanceFrequency != 0 {
		*first = VertexBufferBinding{VertexBuffer: vertexBuffer, VertexOffset: vertexOffset}
		d.vertexBuffersUpdated = true
	}
	if d.vertexBufferCount > 1 {
		for i := 1; i < d.vertexBufferCount; i++ {
			d.vertexBufferBindings[i] = VertexBufferBinding{}
		}
		d.vertexBuffersUpdated = true
	}
	d.vertexBufferCount = 1
}

// SetVertexBuffers binds the given buffers to consecutive slots. Slots whose
// buffer, offset and frequency are unchanged do not count as an update.
func (d *GraphicsDevice) SetVertexBuffers(bindings ...VertexBufferBinding) error {
	if len(bindings) == 0 {
		d.clearVertexBuffers()
		return nil
	}
	if len(bindings) > len(d.vertexBufferBindings) {
		return fmt.Errorf("%w: %d vertex buffers, %d slots", ErrInvalidArgument, len(bindings), len(d.vertexBufferBindings))
	}
	for i, b := range bindings {
		if b.VertexBuffer == nil {
			return fmt.Errorf("%w: vertex buffer %d is nil", ErrInvalidArgument, i)
		}
	}

	i := 0
	for ; i < len(bindings); i++ {
		if d.vertexBufferBindings[i] != bindings[i] {
			d.vertexBufferBindings[i] = bindings[i]
			d.vertexBuffersUpdated = true
		}
	}
	if len(bindings) < d.vertexBufferCount {
		for ; i < d.vertexBufferCount; i++ {
			d.vertexBufferBindings[i] = VertexBufferBinding{}
		}
		d.vertexBuffersUpdated = true
	}
	d.vertexBufferCount = len(bindings)
	return nil
}

func (d *GraphicsDevice) clearVertexBuffers() {
	if d.vertexBufferCount == 0 {
		return
	}
	for i := 0; i < d.vertexBufferCount; i++ {
		d.vertexBufferBindings[i] = VertexBufferBinding{}
	}
	d.vertexBufferCount = 0
	d.vertexBuffersUpdated = true
}

func (d *GraphicsDevice) Indices() *IndexBuffer {
	return d.indices
}

func (d *GraphicsDevice) SetIndices(indices *IndexBuffer) {
	d.indices = indices
}

// prepareVertexBindingArray hands the bound vertex buffers to the backend
// unless the bindings, base vertex and effect pass all match the last draw.
func (d *GraphicsDevice) prepareVertexBindingArray(baseVertex int32) {
	if !d.vertexBuffersUpdated &&
		!d.effectApplied &&
		baseVertex == d.ldBaseVertex &&
		d.currentEffect == d.ldEffect &&
		d.currentTechnique == d.ldTechnique &&
		d.currentPass == d.ldPass {
		return
	}
	for i := 0; i < d.vertexBufferCount; i++ {
		d.nativeBufferBindings[i] = d.vertexBufferBindings[i].native()
	}
	d.backend.ApplyVertexBufferBindings(d.nativeBufferBindings[:d.vertexBufferCount], d.vertexBuffersUpdated, baseVertex)
	d.metrics.VertexBindingApplies++

	d.vertexBuffersUpdated = false
	d.effectApplied = false
	d.ldBaseVertex = baseVertex
	d.ldEffect = d.currentEffect
	d.ldTechnique = d.currentTechnique
	d.ldPass = d.currentPass
}

func (d *GraphicsDevice) checkDraw(indexed bool) error {
	if d.disposed {
		return ErrDeviceDisposed
	}
	if d.vertexBufferCount == 0 {
		return ErrNoVertexBuffer
	}
	for i := 0; i < d.vertexBufferCount; i++ {
		if d.vertexBufferBindings[i].VertexBuffer.IsDisposed() {
			return fmt.Errorf("%w: vertex buffer %d", ErrResourceDisposed, i)
		}
	}
	if indexed {
		if d.indices == nil {
			return ErrNoIndexBuffer
		}
		if d.indices.IsDisposed() {
			return fmt.Errorf("%w: index buffer", ErrResourceDisposed)
		}
	}
	return nil
}

// DrawPrimitives draws primitiveCount primitives from the bound vertex
// buffers, starting at vertexStart.
func (d *GraphicsDevice) DrawPrimitives(primitiveType metadata.PrimitiveType, vertexStart, primitiveCount int32) error {
	if err := d.checkDraw(false); err != nil {
		return err
	}
	defer d.lock()()
	d.applyState()
	d.prepareVertexBindingArray(0)
	d.backend.DrawPrimitives(primitiveType, vertexStart, primitiveCount)
	d.metrics.Draws++
	return nil
}

func (d *GraphicsDevice) DrawIndexedPrimitives(primitiveType metadata.PrimitiveType, baseVertex, minVertexIndex, numVertices, startIndex, primitiveCount int32) error {
	if err := d.checkDraw(true); err != nil {
		return err
	}
	defer d.lock()()
	d.applyState()
	d.prepareVertexBindingArray(baseVertex)
	d.backend.DrawIndexedPrimitives(
		primitiveType,
		baseVertex,
		minVertexIndex,
		numVertices,
		startIndex,
		primitiveCount,
		d.indices.native,
		d.indices.IndexElementSize,
	)
	d.metrics.Draws++
	return nil
}

// DrawInstancedPrimitives fails with ErrUnsupportedFeature before touching
// the backend when it cannot instance.
func (d *GraphicsDevice) DrawInstancedPrimitives(primitiveType metadata.PrimitiveType, baseVertex, minVertexIndex, numVertices, startIndex, primitiveCount, instanceCount int32) error {
	if !d.backend.SupportsHardwareInstancing() {
		return fmt.Errorf("%w: hardware instancing", ErrUnsupportedFeature)
	}
	if err := d.checkDraw(true); err != nil {
		return err
	}
	defer d.lock()()
	d.applyState()
	d.prepareVertexBindingArray(baseVertex)
	d.backend.DrawInstancedPrimitives(
		primitiveType,
		baseVertex,
		minVertexIndex,
		numVertices,
		startIndex,
		primitiveCount,
		instanceCount,
		d.indices.native,
		d.indices.IndexElementSize,
	)
	d.metrics.Draws++
	return nil
}
