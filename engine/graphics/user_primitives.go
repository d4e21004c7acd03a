package graphics

import (
	"fmt"
	gomath "math"
	"unsafe"

	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

// DrawUserPrimitives draws vertices straight from memory. The vertices are
// streamed into a device owned buffer that is discarded on every call.
func DrawUserPrimitives[T any](
	d *GraphicsDevice,
	primitiveType metadata.PrimitiveType,
	vertexData []T,
	vertexOffset, primitiveCount int32,
	declaration *VertexDeclaration,
) error {
	if d.disposed {
		return ErrDeviceDisposed
	}
	numVertices := vertexCount(primitiveType, primitiveCount)
	if err := checkUserVertices(vertexData, vertexOffset, numVertices, primitiveCount, declaration); err != nil {
		return err
	}

	defer d.lock()()
	d.applyState()
	d.bindUserVertexBuffer(bytesOf(vertexData[vertexOffset:int64(vertexOffset)+numVertices]), declaration)
	d.backend.DrawPrimitives(primitiveType, 0, primitiveCount)
	d.metrics.Draws++
	return nil
}

// DrawUserIndexedPrimitives draws numVertices vertices starting at
// vertexOffset, indexed by indexData from indexOffset. Indices are relative
// to vertexOffset.
func DrawUserIndexedPrimitives[T any, I Index](
	d *GraphicsDevice,
	primitiveType metadata.PrimitiveType,
	vertexData []T,
	vertexOffset, numVertices int32,
	indexData []I,
	indexOffset, primitiveCount int32,
	declaration *VertexDeclaration,
) error {
	if d.disposed {
		return ErrDeviceDisposed
	}
	if err := checkUserVertices(vertexData, vertexOffset, int64(numVertices), primitiveCount, declaration); err != nil {
		return err
	}
	numIndices := vertexCount(primitiveType, primitiveCount)
	if indexOffset < 0 || int64(indexOffset)+numIndices > int64(len(indexData)) {
		return fmt.Errorf("%w: %d indices at %d from %d", ErrInvalidArgument, numIndices, indexOffset, len(indexData))
	}

	defer d.lock()()
	d.applyState()
	d.bindUserVertexBuffer(bytesOf(vertexData[vertexOffset:int64(vertexOffset)+int64(numVertices)]), declaration)
	d.bindUserIndexBuffer(bytesOf(indexData[indexOffset : int64(indexOffset)+numIndices]))
	d.backend.DrawIndexedPrimitives(
		primitiveType,
		0,
		0,
		numVertices,
		0,
		primitiveCount,
		d.userIndexBuffer,
		indexElementSizeOf[I](),
	)
	d.metrics.Draws++
	return nil
}

// vertexCount is PrimitiveType.VertexCount in 64 bits, so huge primitive
// counts cannot wrap around.
func vertexCount(primitiveType metadata.PrimitiveType, primitiveCount int32) int64 {
	base := int64(primitiveType.VertexCount(0))
	perPrimitive := int64(primitiveType.VertexCount(1)) - base
	return base + perPrimitive*int64(primitiveCount)
}

func checkUserVertices[T any](vertexData []T, vertexOffset int32, numVertices int64, primitiveCount int32, declaration *VertexDeclaration) error {
	if declaration == nil {
		return fmt.Errorf("%w: nil vertex declaration", ErrInvalidArgument)
	}
	if primitiveCount <= 0 || numVertices <= 0 || numVertices > gomath.MaxInt32 {
		return fmt.Errorf("%w: %d primitives of %d vertices", ErrInvalidArgument, primitiveCount, numVertices)
	}
	if vertexOffset < 0 || int64(vertexOffset)+numVertices > int64(len(vertexData)) {
		return fmt.Errorf("%w: %d vertices at %d from %d", ErrInvalidArgument, numVertices, vertexOffset, len(vertexData))
	}
	var zero T
	if size := int32(unsafe.Sizeof(zero)); size != declaration.VertexStride {
		return fmt.Errorf("%w: vertex size %d does not match stride %d", ErrInvalidArgument, size, declaration.VertexStride)
	}
	return nil
}

// bindUserVertexBuffer uploads data and binds it alone. The managed bindings
// are marked dirty so the next regular draw reissues them.
func (d *GraphicsDevice) bindUserVertexBuffer(data []byte, declaration *VertexDeclaration) {
	size := int32(len(data))
	if d.userVertexBuffer == 0 || d.userVertexBufferSize < size {
		if d.userVertexBuffer != 0 {
			d.backend.AddDisposeVertexBuffer(d.userVertexBuffer)
		}
		d.userVertexBuffer = d.backend.GenVertexBuffer(true, metadata.BufferUsageWriteOnly, size)
		d.userVertexBufferSize = size
	}
	d.backend.SetVertexBufferData(d.userVertexBuffer, 0, data, size, 1, 1, metadata.SetDataOptionsDiscard)

	binding := []metadata.VertexBufferBinding{{
		VertexBuffer:      d.userVertexBuffer,
		VertexDeclaration: declaration.native(),
	}}
	d.backend.ApplyVertexBufferBindings(binding, true, 0)
	d.metrics.VertexBindingApplies++
	d.vertexBuffersUpdated = true
	d.effectApplied = false
}

func (d *GraphicsDevice) bindUserIndexBuffer(data []byte) {
	size := int32(len(data))
	if d.userIndexBuffer == 0 || d.userIndexBufferSize < size {
		if d.userIndexBuffer != 0 {
			d.backend.AddDisposeIndexBuffer(d.userIndexBuffer)
		}
		d.userIndexBuffer = d.backend.GenIndexBuffer(true, metadata.BufferUsageWriteOnly, size)
		d.userIndexBufferSize = size
	}
	d.backend.SetIndexBufferData(d.userIndexBuffer, 0, data, metadata.SetDataOptionsDiscard)
}
