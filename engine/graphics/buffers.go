package graphics

import (
	"fmt"
	gomath "math"
	"unsafe"

	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

type VertexBuffer struct {
	GraphicsResource

	VertexDeclaration *VertexDeclaration
	VertexCount       int32
	BufferUsage       metadata.BufferUsage

	dynamic bool
	native  metadata.Buffer
}

func NewVertexBuffer(device *GraphicsDevice, declaration *VertexDeclaration, vertexCount int32, usage metadata.BufferUsage) (*VertexBuffer, error) {
	vb := &VertexBuffer{}
	if err := vb.create(device, declaration, vertexCount, usage, false); err != nil {
		return nil, err
	}
	return vb, nil
}

func (vb *VertexBuffer) create(device *GraphicsDevice, declaration *VertexDeclaration, vertexCount int32, usage metadata.BufferUsage, dynamic bool) error {
	if device == nil || declaration == nil || vertexCount <= 0 ||
		int64(vertexCount)*int64(declaration.VertexStride) > gomath.MaxInt32 {
		return fmt.Errorf("%w: vertex buffer of %d vertices", ErrInvalidArgument, vertexCount)
	}
	vb.VertexDeclaration = declaration
	vb.VertexCount = vertexCount
	vb.BufferUsage = usage
	vb.dynamic = dynamic
	device.run(func() {
		vb.native = device.backend.GenVertexBuffer(dynamic, usage, vb.SizeInBytes())
	})
	vb.track(device, vb, func() {
		device.disposal.vertexBuffers.Enqueue(vb.native)
	})
	return nil
}

func (vb *VertexBuffer) SizeInBytes() int32 {
	return vb.VertexCount * vb.VertexDeclaration.VertexStride
}

// SetData writes elementCount elements of elementSizeInBytes, vertexStride
// bytes apart, starting at offsetInBytes. A vertexStride of 0 packs them.
func (vb *VertexBuffer) SetData(offsetInBytes int32, data []byte, elementCount, elementSizeInBytes, vertexStride int32) error {
	return vb.setData(offsetInBytes, data, elementCount, elementSizeInBytes, vertexStride, metadata.SetDataOptionsNone)
}

func (vb *VertexBuffer) GetData(offsetInBytes int32, data []byte, elementCount, elementSizeInBytes, vertexStride int32) error {
	if err := vb.checkRange(offsetInBytes, data, elementCount, elementSizeInBytes, vertexStride); err != nil {
		return err
	}
	vb.device.run(func() {
		vb.device.backend.GetVertexBufferData(vb.native, offsetInBytes, data, elementCount, elementSizeInBytes, vertexStride)
	})
	return nil
}

func (vb *VertexBuffer) setData(offsetInBytes int32, data []byte, elementCount, elementSizeInBytes, vertexStride int32, options metadata.SetDataOptions) error {
	if err := vb.checkRange(offsetInBytes, data, elementCount, elementSizeInBytes, vertexStride); err != nil {
		return err
	}
	vb.device.run(func() {
		vb.device.backend.SetVertexBufferData(vb.native, offsetInBytes, data, elementCount, elementSizeInBytes, vertexStride, options)
	})
	return nil
}

func (vb *VertexBuffer) checkRange(offsetInBytes int32, data []byte, elementCount, elementSizeInBytes, vertexStride int32) error {
	if vb.IsDisposed() {
		return ErrResourceDisposed
	}
	// Spans are computed in 64 bits so int32 products cannot wrap.
	count, size := int64(elementCount), int64(elementSizeInBytes)
	if count <= 0 || size <= 0 || count*size > int64(len(data)) {
		return fmt.Errorf("%w: %d elements of %d bytes in %d bytes", ErrInvalidArgument, elementCount, elementSizeInBytes, len(data))
	}
	span := count * size
	if vertexStride > 0 && vertexStride != elementSizeInBytes {
		if vertexStride < elementSizeInBytes {
			return fmt.Errorf("%w: vertex stride %d smaller than element size %d", ErrInvalidArgument, vertexStride, elementSizeInBytes)
		}
		span = (count-1)*int64(vertexStride) + size
	}
	if offsetInBytes < 0 || int64(offsetInBytes)+span > int64(vb.SizeInBytes()) {
		return fmt.Errorf("%w: %d bytes at offset %d overflow %d byte buffer", ErrInvalidArgument, span, offsetInBytes, vb.SizeInBytes())
	}
	return nil
}

type DynamicVertexBuffer struct {
	VertexBuffer
}

func NewDynamicVertexBuffer(device *GraphicsDevice, declaration *VertexDeclaration, vertexCount int32, usage metadata.BufferUsage) (*DynamicVertexBuffer, error) {
	vb := &DynamicVertexBuffer{}
	if err := vb.create(device, declaration, vertexCount, usage, true); err != nil {
		return nil, err
	}
	return vb, nil
}

// SetDataWithOptions is SetData with an explicit overwrite policy. NoOverwrite
// falls back to None on backends that cannot honour it.
func (vb *DynamicVertexBuffer) SetDataWithOptions(offsetInBytes int32, data []byte, elementCount, elementSizeInBytes, vertexStride int32, options metadata.SetDataOptions) error {
	if options == metadata.SetDataOptionsNoOverwrite && !vb.device.backend.SupportsNoOverwrite() {
		options = metadata.SetDataOptionsNone
	}
	return vb.setData(offsetInBytes, data, elementCount, elementSizeInBytes, vertexStride, options)
}

// SetVertexData uploads vertices from the start of vb.
func SetVertexData[T any](vb *VertexBuffer, vertices []T) error {
	if len(vertices) == 0 {
		return fmt.Errorf("%w: no vertices", ErrInvalidArgument)
	}
	size := int32(unsafe.Sizeof(vertices[0]))
	return vb.SetData(0, bytesOf(vertices), int32(len(vertices)), size, size)
}

type IndexBuffer struct {
	GraphicsResource

	IndexElementSize metadata.IndexElementSize
	IndexCount       int32
	BufferUsage      metadata.BufferUsage

	dynamic bool
	native  metadata.Buffer
}

func NewIndexBuffer(device *GraphicsDevice, indexElementSize metadata.IndexElementSize, indexCount int32, usage metadata.BufferUsage) (*IndexBuffer, error) {
	ib := &IndexBuffer{}
	if err := ib.create(device, indexElementSize, indexCount, usage, false); err != nil {
		return nil, err
	}
	return ib, nil
}

func (ib *IndexBuffer) create(device *GraphicsDevice, indexElementSize metadata.IndexElementSize, indexCount int32, usage metadata.BufferUsage, dynamic bool) error {
	if device == nil || indexCount <= 0 || int64(indexCount)*int64(indexElementSize.Bytes()) > gomath.MaxInt32 {
		return fmt.Errorf("%w: index buffer of %d indices", ErrInvalidArgument, indexCount)
	}
	ib.IndexElementSize = indexElementSize
	ib.IndexCount = indexCount
	ib.BufferUsage = usage
	ib.dynamic = dynamic
	device.run(func() {
		ib.native = device.backend.GenIndexBuffer(dynamic, usage, ib.SizeInBytes())
	})
	ib.track(device, ib, func() {
		device.disposal.indexBuffers.Enqueue(ib.native)
	})
	return nil
}

func (ib *IndexBuffer) SizeInBytes() int32 {
	return ib.IndexCount * ib.IndexElementSize.Bytes()
}

func (ib *IndexBuffer) SetData(offsetInBytes int32, data []byte) error {
	return ib.setData(offsetInBytes, data, metadata.SetDataOptionsNone)
}

func (ib *IndexBuffer) GetData(offsetInBytes int32, data []byte) error {
	if err := ib.checkRange(offsetInBytes, data); err != nil {
		return err
	}
	ib.device.run(func() {
		ib.device.backend.GetIndexBufferData(ib.native, offsetInBytes, data)
	})
	return nil
}

func (ib *IndexBuffer) setData(offsetInBytes int32, data []byte, options metadata.SetDataOptions) error {
	if err := ib.checkRange(offsetInBytes, data); err != nil {
		return err
	}
	ib.device.run(func() {
		ib.device.backend.SetIndexBufferData(ib.native, offsetInBytes, data, options)
	})
	return nil
}

func (ib *IndexBuffer) checkRange(offsetInBytes int32, data []byte) error {
	if ib.IsDisposed() {
		return ErrResourceDisposed
	}
	if len(data) == 0 || offsetInBytes < 0 || int(offsetInBytes)+len(data) > int(ib.SizeInBytes()) {
		return fmt.Errorf("%w: %d bytes at offset %d overflow %d byte buffer", ErrInvalidArgument, len(data), offsetInBytes, ib.SizeInBytes())
	}
	return nil
}

type DynamicIndexBuffer struct {
	IndexBuffer
}

func NewDynamicIndexBuffer(device *GraphicsDevice, indexElementSize metadata.IndexElementSize, indexCount int32, usage metadata.BufferUsage) (*DynamicIndexBuffer, error) {
	ib := &DynamicIndexBuffer{}
	if err := ib.create(device, indexElementSize, indexCount, usage, true); err != nil {
		return nil, err
	}
	return ib, nil
}

func (ib *DynamicIndexBuffer) SetDataWithOptions(offsetInBytes int32, data []byte, options metadata.SetDataOptions) error {
	if options == metadata.SetDataOptionsNoOverwrite && !ib.device.backend.SupportsNoOverwrite() {
		options = metadata.SetDataOptionsNone
	}
	return ib.setData(offsetInBytes, data, options)
}

// Index is an index element type.
type Index interface {
	~uint16 | ~uint32
}

// SetIndexData uploads indices from the start of ib. The element type must
// match the buffer's element size.
func SetIndexData[I Index](ib *IndexBuffer, indices []I) error {
	if len(indices) == 0 {
		return fmt.Errorf("%w: no indices", ErrInvalidArgument)
	}
	if int32(unsafe.Sizeof(indices[0])) != ib.IndexElementSize.Bytes() {
		return fmt.Errorf("%w: %d byte indices for a %d byte index buffer", ErrInvalidArgument, unsafe.Sizeof(indices[0]), ib.IndexElementSize.Bytes())
	}
	return ib.SetData(0, bytesOf(indices))
}

func indexElementSizeOf[I Index]() metadata.IndexElementSize {
	var zero I
	if unsafe.Sizeof(zero) == 4 {
		return metadata.IndexElementSizeThirtyTwoBits
	}
	return metadata.IndexElementSizeSixteenBits
}

// bytesOf views the backing array of s as bytes.
func bytesOf[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(s[0])))
}
