package graphics

import (
	"github.com/spaghettifunk/xnagfx/engine/math"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

/** @brief Layout of one vertex in a vertex buffer. */
type VertexDeclaration struct {
	Name         string
	VertexStride int32

	elements []metadata.VertexElement
}

// NewVertexDeclaration derives the stride from the furthest element.
func NewVertexDeclaration(elements ...metadata.VertexElement) *VertexDeclaration {
	stride := int32(0)
	for _, e := range elements {
		stride = max(stride, e.Offset+e.VertexElementFormat.Size())
	}
	return NewVertexDeclarationWithStride(stride, elements...)
}

func NewVertexDeclarationWithStride(vertexStride int32, elements ...metadata.VertexElement) *VertexDeclaration {
	return &VertexDeclaration{
		VertexStride: vertexStride,
		elements:     append([]metadata.VertexElement(nil), elements...),
	}
}

func (d *VertexDeclaration) Elements() []metadata.VertexElement {
	return append([]metadata.VertexElement(nil), d.elements...)
}

func (d *VertexDeclaration) native() metadata.VertexDeclaration {
	return metadata.VertexDeclaration{
		VertexStride: d.VertexStride,
		Elements:     d.elements,
	}
}

// VertexType is implemented by vertex structs that know their own layout.
type VertexType interface {
	VertexDeclaration() *VertexDeclaration
}

type VertexPositionColor struct {
	Position math.Vec3
	Color    math.Color
}

var vertexPositionColorDeclaration = NewVertexDeclaration(
	metadata.VertexElement{Offset: 0, VertexElementFormat: metadata.VertexElementFormatVector3, VertexElementUsage: metadata.VertexElementUsagePosition},
	metadata.VertexElement{Offset: 12, VertexElementFormat: metadata.VertexElementFormatColor, VertexElementUsage: metadata.VertexElementUsageColor},
)

func (VertexPositionColor) VertexDeclaration() *VertexDeclaration {
	return vertexPositionColorDeclaration
}

type VertexPositionTexture struct {
	Position          math.Vec3
	TextureCoordinate math.Vec2
}

var vertexPositionTextureDeclaration = NewVertexDeclaration(
	metadata.VertexElement{Offset: 0, VertexElementFormat: metadata.VertexElementFormatVector3, VertexElementUsage: metadata.VertexElementUsagePosition},
	metadata.VertexElement{Offset: 12, VertexElementFormat: metadata.VertexElementFormatVector2, VertexElementUsage: metadata.VertexElementUsageTextureCoordinate},
)

func (VertexPositionTexture) VertexDeclaration() *VertexDeclaration {
	return vertexPositionTextureDeclaration
}

type VertexPositionColorTexture struct {
	Position          math.Vec3
	Color             math.Color
	TextureCoordinate math.Vec2
}

var vertexPositionColorTextureDeclaration = NewVertexDeclaration(
	metadata.VertexElement{Offset: 0, VertexElementFormat: metadata.VertexElementFormatVector3, VertexElementUsage: metadata.VertexElementUsagePosition},
	metadata.VertexElement{Offset: 12, VertexElementFormat: metadata.VertexElementFormatColor, VertexElementUsage: metadata.VertexElementUsageColor},
	metadata.VertexElement{Offset: 16, VertexElementFormat: metadata.VertexElementFormatVector2, VertexElementUsage: metadata.VertexElementUsageTextureCoordinate},
)

func (VertexPositionColorTexture) VertexDeclaration() *VertexDeclaration {
	return vertexPositionColorTextureDeclaration
}
