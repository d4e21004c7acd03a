package metadata

/** @brief Blend factor applied to a source or destination colour. */
type Blend int32

const (
	BlendOne Blend = iota
	BlendZero
	BlendSourceColor
	BlendInverseSourceColor
	BlendSourceAlpha
	BlendInverseSourceAlpha
	BlendDestinationColor
	BlendInverseDestinationColor
	BlendDestinationAlpha
	BlendInverseDestinationAlpha
	BlendBlendFactor
	BlendInverseBlendFactor
	BlendSourceAlphaSaturation
)

/** @brief How source and destination are combined after their blend factors are applied. */
type BlendFunction int32

const (
	BlendFunctionAdd BlendFunction = iota
	BlendFunctionSubtract
	BlendFunctionReverseSubtract
	BlendFunctionMax
	BlendFunctionMin
)

/** @brief Colour channels that can be written to a render target. */
type ColorWriteChannels int32

const (
	ColorWriteChannelsNone  ColorWriteChannels = 0x0
	ColorWriteChannelsRed   ColorWriteChannels = 0x1
	ColorWriteChannelsGreen ColorWriteChannels = 0x2
	ColorWriteChannelsBlue  ColorWriteChannels = 0x4
	ColorWriteChannelsAlpha ColorWriteChannels = 0x8
	ColorWriteChannelsAll   ColorWriteChannels = 0xF
)

/** @brief Comparison used for depth, stencil and alpha tests. */
type CompareFunction int32

const (
	CompareFunctionAlways CompareFunction = iota
	CompareFunctionNever
	CompareFunctionLess
	CompareFunctionLessEqual
	CompareFunctionEqual
	CompareFunctionGreaterEqual
	CompareFunctionGreater
	CompareFunctionNotEqual
)

/** @brief Operation applied to the stencil buffer. */
type StencilOperation int32

const (
	StencilOperationKeep StencilOperation = iota
	StencilOperationZero
	StencilOperationReplace
	StencilOperationIncrement
	StencilOperationDecrement
	StencilOperationIncrementSaturation
	StencilOperationDecrementSaturation
	StencilOperationInvert
)

/** @brief Which triangle winding is culled. Winding is evaluated in screen space. */
type CullMode int32

const (
	CullModeNone CullMode = iota
	CullModeCullClockwiseFace
	CullModeCullCounterClockwiseFace
)

type FillMode int32

const (
	FillModeSolid FillMode = iota
	FillModeWireFrame
)

/** @brief Texture filtering used when sampling. */
type TextureFilter int32

const (
	TextureFilterLinear TextureFilter = iota
	TextureFilterPoint
	TextureFilterAnisotropic
	TextureFilterLinearMipPoint
	TextureFilterPointMipLinear
	TextureFilterMinLinearMagPointMipLinear
	TextureFilterMinLinearMagPointMipPoint
	TextureFilterMinPointMagLinearMipLinear
	TextureFilterMinPointMagLinearMipPoint
)

type TextureAddressMode int32

const (
	TextureAddressModeWrap TextureAddressMode = iota
	TextureAddressModeClamp
	TextureAddressModeMirror
)

type SurfaceFormat int32

const (
	SurfaceFormatColor SurfaceFormat = iota
	SurfaceFormatBgr565
	SurfaceFormatBgra5551
	SurfaceFormatBgra4444
	SurfaceFormatDxt1
	SurfaceFormatDxt3
	SurfaceFormatDxt5
	SurfaceFormatNormalizedByte2
	SurfaceFormatNormalizedByte4
	SurfaceFormatRgba1010102
	SurfaceFormatRg32
	SurfaceFormatRgba64
	SurfaceFormatAlpha8
	SurfaceFormatSingle
	SurfaceFormatVector2
	SurfaceFormatVector4
	SurfaceFormatHalfSingle
	SurfaceFormatHalfVector2
	SurfaceFormatHalfVector4
	SurfaceFormatHdrBlendable
	SurfaceFormatColorBgraEXT
)

type DepthFormat int32

const (
	DepthFormatNone DepthFormat = iota
	DepthFormatDepth16
	DepthFormatDepth24
	DepthFormatDepth24Stencil8
)

/** @brief Buffers affected by a clear. Can be combined. */
type ClearOptions int32

const (
	ClearOptionsTarget      ClearOptions = 0x1
	ClearOptionsDepthBuffer ClearOptions = 0x2
	ClearOptionsStencil     ClearOptions = 0x4
)

type PrimitiveType int32

const (
	PrimitiveTypeTriangleList PrimitiveType = iota
	PrimitiveTypeTriangleStrip
	PrimitiveTypeLineList
	PrimitiveTypeLineStrip
	PrimitiveTypePointListEXT
)

// VertexCount returns how many vertices primitiveCount primitives consume.
func (p PrimitiveType) VertexCount(primitiveCount int32) int32 {
	switch p {
	case PrimitiveTypeTriangleList:
		return primitiveCount * 3
	case PrimitiveTypeTriangleStrip:
		return primitiveCount + 2
	case PrimitiveTypeLineList:
		return primitiveCount * 2
	case PrimitiveTypeLineStrip:
		return primitiveCount + 1
	case PrimitiveTypePointListEXT:
		return primitiveCount
	}
	return 0
}

type IndexElementSize int32

const (
	IndexElementSizeSixteenBits IndexElementSize = iota
	IndexElementSizeThirtyTwoBits
)

// Bytes returns the size of one index.
func (s IndexElementSize) Bytes() int32 {
	if s == IndexElementSizeThirtyTwoBits {
		return 4
	}
	return 2
}

/** @brief How a buffer write interacts with data the GPU may still be reading. */
type SetDataOptions int32

const (
	SetDataOptionsNone SetDataOptions = iota
	SetDataOptionsDiscard
	SetDataOptionsNoOverwrite
)

type BufferUsage int32

const (
	BufferUsageNone BufferUsage = iota
	BufferUsageWriteOnly
)

type CubeMapFace int32

const (
	CubeMapFacePositiveX CubeMapFace = iota
	CubeMapFaceNegativeX
	CubeMapFacePositiveY
	CubeMapFaceNegativeY
	CubeMapFacePositiveZ
	CubeMapFaceNegativeZ
)

// IsValid reports whether f names one of the six faces.
func (f CubeMapFace) IsValid() bool {
	return f >= CubeMapFacePositiveX && f <= CubeMapFaceNegativeZ
}

/** @brief What happens to a render target's contents when it is bound again. */
type RenderTargetUsage int32

const (
	RenderTargetUsageDiscardContents RenderTargetUsage = iota
	RenderTargetUsagePreserveContents
	RenderTargetUsagePlatformContents
)

type PresentInterval int32

const (
	PresentIntervalDefault PresentInterval = iota
	PresentIntervalOne
	PresentIntervalTwo
	PresentIntervalImmediate
)

type GraphicsProfile int32

const (
	GraphicsProfileReach GraphicsProfile = iota
	GraphicsProfileHiDef
)

type VertexElementFormat int32

const (
	VertexElementFormatSingle VertexElementFormat = iota
	VertexElementFormatVector2
	VertexElementFormatVector3
	VertexElementFormatVector4
	VertexElementFormatColor
	VertexElementFormatByte4
	VertexElementFormatShort2
	VertexElementFormatShort4
	VertexElementFormatNormalizedShort2
	VertexElementFormatNormalizedShort4
	VertexElementFormatHalfVector2
	VertexElementFormatHalfVector4
)

// Size returns the element size in bytes.
func (f VertexElementFormat) Size() int32 {
	switch f {
	case VertexElementFormatSingle, VertexElementFormatColor, VertexElementFormatByte4,
		VertexElementFormatShort2, VertexElementFormatNormalizedShort2, VertexElementFormatHalfVector2:
		return 4
	case VertexElementFormatVector2, VertexElementFormatShort4, VertexElementFormatNormalizedShort4,
		VertexElementFormatHalfVector4:
		return 8
	case VertexElementFormatVector3:
		return 12
	case VertexElementFormatVector4:
		return 16
	}
	return 0
}

type VertexElementUsage int32

const (
	VertexElementUsagePosition VertexElementUsage = iota
	VertexElementUsageColor
	VertexElementUsageTextureCoordinate
	VertexElementUsageNormal
	VertexElementUsageBinormal
	VertexElementUsageTangent
	VertexElementUsageBlendIndices
	VertexElementUsageBlendWeight
	VertexElementUsageDepth
	VertexElementUsageFog
	VertexElementUsagePointSize
	VertexElementUsageSample
	VertexElementUsageTessellateFactor
)
