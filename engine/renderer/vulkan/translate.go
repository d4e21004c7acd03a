package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

func BlendFactor(blend metadata.Blend) vk.BlendFactor {
	switch blend {
	case metadata.BlendOne:
		return vk.BlendFactorOne
	case metadata.BlendZero:
		return vk.BlendFactorZero
	case metadata.BlendSourceColor:
		return vk.BlendFactorSrcColor
	case metadata.BlendInverseSourceColor:
		return vk.BlendFactorOneMinusSrcColor
	case metadata.BlendSourceAlpha:
		return vk.BlendFactorSrcAlpha
	case metadata.BlendInverseSourceAlpha:
		return vk.BlendFactorOneMinusSrcAlpha
	case metadata.BlendDestinationColor:
		return vk.BlendFactorDstColor
	case metadata.BlendInverseDestinationColor:
		return vk.BlendFactorOneMinusDstColor
	case metadata.BlendDestinationAlpha:
		return vk.BlendFactorDstAlpha
	case metadata.BlendInverseDestinationAlpha:
		return vk.BlendFactorOneMinusDstAlpha
	case metadata.BlendBlendFactor:
		return vk.BlendFactorConstantColor
	case metadata.BlendInverseBlendFactor:
		return vk.BlendFactorOneMinusConstantColor
	case metadata.BlendSourceAlphaSaturation:
		return vk.BlendFactorSrcAlphaSaturate
	}
	return vk.BlendFactorOne
}

func BlendOp(fn metadata.BlendFunction) vk.BlendOp {
	switch fn {
	case metadata.BlendFunctionSubtract:
		return vk.BlendOpSubtract
	case metadata.BlendFunctionReverseSubtract:
		return vk.BlendOpReverseSubtract
	case metadata.BlendFunctionMax:
		return vk.BlendOpMax
	case metadata.BlendFunctionMin:
		return vk.BlendOpMin
	}
	return vk.BlendOpAdd
}

func ColorWriteMask(channels metadata.ColorWriteChannels) vk.ColorComponentFlags {
	var mask vk.ColorComponentFlags
	if channels&metadata.ColorWriteChannelsRed != 0 {
		mask |= vk.ColorComponentFlags(vk.ColorComponentRBit)
	}
	if channels&metadata.ColorWriteChannelsGreen != 0 {
		mask |= vk.ColorComponentFlags(vk.ColorComponentGBit)
	}
	if channels&metadata.ColorWriteChannelsBlue != 0 {
		mask |= vk.ColorComponentFlags(vk.ColorComponentBBit)
	}
	if channels&metadata.ColorWriteChannelsAlpha != 0 {
		mask |= vk.ColorComponentFlags(vk.ColorComponentABit)
	}
	return mask
}

func CompareOp(fn metadata.CompareFunction) vk.CompareOp {
	switch fn {
	case metadata.CompareFunctionNever:
		return vk.CompareOpNever
	case metadata.CompareFunctionLess:
		return vk.CompareOpLess
	case metadata.CompareFunctionLessEqual:
		return vk.CompareOpLessOrEqual
	case metadata.CompareFunctionEqual:
		return vk.CompareOpEqual
	case metadata.CompareFunctionGreaterEqual:
		return vk.CompareOpGreaterOrEqual
	case metadata.CompareFunctionGreater:
		return vk.CompareOpGreater
	case metadata.CompareFunctionNotEqual:
		return vk.CompareOpNotEqual
	}
	return vk.CompareOpAlways
}

func StencilOp(op metadata.StencilOperation) vk.StencilOp {
	switch op {
	case metadata.StencilOperationZero:
		return vk.StencilOpZero
	case metadata.StencilOperationReplace:
		return vk.StencilOpReplace
	case metadata.StencilOperationIncrement:
		return vk.StencilOpIncrementAndWrap
	case metadata.StencilOperationDecrement:
		return vk.StencilOpDecrementAndWrap
	case metadata.StencilOperationIncrementSaturation:
		return vk.StencilOpIncrementAndClamp
	case metadata.StencilOperationDecrementSaturation:
		return vk.StencilOpDecrementAndClamp
	case metadata.StencilOperationInvert:
		return vk.StencilOpInvert
	}
	return vk.StencilOpKeep
}

func PolygonMode(mode metadata.FillMode) vk.PolygonMode {
	if mode == metadata.FillModeWireFrame {
		return vk.PolygonModeLine
	}
	return vk.PolygonModeFill
}

// CullMode maps a cull mode onto Vulkan's front/back faces. Clockwise
// triangles are front facing, see FrontFace.
func CullMode(mode metadata.CullMode) vk.CullModeFlags {
	switch mode {
	case metadata.CullModeCullClockwiseFace:
		return vk.CullModeFlags(vk.CullModeFrontBit)
	case metadata.CullModeCullCounterClockwiseFace:
		return vk.CullModeFlags(vk.CullModeBackBit)
	}
	return vk.CullModeFlags(vk.CullModeNone)
}

// FrontFace returns the winding treated as front facing. Offscreen targets are
// rendered upside down, which reverses the apparent winding.
func FrontFace(renderTargetBound bool) vk.FrontFace {
	if renderTargetBound {
		return vk.FrontFaceCounterClockwise
	}
	return vk.FrontFaceClockwise
}

func PrimitiveTopology(primitiveType metadata.PrimitiveType) vk.PrimitiveTopology {
	switch primitiveType {
	case metadata.PrimitiveTypeTriangleStrip:
		return vk.PrimitiveTopologyTriangleStrip
	case metadata.PrimitiveTypeLineList:
		return vk.PrimitiveTopologyLineList
	case metadata.PrimitiveTypeLineStrip:
		return vk.PrimitiveTopologyLineStrip
	case metadata.PrimitiveTypePointListEXT:
		return vk.PrimitiveTopologyPointList
	}
	return vk.PrimitiveTopologyTriangleList
}

func IndexType(size metadata.IndexElementSize) vk.IndexType {
	if size == metadata.IndexElementSizeThirtyTwoBits {
		return vk.IndexTypeUint32
	}
	return vk.IndexTypeUint16
}

func SampleCount(multiSampleCount int32) vk.SampleCountFlagBits {
	switch {
	case multiSampleCount >= 64:
		return vk.SampleCount64Bit
	case multiSampleCount >= 32:
		return vk.SampleCount32Bit
	case multiSampleCount >= 16:
		return vk.SampleCount16Bit
	case multiSampleCount >= 8:
		return vk.SampleCount8Bit
	case multiSampleCount >= 4:
		return vk.SampleCount4Bit
	case multiSampleCount >= 2:
		return vk.SampleCount2Bit
	}
	return vk.SampleCount1Bit
}

func Format(format metadata.SurfaceFormat) vk.Format {
	switch format {
	case metadata.SurfaceFormatColor:
		return vk.FormatR8g8b8a8Unorm
	case metadata.SurfaceFormatColorBgraEXT:
		return vk.FormatB8g8r8a8Unorm
	case metadata.SurfaceFormatBgr565:
		return vk.FormatR5g6b5UnormPack16
	case metadata.SurfaceFormatBgra5551:
		return vk.FormatA1r5g5b5UnormPack16
	case metadata.SurfaceFormatBgra4444:
		return vk.FormatB4g4r4a4UnormPack16
	case metadata.SurfaceFormatDxt1:
		return vk.FormatBc1RgbaUnormBlock
	case metadata.SurfaceFormatDxt3:
		return vk.FormatBc2UnormBlock
	case metadata.SurfaceFormatDxt5:
		return vk.FormatBc3UnormBlock
	case metadata.SurfaceFormatNormalizedByte2:
		return vk.FormatR8g8Snorm
	case metadata.SurfaceFormatNormalizedByte4:
		return vk.FormatR8g8b8a8Snorm
	case metadata.SurfaceFormatRgba1010102:
		return vk.FormatA2b10g10r10UnormPack32
	case metadata.SurfaceFormatRg32:
		return vk.FormatR16g16Unorm
	case metadata.SurfaceFormatRgba64:
		return vk.FormatR16g16b16a16Unorm
	case metadata.SurfaceFormatAlpha8:
		return vk.FormatR8Unorm
	case metadata.SurfaceFormatSingle:
		return vk.FormatR32Sfloat
	case metadata.SurfaceFormatVector2:
		return vk.FormatR32g32Sfloat
	case metadata.SurfaceFormatVector4:
		return vk.FormatR32g32b32a32Sfloat
	case metadata.SurfaceFormatHalfSingle:
		return vk.FormatR16Sfloat
	case metadata.SurfaceFormatHalfVector2:
		return vk.FormatR16g16Sfloat
	case metadata.SurfaceFormatHalfVector4, metadata.SurfaceFormatHdrBlendable:
		return vk.FormatR16g16b16a16Sfloat
	}
	return vk.FormatUndefined
}

func DepthFormat(format metadata.DepthFormat) vk.Format {
	switch format {
	case metadata.DepthFormatDepth16:
		return vk.FormatD16Unorm
	case metadata.DepthFormatDepth24:
		return vk.FormatX8D24UnormPack32
	case metadata.DepthFormatDepth24Stencil8:
		return vk.FormatD24UnormS8Uint
	}
	return vk.FormatUndefined
}

// Filter returns the min, mag and mip filters for a texture filter.
func Filter(filter metadata.TextureFilter) (minFilter, magFilter vk.Filter, mip vk.SamplerMipmapMode) {
	switch filter {
	case metadata.TextureFilterPoint:
		return vk.FilterNearest, vk.FilterNearest, vk.SamplerMipmapModeNearest
	case metadata.TextureFilterLinearMipPoint:
		return vk.FilterLinear, vk.FilterLinear, vk.SamplerMipmapModeNearest
	case metadata.TextureFilterPointMipLinear:
		return vk.FilterNearest, vk.FilterNearest, vk.SamplerMipmapModeLinear
	case metadata.TextureFilterMinLinearMagPointMipLinear:
		return vk.FilterLinear, vk.FilterNearest, vk.SamplerMipmapModeLinear
	case metadata.TextureFilterMinLinearMagPointMipPoint:
		return vk.FilterLinear, vk.FilterNearest, vk.SamplerMipmapModeNearest
	case metadata.TextureFilterMinPointMagLinearMipLinear:
		return vk.FilterNearest, vk.FilterLinear, vk.SamplerMipmapModeLinear
	case metadata.TextureFilterMinPointMagLinearMipPoint:
		return vk.FilterNearest, vk.FilterLinear, vk.SamplerMipmapModeNearest
	}
	// Linear and Anisotropic
	return vk.FilterLinear, vk.FilterLinear, vk.SamplerMipmapModeLinear
}

func SamplerAddressMode(mode metadata.TextureAddressMode) vk.SamplerAddressMode {
	switch mode {
	case metadata.TextureAddressModeClamp:
		return vk.SamplerAddressModeClampToEdge
	case metadata.TextureAddressModeMirror:
		return vk.SamplerAddressModeMirroredRepeat
	}
	return vk.SamplerAddressModeRepeat
}

func boolToVk(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}
