package metadata

// Size returns the bytes per pixel of the format, or the bytes per 4x4 block
// for the DXT formats.
func (f SurfaceFormat) Size() int32 {
	switch f {
	case SurfaceFormatDxt1:
		return 8
	case SurfaceFormatDxt3, SurfaceFormatDxt5:
		return 16
	case SurfaceFormatAlpha8:
		return 1
	case SurfaceFormatBgr565, SurfaceFormatBgra4444, SurfaceFormatBgra5551,
		SurfaceFormatHalfSingle, SurfaceFormatNormalizedByte2:
		return 2
	case SurfaceFormatColor, SurfaceFormatSingle, SurfaceFormatRg32, SurfaceFormatHalfVector2,
		SurfaceFormatNormalizedByte4, SurfaceFormatRgba1010102, SurfaceFormatColorBgraEXT:
		return 4
	case SurfaceFormatHalfVector4, SurfaceFormatRgba64, SurfaceFormatVector2, SurfaceFormatHdrBlendable:
		return 8
	case SurfaceFormatVector4:
		return 16
	}
	return 0
}

// IsCompressed reports whether the format stores 4x4 blocks.
func (f SurfaceFormat) IsCompressed() bool {
	return f == SurfaceFormatDxt1 || f == SurfaceFormatDxt3 || f == SurfaceFormatDxt5
}

// TextureDataSize returns the byte size of a width x height image in format.
func TextureDataSize(format SurfaceFormat, width, height int32) int32 {
	if format.IsCompressed() {
		blocksWide := max((width+3)/4, 1)
		blocksHigh := max((height+3)/4, 1)
		return blocksWide * blocksHigh * format.Size()
	}
	return width * height * format.Size()
}

// MipLevelSize returns the dimension of mip level for a base dimension.
func MipLevelSize(base, level int32) int32 {
	return max(base>>level, 1)
}

// HasStencil reports whether a depth format has a stencil component.
func (d DepthFormat) HasStencil() bool {
	return d == DepthFormatDepth24Stencil8
}
