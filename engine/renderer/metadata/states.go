package metadata

import "github.com/spaghettifunk/xnagfx/engine/math"

// The structs in this file are the packed, by-value state descriptions handed
// to a backend. They mirror the managed state objects field for field.

type BlendState struct {
	ColorSourceBlend      Blend
	ColorDestinationBlend Blend
	ColorBlendFunction    BlendFunction
	AlphaSourceBlend      Blend
	AlphaDestinationBlend Blend
	AlphaBlendFunction    BlendFunction
	ColorWriteEnable      ColorWriteChannels
	ColorWriteEnable1     ColorWriteChannels
	ColorWriteEnable2     ColorWriteChannels
	ColorWriteEnable3     ColorWriteChannels
	BlendFactor           math.Color
	MultiSampleMask       int32
}

// WriteMask returns the colour write mask of render target slot i (0-3).
func (b *BlendState) WriteMask(i int) ColorWriteChannels {
	switch i {
	case 1:
		return b.ColorWriteEnable1
	case 2:
		return b.ColorWriteEnable2
	case 3:
		return b.ColorWriteEnable3
	}
	return b.ColorWriteEnable
}

type DepthStencilState struct {
	DepthBufferEnable                      bool
	DepthBufferWriteEnable                 bool
	DepthBufferFunction                    CompareFunction
	StencilEnable                          bool
	StencilMask                            int32
	StencilWriteMask                       int32
	TwoSidedStencilMode                    bool
	StencilFail                            StencilOperation
	StencilDepthBufferFail                 StencilOperation
	StencilPass                            StencilOperation
	StencilFunction                        CompareFunction
	CounterClockwiseStencilFail            StencilOperation
	CounterClockwiseStencilDepthBufferFail StencilOperation
	CounterClockwiseStencilPass            StencilOperation
	CounterClockwiseStencilFunction        CompareFunction
	ReferenceStencil                       int32
}

type RasterizerState struct {
	FillMode             FillMode
	CullMode             CullMode
	DepthBias            float32
	SlopeScaleDepthBias  float32
	ScissorTestEnable    bool
	MultiSampleAntiAlias bool
}

type SamplerState struct {
	Filter                  TextureFilter
	AddressU                TextureAddressMode
	AddressV                TextureAddressMode
	AddressW                TextureAddressMode
	MipMapLevelOfDetailBias float32
	MaxAnisotropy           int32
	MaxMipLevel             int32
}

/** @brief Viewport in backend coordinates. */
type Viewport struct {
	X, Y          int32
	Width, Height int32
	MinDepth      float32
	MaxDepth      float32
}

// Bounds returns the viewport rectangle.
func (v Viewport) Bounds() math.Rectangle {
	return math.NewRectangle(v.X, v.Y, v.Width, v.Height)
}

// AspectRatio returns width / height, or 0 for an empty viewport.
func (v Viewport) AspectRatio() float32 {
	if v.Width == 0 || v.Height == 0 {
		return 0
	}
	return float32(v.Width) / float32(v.Height)
}
