package graphics

import (
	"fmt"
	gomath "math"
)

// StateHash is a 128-bit structural key for cached state objects.
type StateHash struct {
	A uint64
	B uint64
}

func (h StateHash) String() string {
	return fmt.Sprintf("%016x%016x", h.A, h.B)
}

// floatToULong reinterprets the bits of f; it never rounds.
func floatToULong(f float32) uint64 {
	return uint64(gomath.Float32bits(f))
}

func boolToInt(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// GetBlendHash packs every field of a blend state. The blend factors and
// write masks are packed into an unsigned 32-bit word.
func GetBlendHash(s *BlendState) StateHash {
	funcs := uint64(s.AlphaBlendFunction)<<4 | uint64(s.ColorBlendFunction)
	blendsAndColorWriteChannels := uint32(s.AlphaDestinationBlend)<<28 |
		uint32(s.AlphaSourceBlend)<<24 |
		uint32(s.ColorDestinationBlend)<<20 |
		uint32(s.ColorSourceBlend)<<16 |
		uint32(s.ColorWriteChannels)<<12 |
		uint32(s.ColorWriteChannels1)<<8 |
		uint32(s.ColorWriteChannels2)<<4 |
		uint32(s.ColorWriteChannels3)
	return StateHash{
		A: funcs<<32 | uint64(blendsAndColorWriteChannels),
		B: uint64(uint32(s.MultiSampleMask))<<32 | uint64(s.BlendFactor.PackedValue()),
	}
}

func GetDepthStencilHash(s *DepthStencilState) StateHash {
	isEnabled := boolToInt(s.DepthBufferEnable)<<3 |
		boolToInt(s.DepthBufferWriteEnable)<<2 |
		boolToInt(s.StencilEnable)<<1 |
		boolToInt(s.TwoSidedStencilMode)
	funcs := uint64(s.DepthBufferFunction)<<3 | uint64(s.StencilFunction)
	stencilOps := uint64(s.StencilPass)<<9 |
		uint64(s.StencilFail)<<6 |
		uint64(s.StencilDepthBufferFail)<<3 |
		uint64(s.CounterClockwiseStencilFunction)
	ccwStencilOps := uint64(s.CounterClockwiseStencilPass)<<6 |
		uint64(s.CounterClockwiseStencilFail)<<3 |
		uint64(s.CounterClockwiseStencilDepthBufferFail)
	return StateHash{
		A: isEnabled<<60 | funcs<<54 | stencilOps<<42 | ccwStencilOps<<32 | uint64(uint32(s.ReferenceStencil)),
		B: uint64(uint32(s.StencilMask))<<32 | uint64(uint32(s.StencilWriteMask)),
	}
}

func GetRasterizerHash(s *RasterizerState) StateHash {
	flags := uint64(s.CullMode)<<3 |
		uint64(s.FillMode)<<2 |
		boolToInt(s.ScissorTestEnable)<<1 |
		boolToInt(s.MultiSampleAntiAlias)
	return StateHash{
		A: flags,
		B: floatToULong(s.SlopeScaleDepthBias)<<32 | floatToULong(s.DepthBias),
	}
}

func GetSamplerHash(s *SamplerState) StateHash {
	filterAndAddresses := uint64(s.Filter)<<6 |
		uint64(s.AddressU)<<4 |
		uint64(s.AddressV)<<2 |
		uint64(s.AddressW)
	return StateHash{
		A: uint64(uint32(s.MaxAnisotropy))<<32 | filterAndAddresses,
		B: uint64(uint32(s.MaxMipLevel))<<32 | floatToULong(s.MipMapLevelOfDetailBias),
	}
}
