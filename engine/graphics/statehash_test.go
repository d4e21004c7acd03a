package graphics

import (
	gomath "math"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/spaghettifunk/xnagfx/engine/math"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

const hashIterations = 2000

func randomBlendState(r *rand.Rand) BlendState {
	return BlendState{
		AlphaBlendFunction:    metadata.BlendFunction(r.Intn(5)),
		AlphaDestinationBlend: metadata.Blend(r.Intn(13)),
		AlphaSourceBlend:      metadata.Blend(r.Intn(13)),
		ColorBlendFunction:    metadata.BlendFunction(r.Intn(5)),
		ColorDestinationBlend: metadata.Blend(r.Intn(13)),
		ColorSourceBlend:      metadata.Blend(r.Intn(13)),
		ColorWriteChannels:    metadata.ColorWriteChannels(r.Intn(16)),
		ColorWriteChannels1:   metadata.ColorWriteChannels(r.Intn(16)),
		ColorWriteChannels2:   metadata.ColorWriteChannels(r.Intn(16)),
		ColorWriteChannels3:   metadata.ColorWriteChannels(r.Intn(16)),
		BlendFactor:           math.NewColorFromPacked(r.Uint32()),
		MultiSampleMask:       int32(r.Uint32()),
	}
}

// mutateBlendState changes exactly one field of s to another valid value.
func mutateBlendState(r *rand.Rand, s *BlendState) {
	switch r.Intn(12) {
	case 0:
		s.AlphaBlendFunction = (s.AlphaBlendFunction + 1) % 5
	case 1:
		s.AlphaDestinationBlend = (s.AlphaDestinationBlend + 1) % 13
	case 2:
		s.AlphaSourceBlend = (s.AlphaSourceBlend + 1) % 13
	case 3:
		s.ColorBlendFunction = (s.ColorBlendFunction + 1) % 5
	case 4:
		s.ColorDestinationBlend = (s.ColorDestinationBlend + 1) % 13
	case 5:
		s.ColorSourceBlend = (s.ColorSourceBlend + 1) % 13
	case 6:
		s.ColorWriteChannels ^= metadata.ColorWriteChannelsRed
	case 7:
		s.ColorWriteChannels1 ^= metadata.ColorWriteChannelsGreen
	case 8:
		s.ColorWriteChannels2 ^= metadata.ColorWriteChannelsBlue
	case 9:
		s.ColorWriteChannels3 ^= metadata.ColorWriteChannelsAlpha
	case 10:
		s.BlendFactor.A++
	case 11:
		s.MultiSampleMask ^= 1 << uint(r.Intn(32))
	}
}

func randomDepthStencilState(r *rand.Rand) DepthStencilState {
	return DepthStencilState{
		DepthBufferEnable:                      r.Intn(2) == 1,
		DepthBufferWriteEnable:                 r.Intn(2) == 1,
		DepthBufferFunction:                    metadata.CompareFunction(r.Intn(8)),
		StencilEnable:                          r.Intn(2) == 1,
		StencilFunction:                        metadata.CompareFunction(r.Intn(8)),
		StencilPass:                            metadata.StencilOperation(r.Intn(8)),
		StencilFail:                            metadata.StencilOperation(r.Intn(8)),
		StencilDepthBufferFail:                 metadata.StencilOperation(r.Intn(8)),
		TwoSidedStencilMode:                    r.Intn(2) == 1,
		CounterClockwiseStencilFunction:        metadata.CompareFunction(r.Intn(8)),
		CounterClockwiseStencilFail:            metadata.StencilOperation(r.Intn(8)),
		CounterClockwiseStencilPass:            metadata.StencilOperation(r.Intn(8)),
		CounterClockwiseStencilDepthBufferFail: metadata.StencilOperation(r.Intn(8)),
		StencilMask:                            int32(r.Uint32()),
		StencilWriteMask:                       int32(r.Uint32()),
		ReferenceStencil:                       int32(r.Uint32()),
	}
}

func mutateDepthStencilState(r *rand.Rand, s *DepthStencilState) {
	switch r.Intn(16) {
	case 0:
		s.DepthBufferEnable = !s.DepthBufferEnable
	case 1:
		s.DepthBufferWriteEnable = !s.DepthBufferWriteEnable
	case 2:
		s.DepthBufferFunction = (s.DepthBufferFunction + 1) % 8
	case 3:
		s.StencilEnable = !s.StencilEnable
	case 4:
		s.StencilFunction = (s.StencilFunction + 1) % 8
	case 5:
		s.StencilPass = (s.StencilPass + 1) % 8
	case 6:
		s.StencilFail = (s.StencilFail + 1) % 8
	case 7:
		s.StencilDepthBufferFail = (s.StencilDepthBufferFail + 1) % 8
	case 8:
		s.TwoSidedStencilMode = !s.TwoSidedStencilMode
	case 9:
		s.CounterClockwiseStencilFunction = (s.CounterClockwiseStencilFunction + 1) % 8
	case 10:
		s.CounterClockwiseStencilFail = (s.CounterClockwiseStencilFail + 1) % 8
	case 11:
		s.CounterClockwiseStencilPass = (s.CounterClockwiseStencilPass + 1) % 8
	case 12:
		s.CounterClockwiseStencilDepthBufferFail = (s.CounterClockwiseStencilDepthBufferFail + 1) % 8
	case 13:
		s.StencilMask ^= 1 << uint(r.Intn(32))
	case 14:
		s.StencilWriteMask ^= 1 << uint(r.Intn(32))
	case 15:
		s.ReferenceStencil ^= 1 << uint(r.Intn(32))
	}
}

func randomRasterizerState(r *rand.Rand) RasterizerState {
	return RasterizerState{
		CullMode:             metadata.CullMode(r.Intn(3)),
		FillMode:             metadata.FillMode(r.Intn(2)),
		DepthBias:            r.Float32(),
		SlopeScaleDepthBias:  r.Float32(),
		ScissorTestEnable:    r.Intn(2) == 1,
		MultiSampleAntiAlias: r.Intn(2) == 1,
	}
}

func mutateRasterizerState(r *rand.Rand, s *RasterizerState) {
	switch r.Intn(6) {
	case 0:
		s.CullMode = (s.CullMode + 1) % 3
	case 1:
		s.FillMode = (s.FillMode + 1) % 2
	case 2:
		s.DepthBias = gomath.Nextafter32(s.DepthBias, 2)
	case 3:
		s.SlopeScaleDepthBias = gomath.Nextafter32(s.SlopeScaleDepthBias, 2)
	case 4:
		s.ScissorTestEnable = !s.ScissorTestEnable
	case 5:
		s.MultiSampleAntiAlias = !s.MultiSampleAntiAlias
	}
}

func randomSamplerState(r *rand.Rand) SamplerState {
	return SamplerState{
		Filter:                  metadata.TextureFilter(r.Intn(9)),
		AddressU:                metadata.TextureAddressMode(r.Intn(3)),
		AddressV:                metadata.TextureAddressMode(r.Intn(3)),
		AddressW:                metadata.TextureAddressMode(r.Intn(3)),
		MaxAnisotropy:           int32(r.Intn(17)),
		MaxMipLevel:             int32(r.Intn(16)),
		MipMapLevelOfDetailBias: r.Float32()*8 - 4,
	}
}

func mutateSamplerState(r *rand.Rand, s *SamplerState) {
	switch r.Intn(7) {
	case 0:
		s.Filter = (s.Filter + 1) % 9
	case 1:
		s.AddressU = (s.AddressU + 1) % 3
	case 2:
		s.AddressV = (s.AddressV + 1) % 3
	case 3:
		s.AddressW = (s.AddressW + 1) % 3
	case 4:
		s.MaxAnisotropy++
	case 5:
		s.MaxMipLevel++
	case 6:
		s.MipMapLevelOfDetailBias = gomath.Nextafter32(s.MipMapLevelOfDetailBias, 8)
	}
}

func TestStateHashDeterminism(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	t.Run("blend", func(t *testing.T) {
		for i := 0; i < hashIterations; i++ {
			a := randomBlendState(r)
			b := a
			b.Name = "renamed"
			if GetBlendHash(&a) != GetBlendHash(&b) {
				t.Fatalf("GetBlendHash() differs for equal states %+v", a)
			}
			mutateBlendState(r, &b)
			if GetBlendHash(&a) == GetBlendHash(&b) {
				t.Fatalf("GetBlendHash() collides for %+v and %+v", a, b)
			}
		}
	})

	t.Run("depth stencil", func(t *testing.T) {
		for i := 0; i < hashIterations; i++ {
			a := randomDepthStencilState(r)
			b := a
			if GetDepthStencilHash(&a) != GetDepthStencilHash(&b) {
				t.Fatalf("GetDepthStencilHash() differs for equal states %+v", a)
			}
			mutateDepthStencilState(r, &b)
			if GetDepthStencilHash(&a) == GetDepthStencilHash(&b) {
				t.Fatalf("GetDepthStencilHash() collides for %+v and %+v", a, b)
			}
		}
	})

	t.Run("rasterizer", func(t *testing.T) {
		for i := 0; i < hashIterations; i++ {
			a := randomRasterizerState(r)
			b := a
			if GetRasterizerHash(&a) != GetRasterizerHash(&b) {
				t.Fatalf("GetRasterizerHash() differs for equal states %+v", a)
			}
			mutateRasterizerState(r, &b)
			if GetRasterizerHash(&a) == GetRasterizerHash(&b) {
				t.Fatalf("GetRasterizerHash() collides for %+v and %+v", a, b)
			}
		}
	})

	t.Run("sampler", func(t *testing.T) {
		for i := 0; i < hashIterations; i++ {
			a := randomSamplerState(r)
			b := a
			if GetSamplerHash(&a) != GetSamplerHash(&b) {
				t.Fatalf("GetSamplerHash() differs for equal states %+v", a)
			}
			mutateSamplerState(r, &b)
			if GetSamplerHash(&a) == GetSamplerHash(&b) {
				t.Fatalf("GetSamplerHash() collides for %+v and %+v", a, b)
			}
		}
	})
}

func TestRasterizerHashFloatBits(t *testing.T) {
	tests := []struct {
		name string
		a, b float32
		same bool
	}{
		{"equal", 0.0001, 0.0001, true},
		{"next float", 0.0001, gomath.Nextafter32(0.0001, 1), false},
		{"signed zero", 0, float32(gomath.Copysign(0, -1)), false},
		{"no rounding", 0.0001, 0.0001000001, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := RasterizerState{DepthBias: tt.a}
			b := RasterizerState{DepthBias: tt.b}
			if got := GetRasterizerHash(&a) == GetRasterizerHash(&b); got != tt.same {
				t.Errorf("hash(%v) == hash(%v) = %v, want %v", tt.a, tt.b, got, tt.same)
			}
		})
	}
}

func TestBlendHashHighBlendValues(t *testing.T) {
	a := *BlendStateOpaque
	a.AlphaDestinationBlend = metadata.BlendSourceAlphaSaturation
	h := GetBlendHash(&a)
	if funcs := h.A >> 32; funcs != uint64(a.AlphaBlendFunction)<<4|uint64(a.ColorBlendFunction) {
		t.Errorf("GetBlendHash().A high word = %#x, want blend functions only", funcs)
	}
}

func TestPresetHashesAreDistinct(t *testing.T) {
	blends := []*BlendState{BlendStateAdditive, BlendStateAlphaBlend, BlendStateNonPremultiplied, BlendStateOpaque}
	seen := map[StateHash]string{}
	for _, s := range blends {
		h := GetBlendHash(s)
		if other, ok := seen[h]; ok {
			t.Errorf("GetBlendHash(%s) == GetBlendHash(%s)", s.Name, other)
		}
		seen[h] = s.Name
	}

	samplers := []*SamplerState{
		SamplerStateAnisotropicClamp, SamplerStateAnisotropicWrap,
		SamplerStateLinearClamp, SamplerStateLinearWrap,
		SamplerStatePointClamp, SamplerStatePointWrap,
	}
	seenSamplers := map[StateHash]string{}
	for _, s := range samplers {
		h := GetSamplerHash(s)
		if other, ok := seenSamplers[h]; ok {
			t.Errorf("GetSamplerHash(%s) == GetSamplerHash(%s)", s.Name, other)
		}
		seenSamplers[h] = s.Name
	}
}
