package graphics

import "github.com/spaghettifunk/xnagfx/engine/renderer/metadata"

type SamplerState struct {
	Name string

	Filter                  metadata.TextureFilter
	AddressU                metadata.TextureAddressMode
	AddressV                metadata.TextureAddressMode
	AddressW                metadata.TextureAddressMode
	MaxAnisotropy           int32
	MaxMipLevel             int32
	MipMapLevelOfDetailBias float32
}

var (
	SamplerStateAnisotropicClamp = newSamplerPreset("SamplerState.AnisotropicClamp", metadata.TextureFilterAnisotropic, metadata.TextureAddressModeClamp)
	SamplerStateAnisotropicWrap  = newSamplerPreset("SamplerState.AnisotropicWrap", metadata.TextureFilterAnisotropic, metadata.TextureAddressModeWrap)
	SamplerStateLinearClamp      = newSamplerPreset("SamplerState.LinearClamp", metadata.TextureFilterLinear, metadata.TextureAddressModeClamp)
	SamplerStateLinearWrap       = newSamplerPreset("SamplerState.LinearWrap", metadata.TextureFilterLinear, metadata.TextureAddressModeWrap)
	SamplerStatePointClamp       = newSamplerPreset("SamplerState.PointClamp", metadata.TextureFilterPoint, metadata.TextureAddressModeClamp)
	SamplerStatePointWrap        = newSamplerPreset("SamplerState.PointWrap", metadata.TextureFilterPoint, metadata.TextureAddressModeWrap)
)

func NewSamplerState() *SamplerState {
	return &SamplerState{
		Filter:        metadata.TextureFilterLinear,
		AddressU:      metadata.TextureAddressModeWrap,
		AddressV:      metadata.TextureAddressModeWrap,
		AddressW:      metadata.TextureAddressModeWrap,
		MaxAnisotropy: 4,
	}
}

func newSamplerPreset(name string, filter metadata.TextureFilter, address metadata.TextureAddressMode) *SamplerState {
	s := NewSamplerState()
	s.Name = name
	s.Filter = filter
	s.AddressU = address
	s.AddressV = address
	s.AddressW = address
	return s
}

func (s *SamplerState) native() metadata.SamplerState {
	return metadata.SamplerState{
		Filter:                  s.Filter,
		AddressU:                s.AddressU,
		AddressV:                s.AddressV,
		AddressW:                s.AddressW,
		MipMapLevelOfDetailBias: s.MipMapLevelOfDetailBias,
		MaxAnisotropy:           s.MaxAnisotropy,
		MaxMipLevel:             s.MaxMipLevel,
	}
}
