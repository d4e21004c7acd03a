package graphics

import (
	"github.com/spaghettifunk/xnagfx/engine/math"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

/**
 * @brief How source and destination colours are combined. A BlendState must
 * not be modified once it has been assigned to a device.
 */
type BlendState struct {
	Name string

	AlphaBlendFunction    metadata.BlendFunction
	AlphaDestinationBlend metadata.Blend
	AlphaSourceBlend      metadata.Blend
	ColorBlendFunction    metadata.BlendFunction
	ColorDestinationBlend metadata.Blend
	ColorSourceBlend      metadata.Blend
	ColorWriteChannels    metadata.ColorWriteChannels
	ColorWriteChannels1   metadata.ColorWriteChannels
	ColorWriteChannels2   metadata.ColorWriteChannels
	ColorWriteChannels3   metadata.ColorWriteChannels
	BlendFactor           math.Color
	MultiSampleMask       int32
}

var (
	BlendStateAdditive         = newBlendPreset("BlendState.Additive", metadata.BlendSourceAlpha, metadata.BlendOne)
	BlendStateAlphaBlend       = newBlendPreset("BlendState.AlphaBlend", metadata.BlendOne, metadata.BlendInverseSourceAlpha)
	BlendStateNonPremultiplied = newBlendPreset("BlendState.NonPremultiplied", metadata.BlendSourceAlpha, metadata.BlendInverseSourceAlpha)
	BlendStateOpaque           = newBlendPreset("BlendState.Opaque", metadata.BlendOne, metadata.BlendZero)
)

// NewBlendState returns a blend state with the default (opaque) values.
func NewBlendState() *BlendState {
	return &BlendState{
		AlphaBlendFunction:    metadata.BlendFunctionAdd,
		AlphaDestinationBlend: metadata.BlendZero,
		AlphaSourceBlend:      metadata.BlendOne,
		ColorBlendFunction:    metadata.BlendFunctionAdd,
		ColorDestinationBlend: metadata.BlendZero,
		ColorSourceBlend:      metadata.BlendOne,
		ColorWriteChannels:    metadata.ColorWriteChannelsAll,
		ColorWriteChannels1:   metadata.ColorWriteChannelsAll,
		ColorWriteChannels2:   metadata.ColorWriteChannelsAll,
		ColorWriteChannels3:   metadata.ColorWriteChannelsAll,
		BlendFactor:           math.ColorWhite,
		MultiSampleMask:       -1,
	}
}

func newBlendPreset(name string, source, destination metadata.Blend) *BlendState {
	s := NewBlendState()
	s.Name = name
	s.ColorSourceBlend = source
	s.AlphaSourceBlend = source
	s.ColorDestinationBlend = destination
	s.AlphaDestinationBlend = destination
	return s
}

func (s *BlendState) native() metadata.BlendState {
	return metadata.BlendState{
		ColorSourceBlend:      s.ColorSourceBlend,
		ColorDestinationBlend: s.ColorDestinationBlend,
		ColorBlendFunction:    s.ColorBlendFunction,
		AlphaSourceBlend:      s.AlphaSourceBlend,
		AlphaDestinationBlend: s.AlphaDestinationBlend,
		AlphaBlendFunction:    s.AlphaBlendFunction,
		ColorWriteEnable:      s.ColorWriteChannels,
		ColorWriteEnable1:     s.ColorWriteChannels1,
		ColorWriteEnable2:     s.ColorWriteChannels2,
		ColorWriteEnable3:     s.ColorWriteChannels3,
		BlendFactor:           s.BlendFactor,
		MultiSampleMask:       s.MultiSampleMask,
	}
}
