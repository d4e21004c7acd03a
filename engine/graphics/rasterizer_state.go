package graphics

import "github.com/spaghettifunk/xnagfx/engine/renderer/metadata"

type RasterizerState struct {
	Name string

	CullMode             metadata.CullMode
	FillMode             metadata.FillMode
	DepthBias            float32
	SlopeScaleDepthBias  float32
	ScissorTestEnable    bool
	MultiSampleAntiAlias bool
}

var (
	RasterizerStateCullClockwise        = newRasterizerPreset("RasterizerState.CullClockwise", metadata.CullModeCullClockwiseFace)
	RasterizerStateCullCounterClockwise = newRasterizerPreset("RasterizerState.CullCounterClockwise", metadata.CullModeCullCounterClockwiseFace)
	RasterizerStateCullNone             = newRasterizerPreset("RasterizerState.CullNone", metadata.CullModeNone)
)

func NewRasterizerState() *RasterizerState {
	return &RasterizerState{
		CullMode:             metadata.CullModeCullCounterClockwiseFace,
		FillMode:             metadata.FillModeSolid,
		MultiSampleAntiAlias: true,
	}
}

func newRasterizerPreset(name string, cullMode metadata.CullMode) *RasterizerState {
	s := NewRasterizerState()
	s.Name = name
	s.CullMode = cullMode
	return s
}

func (s *RasterizerState) native() metadata.RasterizerState {
	return metadata.RasterizerState{
		FillMode:             s.FillMode,
		CullMode:             s.CullMode,
		DepthBias:            s.DepthBias,
		SlopeScaleDepthBias:  s.SlopeScaleDepthBias,
		ScissorTestEnable:    s.ScissorTestEnable,
		MultiSampleAntiAlias: s.MultiSampleAntiAlias,
	}
}
