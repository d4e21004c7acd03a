package graphics

import (
	gomath "math"

	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

type DepthStencilState struct {
	Name string

	DepthBufferEnable                      bool
	DepthBufferWriteEnable                 bool
	DepthBufferFunction                    metadata.CompareFunction
	StencilEnable                          bool
	StencilFunction                        metadata.CompareFunction
	StencilPass                            metadata.StencilOperation
	StencilFail                            metadata.StencilOperation
	StencilDepthBufferFail                 metadata.StencilOperation
	TwoSidedStencilMode                    bool
	CounterClockwiseStencilFunction        metadata.CompareFunction
	CounterClockwiseStencilFail            metadata.StencilOperation
	CounterClockwiseStencilPass            metadata.StencilOperation
	CounterClockwiseStencilDepthBufferFail metadata.StencilOperation
	StencilMask                            int32
	StencilWriteMask                       int32
	ReferenceStencil                       int32
}

var (
	DepthStencilStateDefault   = newDepthStencilPreset("DepthStencilState.Default", true, true)
	DepthStencilStateDepthRead = newDepthStencilPreset("DepthStencilState.DepthRead", true, false)
	DepthStencilStateNone      = newDepthStencilPreset("DepthStencilState.None", false, false)
)

func NewDepthStencilState() *DepthStencilState {
	return &DepthStencilState{
		DepthBufferEnable:                      true,
		DepthBufferWriteEnable:                 true,
		DepthBufferFunction:                    metadata.CompareFunctionLessEqual,
		StencilEnable:                          false,
		StencilFunction:                        metadata.CompareFunctionAlways,
		StencilPass:                            metadata.StencilOperationKeep,
		StencilFail:                            metadata.StencilOperationKeep,
		StencilDepthBufferFail:                 metadata.StencilOperationKeep,
		TwoSidedStencilMode:                    false,
		CounterClockwiseStencilFunction:        metadata.CompareFunctionAlways,
		CounterClockwiseStencilFail:            metadata.StencilOperationKeep,
		CounterClockwiseStencilPass:            metadata.StencilOperationKeep,
		CounterClockwiseStencilDepthBufferFail: metadata.StencilOperationKeep,
		StencilMask:                            gomath.MaxInt32,
		StencilWriteMask:                       gomath.MaxInt32,
		ReferenceStencil:                       0,
	}
}

func newDepthStencilPreset(name string, depthBufferEnable, depthBufferWriteEnable bool) *DepthStencilState {
	s := NewDepthStencilState()
	s.Name = name
	s.DepthBufferEnable = depthBufferEnable
	s.DepthBufferWriteEnable = depthBufferWriteEnable
	return s
}

func (s *DepthStencilState) native() metadata.DepthStencilState {
	return metadata.DepthStencilState{
		DepthBufferEnable:                      s.DepthBufferEnable,
		DepthBufferWriteEnable:                 s.DepthBufferWriteEnable,
		DepthBufferFunction:                    s.DepthBufferFunction,
		StencilEnable:                          s.StencilEnable,
		StencilMask:                            s.StencilMask,
		StencilWriteMask:                       s.StencilWriteMask,
		TwoSidedStencilMode:                    s.TwoSidedStencilMode,
		StencilFail:                            s.StencilFail,
		StencilDepthBufferFail:                 s.StencilDepthBufferFail,
		StencilPass:                            s.StencilPass,
		StencilFunction:                        s.StencilFunction,
		CounterClockwiseStencilFail:            s.CounterClockwiseStencilFail,
		CounterClockwiseStencilDepthBufferFail: s.CounterClockwiseStencilDepthBufferFail,
		CounterClockwiseStencilPass:            s.CounterClockwiseStencilPass,
		CounterClockwiseStencilFunction:        s.CounterClockwiseStencilFunction,
		ReferenceStencil:                       s.ReferenceStencil,
	}
}
