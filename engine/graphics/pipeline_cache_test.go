package graphics

import (
	"errors"
	"strings"
	"testing"

	"github.com/spaghettifunk/xnagfx/engine/math"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

func TestPipelineCacheBlendIdempotent(t *testing.T) {
	d, _ := newTestDevice(t, 64, 64)
	pc := d.PipelineCache

	pc.BeginApplyBlend()
	pc.EndApplyBlend()
	first := d.BlendState()
	if !strings.HasPrefix(first.Name, "PipelineCache.Blend.") {
		t.Errorf("BlendState().Name = %q, want PipelineCache.Blend prefix", first.Name)
	}
	if GetBlendHash(first) != GetBlendHash(BlendStateOpaque) {
		t.Errorf("GetBlendHash(cached) = %v, want %v", GetBlendHash(first), GetBlendHash(BlendStateOpaque))
	}

	pc.BeginApplyBlend()
	pc.EndApplyBlend()
	if d.BlendState() != first {
		t.Errorf("BlendState() = %p after unchanged session, want %p", d.BlendState(), first)
	}
	if blend, _, _, _ := pc.Len(); blend != 1 {
		t.Errorf("Len() blend = %d, want 1", blend)
	}
}

func TestPipelineCacheSharesEqualStates(t *testing.T) {
	d, _ := newTestDevice(t, 64, 64)
	pc := d.PipelineCache

	apply := func() *BlendState {
		d.SetBlendState(BlendStateOpaque)
		pc.BeginApplyBlend()
		pc.Blend.ColorSourceBlend = metadata.BlendSourceAlpha
		pc.Blend.ColorDestinationBlend = metadata.BlendInverseSourceAlpha
		pc.EndApplyBlend()
		return d.BlendState()
	}
	a := apply()
	b := apply()
	if a != b {
		t.Errorf("EndApplyBlend() returned %p and %p for equal states", a, b)
	}
	if a.ColorSourceBlend != metadata.BlendSourceAlpha || a.AlphaSourceBlend != metadata.BlendOne {
		t.Errorf("cached state = %+v, want colour source SourceAlpha and alpha source One", a)
	}
}

func TestPipelineCacheSeparateAlphaBlend(t *testing.T) {
	tests := []struct {
		name  string
		state *BlendState
		want  bool
	}{
		{"opaque", BlendStateOpaque, false},
		{"alpha blend", BlendStateAlphaBlend, false},
		{"separate", func() *BlendState {
			s := NewBlendState()
			s.AlphaDestinationBlend = metadata.BlendOne
			return s
		}(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDevice(t, 16, 16)
			d.SetBlendState(tt.state)
			d.PipelineCache.BeginApplyBlend()
			if got := d.PipelineCache.SeparateAlphaBlend; got != tt.want {
				t.Errorf("SeparateAlphaBlend = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPipelineCacheNativeBlendOncePerState(t *testing.T) {
	d, spy := newTestDevice(t, 32, 32)
	vb := newTriangleBuffer(t, d, math.ColorWhite)
	d.SetVertexBuffer(vb, 0)

	for i := 0; i < 3; i++ {
		d.PipelineCache.BeginApplyBlend()
		d.PipelineCache.Blend.ColorWriteChannels = metadata.ColorWriteChannelsRed
		d.PipelineCache.EndApplyBlend()
		if err := d.DrawPrimitives(metadata.PrimitiveTypeTriangleList, 0, 1); err != nil {
			t.Fatalf("DrawPrimitives() error = %v", err)
		}
	}
	if got := spy.count("SetBlendState"); got != 1 {
		t.Errorf("SetBlendState calls = %d, want 1", got)
	}
}

func TestPipelineCacheDepthStencilAndRasterizer(t *testing.T) {
	d, _ := newTestDevice(t, 16, 16)
	pc := d.PipelineCache

	pc.BeginApplyDepthStencil()
	pc.DepthStencil.DepthBufferWriteEnable = false
	pc.EndApplyDepthStencil()
	ds := d.DepthStencilState()
	if ds.DepthBufferWriteEnable || !ds.DepthBufferEnable {
		t.Errorf("DepthStencilState() = %+v, want read-only depth", ds)
	}
	if GetDepthStencilHash(ds) != GetDepthStencilHash(DepthStencilStateDepthRead) {
		t.Errorf("GetDepthStencilHash(cached) differs from DepthStencilStateDepthRead")
	}

	pc.BeginApplyRasterizer()
	pc.Rasterizer.CullMode = metadata.CullModeNone
	pc.EndApplyRasterizer()
	rs := d.RasterizerState()
	pc.BeginApplyRasterizer()
	pc.EndApplyRasterizer()
	if d.RasterizerState() != rs {
		t.Errorf("RasterizerState() changed after unchanged session")
	}
	if rs.CullMode != metadata.CullModeNone {
		t.Errorf("RasterizerState().CullMode = %v, want %v", rs.CullMode, metadata.CullModeNone)
	}

	if _, dsn, rsn, _ := pc.Len(); dsn != 1 || rsn != 1 {
		t.Errorf("Len() = (_, %d, %d, _), want (_, 1, 1, _)", dsn, rsn)
	}
}

func TestPipelineCacheSampler(t *testing.T) {
	d, _ := newTestDevice(t, 16, 16)
	pc := d.PipelineCache

	if err := pc.BeginApplySampler(d.SamplerStates, 2); err != nil {
		t.Fatalf("BeginApplySampler() error = %v", err)
	}
	if pc.Sampler.Filter != metadata.TextureFilterLinear || pc.Sampler.AddressU != metadata.TextureAddressModeWrap {
		t.Errorf("BeginApplySampler() scratch = %+v, want LinearWrap", pc.Sampler)
	}
	pc.Sampler.Filter = metadata.TextureFilterPoint
	if err := pc.EndApplySampler(d.SamplerStates, 2); err != nil {
		t.Fatalf("EndApplySampler() error = %v", err)
	}

	s := d.SamplerStates.Get(2)
	if s.Filter != metadata.TextureFilterPoint {
		t.Errorf("SamplerStates.Get(2).Filter = %v, want %v", s.Filter, metadata.TextureFilterPoint)
	}
	if s == SamplerStatePointWrap {
		t.Errorf("SamplerStates.Get(2) is the preset, want the cached instance")
	}

	pc.BeginApplySampler(d.SamplerStates, 5)
	pc.Sampler.Filter = metadata.TextureFilterPoint
	pc.EndApplySampler(d.SamplerStates, 5)
	if d.SamplerStates.Get(5) != s {
		t.Errorf("SamplerStates.Get(5) = %p, want shared %p", d.SamplerStates.Get(5), s)
	}
}

func TestPipelineCacheSamplerRegisterRange(t *testing.T) {
	d, _ := newTestDevice(t, 16, 16)
	pc := d.PipelineCache

	for _, register := range []int{-1, MaxTextureSamplers, MaxTextureSamplers + 4} {
		if err := pc.BeginApplySampler(d.SamplerStates, register); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("BeginApplySampler(%d) error = %v, want %v", register, err, ErrInvalidArgument)
		}
		if err := pc.EndApplySampler(d.SamplerStates, register); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("EndApplySampler(%d) error = %v, want %v", register, err, ErrInvalidArgument)
		}
	}
	if _, _, _, n := pc.Len(); n != 0 {
		t.Errorf("Len() sampler = %d, want 0", n)
	}
}
