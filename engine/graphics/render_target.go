package graphics

import (
	"github.com/spaghettifunk/xnagfx/engine/math"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

// RenderTarget is a texture that can be bound with SetRenderTargets.
type RenderTarget interface {
	Texture
	renderTarget() *renderTargetState
	nativeBinding(face metadata.CubeMapFace) metadata.RenderTargetBinding
}

type renderTargetState struct {
	DepthStencilFormat metadata.DepthFormat
	MultiSampleCount   int32
	RenderTargetUsage  metadata.RenderTargetUsage

	colorBuffer        metadata.Renderbuffer
	depthStencilBuffer metadata.Renderbuffer
}

func (s *renderTargetState) renderTarget() *renderTargetState {
	return s
}

// createBuffers allocates the multisampled colour buffer and the depth
// buffer of a width x height target.
func (s *renderTargetState) createBuffers(device *GraphicsDevice, texture metadata.Texture, width, height int32, format metadata.SurfaceFormat) {
	device.run(func() {
		s.MultiSampleCount = device.backend.GetMaxMultiSampleCount(format, math.ClosestMSAAPower(s.MultiSampleCount))
		if s.MultiSampleCount > 0 {
			s.colorBuffer = device.backend.GenColorRenderbuffer(width, height, format, s.MultiSampleCount, texture)
		}
		if s.DepthStencilFormat != metadata.DepthFormatNone {
			s.depthStencilBuffer = device.backend.GenDepthStencilRenderbuffer(width, height, s.DepthStencilFormat, s.MultiSampleCount)
		}
	})
}

func (s *renderTargetState) releaseBuffers(device *GraphicsDevice) {
	if s.colorBuffer != 0 {
		device.disposal.renderbuffers.Enqueue(s.colorBuffer)
	}
	if s.depthStencilBuffer != 0 {
		device.disposal.renderbuffers.Enqueue(s.depthStencilBuffer)
	}
}

type RenderTarget2D struct {
	Texture2D
	renderTargetState
}

func NewRenderTarget2D(
	device *GraphicsDevice,
	width, height int32,
	mipMap bool,
	format metadata.SurfaceFormat,
	depthFormat metadata.DepthFormat,
	multiSampleCount int32,
	usage metadata.RenderTargetUsage,
) (*RenderTarget2D, error) {
	rt := &RenderTarget2D{
		renderTargetState: renderTargetState{
			DepthStencilFormat: depthFormat,
			MultiSampleCount:   multiSampleCount,
			RenderTargetUsage:  usage,
		},
	}
	if err := rt.create(device, width, height, mipMap, format, true); err != nil {
		return nil, err
	}
	rt.createBuffers(device, rt.native, width, height, format)
	rt.track(device, rt, func() {
		rt.releaseBuffers(device)
		rt.releaseNative()
	})
	return rt, nil
}

func (rt *RenderTarget2D) nativeBinding(face metadata.CubeMapFace) metadata.RenderTargetBinding {
	return metadata.RenderTargetBinding{
		Type:             metadata.RenderTargetType2D,
		Width:            rt.Width,
		Height:           rt.Height,
		LevelCount:       rt.LevelCount,
		MultiSampleCount: rt.MultiSampleCount,
		Texture:          rt.native,
		ColorBuffer:      rt.colorBuffer,
	}
}

type RenderTargetCube struct {
	TextureCube
	renderTargetState
}

func NewRenderTargetCube(
	device *GraphicsDevice,
	size int32,
	mipMap bool,
	format metadata.SurfaceFormat,
	depthFormat metadata.DepthFormat,
	multiSampleCount int32,
	usage metadata.RenderTargetUsage,
) (*RenderTargetCube, error) {
	rt := &RenderTargetCube{
		renderTargetState: renderTargetState{
			DepthStencilFormat: depthFormat,
			MultiSampleCount:   multiSampleCount,
			RenderTargetUsage:  usage,
		},
	}
	if err := rt.create(device, size, mipMap, format, true); err != nil {
		return nil, err
	}
	rt.createBuffers(device, rt.native, size, size, format)
	rt.track(device, rt, func() {
		rt.releaseBuffers(device)
		rt.releaseNative()
	})
	return rt, nil
}

func (rt *RenderTargetCube) nativeBinding(face metadata.CubeMapFace) metadata.RenderTargetBinding {
	return metadata.RenderTargetBinding{
		Type:             metadata.RenderTargetTypeCube,
		Width:            rt.Size,
		Height:           rt.Size,
		CubeMapFace:      face,
		LevelCount:       rt.LevelCount,
		MultiSampleCount: rt.MultiSampleCount,
		Texture:          rt.native,
		ColorBuffer:      rt.colorBuffer,
	}
}
