package graphics

import (
	"fmt"

	"github.com/spaghettifunk/xnagfx/engine/core"
	"github.com/spaghettifunk/xnagfx/engine/math"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

// RenderTargetBinding names a render target and, for cube targets, the face
// to draw into.
type RenderTargetBinding struct {
	RenderTarget RenderTarget
	CubeMapFace  metadata.CubeMapFace
}

func NewRenderTargetBinding(target *RenderTarget2D) RenderTargetBinding {
	return RenderTargetBinding{RenderTarget: target}
}

func NewRenderTargetCubeBinding(target *RenderTargetCube, face metadata.CubeMapFace) RenderTargetBinding {
	return RenderTargetBinding{RenderTarget: target, CubeMapFace: face}
}

func (d *GraphicsDevice) maxRenderTargets() int {
	if d.profile == metadata.GraphicsProfileReach {
		return 1
	}
	return MaxRenderTargetBindings
}

// RenderTargetCount reports how many render targets are bound; 0 means the
// backbuffer.
func (d *GraphicsDevice) RenderTargetCount() int {
	return d.renderTargetCount
}

func (d *GraphicsDevice) GetRenderTargets() []RenderTargetBinding {
	return append([]RenderTargetBinding(nil), d.renderTargetBindings[:d.renderTargetCount]...)
}

// SetRenderTarget binds target alone, or the backbuffer when target is nil.
func (d *GraphicsDevice) SetRenderTarget(target *RenderTarget2D) error {
	if target == nil {
		return d.SetRenderTargets()
	}
	return d.SetRenderTargets(NewRenderTargetBinding(target))
}

func (d *GraphicsDevice) SetRenderTargetCube(target *RenderTargetCube, face metadata.CubeMapFace) error {
	if target == nil {
		return d.SetRenderTargets()
	}
	return d.SetRenderTargets(NewRenderTargetCubeBinding(target, face))
}

/**
 * @brief Binds up to four render targets, or the backbuffer when none are given.
 *
 * Binding exactly the targets (and faces) already bound does nothing at all.
 * Otherwise previously bound targets that are no longer bound are resolved,
 * viewport and scissor are reset to the size of the first target, and a
 * target whose usage is DiscardContents is cleared to the discard colour.
 * The usage of an already bound set is not compared.
 */
func (d *GraphicsDevice) SetRenderTargets(bindings ...RenderTargetBinding) error {
	if d.disposed {
		return ErrDeviceDisposed
	}
	if err := d.validateRenderTargets(bindings); err != nil {
		return err
	}
	if d.renderTargetsBound(bindings) {
		return nil
	}

	defer d.lock()()
	d.applySamplers()

	var (
		width, height int32
		clearTarget   metadata.RenderTargetUsage
	)
	if len(bindings) == 0 {
		d.backend.SetRenderTargets(nil, 0, metadata.DepthFormatNone, d.params.RenderTargetUsage != metadata.RenderTargetUsageDiscardContents)
		for i := 0; i < d.renderTargetCount; i++ {
			d.resolve(i)
		}
		width, height = d.params.BackBufferWidth, d.params.BackBufferHeight
		clearTarget = d.params.RenderTargetUsage
	} else {
		for i := range bindings {
			d.nativeTargetBindingsNext[i] = bindings[i].RenderTarget.nativeBinding(bindings[i].CubeMapFace)
		}
		first := bindings[0].RenderTarget.renderTarget()
		d.backend.SetRenderTargets(
			d.nativeTargetBindingsNext[:len(bindings)],
			first.depthStencilBuffer,
			first.DepthStencilFormat,
			first.RenderTargetUsage != metadata.RenderTargetUsageDiscardContents,
		)
		for i := 0; i < d.renderTargetCount; i++ {
			if !stillBound(d.renderTargetBindings[i].RenderTarget, bindings) {
				d.resolve(i)
			}
		}
		width, height = d.nativeTargetBindingsNext[0].Width, d.nativeTargetBindingsNext[0].Height
		clearTarget = first.RenderTargetUsage
	}

	d.renderTargetBindings = [MaxRenderTargetBindings]RenderTargetBinding{}
	copy(d.renderTargetBindings[:], bindings)
	d.renderTargetCount = len(bindings)
	d.nativeTargetBindings, d.nativeTargetBindingsNext = d.nativeTargetBindingsNext, d.nativeTargetBindings
	d.metrics.RenderTargetChanges++
	if d.debug {
		d.logBindings()
	}

	d.setViewport(Viewport{Width: width, Height: height, MaxDepth: 1})
	d.setScissorRectangle(math.NewRectangle(0, 0, width, height))

	if clearTarget == metadata.RenderTargetUsageDiscardContents {
		d.clear(
			metadata.ClearOptionsTarget|metadata.ClearOptionsDepthBuffer|metadata.ClearOptionsStencil,
			d.discardColor().ToVec4(),
			d.viewport.MaxDepth,
			0,
		)
	}
	return nil
}

func (d *GraphicsDevice) validateRenderTargets(bindings []RenderTargetBinding) error {
	if len(bindings) > d.maxRenderTargets() {
		return fmt.Errorf("%w: %d bound, %d supported", ErrTooManyRenderTargets, len(bindings), d.maxRenderTargets())
	}
	for i, b := range bindings {
		if b.RenderTarget == nil {
			return fmt.Errorf("%w: render target %d is nil", ErrInvalidArgument, i)
		}
		if b.RenderTarget.IsDisposed() {
			return fmt.Errorf("%w: render target %d", ErrResourceDisposed, i)
		}
		if _, isCube := b.RenderTarget.(*RenderTargetCube); isCube && !b.CubeMapFace.IsValid() {
			return fmt.Errorf("%w: render target %d has cube map face %d", ErrInvalidArgument, i, b.CubeMapFace)
		}
	}
	return nil
}

// renderTargetsBound reports whether bindings are exactly the bound set.
func (d *GraphicsDevice) renderTargetsBound(bindings []RenderTargetBinding) bool {
	if len(bindings) != d.renderTargetCount {
		return false
	}
	for i, b := range bindings {
		bound := d.renderTargetBindings[i]
		if bound.RenderTarget != b.RenderTarget {
			return false
		}
		if _, isCube := b.RenderTarget.(*RenderTargetCube); isCube && bound.CubeMapFace != b.CubeMapFace {
			return false
		}
	}
	return true
}

func stillBound(target RenderTarget, bindings []RenderTargetBinding) bool {
	for _, b := range bindings {
		if b.RenderTarget == target {
			return true
		}
	}
	return false
}

// resolve finishes a previously bound target: multisampled content is copied
// into its texture and its mip chain is regenerated.
func (d *GraphicsDevice) resolve(slot int) {
	native := &d.nativeTargetBindings[slot]
	if native.MultiSampleCount <= 0 && native.LevelCount <= 1 {
		return
	}
	d.backend.ResolveTarget(native)
	d.metrics.Resolves++
}

func (d *GraphicsDevice) discardColor() math.Color {
	if d.debug {
		return discardColorDebug
	}
	return discardColorRelease
}

// logBindings is a debug aid for target switches.
func (d *GraphicsDevice) logBindings() {
	for i := 0; i < d.renderTargetCount; i++ {
		n := d.nativeTargetBindings[i]
		core.LogDebug("render target %d: texture %d %dx%d face %d msaa %d", i, n.Texture, n.Width, n.Height, n.CubeMapFace, n.MultiSampleCount)
	}
}
