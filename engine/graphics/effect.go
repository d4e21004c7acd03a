package graphics

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

/**
 * @brief Render state changes a pass makes when it is applied.
 *
 * Each func receives the PipelineCache scratch copy of the current state and
 * mutates only the fields the pass sets. Sampler changes are keyed by register.
 */
type PassStateChanges struct {
	Blend          func(*BlendState)
	DepthStencil   func(*DepthStencilState)
	Rasterizer     func(*RasterizerState)
	Samplers       map[int]func(*SamplerState)
	VertexSamplers map[int]func(*SamplerState)
}

type EffectPassDescription struct {
	Name         string
	StateChanges PassStateChanges
}

type EffectTechniqueDescription struct {
	Name   string
	Passes []EffectPassDescription
}

type Effect struct {
	GraphicsResource

	Techniques       []*EffectTechnique
	CurrentTechnique *EffectTechnique

	native metadata.Effect
}

type EffectTechnique struct {
	Name   string
	Passes []*EffectPass

	effect *Effect
}

type EffectPass struct {
	Name         string
	StateChanges PassStateChanges

	technique *EffectTechnique
	index     uint32
}

// NewEffect compiles code on the backend. The first technique becomes the
// current one.
func NewEffect(device *GraphicsDevice, code []byte, techniques ...EffectTechniqueDescription) (*Effect, error) {
	if device == nil {
		return nil, fmt.Errorf("%w: nil device", ErrInvalidArgument)
	}
	if len(techniques) == 0 {
		return nil, fmt.Errorf("%w: effect without techniques", ErrInvalidArgument)
	}
	for _, t := range techniques {
		if len(t.Passes) == 0 {
			return nil, fmt.Errorf("%w: technique %q has no passes", ErrInvalidArgument, t.Name)
		}
	}

	e := &Effect{}
	var err error
	device.run(func() {
		e.native, err = device.backend.CreateEffect(code)
	})
	if err != nil {
		return nil, fmt.Errorf("creating effect: %w", err)
	}

	for _, t := range techniques {
		technique := &EffectTechnique{Name: t.Name, effect: e}
		for i, p := range t.Passes {
			technique.Passes = append(technique.Passes, &EffectPass{
				Name:         p.Name,
				StateChanges: p.StateChanges,
				technique:    technique,
				index:        uint32(i),
			})
		}
		e.Techniques = append(e.Techniques, technique)
	}
	e.CurrentTechnique = e.Techniques[0]

	e.track(device, e, func() {
		device.disposal.effects.Enqueue(e.native)
	})
	return e, nil
}

// Technique returns the technique called name, or nil.
func (e *Effect) Technique(name string) *EffectTechnique {
	for _, t := range e.Techniques {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (t *EffectTechnique) Pass(name string) *EffectPass {
	for _, p := range t.Passes {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (p *EffectPass) Technique() *EffectTechnique {
	return p.technique
}

/**
 * @brief Makes this pass current on the device and applies its state changes.
 *
 * The changes go through the device's PipelineCache, so passes that produce
 * equal states share one state object. The next draw reissues the vertex
 * bindings.
 */
func (p *EffectPass) Apply() error {
	effect := p.technique.effect
	if effect.IsDisposed() {
		return ErrResourceDisposed
	}
	d := effect.device
	if d.disposed {
		return ErrDeviceDisposed
	}

	effect.CurrentTechnique = p.technique
	unlock := d.lock()
	d.backend.ApplyEffect(effect.native, p.index)
	unlock()
	d.currentEffect = effect
	d.currentTechnique = p.technique
	d.currentPass = p
	d.effectApplied = true

	changes := &p.StateChanges
	pc := d.PipelineCache
	if changes.Blend != nil {
		pc.BeginApplyBlend()
		changes.Blend(&pc.Blend)
		pc.EndApplyBlend()
	}
	if changes.DepthStencil != nil {
		pc.BeginApplyDepthStencil()
		changes.DepthStencil(&pc.DepthStencil)
		pc.EndApplyDepthStencil()
	}
	if changes.Rasterizer != nil {
		pc.BeginApplyRasterizer()
		changes.Rasterizer(&pc.Rasterizer)
		pc.EndApplyRasterizer()
	}
	applySamplerChanges(pc, d.SamplerStates, changes.Samplers)
	applySamplerChanges(pc, d.VertexSamplerStates, changes.VertexSamplers)
	return nil
}

func applySamplerChanges(pc *PipelineCache, samplers *SamplerStateCollection, changes map[int]func(*SamplerState)) {
	for _, register := range slices.Sorted(maps.Keys(changes)) {
		if err := pc.BeginApplySampler(samplers, register); err != nil {
			continue
		}
		changes[register](&pc.Sampler)
		pc.EndApplySampler(samplers, register)
	}
}
