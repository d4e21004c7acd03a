package graphics

import "fmt"

/**
 * @brief Deduplicates the state objects produced by effect state changes.
 *
 * A session copies the device's current state into a scratch value
 * (BeginApply*), lets the caller mutate the scratch fields, then hashes them
 * and assigns the cached instance for that hash to the device (EndApply*).
 * Equal field values always resolve to the same instance, so the device's
 * reference comparison in ApplyState skips the native call.
 *
 * Cached instances are never evicted.
 */
type PipelineCache struct {
	device *GraphicsDevice

	Blend              BlendState
	DepthStencil       DepthStencilState
	Rasterizer         RasterizerState
	Sampler            SamplerState
	SeparateAlphaBlend bool

	blendCache        map[StateHash]*BlendState
	depthStencilCache map[StateHash]*DepthStencilState
	rasterizerCache   map[StateHash]*RasterizerState
	samplerCache      map[StateHash]*SamplerState
}

func NewPipelineCache(device *GraphicsDevice) *PipelineCache {
	return &PipelineCache{
		device:            device,
		blendCache:        make(map[StateHash]*BlendState),
		depthStencilCache: make(map[StateHash]*DepthStencilState),
		rasterizerCache:   make(map[StateHash]*RasterizerState),
		samplerCache:      make(map[StateHash]*SamplerState),
	}
}

func (pc *PipelineCache) BeginApplyBlend() {
	pc.Blend = *pc.device.BlendState()
	pc.Blend.Name = ""
	pc.SeparateAlphaBlend = pc.Blend.ColorBlendFunction != pc.Blend.AlphaBlendFunction ||
		pc.Blend.ColorSourceBlend != pc.Blend.AlphaSourceBlend ||
		pc.Blend.ColorDestinationBlend != pc.Blend.AlphaDestinationBlend
}

func (pc *PipelineCache) EndApplyBlend() {
	hash := GetBlendHash(&pc.Blend)
	state, ok := pc.blendCache[hash]
	if !ok {
		state = new(BlendState)
		*state = pc.Blend
		state.Name = "PipelineCache.Blend." + hash.String()
		pc.blendCache[hash] = state
	}
	pc.device.SetBlendState(state)
}

func (pc *PipelineCache) BeginApplyDepthStencil() {
	pc.DepthStencil = *pc.device.DepthStencilState()
	pc.DepthStencil.Name = ""
}

func (pc *PipelineCache) EndApplyDepthStencil() {
	hash := GetDepthStencilHash(&pc.DepthStencil)
	state, ok := pc.depthStencilCache[hash]
	if !ok {
		state = new(DepthStencilState)
		*state = pc.DepthStencil
		state.Name = "PipelineCache.DepthStencil." + hash.String()
		pc.depthStencilCache[hash] = state
	}
	pc.device.SetDepthStencilState(state)
}

func (pc *PipelineCache) BeginApplyRasterizer() {
	pc.Rasterizer = *pc.device.RasterizerState()
	pc.Rasterizer.Name = ""
}

func (pc *PipelineCache) EndApplyRasterizer() {
	hash := GetRasterizerHash(&pc.Rasterizer)
	state, ok := pc.rasterizerCache[hash]
	if !ok {
		state = new(RasterizerState)
		*state = pc.Rasterizer
		state.Name = "PipelineCache.Rasterizer." + hash.String()
		pc.rasterizerCache[hash] = state
	}
	pc.device.SetRasterizerState(state)
}

// BeginApplySampler snapshots the sampler bound to one register of samplers.
func (pc *PipelineCache) BeginApplySampler(samplers *SamplerStateCollection, register int) error {
	if err := checkSamplerRegister(samplers, register); err != nil {
		return err
	}
	pc.Sampler = *samplers.Get(register)
	pc.Sampler.Name = ""
	return nil
}

func (pc *PipelineCache) EndApplySampler(samplers *SamplerStateCollection, register int) error {
	if err := checkSamplerRegister(samplers, register); err != nil {
		return err
	}
	hash := GetSamplerHash(&pc.Sampler)
	state, ok := pc.samplerCache[hash]
	if !ok {
		state = new(SamplerState)
		*state = pc.Sampler
		state.Name = "PipelineCache.Sampler." + hash.String()
		pc.samplerCache[hash] = state
	}
	samplers.Set(register, state)
	return nil
}

func checkSamplerRegister(samplers *SamplerStateCollection, register int) error {
	if register < 0 || register >= samplers.Len() {
		return fmt.Errorf("%w: sampler register %d of %d", ErrInvalidArgument, register, samplers.Len())
	}
	return nil
}

// Len reports the number of cached blend, depth-stencil, rasterizer and
// sampler states.
func (pc *PipelineCache) Len() (blend, depthStencil, rasterizer, sampler int) {
	return len(pc.blendCache), len(pc.depthStencilCache), len(pc.rasterizerCache), len(pc.samplerCache)
}
