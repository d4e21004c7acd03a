package graphics

import "github.com/spaghettifunk/xnagfx/engine/renderer/metadata"

// TextureCollection holds the textures bound to a set of sampler slots.
// Every assignment marks the slot for the next ApplyState, even the same texture.
type TextureCollection struct {
	textures []Texture
	modified []bool
}

func newTextureCollection(modified []bool) *TextureCollection {
	return &TextureCollection{
		textures: make([]Texture, len(modified)),
		modified: modified,
	}
}

func (c *TextureCollection) Len() int {
	return len(c.textures)
}

func (c *TextureCollection) Get(index int) Texture {
	return c.textures[index]
}

func (c *TextureCollection) Set(index int, texture Texture) {
	c.textures[index] = texture
	c.modified[index] = true
}

// removeNative unbinds every slot that refers to a released native texture.
func (c *TextureCollection) removeNative(handle metadata.Texture) {
	for i, t := range c.textures {
		if t != nil && t.texture().native == handle {
			c.textures[i] = nil
			c.modified[i] = true
		}
	}
}

func (c *TextureCollection) native(index int) metadata.Texture {
	if t := c.textures[index]; t != nil {
		return t.texture().native
	}
	return 0
}

// SamplerStateCollection holds the sampler states of a set of sampler slots.
// A nil entry samples with SamplerStateLinearWrap.
type SamplerStateCollection struct {
	samplers []*SamplerState
	modified []bool
}

func newSamplerStateCollection(modified []bool) *SamplerStateCollection {
	c := &SamplerStateCollection{
		samplers: make([]*SamplerState, len(modified)),
		modified: modified,
	}
	for i := range c.samplers {
		c.samplers[i] = SamplerStateLinearWrap
	}
	return c
}

func (c *SamplerStateCollection) Len() int {
	return len(c.samplers)
}

func (c *SamplerStateCollection) Get(index int) *SamplerState {
	if s := c.samplers[index]; s != nil {
		return s
	}
	return SamplerStateLinearWrap
}

func (c *SamplerStateCollection) Set(index int, sampler *SamplerState) {
	c.samplers[index] = sampler
	c.modified[index] = true
}
