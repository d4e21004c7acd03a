package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spaghettifunk/xnagfx/engine/core"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
	"github.com/spaghettifunk/xnagfx/engine/renderer/software"
)

var ErrUnknownRenderer = errors.New("unknown renderer type")

type RendererType uint8

const (
	// Software renders on the CPU into in-memory surfaces.
	Software RendererType = iota
	// Vulkan renders through the software device while translating every
	// state change into Vulkan pipeline descriptions.
	Vulkan
)

var rendererNames = map[RendererType]string{
	Software: "software",
	Vulkan:   "vulkan",
}

func (t RendererType) String() string {
	if name, ok := rendererNames[t]; ok {
		return name
	}
	return fmt.Sprintf("RendererType(%d)", uint8(t))
}

func (t RendererType) MarshalText() ([]byte, error) {
	if _, ok := rendererNames[t]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRenderer, uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *RendererType) UnmarshalText(text []byte) error {
	for k, name := range rendererNames {
		if strings.EqualFold(name, string(text)) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownRenderer, string(text))
}

// New creates the native device for a renderer type.
func New(rendererType RendererType, params *metadata.PresentationParameters, opts ...software.Option) (Backend, error) {
	sw, err := software.New(params, opts...)
	if err != nil {
		return nil, err
	}
	switch rendererType {
	case Software:
		core.LogInfo("software renderer initialized (%dx%d)", params.BackBufferWidth, params.BackBufferHeight)
		return sw, nil
	case Vulkan:
		core.LogInfo("vulkan translating renderer initialized (%dx%d)", params.BackBufferWidth, params.BackBufferHeight)
		return NewVulkanBackend(sw, params), nil
	}
	sw.DestroyDevice()
	return nil, fmt.Errorf("%w: %d", ErrUnknownRenderer, uint8(rendererType))
}

var (
	_ Backend = (*software.Backend)(nil)
	_ Backend = (*VulkanBackend)(nil)
)
