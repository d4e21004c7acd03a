package metadata

// Opaque backend object handles. The zero value means "no object".
type (
	Texture      uint64
	Renderbuffer uint64
	Buffer       uint64
	Effect       uint64
	Query        uint64
)

type RenderTargetType int32

const (
	RenderTargetType2D RenderTargetType = iota
	RenderTargetTypeCube
)

/** @brief Describes one colour attachment for SetRenderTargets. */
type RenderTargetBinding struct {
	Type RenderTargetType
	// Width and Height of a 2D target; Width is the face size of a cube target.
	Width  int32
	Height int32
	// Face of a cube target.
	CubeMapFace      CubeMapFace
	LevelCount       int32
	MultiSampleCount int32
	Texture          Texture
	// ColorBuffer is the multisampled renderbuffer resolved into Texture, if any.
	ColorBuffer Renderbuffer
}

type VertexElement struct {
	Offset              int32
	VertexElementFormat VertexElementFormat
	VertexElementUsage  VertexElementUsage
	UsageIndex          int32
}

type VertexDeclaration struct {
	VertexStride int32
	Elements     []VertexElement
}

// Find returns the first element with the given usage and index.
func (d *VertexDeclaration) Find(usage VertexElementUsage, usageIndex int32) (VertexElement, bool) {
	for _, e := range d.Elements {
		if e.VertexElementUsage == usage && e.UsageIndex == usageIndex {
			return e, true
		}
	}
	return VertexElement{}, false
}

type VertexBufferBinding struct {
	VertexBuffer      Buffer
	VertexDeclaration VertexDeclaration
	VertexOffset      int32
	InstanceFrequency int32
}

type PresentationParameters struct {
	BackBufferWidth      int32             `toml:"back_buffer_width"`
	BackBufferHeight     int32             `toml:"back_buffer_height"`
	BackBufferFormat     SurfaceFormat     `toml:"back_buffer_format"`
	DepthStencilFormat   DepthFormat       `toml:"depth_stencil_format"`
	MultiSampleCount     int32             `toml:"multi_sample_count"`
	IsFullScreen         bool              `toml:"fullscreen"`
	RenderTargetUsage    RenderTargetUsage `toml:"render_target_usage"`
	PresentationInterval PresentInterval   `toml:"presentation_interval"`
	DeviceWindowHandle   uintptr           `toml:"-"`
}

// DefaultPresentationParameters matches a freshly constructed XNA PresentationParameters.
func DefaultPresentationParameters() PresentationParameters {
	return PresentationParameters{
		BackBufferWidth:      800,
		BackBufferHeight:     480,
		BackBufferFormat:     SurfaceFormatColor,
		DepthStencilFormat:   DepthFormatNone,
		MultiSampleCount:     0,
		RenderTargetUsage:    RenderTargetUsageDiscardContents,
		PresentationInterval: PresentIntervalDefault,
	}
}
