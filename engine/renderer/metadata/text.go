package metadata

import (
	"fmt"
	"strings"
)

// Enum names used by the TOML configuration.

var surfaceFormatNames = []string{
	"Color", "Bgr565", "Bgra5551", "Bgra4444", "Dxt1", "Dxt3", "Dxt5",
	"NormalizedByte2", "NormalizedByte4", "Rgba1010102", "Rg32", "Rgba64",
	"Alpha8", "Single", "Vector2", "Vector4", "HalfSingle", "HalfVector2",
	"HalfVector4", "HdrBlendable", "ColorBgraEXT",
}

var depthFormatNames = []string{"None", "Depth16", "Depth24", "Depth24Stencil8"}

var renderTargetUsageNames = []string{"DiscardContents", "PreserveContents", "PlatformContents"}

var presentIntervalNames = []string{"Default", "One", "Two", "Immediate"}

var graphicsProfileNames = []string{"Reach", "HiDef"}

func enumName(names []string, v int32) string {
	if v < 0 || int(v) >= len(names) {
		return fmt.Sprintf("Unknown(%d)", v)
	}
	return names[v]
}

func parseEnum(kind string, names []string, text []byte) (int32, error) {
	s := strings.TrimSpace(string(text))
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return int32(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}

func (f SurfaceFormat) String() string { return enumName(surfaceFormatNames, int32(f)) }

func (f SurfaceFormat) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *SurfaceFormat) UnmarshalText(text []byte) error {
	v, err := parseEnum("surface format", surfaceFormatNames, text)
	*f = SurfaceFormat(v)
	return err
}

func (d DepthFormat) String() string { return enumName(depthFormatNames, int32(d)) }

func (d DepthFormat) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DepthFormat) UnmarshalText(text []byte) error {
	v, err := parseEnum("depth format", depthFormatNames, text)
	*d = DepthFormat(v)
	return err
}

func (u RenderTargetUsage) String() string { return enumName(renderTargetUsageNames, int32(u)) }

func (u RenderTargetUsage) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

func (u *RenderTargetUsage) UnmarshalText(text []byte) error {
	v, err := parseEnum("render target usage", renderTargetUsageNames, text)
	*u = RenderTargetUsage(v)
	return err
}

func (p PresentInterval) String() string { return enumName(presentIntervalNames, int32(p)) }

func (p PresentInterval) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *PresentInterval) UnmarshalText(text []byte) error {
	v, err := parseEnum("present interval", presentIntervalNames, text)
	*p = PresentInterval(v)
	return err
}

func (g GraphicsProfile) String() string { return enumName(graphicsProfileNames, int32(g)) }

func (g GraphicsProfile) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

func (g *GraphicsProfile) UnmarshalText(text []byte) error {
	v, err := parseEnum("graphics profile", graphicsProfileNames, text)
	*g = GraphicsProfile(v)
	return err
}
