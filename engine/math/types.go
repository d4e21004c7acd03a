package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

func NewVec4Create(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

/**
 * @brief An 8-bit per channel RGBA colour. The memory layout is R, G, B, A,
 * which matches the packed value of a little-endian uint32 (0xAABBGGRR).
 */
type Color struct {
	R, G, B, A uint8
}

var (
	ColorTransparentBlack = Color{0, 0, 0, 0}
	ColorBlack            = Color{0, 0, 0, 255}
	ColorWhite            = Color{255, 255, 255, 255}
)

func NewColor(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// NewColorFromPacked unpacks a 0xAABBGGRR value.
func NewColorFromPacked(packed uint32) Color {
	return Color{
		R: uint8(packed),
		G: uint8(packed >> 8),
		B: uint8(packed >> 16),
		A: uint8(packed >> 24),
	}
}

// NewColorFromVec4 converts normalized channels, clamping to [0, 1].
func NewColorFromVec4(v Vec4) Color {
	return Color{
		R: unitToByte(v.X),
		G: unitToByte(v.Y),
		B: unitToByte(v.Z),
		A: unitToByte(v.W),
	}
}

// PackedValue returns the colour as 0xAABBGGRR.
func (c Color) PackedValue() uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(c.A)<<24
}

// ToVec4 returns the normalized channels.
func (c Color) ToVec4() Vec4 {
	return Vec4{
		X: float32(c.R) / 255.0,
		Y: float32(c.G) / 255.0,
		Z: float32(c.B) / 255.0,
		W: float32(c.A) / 255.0,
	}
}

func unitToByte(f float32) uint8 {
	return uint8(Clamp(f, 0, 1)*255.0 + 0.5)
}

/** @brief An integer rectangle, origin at the top-left. */
type Rectangle struct {
	X, Y, Width, Height int32
}

func NewRectangle(x, y, width, height int32) Rectangle {
	return Rectangle{X: x, Y: y, Width: width, Height: height}
}

func (r Rectangle) Right() int32  { return r.X + r.Width }
func (r Rectangle) Bottom() int32 { return r.Y + r.Height }

func (r Rectangle) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersect returns the overlap of r and o, or an empty rectangle.
func (r Rectangle) Intersect(o Rectangle) Rectangle {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.Right(), o.Right())
	y1 := min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rectangle{}
	}
	return Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
