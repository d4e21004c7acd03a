package graphics

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/spaghettifunk/xnagfx/engine/math"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

func TestDrawUserPrimitivesFillsBackbuffer(t *testing.T) {
	d, spy := newTestDevice(t, 12, 10)
	yellow := math.NewColor(255, 255, 0, 255)
	drawFullscreen(t, d, yellow)

	data := make([]byte, 12*10*4)
	if err := d.GetBackBufferData(nil, data); err != nil {
		t.Fatalf("GetBackBufferData() error = %v", err)
	}
	for _, p := range [][2]int{{0, 0}, {11, 0}, {0, 9}, {11, 9}} {
		if got := pixelAt(data, 12, p[0], p[1]); got != yellow {
			t.Errorf("pixel %v = %v, want %v", p, got, yellow)
		}
	}
	if got := spy.count("ApplyVertexBufferBindings"); got != 1 {
		t.Errorf("ApplyVertexBufferBindings calls = %d, want 1", got)
	}
	if got := d.Metrics().Draws; got != 1 {
		t.Errorf("Metrics().Draws = %d, want 1", got)
	}
}

func TestDrawUserPrimitivesTopHalf(t *testing.T) {
	d, _ := newTestDevice(t, 8, 8)
	red := math.NewColor(255, 0, 0, 255)
	d.Clear(math.ColorBlack)
	// Quad over clip space y in [0, 1], which is the top half of the image.
	quad := []VertexPositionColor{
		{Position: math.Vec3{X: -1, Y: 0}, Color: red},
		{Position: math.Vec3{X: -1, Y: 1}, Color: red},
		{Position: math.Vec3{X: 1, Y: 0}, Color: red},
		{Position: math.Vec3{X: 1, Y: 1}, Color: red},
	}
	d.SetRasterizerState(RasterizerStateCullNone)
	if err := DrawUserPrimitives(d, metadata.PrimitiveTypeTriangleStrip, quad, 0, 2, VertexPositionColor{}.VertexDeclaration()); err != nil {
		t.Fatalf("DrawUserPrimitives() error = %v", err)
	}

	data := make([]byte, 8*8*4)
	if err := d.GetBackBufferData(nil, data); err != nil {
		t.Fatalf("GetBackBufferData() error = %v", err)
	}
	if got := pixelAt(data, 8, 4, 1); got != red {
		t.Errorf("top pixel = %v, want %v", got, red)
	}
	if got := pixelAt(data, 8, 4, 6); got != math.ColorBlack {
		t.Errorf("bottom pixel = %v, want %v", got, math.ColorBlack)
	}
}

func TestDrawUserIndexedPrimitives(t *testing.T) {
	d, spy := newTestDevice(t, 8, 8)
	c := math.NewColor(10, 20, 30, 255)
	verts := append([]VertexPositionColor{{}}, fullscreenTriangle(c)...)

	err := DrawUserIndexedPrimitives(d, metadata.PrimitiveTypeTriangleList, verts, 1, 3, []uint32{2, 1, 0}, 0, 1, VertexPositionColor{}.VertexDeclaration())
	if err != nil {
		t.Fatalf("DrawUserIndexedPrimitives() error = %v", err)
	}
	if got := spy.count("DrawIndexedPrimitives"); got != 1 {
		t.Errorf("DrawIndexedPrimitives calls = %d, want 1", got)
	}
	// Reversed indices flip the winding, so the default rasterizer culls it.
	data := make([]byte, 8*8*4)
	if err := d.GetBackBufferData(nil, data); err != nil {
		t.Fatalf("GetBackBufferData() error = %v", err)
	}
	if got := pixelAt(data, 8, 4, 4); got == c {
		t.Errorf("pixel = %v, want culled", got)
	}

	err = DrawUserIndexedPrimitives(d, metadata.PrimitiveTypeTriangleList, verts, 1, 3, []uint16{0, 1, 2}, 0, 1, VertexPositionColor{}.VertexDeclaration())
	if err != nil {
		t.Fatalf("DrawUserIndexedPrimitives() error = %v", err)
	}
	if err := d.GetBackBufferData(nil, data); err != nil {
		t.Fatalf("GetBackBufferData() error = %v", err)
	}
	if got := pixelAt(data, 8, 4, 4); got != c {
		t.Errorf("pixel = %v, want %v", got, c)
	}
}

func TestDrawUserPrimitivesInvalid(t *testing.T) {
	d, spy := newTestDevice(t, 8, 8)
	spy.reset()
	verts := fullscreenTriangle(math.ColorWhite)
	decl := VertexPositionColor{}.VertexDeclaration()

	tests := []struct {
		name   string
		offset int32
		count  int32
		decl   *VertexDeclaration
	}{
		{"nil declaration", 0, 1, nil},
		{"zero primitives", 0, 0, decl},
		{"out of range", 1, 1, decl},
		{"stride mismatch", 0, 1, VertexPositionColorTexture{}.VertexDeclaration()},
		{"offset wraps", gomath.MaxInt32 - 1, 1, decl},
		{"vertex count wraps", 0, 0x55555556, decl},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DrawUserPrimitives(d, metadata.PrimitiveTypeTriangleList, verts, tt.offset, tt.count, tt.decl)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("DrawUserPrimitives() error = %v, want %v", err, ErrInvalidArgument)
			}
		})
	}

	indexed := []struct {
		name                        string
		vertexOffset, numVertices   int32
		indexOffset, primitiveCount int32
	}{
		{"vertex offset wraps", gomath.MaxInt32 - 1, 3, 0, 1},
		{"index offset wraps", 0, 3, gomath.MaxInt32 - 1, 1},
		{"index count wraps", 0, 3, 0, 0x55555556},
		{"too few indices", 0, 3, 1, 1},
	}
	for _, tt := range indexed {
		t.Run(tt.name, func(t *testing.T) {
			err := DrawUserIndexedPrimitives(d, metadata.PrimitiveTypeTriangleList, verts, tt.vertexOffset, tt.numVertices,
				[]uint16{0, 1, 2}, tt.indexOffset, tt.primitiveCount, decl)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("DrawUserIndexedPrimitives() error = %v, want %v", err, ErrInvalidArgument)
			}
		})
	}
	if len(spy.calls) != 0 {
		t.Errorf("native calls = %v, want none", spy.calls)
	}
}

func TestUserPrimitivesDirtyManagedBindings(t *testing.T) {
	d, spy := newTestDevice(t, 8, 8)
	vb := newTriangleBuffer(t, d, math.ColorWhite)
	d.SetVertexBuffer(vb, 0)
	if err := d.DrawPrimitives(metadata.PrimitiveTypeTriangleList, 0, 1); err != nil {
		t.Fatalf("DrawPrimitives() error = %v", err)
	}
	drawFullscreen(t, d, math.ColorBlack)
	if err := d.DrawPrimitives(metadata.PrimitiveTypeTriangleList, 0, 1); err != nil {
		t.Fatalf("DrawPrimitives() error = %v", err)
	}
	if got := spy.count("ApplyVertexBufferBindings"); got != 3 {
		t.Errorf("ApplyVertexBufferBindings calls = %d, want 3", got)
	}

	data := make([]byte, 8*8*4)
	if err := d.GetBackBufferData(nil, data); err != nil {
		t.Fatalf("GetBackBufferData() error = %v", err)
	}
	if got := pixelAt(data, 8, 3, 3); got != math.ColorWhite {
		t.Errorf("pixel = %v, want %v", got, math.ColorWhite)
	}
}
