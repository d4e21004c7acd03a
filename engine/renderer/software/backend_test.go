package software

import (
	"encoding/binary"
	"errors"
	gomath "math"
	"testing"

	"github.com/spaghettifunk/xnagfx/engine/math"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

type testVertex struct {
	x, y, z float32
	c       math.Color
}

func positionColorDeclaration() metadata.VertexDeclaration {
	return metadata.VertexDeclaration{
		VertexStride: 16,
		Elements: []metadata.VertexElement{
			{Offset: 0, VertexElementFormat: metadata.VertexElementFormatVector3, VertexElementUsage: metadata.VertexElementUsagePosition},
			{Offset: 12, VertexElementFormat: metadata.VertexElementFormatColor, VertexElementUsage: metadata.VertexElementUsageColor},
		},
	}
}

func vertexBytes(verts ...testVertex) []byte {
	data := make([]byte, 16*len(verts))
	for i, v := range verts {
		p := data[i*16:]
		binary.LittleEndian.PutUint32(p[0:], gomath.Float32bits(v.x))
		binary.LittleEndian.PutUint32(p[4:], gomath.Float32bits(v.y))
		binary.LittleEndian.PutUint32(p[8:], gomath.Float32bits(v.z))
		p[12], p[13], p[14], p[15] = v.c.R, v.c.G, v.c.B, v.c.A
	}
	return data
}

func newTestBackend(t *testing.T, w, h int32, depth metadata.DepthFormat) *Backend {
	t.Helper()
	pp := metadata.DefaultPresentationParameters()
	pp.BackBufferWidth = w
	pp.BackBufferHeight = h
	pp.DepthStencilFormat = depth
	b, err := New(&pp)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	b.SetViewport(&metadata.Viewport{Width: w, Height: h, MaxDepth: 1})
	b.ApplyRasterizerState(&metadata.RasterizerState{CullMode: metadata.CullModeCullCounterClockwiseFace})
	return b
}

func (b *Backend) bindVertices(verts ...testVertex) {
	data := vertexBytes(verts...)
	vb := b.GenVertexBuffer(false, metadata.BufferUsageWriteOnly, int32(len(data)))
	b.SetVertexBufferData(vb, 0, data, int32(len(data)), 1, 1, metadata.SetDataOptionsNone)
	b.ApplyVertexBufferBindings([]metadata.VertexBufferBinding{
		{VertexBuffer: vb, VertexDeclaration: positionColorDeclaration()},
	}, true, 0)
}

var red = math.NewColor(255, 0, 0, 255)

// fullScreen is a clockwise triangle covering the whole clip square.
func fullScreen(c math.Color) []testVertex {
	return []testVertex{{-1, -1, 0, c}, {-1, 3, 0, c}, {3, -1, 0, c}}
}

// topHalf is a clockwise triangle covering clip y >= 0.
func topHalf(c math.Color) []testVertex {
	return []testVertex{{-1, 0, 0, c}, {-1, 3, 0, c}, {3, 0, 0, c}}
}

func pixelAt(b *Backend, x, y int32) math.Color {
	px := make([]byte, 4)
	b.ReadBackbuffer(x, y, 1, 1, px)
	return math.NewColor(px[0], px[1], px[2], px[3])
}

func TestNewRejectsInvalidParameters(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrInvalidPresentationParameters) {
		t.Errorf("New(nil) error = %v, want %v", err, ErrInvalidPresentationParameters)
	}
	pp := metadata.DefaultPresentationParameters()
	pp.BackBufferWidth = 0
	if _, err := New(&pp); !errors.Is(err, ErrInvalidPresentationParameters) {
		t.Errorf("New(0 width) error = %v, want %v", err, ErrInvalidPresentationParameters)
	}
}

func TestClearAndReadBackbuffer(t *testing.T) {
	b := newTestBackend(t, 4, 4, metadata.DepthFormatNone)
	b.Clear(metadata.ClearOptionsTarget, math.NewVec4Create(0, 0, 1, 1), 1, 0)
	want := math.NewColor(0, 0, 255, 255)
	for y := int32(0); y < 4; y++ {
		for x := int32(0); x < 4; x++ {
			if got := pixelAt(b, x, y); got != want {
				t.Fatalf("pixel(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestDrawTriangleOrientation(t *testing.T) {
	b := newTestBackend(t, 4, 4, metadata.DepthFormatNone)
	b.Clear(metadata.ClearOptionsTarget, math.Vec4{W: 1}, 1, 0)
	b.bindVertices(topHalf(red)...)
	b.DrawPrimitives(metadata.PrimitiveTypeTriangleList, 0, 1)

	if got := pixelAt(b, 1, 0); got != red {
		t.Errorf("top row pixel = %v, want %v", got, red)
	}
	if got := pixelAt(b, 1, 3); got != math.ColorBlack {
		t.Errorf("bottom row pixel = %v, want %v", got, math.ColorBlack)
	}
}

func TestCullCounterClockwise(t *testing.T) {
	b := newTestBackend(t, 4, 4, metadata.DepthFormatNone)
	b.Clear(metadata.ClearOptionsTarget, math.Vec4{W: 1}, 1, 0)
	v := fullScreen(red)
	// reversed winding
	b.bindVertices(v[0], v[2], v[1])
	b.DrawPrimitives(metadata.PrimitiveTypeTriangleList, 0, 1)
	if got := pixelAt(b, 2, 2); got != math.ColorBlack {
		t.Errorf("culled triangle wrote %v", got)
	}

	b.ApplyRasterizerState(&metadata.RasterizerState{CullMode: metadata.CullModeNone})
	b.DrawPrimitives(metadata.PrimitiveTypeTriangleList, 0, 1)
	if got := pixelAt(b, 2, 2); got != red {
		t.Errorf("pixel with culling off = %v, want %v", got, red)
	}
}

func renderTargetFixture(b *Backend, size int32) (metadata.Texture, metadata.RenderTargetBinding) {
	tex := b.CreateTexture2D(metadata.SurfaceFormatColor, size, size, 1, true)
	return tex, metadata.RenderTargetBinding{
		Type:       metadata.RenderTargetType2D,
		Width:      size,
		Height:     size,
		LevelCount: 1,
		Texture:    tex,
	}
}

func TestRenderTargetCullModeFollowsRasterizerApply(t *testing.T) {
	b := newTestBackend(t, 4, 4, metadata.DepthFormatNone)
	tex, binding := renderTargetFixture(b, 4)
	b.SetRenderTargets([]metadata.RenderTargetBinding{binding}, 0, metadata.DepthFormatNone, false)
	b.Clear(metadata.ClearOptionsTarget, math.Vec4{W: 1}, 1, 0)
	b.bindVertices(topHalf(red)...)

	readTop := func() math.Color {
		px := make([]byte, 4)
		b.GetTextureData2D(tex, 1, 0, 1, 1, 0, px)
		return math.NewColor(px[0], px[1], px[2], px[3])
	}

	// The rasterizer state was applied while the backbuffer was bound.
	b.DrawPrimitives(metadata.PrimitiveTypeTriangleList, 0, 1)
	if got := readTop(); got != math.ColorBlack {
		t.Fatalf("stale cull mode drew %v", got)
	}

	b.ApplyRasterizerState(&metadata.RasterizerState{CullMode: metadata.CullModeCullCounterClockwiseFace})
	b.DrawPrimitives(metadata.PrimitiveTypeTriangleList, 0, 1)
	if got := readTop(); got != red {
		t.Errorf("render target top pixel = %v, want %v", got, red)
	}
	bottom := make([]byte, 4)
	b.GetTextureData2D(tex, 1, 3, 1, 1, 0, bottom)
	if bottom[0] != 0 {
		t.Errorf("render target bottom pixel red = %d, want 0", bottom[0])
	}
}

func TestResolveMultisampleTarget(t *testing.T) {
	b := newTestBackend(t, 4, 4, metadata.DepthFormatNone)
	tex, binding := renderTargetFixture(b, 4)
	binding.MultiSampleCount = 4
	binding.ColorBuffer = b.GenColorRenderbuffer(4, 4, metadata.SurfaceFormatColor, 4, tex)

	b.SetRenderTargets([]metadata.RenderTargetBinding{binding}, 0, metadata.DepthFormatNone, false)
	b.Clear(metadata.ClearOptionsTarget, math.NewVec4Create(0, 1, 0, 1), 1, 0)

	px := make([]byte, 4)
	b.GetTextureData2D(tex, 0, 0, 1, 1, 0, px)
	if px[1] != 0 {
		t.Fatalf("texture written before resolve: %v", px)
	}

	b.ResolveTarget(&binding)
	b.GetTextureData2D(tex, 0, 0, 1, 1, 0, px)
	if want := []byte{0, 255, 0, 255}; string(px) != string(want) {
		t.Errorf("resolved pixel = %v, want %v", px, want)
	}
}

func TestDepthTest(t *testing.T) {
	b := newTestBackend(t, 4, 4, metadata.DepthFormatDepth24)
	b.SetDepthStencilState(&metadata.DepthStencilState{
		DepthBufferEnable:      true,
		DepthBufferWriteEnable: true,
		DepthBufferFunction:    metadata.CompareFunctionLessEqual,
	})
	b.Clear(metadata.ClearOptionsTarget|metadata.ClearOptionsDepthBuffer, math.Vec4{W: 1}, 1, 0)

	blue := math.NewColor(0, 0, 255, 255)
	near := fullScreen(red)
	far := fullScreen(blue)
	for i := range far {
		near[i].z = 0.25
		far[i].z = 0.75
	}
	b.bindVertices(append(near, far...)...)
	b.DrawPrimitives(metadata.PrimitiveTypeTriangleList, 0, 2)

	if got := pixelAt(b, 2, 2); got != red {
		t.Errorf("pixel = %v, want nearer %v", got, red)
	}
}

func TestBlendAlpha(t *testing.T) {
	b := newTestBackend(t, 2, 2, metadata.DepthFormatNone)
	b.SetBlendState(&metadata.BlendState{
		ColorSourceBlend:      metadata.BlendSourceAlpha,
		ColorDestinationBlend: metadata.BlendInverseSourceAlpha,
		AlphaSourceBlend:      metadata.BlendOne,
		AlphaDestinationBlend: metadata.BlendInverseSourceAlpha,
		ColorWriteEnable:      metadata.ColorWriteChannelsAll,
		BlendFactor:           math.ColorWhite,
		MultiSampleMask:       -1,
	})
	b.Clear(metadata.ClearOptionsTarget, math.Vec4{W: 1}, 1, 0)
	b.bindVertices(fullScreen(math.NewColor(255, 255, 255, 128))...)
	b.DrawPrimitives(metadata.PrimitiveTypeTriangleList, 0, 1)

	got := pixelAt(b, 0, 0)
	if got.R < 126 || got.R > 130 {
		t.Errorf("blended red = %d, want about 128", got.R)
	}
	if got.A != 255 {
		t.Errorf("blended alpha = %d, want 255", got.A)
	}
}

func TestColorWriteMask(t *testing.T) {
	b := newTestBackend(t, 2, 2, metadata.DepthFormatNone)
	b.SetBlendState(&metadata.BlendState{
		ColorSourceBlend:      metadata.BlendOne,
		ColorDestinationBlend: metadata.BlendZero,
		AlphaSourceBlend:      metadata.BlendOne,
		AlphaDestinationBlend: metadata.BlendZero,
		ColorWriteEnable:      metadata.ColorWriteChannelsGreen | metadata.ColorWriteChannelsAlpha,
	})
	b.Clear(metadata.ClearOptionsTarget, math.Vec4{W: 1}, 1, 0)
	b.bindVertices(fullScreen(math.ColorWhite)...)
	b.DrawPrimitives(metadata.PrimitiveTypeTriangleList, 0, 1)

	if got, want := pixelAt(b, 1, 1), math.NewColor(0, 255, 0, 255); got != want {
		t.Errorf("masked pixel = %v, want %v", got, want)
	}
}

func TestScissorUsesBottomUpRows(t *testing.T) {
	b := newTestBackend(t, 4, 4, metadata.DepthFormatNone)
	b.ApplyRasterizerState(&metadata.RasterizerState{ScissorTestEnable: true})
	// window-space scissor covering the bottom row
	b.SetScissorRect(&math.Rectangle{X: 0, Y: 0, Width: 4, Height: 1})
	b.Clear(metadata.ClearOptionsTarget, math.Vec4{W: 1}, 1, 0)
	b.bindVertices(fullScreen(red)...)
	b.DrawPrimitives(metadata.PrimitiveTypeTriangleList, 0, 1)

	if got := pixelAt(b, 0, 3); got != red {
		t.Errorf("bottom pixel = %v, want %v", got, red)
	}
	if got := pixelAt(b, 0, 0); got != math.ColorBlack {
		t.Errorf("top pixel = %v, want %v", got, math.ColorBlack)
	}
}

func TestIndexedDraw(t *testing.T) {
	b := newTestBackend(t, 4, 4, metadata.DepthFormatNone)
	b.Clear(metadata.ClearOptionsTarget, math.Vec4{W: 1}, 1, 0)
	v := fullScreen(red)
	b.bindVertices(v[2], v[0], v[1])

	indices := []byte{1, 0, 2, 0, 0, 0}
	ib := b.GenIndexBuffer(false, metadata.BufferUsageWriteOnly, int32(len(indices)))
	b.SetIndexBufferData(ib, 0, indices, metadata.SetDataOptionsNone)
	b.DrawIndexedPrimitives(metadata.PrimitiveTypeTriangleList, 0, 0, 3, 0, 1, ib, metadata.IndexElementSizeSixteenBits)

	if got := pixelAt(b, 2, 2); got != red {
		t.Errorf("pixel = %v, want %v", got, red)
	}
}

func TestOcclusionQueryCountsPixels(t *testing.T) {
	b := newTestBackend(t, 4, 4, metadata.DepthFormatNone)
	q := b.CreateQuery()
	b.bindVertices(fullScreen(red)...)

	b.QueryBegin(q)
	b.DrawPrimitives(metadata.PrimitiveTypeTriangleList, 0, 1)
	b.QueryEnd(q)

	if !b.QueryComplete(q) {
		t.Fatal("QueryComplete() = false, want true")
	}
	if got := b.QueryPixelCount(q); got != 16 {
		t.Errorf("QueryPixelCount() = %d, want 16", got)
	}
}

func TestSwapBuffersScales(t *testing.T) {
	b := newTestBackend(t, 2, 2, metadata.DepthFormatNone)
	b.Clear(metadata.ClearOptionsTarget, math.NewVec4Create(1, 0, 0, 1), 1, 0)
	b.SwapBuffers(nil, &math.Rectangle{Width: 6, Height: 6}, 0)

	front := b.FrontBuffer()
	if front == nil {
		t.Fatal("FrontBuffer() = nil")
	}
	if got := front.Bounds().Dx(); got != 6 {
		t.Errorf("front buffer width = %d, want 6", got)
	}
	if c := front.RGBAAt(5, 5); c.R != 255 || c.A != 255 {
		t.Errorf("front buffer pixel = %v, want opaque red", c)
	}
}

func TestTextureDataRoundTrip(t *testing.T) {
	b := newTestBackend(t, 2, 2, metadata.DepthFormatNone)
	tex := b.CreateTextureCube(metadata.SurfaceFormatColor, 2, 1, false)
	in := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	b.SetTextureDataCube(tex, 0, 1, 2, 1, metadata.CubeMapFaceNegativeZ, 0, in)

	out := make([]byte, 8)
	b.GetTextureDataCube(tex, 0, 1, 2, 1, metadata.CubeMapFaceNegativeZ, 0, out)
	if string(out) != string(in) {
		t.Errorf("GetTextureDataCube() = %v, want %v", out, in)
	}
	b.GetTextureDataCube(tex, 0, 1, 2, 1, metadata.CubeMapFacePositiveX, 0, out)
	if string(out) != string(make([]byte, 8)) {
		t.Errorf("other face = %v, want zeros", out)
	}
}

func TestWithoutInstancing(t *testing.T) {
	pp := metadata.DefaultPresentationParameters()
	b, err := New(&pp, WithoutInstancing(), WithMaxMultiSampleCount(4))
	if err != nil {
		t.Fatal(err)
	}
	if b.SupportsHardwareInstancing() {
		t.Error("SupportsHardwareInstancing() = true, want false")
	}
	if got := b.GetMaxMultiSampleCount(metadata.SurfaceFormatColor, 16); got != 4 {
		t.Errorf("GetMaxMultiSampleCount() = %d, want 4", got)
	}
}
