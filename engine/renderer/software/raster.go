package software

import (
	"encoding/binary"
	"image"
	"image/color"
	gomath "math"

	"github.com/spaghettifunk/xnagfx/engine/core"
	"github.com/spaghettifunk/xnagfx/engine/math"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

// attribute locates one vertex element inside a bound vertex buffer.
type attribute struct {
	data      []byte
	stride    int32
	offset    int32
	start     int32
	frequency int32
	format    metadata.VertexElementFormat
}

func (b *Backend) findAttribute(usage metadata.VertexElementUsage) (attribute, bool) {
	for i := range b.vertexBindings {
		binding := &b.vertexBindings[i]
		element, ok := binding.VertexDeclaration.Find(usage, 0)
		if !ok {
			continue
		}
		buf, ok := b.buffers[binding.VertexBuffer]
		if !ok {
			continue
		}
		return attribute{
			data:      buf.data,
			stride:    binding.VertexDeclaration.VertexStride,
			offset:    element.Offset,
			start:     binding.VertexOffset,
			frequency: binding.InstanceFrequency,
			format:    element.VertexElementFormat,
		}, true
	}
	return attribute{}, false
}

func (a *attribute) fetch(vertex, instance int32, fallback math.Vec4) math.Vec4 {
	index := a.start + vertex
	if a.frequency > 0 {
		index = a.start + instance/a.frequency
	}
	off := int(index*a.stride + a.offset)
	size := int(a.format.Size())
	if off < 0 || off+size > len(a.data) {
		return fallback
	}
	p := a.data[off:]
	f := func(i int) float32 {
		return gomath.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
	}
	v := fallback
	switch a.format {
	case metadata.VertexElementFormatSingle:
		v.X = f(0)
	case metadata.VertexElementFormatVector2:
		v.X, v.Y = f(0), f(1)
	case metadata.VertexElementFormatVector3:
		v.X, v.Y, v.Z = f(0), f(1), f(2)
	case metadata.VertexElementFormatVector4:
		v = math.Vec4{X: f(0), Y: f(1), Z: f(2), W: f(3)}
	case metadata.VertexElementFormatColor:
		v = math.NewColor(p[0], p[1], p[2], p[3]).ToVec4()
	default:
		core.LogDebug("software backend cannot read vertex format %d", a.format)
	}
	return v
}

// fragment is a vertex after the viewport transform. x and row are in pixel
// units of the colour attachment, z is window depth.
type fragment struct {
	x, row, z float32
	// glY is the window y coordinate before rows are assigned; it decides winding.
	glY   float32
	color math.Vec4
}

type indexFunc func(i int32) int32

func (b *Backend) DrawPrimitives(primitiveType metadata.PrimitiveType, vertexStart, primitiveCount int32) {
	b.draw(primitiveType, primitiveCount, 1, func(i int32) int32 { return vertexStart + i })
}

func (b *Backend) DrawIndexedPrimitives(primitiveType metadata.PrimitiveType, baseVertex, minVertexIndex, numVertices, startIndex, primitiveCount int32, indices metadata.Buffer, indexElementSize metadata.IndexElementSize) {
	b.DrawInstancedPrimitives(primitiveType, baseVertex, minVertexIndex, numVertices, startIndex, primitiveCount, 1, indices, indexElementSize)
}

func (b *Backend) DrawInstancedPrimitives(primitiveType metadata.PrimitiveType, baseVertex, minVertexIndex, numVertices, startIndex, primitiveCount, instanceCount int32, indices metadata.Buffer, indexElementSize metadata.IndexElementSize) {
	ib, ok := b.buffers[indices]
	if !ok {
		core.LogWarn("index buffer %d does not exist", indices)
		return
	}
	size := indexElementSize.Bytes()
	b.draw(primitiveType, primitiveCount, instanceCount, func(i int32) int32 {
		off := int((startIndex + i) * size)
		if off < 0 || off+int(size) > len(ib.data) {
			return -1
		}
		if size == 2 {
			return baseVertex + int32(binary.LittleEndian.Uint16(ib.data[off:]))
		}
		return baseVertex + int32(binary.LittleEndian.Uint32(ib.data[off:]))
	})
}

func (b *Backend) draw(primitiveType metadata.PrimitiveType, primitiveCount, instanceCount int32, index indexFunc) {
	if len(b.colorAttachments) == 0 && b.depthAttachment == nil {
		return
	}
	if primitiveType != metadata.PrimitiveTypeTriangleList && primitiveType != metadata.PrimitiveTypeTriangleStrip {
		core.LogDebug("software backend does not rasterize primitive type %d", primitiveType)
		return
	}
	position, ok := b.findAttribute(metadata.VertexElementUsagePosition)
	if !ok {
		core.LogDebug("software backend draw skipped: no position attribute bound")
		return
	}
	colour, hasColour := b.findAttribute(metadata.VertexElementUsageColor)

	for instance := int32(0); instance < instanceCount; instance++ {
		for p := int32(0); p < primitiveCount; p++ {
			var i0, i1, i2 int32
			if primitiveType == metadata.PrimitiveTypeTriangleList {
				i0, i1, i2 = index(p*3), index(p*3+1), index(p*3+2)
			} else if p%2 == 0 {
				i0, i1, i2 = index(p), index(p+1), index(p+2)
			} else {
				i0, i1, i2 = index(p+1), index(p), index(p+2)
			}
			if i0 < 0 || i1 < 0 || i2 < 0 {
				continue
			}
			var tri [3]fragment
			for k, vi := range [3]int32{i0, i1, i2} {
				pos := position.fetch(vi, instance, math.Vec4{W: 1})
				c := math.Vec4{X: 1, Y: 1, Z: 1, W: 1}
				if hasColour {
					c = colour.fetch(vi, instance, c)
				}
				tri[k] = b.transform(pos, c)
			}
			b.rasterize(&tri)
		}
	}
}

func (b *Backend) targetSize() (int32, int32) {
	if len(b.colorAttachments) > 0 {
		r := b.colorAttachments[0].Bounds()
		return int32(r.Dx()), int32(r.Dy())
	}
	return b.depthAttachment.width, b.depthAttachment.height
}

// transform maps a clip space position through the viewport. Offscreen
// rendering flips y so that row 0 of a render target holds the top of the
// image, while the backbuffer maps window y = 0 to its bottom row.
func (b *Backend) transform(pos, c math.Vec4) fragment {
	w := pos.W
	if w == 0 {
		w = 1
	}
	nx, ny, nz := pos.X/w, pos.Y/w, pos.Z/w
	if b.renderTargetBound {
		ny = -ny
	}
	vp := b.viewport
	glX := float32(vp.X) + (nx+1)*0.5*float32(vp.Width)
	glY := float32(vp.Y) + (ny+1)*0.5*float32(vp.Height)
	z := vp.MinDepth + nz*(vp.MaxDepth-vp.MinDepth)

	row := glY
	if !b.renderTargetBound {
		_, h := b.targetSize()
		row = float32(h) - glY
	}
	return fragment{x: glX, row: row, z: z, glY: glY, color: c}
}

// clipRect returns the pixel rectangle writes are limited to, in row space.
func (b *Backend) clipRect() image.Rectangle {
	w, h := b.targetSize()
	toRows := func(x, y, width, height int32) image.Rectangle {
		if b.renderTargetBound {
			return image.Rect(int(x), int(y), int(x+width), int(y+height))
		}
		return image.Rect(int(x), int(h-y-height), int(x+width), int(h-y))
	}
	clip := image.Rect(0, 0, int(w), int(h))
	vp := b.viewport
	clip = clip.Intersect(toRows(vp.X, vp.Y, vp.Width, vp.Height))
	if b.rasterizer.ScissorTestEnable {
		s := b.scissor
		clip = clip.Intersect(toRows(s.X, s.Y, s.Width, s.Height))
	}
	return clip
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func (b *Backend) culled(tri *[3]fragment) bool {
	cross := edge(tri[0].x, tri[0].glY, tri[1].x, tri[1].glY, tri[2].x, tri[2].glY)
	ccw := cross > 0
	switch b.cullMode {
	case metadata.CullModeCullCounterClockwiseFace:
		return ccw
	case metadata.CullModeCullClockwiseFace:
		return !ccw
	}
	return false
}

func (b *Backend) rasterize(tri *[3]fragment) {
	if b.culled(tri) {
		return
	}
	v0, v1, v2 := tri[0], tri[1], tri[2]
	area := edge(v0.x, v0.row, v1.x, v1.row, v2.x, v2.row)
	if area == 0 {
		return
	}

	bounds := image.Rect(
		int(gomath.Floor(float64(min(v0.x, v1.x, v2.x)))),
		int(gomath.Floor(float64(min(v0.row, v1.row, v2.row)))),
		int(gomath.Ceil(float64(max(v0.x, v1.x, v2.x)))),
		int(gomath.Ceil(float64(max(v0.row, v1.row, v2.row)))),
	).Intersect(b.clipRect())

	depthTest := b.depthStencil.DepthBufferEnable && b.depthAttachment != nil
	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			cx, cy := float32(px)+0.5, float32(py)+0.5
			l0 := edge(v1.x, v1.row, v2.x, v2.row, cx, cy) / area
			l1 := edge(v2.x, v2.row, v0.x, v0.row, cx, cy) / area
			l2 := edge(v0.x, v0.row, v1.x, v1.row, cx, cy) / area
			if l0 < 0 || l1 < 0 || l2 < 0 {
				continue
			}

			if depthTest {
				db := b.depthAttachment
				i := py*int(db.width) + px
				if px >= int(db.width) || i >= len(db.depth) {
					continue
				}
				z := l0*v0.z + l1*v1.z + l2*v2.z
				if !compare(b.depthStencil.DepthBufferFunction, z, db.depth[i]) {
					continue
				}
				if b.depthStencil.DepthBufferWriteEnable {
					db.depth[i] = z
				}
			}

			if b.activeQuery != nil {
				b.activeQuery.pixels++
			}

			src := math.Vec4{
				X: l0*v0.color.X + l1*v1.color.X + l2*v2.color.X,
				Y: l0*v0.color.Y + l1*v1.color.Y + l2*v2.color.Y,
				Z: l0*v0.color.Z + l1*v1.color.Z + l2*v2.color.Z,
				W: l0*v0.color.W + l1*v1.color.W + l2*v2.color.W,
			}
			for slot, img := range b.colorAttachments {
				b.writePixel(img, px, py, src, b.blend.WriteMask(slot))
			}
		}
	}
}

func compare(fn metadata.CompareFunction, incoming, stored float32) bool {
	switch fn {
	case metadata.CompareFunctionAlways:
		return true
	case metadata.CompareFunctionNever:
		return false
	case metadata.CompareFunctionLess:
		return incoming < stored
	case metadata.CompareFunctionLessEqual:
		return incoming <= stored
	case metadata.CompareFunctionEqual:
		return incoming == stored
	case metadata.CompareFunctionGreaterEqual:
		return incoming >= stored
	case metadata.CompareFunctionGreater:
		return incoming > stored
	case metadata.CompareFunctionNotEqual:
		return incoming != stored
	}
	return true
}

func (b *Backend) writePixel(img *image.RGBA, x, y int, src math.Vec4, mask metadata.ColorWriteChannels) {
	if mask == metadata.ColorWriteChannelsNone || !(image.Point{X: x, Y: y}.In(img.Rect)) {
		return
	}
	old := img.RGBAAt(x, y)
	dst := math.NewColor(old.R, old.G, old.B, old.A).ToVec4()
	out := math.NewColorFromVec4(b.blendPixel(src, dst))

	next := old
	if mask&metadata.ColorWriteChannelsRed != 0 {
		next.R = out.R
	}
	if mask&metadata.ColorWriteChannelsGreen != 0 {
		next.G = out.G
	}
	if mask&metadata.ColorWriteChannelsBlue != 0 {
		next.B = out.B
	}
	if mask&metadata.ColorWriteChannelsAlpha != 0 {
		next.A = out.A
	}
	img.SetRGBA(x, y, color.RGBA{R: next.R, G: next.G, B: next.B, A: next.A})
}

func (b *Backend) blendPixel(src, dst math.Vec4) math.Vec4 {
	bs := &b.blend
	if bs.ColorSourceBlend == metadata.BlendOne && bs.ColorDestinationBlend == metadata.BlendZero &&
		bs.AlphaSourceBlend == metadata.BlendOne && bs.AlphaDestinationBlend == metadata.BlendZero &&
		bs.ColorBlendFunction == metadata.BlendFunctionAdd && bs.AlphaBlendFunction == metadata.BlendFunctionAdd {
		return src
	}
	sc := b.factor(bs.ColorSourceBlend, src, dst)
	dc := b.factor(bs.ColorDestinationBlend, src, dst)
	sa := b.factor(bs.AlphaSourceBlend, src, dst)
	da := b.factor(bs.AlphaDestinationBlend, src, dst)
	return math.Vec4{
		X: combine(bs.ColorBlendFunction, src.X, sc.X, dst.X, dc.X),
		Y: combine(bs.ColorBlendFunction, src.Y, sc.Y, dst.Y, dc.Y),
		Z: combine(bs.ColorBlendFunction, src.Z, sc.Z, dst.Z, dc.Z),
		W: combine(bs.AlphaBlendFunction, src.W, sa.W, dst.W, da.W),
	}
}

func combine(fn metadata.BlendFunction, src, srcFactor, dst, dstFactor float32) float32 {
	switch fn {
	case metadata.BlendFunctionSubtract:
		return src*srcFactor - dst*dstFactor
	case metadata.BlendFunctionReverseSubtract:
		return dst*dstFactor - src*srcFactor
	case metadata.BlendFunctionMax:
		return max(src, dst)
	case metadata.BlendFunctionMin:
		return min(src, dst)
	}
	return src*srcFactor + dst*dstFactor
}

func splat(f float32) math.Vec4 {
	return math.Vec4{X: f, Y: f, Z: f, W: f}
}

func inverse(v math.Vec4) math.Vec4 {
	return math.Vec4{X: 1 - v.X, Y: 1 - v.Y, Z: 1 - v.Z, W: 1 - v.W}
}

func (b *Backend) factor(blend metadata.Blend, src, dst math.Vec4) math.Vec4 {
	switch blend {
	case metadata.BlendOne:
		return splat(1)
	case metadata.BlendZero:
		return splat(0)
	case metadata.BlendSourceColor:
		return src
	case metadata.BlendInverseSourceColor:
		return inverse(src)
	case metadata.BlendSourceAlpha:
		return splat(src.W)
	case metadata.BlendInverseSourceAlpha:
		return splat(1 - src.W)
	case metadata.BlendDestinationColor:
		return dst
	case metadata.BlendInverseDestinationColor:
		return inverse(dst)
	case metadata.BlendDestinationAlpha:
		return splat(dst.W)
	case metadata.BlendInverseDestinationAlpha:
		return splat(1 - dst.W)
	case metadata.BlendBlendFactor:
		return b.blendFactor.ToVec4()
	case metadata.BlendInverseBlendFactor:
		return inverse(b.blendFactor.ToVec4())
	case metadata.BlendSourceAlphaSaturation:
		f := min(src.W, 1-dst.W)
		return math.Vec4{X: f, Y: f, Z: f, W: 1}
	}
	return splat(1)
}
