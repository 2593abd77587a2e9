package dxf

import (
	"math"

	"seehuhn.de/go/geom/matrix"

	"github.com/zooyer/dxfview/core"
	"github.com/zooyer/dxfview/entities"
)

// TextToleranceFactor 文字按包围盒命中，容差放大的倍数
const TextToleranceFactor = 2

// PointHit 返回点 (x, y) 命中的顶层实体 ID；后绘制的优先，标注优先于其他实体
func (d *Document) PointHit(x, y, tol float64) (id int, ok bool) {
	p := core.Point{X: x, Y: y}
	h := hitter{d: d, misses: make(map[hitKey]bool)}

	for pass := 0; pass < 2; pass++ {
		for i := len(d.Entities) - 1; i >= 0; i-- {
			e := d.Entities[i]
			if (e.Kind() == entities.KindDimension) != (pass == 0) {
				continue
			}
			if !d.Visible(e) || e.Base().PaperSpace {
				continue
			}
			if h.hit(e, p, tol, 0) {
				return e.Base().ID, true
			}
		}
	}
	return 0, false
}

// BoxHit 返回包围盒与 rect 相交的顶层实体 ID，按绘制顺序
func (d *Document) BoxHit(rect core.BBox) []int {
	var ids []int
	for _, e := range d.Entities {
		if !d.Visible(e) || e.Base().PaperSpace {
			continue
		}
		if d.EntityExtents(e).Overlaps(rect) {
			ids = append(ids, e.Base().ID)
		}
	}
	return ids
}

// hitKey 块内容在某一深度、某个块坐标点上的一次命中测试
type hitKey struct {
	block string
	depth int
	x, y  float64
	tol   float64
}

// hitter 一次点选查询；互相引用的块在同一位置多次出现时只测试一次
type hitter struct {
	d      *Document
	misses map[hitKey]bool
}

// hit 在实体所在坐标系中判断点 p 是否命中
func (h *hitter) hit(e entities.Entity, p core.Point, tol float64, depth int) bool {
	d := h.d
	box := d.EntityExtents(e)
	if box.IsEmpty() {
		return false
	}

	// 文字只看包围盒
	if _, ok := e.(*entities.Text); ok {
		return box.Grow(tol * TextToleranceFactor).Contains(p)
	}
	if !box.Grow(tol).Contains(p) {
		return false
	}

	switch v := e.(type) {
	case *entities.Line:
		return core.SegmentDistance(p, v.Start, v.End) <= tol
	case *entities.Circle:
		return math.Abs(p.Dist2D(v.Center)-v.Radius) <= tol
	case *entities.Arc:
		return core.ArcDistance(p, v.Geometry()) <= tol
	case *entities.Polyline:
		return polylineDistance(p, v.Vertices, v.Closed()) <= tol
	case *entities.Point:
		return p.Dist2D(v.Position) <= tol
	case *entities.Ellipse:
		return ellipseDistance(p, v) <= tol
	case *entities.Spline:
		return core.PolylineDistance(p, v.Points(0)) <= tol
	case *entities.Solid:
		outline := v.Outline()
		return core.InPolygon(p, outline) ||
			core.PolylineDistance(p, append(outline, outline[0])) <= tol
	case *entities.Hatch:
		return hatchHit(p, v, tol)
	case *entities.Leader:
		return core.PolylineDistance(p, v.Vertices) <= tol
	case *entities.Ray:
		return core.RayDistance(p, v.BasePoint, v.Direction, v.Unbounded()) <= tol
	case *entities.Insert:
		for _, attr := range v.Attributes {
			if attr.Visible && h.hit(attr, p, tol, depth) {
				return true
			}
		}
		return h.hitBlock(e, p, tol, depth)
	case *entities.Dimension, *entities.Table:
		return h.hitBlock(e, p, tol, depth)
	}
	return false
}

// hitBlock 把点换算到块坐标系后逐个检查块内实体
func (h *hitter) hitBlock(e entities.Entity, p core.Point, tol float64, depth int) bool {
	d := h.d
	block, _ := d.blockOf(e)
	if block == nil || depth >= d.MaxDepth {
		return false
	}

	// 该深度下块内容的实际范围
	bounds, _ := d.blockExtents(block, depth+1)
	if bounds.IsEmpty() {
		return false
	}

	for _, m := range d.Instances(e, matrix.Identity) {
		inv, ok := core.Invert(m)
		if !ok {
			continue
		}
		local := core.Apply(inv, p)
		localTol := tol
		if s := core.ScaleFactor(m); s > 0 {
			localTol = tol / s
		}
		if !bounds.Grow(localTol).Contains(local) {
			continue
		}

		key := hitKey{block: block.Name, depth: depth + 1, x: local.X, y: local.Y, tol: localTol}
		if h.misses[key] {
			continue
		}
		for i := len(block.Entities) - 1; i >= 0; i-- {
			child := block.Entities[i]
			if d.Visible(child) && h.hit(child, local, localTol, depth+1) {
				return true
			}
		}
		h.misses[key] = true
	}
	return false
}

// polylineDistance 点到多段线的距离，凸度段按圆弧计算
func polylineDistance(p core.Point, vs []entities.Vertex, closed bool) float64 {
	switch len(vs) {
	case 0:
		return math.Inf(1)
	case 1:
		return p.Dist2D(vs[0].Point)
	}

	n := len(vs) - 1
	if closed {
		n = len(vs)
	}
	dist := math.Inf(1)
	for i := 0; i < n; i++ {
		a, b := vs[i], vs[(i+1)%len(vs)]
		if arc, ok := core.BulgeArc(a.Point, b.Point, a.Bulge); ok {
			dist = math.Min(dist, core.ArcDistance(p, arc))
		} else {
			dist = math.Min(dist, core.SegmentDistance(p, a.Point, b.Point))
		}
	}
	return dist
}

// ellipseDistance 在椭圆自身坐标系中归一化后的近似距离，超出参数范围时取到端点的距离
func ellipseDistance(p core.Point, e *entities.Ellipse) float64 {
	a, b, rot := e.Axes()
	if a == 0 || b == 0 {
		return core.PolylineDistance(p, e.Sample(entities.EllipseSteps))
	}

	dx, dy := p.X-e.Center.X, p.Y-e.Center.Y
	cos, sin := math.Cos(rot), math.Sin(rot)
	u, v := dx*cos+dy*sin, -dx*sin+dy*cos

	t := math.Atan2(v/b, u/a)
	if core.AngleInRange(t, e.StartParam, e.StartParam+e.Sweep()) {
		r := math.Hypot(u/a, v/b)
		return math.Abs(r-1) * math.Min(a, b)
	}
	start, end := e.At(e.StartParam), e.At(e.StartParam+e.Sweep())
	return math.Min(p.Dist2D(start), p.Dist2D(end))
}

// hatchHit 奇偶规则判断是否在填充区域内，或靠近边界
func hatchHit(p core.Point, h *entities.Hatch, tol float64) bool {
	inside := false
	for i := range h.Loops {
		pts := h.Loops[i].Segments(entities.ArcSteps)
		if len(pts) < 2 {
			continue
		}
		if core.InPolygon(p, pts) {
			inside = !inside
		}
		if core.PolylineDistance(p, append(pts, pts[0])) <= tol {
			return true
		}
	}
	return inside
}
