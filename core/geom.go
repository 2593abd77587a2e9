package core

import "math"

// SegmentDistance 点到线段的距离（XY 平面）
func SegmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx == 0 && dy == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

// RayDistance 点到射线的距离；both 为 true 时按双向无限直线计算
func RayDistance(p, base, dir Point, both bool) float64 {
	l := math.Hypot(dir.X, dir.Y)
	if l == 0 {
		return p.Dist2D(base)
	}
	ux, uy := dir.X/l, dir.Y/l
	t := (p.X-base.X)*ux + (p.Y-base.Y)*uy
	if t < 0 && !both {
		return p.Dist2D(base)
	}
	return math.Abs((p.X-base.X)*uy - (p.Y-base.Y)*ux)
}

// PolylineDistance 点到折线的最短距离
func PolylineDistance(p Point, pts []Point) float64 {
	switch len(pts) {
	case 0:
		return math.Inf(1)
	case 1:
		return p.Dist2D(pts[0])
	}
	d := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		d = math.Min(d, SegmentDistance(p, pts[i-1], pts[i]))
	}
	return d
}

// ArcDistance 点到圆弧的距离：径向距离 + 角度范围，范围外取到端点的距离
func ArcDistance(p Point, a Arc) float64 {
	t := math.Atan2(p.Y-a.Center.Y, p.X-a.Center.X)
	if a.Contains(t) {
		return math.Abs(p.Dist2D(a.Center) - a.Radius)
	}
	return math.Min(p.Dist2D(a.At(a.Start)), p.Dist2D(a.At(a.End)))
}

// InPolygon 奇偶规则判断点是否在多边形内
func InPolygon(p Point, poly []Point) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// FlattenBulge 把带凸度的顶点序列展开为折线，每段圆弧按 segments 等分
func FlattenBulge(pts []Point, bulges []float64, closed bool, segments int) []Point {
	if len(pts) == 0 {
		return nil
	}
	out := []Point{pts[0]}
	n := len(pts)
	last := n - 1
	if closed {
		last = n
	}
	for i := 0; i < last; i++ {
		p1, p2 := pts[i], pts[(i+1)%n]
		var b float64
		if i < len(bulges) {
			b = bulges[i]
		}
		if arc, ok := BulgeArc(p1, p2, b); ok {
			// 圆弧方向与顶点顺序保持一致
			start, sweep := arc.Start, arc.Sweep()
			if b < 0 {
				start, sweep = arc.Start+sweep, -sweep
			}
			for k := 1; k < segments; k++ {
				out = append(out, arc.At(start+sweep*float64(k)/float64(segments)))
			}
		}
		out = append(out, p2)
	}
	return out
}
