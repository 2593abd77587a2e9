package entities

import "github.com/zooyer/dxfview/core"

// 曲线离散的段数
const (
	ArcSteps     = 32
	EllipseSteps = 64
)

// Extents 实体自身的包围盒，不展开块；INSERT/DIMENSION/ACAD_TABLE 在这里只给出本地兜底值，
// 块内几何由文档层按变换合并
func Extents(e Entity, metrics TextMetrics) core.BBox {
	switch v := e.(type) {
	case *Line:
		return core.PointBBox(v.Start, v.End)
	case *Circle:
		r := core.Point{X: v.Radius, Y: v.Radius}
		return core.PointBBox(v.Center.Sub(r), v.Center.Add(r))
	case *Arc:
		return v.Geometry().Bounds()
	case *Polyline:
		return polylineExtents(v)
	case *Point:
		return core.PointBBox(v.Position)
	case *Text:
		return TextBox(v, metrics)
	case *Ellipse:
		return core.PointBBox(v.Sample(EllipseSteps)...)
	case *Spline:
		if pts := v.Points(0); len(pts) > 0 {
			return core.PointBBox(pts...)
		}
		return core.PointBBox(v.ControlPoints...)
	case *Solid:
		return core.PointBBox(v.Corners[:]...)
	case *Insert:
		return core.PointBBox(v.InsertionPoint)
	case *Dimension:
		return v.BBox2(0)
	case *Hatch:
		b := core.EmptyBBox()
		for i := range v.Loops {
			b = b.Union(core.PointBBox(v.Loops[i].Segments(ArcSteps)...))
		}
		return b
	case *Leader:
		return core.PointBBox(v.Vertices...)
	case *Ray:
		// 射线只计基点，否则范围无限
		return core.PointBBox(v.BasePoint)
	case *Table:
		return core.PointBBox(v.InsertionPoint)
	}
	return core.EmptyBBox()
}

// polylineExtents 顶点加上凸度圆弧经过的象限点
func polylineExtents(l *Polyline) core.BBox {
	b := core.PointBBox(l.Points()...)
	n := len(l.Vertices) - 1
	if l.Closed() {
		n = len(l.Vertices)
	}
	for i := 0; i < n; i++ {
		a, c := l.Vertices[i], l.Vertices[(i+1)%len(l.Vertices)]
		if arc, ok := core.BulgeArc(a.Point, c.Point, a.Bulge); ok {
			b = b.Union(arc.Bounds())
		}
	}
	return b
}
