package entities

import (
	"github.com/zooyer/dxfview/core"
)

// Normalize 把实体的 OCS 坐标换算到世界坐标，拉伸方向为 +Z 时什么都不做
// 直线端点、点、样条、椭圆、MTEXT 位置、3DFACE、引线与射线本身就是世界坐标
func Normalize(e Entity) {
	b := e.Base()
	if core.IsWorld(b.Extrusion) {
		return
	}
	o := core.NewOCS(b.Extrusion)
	mirrored := o.Mirrored()

	switch v := e.(type) {
	case *Line, *Point, *Spline, *Leader, *Ray:
		// 世界坐标
	case *Circle:
		v.Center = o.ToWCS(v.Center)
	case *Arc:
		v.Center = o.ToWCS(v.Center)
		start, end := o.Angle(v.StartAngle), o.Angle(v.EndAngle)
		if mirrored {
			// 镜像后绕向相反
			start, end = end, start
		}
		v.StartAngle, v.EndAngle = start, end
	case *Polyline:
		if v.Is3D() {
			return
		}
		for i := range v.Vertices {
			v.Vertices[i].Point = o.ToWCS(v.Vertices[i].Point)
			if mirrored {
				v.Vertices[i].Bulge = -v.Vertices[i].Bulge
			}
		}
	case *Text:
		normalizeText(v, o)
	case *Ellipse:
		if mirrored {
			v.StartParam, v.EndParam = -v.EndParam, -v.StartParam
		}
	case *Solid:
		if v.IsFace() {
			return
		}
		for i := range v.Corners {
			v.Corners[i] = o.ToWCS(v.Corners[i])
		}
	case *Insert:
		v.InsertionPoint = o.ToWCS(v.InsertionPoint)
		if mirrored {
			v.Rotation = o.Phi() - v.Rotation + 180
			v.Scale.X = -v.Scale.X
			v.ColumnSpacing = -v.ColumnSpacing
		} else {
			v.Rotation = o.Angle(v.Rotation)
		}
	case *Dimension:
		v.TextMidPoint = o.ToWCS(v.TextMidPoint)
		v.ArcPoint = o.ToWCS(v.ArcPoint)
	case *Hatch:
		normalizeHatch(v, o)
	case *Table:
		// 插入点与方向均为世界坐标
	}
}

func normalizeText(x *Text, o core.OCS) {
	if x.IsMText() {
		return
	}
	x.Position = o.ToWCS(x.Position)
	if x.hasAlign {
		x.AlignPoint = o.ToWCS(x.AlignPoint)
	}
	if o.Mirrored() {
		// 镜像：旋转角随基向量换算，宽度系数取反保持外观
		x.Rotation = o.Phi() - x.Rotation + 180
		x.WidthFactor = -x.WidthFactor
	} else {
		x.Rotation = o.Angle(x.Rotation)
	}
}

func normalizeHatch(h *Hatch, o core.OCS) {
	mirrored := o.Mirrored()
	elevation := h.Elevation.Z
	toWCS := func(p core.Point) core.Point {
		p.Z = elevation
		return o.ToWCS(p)
	}

	for i := range h.Loops {
		loop := &h.Loops[i]
		for j := range loop.Vertices {
			loop.Vertices[j].Point = toWCS(loop.Vertices[j].Point)
			if mirrored {
				loop.Vertices[j].Bulge = -loop.Vertices[j].Bulge
			}
		}
		for j := range loop.Edges {
			e := &loop.Edges[j]
			switch e.Type {
			case EdgeLine:
				e.Start, e.End = toWCS(e.Start), toWCS(e.End)
			case EdgeArc:
				e.Center = toWCS(e.Center)
				mapEdgeAngles(e, o.Angle, mirrored)
			case EdgeEllipse:
				e.Center = toWCS(e.Center)
				axis := o.ToWCS(e.MajorAxis)
				e.MajorAxis = core.Point{X: axis.X, Y: axis.Y}
				mapEdgeAngles(e, func(t float64) float64 {
					if mirrored {
						return -t
					}
					return t
				}, mirrored)
			case EdgeSpline:
				for k := range e.ControlPoints {
					e.ControlPoints[k] = toWCS(e.ControlPoints[k])
				}
				for k := range e.FitPoints {
					e.FitPoints[k] = toWCS(e.FitPoints[k])
				}
			}
		}
	}
	for i := range h.Seeds {
		h.Seeds[i] = toWCS(h.Seeds[i])
	}
	h.Elevation = toWCS(h.Elevation)
}

// mapEdgeAngles 换算边界边的角度；顺时针边的角度按取反存储
func mapEdgeAngles(e *HatchEdge, fn func(float64) float64, mirrored bool) {
	start, end := e.StartAngle, e.EndAngle
	if !e.CCW {
		start, end = -start, -end
	}
	start, end = fn(start), fn(end)

	ccw := e.CCW != mirrored
	if !ccw {
		start, end = -start, -end
	}
	e.StartAngle, e.EndAngle, e.CCW = start, end, ccw
}
