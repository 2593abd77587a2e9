package entities

import "github.com/zooyer/dxfview/core"

// Translate 把实体的所有位置坐标减去 d（全局偏移），方向向量与长轴向量不变
func Translate(e Entity, d core.Point) {
	move := func(p *core.Point) {
		p.X -= d.X
		p.Y -= d.Y
	}

	switch v := e.(type) {
	case *Line:
		move(&v.Start)
		move(&v.End)
	case *Circle:
		move(&v.Center)
	case *Arc:
		move(&v.Center)
	case *Polyline:
		for i := range v.Vertices {
			move(&v.Vertices[i].Point)
		}
	case *Point:
		move(&v.Position)
	case *Text:
		move(&v.Position)
		if v.hasAlign {
			move(&v.AlignPoint)
		}
	case *Ellipse:
		move(&v.Center)
	case *Spline:
		for i := range v.ControlPoints {
			move(&v.ControlPoints[i])
		}
		for i := range v.FitPoints {
			move(&v.FitPoints[i])
		}
	case *Solid:
		for i := range v.Corners {
			move(&v.Corners[i])
		}
	case *Insert:
		move(&v.InsertionPoint)
		for _, attr := range v.Attributes {
			Translate(attr, d)
		}
	case *Dimension:
		move(&v.DefPoint)
		move(&v.TextMidPoint)
		move(&v.MeasureStart)
		move(&v.MeasureEnd)
		move(&v.DefPoint2)
		move(&v.ArcPoint)
		move(&v.Origin)
	case *Hatch:
		for i := range v.Loops {
			translateLoop(&v.Loops[i], move)
		}
		for i := range v.Seeds {
			move(&v.Seeds[i])
		}
	case *Leader:
		for i := range v.Vertices {
			move(&v.Vertices[i])
		}
	case *Ray:
		move(&v.BasePoint)
	case *Table:
		move(&v.InsertionPoint)
	}

	// 预先计算的包围盒同步平移
	if b := e.Base(); b.Extents != nil && !b.Extents.IsEmpty() {
		moved := b.Extents.Translate(core.Point{X: -d.X, Y: -d.Y})
		b.Extents = &moved
	}
}

func translateLoop(loop *HatchLoop, move func(p *core.Point)) {
	for i := range loop.Vertices {
		move(&loop.Vertices[i].Point)
	}
	for i := range loop.Edges {
		e := &loop.Edges[i]
		switch e.Type {
		case EdgeLine:
			move(&e.Start)
			move(&e.End)
		case EdgeArc, EdgeEllipse:
			move(&e.Center)
		case EdgeSpline:
			for k := range e.ControlPoints {
				move(&e.ControlPoints[k])
			}
			for k := range e.FitPoints {
				move(&e.FitPoints[k])
			}
		}
	}
}
