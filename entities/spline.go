package entities

import "github.com/zooyer/dxfview/core"

// Spline 样条，控制点与拟合点为世界坐标
type Spline struct {
	BaseEntity
	Flags         int
	Degree        int
	Knots         []float64
	Weights       []float64
	ControlPoints []core.Point
	FitPoints     []core.Point
}

func init() {
	Register("SPLINE", func() Entity { return &Spline{BaseEntity: newBase("SPLINE"), Degree: 3} })
}

func (sp *Spline) Kind() Kind { return KindSpline }

func (sp *Spline) Closed() bool { return sp.Flags&1 != 0 }

func (sp *Spline) Parse(s *core.Scanner) error {
	parseLoop(s, &sp.BaseEntity, func(t core.Tag) {
		switch t.Code {
		case 70:
			sp.Flags = t.AsInt()
		case 71:
			sp.Degree = t.AsInt()
		case 40:
			sp.Knots = append(sp.Knots, t.AsFloat())
		case 41:
			sp.Weights = append(sp.Weights, t.AsFloat())
		case 10:
			sp.ControlPoints = append(sp.ControlPoints, core.Point{X: t.AsFloat()})
		case 20:
			setLast(sp.ControlPoints, func(p *core.Point) { p.Y = t.AsFloat() })
		case 30:
			setLast(sp.ControlPoints, func(p *core.Point) { p.Z = t.AsFloat() })
		case 11:
			sp.FitPoints = append(sp.FitPoints, core.Point{X: t.AsFloat()})
		case 21:
			setLast(sp.FitPoints, func(p *core.Point) { p.Y = t.AsFloat() })
		case 31:
			setLast(sp.FitPoints, func(p *core.Point) { p.Z = t.AsFloat() })
		}
	})
	return nil
}

// Points 曲线求值后的折线；只有拟合点时直接连接拟合点
func (sp *Spline) Points(steps int) []core.Point {
	if len(sp.ControlPoints) == 0 {
		return append([]core.Point(nil), sp.FitPoints...)
	}
	return core.EvalNURBS(sp.ControlPoints, sp.Degree, sp.Knots, sp.Weights, steps)
}

func setLast(pts []core.Point, fn func(p *core.Point)) {
	if len(pts) > 0 {
		fn(&pts[len(pts)-1])
	}
}
