package entities

import (
	"math"

	"github.com/zooyer/dxfview/core"
)

// Circle 圆，圆心为 OCS 坐标
type Circle struct {
	BaseEntity
	Center core.Point
	Radius float64
}

// Arc 圆弧，角度为度，逆时针从 StartAngle 到 EndAngle
type Arc struct {
	BaseEntity
	Center     core.Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

func init() {
	Register("CIRCLE", func() Entity { return &Circle{BaseEntity: newBase("CIRCLE")} })
	Register("ARC", func() Entity { return &Arc{BaseEntity: newBase("ARC")} })
}

func (c *Circle) Kind() Kind { return KindCircle }

func (c *Circle) Parse(s *core.Scanner) error {
	parseLoop(s, &c.BaseEntity, func(t core.Tag) {
		parseCircle(t, &c.Center, &c.Radius)
	})
	return nil
}

func (a *Arc) Kind() Kind { return KindArc }

func (a *Arc) Parse(s *core.Scanner) error {
	parseLoop(s, &a.BaseEntity, func(t core.Tag) {
		switch t.Code {
		case 50:
			a.StartAngle = t.AsFloat()
		case 51:
			a.EndAngle = t.AsFloat()
		default:
			parseCircle(t, &a.Center, &a.Radius)
		}
	})
	return nil
}

// Geometry 转为弧度表示的圆弧
func (a *Arc) Geometry() core.Arc {
	return core.Arc{
		Center: a.Center,
		Radius: a.Radius,
		Start:  a.StartAngle * math.Pi / 180.0,
		End:    a.EndAngle * math.Pi / 180.0,
	}
}

func parseCircle(t core.Tag, center *core.Point, radius *float64) {
	switch t.Code {
	case 10:
		center.X = t.AsFloat()
	case 20:
		center.Y = t.AsFloat()
	case 30:
		center.Z = t.AsFloat()
	case 40:
		*radius = t.AsFloat()
	}
}
