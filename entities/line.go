package entities

import (
	"github.com/zooyer/dxfview/core"
)

// Line 直线，端点为世界坐标
type Line struct {
	BaseEntity
	Start, End core.Point
	Thickness  float64
}

func init() {
	Register("LINE", func() Entity { return &Line{BaseEntity: newBase("LINE")} })
}

func (l *Line) Kind() Kind { return KindLine }

func (l *Line) Parse(s *core.Scanner) error {
	parseLoop(s, &l.BaseEntity, func(t core.Tag) {
		switch t.Code {
		case 10:
			l.Start.X = t.AsFloat()
		case 20:
			l.Start.Y = t.AsFloat()
		case 30:
			l.Start.Z = t.AsFloat()
		case 11:
			l.End.X = t.AsFloat()
		case 21:
			l.End.Y = t.AsFloat()
		case 31:
			l.End.Z = t.AsFloat()
		case 39:
			l.Thickness = t.AsFloat()
		}
	})
	return nil
}
