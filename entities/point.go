package entities

import "github.com/zooyer/dxfview/core"

// Point 点，位置为世界坐标
type Point struct {
	BaseEntity
	Position core.Point
}

func init() {
	Register("POINT", func() Entity { return &Point{BaseEntity: newBase("POINT")} })
}

func (p *Point) Kind() Kind { return KindPoint }

func (p *Point) Parse(s *core.Scanner) error {
	parseLoop(s, &p.BaseEntity, func(t core.Tag) {
		switch t.Code {
		case 10:
			p.Position.X = t.AsFloat()
		case 20:
			p.Position.Y = t.AsFloat()
		case 30:
			p.Position.Z = t.AsFloat()
		}
	})
	return nil
}
