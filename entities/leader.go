package entities

import "github.com/zooyer/dxfview/core"

// Leader 引线，顶点为世界坐标
type Leader struct {
	BaseEntity
	Style     string
	Arrowhead bool
	Vertices  []core.Point
}

func init() {
	Register("LEADER", func() Entity { return &Leader{BaseEntity: newBase("LEADER")} })
}

func (l *Leader) Kind() Kind { return KindLeader }

func (l *Leader) Parse(s *core.Scanner) error {
	parseLoop(s, &l.BaseEntity, func(t core.Tag) {
		switch t.Code {
		case 3:
			l.Style = t.AsString()
		case 71:
			l.Arrowhead = t.AsInt() == 1
		case 10:
			l.Vertices = append(l.Vertices, core.Point{X: t.AsFloat()})
		case 20:
			setLast(l.Vertices, func(p *core.Point) { p.Y = t.AsFloat() })
		case 30:
			setLast(l.Vertices, func(p *core.Point) { p.Z = t.AsFloat() })
		}
	})
	return nil
}
