package entities

import "github.com/zooyer/dxfview/core"

// Ray 射线（RAY）与构造线（XLINE），均为世界坐标
type Ray struct {
	BaseEntity
	BasePoint core.Point
	Direction core.Point
}

func init() {
	Register("RAY", func() Entity { return &Ray{BaseEntity: newBase("RAY")} })
	Register("XLINE", func() Entity { return &Ray{BaseEntity: newBase("XLINE")} })
}

func (r *Ray) Kind() Kind { return KindRay }

// Unbounded 构造线两端都无限延伸
func (r *Ray) Unbounded() bool { return r.TypeName == "XLINE" }

func (r *Ray) Parse(s *core.Scanner) error {
	parseLoop(s, &r.BaseEntity, func(t core.Tag) {
		switch t.Code {
		case 10:
			r.BasePoint.X = t.AsFloat()
		case 20:
			r.BasePoint.Y = t.AsFloat()
		case 30:
			r.BasePoint.Z = t.AsFloat()
		case 11:
			r.Direction.X = t.AsFloat()
		case 21:
			r.Direction.Y = t.AsFloat()
		case 31:
			r.Direction.Z = t.AsFloat()
		}
	})
	return nil
}
