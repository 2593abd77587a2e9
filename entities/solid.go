package entities

import "github.com/zooyer/dxfview/core"

// Solid 覆盖 SOLID、TRACE（OCS）与 3DFACE（WCS）
type Solid struct {
	BaseEntity
	Corners [4]core.Point

	has4 bool
}

func init() {
	for _, name := range []string{"SOLID", "TRACE", "3DFACE"} {
		Register(name, func() Entity { return &Solid{BaseEntity: newBase(name)} })
	}
}

func (so *Solid) Kind() Kind { return KindSolid }

// IsFace 3DFACE 的角点为世界坐标
func (so *Solid) IsFace() bool { return so.TypeName == "3DFACE" }

func (so *Solid) Parse(s *core.Scanner) error {
	parseLoop(s, &so.BaseEntity, func(t core.Tag) {
		if t.Code < 10 || t.Code > 33 {
			return
		}
		i := t.Code % 10
		if i > 3 {
			return
		}
		if i == 3 {
			so.has4 = true
		}
		switch t.Code / 10 {
		case 1:
			so.Corners[i].X = t.AsFloat()
		case 2:
			so.Corners[i].Y = t.AsFloat()
		case 3:
			so.Corners[i].Z = t.AsFloat()
		}
	})
	// 只有三个角点时第四点与第三点重合
	if !so.has4 {
		so.Corners[3] = so.Corners[2]
	}
	return nil
}

// Outline 按绘制顺序的轮廓；SOLID/TRACE 的角点是“之”字顺序
func (so *Solid) Outline() []core.Point {
	c := so.Corners
	if so.IsFace() {
		return []core.Point{c[0], c[1], c[2], c[3]}
	}
	return []core.Point{c[0], c[1], c[3], c[2]}
}
