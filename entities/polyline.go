package entities

import (
	"github.com/zooyer/dxfview/core"
)

// Vertex 多段线顶点，Bulge 为到下一顶点的凸度
type Vertex struct {
	core.Point
	Bulge      float64
	StartWidth float64
	EndWidth   float64
}

// Polyline 覆盖 LWPOLYLINE 与 POLYLINE/VERTEX/SEQEND 两种写法
type Polyline struct {
	BaseEntity
	Vertices   []Vertex
	Flags      int
	Elevation  float64
	ConstWidth float64
}

func init() {
	Register("LWPOLYLINE", func() Entity { return &Polyline{BaseEntity: newBase("LWPOLYLINE")} })
	Register("POLYLINE", func() Entity { return &Polyline{BaseEntity: newBase("POLYLINE")} })
}

func (l *Polyline) Kind() Kind { return KindPolyline }

// Closed 组码 70 第 1 位
func (l *Polyline) Closed() bool { return l.Flags&1 != 0 }

// Is3D 3D 多段线（组码 70 第 8 位）顶点为世界坐标
func (l *Polyline) Is3D() bool { return l.TypeName == "POLYLINE" && l.Flags&(8|16|64) != 0 }

// Points 顶点坐标
func (l *Polyline) Points() []core.Point {
	pts := make([]core.Point, len(l.Vertices))
	for i, v := range l.Vertices {
		pts[i] = v.Point
	}
	return pts
}

// Bulges 每个顶点的凸度
func (l *Polyline) Bulges() []float64 {
	bulges := make([]float64, len(l.Vertices))
	for i, v := range l.Vertices {
		bulges[i] = v.Bulge
	}
	return bulges
}

func (l *Polyline) Parse(s *core.Scanner) error {
	if l.TypeName == "POLYLINE" {
		return l.parseHeavy(s)
	}

	var pending *Vertex
	flush := func() {
		if pending != nil {
			l.Vertices = append(l.Vertices, *pending)
			pending = nil
		}
	}

	parseLoop(s, &l.BaseEntity, func(t core.Tag) {
		switch t.Code {
		case 10:
			// 新的 X 意味着上一个顶点结束
			flush()
			pending = &Vertex{Point: core.Point{X: t.AsFloat()}}
		case 20:
			if pending != nil {
				pending.Y = t.AsFloat()
			}
		case 42:
			if pending != nil {
				pending.Bulge = t.AsFloat()
			}
		case 40:
			if pending != nil {
				pending.StartWidth = t.AsFloat()
			}
		case 41:
			if pending != nil {
				pending.EndWidth = t.AsFloat()
			}
		case 38:
			l.Elevation = t.AsFloat()
		case 43:
			l.ConstWidth = t.AsFloat()
		case 70:
			l.Flags = t.AsInt()
		}
	})
	flush()

	for i := range l.Vertices {
		l.Vertices[i].Z = l.Elevation
	}
	return nil
}

// parseHeavy 老式 POLYLINE：头部之后跟随 VERTEX，直到 SEQEND
func (l *Polyline) parseHeavy(s *core.Scanner) error {
	parseLoop(s, &l.BaseEntity, func(t core.Tag) {
		switch t.Code {
		case 30:
			l.Elevation = t.AsFloat()
		case 70:
			l.Flags = t.AsInt()
		case 40, 41:
			l.ConstWidth = t.AsFloat()
		}
	})

	for s.LastTag.Is("VERTEX") {
		var (
			v     = Vertex{StartWidth: l.ConstWidth, EndWidth: l.ConstWidth}
			flags int
			base  = newBase("VERTEX")
		)
		parseLoop(s, &base, func(t core.Tag) {
			switch t.Code {
			case 10:
				v.X = t.AsFloat()
			case 20:
				v.Y = t.AsFloat()
			case 30:
				v.Z = t.AsFloat()
			case 40:
				v.StartWidth = t.AsFloat()
			case 41:
				v.EndWidth = t.AsFloat()
			case 42:
				v.Bulge = t.AsFloat()
			case 70:
				flags = t.AsInt()
			}
		})
		// 跳过样条框架控制点和多面网格的面记录
		if flags&16 != 0 || (flags&128 != 0 && flags&64 == 0) {
			continue
		}
		if !l.Is3D() {
			v.Z = l.Elevation
		}
		l.Vertices = append(l.Vertices, v)
	}

	if s.LastTag.Is("SEQEND") {
		s.Drain()
	}
	return nil
}
