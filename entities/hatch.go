package entities

import (
	"math"

	"github.com/zooyer/dxfview/core"
)

// 边界边类型（组码 72）
const (
	EdgeLine    = 1
	EdgeArc     = 2
	EdgeEllipse = 3
	EdgeSpline  = 4
)

// HatchEdge 边界边，坐标为 OCS，角度为度
type HatchEdge struct {
	Type int

	Start, End core.Point // 直线

	Center     core.Point // 圆弧/椭圆
	Radius     float64    // 圆弧半径
	MajorAxis  core.Point // 椭圆长轴端点（相对中心）
	Ratio      float64    // 椭圆短长轴比
	StartAngle float64
	EndAngle   float64
	CCW        bool

	Degree        int // 样条
	Rational      bool
	Periodic      bool
	Knots         []float64
	Weights       []float64
	ControlPoints []core.Point
	FitPoints     []core.Point
}

// HatchLoop 边界环：多段线环或边环
type HatchLoop struct {
	Flags    int
	Polyline bool
	Closed   bool
	Vertices []Vertex
	Edges    []HatchEdge
	Sources  int
}

type Hatch struct {
	BaseEntity
	Pattern      string
	Solid        bool
	Associative  bool
	Elevation    core.Point
	Loops        []HatchLoop
	Style        int
	PatternType  int
	PatternAngle float64
	PatternScale float64
	Seeds        []core.Point
}

func init() {
	Register("HATCH", func() Entity { return &Hatch{BaseEntity: newBase("HATCH"), PatternScale: 1} })
}

func (h *Hatch) Kind() Kind { return KindHatch }

func (h *Hatch) Parse(s *core.Scanner) error {
	seeding := false
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			return nil
		}
		if h.parseCommon(t) {
			continue
		}
		switch t.Code {
		case 2:
			h.Pattern = t.AsString()
		case 70:
			h.Solid = t.AsInt() == 1
		case 71:
			h.Associative = t.AsInt() == 1
		case 91:
			for i, n := 0, t.AsInt(); i < n; i++ {
				loop, ok := parseHatchLoop(s)
				if !ok {
					break
				}
				h.Loops = append(h.Loops, loop)
			}
		case 75:
			h.Style = t.AsInt()
		case 76:
			h.PatternType = t.AsInt()
		case 52:
			h.PatternAngle = t.AsFloat()
		case 41:
			h.PatternScale = t.AsFloat()
		case 98:
			seeding = true
		case 10:
			if seeding {
				h.Seeds = append(h.Seeds, core.Point{X: t.AsFloat()})
			} else {
				h.Elevation.X = t.AsFloat()
			}
		case 20:
			if seeding {
				setLast(h.Seeds, func(p *core.Point) { p.Y = t.AsFloat() })
			} else {
				h.Elevation.Y = t.AsFloat()
			}
		case 30:
			if !seeding {
				h.Elevation.Z = t.AsFloat()
			}
		}
	}
	return nil
}

// fieldIf 下一组标签的组码为 code 时才消费
func fieldIf(s *core.Scanner, code int) (core.Tag, bool) {
	t, ok := s.Peek()
	if !ok || t.Code != code {
		return core.Tag{}, false
	}
	s.Next()
	return t, true
}

// fieldsIn 连续读取组码在 codes 中的标签，每个组码只读一次
func fieldsIn(s *core.Scanner, fn func(t core.Tag), codes ...int) {
	seen := make(map[int]bool, len(codes))
	for {
		t, ok := s.Peek()
		if !ok || seen[t.Code] || !contains(codes, t.Code) {
			return
		}
		s.Next()
		seen[t.Code] = true
		fn(t)
	}
}

func contains(codes []int, code int) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

func parseHatchLoop(s *core.Scanner) (loop HatchLoop, ok bool) {
	t, ok := fieldIf(s, 92)
	if !ok {
		return loop, false
	}
	loop.Flags = t.AsInt()
	loop.Polyline = loop.Flags&2 != 0

	if loop.Polyline {
		hasBulge := false
		n := 0
		fieldsIn(s, func(t core.Tag) {
			switch t.Code {
			case 72:
				hasBulge = t.AsInt() != 0
			case 73:
				loop.Closed = t.AsInt() != 0
			case 93:
				n = t.AsInt()
			}
		}, 72, 73, 93)

		for i := 0; i < n; i++ {
			x, ok := fieldIf(s, 10)
			if !ok {
				break
			}
			v := Vertex{Point: core.Point{X: x.AsFloat()}}
			if y, ok := fieldIf(s, 20); ok {
				v.Y = y.AsFloat()
			}
			if b, ok := fieldIf(s, 42); ok && hasBulge {
				v.Bulge = b.AsFloat()
			}
			loop.Vertices = append(loop.Vertices, v)
		}
		if len(loop.Vertices) < n {
			skipBoundary(s)
			return loop, true
		}
	} else {
		loop.Closed = true
		n := 0
		if t, ok := fieldIf(s, 93); ok {
			n = t.AsInt()
		}
		for i := 0; i < n; i++ {
			edge, ok := parseHatchEdge(s)
			if !ok {
				break
			}
			loop.Edges = append(loop.Edges, edge)
		}
		if len(loop.Edges) < n {
			skipBoundary(s)
			return loop, true
		}
	}

	// 关联的源边界对象
	if t, ok := fieldIf(s, 97); ok {
		loop.Sources = t.AsInt()
	}
	for {
		if _, ok := fieldIf(s, 330); !ok {
			break
		}
	}
	return loop, true
}

// skipBoundary 边界没有读完整时丢弃剩余的组，直到下一个环(92)或填充样式(75)
func skipBoundary(s *core.Scanner) {
	for {
		t, ok := s.Peek()
		if !ok || t.Code == 0 || t.Code == 92 || t.Code == 75 {
			return
		}
		s.Next()
	}
}

func parseHatchEdge(s *core.Scanner) (edge HatchEdge, ok bool) {
	t, ok := fieldIf(s, 72)
	if !ok {
		return edge, false
	}
	edge.Type = t.AsInt()
	edge.CCW = true

	switch edge.Type {
	case EdgeLine:
		fieldsIn(s, func(t core.Tag) {
			switch t.Code {
			case 10:
				edge.Start.X = t.AsFloat()
			case 20:
				edge.Start.Y = t.AsFloat()
			case 11:
				edge.End.X = t.AsFloat()
			case 21:
				edge.End.Y = t.AsFloat()
			}
		}, 10, 20, 11, 21)
	case EdgeArc, EdgeEllipse:
		fieldsIn(s, func(t core.Tag) {
			switch t.Code {
			case 10:
				edge.Center.X = t.AsFloat()
			case 20:
				edge.Center.Y = t.AsFloat()
			case 11:
				edge.MajorAxis.X = t.AsFloat()
			case 21:
				edge.MajorAxis.Y = t.AsFloat()
			case 40:
				if edge.Type == EdgeArc {
					edge.Radius = t.AsFloat()
				} else {
					edge.Ratio = t.AsFloat()
				}
			case 50:
				edge.StartAngle = t.AsFloat()
			case 51:
				edge.EndAngle = t.AsFloat()
			case 73:
				edge.CCW = t.AsInt() != 0
			}
		}, 10, 20, 11, 21, 40, 50, 51, 73)
	case EdgeSpline:
		parseSplineEdge(s, &edge)
	default:
		return edge, false
	}
	return edge, true
}

func parseSplineEdge(s *core.Scanner, edge *HatchEdge) {
	fieldsIn(s, func(t core.Tag) {
		switch t.Code {
		case 94:
			edge.Degree = t.AsInt()
		case 73:
			edge.Rational = t.AsInt() != 0
		case 74:
			edge.Periodic = t.AsInt() != 0
		}
	}, 94, 73, 74, 95, 96)

	for {
		t, ok := fieldIf(s, 40)
		if !ok {
			break
		}
		edge.Knots = append(edge.Knots, t.AsFloat())
	}
	for {
		x, ok := fieldIf(s, 10)
		if !ok {
			break
		}
		p := core.Point{X: x.AsFloat()}
		if y, ok := fieldIf(s, 20); ok {
			p.Y = y.AsFloat()
		}
		edge.ControlPoints = append(edge.ControlPoints, p)
		if w, ok := fieldIf(s, 42); ok {
			edge.Weights = append(edge.Weights, w.AsFloat())
		}
	}

	// 新版本带拟合点；97 后面不是 11 时留给环的源边界计数处理
	if t, ok := s.Peek(); ok && t.Code == 97 {
		s.Next()
		n := t.AsInt()
		for i := 0; i < n; i++ {
			x, ok := fieldIf(s, 11)
			if !ok {
				break
			}
			p := core.Point{X: x.AsFloat()}
			if y, ok := fieldIf(s, 21); ok {
				p.Y = y.AsFloat()
			}
			edge.FitPoints = append(edge.FitPoints, p)
		}
		fieldsIn(s, func(core.Tag) {}, 12, 22, 13, 23)
	}
}

// Segments 边界环展开后的折线（OCS 已换算后即为世界坐标）
func (l *HatchLoop) Segments(arcSteps int) []core.Point {
	if l.Polyline {
		pts := make([]core.Point, len(l.Vertices))
		bulges := make([]float64, len(l.Vertices))
		for i, v := range l.Vertices {
			pts[i], bulges[i] = v.Point, v.Bulge
		}
		return core.FlattenBulge(pts, bulges, true, arcSteps)
	}

	var out []core.Point
	for _, e := range l.Edges {
		out = append(out, e.Points(arcSteps)...)
	}
	return out
}

// Points 边展开为折线
func (e *HatchEdge) Points(steps int) []core.Point {
	switch e.Type {
	case EdgeLine:
		return []core.Point{e.Start, e.End}
	case EdgeArc:
		arc := core.Arc{Center: e.Center, Radius: e.Radius,
			Start: e.StartAngle * math.Pi / 180.0, End: e.EndAngle * math.Pi / 180.0}
		return sampleArc(arc, e.CCW, steps)
	case EdgeEllipse:
		el := Ellipse{Center: e.Center, MajorAxis: e.MajorAxis, Ratio: e.Ratio,
			StartParam: e.StartAngle * math.Pi / 180.0, EndParam: e.EndAngle * math.Pi / 180.0}
		if !e.CCW {
			el.StartParam, el.EndParam = -el.EndParam, -el.StartParam
		}
		pts := el.Sample(steps)
		if !e.CCW {
			reverse(pts)
		}
		return pts
	case EdgeSpline:
		if len(e.ControlPoints) == 0 {
			return e.FitPoints
		}
		return core.EvalNURBS(e.ControlPoints, e.Degree, e.Knots, e.Weights, 0)
	}
	return nil
}

// sampleArc 采样圆弧；顺时针的边界边角度按反方向给出
func sampleArc(a core.Arc, ccw bool, steps int) []core.Point {
	if !ccw {
		a.Start, a.End = -a.End, -a.Start
	}
	sweep := a.Sweep()
	pts := make([]core.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		pts = append(pts, a.At(a.Start+sweep*float64(i)/float64(steps)))
	}
	if !ccw {
		reverse(pts)
	}
	return pts
}

func reverse(pts []core.Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}
