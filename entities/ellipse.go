package entities

import (
	"math"

	"github.com/zooyer/dxfview/core"
)

// Ellipse 椭圆（弧），中心与长轴端点向量为世界坐标，参数为弧度
type Ellipse struct {
	BaseEntity
	Center     core.Point
	MajorAxis  core.Point // 相对中心的长轴端点
	Ratio      float64    // 短轴/长轴
	StartParam float64
	EndParam   float64
}

func init() {
	Register("ELLIPSE", func() Entity {
		return &Ellipse{BaseEntity: newBase("ELLIPSE"), Ratio: 1, EndParam: 2 * math.Pi}
	})
}

func (e *Ellipse) Kind() Kind { return KindEllipse }

func (e *Ellipse) Parse(s *core.Scanner) error {
	parseLoop(s, &e.BaseEntity, func(t core.Tag) {
		switch t.Code {
		case 10:
			e.Center.X = t.AsFloat()
		case 20:
			e.Center.Y = t.AsFloat()
		case 30:
			e.Center.Z = t.AsFloat()
		case 11:
			e.MajorAxis.X = t.AsFloat()
		case 21:
			e.MajorAxis.Y = t.AsFloat()
		case 31:
			e.MajorAxis.Z = t.AsFloat()
		case 40:
			e.Ratio = t.AsFloat()
		case 41:
			e.StartParam = t.AsFloat()
		case 42:
			e.EndParam = t.AsFloat()
		}
	})
	return nil
}

// Axes 长半轴、短半轴长度与长轴方向角(弧度)
func (e *Ellipse) Axes() (a, b, rot float64) {
	a = math.Hypot(e.MajorAxis.X, e.MajorAxis.Y)
	return a, a * e.Ratio, math.Atan2(e.MajorAxis.Y, e.MajorAxis.X)
}

// At 参数 t 处的点：C + M·cos t + m·sin t，m 为长轴逆时针旋转 90° 后乘以比例
func (e *Ellipse) At(t float64) core.Point {
	cos, sin := math.Cos(t), math.Sin(t)
	mx, my := -e.MajorAxis.Y*e.Ratio, e.MajorAxis.X*e.Ratio
	return core.Point{
		X: e.Center.X + e.MajorAxis.X*cos + mx*sin,
		Y: e.Center.Y + e.MajorAxis.Y*cos + my*sin,
		Z: e.Center.Z,
	}
}

// Sweep 参数范围，完整椭圆为 2π
func (e *Ellipse) Sweep() float64 {
	s := math.Mod(e.EndParam-e.StartParam, 2*math.Pi)
	if s <= 1e-12 {
		s += 2 * math.Pi
	}
	return s
}

// Sample 按参数均匀采样
func (e *Ellipse) Sample(steps int) []core.Point {
	sweep := e.Sweep()
	pts := make([]core.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		pts = append(pts, e.At(e.StartParam+sweep*float64(i)/float64(steps)))
	}
	return pts
}
