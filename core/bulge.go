package core

import "math"

// Arc 圆弧，角度为弧度，始终按逆时针从 Start 扫到 End
type Arc struct {
	Center     Point
	Radius     float64
	Start, End float64
}

// Sweep 圆弧扫过的角度(弧度)，在 (0, 2π] 之间
func (a Arc) Sweep() float64 {
	s := math.Mod(a.End-a.Start, 2*math.Pi)
	if s <= 0 {
		s += 2 * math.Pi
	}
	return s
}

// At 圆弧上参数角 t 处的点
func (a Arc) At(t float64) Point {
	return Point{X: a.Center.X + a.Radius*math.Cos(t), Y: a.Center.Y + a.Radius*math.Sin(t), Z: a.Center.Z}
}

// Contains 判断方向角 t 是否落在圆弧范围内
func (a Arc) Contains(t float64) bool {
	return AngleInRange(t, a.Start, a.End)
}

// Bounds 圆弧的精确包围盒（考虑经过的象限点）
func (a Arc) Bounds() BBox {
	b := PointBBox(a.At(a.Start), a.At(a.Start+a.Sweep()))
	for k := 0; k < 4; k++ {
		t := float64(k) * math.Pi / 2
		if a.Contains(t) {
			b = b.Extend(a.At(t))
		}
	}
	return b
}

// BulgeArc 由凸度和弦的两个端点求圆弧（过弦作圆）
// 凸度 = tan(圆心角/4)，正值为逆时针；凸度为 0 时 ok 为 false
func BulgeArc(p1, p2 Point, bulge float64) (arc Arc, ok bool) {
	chord := p1.Dist2D(p2)
	if bulge == 0 || chord == 0 {
		return Arc{}, false
	}

	theta := 4 * math.Atan(bulge)
	radius := chord / (2 * math.Sin(math.Abs(theta)/2))

	// 圆心在弦中垂线上，到弦中点的距离 = r·cos(θ/2)
	mid := Point{X: (p1.X + p2.X) / 2, Y: (p1.Y + p2.Y) / 2, Z: p1.Z}
	ux, uy := (p2.X-p1.X)/chord, (p2.Y-p1.Y)/chord
	h := radius * math.Cos(theta/2)
	if bulge < 0 {
		h = -h
	}
	center := Point{X: mid.X - uy*h, Y: mid.Y + ux*h, Z: p1.Z}

	a1 := math.Atan2(p1.Y-center.Y, p1.X-center.X)
	a2 := math.Atan2(p2.Y-center.Y, p2.X-center.X)
	if bulge < 0 {
		a1, a2 = a2, a1
	}
	return Arc{Center: center, Radius: radius, Start: a1, End: a2}, true
}

// BulgeMidpoint 圆弧段的中点，到弦中点的距离(拱高)为 |bulge|·弦长/2
func BulgeMidpoint(p1, p2 Point, bulge float64) Point {
	chord := p1.Dist2D(p2)
	mid := Point{X: (p1.X + p2.X) / 2, Y: (p1.Y + p2.Y) / 2, Z: p1.Z}
	if chord == 0 {
		return mid
	}
	s := bulge * chord / 2
	ux, uy := (p2.X-p1.X)/chord, (p2.Y-p1.Y)/chord
	// 逆时针凸向弦的右侧
	return Point{X: mid.X + uy*s, Y: mid.Y - ux*s, Z: p1.Z}
}

// NormalizeAngle 归一化到 [0, 2π)
func NormalizeAngle(t float64) float64 {
	t = math.Mod(t, 2*math.Pi)
	if t < 0 {
		t += 2 * math.Pi
	}
	return t
}

// AngleInRange 方向角 t 是否在从 start 逆时针到 end 的范围内
func AngleInRange(t, start, end float64) bool {
	const eps = 1e-9
	sweep := NormalizeAngle(end - start)
	if sweep == 0 {
		return true
	}
	return NormalizeAngle(t-start) <= sweep+eps
}
