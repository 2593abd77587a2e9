package core

import "math"

// arbitraryAxisLimit 任意轴算法阈值 1/64
const arbitraryAxisLimit = 1.0 / 64.0

var (
	WorldY = Point{Y: 1}
	WorldZ = Point{Z: 1}
)

// OCS 对象坐标系，由拉伸方向(组码 210/220/230)确定
type OCS struct {
	Ax, Ay, Az Point
}

// NewOCS 按任意轴算法求出 OCS 的三个轴
func NewOCS(normal Point) OCS {
	az := normal.Normalize()
	if az.Len() == 0 {
		az = WorldZ
	}

	var ax Point
	if math.Abs(az.X) < arbitraryAxisLimit && math.Abs(az.Y) < arbitraryAxisLimit {
		ax = WorldY.Cross(az)
	} else {
		ax = WorldZ.Cross(az)
	}
	ax = ax.Normalize()
	ay := az.Cross(ax).Normalize()

	return OCS{Ax: ax, Ay: ay, Az: az}
}

// IsWorld 拉伸方向为 +Z 时 OCS 与 WCS 重合
func IsWorld(normal Point) bool {
	const eps = 1e-12
	return math.Abs(normal.X) < eps && math.Abs(normal.Y) < eps && normal.Z > 0
}

// ToWCS 把 OCS 坐标 (x, y, elevation) 换算到世界坐标
func (o OCS) ToWCS(p Point) Point {
	return o.Ax.Mul(p.X).Add(o.Ay.Mul(p.Y)).Add(o.Az.Mul(p.Z))
}

// Mirrored (Ax, Ay) 在 XY 平面上的行列式为负，即镜像
func (o OCS) Mirrored() bool {
	return o.Ax.X*o.Ay.Y-o.Ax.Y*o.Ay.X < 0
}

// Phi X 轴在世界 XY 平面上的角度(度)
func (o OCS) Phi() float64 {
	return math.Atan2(o.Ax.Y, o.Ax.X) * 180.0 / math.Pi
}

// Angle 把 OCS 内的角度(度)换算为世界 XY 平面的方向角
func (o OCS) Angle(deg float64) float64 {
	rad := deg * math.Pi / 180.0
	d := o.Ax.Mul(math.Cos(rad)).Add(o.Ay.Mul(math.Sin(rad)))
	return math.Atan2(d.Y, d.X) * 180.0 / math.Pi
}
