package core

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// 矩阵采用 [a b c d e f] 行向量约定：A.Mul(B) 表示先 A 后 B

// Rotate 绕 Z 轴旋转（度）
func Rotate(deg float64) matrix.Matrix {
	rad := deg * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)
	return matrix.Matrix{cos, sin, -sin, cos, 0, 0}
}

// InsertMatrix 块参照的局部到父级变换：
// translate(pos) · rotate(rot) · translate(offset) · scale(s) · translate(-base)
func InsertMatrix(pos, scale Point, rotation float64, offset, base Point) matrix.Matrix {
	return matrix.Translate(-base.X, -base.Y).
		Mul(matrix.Matrix{scale.X, 0, 0, scale.Y, 0, 0}).
		Mul(matrix.Translate(offset.X, offset.Y)).
		Mul(Rotate(rotation)).
		Mul(matrix.Translate(pos.X, pos.Y))
}

// Apply 变换一个点，Z 保持不变
func Apply(m matrix.Matrix, p Point) Point {
	v := ApplyVec(m, vec.Vec2{X: p.X, Y: p.Y})
	return Point{X: v.X, Y: v.Y, Z: p.Z}
}

func ApplyVec(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y + m[4],
		Y: m[1]*v.X + m[3]*v.Y + m[5],
	}
}

// ApplyBBox 变换包围盒的四个角后重新求外包
func ApplyBBox(m matrix.Matrix, b BBox) BBox {
	if b.IsEmpty() {
		return b
	}
	return PointBBox(
		Apply(m, Point{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z}),
		Apply(m, Point{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z}),
		Apply(m, Point{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z}),
		Apply(m, Point{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z}),
	)
}

// Invert 求逆，奇异矩阵返回 false
func Invert(m matrix.Matrix) (matrix.Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 || math.IsNaN(det) {
		return matrix.Matrix{}, false
	}
	a, b, c, d := m[3]/det, -m[1]/det, -m[2]/det, m[0]/det
	return matrix.Matrix{
		a, b, c, d,
		-(m[4]*a + m[5]*c),
		-(m[4]*b + m[5]*d),
	}, true
}

// ScaleFactor 矩阵的平均缩放系数，用于换算容差
func ScaleFactor(m matrix.Matrix) float64 {
	return math.Sqrt(math.Abs(m[0]*m[3] - m[1]*m[2]))
}
