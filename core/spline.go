package core

// SplineSteps 采样步数：按控制点数量估算
func SplineSteps(controlPoints int) int {
	steps := controlPoints * 8
	if steps < 16 {
		steps = 16
	}
	if steps > 512 {
		steps = 512
	}
	return steps
}

// OpenUniformKnots 生成开放均匀节点向量，长度 n+degree+1
func OpenUniformKnots(n, degree int) []float64 {
	knots := make([]float64, n+degree+1)
	inner := n - degree
	for i := range knots {
		switch {
		case i <= degree:
			knots[i] = 0
		case i >= n:
			knots[i] = 1
		default:
			knots[i] = float64(i-degree) / float64(inner)
		}
	}
	return knots
}

// EvalNURBS 用 Cox–de Boor 递推在齐次坐标下求值（有理）B 样条
// knots 为空或长度不对时生成开放均匀节点；weights 缺省为 1；steps <= 0 时按控制点数量估算
// 控制点少于 degree+1 时原样返回控制多边形
func EvalNURBS(ctrl []Point, degree int, knots, weights []float64, steps int) []Point {
	n := len(ctrl)
	if degree < 1 || n < degree+1 {
		return append([]Point(nil), ctrl...)
	}
	if len(knots) != n+degree+1 {
		knots = OpenUniformKnots(n, degree)
	}
	if len(weights) != n {
		weights = nil
	}
	if steps <= 0 {
		steps = SplineSteps(n)
	}

	lo, hi := knots[degree], knots[n]
	if hi <= lo {
		return append([]Point(nil), ctrl...)
	}

	out := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := lo + (hi-lo)*float64(i)/float64(steps)
		out = append(out, deBoor(ctrl, degree, knots, weights, t))
	}
	return out
}

func deBoor(ctrl []Point, degree int, knots, weights []float64, t float64) Point {
	var x, y, z, w float64
	for i := range ctrl {
		b := basis(i, degree, knots, t)
		if b == 0 {
			continue
		}
		wi := 1.0
		if weights != nil {
			wi = weights[i]
		}
		b *= wi
		x += ctrl[i].X * b
		y += ctrl[i].Y * b
		z += ctrl[i].Z * b
		w += b
	}
	if w == 0 {
		return ctrl[len(ctrl)-1]
	}
	return Point{X: x / w, Y: y / w, Z: z / w}
}

// basis Cox–de Boor 递推求 N(i,p)(t)
func basis(i, p int, knots []float64, t float64) float64 {
	if p == 0 {
		last := len(knots) - 1
		if knots[i] <= t && t < knots[i+1] {
			return 1
		}
		// 区间右端点归入最后一个非空区间
		if t == knots[last] && knots[i] < knots[i+1] && knots[i+1] == knots[last] {
			return 1
		}
		return 0
	}

	var left, right float64
	if d := knots[i+p] - knots[i]; d != 0 {
		left = (t - knots[i]) / d * basis(i, p-1, knots, t)
	}
	if d := knots[i+p+1] - knots[i+1]; d != 0 {
		right = (knots[i+p+1] - t) / d * basis(i+1, p-1, knots, t)
	}
	return left + right
}
