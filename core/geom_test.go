package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/matrix"
)

const eps = 1e-9

func assertPoint(t *testing.T, want, got Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "X")
	assert.InDelta(t, want.Y, got.Y, eps, "Y")
	assert.InDelta(t, want.Z, got.Z, eps, "Z")
}

func TestOCS_WorldIsIdentity(t *testing.T) {
	o := NewOCS(Point{Z: 1})
	assertPoint(t, Point{X: 1}, o.Ax)
	assertPoint(t, Point{Y: 1}, o.Ay)
	assert.False(t, o.Mirrored())

	p := Point{X: 3, Y: -4, Z: 7}
	assertPoint(t, p, o.ToWCS(p))
	assert.InDelta(t, 30.0, o.Angle(30), eps)
}

func TestOCS_NegativeZMirrors(t *testing.T) {
	o := NewOCS(Point{Z: -1})
	assertPoint(t, Point{X: -1}, o.Ax)
	assertPoint(t, Point{Y: 1}, o.Ay)
	assert.True(t, o.Mirrored())
	assertPoint(t, Point{X: -5, Y: 5, Z: -2}, o.ToWCS(Point{X: 5, Y: 5, Z: 2}))
	assert.InDelta(t, 150.0, o.Angle(30), eps)
	assert.InDelta(t, 180.0, o.Phi(), eps)
}

func TestOCS_TiltedNormal(t *testing.T) {
	o := NewOCS(Point{X: 1, Y: 1, Z: 1})
	// 三轴正交且为单位向量
	assert.InDelta(t, 1, o.Ax.Len(), eps)
	assert.InDelta(t, 1, o.Ay.Len(), eps)
	assert.InDelta(t, 0, o.Ax.Dot(o.Ay), eps)
	assert.InDelta(t, 0, o.Ax.Dot(o.Az), eps)
	assert.InDelta(t, 0, o.Ay.Dot(o.Az), eps)
	// |Nx| >= 1/64 时以 Wz × N 作为 X 轴，其 Z 分量为 0
	assert.InDelta(t, 0, o.Ax.Z, eps)
}

func TestBulge_Semicircle(t *testing.T) {
	p1, p2 := Point{}, Point{X: 10}
	arc, ok := BulgeArc(p1, p2, 1)
	require.True(t, ok)
	assertPoint(t, Point{X: 5}, arc.Center)
	assert.InDelta(t, 5, arc.Radius, eps)
	assert.InDelta(t, math.Pi, arc.Sweep(), eps, "圆心角为 180°")

	// 起点处逆时针切线与弦的夹角为 90°
	assertPoint(t, p1, arc.At(arc.Start))
	tangent := Point{X: -math.Sin(arc.Start), Y: math.Cos(arc.Start)}
	chord := p2.Sub(p1)
	angle := math.Acos(tangent.Dot(chord)/(tangent.Len()*chord.Len())) * 180 / math.Pi
	assert.InDelta(t, 90.0, angle, eps, "弦切角")
	assert.InDelta(t, -1, tangent.Y, eps, "起点切线朝下")

	// 拱高 = bulge·弦长/2
	mid := BulgeMidpoint(p1, p2, 1)
	assert.InDelta(t, 5, mid.Dist2D(Point{X: 5}), eps)
	assertPoint(t, Point{X: 5, Y: -5}, mid)
	assert.InDelta(t, 0, ArcDistance(mid, arc), eps)
}

func TestBulge_Negative(t *testing.T) {
	arc, ok := BulgeArc(Point{}, Point{X: 10}, -0.5)
	require.True(t, ok)
	mid := BulgeMidpoint(Point{}, Point{X: 10}, -0.5)
	assert.InDelta(t, 2.5, mid.Y, eps)
	assert.InDelta(t, 0, ArcDistance(mid, arc), 1e-6)
	// 圆心在弦的下方
	assert.Less(t, arc.Center.Y, 0.0)

	_, ok = BulgeArc(Point{}, Point{X: 10}, 0)
	assert.False(t, ok)
}

func TestArc_Bounds(t *testing.T) {
	a := Arc{Center: Point{}, Radius: 2, Start: 0, End: math.Pi / 2}
	b := a.Bounds()
	assertPoint(t, Point{}, b.Min)
	assertPoint(t, Point{X: 2, Y: 2}, b.Max)

	// 跨越 0° 的圆弧
	a = Arc{Center: Point{}, Radius: 1, Start: 3 * math.Pi / 2, End: math.Pi / 2}
	b = a.Bounds()
	assert.InDelta(t, 1, b.Max.X, eps)
	assert.InDelta(t, 0, b.Min.X, eps)
}

func TestFlattenBulge(t *testing.T) {
	pts := FlattenBulge([]Point{{}, {X: 10}}, []float64{1}, false, 8)
	require.Len(t, pts, 9)
	assertPoint(t, Point{}, pts[0])
	assertPoint(t, Point{X: 10}, pts[8])
	assertPoint(t, Point{X: 5, Y: -5}, pts[4])
	for _, p := range pts {
		assert.InDelta(t, 5, p.Dist2D(Point{X: 5}), 1e-9)
	}
}

func TestEvalNURBS(t *testing.T) {
	ctrl := []Point{{}, {X: 1, Y: 2}, {X: 3, Y: 2}, {X: 4}}

	pts := EvalNURBS(ctrl, 3, nil, nil, 10)
	require.Len(t, pts, 11)
	// 开放均匀节点向量：曲线过首尾控制点
	assertPoint(t, ctrl[0], pts[0])
	assertPoint(t, ctrl[3], pts[10])
	// 三次 Bézier 在 t=0.5 处
	assertPoint(t, Point{X: 2, Y: 1.5}, pts[5])

	// 权重全为 1 与无权重一致
	weighted := EvalNURBS(ctrl, 3, []float64{0, 0, 0, 0, 1, 1, 1, 1}, []float64{1, 1, 1, 1}, 10)
	for i := range pts {
		assertPoint(t, pts[i], weighted[i])
	}
}

func TestEvalNURBS_RationalCircle(t *testing.T) {
	// 二次有理 B 样条表示的四分之一圆
	w := math.Sqrt2 / 2
	pts := EvalNURBS([]Point{{X: 1}, {X: 1, Y: 1}, {Y: 1}}, 2, []float64{0, 0, 0, 1, 1, 1}, []float64{1, w, 1}, 16)
	for _, p := range pts {
		assert.InDelta(t, 1, p.Len(), 1e-9)
	}
}

func TestEvalNURBS_Degenerate(t *testing.T) {
	ctrl := []Point{{}, {X: 1, Y: 1}}
	assert.Equal(t, ctrl, EvalNURBS(ctrl, 3, nil, nil, 0))
	assert.Equal(t, 16, SplineSteps(1))
	assert.Equal(t, 512, SplineSteps(1000))
}

func TestInsertMatrix(t *testing.T) {
	m := InsertMatrix(Point{X: 10, Y: 20}, Point{X: 2, Y: 3}, 90, Point{}, Point{X: 1, Y: 1})
	// (2,1) - base = (1,0) -> scale (2,0) -> rot90 (0,2) -> + pos
	assertPoint(t, Point{X: 10, Y: 22}, Apply(m, Point{X: 2, Y: 1}))

	inv, ok := Invert(m)
	require.True(t, ok)
	assertPoint(t, Point{X: 2, Y: 1}, Apply(inv, Point{X: 10, Y: 22}))
	assert.InDelta(t, math.Sqrt(6), ScaleFactor(m), eps)

	_, ok = Invert(matrix.Matrix{})
	assert.False(t, ok)
}

func TestApplyBBox(t *testing.T) {
	b := ApplyBBox(Rotate(45), BBox{Min: Point{}, Max: Point{X: 1, Y: 1}})
	assert.InDelta(t, -math.Sqrt2/2, b.Min.X, eps)
	assert.InDelta(t, math.Sqrt2/2, b.Max.X, eps)
	assert.InDelta(t, math.Sqrt2, b.Max.Y, eps)
	assert.True(t, ApplyBBox(Rotate(10), EmptyBBox()).IsEmpty())
}

func TestDistances(t *testing.T) {
	assert.InDelta(t, 1, SegmentDistance(Point{X: 5, Y: 1}, Point{}, Point{X: 10}), eps)
	assert.InDelta(t, 5, SegmentDistance(Point{X: -3, Y: 4}, Point{}, Point{X: 10}), eps)
	assert.InDelta(t, 5, RayDistance(Point{X: -3, Y: 4}, Point{}, Point{X: 1}, false), eps)
	assert.InDelta(t, 4, RayDistance(Point{X: -3, Y: 4}, Point{}, Point{X: 1}, true), eps)

	square := []Point{{}, {X: 4}, {X: 4, Y: 4}, {Y: 4}}
	assert.True(t, InPolygon(Point{X: 2, Y: 2}, square))
	assert.False(t, InPolygon(Point{X: 5, Y: 2}, square))
}

func TestBBox(t *testing.T) {
	b := EmptyBBox()
	assert.True(t, b.IsEmpty())
	assert.Equal(t, 0.0, b.Width())

	b = b.Extend(Point{X: 1, Y: 2}).Extend(Point{X: 3, Y: -2})
	assert.Equal(t, Point{X: 2, Y: 0}, b.Center())
	assert.Equal(t, 2.0, b.Width())
	assert.Equal(t, 4.0, b.Height())
	assert.True(t, b.Overlaps(BBox{Min: Point{X: 3, Y: 2}, Max: Point{X: 4, Y: 5}}))
	assert.False(t, b.Overlaps(BBox{Min: Point{X: 3.1}, Max: Point{X: 4}}))
	assert.False(t, b.Overlaps(EmptyBBox()))
	assert.Equal(t, b, b.Union(EmptyBBox()))
}
