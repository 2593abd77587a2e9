package entities

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zooyer/dxfview/core"
)

const eps = 1e-9

// dxf 把 组码、值 交替的参数拼成 DXF 文本
func dxf(pairs ...string) string {
	var sb strings.Builder
	for _, p := range pairs {
		sb.WriteString(p)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// parseOne 从文本中解析第一个实体，返回实体和停住的扫描器
func parseOne(t *testing.T, src string) (Entity, *core.Scanner) {
	t.Helper()
	s := core.NewScanner(strings.NewReader(src))
	require.True(t, s.Next(), "读取实体头失败")
	e := CreateEntity(s.LastTag.Value)
	require.NotNil(t, e, "未注册的实体: %s", s.LastTag.Value)
	require.NoError(t, e.Parse(s))
	return e, s
}

func TestCreateEntity(t *testing.T) {
	assert.Nil(t, CreateEntity("WIPEOUT"))
	e := CreateEntity(" line ")
	require.NotNil(t, e)
	assert.Equal(t, KindLine, e.Kind())
	assert.Equal(t, "0", e.Layer())
	assert.Equal(t, ColorByLayer, e.Base().ColorIndex)
	assert.Equal(t, core.WorldZ, e.Base().Extrusion)
	assert.Equal(t, "POLYLINE", CreateEntity("LWPOLYLINE").Kind().String())
}

func TestLine_Parse(t *testing.T) {
	e, s := parseOne(t, dxf(
		"0", "LINE",
		"5", "1F",
		"8", "WALL",
		"62", "1",
		"420", "16711680",
		"60", "1",
		"10", "1", "20", "2", "30", "0",
		"11", "4", "21", "6", "31", "0",
		"0", "CIRCLE",
	))
	l := e.(*Line)
	assert.Equal(t, "1F", l.Handle)
	assert.Equal(t, "WALL", l.Layer())
	assert.Equal(t, 1, l.ColorIndex)
	assert.Equal(t, 0xFF0000, l.TrueColor)
	assert.False(t, l.Visible)
	assert.Equal(t, core.Point{X: 1, Y: 2}, l.Start)
	assert.Equal(t, core.Point{X: 4, Y: 6}, l.End)
	// 停在下一个实体头上
	assert.True(t, s.LastTag.Is("CIRCLE"))
}

func TestPolyline_LW(t *testing.T) {
	e, _ := parseOne(t, dxf(
		"0", "LWPOLYLINE",
		"90", "3",
		"70", "1",
		"38", "5",
		"10", "0", "20", "0", "42", "1",
		"10", "10", "20", "0",
		"10", "10", "20", "10", "40", "0.5", "41", "1",
		"0", "ENDSEC",
	))
	p := e.(*Polyline)
	require.Len(t, p.Vertices, 3)
	assert.True(t, p.Closed())
	assert.False(t, p.Is3D())
	assert.Equal(t, []float64{1, 0, 0}, p.Bulges())
	assert.Equal(t, 0.5, p.Vertices[2].StartWidth)
	for _, v := range p.Vertices {
		assert.Equal(t, 5.0, v.Z)
	}
}

func TestPolyline_Heavy(t *testing.T) {
	e, s := parseOne(t, dxf(
		"0", "POLYLINE",
		"8", "P",
		"66", "1",
		"70", "1",
		"0", "VERTEX", "8", "P", "10", "0", "20", "0", "42", "0.5",
		"0", "VERTEX", "8", "P", "10", "5", "20", "0",
		"0", "VERTEX", "8", "P", "10", "9", "20", "9", "70", "16",
		"0", "SEQEND", "8", "P",
		"0", "LINE",
	))
	p := e.(*Polyline)
	require.Len(t, p.Vertices, 2, "样条框架点应被跳过")
	assert.Equal(t, 0.5, p.Vertices[0].Bulge)
	assert.True(t, p.Closed())
	assert.True(t, s.LastTag.Is("LINE"))
}

func TestText_Parse(t *testing.T) {
	e, _ := parseOne(t, dxf(
		"0", "TEXT",
		"10", "1", "20", "2", "30", "0",
		"40", "3",
		"1", "Hello",
		"50", "45",
		"7", "ROMANS",
		"72", "1",
		"11", "5", "21", "2", "31", "0",
		"73", "2",
		"0", "EOF",
	))
	x := e.(*Text)
	assert.Equal(t, KindText, x.Kind())
	assert.Equal(t, 3.0, x.Height)
	assert.Equal(t, 45.0, x.Rotation)
	assert.Equal(t, "Hello", x.Text)
	assert.True(t, x.HasAlignPoint())
	assert.Equal(t, core.Point{X: 5, Y: 2}, x.AlignPoint)
	assert.Equal(t, 1, x.HAlign)
	assert.Equal(t, 2, x.VAlign)

	// 样式宽度系数补位，字高为显式值
	x.ApplyStyle(0, 0.8)
	assert.Equal(t, 3.0, x.Height)
	assert.Equal(t, 0.8, x.WidthFactor)
}

func TestText_MTextPrecedence(t *testing.T) {
	src := dxf(
		"0", "MTEXT",
		"10", "0", "20", "0",
		"71", "5",
		"3", "ab",
		"1", `\W0.8;\H3.5;cd\Pef`,
		"11", "0", "21", "1", "31", "0",
		"0", "EOF",
	)
	e, _ := parseOne(t, src)
	x := e.(*Text)
	assert.True(t, x.IsMText())
	assert.Equal(t, 5, x.Attachment)
	assert.InDelta(t, 90, x.Rotation, eps)
	assert.Equal(t, "abcd\nef", x.PlainText())
	assert.Equal(t, []string{"abcd", "ef"}, x.Lines())

	// 无显式组码：转义优先于样式
	x.ApplyStyle(5, 0.9)
	assert.Equal(t, 3.5, x.Height)
	assert.Equal(t, 0.8, x.WidthFactor)

	// 显式组码优先于转义
	e, _ = parseOne(t, strings.Replace(src, "71\n5\n", "71\n5\n40\n2\n", 1))
	x = e.(*Text)
	x.ApplyStyle(5, 0.9)
	assert.Equal(t, 2.0, x.Height)

	// 相对字高以样式字高为基准
	e, _ = parseOne(t, dxf("0", "MTEXT", "1", `\H2x;abc`, "0", "EOF"))
	x = e.(*Text)
	x.ApplyStyle(1.5, 0)
	assert.Equal(t, 3.0, x.Height)
	assert.Equal(t, DefaultWidthFactor, x.WidthFactor)
	assert.Equal(t, 1, x.Attachment, "缺省附着点")
}

func TestText_Fallback(t *testing.T) {
	e, _ := parseOne(t, dxf("0", "TEXT", "1", "%%c50", "0", "EOF"))
	x := e.(*Text)
	x.ApplyStyle(0, 0)
	assert.Equal(t, DefaultTextHeight, x.Height)
	assert.Equal(t, DefaultWidthFactor, x.WidthFactor)
	assert.Equal(t, "#50", x.PlainText())
}

func TestInsert_Attributes(t *testing.T) {
	e, s := parseOne(t, dxf(
		"0", "INSERT",
		"66", "1",
		"2", "Door",
		"10", "10", "20", "20",
		"50", "90",
		"70", "2", "44", "5",
		"0", "ATTRIB", "2", "NO", "1", "D-01", "10", "10", "20", "20",
		"0", "ATTRIB", "2", "HIDDEN", "1", "x", "70", "1",
		"0", "SEQEND",
		"0", "LINE",
	))
	ins := e.(*Insert)
	assert.Equal(t, "DOOR", ins.Block())
	assert.Equal(t, core.Point{X: 1, Y: 1, Z: 1}, ins.Scale)
	assert.Equal(t, 2, ins.ColumnCount)
	assert.Equal(t, 1, ins.RowCount)
	assert.Equal(t, 5.0, ins.ColumnSpacing)
	require.Len(t, ins.Attributes, 2)
	assert.Equal(t, "NO", ins.Attributes[0].Tag)
	assert.Equal(t, "D-01", ins.Attributes[0].Text)
	assert.True(t, ins.Attributes[0].Visible)
	assert.False(t, ins.Attributes[1].Visible, "标志位 1 为不可见属性")
	assert.True(t, s.LastTag.Is("LINE"))
}

func TestHatch_Parse(t *testing.T) {
	e, s := parseOne(t, dxf(
		"0", "HATCH",
		"8", "H",
		"10", "0", "20", "0", "30", "0",
		"210", "0", "220", "0", "230", "1",
		"2", "SOLID",
		"70", "1",
		"71", "0",
		"91", "2",
		"92", "2",
		"72", "1",
		"73", "1",
		"93", "3",
		"10", "0", "20", "0", "42", "0",
		"10", "10", "20", "0", "42", "0",
		"10", "10", "20", "10", "42", "0",
		"97", "0",
		"92", "1",
		"93", "2",
		"72", "1", "10", "0", "20", "0", "11", "10", "21", "0",
		"72", "2", "10", "5", "20", "0", "40", "5", "50", "0", "51", "180", "73", "1",
		"97", "1",
		"330", "2A",
		"75", "0",
		"76", "1",
		"98", "1",
		"10", "5", "20", "5",
		"0", "ENDSEC",
	))
	h := e.(*Hatch)
	assert.Equal(t, "SOLID", h.Pattern)
	assert.True(t, h.Solid)
	require.Len(t, h.Loops, 2)

	poly := h.Loops[0]
	assert.True(t, poly.Polyline)
	assert.True(t, poly.Closed)
	assert.Len(t, poly.Vertices, 3)

	edges := h.Loops[1]
	require.Len(t, edges.Edges, 2)
	assert.Equal(t, EdgeLine, edges.Edges[0].Type)
	assert.Equal(t, core.Point{X: 10}, edges.Edges[0].End)
	arc := edges.Edges[1]
	assert.Equal(t, EdgeArc, arc.Type)
	assert.Equal(t, 5.0, arc.Radius)
	assert.Equal(t, 180.0, arc.EndAngle)
	assert.True(t, arc.CCW)
	assert.Equal(t, 1, edges.Sources)

	assert.Equal(t, 1, h.PatternType)
	assert.Equal(t, []core.Point{{X: 5, Y: 5}}, h.Seeds)
	assert.True(t, s.LastTag.Is("ENDSEC"))

	pts := edges.Segments(4)
	require.Len(t, pts, 2+5)
	assert.InDelta(t, 5, pts[4].Y, eps, "半圆顶点")
}

func TestHatch_UnknownEdge(t *testing.T) {
	e, s := parseOne(t, dxf(
		"0", "HATCH",
		"10", "0", "20", "0", "30", "7",
		"2", "ANSI31",
		"91", "2",
		"92", "1",
		"93", "2",
		"72", "1", "10", "0", "20", "0", "11", "10", "21", "0",
		"72", "9", "10", "3", "20", "4", "11", "6", "21", "8",
		"97", "0",
		"92", "1",
		"93", "1",
		"72", "1", "10", "0", "20", "0", "11", "0", "21", "10",
		"97", "0",
		"75", "1",
		"76", "1",
		"52", "45",
		"41", "2",
		"0", "ENDSEC",
	))
	h := e.(*Hatch)

	// 未知边类型后面的坐标不能当成标高
	assert.Equal(t, core.Point{Z: 7}, h.Elevation)
	require.Len(t, h.Loops, 2, "跳过残缺的边后继续读下一个环")
	assert.Len(t, h.Loops[0].Edges, 1)
	require.Len(t, h.Loops[1].Edges, 1)
	assert.Equal(t, core.Point{Y: 10}, h.Loops[1].Edges[0].End)

	assert.Equal(t, 1, h.Style)
	assert.Equal(t, 45.0, h.PatternAngle)
	assert.Equal(t, 2.0, h.PatternScale)
	assert.Empty(t, h.Seeds)
	assert.True(t, s.LastTag.Is("ENDSEC"))
}

func TestHatch_ClockwiseArcEdge(t *testing.T) {
	e := HatchEdge{Type: EdgeArc, Radius: 1, StartAngle: 0, EndAngle: 90, CCW: false}
	pts := e.Points(2)
	require.Len(t, pts, 3)
	// 顺时针从 0° 到 -90°
	assert.InDelta(t, 1, pts[0].X, eps)
	assert.InDelta(t, 0, pts[0].Y, eps)
	assert.InDelta(t, -1, pts[2].Y, eps)
}

func TestSolid_ThreeCorners(t *testing.T) {
	e, _ := parseOne(t, dxf(
		"0", "SOLID",
		"10", "0", "20", "0",
		"11", "1", "21", "0",
		"12", "0", "22", "1",
		"0", "EOF",
	))
	so := e.(*Solid)
	assert.Equal(t, so.Corners[2], so.Corners[3])
	assert.Len(t, so.Outline(), 4)
}

func TestSpline_Parse(t *testing.T) {
	e, _ := parseOne(t, dxf(
		"0", "SPLINE",
		"71", "2",
		"10", "0", "20", "0",
		"10", "1", "20", "2",
		"10", "2", "20", "0",
		"0", "EOF",
	))
	sp := e.(*Spline)
	require.Len(t, sp.ControlPoints, 3)
	pts := sp.Points(0)
	require.NotEmpty(t, pts)
	assert.InDelta(t, 0, pts[0].X, eps)
	assert.InDelta(t, 2, pts[len(pts)-1].X, eps)
}

func TestDimension_Parse(t *testing.T) {
	e, _ := parseOne(t, dxf(
		"0", "DIMENSION",
		"2", "*d12",
		"3", "iso-25",
		"70", "33",
		"1", `\A1;12.5`,
		"10", "0", "20", "5",
		"11", "5", "21", "6",
		"13", "0", "23", "0",
		"14", "10", "24", "0",
		"0", "EOF",
	))
	d := e.(*Dimension)
	assert.Equal(t, "*D12", d.Block())
	assert.Equal(t, "ISO-25", d.StyleName)
	assert.Equal(t, 1, d.DimType)
	assert.Equal(t, 12.5, d.GetCleanVal())
	assert.Equal(t, core.Point{X: 10}, d.MeasureEnd)

	b := d.BBox2(1)
	assert.InDelta(t, 0, b.Min.Y, eps)
	assert.InDelta(t, 6, b.Max.Y, eps)
}

func TestNormalize_World(t *testing.T) {
	c := &Circle{BaseEntity: newBase("CIRCLE"), Center: core.Point{X: 3, Y: 4}, Radius: 2}
	before := *c
	Normalize(c)
	if diff := cmp.Diff(before, *c); diff != "" {
		t.Errorf("默认拉伸方向不应改变实体 (-want +got):\n%s", diff)
	}
}

func TestNormalize_Mirrored(t *testing.T) {
	mirror := core.Point{Z: -1}

	arc := &Arc{BaseEntity: newBase("ARC"), Center: core.Point{X: 5, Y: 5}, Radius: 1, EndAngle: 90}
	arc.Extrusion = mirror
	Normalize(arc)
	assert.InDelta(t, -5, arc.Center.X, eps)
	assert.InDelta(t, 5, arc.Center.Y, eps)
	assert.InDelta(t, 90, arc.StartAngle, eps)
	assert.InDelta(t, 180, arc.EndAngle, eps)

	el := &Ellipse{BaseEntity: newBase("ELLIPSE"), MajorAxis: core.Point{X: 2}, Ratio: 0.5, EndParam: math.Pi / 2}
	el.Extrusion = mirror
	Normalize(el)
	assert.InDelta(t, -math.Pi/2, el.StartParam, eps)
	assert.InDelta(t, 0, el.EndParam, eps)

	x := newText("TEXT")
	x.Extrusion = mirror
	x.Position = core.Point{X: 1, Y: 2}
	x.Rotation = 30
	x.WidthFactor = 1
	Normalize(x)
	assert.InDelta(t, -1, x.Position.X, eps)
	assert.InDelta(t, 330, x.Rotation, eps)
	assert.Equal(t, -1.0, x.WidthFactor)

	p := &Polyline{BaseEntity: newBase("LWPOLYLINE"), Vertices: []Vertex{
		{Point: core.Point{X: 1}, Bulge: 0.5},
		{Point: core.Point{X: 2}},
	}}
	p.Extrusion = mirror
	Normalize(p)
	assert.InDelta(t, -1, p.Vertices[0].X, eps)
	assert.Equal(t, -0.5, p.Vertices[0].Bulge)

	ins := &Insert{BaseEntity: newBase("INSERT"), Scale: core.Point{X: 1, Y: 1, Z: 1}, InsertionPoint: core.Point{X: 4}}
	ins.Extrusion = mirror
	Normalize(ins)
	assert.InDelta(t, -4, ins.InsertionPoint.X, eps)
	assert.Equal(t, -1.0, ins.Scale.X)
	assert.InDelta(t, 360, ins.Rotation, eps)

	// MTEXT 本身就是世界坐标
	m := newText("MTEXT")
	m.Extrusion = mirror
	m.Position = core.Point{X: 1}
	Normalize(m)
	assert.Equal(t, 1.0, m.Position.X)
}

func TestNormalize_MirroredHatchArc(t *testing.T) {
	h := &Hatch{BaseEntity: newBase("HATCH"), Loops: []HatchLoop{{
		Edges: []HatchEdge{{Type: EdgeArc, Radius: 1, StartAngle: 0, EndAngle: 90, CCW: true}},
	}}}
	h.Extrusion = core.Point{Z: -1}
	Normalize(h)
	pts := h.Loops[0].Edges[0].Points(2)
	// 镜像后从 (-1,0) 顺时针到 (0,1)
	assert.InDelta(t, -1, pts[0].X, eps)
	assert.InDelta(t, 0, pts[0].Y, eps)
	assert.InDelta(t, 0, pts[2].X, eps)
	assert.InDelta(t, 1, pts[2].Y, eps)
}

func TestTranslate(t *testing.T) {
	d := core.Point{X: 5, Y: 3.5}

	l := &Line{BaseEntity: newBase("LINE"), End: core.Point{X: 10}}
	box := Extents(l, nil)
	l.Extents = &box
	Translate(l, d)
	assert.Equal(t, core.Point{X: -5, Y: -3.5}, l.Start)
	assert.Equal(t, core.Point{X: 5, Y: -3.5}, l.End)
	assert.Equal(t, core.Point{X: -5, Y: -3.5}, l.Extents.Min)

	dim := &Dimension{BaseEntity: newBase("DIMENSION")}
	Translate(dim, d)
	assert.Equal(t, core.Point{X: -5, Y: -3.5}, dim.Origin)

	ins := &Insert{BaseEntity: newBase("INSERT"), Attributes: []*Text{newText("ATTRIB")}}
	Translate(ins, d)
	assert.Equal(t, core.Point{X: -5, Y: -3.5}, ins.Attributes[0].Position)

	// 方向向量不随偏移变化
	r := &Ray{BaseEntity: newBase("RAY"), Direction: core.Point{X: 1}}
	Translate(r, d)
	assert.Equal(t, core.Point{X: 1}, r.Direction)
}

func TestExtents(t *testing.T) {
	c := &Circle{BaseEntity: newBase("CIRCLE"), Center: core.Point{X: 5, Y: 5}, Radius: 2}
	assert.Equal(t, core.BBox{Min: core.Point{X: 3, Y: 3}, Max: core.Point{X: 7, Y: 7}}, Extents(c, nil))

	a := &Arc{BaseEntity: newBase("ARC"), Radius: 1, EndAngle: 90}
	b := Extents(a, nil)
	assert.InDelta(t, 0, b.Min.X, eps)
	assert.InDelta(t, 1, b.Max.X, eps)
	assert.InDelta(t, 1, b.Max.Y, eps)

	r := &Ray{BaseEntity: newBase("XLINE"), BasePoint: core.Point{X: 2, Y: 2}, Direction: core.Point{X: 1}}
	assert.Equal(t, core.PointBBox(core.Point{X: 2, Y: 2}), Extents(r, nil))

	empty := &Polyline{BaseEntity: newBase("LWPOLYLINE")}
	assert.True(t, Extents(empty, nil).IsEmpty())

	// 凸度为 1 的半圆向弦的右侧鼓出
	arc := &Polyline{BaseEntity: newBase("LWPOLYLINE"), Vertices: []Vertex{
		{Point: core.Point{}, Bulge: 1},
		{Point: core.Point{X: 10}},
	}}
	b = Extents(arc, nil)
	assert.InDelta(t, 0, b.Min.X, eps)
	assert.InDelta(t, 10, b.Max.X, eps)
	assert.InDelta(t, -5, b.Min.Y, eps, "包含圆弧最低点")
	assert.InDelta(t, 0, b.Max.Y, eps)

	// 闭合段的凸度在最后一个顶点上
	closed := &Polyline{BaseEntity: newBase("LWPOLYLINE"), Flags: 1, Vertices: []Vertex{
		{Point: core.Point{}},
		{Point: core.Point{X: 10}, Bulge: 1},
	}}
	b = Extents(closed, nil)
	assert.InDelta(t, 5, b.Max.Y, eps, "闭合段圆弧")
}

func TestTextBox(t *testing.T) {
	x := newText("TEXT")
	x.Text, x.Height, x.WidthFactor = "AB", 1, 1

	b := TextBox(x, nil)
	assert.InDelta(t, 0, b.Min.X, eps)
	assert.InDelta(t, 1.4, b.Max.X, eps)
	assert.InDelta(t, 1, b.Max.Y, eps)

	x.Rotation = 90
	b = TextBox(x, nil)
	assert.InDelta(t, -1, b.Min.X, eps)
	assert.InDelta(t, 1.4, b.Max.Y, eps)

	// 居中对齐以对齐点为锚点
	x.Rotation = 0
	x.HAlign, x.AlignPoint, x.hasAlign = 1, core.Point{X: 10}, true
	b = TextBox(x, nil)
	assert.InDelta(t, 9.3, b.Min.X, eps)
	assert.InDelta(t, 10.7, b.Max.X, eps)

	// MTEXT 中心附着
	m := newText("MTEXT")
	m.Text, m.Height, m.WidthFactor, m.Attachment = "中文", 1, 1, 5
	b = TextBox(m, nil)
	assert.InDelta(t, -1, b.Min.X, eps)
	assert.InDelta(t, 1, b.Max.X, eps)
	assert.InDelta(t, -0.5, b.Min.Y, eps)
}
