package core

import (
	"math"
	"strconv"
	"strings"
)

// Tag 代表 DXF 中的一组标签对
type Tag struct {
	Code  int
	Value string
}

// AsFloat 将值转换为 float64
func (t Tag) AsFloat() float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(t.Value), 64)
	return f
}

// AsInt 将值转换为 int
func (t Tag) AsInt() int {
	s := strings.TrimSpace(t.Value)
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	// 部分软件会把整数写成 "1.0"
	f, _ := strconv.ParseFloat(s, 64)
	return int(f)
}

// AsHex 解析句柄类的十六进制值（组码 5、105、330 等）
func (t Tag) AsHex() uint64 {
	h, _ := strconv.ParseUint(strings.TrimSpace(t.Value), 16, 64)
	return h
}

// AsString 清洗字符串（去除多余空格）
func (t Tag) AsString() string {
	return strings.TrimSpace(t.Value)
}

// Is 判断是否为指定名称的 0 组码标记
func (t Tag) Is(marker string) bool {
	return t.Code == 0 && strings.EqualFold(strings.TrimSpace(t.Value), marker)
}

// Point 代表三维空间中的一个点
type Point struct {
	X, Y, Z float64
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y, p.Z + q.Z} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y, p.Z - q.Z} }

func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k, p.Z * k} }

func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y + p.Z*q.Z }

func (p Point) Cross(q Point) Point {
	return Point{
		X: p.Y*q.Z - p.Z*q.Y,
		Y: p.Z*q.X - p.X*q.Z,
		Z: p.X*q.Y - p.Y*q.X,
	}
}

func (p Point) Len() float64 { return math.Sqrt(p.Dot(p)) }

// Normalize 单位化，零向量原样返回
func (p Point) Normalize() Point {
	l := p.Len()
	if l == 0 {
		return p
	}
	return p.Mul(1 / l)
}

// Dist2D 平面距离
func (p Point) Dist2D(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// BBox 代表包围盒
type BBox struct {
	Min, Max Point
}

// EmptyBBox 空包围盒，扩展任意点后即为该点
func EmptyBBox() BBox {
	return BBox{
		Min: Point{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: Point{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
}

// PointBBox 由若干点构成的包围盒
func PointBBox(points ...Point) BBox {
	b := EmptyBBox()
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}

func (b BBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

func (b BBox) Extend(p Point) BBox {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Min.Z = math.Min(b.Min.Z, p.Z)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
	b.Max.Z = math.Max(b.Max.Z, p.Z)
	return b
}

func (b BBox) Union(o BBox) BBox {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// Grow 在 XY 平面四周外扩 d
func (b BBox) Grow(d float64) BBox {
	if b.IsEmpty() {
		return b
	}
	b.Min.X -= d
	b.Min.Y -= d
	b.Max.X += d
	b.Max.Y += d
	return b
}

func (b BBox) Translate(d Point) BBox {
	if b.IsEmpty() {
		return b
	}
	return BBox{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

func (b BBox) Center() Point {
	return Point{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2, Z: (b.Min.Z + b.Max.Z) / 2}
}

func (b BBox) Width() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Max.X - b.Min.X
}

func (b BBox) Height() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Max.Y - b.Min.Y
}

// Contains 判断点（XY 投影）是否在盒内
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Overlaps 两个包围盒（XY 投影）是否相交，相切也算
func (b BBox) Overlaps(o BBox) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return false
	}
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X && b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y
}
