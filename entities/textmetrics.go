package entities

import (
	"math"
	"unicode"

	"github.com/zooyer/dxfview/core"
)

// TextMetrics 文字尺寸估算策略，返回未旋转时的宽和高
type TextMetrics interface {
	Size(t *Text) (width, height float64)
}

// HeuristicMetrics 按字符数估算：每个字符宽 CharWidth·字高，全角字符按 WideWidth 计
type HeuristicMetrics struct {
	CharWidth   float64
	WideWidth   float64
	LineSpacing float64 // 行距与字高之比
}

// DefaultMetrics 默认的启发式估算
var DefaultMetrics TextMetrics = HeuristicMetrics{CharWidth: 0.7, WideWidth: 1.0, LineSpacing: 1.667}

func (m HeuristicMetrics) Size(t *Text) (width, height float64) {
	h := t.Height
	if h <= 0 {
		h = DefaultTextHeight
	}
	wf := math.Abs(t.WidthFactor)
	if wf == 0 {
		wf = DefaultWidthFactor
	}

	lines := t.Lines()
	n := 0
	for _, line := range lines {
		w := m.lineWidth(line) * h * wf
		rows := 1
		// MTEXT 超出参考宽度时自动换行
		if t.IsMText() && t.RefWidth > 0 && w > t.RefWidth {
			rows = int(math.Ceil(w / t.RefWidth))
			w = t.RefWidth
		}
		width = math.Max(width, w)
		n += rows
	}

	spacing := m.LineSpacing
	if t.IsMText() && t.LineSpacing > 0 {
		spacing *= t.LineSpacing
	}
	height = h + float64(n-1)*h*spacing
	return width, height
}

func (m HeuristicMetrics) lineWidth(s string) float64 {
	var units float64
	for _, r := range s {
		if isWide(r) {
			units += m.WideWidth
		} else {
			units += m.CharWidth
		}
	}
	return units
}

func isWide(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) ||
		(r >= 0xFF00 && r <= 0xFFEF)
}

// TextBox 文字在世界坐标下的包围盒：按对齐方式定位，按旋转角旋转
func TextBox(t *Text, m TextMetrics) core.BBox {
	if m == nil {
		m = DefaultMetrics
	}
	w, h := m.Size(t)
	anchor := t.Position

	var x0, y0 float64
	if t.IsMText() {
		col, row := (t.Attachment-1)%3, (t.Attachment-1)/3
		x0 = -w * float64(col) / 2
		switch row {
		case 0:
			y0 = -h
		case 1:
			y0 = -h / 2
		}
	} else if t.HAlign != 0 || t.VAlign != 0 {
		if t.hasAlign {
			anchor = t.AlignPoint
		}
		switch t.HAlign {
		case 1:
			x0 = -w / 2
		case 2:
			x0 = -w
		case 3, 5:
			// 两端对齐/布满：文字铺满第一对齐点到第二对齐点
			if t.hasAlign {
				anchor = t.Position
				w = t.Position.Dist2D(t.AlignPoint)
			}
		case 4:
			x0, y0 = -w/2, -h/2
		}
		switch t.VAlign {
		case 2:
			y0 = -h / 2
		case 3:
			y0 = -h
		}
	}

	x1, y1 := x0+w, y0+h
	// 反向或宽度系数为负时左右翻转，倒置时上下翻转
	if t.Generation&2 != 0 || t.WidthFactor < 0 {
		x0, x1 = -x1, -x0
	}
	if t.Generation&4 != 0 {
		y0, y1 = -y1, -y0
	}

	rad := t.Rotation * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)
	corner := func(x, y float64) core.Point {
		return core.Point{
			X: anchor.X + x*cos - y*sin,
			Y: anchor.Y + x*sin + y*cos,
			Z: anchor.Z,
		}
	}
	return core.PointBBox(corner(x0, y0), corner(x1, y0), corner(x1, y1), corner(x0, y1))
}
