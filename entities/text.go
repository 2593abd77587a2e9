package entities

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/zooyer/dxfview/core"
)

// 兜底字高与宽度系数
const (
	DefaultTextHeight  = 2.5
	DefaultWidthFactor = 1.0
)

// Text 覆盖 TEXT、MTEXT、ATTRIB、ATTDEF
type Text struct {
	BaseEntity
	Position    core.Point // 组码 10
	AlignPoint  core.Point // 组码 11（TEXT/ATTRIB 的对齐点）
	Direction   core.Point // 组码 11（MTEXT 的 X 轴方向，世界坐标）
	Height      float64    // 组码 40
	WidthFactor float64    // 组码 41（MTEXT 来自 \W 转义或样式）
	Rotation    float64    // 度
	Oblique     float64    // 组码 51
	Style       string     // 组码 7
	Text        string     // 组码 1（MTEXT 为 3 + 1 拼接）
	Tag         string     // 组码 2，属性标签
	Prompt      string     // 组码 3，ATTDEF 提示
	Flags       int        // 组码 70，属性标志
	Generation  int        // 组码 71（TEXT），2 反向 4 倒置
	HAlign      int        // 组码 72
	VAlign      int        // 组码 73（TEXT）或 74（ATTRIB/ATTDEF）
	Attachment  int        // 组码 71（MTEXT），1..9
	RefWidth    float64    // 组码 41（MTEXT），参考矩形宽度
	LineSpacing float64    // 组码 44（MTEXT），行距系数

	chunks       []string
	hasHeight    bool
	hasWidth     bool
	hasAlign     bool
	hasDirection bool
}

func init() {
	for _, name := range []string{"TEXT", "MTEXT", "ATTRIB", "ATTDEF"} {
		Register(name, func() Entity { return newText(name) })
	}
}

func newText(typeName string) *Text {
	return &Text{BaseEntity: newBase(typeName), LineSpacing: 1}
}

func (x *Text) Kind() Kind { return KindText }

// IsMText 多行文字
func (x *Text) IsMText() bool { return x.TypeName == "MTEXT" }

// IsAttribute 块属性或属性定义
func (x *Text) IsAttribute() bool { return x.TypeName == "ATTRIB" || x.TypeName == "ATTDEF" }

// HasAlignPoint 是否带有对齐点（组码 11）
func (x *Text) HasAlignPoint() bool { return x.hasAlign }

func (x *Text) Parse(s *core.Scanner) error {
	mtext := x.IsMText()
	parseLoop(s, &x.BaseEntity, func(t core.Tag) {
		switch t.Code {
		case 10:
			x.Position.X = t.AsFloat()
		case 20:
			x.Position.Y = t.AsFloat()
		case 30:
			x.Position.Z = t.AsFloat()
		case 11, 21, 31:
			p := &x.AlignPoint
			if mtext {
				p = &x.Direction
				x.hasDirection = true
			} else {
				x.hasAlign = true
			}
			switch t.Code {
			case 11:
				p.X = t.AsFloat()
			case 21:
				p.Y = t.AsFloat()
			default:
				p.Z = t.AsFloat()
			}
		case 40:
			x.Height, x.hasHeight = t.AsFloat(), true
		case 41:
			if mtext {
				x.RefWidth = t.AsFloat()
			} else {
				x.WidthFactor, x.hasWidth = t.AsFloat(), true
			}
		case 44:
			if mtext {
				x.LineSpacing = t.AsFloat()
			}
		case 50:
			x.Rotation = t.AsFloat()
			if mtext {
				// MTEXT 的旋转角是弧度
				x.Rotation *= 180.0 / math.Pi
			}
		case 51:
			x.Oblique = t.AsFloat()
		case 7:
			x.Style = t.AsString()
		case 1:
			x.Text = t.Value
		case 2:
			x.Tag = t.AsString()
		case 3:
			if mtext {
				x.chunks = append(x.chunks, t.Value)
			} else {
				x.Prompt = t.Value
			}
		case 70:
			x.Flags = t.AsInt()
		case 71:
			if mtext {
				x.Attachment = t.AsInt()
			} else {
				x.Generation = t.AsInt()
			}
		case 72:
			x.HAlign = t.AsInt()
		case 73:
			if x.TypeName == "TEXT" {
				x.VAlign = t.AsInt()
			}
		case 74:
			if x.IsAttribute() {
				x.VAlign = t.AsInt()
			}
		}
	})

	if len(x.chunks) > 0 {
		x.Text = strings.Join(x.chunks, "") + x.Text
		x.chunks = nil
	}
	if mtext {
		if x.Attachment < 1 || x.Attachment > 9 {
			x.Attachment = 1
		}
		if x.hasDirection && (x.Direction.X != 0 || x.Direction.Y != 0) {
			x.Rotation = math.Atan2(x.Direction.Y, x.Direction.X) * 180.0 / math.Pi
		}
	}
	// 属性标志第 1 位：不可见
	if x.IsAttribute() && x.Flags&1 != 0 {
		x.Visible = false
	}
	return nil
}

var (
	reWidthEscape  = regexp.MustCompile(`\\W(-?[0-9]*\.?[0-9]+);`)
	reHeightEscape = regexp.MustCompile(`\\H([0-9]*\.?[0-9]+)(x?);`)
)

// ApplyStyle 按 显式组码 → 内嵌转义 → 样式默认值 → 固定兜底 的顺序确定字高与宽度系数
func (x *Text) ApplyStyle(styleHeight, styleWidth float64) {
	base := styleHeight
	if base <= 0 {
		base = DefaultTextHeight
	}

	if !x.hasHeight || x.Height <= 0 {
		switch h, rel, ok := x.escapeHeight(); {
		case ok && rel:
			x.Height = base * h
		case ok:
			x.Height = h
		default:
			x.Height = base
		}
		x.hasHeight = true
	}

	if !x.hasWidth || x.WidthFactor == 0 {
		switch w, ok := x.escapeWidth(); {
		case ok && w != 0:
			x.WidthFactor = w
		case styleWidth > 0:
			x.WidthFactor = styleWidth
		default:
			x.WidthFactor = DefaultWidthFactor
		}
		x.hasWidth = true
	}
}

func (x *Text) escapeWidth() (float64, bool) {
	if !x.IsMText() {
		return 0, false
	}
	m := reWidthEscape.FindStringSubmatch(x.Text)
	if m == nil {
		return 0, false
	}
	w, err := strconv.ParseFloat(m[1], 64)
	return w, err == nil
}

func (x *Text) escapeHeight() (h float64, relative, ok bool) {
	if !x.IsMText() {
		return 0, false, false
	}
	m := reHeightEscape.FindStringSubmatch(x.Text)
	if m == nil {
		return 0, false, false
	}
	h, err := strconv.ParseFloat(m[1], 64)
	if err != nil || h <= 0 {
		return 0, false, false
	}
	return h, m[2] == "x", true
}

var (
	reStacked   = regexp.MustCompile(`\\S([^^/#;]*)[\^/#]([^;]*);`)
	reFormat    = regexp.MustCompile(`\\[ACFHQTWacfhqtwp][^;]*;`)
	reToggle    = regexp.MustCompile(`\\[LlOoKkNn]`)
	reSpecial   = regexp.MustCompile(`%%[cCdDpP]`)
	reUnderline = regexp.MustCompile(`%%[uUoOkK]`)
)

// PlainText 去掉格式代码后的纯文本，MTEXT 的 \P 转为换行
func (x *Text) PlainText() string {
	s := x.Text
	s = reSpecial.ReplaceAllString(s, "#")
	s = reUnderline.ReplaceAllString(s, "")
	if !x.IsMText() {
		return s
	}

	s = strings.ReplaceAll(s, `\\`, "\x00")
	s = strings.ReplaceAll(s, `\P`, "\n")
	s = strings.ReplaceAll(s, `\~`, " ")
	s = reStacked.ReplaceAllString(s, "$1/$2")
	s = reFormat.ReplaceAllString(s, "")
	s = reToggle.ReplaceAllString(s, "")
	s = strings.NewReplacer(`\{`, "\x01", `\}`, "\x02").Replace(s)
	s = strings.NewReplacer("{", "", "}", "").Replace(s)
	s = strings.NewReplacer("\x00", `\`, "\x01", "{", "\x02", "}").Replace(s)
	return s
}

// Lines 按行拆分的纯文本
func (x *Text) Lines() []string {
	return strings.Split(x.PlainText(), "\n")
}
