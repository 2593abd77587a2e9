package entities

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/zooyer/dxfview/core"
)

type Dimension struct {
	BaseEntity
	BlockName         string     // 组码 2 (标注几何所在的匿名块 *D)
	DimType           int        // 组码 70 (关键：区分标注类型)
	StyleName         string     // 组码 3 (标注样式名称，用于关联 TABLES)
	ActualMeasurement float64    // 组码 42
	Text              string     // 组码 1
	Angle             float64    // 组码 50
	TextMidPoint      core.Point // 组码 11 (中间的点，OCS)
	DefPoint          core.Point // 组码 10 (标注线起点)
	MeasureStart      core.Point // 组码 13 (被测量的起点)
	MeasureEnd        core.Point // 组码 14 (被测量的终点)
	DefPoint2         core.Point // 组码 15 (半径/角度标注的定义点)
	ArcPoint          core.Point // 组码 16 (角度标注的圆弧点，OCS)

	// Origin 匿名块的插入点，解析时为原点，全局偏移时随几何一起平移
	Origin core.Point
}

func init() {
	Register("DIMENSION", func() Entity {
		return &Dimension{BaseEntity: newBase("DIMENSION")}
	})
}

func (d *Dimension) Kind() Kind { return KindDimension }

func (d *Dimension) Block() string { return strings.ToUpper(d.BlockName) }

func (d *Dimension) Parse(scanner *core.Scanner) error {
	parseLoop(scanner, &d.BaseEntity, func(tag core.Tag) {
		switch tag.Code {
		case 2:
			d.BlockName = tag.AsString()
		case 3:
			// 核心：读取标注样式名称
			d.StyleName = strings.ToUpper(tag.AsString())
		case 1:
			d.Text = tag.AsString()
		case 42:
			d.ActualMeasurement = tag.AsFloat()
		case 50:
			d.Angle = tag.AsFloat()
		case 70:
			// 组码 70 包含了很多信息，我们只需要低 3 位来判定类型
			d.DimType = tag.AsInt() & 0x07
		default:
			d.parsePoint(tag)
		}
	})
	return nil
}

func (d *Dimension) parsePoint(tag core.Tag) {
	var p *core.Point
	switch tag.Code % 10 {
	case 0:
		p = &d.DefPoint
	case 1:
		p = &d.TextMidPoint
	case 3:
		p = &d.MeasureStart
	case 4:
		p = &d.MeasureEnd
	case 5:
		p = &d.DefPoint2
	case 6:
		p = &d.ArcPoint
	default:
		return
	}
	switch tag.Code / 10 {
	case 1:
		p.X = tag.AsFloat()
	case 2:
		p.Y = tag.AsFloat()
	case 3:
		p.Z = tag.AsFloat()
	}
}

// GetExtensionPoints 计算标注线上的两个转角点
// 返回：对应 P13 的转角点, 对应 P14 的转角点
func (d *Dimension) GetExtensionPoints() (p13Corner, p14Corner core.Point) {
	rad := d.Angle * math.Pi / 180.0
	v := core.Point{X: math.Cos(rad), Y: math.Sin(rad)}

	// 测量点在标注线方向上的投影
	project := func(p core.Point) core.Point {
		dot := (p.X-d.DefPoint.X)*v.X + (p.Y-d.DefPoint.Y)*v.Y
		return core.Point{X: d.DefPoint.X + v.X*dot, Y: d.DefPoint.Y + v.Y*dot}
	}

	return project(d.MeasureStart), project(d.MeasureEnd)
}

// BBox2 实现“完美矩形”包围盒
// exe 代表标注线超出延伸线的长度 (DIMEXE)
func (d *Dimension) BBox2(exe float64) core.BBox {
	// 1. 获取基础的转角投影点 (标注线上的两个端点)
	c13, c14 := d.GetExtensionPoints()

	// 2. 延伸线方向垂直于标注线
	upRad := (d.Angle + 90.0) * math.Pi / 180.0
	u := core.Point{X: math.Cos(upRad), Y: math.Sin(upRad)}

	// 3. 通过向量 (c13 - MeasureStart) 与 u 的点积判定“冒尖”的方向
	dot := (c13.X-d.MeasureStart.X)*u.X + (c13.Y-d.MeasureStart.Y)*u.Y
	direction := 1.0
	if dot < 0 {
		direction = -1.0
	}

	push := u.Mul(exe * direction)

	// 4. 2个测量原点 + 2个冒尖的顶点 + 文字位置
	return core.PointBBox(
		d.MeasureStart,
		d.MeasureEnd,
		c13.Add(push),
		c14.Add(push),
		d.TextMidPoint,
	)
}

var (
	reDimFormat = regexp.MustCompile(`\\[A-Z].*?;`)
	reDimNumber = regexp.MustCompile(`[0-9.]+`)
)

// GetCleanVal 正则提取数值
func (d *Dimension) GetCleanVal() float64 {
	val := d.ActualMeasurement
	if val <= 0 && d.Text != "" {
		cleanText := reDimFormat.ReplaceAllString(d.Text, "")
		if match := reDimNumber.FindString(cleanText); match != "" {
			parsed, _ := strconv.ParseFloat(match, 64)
			val = parsed
		}
	}
	return val
}
