package entities

import (
	"strings"

	"github.com/zooyer/dxfview/core"
)

type Insert struct {
	BaseEntity
	BlockName      string
	InsertionPoint core.Point
	Scale          core.Point
	Rotation       float64 // 度
	ColumnCount    int
	RowCount       int
	ColumnSpacing  float64
	RowSpacing     float64
	Attributes     []*Text
}

func init() {
	Register("INSERT", func() Entity {
		return &Insert{
			BaseEntity:  newBase("INSERT"),
			Scale:       core.Point{X: 1, Y: 1, Z: 1}, // 默认缩放为 1
			ColumnCount: 1,
			RowCount:    1,
		}
	})
}

func (i *Insert) Kind() Kind { return KindInsert }

// Block 统一为大写的块名
func (i *Insert) Block() string { return strings.ToUpper(i.BlockName) }

func (i *Insert) Parse(scanner *core.Scanner) error {
	hasAttributes := false

	parseLoop(scanner, &i.BaseEntity, func(tag core.Tag) {
		switch tag.Code {
		case 2:
			i.BlockName = tag.AsString()
		case 10:
			i.InsertionPoint.X = tag.AsFloat()
		case 20:
			i.InsertionPoint.Y = tag.AsFloat()
		case 30:
			i.InsertionPoint.Z = tag.AsFloat()
		case 41:
			i.Scale.X = tag.AsFloat()
		case 42:
			i.Scale.Y = tag.AsFloat()
		case 43:
			i.Scale.Z = tag.AsFloat()
		case 50:
			i.Rotation = tag.AsFloat()
		case 70:
			i.ColumnCount = max(tag.AsInt(), 1)
		case 71:
			i.RowCount = max(tag.AsInt(), 1)
		case 44:
			i.ColumnSpacing = tag.AsFloat()
		case 45:
			i.RowSpacing = tag.AsFloat()
		case 66:
			if tag.AsInt() == 1 {
				hasAttributes = true
			}
		}
	})

	// 如果标记了有属性，则继续在当前流中抓取 ATTRIB 直到 SEQEND
	if hasAttributes {
		for scanner.LastTag.Is("ATTRIB") {
			attr := newText("ATTRIB")
			_ = attr.Parse(scanner) // Parse 内部已经 Next 了，停在下一个 0 组码
			i.Attributes = append(i.Attributes, attr)
		}
		if scanner.LastTag.Is("SEQEND") {
			scanner.Drain() // 消耗掉 SEQEND
		}
	}
	return nil
}
