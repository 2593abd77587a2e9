package entities

import (
	"math"
	"strings"

	"github.com/zooyer/dxfview/core"
)

// Table ACAD_TABLE，几何在匿名块 *T 中，按块名或块记录句柄引用
type Table struct {
	BaseEntity
	BlockName      string
	BlockRecord    string // 组码 343，块记录句柄
	InsertionPoint core.Point
	Direction      core.Point
	Rows, Columns  int
}

func init() {
	Register("ACAD_TABLE", func() Entity {
		return &Table{BaseEntity: newBase("ACAD_TABLE"), Direction: core.Point{X: 1}}
	})
}

func (tb *Table) Kind() Kind { return KindTable }

func (tb *Table) Block() string { return strings.ToUpper(tb.BlockName) }

// Rotation X 方向向量对应的旋转角（度）
func (tb *Table) Rotation() float64 {
	if tb.Direction.X == 0 && tb.Direction.Y == 0 {
		return 0
	}
	return math.Atan2(tb.Direction.Y, tb.Direction.X) * 180.0 / math.Pi
}

func (tb *Table) Parse(s *core.Scanner) error {
	parseLoop(s, &tb.BaseEntity, func(t core.Tag) {
		switch t.Code {
		case 2:
			tb.BlockName = t.AsString()
		case 343:
			tb.BlockRecord = strings.ToUpper(t.AsString())
		case 10:
			tb.InsertionPoint.X = t.AsFloat()
		case 20:
			tb.InsertionPoint.Y = t.AsFloat()
		case 30:
			tb.InsertionPoint.Z = t.AsFloat()
		case 11:
			tb.Direction.X = t.AsFloat()
		case 21:
			tb.Direction.Y = t.AsFloat()
		case 31:
			tb.Direction.Z = t.AsFloat()
		case 91:
			tb.Rows = t.AsInt()
		case 92:
			tb.Columns = t.AsInt()
		}
	})
	return nil
}
