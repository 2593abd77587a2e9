package dxf

import (
	"seehuhn.de/go/geom/matrix"

	"github.com/zooyer/dxfview/core"
	"github.com/zooyer/dxfview/entities"
)

// Visitor 访问叶子实体，m 为实体局部坐标到世界坐标的累积变换
type Visitor func(e entities.Entity, m matrix.Matrix)

// blockOf 块参照类实体（INSERT/DIMENSION/ACAD_TABLE）引用的块
func (d *Document) blockOf(e entities.Entity) (block *Block, ref bool) {
	var name string
	switch v := e.(type) {
	case *entities.Insert:
		name = v.Block()
	case *entities.Dimension:
		name = v.Block()
	case *entities.Table:
		name = v.Block()
		if name == "" {
			name = d.BlockRecords[v.BlockRecord]
		}
	default:
		return nil, false
	}

	block, ok := d.Blocks[name]
	if !ok {
		d.logger.Debug("undefined block reference", "type", e.Type(), "block", name, "handle", e.Base().Handle)
		return nil, true
	}
	return block, true
}

// Instances 块参照实体每个实例的局部到世界变换，阵列插入时每个单元一个
func (d *Document) Instances(e entities.Entity, parent matrix.Matrix) []matrix.Matrix {
	block, _ := d.blockOf(e)
	if block == nil {
		return nil
	}

	switch v := e.(type) {
	case *entities.Insert:
		cols, rows := max(v.ColumnCount, 1), max(v.RowCount, 1)
		out := make([]matrix.Matrix, 0, cols*rows)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				offset := core.Point{X: float64(c) * v.ColumnSpacing, Y: float64(r) * v.RowSpacing}
				m := core.InsertMatrix(v.InsertionPoint, v.Scale, v.Rotation, offset, block.BasePoint)
				out = append(out, m.Mul(parent))
			}
		}
		return out
	case *entities.Dimension:
		// 标注块的几何已经是世界坐标，插入点为 Origin
		m := core.InsertMatrix(v.Origin, core.Point{X: 1, Y: 1, Z: 1}, 0, core.Point{}, block.BasePoint)
		return []matrix.Matrix{m.Mul(parent)}
	case *entities.Table:
		m := core.InsertMatrix(v.InsertionPoint, core.Point{X: 1, Y: 1, Z: 1}, v.Rotation(), core.Point{}, block.BasePoint)
		return []matrix.Matrix{m.Mul(parent)}
	}
	return nil
}

// Walk 遍历所有叶子实体；超过 maxDepth 层的嵌套不再展开，maxDepth <= 0 时使用文档设置
func (d *Document) Walk(fn Visitor, maxDepth int) {
	if maxDepth <= 0 {
		maxDepth = d.MaxDepth
	}
	for _, e := range d.Entities {
		d.walk(e, matrix.Identity, 0, maxDepth, fn)
	}
}

func (d *Document) walk(e entities.Entity, m matrix.Matrix, depth, maxDepth int, fn Visitor) {
	block, ref := d.blockOf(e)
	if !ref {
		fn(e, m)
		return
	}

	// 属性已经在父级坐标中
	if ins, ok := e.(*entities.Insert); ok {
		for _, attr := range ins.Attributes {
			fn(attr, m)
		}
	}
	if block == nil {
		return
	}
	if depth >= maxDepth {
		d.logger.Debug("block nesting too deep", "block", block.Name, "depth", depth)
		return
	}

	for _, inst := range d.Instances(e, m) {
		for _, child := range block.Entities {
			d.walk(child, inst, depth+1, maxDepth, fn)
		}
	}
}
