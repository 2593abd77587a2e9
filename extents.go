package dxf

import (
	"slices"

	"seehuhn.de/go/geom/matrix"

	"github.com/zooyer/dxfview/core"
	"github.com/zooyer/dxfview/entities"
)

// smart extents 的参数
const (
	smartMinEntities = 4
	smartLow         = 0.05
	smartHigh        = 0.95
	smartIQRFactor   = 3.0
)

// EntityExtents 实体在其所在坐标系下的包围盒，块参照按实例变换后合并；
// 顶层实体即为世界坐标
func (d *Document) EntityExtents(e entities.Entity) core.BBox {
	if b := e.Base().Extents; b != nil {
		return *b
	}
	box, _ := d.extentsAt(e, 0)
	return box
}

// extentsAt 计算实体包围盒，capped 表示结果因深度上限被截断
func (d *Document) extentsAt(e entities.Entity, depth int) (box core.BBox, capped bool) {
	block, ref := d.blockOf(e)
	if !ref {
		return entities.Extents(e, d.Metrics), false
	}

	box = core.EmptyBBox()
	if ins, ok := e.(*entities.Insert); ok {
		for _, attr := range ins.Attributes {
			if attr.Visible {
				box = box.Union(entities.Extents(attr, d.Metrics))
			}
		}
	}
	if block == nil {
		return box, false
	}
	if depth >= d.MaxDepth {
		return box, true
	}

	local, capped := d.blockExtents(block, depth+1)
	if local.IsEmpty() {
		return box, capped
	}
	for _, m := range d.Instances(e, matrix.Identity) {
		box = box.Union(core.ApplyBBox(m, local))
	}
	return box, capped
}

// blockExtents 块内几何的包围盒（块坐标系），按 (块名, 深度) 缓存，
// 互相引用的块每层只展开一次
func (d *Document) blockExtents(b *Block, depth int) (core.BBox, bool) {
	key := blockKey{name: b.Name, depth: depth}
	if v, ok := d.blockBoxes[key]; ok {
		return v.box, v.capped
	}

	var (
		box    = core.EmptyBBox()
		capped bool
	)
	for _, child := range b.Entities {
		if !d.Visible(child) {
			continue
		}
		cb, c := d.extentsAt(child, depth)
		box = box.Union(cb)
		capped = capped || c
	}

	// 加载完成后文档只读，不再写缓存
	if !d.loaded {
		d.blockBoxes[key] = blockBox{box: box, capped: capped}
		if depth == 1 {
			b.Extents = box
		}
	}
	return box, capped
}

// computeExtents 计算所有实体、块的包围盒以及整体范围
func (d *Document) computeExtents() {
	clear(d.blockBoxes)

	for _, b := range d.Blocks {
		b.Extents = core.EmptyBBox()
		for _, child := range b.Entities {
			box, _ := d.extentsAt(child, 1)
			child.Base().Extents = &box
		}
	}
	for _, b := range d.Blocks {
		d.blockExtents(b, 1)
	}
	for _, e := range d.Entities {
		box, _ := d.extentsAt(e, 0)
		e.Base().Extents = &box
	}
	d.Extents = d.ComputeExtents()
}

// ComputeExtents 所有可见模型空间实体的包围盒
func (d *Document) ComputeExtents() core.BBox {
	box := core.EmptyBBox()
	for _, e := range d.Entities {
		if d.Visible(e) && !e.Base().PaperSpace {
			box = box.Union(d.EntityExtents(e))
		}
	}
	return box
}

// SmartExtents 去掉离群实体后的范围：实体中心在任一轴上落在
// [p5 - 3·IQR, p95 + 3·IQR] 之外的不参与合并
func (d *Document) SmartExtents() core.BBox {
	var boxes []core.BBox
	for _, e := range d.Entities {
		if !d.Visible(e) || e.Base().PaperSpace {
			continue
		}
		if box := d.EntityExtents(e); !box.IsEmpty() {
			boxes = append(boxes, box)
		}
	}
	if len(boxes) < smartMinEntities {
		return union(boxes)
	}

	xs, ys := make([]float64, len(boxes)), make([]float64, len(boxes))
	for i, b := range boxes {
		c := b.Center()
		xs[i], ys[i] = c.X, c.Y
	}
	xMin, xMax := band(xs)
	yMin, yMax := band(ys)

	box := core.EmptyBBox()
	for i, b := range boxes {
		if xs[i] >= xMin && xs[i] <= xMax && ys[i] >= yMin && ys[i] <= yMax {
			box = box.Union(b)
		}
	}
	if box.IsEmpty() {
		return union(boxes)
	}
	return box
}

func union(boxes []core.BBox) core.BBox {
	box := core.EmptyBBox()
	for _, b := range boxes {
		box = box.Union(b)
	}
	return box
}

// band 允许的中心范围
func band(values []float64) (lo, hi float64) {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	iqr := percentile(sorted, 0.75) - percentile(sorted, 0.25)
	return percentile(sorted, smartLow) - smartIQRFactor*iqr,
		percentile(sorted, smartHigh) + smartIQRFactor*iqr
}

// percentile 线性插值的分位数，sorted 需已排序
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	i := int(pos)
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(i)
	return sorted[i] + (sorted[i+1]-sorted[i])*frac
}
