package dxf

import (
	"github.com/zooyer/dxfview/core"
	"github.com/zooyer/dxfview/entities"
)

// recenter 把整体范围的中心移到原点，避免大坐标下的精度损失；
// 偏移量保存在 Offset 中，块几何与基点一起平移，块内相对位置不变
func (d *Document) recenter() {
	if d.Extents.IsEmpty() {
		return
	}
	c := d.Extents.Center()
	offset := core.Point{X: c.X, Y: c.Y}
	if offset.X == 0 && offset.Y == 0 {
		return
	}

	for _, e := range d.Entities {
		entities.Translate(e, offset)
	}
	for _, b := range d.Blocks {
		b.BasePoint = b.BasePoint.Sub(offset)
		for _, e := range b.Entities {
			entities.Translate(e, offset)
		}
	}
	d.Offset = d.Offset.Add(offset)

	d.logger.Debug("document recentered", "offset_x", offset.X, "offset_y", offset.Y)
	d.computeExtents()
}
