package utils

import (
	"math"
	"strings"

	"seehuhn.de/go/geom/matrix"

	"github.com/zooyer/dxfview"
	"github.com/zooyer/dxfview/core"
	"github.com/zooyer/dxfview/entities"
)

// MergeBoxes 合并重叠的矩形
func MergeBoxes(boxes []core.BBox, gap float64) []core.BBox {
	if len(boxes) < 2 {
		return boxes
	}

	for {
		changed := false
		var merged []core.BBox
		visited := make([]bool, len(boxes))
		for i := 0; i < len(boxes); i++ {
			if visited[i] {
				continue
			}
			curr := boxes[i]
			visited[i] = true
			for j := i + 1; j < len(boxes); j++ {
				if !visited[j] && !IsSeparate(curr, boxes[j], gap) {
					curr.Min.X = math.Min(curr.Min.X, boxes[j].Min.X)
					curr.Min.Y = math.Min(curr.Min.Y, boxes[j].Min.Y)
					curr.Max.X = math.Max(curr.Max.X, boxes[j].Max.X)
					curr.Max.Y = math.Max(curr.Max.Y, boxes[j].Max.Y)
					visited[j], changed = true, true
				}
			}
			merged = append(merged, curr)
		}
		boxes = merged
		if !changed {
			break
		}
	}

	return boxes
}

// IsSeparate 判断两个 BBox 是否完全分离
func IsSeparate(a, b core.BBox, gap float64) bool {
	return a.Max.X+gap < b.Min.X || a.Min.X-gap > b.Max.X ||
		a.Max.Y+gap < b.Min.Y || a.Min.Y-gap > b.Max.Y
}

func InBox(box core.BBox, point core.Point) bool {
	return box.Contains(point)
}

// GetEntityBBoxWCS 顶层实体的世界坐标包围盒（偏移后的坐标）
func GetEntityBBoxWCS(d *dxf.Document, entity entities.Entity) core.BBox {
	return d.EntityExtents(entity)
}

// LayerBoxes 收集指定图层上所有叶子实体的世界坐标包围盒，块内实体按实例变换展开
func LayerBoxes(d *dxf.Document, layer string) (boxes []core.BBox) {
	d.Walk(func(e entities.Entity, m matrix.Matrix) {
		if !strings.EqualFold(e.Layer(), layer) || !d.Visible(e) {
			return
		}
		if box := core.ApplyBBox(m, d.EntityExtents(e)); !box.IsEmpty() {
			boxes = append(boxes, box)
		}
	}, 0)

	return
}
