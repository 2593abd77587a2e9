package main

import (
	"slices"
	"sort"

	"github.com/zooyer/golib/xmath"

	"github.com/zooyer/dxfview"
	"github.com/zooyer/dxfview/core"
	"github.com/zooyer/dxfview/entities"
	"github.com/zooyer/dxfview/utils"
)

// Cluster 相互挨着的实体合并成的一组
type Cluster struct {
	Box     core.BBox             // 分组范围(纯几何)
	Area    core.BBox             // 覆盖范围(含标注)
	Label   []*entities.Dimension // 附近的标注
	Widths  []float64             // 标注宽度
	Heights []float64             // 标注高度
}

func (c Cluster) Width() float64 {
	return c.Box.Max.X - c.Box.Min.X
}

func (c Cluster) Height() float64 {
	return c.Box.Max.Y - c.Box.Min.Y
}

func (c Cluster) MaxWidth() float64 {
	if len(c.Widths) < 1 {
		return 0
	}

	return slices.Max(c.Widths)
}

func (c Cluster) MaxHeight() float64 {
	if len(c.Heights) < 1 {
		return 0
	}

	return slices.Max(c.Heights)
}

func (c Cluster) VerifyWidth(epsilon float64) bool {
	return len(c.Widths) > 0 && xmath.Equal(c.Width(), c.MaxWidth(), epsilon)
}

func (c Cluster) VerifyHeight(epsilon float64) bool {
	return len(c.Heights) > 0 && xmath.Equal(c.Height(), c.MaxHeight(), epsilon)
}

// clusters 按间距合并实体包围盒，并为每组收集附近的转角标注
func clusters(doc *dxf.Document, cfg ClusterConfig) (list []Cluster) {
	var boxes []core.BBox
	if cfg.Layer != "" {
		boxes = utils.LayerBoxes(doc, cfg.Layer)
	} else {
		for _, e := range doc.Entities {
			if e.Kind() == entities.KindDimension || !doc.Visible(e) || e.Base().PaperSpace {
				continue
			}
			if box := utils.GetEntityBBoxWCS(doc, e); !box.IsEmpty() {
				boxes = append(boxes, box)
			}
		}
	}

	var dims []*entities.Dimension
	for _, e := range doc.Entities {
		if dim, ok := e.(*entities.Dimension); ok && doc.Visible(dim) {
			dims = append(dims, dim)
		}
	}

	merged := utils.MergeBoxes(boxes, cfg.Gap)

	// 从上到下、从左到右
	sort.Slice(merged, func(i, j int) bool {
		if xmath.Equal(merged[i].Max.Y, merged[j].Max.Y, cfg.Gap) {
			return merged[i].Min.X < merged[j].Min.X
		}
		return merged[i].Max.Y > merged[j].Max.Y
	})

	for _, box := range merged {
		var (
			area  = box                 // 扩展范围
			rest  = dims                // 未匹配的标注
			curr  []*entities.Dimension // 当前标注
			nears []*entities.Dimension // 附近标注
		)

		for {
			if rest, curr, area = nearDimensions(doc, rest, area, cfg.DimGap); len(curr) == 0 {
				break
			}
			nears = append(nears, curr...)
		}

		var widths, heights []float64
		for _, near := range nears {
			value := utils.GetDimValue(doc, near)
			switch int(near.Angle) {
			case 0, 180:
				widths = append(widths, value)
			case 90, 270:
				heights = append(heights, value)
			}
		}

		list = append(list, Cluster{
			Box:     box,
			Area:    area,
			Label:   nears,
			Widths:  widths,
			Heights: heights,
		})
	}

	return
}

// nearDimensions 寻找与当前 box 邻近的转角标注
// 返回：未被匹配的标注(rest)、本次匹配到的标注(near)、扩充后的新盒子(newBox)
func nearDimensions(doc *dxf.Document, dims []*entities.Dimension, box core.BBox, gap float64) (rest, near []*entities.Dimension, newBox core.BBox) {
	newBox = box

	for _, dim := range dims {
		if dim.DimType != 0 {
			rest = append(rest, dim)
			continue
		}

		b := utils.GetDimBox(doc, dim)
		if utils.IsSeparate(box, b, gap) {
			rest = append(rest, dim)
			continue
		}

		// 按标注的完美矩形扩充，下一轮可以抓到更外圈的总尺寸标注
		near = append(near, dim)
		newBox = newBox.Union(b)
	}
	return
}
