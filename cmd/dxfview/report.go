package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"github.com/zooyer/golib/xos"

	"github.com/zooyer/dxfview"
	"github.com/zooyer/dxfview/core"
	"github.com/zooyer/dxfview/entities"
	"github.com/zooyer/dxfview/utils"
)

type printer struct {
	w   io.Writer
	out *termenv.Output
}

func (p *printer) title(format string, args ...any) {
	fmt.Fprintln(p.w, p.out.String(fmt.Sprintf(format, args...)).Bold().Foreground(termenv.ANSICyan))
}

func (p *printer) renderBool(b bool) string {
	if b {
		return p.out.String("✅").Foreground(termenv.ANSIGreen).String()
	}

	return p.out.String("❌").Foreground(termenv.ANSIRed).String()
}

func rectang(b core.BBox) string {
	return fmt.Sprintf("RECTANG %.2f,%.2f %.2f,%.2f", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
}

// original 模型坐标的包围盒换算回原始坐标
func original(doc *dxf.Document, b core.BBox) core.BBox {
	return b.Translate(doc.Offset)
}

func (p *printer) summary(filename string, doc *dxf.Document) {
	p.title("文件: %s", filename)
	fmt.Fprintf(p.w, "    版本: %s | 编码: %s | 单位: %d\n", doc.Header.Version, doc.Encoding, doc.Header.Units)
	fmt.Fprintf(p.w, "    图层: %d | 文字样式: %d | 线型: %d | 标注样式: %d | 块: %d\n",
		len(doc.Layers), len(doc.Styles), len(doc.LineTypes), len(doc.DimStyles), len(doc.Blocks),
	)

	counts := make(map[string]int)
	for _, e := range doc.Entities {
		counts[e.Type()]++
	}
	fmt.Fprintf(p.w, "    实体: %d\n", len(doc.Entities))
	for _, name := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(p.w, "       |-- %-12s %d\n", name, counts[name])
	}

	if doc.Extents.IsEmpty() {
		fmt.Fprintln(p.w, "    范围: 空")
		return
	}
	ext, smart := original(doc, doc.Extents), original(doc, doc.SmartExtents())
	fmt.Fprintf(p.w, "    范围: %s | %.2f x %.2f\n", rectang(ext), ext.Width(), ext.Height())
	fmt.Fprintf(p.w, "    主体: %s | %.2f x %.2f\n", rectang(smart), smart.Width(), smart.Height())
	fmt.Fprintf(p.w, "    偏移: %.2f,%.2f\n", doc.Offset.X, doc.Offset.Y)
}

func (p *printer) entity(doc *dxf.Document, e entities.Entity) {
	b := e.Base()
	fmt.Fprintf(p.w, "    [%d] %s | 图层:%s 颜色:%d | %s\n",
		b.ID, e.Type(), e.Layer(), doc.Color(e), rectang(original(doc, doc.EntityExtents(e))),
	)
}

func (p *printer) hit(doc *dxf.Document, pt core.Point, tol float64) {
	p.title("点选: %.2f,%.2f (容差 %.2f)", pt.X, pt.Y, tol)
	local := pt.Sub(doc.Offset)
	id, ok := doc.PointHit(local.X, local.Y, tol)
	if !ok {
		fmt.Fprintln(p.w, "    未命中")
		return
	}
	e, _ := doc.Entity(id)
	p.entity(doc, e)
}

func (p *printer) box(doc *dxf.Document, rect core.BBox) {
	p.title("框选: %s", rectang(rect))
	ids := doc.BoxHit(rect.Translate(core.Point{}.Sub(doc.Offset)))
	for _, id := range ids {
		e, _ := doc.Entity(id)
		p.entity(doc, e)
	}
	fmt.Fprintf(p.w, "    共 %d 个实体\n", len(ids))
}

func (p *printer) attrs(doc *dxf.Document) {
	p.title("块属性")
	for _, e := range doc.Entities {
		ins, ok := e.(*entities.Insert)
		if !ok || len(ins.Attributes) == 0 {
			continue
		}
		attrs := utils.GetAttrs(ins)
		fmt.Fprintf(p.w, "    [%d] %s | %.2f,%.2f\n",
			ins.ID, ins.Block(), ins.InsertionPoint.X+doc.Offset.X, ins.InsertionPoint.Y+doc.Offset.Y,
		)
		for _, key := range slices.Sorted(maps.Keys(attrs)) {
			fmt.Fprintf(p.w, "       |-- %s: %s\n", key, attrs[key])
		}
	}
}

func (p *printer) dims(doc *dxf.Document) {
	p.title("标注")
	for _, e := range doc.Entities {
		dim, ok := e.(*entities.Dimension)
		if !ok {
			continue
		}
		fmt.Fprintf(p.w, "    [%d] 类型:%d 样式:%s 角度:%.0f | 数值: %s\n",
			dim.ID, dim.DimType, dim.StyleName, dim.Angle,
			strconv.FormatFloat(utils.GetDimValue(doc, dim), 'f', -1, 64),
		)
	}
}

func (p *printer) clusters(doc *dxf.Document, cfg ClusterConfig) {
	list := clusters(doc, cfg)
	p.title("分组: %d 个 (间距 %.2f)", len(list), cfg.Gap)

	for i, c := range list {
		box, area := original(doc, c.Box), original(doc, c.Area)
		fmt.Fprintf(p.w, "    [分组%d] | %.1f x %.1f | %s\n", i+1, c.Width(), c.Height(), rectang(box))
		if len(c.Label) == 0 {
			continue
		}
		fmt.Fprintln(p.w, "       |-- [识别宽度]:", c.Widths, p.renderBool(c.VerifyWidth(cfg.Epsilon)))
		fmt.Fprintln(p.w, "       |-- [识别高度]:", c.Heights, p.renderBool(c.VerifyHeight(cfg.Epsilon)))
		fmt.Fprintf(p.w, "       |-- [标注尺寸]: %.1f x %.1f\n", c.MaxWidth(), c.MaxHeight())
		fmt.Fprintf(p.w, "       |-- [最终范围]: %s\n", rectang(area))
	}
}

// writeCSV 每个顶层实体一行，坐标为原始坐标
func writeCSV(filename string, doc *dxf.Document) (string, error) {
	const header = "序号,类型,图层,颜色,最小X,最小Y,最大X,最大Y\n"

	var csv = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".csv"
	if err := os.WriteFile(csv, []byte(header), 0644); err != nil {
		return csv, err
	}

	var sb strings.Builder
	for _, e := range doc.Entities {
		box := original(doc, doc.EntityExtents(e))
		if box.IsEmpty() {
			continue
		}
		fmt.Fprintf(&sb, "%d,%s,%q,%d,%.4f,%.4f,%.4f,%.4f\n",
			e.Base().ID, e.Type(), e.Layer(), doc.Color(e),
			box.Min.X, box.Min.Y, box.Max.X, box.Max.Y,
		)
	}

	return csv, xos.AppendFile(csv, []byte(sb.String()), 0644)
}
