package dxf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/zooyer/dxfview/core"
	"github.com/zooyer/dxfview/entities"
)

type Block struct {
	Name      string
	Handle    string
	Layer     string
	Flags     int
	BasePoint core.Point
	Entities  []entities.Entity
	Extents   core.BBox
}

type Document struct {
	Header       Header
	Layers       map[string]*Layer
	Styles       map[string]*Style
	LineTypes    map[string]*LineType
	DimStyles    map[string]*DimStyle
	BlockRecords map[string]string // 块记录句柄 → 块名
	Blocks       map[string]*Block
	Entities     []entities.Entity

	Encoding string     // 解码使用的编码
	Offset   core.Point // 全局偏移，模型坐标 + Offset = 原始坐标
	Extents  core.BBox  // 偏移后的整体范围
	MaxDepth int
	Metrics  entities.TextMetrics

	logger *slog.Logger
	byID   map[int]entities.Entity
	nextID int

	blockBoxes map[blockKey]blockBox
	loaded     bool
}

// blockKey 块包围盒按块名和展开深度缓存，截断结果只与深度有关
type blockKey struct {
	name  string
	depth int
}

type blockBox struct {
	box    core.BBox
	capped bool
}

func newDocument(o *options) *Document {
	return &Document{
		Header:       Header{Vars: make(map[string]string)},
		Layers:       map[string]*Layer{"0": defaultLayer()},
		Styles:       make(map[string]*Style),
		LineTypes:    make(map[string]*LineType),
		DimStyles:    make(map[string]*DimStyle),
		BlockRecords: make(map[string]string),
		Blocks:       make(map[string]*Block),
		Entities:     make([]entities.Entity, 0, 1024),
		Extents:      core.EmptyBBox(),
		MaxDepth:     o.maxDepth,
		Metrics:      o.metrics,
		logger:       o.logger,
		byID:         make(map[int]entities.Entity),
		blockBoxes:   make(map[blockKey]blockBox),
	}
}

// Layer 按名称查找图层，找不到时返回 "0" 图层
func (d *Document) Layer(name string) *Layer {
	if l, ok := d.Layers[strings.ToUpper(name)]; ok {
		return l
	}
	return d.Layers["0"]
}

// Entity 按 ID 查找实体（包括块内实体与属性）
func (d *Document) Entity(id int) (entities.Entity, bool) {
	e, ok := d.byID[id]
	return e, ok
}

// Block 按名称查找块
func (d *Document) Block(name string) (*Block, bool) {
	b, ok := d.Blocks[strings.ToUpper(name)]
	return b, ok
}

// Color 实体实际的颜色索引，随层时取图层颜色
func (d *Document) Color(e entities.Entity) int {
	c := e.Base().ColorIndex
	if c == entities.ColorByLayer || c < 0 {
		c = d.Layer(e.Layer()).Color
	}
	if c < 0 {
		c = -c
	}
	return c
}

// ToOriginal 模型坐标换算回文件中的原始坐标
func (d *Document) ToOriginal(p core.Point) core.Point {
	return p.Add(d.Offset)
}

// Visible 实体自身可见且所在图层可见
func (d *Document) Visible(e entities.Entity) bool {
	b := e.Base()
	return b.Visible && d.Layer(b.LayerName).Visible()
}

func (d *Document) assignID(e entities.Entity) {
	d.nextID++
	e.Base().ID = d.nextID
	d.byID[d.nextID] = e
	if ins, ok := e.(*entities.Insert); ok {
		for _, attr := range ins.Attributes {
			d.assignID(attr)
		}
	}
}

// readEntities 从当前实体头开始连续解析实体，遇到 end 中的任一标记时停下
func (d *Document) readEntities(s *core.Scanner, end ...string) []entities.Entity {
	var list []entities.Entity
	for !s.Done() {
		tag := s.LastTag
		if tag.Code != 0 {
			if !s.Next() {
				break
			}
			continue
		}
		if isAny(tag, end) {
			break
		}

		ent := entities.CreateEntity(tag.Value)
		if ent == nil {
			d.logger.Debug("skip unsupported entity", "type", tag.Value)
			s.Drain()
			continue
		}
		_ = ent.Parse(s)
		d.assignID(ent)
		list = append(list, ent)
	}
	return list
}

func isAny(tag core.Tag, markers []string) bool {
	for _, m := range markers {
		if tag.Is(m) {
			return true
		}
	}
	return false
}

func (d *Document) parseBlocks(s *core.Scanner) {
	more := s.Next()
	for more && !s.LastTag.Is("ENDSEC") {
		if !s.LastTag.Is("BLOCK") {
			more = record(s, nil)
			continue
		}

		block := &Block{Layer: "0"}
		more = record(s, func(t core.Tag) {
			switch t.Code {
			case 2:
				if block.Name == "" {
					block.Name = strings.ToUpper(t.AsString())
				}
			case 5:
				block.Handle = strings.ToUpper(t.AsString())
			case 8:
				block.Layer = t.AsString()
			case 70:
				block.Flags = t.AsInt()
			default:
				setCoord(&block.BasePoint, t)
			}
		})
		if !more {
			break
		}

		block.Entities = d.readEntities(s, "ENDBLK", "ENDSEC")
		d.Blocks[block.Name] = block
		if s.LastTag.Is("ENDBLK") {
			more = record(s, nil)
		} else {
			more = !s.Done()
		}
	}
}

func (d *Document) parseEntities(s *core.Scanner) {
	if s.Next() {
		d.Entities = append(d.Entities, d.readEntities(s, "ENDSEC")...)
	}
}

func (d *Document) parse(s *core.Scanner) {
	for s.Next() {
		if !s.LastTag.Is("SECTION") {
			continue
		}
		if !s.Next() {
			break
		}

		switch strings.ToUpper(s.LastTag.AsString()) {
		case "HEADER":
			d.parseHeader(s)
		case "TABLES":
			d.parseTables(s)
		case "BLOCKS":
			d.parseBlocks(s)
		case "ENTITIES":
			d.parseEntities(s)
		}
	}
}

func Open(filename string, opts ...Option) (doc *Document, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return
	}

	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}()

	return Load(file, opts...)
}

func Load(reader io.Reader, opts ...Option) (doc *Document, err error) {
	return LoadContext(context.Background(), reader, opts...)
}

// LoadContext 读取并解析整个文档；ctx 在每个扫描检查点检查一次
func LoadContext(ctx context.Context, reader io.Reader, opts ...Option) (doc *Document, err error) {
	var (
		o    = newOptions(opts)
		prog = &progress{fn: o.progress, last: -1}
	)

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	prog.report(0)

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read dxf: %w", err)
	}
	text, encoding, err := decode(data, o.fallback)
	if err != nil {
		return nil, err
	}
	if encoding != "UTF-8" {
		o.logger.Info("decoded with legacy encoding", "encoding", encoding)
	}

	var (
		document = newDocument(o)
		scanner  = core.NewScanner(strings.NewReader(text))
		total    = max(int64(len(text)), 1)
	)
	document.Encoding = encoding
	scanner.SetCheckpoint(func(lines int, consumed int64) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		prog.report(int(consumed * 90 / total))
		return nil
	})

	document.parse(scanner)
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("parse dxf: %w", err)
	}
	if line := scanner.Malformed(); line > 0 {
		o.logger.Warn("malformed group code, document truncated", "line", line)
	}
	prog.report(90)

	document.normalize()
	prog.report(93)

	document.computeExtents()
	prog.report(96)

	document.recenter()
	document.loaded = true

	o.logger.Debug("document loaded",
		"entities", len(document.Entities),
		"blocks", len(document.Blocks),
		"layers", len(document.Layers),
	)
	prog.report(100)

	return document, nil
}

// normalize OCS 换算并确定文字的字高与宽度系数
func (d *Document) normalize() {
	each := func(list []entities.Entity) {
		for _, e := range list {
			d.normalizeEntity(e)
		}
	}
	each(d.Entities)
	for _, b := range d.Blocks {
		each(b.Entities)
	}
}

func (d *Document) normalizeEntity(e entities.Entity) {
	entities.Normalize(e)
	switch v := e.(type) {
	case *entities.Text:
		d.applyStyle(v)
	case *entities.Insert:
		for _, attr := range v.Attributes {
			entities.Normalize(attr)
			d.applyStyle(attr)
		}
	}
}

func (d *Document) applyStyle(t *entities.Text) {
	var height, width float64
	name := t.Style
	if name == "" {
		name = "STANDARD"
	}
	if st, ok := d.Styles[strings.ToUpper(name)]; ok {
		height, width = st.Height, st.WidthFactor
	}
	t.ApplyStyle(height, width)
}
