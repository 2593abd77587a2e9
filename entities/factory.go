package entities

import (
	"strings"

	"github.com/zooyer/dxfview/core"
)

// Kind 实体类别，所有消费方按 Kind 穷举处理
type Kind int

const (
	KindUnknown Kind = iota
	KindLine
	KindCircle
	KindArc
	KindPolyline
	KindPoint
	KindText
	KindEllipse
	KindSpline
	KindSolid
	KindInsert
	KindDimension
	KindHatch
	KindLeader
	KindRay
	KindTable
)

var kindNames = [...]string{
	KindUnknown:   "UNKNOWN",
	KindLine:      "LINE",
	KindCircle:    "CIRCLE",
	KindArc:       "ARC",
	KindPolyline:  "POLYLINE",
	KindPoint:     "POINT",
	KindText:      "TEXT",
	KindEllipse:   "ELLIPSE",
	KindSpline:    "SPLINE",
	KindSolid:     "SOLID",
	KindInsert:    "INSERT",
	KindDimension: "DIMENSION",
	KindHatch:     "HATCH",
	KindLeader:    "LEADER",
	KindRay:       "RAY",
	KindTable:     "TABLE",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// Entity 是一切几何实体的接口
type Entity interface {
	Parse(scanner *core.Scanner) error
	Type() string
	Kind() Kind
	Layer() string
	Base() *BaseEntity
}

// Color 索引色的两个特殊值
const (
	ColorByBlock = 0
	ColorByLayer = 256
)

// BaseEntity 存放所有实体通用的属性（如 Layer, Color, Handle）
type BaseEntity struct {
	ID            int
	TypeName      string
	LayerName     string
	Handle        string
	ColorIndex    int
	TrueColor     int // 0xRRGGBB，-1 表示未设置
	LineType      string
	LineTypeScale float64
	LineWeight    int
	Visible       bool
	PaperSpace    bool
	Extrusion     core.Point
	Extents       *core.BBox // 预先计算的包围盒
}

func newBase(typeName string) BaseEntity {
	return BaseEntity{
		TypeName:      typeName,
		LayerName:     "0",
		ColorIndex:    ColorByLayer,
		TrueColor:     -1,
		LineTypeScale: 1,
		LineWeight:    -1,
		Visible:       true,
		Extrusion:     core.WorldZ,
	}
}

func (b *BaseEntity) Type() string { return b.TypeName }

func (b *BaseEntity) Layer() string { return b.LayerName }

func (b *BaseEntity) Base() *BaseEntity { return b }

// parseCommon 处理所有实体共有的组码，返回 true 表示已消费
func (b *BaseEntity) parseCommon(t core.Tag) bool {
	switch t.Code {
	case 5:
		b.Handle = t.AsString()
	case 8:
		if b.LayerName = t.AsString(); b.LayerName == "" {
			b.LayerName = "0"
		}
	case 62:
		b.ColorIndex = t.AsInt()
	case 420:
		b.TrueColor = t.AsInt() & 0xFFFFFF
	case 6:
		b.LineType = t.AsString()
	case 48:
		b.LineTypeScale = t.AsFloat()
	case 370:
		b.LineWeight = t.AsInt()
	case 60:
		b.Visible = t.AsInt() == 0
	case 67:
		b.PaperSpace = t.AsInt() == 1
	case 210:
		b.Extrusion.X = t.AsFloat()
	case 220:
		b.Extrusion.Y = t.AsFloat()
	case 230:
		b.Extrusion.Z = t.AsFloat()
	default:
		return false
	}
	return true
}

// EntityFactory 定义了如何从标签流中创建一个实体
type EntityFactory func() Entity

var registry = map[string]EntityFactory{}

// Register 允许以后动态扩展新的实体类型
func Register(typeName string, factory EntityFactory) {
	registry[strings.ToUpper(typeName)] = factory
}

// CreateEntity 根据实体名称生产对应的结构体，未知类型返回 nil
func CreateEntity(typeName string) Entity {
	if factory, ok := registry[strings.ToUpper(strings.TrimSpace(typeName))]; ok {
		return factory()
	}
	return nil
}

// parseLoop 实体解析的公共循环：通用组码先交给 BaseEntity，其余交给 fn，
// 直到遇到下一个 0 组码为止
func parseLoop(s *core.Scanner, b *BaseEntity, fn func(t core.Tag)) {
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			return
		}
		if !b.parseCommon(t) {
			fn(t)
		}
	}
}
