package dxf

import (
	"strings"

	"github.com/zooyer/dxfview/core"
)

// Header HEADER 段中用到的变量，其余变量原样保存在 Vars
type Header struct {
	Version  string     // $ACADVER
	CodePage string     // $DWGCODEPAGE
	ExtMin   core.Point // $EXTMIN
	ExtMax   core.Point // $EXTMAX
	Units    int        // $INSUNITS
	LTScale  float64    // $LTSCALE
	Vars     map[string]string
}

type Layer struct {
	Name       string
	Color      int // 负数表示关闭
	TrueColor  int
	LineType   string
	LineWeight int
	Frozen     bool
	Locked     bool
	Plot       bool
}

// Visible 图层未关闭且未冻结
func (l *Layer) Visible() bool {
	return l.Color >= 0 && !l.Frozen
}

type Style struct {
	Name        string
	Font        string  // 组码 3
	BigFont     string  // 组码 4
	Height      float64 // 组码 40，0 表示不固定
	WidthFactor float64 // 组码 41
	Oblique     float64 // 组码 50
}

type LineType struct {
	Name        string
	Description string
	Length      float64
	Pattern     []float64
}

type DimStyle struct {
	Name      string
	Precision int     // 对应组码 271 DIMDEC，显示的小数位数
	ExLimit   float64 // 对应组码 44 DIMEXE，标注线超出延伸线的长度
	Scale     float64 // 对应组码 40 DIMSCALE，全局比例，影响所有标注特征
}

func defaultLayer() *Layer {
	return &Layer{Name: "0", Color: 7, TrueColor: -1, LineType: "CONTINUOUS", LineWeight: -3, Plot: true}
}

// record 读取一条记录剩余的组码，停在下一个 0 组码上；返回 false 表示数据已结束
func record(s *core.Scanner, fn func(t core.Tag)) bool {
	for s.Next() {
		if s.LastTag.Code == 0 {
			return true
		}
		if fn != nil {
			fn(s.LastTag)
		}
	}
	return false
}

func (d *Document) parseHeader(s *core.Scanner) {
	h := &d.Header
	var name string
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			return
		}
		if t.Code == 9 {
			name = strings.ToUpper(t.AsString())
			continue
		}
		if _, ok := h.Vars[name]; !ok {
			h.Vars[name] = t.AsString()
		}

		switch name {
		case "$ACADVER":
			h.Version = t.AsString()
		case "$DWGCODEPAGE":
			h.CodePage = t.AsString()
		case "$EXTMIN":
			setCoord(&h.ExtMin, t)
		case "$EXTMAX":
			setCoord(&h.ExtMax, t)
		case "$INSUNITS":
			h.Units = t.AsInt()
		case "$LTSCALE":
			h.LTScale = t.AsFloat()
		}
	}
}

func setCoord(p *core.Point, t core.Tag) {
	switch t.Code {
	case 10:
		p.X = t.AsFloat()
	case 20:
		p.Y = t.AsFloat()
	case 30:
		p.Z = t.AsFloat()
	}
}

func (d *Document) parseTables(s *core.Scanner) {
	more := s.Next()
	for more && !s.LastTag.Is("ENDSEC") {
		if !s.LastTag.Is("TABLE") {
			more = record(s, nil)
			continue
		}

		var name string
		more = record(s, func(t core.Tag) {
			if t.Code == 2 && name == "" {
				name = strings.ToUpper(t.AsString())
			}
		})
		for more && !s.LastTag.Is("ENDTAB") && !s.LastTag.Is("ENDSEC") {
			more = d.parseTableRecord(name, s)
		}
		if more && s.LastTag.Is("ENDTAB") {
			more = record(s, nil)
		}
	}
}

// parseTableRecord 解析一条表记录，不认识的表/记录直接跳过
func (d *Document) parseTableRecord(table string, s *core.Scanner) bool {
	if !s.LastTag.Is(table) {
		return record(s, nil)
	}

	switch table {
	case "LAYER":
		return d.parseLayer(s)
	case "STYLE":
		return d.parseStyle(s)
	case "LTYPE":
		return d.parseLineType(s)
	case "BLOCK_RECORD":
		return d.parseBlockRecord(s)
	case "DIMSTYLE":
		return d.parseDimStyle(s)
	}
	return record(s, nil)
}

func (d *Document) parseLayer(s *core.Scanner) bool {
	l := &Layer{TrueColor: -1, LineWeight: -3, Plot: true, Color: 7}
	more := record(s, func(t core.Tag) {
		switch t.Code {
		case 2:
			l.Name = t.AsString()
		case 62:
			l.Color = t.AsInt()
		case 420:
			l.TrueColor = t.AsInt() & 0xFFFFFF
		case 6:
			l.LineType = t.AsString()
		case 370:
			l.LineWeight = t.AsInt()
		case 70:
			flags := t.AsInt()
			l.Frozen = flags&1 != 0
			l.Locked = flags&4 != 0
		case 290:
			l.Plot = t.AsInt() != 0
		}
	})
	if l.Name != "" {
		d.Layers[strings.ToUpper(l.Name)] = l
	}
	return more
}

func (d *Document) parseStyle(s *core.Scanner) bool {
	st := &Style{WidthFactor: 1}
	more := record(s, func(t core.Tag) {
		switch t.Code {
		case 2:
			st.Name = t.AsString()
		case 3:
			st.Font = t.AsString()
		case 4:
			st.BigFont = t.AsString()
		case 40:
			st.Height = t.AsFloat()
		case 41:
			st.WidthFactor = t.AsFloat()
		case 50:
			st.Oblique = t.AsFloat()
		}
	})
	if st.Name != "" {
		d.Styles[strings.ToUpper(st.Name)] = st
	}
	return more
}

func (d *Document) parseLineType(s *core.Scanner) bool {
	lt := &LineType{}
	more := record(s, func(t core.Tag) {
		switch t.Code {
		case 2:
			lt.Name = t.AsString()
		case 3:
			lt.Description = t.AsString()
		case 40:
			lt.Length = t.AsFloat()
		case 49:
			lt.Pattern = append(lt.Pattern, t.AsFloat())
		}
	})
	if lt.Name != "" {
		d.LineTypes[strings.ToUpper(lt.Name)] = lt
	}
	return more
}

// parseBlockRecord 记录 句柄 → 块名，ACAD_TABLE 通过句柄引用块
func (d *Document) parseBlockRecord(s *core.Scanner) bool {
	var handle, name string
	more := record(s, func(t core.Tag) {
		switch t.Code {
		case 5:
			handle = strings.ToUpper(t.AsString())
		case 2:
			name = strings.ToUpper(t.AsString())
		}
	})
	if handle != "" && name != "" {
		d.BlockRecords[handle] = name
	}
	return more
}

func (d *Document) parseDimStyle(s *core.Scanner) bool {
	style := &DimStyle{
		Scale: 1.0, // 默认为 1.0，防止乘法归零
	}
	more := record(s, func(t core.Tag) {
		switch t.Code {
		case 2: // 样式名称
			style.Name = strings.ToUpper(t.AsString())
		case 271: // 精度
			style.Precision = t.AsInt()
		case 44: // 标注线超出延伸线长度 (DIMEXE)
			style.ExLimit = t.AsFloat()
		case 40: // 全局标注比例 (DIMSCALE)
			style.Scale = t.AsFloat()
		}
	})
	if style.Name != "" {
		d.DimStyles[style.Name] = style
	}
	return more
}
