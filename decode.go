package dxf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"

	"github.com/zooyer/dxfview/core"
)

var (
	// ErrDecode 文件既不是 UTF-8，用备选编码也无法解码
	ErrDecode = errors.New("dxf: cannot decode document")
	// ErrBinary 二进制 DXF 或其他二进制文件
	ErrBinary = errors.New("dxf: binary file is not supported")
)

var (
	utf8BOM        = []byte{0xEF, 0xBB, 0xBF}
	binarySentinel = []byte("AutoCAD Binary DXF\r\n\x1a\x00")

	binaryDXF = filetype.NewType("dxb", "application/x-dxf-binary")
)

func init() {
	filetype.AddMatcher(binaryDXF, func(buf []byte) bool {
		return bytes.HasPrefix(buf, binarySentinel)
	})
}

// codePages $DWGCODEPAGE 到编码的映射
var codePages = map[string]encoding.Encoding{
	"ANSI_874":  charmap.Windows874,
	"ANSI_1250": charmap.Windows1250,
	"ANSI_1251": charmap.Windows1251,
	"ANSI_1252": charmap.Windows1252,
	"ANSI_1253": charmap.Windows1253,
	"ANSI_1254": charmap.Windows1254,
	"ANSI_1255": charmap.Windows1255,
	"ANSI_1256": charmap.Windows1256,
	"ANSI_1257": charmap.Windows1257,
	"ANSI_1258": charmap.Windows1258,
	"ANSI_932":  japanese.ShiftJIS,
	"ANSI_936":  simplifiedchinese.GBK,
	"ANSI_949":  korean.EUCKR,
	"ANSI_950":  traditionalchinese.Big5,
}

// decode 先按 UTF-8 严格解码，失败时只用一个备选编码再试一次
func decode(data []byte, fallback encoding.Encoding) (text string, name string, err error) {
	if kind, _ := filetype.Match(data); kind != filetype.Unknown {
		return "", "", fmt.Errorf("%w: %s", ErrBinary, kind.MIME.Value)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), "UTF-8", nil
	}

	name = "custom"
	if fallback == nil {
		fallback, name = legacyEncoding(data)
	}
	out, err := fallback.NewDecoder().Bytes(data)
	if err != nil {
		return "", name, fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
	}
	if !utf8.Valid(out) {
		return "", name, fmt.Errorf("%w: %s", ErrDecode, name)
	}
	return string(out), name, nil
}

// legacyEncoding 从 HEADER 段的 $DWGCODEPAGE 推断编码，未声明时按 GB18030
func legacyEncoding(data []byte) (encoding.Encoding, string) {
	page := strings.ToUpper(codePage(data))
	if enc, ok := codePages[page]; ok {
		return enc, page
	}
	return simplifiedchinese.GB18030, "GB18030"
}

// codePage 只扫描 HEADER 段，组码和变量名都是 ASCII，不需要先解码
func codePage(data []byte) string {
	s := core.NewScanner(bytes.NewReader(data))
	for s.Next() {
		t := s.LastTag
		if t.Is("ENDSEC") {
			return ""
		}
		if t.Code == 9 && strings.EqualFold(t.AsString(), "$DWGCODEPAGE") {
			if s.Next() {
				return s.LastTag.AsString()
			}
			return ""
		}
	}
	return ""
}
