package utils

import (
	"strings"

	"github.com/zooyer/dxfview/entities"
)

// GetAttrs 块参照的属性，标签统一为大写
func GetAttrs(ins *entities.Insert) map[string]string {
	var attrs = make(map[string]string)
	for _, a := range ins.Attributes {
		attrs[strings.ToUpper(a.Tag)] = a.Text
	}

	return attrs
}

func GetAttr(ins *entities.Insert, key string) string {
	return GetAttrs(ins)[strings.ToUpper(key)]
}
