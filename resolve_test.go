package dxf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/matrix"

	"github.com/zooyer/dxfview/core"
	"github.com/zooyer/dxfview/entities"
)

// 块 A 引用 B，B 又引用 A
var cyclicBlocks = section("BLOCKS", tags(
	"0", "BLOCK", "2", "A", "70", "0", "10", "0", "20", "0", "30", "0",
	"0", "LINE", "10", "0", "20", "0", "11", "1", "21", "0",
	"0", "INSERT", "2", "B", "10", "1", "20", "0",
	"0", "ENDBLK",
	"0", "BLOCK", "2", "B", "70", "0", "10", "0", "20", "0", "30", "0",
	"0", "INSERT", "2", "A", "10", "1", "20", "0",
	"0", "ENDBLK",
))

func TestWalk_CyclicBlocks(t *testing.T) {
	doc := load(t, document(cyclicBlocks, section("ENTITIES", tags(
		"0", "INSERT", "2", "a", "10", "0", "20", "0",
	))))

	var xs []float64
	doc.Walk(func(e entities.Entity, m matrix.Matrix) {
		line, ok := e.(*entities.Line)
		require.True(t, ok)
		xs = append(xs, doc.ToOriginal(core.Apply(m, line.Start)).X)
	}, 4)
	require.Len(t, xs, 2)
	assert.InDelta(t, 0, xs[0], eps)
	assert.InDelta(t, 2, xs[1], eps)

	// 默认深度 20：A 展开 10 次
	xs = xs[:0]
	doc.Walk(func(e entities.Entity, m matrix.Matrix) { xs = append(xs, 0) }, 0)
	assert.Len(t, xs, 10)
	assert.InDelta(t, 19, doc.Extents.Width(), eps)
}

func TestInstances_Array(t *testing.T) {
	doc := load(t, document(
		section("BLOCKS", tags(
			"0", "BLOCK", "2", "P", "10", "0", "20", "0", "30", "0",
			"0", "POINT", "10", "0", "20", "0",
			"0", "ENDBLK",
		)),
		section("ENTITIES", tags(
			"0", "INSERT", "2", "P", "10", "0", "20", "0",
			"70", "3", "71", "2", "44", "10", "45", "5",
		)),
	))

	ins := doc.Entities[0]
	assert.Len(t, doc.Instances(ins, matrix.Identity), 6)
	assert.InDelta(t, 20, doc.Extents.Width(), eps)
	assert.InDelta(t, 5, doc.Extents.Height(), eps)
}

func TestInstances_Transform(t *testing.T) {
	doc := load(t, document(
		section("BLOCKS", tags(
			"0", "BLOCK", "2", "L", "10", "1", "20", "0", "30", "0",
			"0", "LINE", "10", "1", "20", "0", "11", "3", "21", "0",
			"0", "ENDBLK",
		)),
		section("ENTITIES", tags(
			// 基点 (1,0)，缩放 2，旋转 90°
			"0", "INSERT", "2", "L", "10", "10", "20", "10", "41", "2", "42", "2", "50", "90",
		)),
	))

	box := doc.Extents.Translate(doc.Offset)
	assert.InDelta(t, 10, box.Min.X, 1e-6)
	assert.InDelta(t, 10, box.Max.X, 1e-6)
	assert.InDelta(t, 10, box.Min.Y, 1e-6)
	assert.InDelta(t, 14, box.Max.Y, 1e-6)
}

func TestInstances_MirroredInsert(t *testing.T) {
	doc := load(t, document(
		section("BLOCKS", tags(
			"0", "BLOCK", "2", "L", "10", "0", "20", "0", "30", "0",
			"0", "LINE", "10", "0", "20", "0", "11", "1", "21", "0",
			"0", "ENDBLK",
		)),
		section("ENTITIES", tags(
			"0", "INSERT", "2", "L", "10", "5", "20", "0",
			"210", "0", "220", "0", "230", "-1",
		)),
	))

	box := doc.Extents.Translate(doc.Offset)
	assert.InDelta(t, -6, box.Min.X, 1e-6)
	assert.InDelta(t, -5, box.Max.X, 1e-6)
}

func TestInstances_DimensionAndTable(t *testing.T) {
	doc := load(t, document(
		section("TABLES", tags(
			"0", "TABLE", "2", "BLOCK_RECORD",
			"0", "BLOCK_RECORD", "5", "1A", "2", "*T1",
			"0", "ENDTAB",
		)),
		section("BLOCKS", tags(
			"0", "BLOCK", "2", "*D1", "10", "0", "20", "0", "30", "0",
			"0", "LINE", "10", "0", "20", "0", "11", "4", "21", "0",
			"0", "ENDBLK",
			"0", "BLOCK", "2", "*T1", "10", "0", "20", "0", "30", "0",
			"0", "LINE", "10", "0", "20", "0", "11", "0", "21", "2",
			"0", "ENDBLK",
		)),
		section("ENTITIES", tags(
			"0", "DIMENSION", "2", "*D1", "70", "0", "42", "4",
			"10", "0", "20", "1", "13", "0", "23", "0", "14", "4", "24", "0",
			"0", "ACAD_TABLE", "343", "1a", "10", "10", "20", "0", "11", "1", "21", "0",
		)),
	))
	require.Len(t, doc.Entities, 2)

	// 标注块在偏移后仍与原始几何一致
	dim := doc.EntityExtents(doc.Entities[0]).Translate(doc.Offset)
	assert.InDelta(t, 0, dim.Min.X, eps)
	assert.InDelta(t, 4, dim.Max.X, eps)
	assert.InDelta(t, 0, dim.Max.Y, eps)

	table := doc.EntityExtents(doc.Entities[1]).Translate(doc.Offset)
	assert.InDelta(t, 10, table.Min.X, eps)
	assert.InDelta(t, 2, table.Max.Y, eps)
}

func TestInstances_MissingBlock(t *testing.T) {
	doc := load(t, document(section("ENTITIES", tags(
		"0", "INSERT", "2", "NOPE", "10", "3", "20", "3",
		"0", "LINE", "10", "0", "20", "0", "11", "1", "21", "0",
	))))
	assert.Nil(t, doc.Instances(doc.Entities[0], matrix.Identity))
	assert.True(t, doc.EntityExtents(doc.Entities[0]).IsEmpty())
	assert.InDelta(t, 1, doc.Extents.Width(), eps)
}
