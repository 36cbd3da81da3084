package descriptor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDescriptor(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.TXT")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadBlocks(t *testing.T) {
	path := writeDescriptor(t, "<frame>\nbody:root:(0,1,0)\nhead:body:(0,2,0)\n</>\n<skin>\n1,1,1,1,1,1,1:female.body\n</>\n")

	d, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"frame", "skin"}, d.Order)
	assert.Equal(t, []string{"body:root:(0,1,0)", "head:body:(0,2,0)"}, d.Block("frame"))
	assert.True(t, d.HasBlock("skin"))
	assert.False(t, d.HasBlock("defaultcos"))
	assert.Nil(t, d.Block("defaultcos"))
}

func TestLoadPreservesLinesVerbatim(t *testing.T) {
	path := writeDescriptor(t, "<blazer_vp>\n  body:female.blazer\nDynamicVisual:\nbody:0:(0,0,0):(1,2,3)\n</>\n")

	d, err := Load(path)
	require.NoError(t, err)

	lines := d.Block("blazer_vp")
	require.Len(t, lines, 3)
	assert.Equal(t, "  body:female.blazer", lines[0], "leading whitespace must survive")
	assert.Equal(t, "body:0:(0,0,0):(1,2,3)", lines[2])
}

func TestLoadCRLF(t *testing.T) {
	path := writeDescriptor(t, "<frame>\r\nbody:root:(0,0,0)\r\n</>\r\n")

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"body:root:(0,0,0)"}, d.Block("frame"))
}

func TestLoadUnterminatedBlockDropped(t *testing.T) {
	path := writeDescriptor(t, "<frame>\nbody:root:(0,0,0)\n</>\n<broken>\nsome line\n")

	d, err := Load(path)
	require.NoError(t, err)
	assert.True(t, d.HasBlock("frame"))
	assert.False(t, d.HasBlock("broken"), "a block without </> never closes")
}

func TestLoadContentOutsideBlocksIgnored(t *testing.T) {
	path := writeDescriptor(t, "stray line\n<frame>\nbody:root:(0,0,0)\n</>\ntrailing line\n")

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"frame"}, d.Order)
	assert.Len(t, d.Block("frame"), 1)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.TXT"))
	assert.Error(t, err)
}

func TestTuple3(t *testing.T) {
	v, err := Tuple3("(1.5, -2, 0.25)")
	require.NoError(t, err)
	assert.InDelta(t, 1.5, v[0], 1e-9)
	assert.InDelta(t, -2.0, v[1], 1e-9)
	assert.InDelta(t, 0.25, v[2], 1e-9)
}

func TestTuple3Errors(t *testing.T) {
	for _, field := range []string{"", "1,2,3", "(1,2)", "(1,2,3,4)", "(a,b,c)"} {
		_, err := Tuple3(field)
		assert.Error(t, err, "field %q", field)
	}
}

func TestTuple2Lenient(t *testing.T) {
	assert.Equal(t, [2]float64{0.5, 0.75}, Tuple2("(0.5,0.75)"))
	assert.Equal(t, [2]float64{0.5, 0}, Tuple2("(0.5)"))
	assert.Equal(t, [2]float64{0.5, 0.75}, Tuple2("(0.5,0.75,9)"))
	assert.Equal(t, [2]float64{}, Tuple2("(x,y)"))
}
