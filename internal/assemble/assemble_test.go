package assemble

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"figure-assembler/internal/diag"
	"figure-assembler/internal/mathutil"
	"figure-assembler/internal/mesh"
)

const cielDescriptor = `<frame>
body::(0,10,0)
head:body:(0,5,0)
waist:body:(0,-2,0)
l_arm:body:(2,3,0)
r_arm:body:(-2,3,0)
</>
<skin>
1,1,1,1,1,1,1:female.body
</>
<defaultcos>
ciel.blazer
</>
<blazer>
0,3,3,0,0,0,0:ciel.blazer_vp
</>
<blazer_vp>
body:ciel.blazer
DynamicVisual:
body:0:(0,0,0):(0,0,0)
body:1:(1,0,0):(1,0,0)
waist:2:(0,-1,0):(0,-1,0)
waist:3:(1,-1,0):(1,-1,0)
FaceArray:
0,1,2:0
1,3,2:0
</>
<orphan_vp>
DynamicVisual:
body:0:(0,0,1):(0,0,1)
body:1:(1,0,1):(1,0,1)
body:2:(0,1,1):(0,1,1)
FaceArray:
0,1,2:0
</>
`

const femaleDescriptor = `<body>
body:female.body
</>
`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ciel.TXT"), []byte(cielDescriptor), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "female.TXT"), []byte(femaleDescriptor), 0644))
	return dir
}

func fakeLoader() mesh.Loader {
	meshes := map[string]*mesh.Mesh{
		"female.body": {
			Vertices: []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}},
			Faces:    [][3]int{{0, 1, 0}},
		},
		"ciel.blazer": {
			Vertices: []mathutil.Vec3{{0, 0, 0}},
		},
	}
	return mesh.LoaderFunc(func(resourceID string) (*mesh.Mesh, error) {
		if m, ok := meshes[resourceID]; ok {
			return m, nil
		}
		return nil, mesh.ErrNotFound
	})
}

func TestAssemble(t *testing.T) {
	dir := writeFixture(t)
	collector := diag.NewCollector()

	res, err := Assemble(filepath.Join(dir, "ciel.TXT"), Options{
		Loader: fakeLoader(),
		Sink:   collector,
	})
	require.NoError(t, err)

	assert.Len(t, res.Bones, 5)
	assert.Equal(t, mathutil.Vec3{0, 15, 0}, res.World["head"])
	assert.Equal(t, mathutil.Vec3{0, 8, 0}, res.World["waist"])

	var ids []string
	for _, a := range res.Attachments {
		ids = append(ids, a.ResourceID)
	}
	assert.Equal(t, []string{"female.body", "ciel.blazer"}, ids, "skin keeps uncontested slots, blazer wins body and arms")

	// blazer_vp splits into body and waist groups, orphan_vp adds one more.
	require.Len(t, res.Connectors, 3)
	bySource := make(map[string]int)
	for _, c := range res.Connectors {
		bySource[c.Source]++
	}
	assert.Equal(t, 2, bySource["blazer_vp"])
	assert.Equal(t, 1, bySource["orphan_vp"])

	assert.Len(t, collector.ByKind(diag.OrphanConnector), 1)
}

func TestAssembleWithoutLoader(t *testing.T) {
	dir := writeFixture(t)

	res, err := Assemble(filepath.Join(dir, "ciel.TXT"), Options{})
	require.NoError(t, err)

	// No loader means no pool and no verification, but attachments and
	// connectors still come out.
	assert.Len(t, res.Attachments, 2)
	assert.Len(t, res.Connectors, 3)
}

func TestAssembleMissingResourceSkipsAttachment(t *testing.T) {
	dir := writeFixture(t)
	collector := diag.NewCollector()

	loader := mesh.LoaderFunc(func(resourceID string) (*mesh.Mesh, error) {
		return nil, mesh.ErrNotFound
	})
	res, err := Assemble(filepath.Join(dir, "ciel.TXT"), Options{Loader: loader, Sink: collector})
	require.NoError(t, err)

	assert.Empty(t, res.Attachments)
	assert.Len(t, collector.ByKind(diag.MissingMeshResource), 2)
}

func TestAssembleMissingDescriptor(t *testing.T) {
	_, err := Assemble(filepath.Join(t.TempDir(), "nope.TXT"), Options{})
	assert.Error(t, err)
}

func TestAssembleDeterministicJSON(t *testing.T) {
	dir := writeFixture(t)
	descPath := filepath.Join(dir, "ciel.TXT")

	out1 := filepath.Join(dir, "a.json")
	out2 := filepath.Join(dir, "b.json")

	res1, err := Assemble(descPath, Options{Loader: fakeLoader()})
	require.NoError(t, err)
	require.NoError(t, res1.WriteJSON(out1))

	res2, err := Assemble(descPath, Options{Loader: fakeLoader()})
	require.NoError(t, err)
	require.NoError(t, res2.WriteJSON(out2))

	b1, err := os.ReadFile(out1)
	require.NoError(t, err)
	b2, err := os.ReadFile(out2)
	require.NoError(t, err)
	assert.Equal(t, b1, b2, "same input, byte-identical output")
}

func TestRunBatch(t *testing.T) {
	dir := writeFixture(t)
	outDir := filepath.Join(dir, "out")

	cfg := BatchConfig{
		OutputDir: outDir,
		Options:   Options{Loader: fakeLoader()},
		Workers:   2,
	}
	results := RunBatch(cfg, []string{
		filepath.Join(dir, "ciel.TXT"),
		filepath.Join(dir, "missing.TXT"),
	})

	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.NotEmpty(t, results[1].Error)

	_, err := os.Stat(filepath.Join(outDir, "ciel.json"))
	assert.NoError(t, err)

	require.NoError(t, WriteManifest(filepath.Join(outDir, "manifest.json"), results, false))
	data, err := os.ReadFile(filepath.Join(outDir, "manifest.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ciel.json"`)
}
