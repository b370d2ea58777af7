package convert

import (
	"strings"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/objkit/pkg/wavefront"
)

const triangleOBJ = `v 0 0 0
v 2 0 0
v 0 3 0
vn 0 0 1
vt 0 0
vt 1 0
vt 0 1
f 1/1/1 2/2/1 3/3/1
`

func parseMeshes(t *testing.T, src string) []*wavefront.Mesh {
	t.Helper()
	meshes, err := wavefront.ParseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	return meshes
}

func TestBuildDocument_Triangle(t *testing.T) {
	meshes := parseMeshes(t, triangleOBJ)

	doc, err := BuildDocument(meshes, nil)
	if err != nil {
		t.Fatalf("BuildDocument failed: %v", err)
	}

	if doc.Asset.Version != "2.0" {
		t.Errorf("asset version = %q, want 2.0", doc.Asset.Version)
	}
	if len(doc.Meshes) != 1 {
		t.Fatalf("mesh count = %d, want 1", len(doc.Meshes))
	}
	if len(doc.Nodes) != 1 || len(doc.Scenes) != 1 || len(doc.Scenes[0].Nodes) != 1 {
		t.Error("expected one node wired into one scene")
	}

	prim := doc.Meshes[0].Primitives[0]
	if prim.Mode != gltf.PrimitiveTriangles {
		t.Errorf("primitive mode = %v, want triangles", prim.Mode)
	}
	for _, attr := range []string{"POSITION", "NORMAL", "TEXCOORD_0"} {
		if _, ok := prim.Attributes[attr]; !ok {
			t.Errorf("missing %s attribute", attr)
		}
	}
	if prim.Indices == nil {
		t.Fatal("primitive has no index accessor")
	}

	// One interleaved vertex view plus one index view.
	if len(doc.BufferViews) != 2 {
		t.Fatalf("buffer view count = %d, want 2", len(doc.BufferViews))
	}
	stride := meshes[0].Layout.Stride()
	if doc.BufferViews[0].ByteStride != uint32(stride*4) {
		t.Errorf("vertex view stride = %d, want %d", doc.BufferViews[0].ByteStride, stride*4)
	}

	wantBytes := uint32(len(meshes[0].Vertices)*4 + len(meshes[0].Indices)*4)
	if doc.Buffers[0].ByteLength != wantBytes {
		t.Errorf("buffer length = %d, want %d", doc.Buffers[0].ByteLength, wantBytes)
	}
	if uint32(len(doc.Buffers[0].Data)) != wantBytes {
		t.Errorf("buffer data length = %d, want %d", len(doc.Buffers[0].Data), wantBytes)
	}

	idxAcc := doc.Accessors[*prim.Indices]
	if idxAcc.ComponentType != gltf.ComponentUint || idxAcc.Count != 3 {
		t.Errorf("index accessor = %v/%d, want uint/3", idxAcc.ComponentType, idxAcc.Count)
	}
}

func TestBuildDocument_PositionBounds(t *testing.T) {
	meshes := parseMeshes(t, triangleOBJ)

	doc, err := BuildDocument(meshes, nil)
	if err != nil {
		t.Fatalf("BuildDocument failed: %v", err)
	}

	pos := doc.Accessors[doc.Meshes[0].Primitives[0].Attributes["POSITION"]]
	wantMin := []float32{0, 0, 0}
	wantMax := []float32{2, 3, 0}
	for i := 0; i < 3; i++ {
		if pos.Min[i] != wantMin[i] {
			t.Errorf("min[%d] = %v, want %v", i, pos.Min[i], wantMin[i])
		}
		if pos.Max[i] != wantMax[i] {
			t.Errorf("max[%d] = %v, want %v", i, pos.Max[i], wantMax[i])
		}
	}
}

func TestBuildDocument_NormalAndTexCoordOffsets(t *testing.T) {
	meshes := parseMeshes(t, triangleOBJ)

	doc, err := BuildDocument(meshes, nil)
	if err != nil {
		t.Fatalf("BuildDocument failed: %v", err)
	}

	attrs := doc.Meshes[0].Primitives[0].Attributes
	layout := meshes[0].Layout

	norm := doc.Accessors[attrs["NORMAL"]]
	if norm.ByteOffset != uint32(layout.NormalOffset()*4) {
		t.Errorf("normal offset = %d, want %d", norm.ByteOffset, layout.NormalOffset()*4)
	}
	tex := doc.Accessors[attrs["TEXCOORD_0"]]
	if tex.ByteOffset != uint32(layout.TexCoordOffset()*4) {
		t.Errorf("texcoord offset = %d, want %d", tex.ByteOffset, layout.TexCoordOffset()*4)
	}
	if tex.Type != gltf.AccessorVec2 {
		t.Errorf("texcoord type = %v, want vec2", tex.Type)
	}
}

func TestBuildDocument_Materials(t *testing.T) {
	const src = `v 0 0 0
v 1 0 0
v 0 1 0
usemtl glass
f 1 2 3
`
	meshes := parseMeshes(t, src)

	glass := wavefront.NewMaterial("glass")
	glass.Diffuse = [3]float32{0.2, 0.4, 0.8}
	glass.Opacity = 0.5
	glass.DiffuseMap = "glass_albedo.png"

	doc, err := BuildDocument(meshes, []*wavefront.Material{glass})
	if err != nil {
		t.Fatalf("BuildDocument failed: %v", err)
	}

	prim := doc.Meshes[0].Primitives[0]
	if prim.Material == nil {
		t.Fatal("primitive has no material")
	}

	gm := doc.Materials[*prim.Material]
	if gm.Name != "glass" {
		t.Errorf("material name = %q, want glass", gm.Name)
	}
	want := [4]float32{0.2, 0.4, 0.8, 0.5}
	if *gm.PBRMetallicRoughness.BaseColorFactor != want {
		t.Errorf("base color = %v, want %v", *gm.PBRMetallicRoughness.BaseColorFactor, want)
	}
	if gm.AlphaMode != gltf.AlphaBlend {
		t.Errorf("alpha mode = %v, want blend", gm.AlphaMode)
	}

	if gm.PBRMetallicRoughness.BaseColorTexture == nil {
		t.Fatal("expected a base color texture")
	}
	texIdx := gm.PBRMetallicRoughness.BaseColorTexture.Index
	imgIdx := *doc.Textures[texIdx].Source
	if doc.Images[imgIdx].URI != "glass_albedo.png" {
		t.Errorf("image URI = %q, want glass_albedo.png", doc.Images[imgIdx].URI)
	}
}

func TestBuildDocument_SharedMaterialReused(t *testing.T) {
	const src = `v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
usemtl paint
f 1 2 3
usemtl other
f 2 3 4
usemtl paint
f 1 3 4
`
	meshes := parseMeshes(t, src)
	if len(meshes) != 2 {
		t.Fatalf("mesh count = %d, want 2", len(meshes))
	}

	materials := []*wavefront.Material{
		wavefront.NewMaterial("paint"),
		wavefront.NewMaterial("other"),
	}

	doc, err := BuildDocument(meshes, materials)
	if err != nil {
		t.Fatalf("BuildDocument failed: %v", err)
	}

	if len(doc.Materials) != 2 {
		t.Errorf("document material count = %d, want 2", len(doc.Materials))
	}
}

func TestBuildDocument_UnknownMaterialLeftUnset(t *testing.T) {
	const src = `v 0 0 0
v 1 0 0
v 0 1 0
usemtl missing
f 1 2 3
`
	meshes := parseMeshes(t, src)

	doc, err := BuildDocument(meshes, nil)
	if err != nil {
		t.Fatalf("BuildDocument failed: %v", err)
	}
	if doc.Meshes[0].Primitives[0].Material != nil {
		t.Error("expected primitive without material")
	}
}

func TestBuildDocument_NoMeshes(t *testing.T) {
	if _, err := BuildDocument(nil, nil); err == nil {
		t.Error("expected error for empty input")
	}
}
