// Package convert turns parsed wavefront geometry into glTF 2.0
// documents.
package convert

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"

	"github.com/Faultbox/objkit/pkg/wavefront"
)

const gltfVersion = "2.0"

const floatSize = 4

// BuildDocument assembles a glTF document from parsed meshes and an
// optional material library. Meshes keep their interleaved vertex
// buffers; each becomes one glTF mesh with a single triangle
// primitive. Materials are matched to meshes by name, and texture maps
// are referenced by URI rather than embedded.
func BuildDocument(meshes []*wavefront.Mesh, materials []*wavefront.Material) (*gltf.Document, error) {
	if len(meshes) == 0 {
		return nil, fmt.Errorf("no meshes to convert")
	}

	doc := newDocument()

	for _, mesh := range meshes {
		if err := appendMesh(doc, mesh, materials); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

func newDocument() *gltf.Document {
	doc := &gltf.Document{}
	doc.Asset.Version = gltfVersion
	doc.Asset.Generator = "objtool"
	scene := uint32(0)
	doc.Scene = &scene
	doc.Scenes = append(doc.Scenes, &gltf.Scene{})
	doc.Buffers = append(doc.Buffers, &gltf.Buffer{})
	return doc
}

func appendMesh(doc *gltf.Document, mesh *wavefront.Mesh, materials []*wavefront.Material) error {
	if mesh.VertexCount() == 0 {
		return fmt.Errorf("mesh %q has no vertices", mesh.Material)
	}

	buffer := doc.Buffers[0]
	buf := bytes.NewBuffer(nil)
	stride := mesh.Layout.Stride()

	// Interleaved vertex data in one view, indices in a second.
	vertexView := uint32(len(doc.BufferViews))
	binary.Write(buf, binary.LittleEndian, mesh.Vertices)
	doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{
		Buffer:     0,
		ByteOffset: buffer.ByteLength,
		ByteLength: uint32(len(mesh.Vertices) * floatSize),
		ByteStride: uint32(stride * floatSize),
	})

	indexView := uint32(len(doc.BufferViews))
	binary.Write(buf, binary.LittleEndian, mesh.Indices)
	doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{
		Buffer:     0,
		ByteOffset: buffer.ByteLength + uint32(len(mesh.Vertices)*floatSize),
		ByteLength: uint32(len(mesh.Indices) * 4),
	})

	buffer.ByteLength += uint32(buf.Len())
	buffer.Data = append(buffer.Data, buf.Bytes()...)

	attrs := make(gltf.Attribute)

	posMin, posMax := positionBounds(mesh)
	posAcc := &gltf.Accessor{
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec3,
		Count:         uint32(mesh.VertexCount()),
		BufferView:    &vertexView,
		Min:           posMin[:],
		Max:           posMax[:],
	}
	attrs["POSITION"] = uint32(len(doc.Accessors))
	doc.Accessors = append(doc.Accessors, posAcc)

	if mesh.Layout.HasNormal() {
		normAcc := &gltf.Accessor{
			ComponentType: gltf.ComponentFloat,
			Type:          gltf.AccessorVec3,
			Count:         uint32(mesh.VertexCount()),
			ByteOffset:    uint32(mesh.Layout.NormalOffset() * floatSize),
			BufferView:    &vertexView,
		}
		attrs["NORMAL"] = uint32(len(doc.Accessors))
		doc.Accessors = append(doc.Accessors, normAcc)
	}

	if mesh.Layout.HasTexCoord() {
		texAcc := &gltf.Accessor{
			ComponentType: gltf.ComponentFloat,
			Type:          gltf.AccessorVec2,
			Count:         uint32(mesh.VertexCount()),
			ByteOffset:    uint32(mesh.Layout.TexCoordOffset() * floatSize),
			BufferView:    &vertexView,
		}
		attrs["TEXCOORD_0"] = uint32(len(doc.Accessors))
		doc.Accessors = append(doc.Accessors, texAcc)
	}

	indexAcc := &gltf.Accessor{
		ComponentType: gltf.ComponentUint,
		Count:         uint32(len(mesh.Indices)),
		BufferView:    &indexView,
	}
	indices := uint32(len(doc.Accessors))
	doc.Accessors = append(doc.Accessors, indexAcc)

	primitive := &gltf.Primitive{
		Mode:       gltf.PrimitiveTriangles,
		Attributes: attrs,
		Indices:    &indices,
	}
	if mat := findMaterial(materials, mesh.Material); mat != nil {
		id := appendMaterial(doc, mat)
		primitive.Material = &id
	}

	meshID := uint32(len(doc.Meshes))
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name:       mesh.Material,
		Primitives: []*gltf.Primitive{primitive},
	})

	nodeID := uint32(len(doc.Nodes))
	doc.Nodes = append(doc.Nodes, &gltf.Node{Mesh: &meshID})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, nodeID)

	return nil
}

// positionBounds computes the axis-aligned bounds over the interleaved
// vertex buffer. Positions always sit at the start of each stride.
func positionBounds(mesh *wavefront.Mesh) (mgl32.Vec3, mgl32.Vec3) {
	stride := mesh.Layout.Stride()
	min := mgl32.Vec3{mesh.Vertices[0], mesh.Vertices[1], mesh.Vertices[2]}
	max := min

	for i := stride; i < len(mesh.Vertices); i += stride {
		for c := 0; c < 3; c++ {
			v := mesh.Vertices[i+c]
			mgl32.SetMin(&min[c], &v)
			mgl32.SetMax(&max[c], &v)
		}
	}
	return min, max
}

func findMaterial(materials []*wavefront.Material, name string) *wavefront.Material {
	for _, mat := range materials {
		if mat.Name == name {
			return mat
		}
	}
	return nil
}

// appendMaterial adds a glTF material derived from an MTL record. The
// diffuse color and opacity become the base color factor; a diffuse
// map becomes a URI-referenced base color texture.
func appendMaterial(doc *gltf.Document, mat *wavefront.Material) uint32 {
	// Meshes sharing a material reuse the earlier entry.
	for i, existing := range doc.Materials {
		if existing.Name == mat.Name {
			return uint32(i)
		}
	}

	gm := &gltf.Material{Name: mat.Name}
	gm.PBRMetallicRoughness = &gltf.PBRMetallicRoughness{
		BaseColorFactor: &[4]float32{
			mat.Diffuse.X(), mat.Diffuse.Y(), mat.Diffuse.Z(), mat.Opacity,
		},
	}
	if mat.Opacity < 1 {
		gm.AlphaMode = gltf.AlphaBlend
	}

	if mat.DiffuseMap != "" {
		sampler := uint32(len(doc.Samplers))
		doc.Samplers = append(doc.Samplers, &gltf.Sampler{
			WrapS: gltf.WrapRepeat,
			WrapT: gltf.WrapRepeat,
		})

		image := uint32(len(doc.Images))
		doc.Images = append(doc.Images, &gltf.Image{URI: mat.DiffuseMap})

		texture := uint32(len(doc.Textures))
		doc.Textures = append(doc.Textures, &gltf.Texture{
			Sampler: &sampler,
			Source:  &image,
		})
		gm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: texture}
	}

	id := uint32(len(doc.Materials))
	doc.Materials = append(doc.Materials, gm)
	return id
}

// Write saves the document as .gltf JSON, or as a single-file .glb
// when asBinary is set.
func Write(doc *gltf.Document, path string, asBinary bool) error {
	if asBinary {
		return gltf.SaveBinary(doc, path)
	}
	return gltf.Save(doc, path)
}
