package wavefront

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// objParser carries the scratch state for one load call: the raw
// attribute pools, the meshes under construction and their dedup maps.
// Everything except the meshes is discarded when the call returns.
type objParser struct {
	tok *tokenizer

	// Raw attribute pools in file order, referenced 1-based by faces.
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	texCoords []mgl32.Vec2

	meshes     []*Mesh
	vertexMaps []*vertexMap

	activeMaterial string
	activeMesh     int // index into meshes, -1 right after a usemtl switch
}

// ParseOBJ parses OBJ geometry from r into one mesh per distinct
// material. Polygons are fan-triangulated around their first vertex,
// which is only correct for convex, consistently wound input; concave
// polygons silently produce wrong triangles.
func ParseOBJ(r io.Reader) ([]*Mesh, error) {
	p := &objParser{
		tok:        newTokenizer(r),
		activeMesh: -1,
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.meshes, nil
}

// ParseOBJFile opens and parses the OBJ file at path. The file must
// carry a .obj extension and contain at least one face.
func ParseOBJFile(path string) ([]*Mesh, error) {
	if !strings.EqualFold(filepath.Ext(path), ".obj") {
		return nil, fmt.Errorf("%w: %s is not a .obj file", ErrInvalidFile, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()

	meshes, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(meshes) == 0 {
		return nil, fmt.Errorf("%w: %s contains no faces", ErrInvalidFile, path)
	}
	return meshes, nil
}

// run is the main command loop: one token classifies each line.
func (p *objParser) run() error {
	for {
		token, term, err := p.tok.next()
		if err != nil {
			return err
		}
		if token == "" {
			if term == eofTerm {
				return nil
			}
			continue
		}

		switch {
		case token[0] == '#', token == "o", token == "g", token == "s", token == "mtllib":
			// Grouping and smoothing carry no semantics here, and
			// resolving mtllib paths is the caller's concern.
			if !lineEnded(term) {
				if _, err := p.tok.restOfLine(); err != nil {
					return err
				}
			}
		case token == "v":
			v, err := p.readVec3()
			if err != nil {
				return err
			}
			p.positions = append(p.positions, v)
		case token == "vn":
			v, err := p.readVec3()
			if err != nil {
				return err
			}
			p.normals = append(p.normals, v)
		case token == "vt":
			if err := p.readTexCoord(); err != nil {
				return err
			}
		case token == "f":
			if err := p.readFace(term); err != nil {
				return err
			}
		case token == "usemtl":
			if lineEnded(term) {
				return fmt.Errorf("%w: line %d: usemtl is missing a material name", ErrInvalidFile, p.tok.tokLine)
			}
			name, err := p.tok.restOfLine()
			if err != nil {
				return err
			}
			if name == "" {
				return fmt.Errorf("%w: line %d: usemtl is missing a material name", ErrInvalidFile, p.tok.tokLine)
			}
			p.activeMaterial = name
			p.activeMesh = -1
		default:
			return fmt.Errorf("%w: line %d: %q", ErrUnsupportedCommand, p.tok.tokLine, token)
		}
	}
}

func (p *objParser) readVec3() (mgl32.Vec3, error) {
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		f, _, err := p.tok.nextFloat()
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	return v, nil
}

// readTexCoord reads a texture coordinate. A third component is valid
// in the format but unused; it is read and discarded when present.
func (p *objParser) readTexCoord() error {
	var uv mgl32.Vec2
	var term byte
	for i := 0; i < 2; i++ {
		f, t, err := p.tok.nextFloat()
		if err != nil {
			return err
		}
		uv[i] = f
		term = t
	}

	for !lineEnded(term) {
		token, t, err := p.tok.next()
		if err != nil {
			return err
		}
		if token != "" {
			if _, perr := strconv.ParseFloat(token, 32); perr != nil {
				return fmt.Errorf("%w: line %d: malformed texture coordinate %q", ErrInvalidFile, p.tok.tokLine, token)
			}
			break
		}
		term = t
	}

	p.texCoords = append(p.texCoords, uv)
	return nil
}

// readFace parses the remaining vertex references on the line, routes
// them to a mesh and fan-triangulates: the first reference is the fixed
// pivot, and each consecutive pair emits one triangle.
func (p *objParser) readFace(term byte) error {
	line := p.tok.tokLine

	refTokens, err := p.lineTokens(term)
	if err != nil {
		return err
	}
	if len(refTokens) < 3 {
		return fmt.Errorf("%w: line %d: face needs at least 3 vertices, got %d", ErrInvalidFile, line, len(refTokens))
	}

	layout, err := sniffLayout(refTokens[0])
	if err != nil {
		return fmt.Errorf("line %d: %w", line, err)
	}

	refs := make([]vertexRef, len(refTokens))
	for i, rt := range refTokens {
		refs[i], err = p.parseRef(rt, layout)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}

	mesh, vmap, err := p.routeFace(layout, line)
	if err != nil {
		return err
	}

	for i := 2; i < len(refs); i++ {
		if err := p.emitTriangle(mesh, vmap, refs[0], refs[i-1], refs[i]); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return nil
}

// lineTokens collects the remaining tokens on the current line.
func (p *objParser) lineTokens(term byte) ([]string, error) {
	var tokens []string
	for !lineEnded(term) {
		token, t, err := p.tok.next()
		if err != nil {
			return nil, err
		}
		if token != "" {
			tokens = append(tokens, token)
		}
		term = t
	}
	return tokens, nil
}

// sniffLayout determines the attribute layout from the slash pattern of
// a vertex reference: i, i/j, i//k or i/j/k.
func sniffLayout(token string) (VertexLayout, error) {
	parts := strings.Split(token, "/")
	if parts[0] == "" {
		return 0, fmt.Errorf("%w: vertex reference %q has no position index", ErrInvalidFile, token)
	}
	switch len(parts) {
	case 1:
		return LayoutPosition, nil
	case 2:
		if parts[1] == "" {
			break
		}
		return LayoutPositionTexCoord, nil
	case 3:
		if parts[2] == "" {
			break
		}
		if parts[1] == "" {
			return LayoutPositionNormal, nil
		}
		return LayoutPositionTexCoordNormal, nil
	}
	return 0, fmt.Errorf("%w: malformed vertex reference %q", ErrInvalidFile, token)
}

// parseRef resolves one vertex reference against the current pool
// sizes. Every reference in a face must match the layout sniffed from
// the first one.
func (p *objParser) parseRef(token string, layout VertexLayout) (vertexRef, error) {
	var ref vertexRef

	refLayout, err := sniffLayout(token)
	if err != nil {
		return ref, err
	}
	if refLayout != layout {
		return ref, fmt.Errorf("%w: vertex reference %q does not match face format %s", ErrInvalidFile, token, layout)
	}

	parts := strings.Split(token, "/")
	ref.pos, err = resolveIndex(parts[0], len(p.positions))
	if err != nil {
		return ref, err
	}
	if layout.HasTexCoord() {
		ref.texCoord, err = resolveIndex(parts[1], len(p.texCoords))
		if err != nil {
			return ref, err
		}
	}
	if layout.HasNormal() {
		ref.normal, err = resolveIndex(parts[2], len(p.normals))
		if err != nil {
			return ref, err
		}
	}
	return ref, nil
}

// resolveIndex turns a 1-based (or negative, relative to the current
// end of the pool) index into a validated 1-based index. Index 0 never
// denotes a real entry.
func resolveIndex(token string, poolLen int) (int32, error) {
	idx, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed index %q", ErrInvalidFile, token)
	}
	if idx < 0 {
		idx += poolLen + 1
	}
	if idx < 1 || idx > poolLen {
		return 0, fmt.Errorf("%w: index %s out of range [1, %d]", ErrInvalidFile, token, poolLen)
	}
	return int32(idx), nil
}

// routeFace returns the mesh the face belongs to. With no active mesh
// (right after a usemtl switch) existing meshes are scanned first, so a
// file that toggles back to an earlier material keeps extending the
// mesh created for it; otherwise a fresh mesh with a fresh dedup map is
// created.
func (p *objParser) routeFace(layout VertexLayout, line int) (*Mesh, *vertexMap, error) {
	if p.activeMesh < 0 {
		for i, m := range p.meshes {
			if m.Material == p.activeMaterial {
				p.activeMesh = i
				break
			}
		}
	}
	if p.activeMesh < 0 {
		p.meshes = append(p.meshes, newMesh(layout, p.activeMaterial))
		p.vertexMaps = append(p.vertexMaps, newVertexMap())
		p.activeMesh = len(p.meshes) - 1
	}

	mesh := p.meshes[p.activeMesh]
	if mesh.Layout != layout {
		return nil, nil, fmt.Errorf("%w: line %d: face format %s does not match mesh format %s for material %q",
			ErrInvalidFile, line, layout, mesh.Layout, mesh.Material)
	}
	return mesh, p.vertexMaps[p.activeMesh], nil
}

// emitTriangle appends one triangle, deduplicating each corner through
// the mesh's vertex map. A reference seen before reuses its emitted
// vertex; a new one appends interleaved data from the raw pools.
func (p *objParser) emitTriangle(mesh *Mesh, vmap *vertexMap, a, b, c vertexRef) error {
	for _, ref := range [3]vertexRef{a, b, c} {
		count := mesh.VertexCount()
		if uint64(count) >= math.MaxUint32 {
			return fmt.Errorf("%w: vertex count exceeds index range", ErrOutOfMemory)
		}
		idx := vmap.getOrInsert(ref, uint32(count))
		if idx == uint32(count) {
			p.appendVertex(mesh, ref)
		}
		mesh.Indices = append(mesh.Indices, idx)
	}
	return nil
}

// appendVertex interleaves the referenced pool data onto the mesh's
// vertex buffer in layout order: position, then normal, then texture
// coordinate.
func (p *objParser) appendVertex(mesh *Mesh, ref vertexRef) {
	pos := p.positions[ref.pos-1]
	mesh.Vertices = append(mesh.Vertices, pos[0], pos[1], pos[2])
	if mesh.Layout.HasNormal() {
		n := p.normals[ref.normal-1]
		mesh.Vertices = append(mesh.Vertices, n[0], n[1], n[2])
	}
	if mesh.Layout.HasTexCoord() {
		uv := p.texCoords[ref.texCoord-1]
		mesh.Vertices = append(mesh.Vertices, uv[0], uv[1])
	}
}
