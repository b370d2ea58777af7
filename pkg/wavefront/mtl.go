package wavefront

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Material is a single non-PBR material record from an MTL library.
// Map fields hold texture file paths exactly as written; an empty
// string means the map is unset. Decoding image data is the caller's
// concern.
type Material struct {
	Name string

	Ambient  mgl32.Vec3 // Ka
	Diffuse  mgl32.Vec3 // Kd
	Specular mgl32.Vec3 // Ks

	AmbientMap  string // map_Ka
	DiffuseMap  string // map_Kd
	SpecularMap string // map_Ks
	BumpMap     string // map_Bump

	Opacity         float32 // d
	SpecularExp     float32 // Ns
	RefractionIndex float32 // Ni
}

// NewMaterial returns a material with the format's defaults: opacity,
// specular exponent and refraction index all 1, colors zero, maps
// unset.
func NewMaterial(name string) *Material {
	return &Material{
		Name:            name,
		Opacity:         1,
		SpecularExp:     1,
		RefractionIndex: 1,
	}
}

// ParseMTL parses a material library from r.
func ParseMTL(r io.Reader) ([]*Material, error) {
	tok := newTokenizer(r)

	var materials []*Material
	var cur *Material

	for {
		token, term, err := tok.next()
		if err != nil {
			return nil, err
		}
		if token == "" {
			if term == eofTerm {
				return materials, nil
			}
			continue
		}

		switch {
		case token[0] == '#', token == "illum", token == "Tf":
			if !lineEnded(term) {
				if _, err := tok.restOfLine(); err != nil {
					return nil, err
				}
			}
		case token == "newmtl":
			name, err := lineArgument(tok, token, term)
			if err != nil {
				return nil, err
			}
			cur = NewMaterial(name)
			materials = append(materials, cur)
		case token == "Ka", token == "Kd", token == "Ks":
			if cur == nil {
				return nil, missingNewmtl(tok, token)
			}
			var c mgl32.Vec3
			for i := 0; i < 3; i++ {
				c[i], _, err = tok.nextFloat()
				if err != nil {
					return nil, err
				}
			}
			switch token {
			case "Ka":
				cur.Ambient = c
			case "Kd":
				cur.Diffuse = c
			case "Ks":
				cur.Specular = c
			}
		case token == "d", token == "Ns", token == "Ni":
			if cur == nil {
				return nil, missingNewmtl(tok, token)
			}
			v, _, err := tok.nextFloat()
			if err != nil {
				return nil, err
			}
			switch token {
			case "d":
				cur.Opacity = v
			case "Ns":
				cur.SpecularExp = v
			case "Ni":
				cur.RefractionIndex = v
			}
		case token == "map_Ka", token == "map_Kd", token == "map_Ks", token == "map_Bump":
			if cur == nil {
				return nil, missingNewmtl(tok, token)
			}
			path, err := lineArgument(tok, token, term)
			if err != nil {
				return nil, err
			}
			switch token {
			case "map_Ka":
				cur.AmbientMap = path
			case "map_Kd":
				cur.DiffuseMap = path
			case "map_Ks":
				cur.SpecularMap = path
			case "map_Bump":
				cur.BumpMap = path
			}
		default:
			return nil, fmt.Errorf("%w: line %d: %q", ErrUnsupportedCommand, tok.tokLine, token)
		}
	}
}

// ParseMTLFile opens and parses the material library at path. The file
// must carry a .mtl extension.
func ParseMTLFile(path string) ([]*Material, error) {
	if !strings.EqualFold(filepath.Ext(path), ".mtl") {
		return nil, fmt.Errorf("%w: %s is not a .mtl file", ErrInvalidFile, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()

	materials, err := ParseMTL(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return materials, nil
}

// lineArgument reads the rest of the line as a single trimmed argument
// (material name or map path), which must be non-empty.
func lineArgument(tok *tokenizer, command string, term byte) (string, error) {
	line := tok.tokLine
	if lineEnded(term) {
		return "", fmt.Errorf("%w: line %d: %s is missing its argument", ErrInvalidFile, line, command)
	}
	arg, err := tok.restOfLine()
	if err != nil {
		return "", err
	}
	if arg == "" {
		return "", fmt.Errorf("%w: line %d: %s is missing its argument", ErrInvalidFile, line, command)
	}
	return arg, nil
}

func missingNewmtl(tok *tokenizer, command string) error {
	return fmt.Errorf("%w: line %d: %q before newmtl", ErrInvalidFile, tok.tokLine, command)
}
