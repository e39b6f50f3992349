package obj

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultMaterialName is used for faces without a usemtl statement.
const DefaultMaterialName = "default"

// Material is one newmtl block of an MTL file. Map paths are resolved
// against the directory of the MTL file.
type Material struct {
	Name      string
	Ambient   mgl32.Vec3 // Ka
	Diffuse   mgl32.Vec3 // Kd
	Specular  mgl32.Vec3 // Ks
	Shininess float32    // Ns
	Dissolve  float32    // d, 1 is opaque

	AmbientMap  string
	DiffuseMap  string
	SpecularMap string
	BumpMap     string
}

// DefaultMaterial returns a light grey material named name.
func DefaultMaterial(name string) Material {
	return Material{
		Name:      name,
		Ambient:   mgl32.Vec3{0.2, 0.2, 0.2},
		Diffuse:   mgl32.Vec3{0.8, 0.8, 0.8},
		Specular:  mgl32.Vec3{1, 1, 1},
		Shininess: 32,
		Dissolve:  1,
	}
}

// ParseMTL reads every material in r. dir is prefixed to texture map paths.
func ParseMTL(r io.Reader, dir string) (map[string]Material, error) {
	materials := make(map[string]Material)
	var cur *Material

	flush := func() {
		if cur != nil {
			materials[cur.Name] = *cur
		}
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		parts := strings.Fields(stripComment(scanner.Text()))
		if len(parts) == 0 {
			continue
		}

		key := parts[0]
		if key == "newmtl" {
			if len(parts) < 2 {
				return nil, fmt.Errorf("line %d: newmtl without a name", lineNo)
			}
			flush()
			m := DefaultMaterial(strings.Join(parts[1:], " "))
			cur = &m
			continue
		}
		if cur == nil {
			// Statements before the first newmtl have nothing to apply to.
			continue
		}

		var err error
		switch key {
		case "Ka":
			cur.Ambient, err = parseVec3(parts[1:])
		case "Kd":
			cur.Diffuse, err = parseVec3(parts[1:])
		case "Ks":
			cur.Specular, err = parseVec3(parts[1:])
		case "Ns":
			cur.Shininess, err = parseFloat(parts[1:])
		case "d":
			cur.Dissolve, err = parseFloat(parts[1:])
		case "Tr":
			var tr float32
			tr, err = parseFloat(parts[1:])
			cur.Dissolve = 1 - tr
		case "map_Ka":
			cur.AmbientMap = mapPath(dir, parts[1:])
		case "map_Kd":
			cur.DiffuseMap = mapPath(dir, parts[1:])
		case "map_Ks":
			cur.SpecularMap = mapPath(dir, parts[1:])
		case "map_bump", "map_Bump", "bump":
			cur.BumpMap = mapPath(dir, parts[1:])
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", lineNo, key, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return materials, nil
}

// mapPath takes the file name from a map statement, skipping any options
// such as "-bm 1.0", and joins it to dir.
func mapPath(dir string, args []string) string {
	if len(args) == 0 {
		return ""
	}
	name := args[len(args)-1]
	name = strings.ReplaceAll(name, "\\", "/")
	if dir == "" || path.IsAbs(name) {
		return name
	}
	return path.Join(dir, name)
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

func parseFloat(args []string) (float32, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("expected a value")
	}
	f, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}

// parseVec3 reads three components. A single value is repeated, as MTL
// allows for colors.
func parseVec3(args []string) (mgl32.Vec3, error) {
	switch {
	case len(args) >= 3:
		var v mgl32.Vec3
		for i := 0; i < 3; i++ {
			f, err := strconv.ParseFloat(args[i], 32)
			if err != nil {
				return mgl32.Vec3{}, err
			}
			v[i] = float32(f)
		}
		return v, nil
	case len(args) == 1:
		f, err := parseFloat(args)
		if err != nil {
			return mgl32.Vec3{}, err
		}
		return mgl32.Vec3{f, f, f}, nil
	}
	return mgl32.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(args))
}
