// Package obj parses Wavefront OBJ meshes and their MTL material libraries.
package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/roomview/internal/engine/bounds"
	"github.com/Faultbox/roomview/internal/logger"
)

// ErrEmpty is returned for a file with no faces.
var ErrEmpty = errors.New("obj has no faces")

// Vertex is one expanded triangle corner.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

// FloatsPerVertex is the interleaved layout: position, normal, texcoord.
const FloatsPerVertex = 8

// Group is the triangles that share a material.
type Group struct {
	Material string
	Vertices []Vertex
}

// Interleave returns the group's vertices as position, normal, texcoord floats.
func (g *Group) Interleave() []float32 {
	out := make([]float32, 0, len(g.Vertices)*FloatsPerVertex)
	for _, v := range g.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.TexCoord[0], v.TexCoord[1],
		)
	}
	return out
}

// Mesh is a parsed OBJ file. Groups appear in the order their material was
// first used.
type Mesh struct {
	Groups    []Group
	Materials map[string]Material
	MtlLibs   []string
	Bounds    bounds.AABB
}

// TriangleCount returns the number of triangles across all groups.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, g := range m.Groups {
		n += len(g.Vertices) / 3
	}
	return n
}

// Material returns the material for name, falling back to the default.
func (m *Mesh) Material(name string) Material {
	if mat, ok := m.Materials[name]; ok {
		return mat
	}
	return DefaultMaterial(name)
}

type corner struct {
	v, vt, vn int // zero-based, -1 when absent
}

type parser struct {
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	texCoords []mgl32.Vec2

	mesh    *Mesh
	groups  map[string]int
	current string
}

// Parse reads an OBJ mesh. Material libraries are recorded in MtlLibs but
// not loaded; see Load.
func Parse(r io.Reader) (*Mesh, error) {
	p := &parser{
		mesh:    &Mesh{Materials: make(map[string]Material)},
		groups:  make(map[string]int),
		current: DefaultMaterialName,
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		parts := strings.Fields(stripComment(scanner.Text()))
		if len(parts) == 0 {
			continue
		}
		if err := p.statement(parts); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(p.mesh.Groups) == 0 {
		return nil, ErrEmpty
	}

	p.mesh.Bounds = p.bounds()
	return p.mesh, nil
}

func (p *parser) statement(parts []string) error {
	switch parts[0] {
	case "v":
		v, err := parseVec3(parts[1:])
		if err != nil || len(parts) < 4 {
			return fmt.Errorf("bad vertex %q", strings.Join(parts[1:], " "))
		}
		p.positions = append(p.positions, v)
	case "vn":
		n, err := parseVec3(parts[1:])
		if err != nil || len(parts) < 4 {
			return fmt.Errorf("bad normal %q", strings.Join(parts[1:], " "))
		}
		p.normals = append(p.normals, n)
	case "vt":
		if len(parts) < 2 {
			return errors.New("texture coordinate without values")
		}
		var uv mgl32.Vec2
		for i := 0; i < 2 && i+1 < len(parts); i++ {
			f, err := strconv.ParseFloat(parts[i+1], 32)
			if err != nil {
				return fmt.Errorf("bad texture coordinate: %w", err)
			}
			uv[i] = float32(f)
		}
		p.texCoords = append(p.texCoords, uv)
	case "f":
		return p.face(parts[1:])
	case "usemtl":
		if len(parts) >= 2 {
			p.current = strings.Join(parts[1:], " ")
		}
	case "mtllib":
		p.mesh.MtlLibs = append(p.mesh.MtlLibs, parts[1:]...)
	}
	return nil
}

// face triangulates a polygon as a fan around its first corner.
func (p *parser) face(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("face needs at least 3 corners, got %d", len(args))
	}
	corners := make([]corner, len(args))
	for i, a := range args {
		c, err := p.corner(a)
		if err != nil {
			return err
		}
		corners[i] = c
	}

	g := p.group(p.current)
	for i := 1; i+1 < len(corners); i++ {
		tri := [3]corner{corners[0], corners[i], corners[i+1]}
		g.Vertices = append(g.Vertices, p.triangle(tri)...)
	}
	return nil
}

func (p *parser) triangle(tri [3]corner) []Vertex {
	var out [3]Vertex
	missingNormal := false
	for i, c := range tri {
		out[i].Position = p.positions[c.v]
		if c.vt >= 0 {
			out[i].TexCoord = p.texCoords[c.vt]
		}
		if c.vn >= 0 {
			out[i].Normal = p.normals[c.vn]
		} else {
			missingNormal = true
		}
	}
	if missingNormal {
		n := out[1].Position.Sub(out[0].Position).Cross(out[2].Position.Sub(out[0].Position))
		if n.Len() > 0 {
			n = n.Normalize()
		} else {
			n = mgl32.Vec3{0, 1, 0}
		}
		for i, c := range tri {
			if c.vn < 0 {
				out[i].Normal = n
			}
		}
	}
	return out[:]
}

// corner parses v, v/vt, v//vn or v/vt/vn. Negative indices count back from
// the most recent element.
func (p *parser) corner(s string) (corner, error) {
	fields := strings.Split(s, "/")
	c := corner{v: -1, vt: -1, vn: -1}
	if len(fields) > 3 {
		return c, fmt.Errorf("bad face corner %q", s)
	}

	var err error
	if c.v, err = resolve(fields[0], len(p.positions)); err != nil {
		return c, fmt.Errorf("corner %q: vertex: %w", s, err)
	}
	if c.v < 0 {
		return c, fmt.Errorf("corner %q: missing vertex index", s)
	}
	if len(fields) > 1 {
		if c.vt, err = resolve(fields[1], len(p.texCoords)); err != nil {
			return c, fmt.Errorf("corner %q: texcoord: %w", s, err)
		}
	}
	if len(fields) > 2 {
		if c.vn, err = resolve(fields[2], len(p.normals)); err != nil {
			return c, fmt.Errorf("corner %q: normal: %w", s, err)
		}
	}
	return c, nil
}

// resolve converts a one-based or negative OBJ index to zero-based. An empty
// field yields -1.
func resolve(field string, count int) (int, error) {
	if field == "" {
		return -1, nil
	}
	i, err := strconv.Atoi(field)
	if err != nil {
		return -1, err
	}
	switch {
	case i > 0 && i <= count:
		return i - 1, nil
	case i < 0 && -i <= count:
		return count + i, nil
	}
	return -1, fmt.Errorf("index %d out of range (have %d)", i, count)
}

func (p *parser) group(material string) *Group {
	if i, ok := p.groups[material]; ok {
		return &p.mesh.Groups[i]
	}
	p.groups[material] = len(p.mesh.Groups)
	p.mesh.Groups = append(p.mesh.Groups, Group{Material: material})
	return &p.mesh.Groups[len(p.mesh.Groups)-1]
}

func (p *parser) bounds() bounds.AABB {
	first := true
	var box bounds.AABB
	for _, g := range p.mesh.Groups {
		for _, v := range g.Vertices {
			if first {
				box = bounds.AABB{Min: v.Position, Max: v.Position}
				first = false
				continue
			}
			for a := 0; a < 3; a++ {
				box.Min[a] = min(box.Min[a], v.Position[a])
				box.Max[a] = max(box.Max[a], v.Position[a])
			}
		}
	}
	return box
}

// Source supplies raw file bytes by path.
type Source interface {
	Load(name string) ([]byte, error)
}

// Load reads the OBJ at name from src and every MTL library it references,
// resolved relative to the OBJ's directory. A library that cannot be read is
// logged and skipped; its materials fall back to defaults.
func Load(src Source, name string) (*Mesh, error) {
	data, err := src.Load(name)
	if err != nil {
		return nil, fmt.Errorf("load obj %s: %w", name, err)
	}
	mesh, err := Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parse obj %s: %w", name, err)
	}

	dir := path.Dir(strings.ReplaceAll(name, "\\", "/"))
	for _, lib := range mesh.MtlLibs {
		libPath := path.Join(dir, lib)
		raw, err := src.Load(libPath)
		if err != nil {
			logger.Warn("material library not loaded", zap.String("obj", name), zap.String("mtl", libPath), zap.Error(err))
			continue
		}
		mats, err := ParseMTL(strings.NewReader(string(raw)), path.Dir(libPath))
		if err != nil {
			logger.Warn("material library invalid", zap.String("mtl", libPath), zap.Error(err))
			continue
		}
		for k, v := range mats {
			mesh.Materials[k] = v
		}
	}

	for _, g := range mesh.Groups {
		if _, ok := mesh.Materials[g.Material]; !ok && g.Material != DefaultMaterialName {
			logger.Debug("material not found, using default", zap.String("obj", name), zap.String("material", g.Material))
		}
	}

	logger.Debug("obj loaded",
		zap.String("path", name),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Int("groups", len(mesh.Groups)),
		zap.Int("materials", len(mesh.Materials)))
	return mesh, nil
}
