package shader

import _ "embed"

// Source is a vertex/fragment shader pair.
type Source struct {
	Vertex   string
	Fragment string
}

//go:embed glsl/phong.vert
var phongVert string

//go:embed glsl/phong.frag
var phongFrag string

//go:embed glsl/line.vert
var lineVert string

//go:embed glsl/line.frag
var lineFrag string

//go:embed glsl/ui.vert
var uiVert string

//go:embed glsl/ui.frag
var uiFrag string

// Phong shades textured meshes with the key light, the uLights array and a
// material.
var Phong = Source{Vertex: phongVert, Fragment: phongFrag}

// Line draws flat-colored lines in world space.
var Line = Source{Vertex: lineVert, Fragment: lineFrag}

// UI draws vertex-colored quads in window pixel space.
var UI = Source{Vertex: uiVert, Fragment: uiFrag}

// Phong material and transform uniform names.
const (
	ModelUniform         = "uModel"
	ViewProjUniform      = "uViewProj"
	NormalMatrixUniform  = "uNormalMatrix"
	ViewPosUniform       = "uViewPos"
	GlobalAmbientUniform = "uGlobalAmbient"
	DiffuseMapUniform    = "uDiffuseMap"
	HasTextureUniform    = "uHasTexture"
	ColorUniform         = "uColor"
	ProjectionUniform    = "uProjection"
)
