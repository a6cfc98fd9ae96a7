package shader

import _ "embed"

// Source is a GLSL vertex/fragment pair.
type Source struct {
	Name     string
	Vertex   string
	Fragment string
}

//go:embed sources/normalmap.vert
var normalMapVertex string

//go:embed sources/normalmap.frag
var normalMapFragment string

//go:embed sources/mesh.vert
var meshVertex string

//go:embed sources/mesh.frag
var meshFragment string

// NormalMapWGSL is the WGSL rendition of the normal-mapping program.
//
//go:embed sources/normalmap.wgsl
var NormalMapWGSL string

// NormalMap is the normal-mapped Blinn-Phong program. Uniforms:
// perspective, view, model, u_light, diffuse_tex, normal_tex, u_specular,
// u_shininess.
var NormalMap = Source{Name: "normalmap", Vertex: normalMapVertex, Fragment: normalMapFragment}

// Mesh is the dark/regular brightness-mix program. Uniforms: perspective,
// view, model, u_light, u_dark, u_regular.
var Mesh = Source{Name: "mesh", Vertex: meshVertex, Fragment: meshFragment}
