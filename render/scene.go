// Package render provides a small CPU progressive tracer implementing the
// viewport.Renderer contract. It exists to exercise the orchestration
// contract end to end (demo viewer, soak daemon); it is demo-grade by
// design, not a production path tracer.
package render

import "math"

type vec struct {
	X, Y, Z float64
}

func (a vec) add(b vec) vec     { return vec{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a vec) sub(b vec) vec     { return vec{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (v vec) scale(s float64) vec { return vec{v.X * s, v.Y * s, v.Z * s} }

func (a vec) dot(b vec) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func (a vec) cross(b vec) vec {
	return vec{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (v vec) norm() vec {
	l := math.Sqrt(v.dot(v))
	if l == 0 {
		return v
	}
	return vec{v.X / l, v.Y / l, v.Z / l}
}

type rgb struct {
	R, G, B float64
}

func (a rgb) add(b rgb) rgb     { return rgb{a.R + b.R, a.G + b.G, a.B + b.B} }
func (c rgb) scale(s float64) rgb { return rgb{c.R * s, c.G * s, c.B * s} }
func (a rgb) mul(b rgb) rgb     { return rgb{a.R * b.R, a.G * b.G, a.B * b.B} }

// Sphere is a diffuse sphere primitive.
type Sphere struct {
	Center vec
	Radius float64
	Albedo rgb
}

// intersect returns the nearest positive hit distance, or ok=false.
func (s Sphere) intersect(origin, dir vec) (t float64, ok bool) {
	oc := origin.sub(s.Center)
	b := oc.dot(dir)
	c := oc.dot(oc) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	if t = -b - sq; t > 1e-4 {
		return t, true
	}
	if t = -b + sq; t > 1e-4 {
		return t, true
	}
	return 0, false
}

// Scene is a fixed demo scene: a checkered floor plane, a handful of
// spheres and one directional light.
type Scene struct {
	Spheres  []Sphere
	FloorY   float64
	LightDir vec // direction TOWARDS the light, normalized
	SkyTop   rgb
	SkyBot   rgb
}

// DemoScene builds the default room-review demo scene.
func DemoScene() *Scene {
	return &Scene{
		Spheres: []Sphere{
			{Center: vec{X: 0, Y: 1, Z: 0}, Radius: 1.0, Albedo: rgb{0.80, 0.35, 0.30}},
			{Center: vec{X: -2.2, Y: 0.7, Z: -1.0}, Radius: 0.7, Albedo: rgb{0.30, 0.55, 0.80}},
			{Center: vec{X: 1.9, Y: 0.5, Z: 1.2}, Radius: 0.5, Albedo: rgb{0.35, 0.75, 0.40}},
		},
		FloorY:   0,
		LightDir: vec{X: 0.45, Y: 0.8, Z: 0.35}.norm(),
		SkyTop:   rgb{0.45, 0.62, 0.85},
		SkyBot:   rgb{0.92, 0.94, 0.98},
	}
}
