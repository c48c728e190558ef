package render

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"

	viewport "github.com/e7canasta/orion-viewport"
)

// Tracer is a progressive CPU tracer implementing viewport.Renderer.
//
// Accumulation contract (owned here, observed by the orchestrator):
//   - SampleIndex strictly increases while the pose is unchanged since
//     the last reset; ResetAccumulation (or a pose change) sets it to 0.
//   - A resolution change restarts the pixel accumulation buffer but does
//     NOT reset the sample index: the index is tied to the pose, and the
//     orchestrator's interacting heuristic (index ≤ 1) depends on it
//     surviving the draft→full resolution hand-off after settling.
//
// Thread-safety: Render runs single-flight on the orchestrator's worker
// goroutine while ResetAccumulation/SampleIndex are called from the
// orchestrator loop, so the sample index and reset request are atomics and
// the buffer state is mutex-guarded.
type Tracer struct {
	scene *Scene
	seed  int64

	samples  atomic.Int64
	resetReq atomic.Bool

	mu         sync.Mutex
	accum      []rgb
	accW, accH int
	accPose    viewport.CameraPose
	havePose   bool
	blended    int // samples blended into the CURRENT buffer (≤ sample index)
}

// NewTracer creates a tracer for scene. A nil scene uses DemoScene.
func NewTracer(scene *Scene, seed int64) *Tracer {
	if scene == nil {
		scene = DemoScene()
	}
	return &Tracer{scene: scene, seed: seed}
}

// ResetAccumulation implements viewport.Renderer.
func (t *Tracer) ResetAccumulation() {
	t.samples.Store(0)
	t.resetReq.Store(true)
}

// SampleIndex implements viewport.Renderer.
func (t *Tracer) SampleIndex() int {
	return int(t.samples.Load())
}

// Render implements viewport.Renderer: traces one jittered sample per
// pixel and blends it into the accumulation buffer.
func (t *Tracer) Render(ctx context.Context, pose viewport.CameraPose, w, h int) (*viewport.PixelBuffer, error) {
	if w < 1 || h < 1 {
		return nil, context.Canceled
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.resetReq.Swap(false) {
		t.blended = 0
	}
	if !t.havePose || pose != t.accPose {
		t.samples.Store(0)
		t.blended = 0
		t.accPose = pose
		t.havePose = true
	}
	if w != t.accW || h != t.accH {
		t.accW, t.accH = w, h
		t.accum = make([]rgb, w*h)
		t.blended = 0
	}

	idx := t.samples.Load()
	rng := rand.New(rand.NewSource(t.seed ^ (idx+1)*0x9E3779B9))

	cam := newCamera(pose, w, h)
	weight := 1.0 / float64(t.blended+1)

	for y := 0; y < h; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for x := 0; x < w; x++ {
			u := (float64(x) + rng.Float64()) / float64(w)
			v := (float64(y) + rng.Float64()) / float64(h)
			c := t.trace(cam.ray(u, v))

			i := y*w + x
			prev := t.accum[i]
			t.accum[i] = prev.scale(1 - weight).add(c.scale(weight))
		}
	}
	t.blended++
	count := int(t.samples.Add(1))

	return t.toBuffer(count), nil
}

// toBuffer converts the accumulation buffer to an RGBA frame with a
// sqrt gamma ramp. Caller holds t.mu.
func (t *Tracer) toBuffer(samples int) *viewport.PixelBuffer {
	pix := make([]uint8, t.accW*t.accH*4)
	for i, c := range t.accum {
		o := i * 4
		pix[o] = tone(c.R)
		pix[o+1] = tone(c.G)
		pix[o+2] = tone(c.B)
		pix[o+3] = 255
	}
	return &viewport.PixelBuffer{
		Pix:     pix,
		Width:   t.accW,
		Height:  t.accH,
		Samples: samples,
	}
}

func tone(v float64) uint8 {
	v = math.Sqrt(math.Max(0, math.Min(1, v)))
	return uint8(v*255 + 0.5)
}

type camera struct {
	origin          vec
	forward, right  vec
	up              vec
	halfW, halfH    float64
}

func newCamera(pose viewport.CameraPose, w, h int) camera {
	origin := vec{pose.Position.X, pose.Position.Y, pose.Position.Z}
	target := vec{pose.Target.X, pose.Target.Y, pose.Target.Z}

	forward := target.sub(origin).norm()
	right := forward.cross(vec{Y: 1}).norm()
	if right.dot(right) == 0 {
		right = vec{X: 1} // looking straight up or down
	}
	up := right.cross(forward)

	fov := pose.FOV
	if fov <= 0 || fov >= 180 {
		fov = 45
	}
	halfH := math.Tan(fov * math.Pi / 360)
	halfW := halfH * float64(w) / float64(h)

	return camera{origin: origin, forward: forward, right: right, up: up, halfW: halfW, halfH: halfH}
}

// ray maps normalized viewport coordinates (0..1, y down) to a primary ray.
func (c camera) ray(u, v float64) (vec, vec) {
	dir := c.forward.
		add(c.right.scale((2*u - 1) * c.halfW)).
		add(c.up.scale((1 - 2*v) * c.halfH)).
		norm()
	return c.origin, dir
}

// trace shades a primary ray: nearest sphere or floor with lambert +
// hard shadow, sky gradient otherwise.
func (t *Tracer) trace(origin, dir vec) rgb {
	const maxDist = 1e9

	nearest := maxDist
	var hitAlbedo rgb
	var hitPoint, hitNormal vec
	hit := false

	for _, s := range t.scene.Spheres {
		if d, ok := s.intersect(origin, dir); ok && d < nearest {
			nearest = d
			hitPoint = origin.add(dir.scale(d))
			hitNormal = hitPoint.sub(s.Center).norm()
			hitAlbedo = s.Albedo
			hit = true
		}
	}

	// Floor plane y = FloorY, checkerboard albedo.
	if dir.Y < -1e-6 {
		d := (t.scene.FloorY - origin.Y) / dir.Y
		if d > 1e-4 && d < nearest {
			nearest = d
			hitPoint = origin.add(dir.scale(d))
			hitNormal = vec{Y: 1}
			if (int(math.Floor(hitPoint.X))+int(math.Floor(hitPoint.Z)))%2 == 0 {
				hitAlbedo = rgb{0.85, 0.85, 0.85}
			} else {
				hitAlbedo = rgb{0.35, 0.35, 0.38}
			}
			hit = true
		}
	}

	if !hit {
		k := 0.5 * (dir.Y + 1)
		return t.scene.SkyBot.scale(1 - k).add(t.scene.SkyTop.scale(k))
	}

	light := math.Max(0, hitNormal.dot(t.scene.LightDir))
	if light > 0 && t.shadowed(hitPoint.add(hitNormal.scale(1e-3))) {
		light = 0
	}
	ambient := 0.18
	return hitAlbedo.mul(t.scene.SkyBot).scale(ambient).add(hitAlbedo.scale(0.85 * light))
}

func (t *Tracer) shadowed(from vec) bool {
	for _, s := range t.scene.Spheres {
		if _, ok := s.intersect(from, t.scene.LightDir); ok {
			return true
		}
	}
	return false
}
