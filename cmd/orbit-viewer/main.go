// orbit-viewer is an interactive demo for the viewport orchestrator: an
// ebiten window where mouse drags orbit the camera around the demo scene.
// Dragging produces a high-frequency pose stream; releasing lets the
// viewport settle and refine. Keys 1/2/3 switch the quality tier.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	viewport "github.com/e7canasta/orion-viewport"
	"github.com/e7canasta/orion-viewport/internal/logger"
	"github.com/e7canasta/orion-viewport/render"
	"github.com/e7canasta/orion-viewport/sink"
)

const (
	initialWidth  = 960
	initialHeight = 540
	minDist       = 2.0
	maxDist       = 20.0
)

type game struct {
	orch   viewport.Orchestrator
	pacer  *viewport.FramePacer
	frames *sink.ImageSink

	yaw, pitch, dist float64
	width, height    int

	dragging       bool
	lastMX, lastMY int

	blit    *ebiten.Image
	blitSeq uint64
}

func (g *game) pose() viewport.CameraPose {
	target := viewport.Vec3{Y: 1}
	cp := math.Cos(g.pitch)
	return viewport.CameraPose{
		Position: viewport.Vec3{
			X: target.X + g.dist*cp*math.Cos(g.yaw),
			Y: target.Y + g.dist*math.Sin(g.pitch),
			Z: target.Z + g.dist*cp*math.Sin(g.yaw),
		},
		Target:         target,
		FOV:            45,
		ViewportWidth:  g.width,
		ViewportHeight: g.height,
	}
}

func (g *game) Update() error {
	moved := false

	mx, my := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if g.dragging {
			dx, dy := mx-g.lastMX, my-g.lastMY
			if dx != 0 || dy != 0 {
				g.yaw += float64(dx) * 0.01
				g.pitch = clamp(g.pitch+float64(dy)*0.01, -1.4, 1.4)
				moved = true
			}
		}
		g.dragging = true
		g.lastMX, g.lastMY = mx, my
	} else {
		g.dragging = false
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.dist = clamp(g.dist*math.Pow(0.9, wy), minDist, maxDist)
		moved = true
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.Key1):
		g.orch.OnQualityChanged(viewport.TierDraft)
	case inpututil.IsKeyJustPressed(ebiten.Key2):
		g.orch.OnQualityChanged(viewport.TierStandard)
	case inpututil.IsKeyJustPressed(ebiten.Key3):
		g.orch.OnQualityChanged(viewport.TierHigh)
	}

	if moved {
		g.orch.OnPose(g.pose())
	}

	// The host frame IS the pacer tick: settle and progressive timing
	// advance in lockstep with the display.
	g.pacer.Advance()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	frame, samples, seq := g.frames.Snapshot()
	if frame != nil {
		fw, fh := frame.Rect.Dx(), frame.Rect.Dy()
		if g.blit == nil || g.blit.Bounds().Dx() != fw || g.blit.Bounds().Dy() != fh {
			if g.blit != nil {
				g.blit.Deallocate()
			}
			g.blit = ebiten.NewImage(fw, fh)
			g.blitSeq = 0
		}
		if seq != g.blitSeq {
			g.blit.WritePixels(frame.Pix)
			g.blitSeq = seq
		}

		op := &ebiten.DrawImageOptions{}
		sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
		op.GeoM.Scale(float64(sw)/float64(fw), float64(sh)/float64(fh))
		screen.DrawImage(g.blit, op)
	}

	s := g.orch.Stats()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"state: %s  samples: %d/%d  %dx%d\ndispatched: %d  coalesced: %d\ndrag to orbit, wheel to dolly, 1/2/3 quality",
		s.State, samples, s.SampleIndex, s.LastPresentedWidth, s.LastPresentedHeight,
		s.RendersDispatched, s.PosesCoalesced))
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth < 1 {
		outsideWidth = 1
	}
	if outsideHeight < 1 {
		outsideHeight = 1
	}
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.orch.OnPose(g.pose())
	}
	return outsideWidth, outsideHeight
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func main() {
	log := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	slog.SetDefault(log)

	pacer := viewport.NewFramePacer()
	frames := sink.NewImageSink()
	tracer := render.NewTracer(nil, 1)

	g := &game{
		pacer:  pacer,
		frames: frames,
		yaw:    0.6,
		pitch:  0.35,
		dist:   6,
		width:  initialWidth,
		height: initialHeight,
	}

	g.orch = viewport.New(viewport.Config{
		Renderer: tracer,
		Sink:     frames,
		Pacer:    pacer,
		Tier:     viewport.TierStandard,
		Logger:   log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := g.orch.Start(ctx); err != nil {
		slog.Error("failed to start orchestrator", "error", err)
		os.Exit(1)
	}
	defer g.orch.Stop()

	g.orch.OnPose(g.pose())

	ebiten.SetWindowTitle("orion viewport")
	ebiten.SetWindowSize(initialWidth, initialHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil {
		slog.Error("viewer exited with error", "error", err)
		os.Exit(1)
	}
}
