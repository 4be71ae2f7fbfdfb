// Command arena runs a single-player collision arena in the local
// terminal: a box controlled by the arrow keys (or WASD), slid along the
// walls of a bounded rectangle built on pkg/aabb2d.
package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/tomz197/aabbworld/internal/demo"
	"github.com/tomz197/aabbworld/internal/obslog"
)

const (
	targetFPS       = 60
	targetFrameTime = time.Second / targetFPS
)

func main() {
	log := obslog.New("arena")

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		log.Fatal("failed to enable raw mode", "err", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	reader := bufio.NewReader(os.Stdin)
	if err := run(reader, os.Stdout); err != nil {
		log.Fatal("arena exited with error", "err", err)
	}
}

func run(r *bufio.Reader, w *os.File) error {
	arena, err := demo.NewArena(demo.DefaultArenaConfig)
	if err != nil {
		return fmt.Errorf("create arena: %w", err)
	}
	playerID, err := arena.Spawn()
	if err != nil {
		return fmt.Errorf("spawn player: %w", err)
	}

	stream := demo.StartStream(r)

	demo.HideCursor(w)
	defer demo.ShowCursor(w)
	demo.ClearScreen(w)

	cfg := arena.Config()
	termWidth, termHeight, _ := demo.DefaultTermSizeFunc()
	canvas := demo.NewScaledCanvas(termWidth, termHeight, cfg.Width, cfg.Height)

	walls := arena.Walls()

	lastTime := time.Now()
	for {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		input := demo.ReadInput(stream)
		if input.Quit || input.Escape {
			break
		}

		if tw, th, err := demo.DefaultTermSizeFunc(); err == nil {
			canvas.Resize(tw, th)
		}

		if _, _, err := arena.Step(playerID, input.Dir(), dt); err != nil {
			return fmt.Errorf("step: %w", err)
		}

		demo.ClearScreen(w)
		canvas.Clear()
		for _, wallBox := range walls {
			canvas.FillRect(wallBox)
		}
		for _, p := range arena.Snapshot() {
			canvas.FillRect(p.Box)
		}
		canvas.Render(w)

		if elapsed := time.Since(frameStart); elapsed < targetFrameTime {
			time.Sleep(targetFrameTime - elapsed)
		}
	}

	demo.ClearScreen(w)
	return nil
}
