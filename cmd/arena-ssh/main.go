// Command arena-ssh serves the collision arena over SSH: every connected
// session gets its own box in one shared arena, so players see each other
// slide along the walls and against one another.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/aabbworld/internal/config"
	"github.com/tomz197/aabbworld/internal/demo"
	"github.com/tomz197/aabbworld/internal/obslog"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	targetFPS          = 60
	targetFrameTime    = time.Second / targetFPS
)

var log = obslog.New("arena-ssh")

// sharedArena is the one arena every SSH session joins.
var sharedArena *demo.Arena

func main() {
	host := config.GetEnv("ARENA_SSH_HOST", defaultHost)
	port := config.GetEnv("ARENA_SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("ARENA_SSH_HOST_KEY", defaultHostKeyPath)

	a, err := demo.NewArena(demo.DefaultArenaConfig)
	if err != nil {
		log.Fatal("create shared arena", "err", err)
	}
	sharedArena = a

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			arenaMiddleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		log.Fatal("create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Info("starting ssh server", "host", host, "port", port)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Fatal("server error", "err", err)
		}
	}()

	<-done
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.Fatal("shutdown error", "err", err)
	}
}

// arenaMiddleware handles one SSH session: spawns a player in the shared
// arena, runs the input/step/draw loop, and despawns on disconnect.
func arenaMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		log.Info("new session", "user", sess.User(), "term", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		reader := bufio.NewReader(sess)
		if err := runSession(sess, reader, sizeTracker.getSize); err != nil {
			log.Error("session error", "user", sess.User(), "err", err)
		}

		log.Info("session ended", "user", sess.User())
		next(sess)
	}
}

func runSession(sess ssh.Session, r *bufio.Reader, termSize demo.TermSizeFunc) error {
	playerID, err := sharedArena.Spawn()
	if err != nil {
		return fmt.Errorf("spawn player: %w", err)
	}
	defer sharedArena.Despawn(playerID)

	stream := demo.StartStream(r)

	demo.HideCursor(sess)
	defer demo.ShowCursor(sess)
	demo.ClearScreen(sess)

	cfg := sharedArena.Config()
	termWidth, termHeight, err := termSize()
	if err != nil || termWidth <= 0 || termHeight <= 0 {
		termWidth, termHeight = 80, 24
	}
	canvas := demo.NewScaledCanvas(termWidth, termHeight, cfg.Width, cfg.Height)
	sidebarWriter := demo.NewChunkWriter(sess, termWidth+2, 0)
	sidebar := demo.NewSidebar()

	walls := sharedArena.Walls()

	lastTime := time.Now()
	for {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		input := demo.ReadInput(stream)
		if input.Quit || input.Escape {
			return nil
		}

		if tw, th, err := termSize(); err == nil && tw > 0 && th > 0 {
			canvas.Resize(tw, th)
			sidebarWriter.SetOffset(tw+2, 0)
		}

		_, trail, err := sharedArena.Step(playerID, input.Dir(), dt)
		if err != nil {
			return fmt.Errorf("step: %w", err)
		}

		demo.ClearScreen(sess)
		canvas.Clear()
		for _, wallBox := range walls {
			canvas.FillRect(wallBox)
		}
		for _, p := range sharedArena.Snapshot() {
			canvas.FillRect(p.Box)
		}
		canvas.Render(sess)

		box, _ := sharedArena.GetBox(playerID)
		sidebar.Update(demo.SidebarMsg{
			PlayerID:  playerID,
			Box:       box,
			ItemCount: sharedArena.ItemCount(),
			CellCount: sharedArena.CellCount(),
			LastTrail: trail,
		})
		for i, line := range strings.Split(sidebar.View(), "\n") {
			sidebarWriter.WriteAt(1, i+1, line)
		}
		if err := sidebarWriter.Flush(); err != nil {
			return err
		}

		if elapsed := time.Since(frameStart); elapsed < targetFrameTime {
			time.Sleep(targetFrameTime - elapsed)
		}
	}
}

// sizeTracker tracks terminal size from SSH window-change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ demo.TermSizeFunc = (*sizeTracker)(nil).getSize
