// Command arena-web serves the collision arena over a websocket: each
// connection controls its own player box in the shared arena and receives
// a JSON snapshot every tick.
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomz197/aabbworld/internal/config"
	"github.com/tomz197/aabbworld/internal/demo"
	"github.com/tomz197/aabbworld/internal/obslog"
)

const (
	defaultHost  = "0.0.0.0"
	defaultPort  = "8080"
	tickInterval = time.Second / 30
)

var log = obslog.New("arena-web")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientCommand is a directional nudge sent by the browser each frame.
type clientCommand struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// frame is one tick's worth of arena state sent to the browser.
type frame struct {
	PlayerID int          `json:"player_id"`
	Width    float64      `json:"width"`
	Height   float64      `json:"height"`
	Walls    []boxJSON    `json:"walls"`
	Players  []playerJSON `json:"players"`
}

type boxJSON struct {
	X, Y, W, H float64
}

type playerJSON struct {
	ID             int     `json:"id"`
	X, Y, W, H     float64
	LastCollisions int     `json:"last_collisions"`
}

func main() {
	host := config.GetEnv("ARENA_WEB_HOST", defaultHost)
	port := config.GetEnv("ARENA_WEB_PORT", defaultPort)

	arena, err := demo.NewArena(demo.DefaultArenaConfig)
	if err != nil {
		log.Fatal("create arena", "err", err)
	}

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWS(arena, w, r)
	})
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, landingPage)
	})

	addr := fmt.Sprintf("%s:%s", host, port)
	log.Info("starting web server", "addr", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal("server error", "err", err)
	}
}

func handleWS(arena *demo.Arena, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	playerID, err := arena.Spawn()
	if err != nil {
		log.Error("spawn failed", "err", err)
		return
	}
	defer arena.Despawn(playerID)

	dirCh := make(chan demo.Direction, 1)
	go readCommands(conn, dirCh)

	walls := arena.Walls()
	wallsJSON := make([]boxJSON, len(walls))
	for i, wall := range walls {
		wallsJSON[i] = boxJSON{wall.X, wall.Y, wall.W, wall.H}
	}

	cfg := arena.Config()
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	lastTime := time.Now()
	dir := demo.Direction{}
	for {
		select {
		case d, ok := <-dirCh:
			if !ok {
				return
			}
			dir = d
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now

			_, trail, err := arena.Step(playerID, dir, dt)
			if err != nil {
				log.Error("step failed", "err", err)
				return
			}

			f := frame{
				PlayerID: playerID,
				Width:    cfg.Width,
				Height:   cfg.Height,
				Walls:    wallsJSON,
			}
			for _, p := range arena.Snapshot() {
				n := 0
				if p.ID == playerID {
					n = len(trail)
				}
				f.Players = append(f.Players, playerJSON{
					ID: p.ID, X: p.Box.X, Y: p.Box.Y, W: p.Box.W, H: p.Box.H,
					LastCollisions: n,
				})
			}

			if err := conn.WriteJSON(f); err != nil {
				return
			}
		}
	}
}

func readCommands(conn *websocket.Conn, dirCh chan<- demo.Direction) {
	defer close(dirCh)
	for {
		var cmd clientCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		dirCh <- demo.Direction{X: cmd.X, Y: cmd.Y}
	}
}

const landingPage = `<!DOCTYPE html>
<html>
<head><title>aabbworld arena</title></head>
<body style="background:#111;color:#eee;font-family:monospace">
<h1>aabbworld arena</h1>
<p>Connect a websocket client to <code>/ws</code>. Send {"x":dx,"y":dy} to move;
each tick you receive a JSON frame with every player's box and wall list.</p>
</body>
</html>
`
