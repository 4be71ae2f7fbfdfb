package demo

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key counts as "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// Input is one frame's worth of player intent: a directional nudge plus the
// quit/pause keys an arena demo actually needs.
type Input struct {
	Quit   bool
	Left   bool
	Right  bool
	Up     bool
	Down   bool
	Space  bool
	Escape bool
}

// Dir converts Input into a Direction, diagonal movement included; (0,0)
// when no directional key is held.
func (in Input) Dir() Direction {
	var d Direction
	if in.Left {
		d.X--
	}
	if in.Right {
		d.X++
	}
	if in.Up {
		d.Y--
	}
	if in.Down {
		d.Y++
	}
	return d
}

type keyState struct {
	quit   time.Time
	left   time.Time
	right  time.Time
	up     time.Time
	down   time.Time
	space  time.Time
	escape time.Time
}

// Stream delivers raw input bytes off a goroutine-fed channel and tracks
// per-key hold state across ReadInput calls.
type Stream struct {
	ch    chan byte
	state keyState
}

// StartStream spawns a goroutine that reads bytes from r and feeds them to
// the stream until r returns an error.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains every byte currently buffered on the stream (without
// blocking) and returns the resulting Input, with arrow keys recognized via
// their CSI escape sequence and WASD as an alternative.
func ReadInput(s *Stream) Input {
	now := time.Now()
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.up = now
			case 'B':
				s.state.down = now
			case 'C':
				s.state.right = now
			case 'D':
				s.state.left = now
			}
			i += 2
			continue
		}
		applyByteToState(&s.state, b, now)
	}

	return Input{
		Quit:   now.Sub(s.state.quit) < keyHoldDuration,
		Left:   now.Sub(s.state.left) < keyHoldDuration,
		Right:  now.Sub(s.state.right) < keyHoldDuration,
		Up:     now.Sub(s.state.up) < keyHoldDuration,
		Down:   now.Sub(s.state.down) < keyHoldDuration,
		Space:  now.Sub(s.state.space) < keyHoldDuration,
		Escape: now.Sub(s.state.escape) < keyHoldDuration,
	}
}

func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q':
		state.quit = now
	case 'a', 'A':
		state.left = now
	case 'd', 'D':
		state.right = now
	case 'w', 'W':
		state.up = now
	case 's', 'S':
		state.down = now
	case ' ':
		state.space = now
	case '\x1b':
		state.escape = now
	}
}
