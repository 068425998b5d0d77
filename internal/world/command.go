package world

// CommandKind selects what a Command does.
type CommandKind uint8

const (
	CmdMove CommandKind = iota + 1
	CmdLook
	CmdFire
	CmdReset
	CmdRemoveAll
	CmdTogglePause
	CmdToggleFly
	CmdToggleTraction
	CmdToggleTimer
)

var commandNames = map[string]CommandKind{
	"move":            CmdMove,
	"look":            CmdLook,
	"fire":            CmdFire,
	"reset":           CmdReset,
	"remove_all":      CmdRemoveAll,
	"toggle_pause":    CmdTogglePause,
	"toggle_fly":      CmdToggleFly,
	"toggle_traction": CmdToggleTraction,
	"toggle_timer":    CmdToggleTimer,
}

// ParseCommandKind maps a wire name such as "toggle_pause" to its kind.
func ParseCommandKind(name string) (CommandKind, bool) {
	k, ok := commandNames[name]
	return k, ok
}

// Command is one player or operator request. Only the fields of its kind are used.
type Command struct {
	Kind      CommandKind
	Direction Direction // CmdMove
	Yaw       float32   // CmdLook, degrees
	Pitch     float32   // CmdLook, degrees
}

// CommandQueue hands commands from input goroutines to the game loop.
type CommandQueue struct {
	ch chan Command
}

func NewCommandQueue(size int) *CommandQueue {
	return &CommandQueue{ch: make(chan Command, size)}
}

// Push enqueues c without blocking. It reports false when the queue is full.
func (q *CommandQueue) Push(c Command) bool {
	select {
	case q.ch <- c:
		return true
	default:
		return false
	}
}

// Drain hands every queued command to fn. Game loop only.
func (q *CommandQueue) Drain(fn func(Command)) {
	for {
		select {
		case c := <-q.ch:
			fn(c)
		default:
			return
		}
	}
}
