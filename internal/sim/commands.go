package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandKind names a one-shot request from a front-end.
type CommandKind int

const (
	SpawnTriplet CommandKind = iota + 1
	SpawnBatch
	SpawnHex
	SpawnCustom
	Reset
)

func (k CommandKind) String() string {
	switch k {
	case SpawnTriplet:
		return "spawn_triplet"
	case SpawnBatch:
		return "spawn_batch"
	case SpawnHex:
		return "spawn_hex"
	case SpawnCustom:
		return "spawn_custom"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}

// Command is one queued request. Minors is the k of a SpawnCustom; zero
// means the configured default.
type Command struct {
	Kind   CommandKind
	Minors int
}

// ParseCommand reads the textual form used by flags and scenario files:
// triplet, batch, hex, reset, or an n-gon size written as "k" or "ngon:k".
func ParseCommand(v string) (Command, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "triplet":
		return Command{Kind: SpawnTriplet}, nil
	case "batch":
		return Command{Kind: SpawnBatch}, nil
	case "hex":
		return Command{Kind: SpawnHex}, nil
	case "reset":
		return Command{Kind: Reset}, nil
	}
	k, err := strconv.Atoi(strings.TrimPrefix(v, "ngon:"))
	if err != nil || k < 1 {
		return Command{}, fmt.Errorf("unknown command %q", v)
	}
	return Command{Kind: SpawnCustom, Minors: k}, nil
}

// CommandQueue carries commands from a front-end into the next frame. Each
// pushed command is returned by exactly one Drain.
type CommandQueue struct {
	cmds []Command
}

func (q *CommandQueue) Push(c Command) { q.cmds = append(q.cmds, c) }

func (q *CommandQueue) Raise(k CommandKind) { q.Push(Command{Kind: k}) }

func (q *CommandQueue) Len() int { return len(q.cmds) }

// Drain returns the pending commands in push order and empties the queue.
func (q *CommandQueue) Drain() []Command {
	if len(q.cmds) == 0 {
		return nil
	}
	out := q.cmds
	q.cmds = nil
	return out
}
