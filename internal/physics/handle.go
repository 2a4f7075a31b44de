package physics

import "fmt"

// Handle is a generational index into one of the world's arenas. The zero
// value never refers to a live entry.
type Handle struct {
	index uint32
	gen   uint32
}

func (h Handle) IsZero() bool { return h.gen == 0 }

// Key packs the handle into a single integer, stable for the handle's life.
func (h Handle) Key() uint64 { return uint64(h.gen)<<32 | uint64(h.index) }

func (h Handle) String() string { return fmt.Sprintf("%d:%d", h.index, h.gen) }

type BodyHandle struct{ Handle }

type JointHandle struct{ Handle }

type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// arena stores values behind generational handles. Freed slots are reused
// with a bumped generation so stale handles stop resolving.
type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

func (a *arena[T]) insert(v T) Handle {
	a.count++
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.value = v
		s.live = true
		return Handle{index: idx, gen: s.gen}
	}
	a.slots = append(a.slots, slot[T]{value: v, gen: 1, live: true})
	return Handle{index: uint32(len(a.slots) - 1), gen: 1}
}

func (a *arena[T]) get(h Handle) (T, bool) {
	var zero T
	if h.gen == 0 || int(h.index) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[h.index]
	if !s.live || s.gen != h.gen {
		return zero, false
	}
	return s.value, true
}

func (a *arena[T]) remove(h Handle) (T, bool) {
	v, ok := a.get(h)
	if !ok {
		return v, false
	}
	s := &a.slots[h.index]
	var zero T
	s.value = zero
	s.live = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	a.free = append(a.free, h.index)
	a.count--
	return v, true
}

func (a *arena[T]) len() int { return a.count }

// each visits live entries in slot order.
func (a *arena[T]) each(fn func(Handle, T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.live {
			fn(Handle{index: uint32(i), gen: s.gen}, s.value)
		}
	}
}

// clear frees every live slot. Generations survive so handles issued before
// the clear never alias handles issued after it.
func (a *arena[T]) clear() {
	for i := range a.slots {
		if a.slots[i].live {
			a.remove(Handle{index: uint32(i), gen: a.slots[i].gen})
		}
	}
}
