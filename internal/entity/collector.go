package entity

import (
	"math/rand/v2"

	"github.com/san-kum/quanta/internal/draw"
	"github.com/san-kum/quanta/internal/physics"
)

// Collector owns every live quantum, keyed by its body handle. Removing an
// entry does not touch the world; callers that need both sides removed go
// through the simulation.
type Collector struct {
	quanta map[physics.BodyHandle]*Quantum
	spawn  SpawnConfig
	rng    *rand.Rand
}

func NewCollector(spawn SpawnConfig, rng *rand.Rand) *Collector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Collector{
		quanta: make(map[physics.BodyHandle]*Quantum),
		spawn:  spawn,
		rng:    rng,
	}
}

// AddMany spawns n random quanta into w.
func (c *Collector) AddMany(n int, w *physics.World) {
	for i := 0; i < n; i++ {
		c.Add(NewRandom(w, c.spawn, c.rng))
	}
}

// AddRandom spawns one random quantum and returns its handle.
func (c *Collector) AddRandom(w *physics.World) physics.BodyHandle {
	return c.Add(NewRandom(w, c.spawn, c.rng))
}

func (c *Collector) Add(q *Quantum) physics.BodyHandle {
	c.quanta[q.Handle] = q
	return q.Handle
}

func (c *Collector) Get(h physics.BodyHandle) (*Quantum, bool) {
	q, ok := c.quanta[h]
	return q, ok
}

// Remove deletes the registry entry only.
func (c *Collector) Remove(h physics.BodyHandle) bool {
	if _, ok := c.quanta[h]; !ok {
		return false
	}
	delete(c.quanta, h)
	return true
}

func (c *Collector) Count() int { return len(c.quanta) }

// Each visits a copy of every quantum.
func (c *Collector) Each(fn func(Quantum)) {
	for _, q := range c.quanta {
		fn(*q)
	}
}

// EachMut visits every quantum in place. fn must not add or remove entries.
func (c *Collector) EachMut(fn func(*Quantum)) {
	for _, q := range c.quanta {
		fn(q)
	}
}

func (c *Collector) Handles() []physics.BodyHandle {
	out := make([]physics.BodyHandle, 0, len(c.quanta))
	for h := range c.quanta {
		out = append(out, h)
	}
	return out
}

func (c *Collector) Update(w *physics.World) {
	c.EachMut(func(q *Quantum) { q.Update(w) })
}

func (c *Collector) Draw(s draw.Surface) {
	c.Each(func(q Quantum) { q.Draw(s) })
}

func (c *Collector) SetSpawn(spawn SpawnConfig) { c.spawn = spawn }
