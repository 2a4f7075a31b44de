package sim_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/quanta/internal/config"
	"github.com/san-kum/quanta/internal/draw"
	"github.com/san-kum/quanta/internal/entity"
	"github.com/san-kum/quanta/internal/metrics"
	"github.com/san-kum/quanta/internal/physics"
	"github.com/san-kum/quanta/internal/sim"
)

const frame = time.Second / 60

func testSettings() *config.Settings {
	s := config.Default()
	s.Population.Initial = 0
	s.Population.Min = 0
	s.Seed = 42
	return s
}

func newSim(s *config.Settings, opts ...sim.Option) *sim.Simulation {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	out, err := sim.New(s, append([]sim.Option{sim.WithLogger(quiet)}, opts...)...)
	Expect(err).NotTo(HaveOccurred())
	return out
}

var _ = Describe("Simulation", func() {
	var (
		settings *config.Settings
		cmds     *sim.CommandQueue
	)

	BeforeEach(func() {
		settings = testSettings()
		cmds = &sim.CommandQueue{}
	})

	Describe("construction", func() {
		It("seeds the initial population", func() {
			settings.Population.Initial = 25
			s := newSim(settings)
			Expect(s.Collector().Count()).To(Equal(25))
			Expect(s.World().BodyCount()).To(Equal(25))
		})

		It("rejects invalid settings", func() {
			settings.World.Width = -1
			_, err := sim.New(settings)
			Expect(err).To(MatchError(config.ErrInvalidSettings))
		})

		It("keeps its own copy of the settings", func() {
			s := newSim(settings)
			settings.Population.Min = 99
			Expect(s.Settings().Population.Min).To(Equal(0))
		})
	})

	Describe("population floor", func() {
		It("tops up exactly one quantum per frame", func() {
			settings.Population.Min = 5
			s := newSim(settings)
			for i := 1; i <= 8; i++ {
				stats := s.Update(sim.FrameInput{Dt: frame})
				Expect(stats.Population).To(Equal(min(i, 5)))
				if i <= 5 {
					Expect(stats.Spawned).To(Equal(1))
				} else {
					Expect(stats.Spawned).To(Equal(0))
				}
			}
		})
	})

	Describe("commands", func() {
		It("runs each pushed command exactly once", func() {
			s := newSim(settings)
			cmds.Raise(sim.SpawnTriplet)

			s.Update(sim.FrameInput{Dt: frame, Commands: cmds})
			Expect(cmds.Len()).To(BeZero())
			Expect(s.Collector().Count()).To(Equal(4))
			Expect(s.World().JointCount()).To(Equal(3))
			Expect(s.Links()).To(HaveLen(3))

			s.Update(sim.FrameInput{Dt: frame, Commands: cmds})
			Expect(s.Collector().Count()).To(Equal(4))
		})

		It("builds a hexagon", func() {
			s := newSim(settings)
			cmds.Raise(sim.SpawnHex)
			s.Update(sim.FrameInput{Dt: frame, Commands: cmds})
			Expect(s.Collector().Count()).To(Equal(7))
			Expect(s.World().JointCount()).To(Equal(6))
		})

		It("tags assembly quanta with the configured bound count", func() {
			settings.Quantum.BoundCount = 5
			s := newSim(settings)
			s.SpawnAssembly(entity.Triplet())

			Expect(s.Collector().Count()).To(Equal(4))
			s.Collector().Each(func(q entity.Quantum) {
				Expect(q.BoundCount).To(Equal(5))
			})
		})

		It("draws each link between the two body centres", func() {
			s := newSim(settings)
			s.SpawnAssembly(entity.Hex())
			s.Update(sim.FrameInput{Dt: frame})

			Expect(s.Links()).To(HaveLen(6))
			for _, l := range s.Links() {
				Expect(l.B.Sub(l.A).Len()).To(BeNumerically(">", settings.Assembly.Offset/2))
			}
		})

		It("builds custom n-gons", func() {
			s := newSim(settings)
			cmds.Push(sim.Command{Kind: sim.SpawnCustom, Minors: 5})
			cmds.Push(sim.Command{Kind: sim.SpawnCustom})
			s.Update(sim.FrameInput{Dt: frame, Commands: cmds})

			k := settings.Assembly.CustomK
			Expect(s.Collector().Count()).To(Equal(6 + 1 + k))
			Expect(s.World().JointCount()).To(Equal(5 + k))
		})

		It("spawns a batch of n-gons", func() {
			s := newSim(settings)
			cmds.Raise(sim.SpawnBatch)
			s.Update(sim.FrameInput{Dt: frame, Commands: cmds})

			n := settings.Assembly.BatchCount
			joints := s.World().JointCount()
			Expect(joints).To(BeNumerically(">=", n*settings.Assembly.BatchMinK))
			Expect(joints).To(BeNumerically("<=", n*settings.Assembly.BatchMaxK))
			Expect(s.Collector().Count()).To(Equal(n + joints))
		})

		It("resets to an empty world", func() {
			settings.Population.Initial = 10
			s := newSim(settings)
			old := s.Collector().Handles()
			cmds.Raise(sim.SpawnHex)
			s.Update(sim.FrameInput{Dt: frame, Commands: cmds})

			cmds.Raise(sim.Reset)
			stats := s.Update(sim.FrameInput{Dt: frame, Commands: cmds})
			Expect(stats.Population).To(BeZero())
			Expect(stats.Joints).To(BeZero())
			Expect(s.Links()).To(BeEmpty())
			Expect(s.World().BodyCount()).To(BeZero())
			for _, h := range old {
				Expect(s.World().BodyValid(h)).To(BeFalse())
			}
		})

		It("lets the floor refill after a reset", func() {
			settings.Population.Initial = 3
			settings.Population.Min = 3
			s := newSim(settings)
			cmds.Raise(sim.Reset)
			stats := s.Update(sim.FrameInput{Dt: frame, Commands: cmds})
			Expect(stats.Population).To(Equal(1))
		})
	})

	Describe("gravity cadence", func() {
		It("fires on frames 3, 5, 8 and 10 with 100ms frames and a 250ms interval", func() {
			settings.Gravity.IntervalMS = 250
			s := newSim(settings)
			var fired []uint64
			for i := 0; i < 10; i++ {
				stats := s.Update(sim.FrameInput{Dt: 100 * time.Millisecond})
				if stats.GravityPass {
					fired = append(fired, stats.Frame)
				}
			}
			Expect(fired).To(Equal([]uint64{3, 5, 8, 10}))
		})
	})

	Describe("removal", func() {
		It("destroys a quantum together with its joints", func() {
			s := newSim(settings)
			asm := s.SpawnAssembly(entity.NGon(4))
			Expect(s.World().JointCount()).To(Equal(4))

			Expect(s.DestroyQuantum(asm.Major)).To(BeTrue())
			Expect(s.DestroyQuantum(asm.Major)).To(BeFalse())
			Expect(s.World().BodyValid(asm.Major)).To(BeFalse())
			Expect(s.World().JointCount()).To(BeZero())
			Expect(s.Links()).To(BeEmpty())
			for _, h := range asm.Minors {
				q, ok := s.Collector().Get(h)
				Expect(ok).To(BeTrue())
				Expect(q.Bounds).To(BeEmpty())
			}
		})

		It("prunes only the link of a destroyed minor", func() {
			s := newSim(settings)
			asm := s.SpawnAssembly(entity.Triplet())
			s.DestroyQuantum(asm.Minors[0])
			Expect(s.Links()).To(HaveLen(2))

			major, _ := s.Collector().Get(asm.Major)
			Expect(major.Bounds).To(HaveLen(2))
		})

		It("culls quanta far outside the world", func() {
			s := newSim(settings)
			q := entity.NewAt(s.World(), mgl64.Vec2{-500, -500}, 5, 1, draw.White, physics.DefaultProperties())
			s.Collector().Add(q)

			stats := s.Update(sim.FrameInput{Dt: frame})
			Expect(stats.Culled).To(Equal(1))
			Expect(stats.Population).To(BeZero())
			Expect(s.World().BodyValid(q.Handle)).To(BeFalse())
		})
	})

	Describe("settings", func() {
		It("applies field constants in place", func() {
			settings.Population.Initial = 12
			s := newSim(settings)
			next := testSettings()
			next.Population.Initial = 12
			next.Gravity.G = 30
			Expect(s.ApplySettings(next)).To(Succeed())
			Expect(s.Field().G).To(Equal(30.0))
			Expect(s.Collector().Count()).To(Equal(12))
		})

		It("rebuilds the world when its size changes", func() {
			settings.Population.Initial = 12
			s := newSim(settings)
			next := testSettings()
			next.World.Width = 800
			Expect(s.ApplySettings(next)).To(Succeed())
			Expect(s.Collector().Count()).To(BeZero())
			_, max := s.World().Bounds()
			Expect(max.X()).To(Equal(800.0))
		})

		It("refuses invalid settings", func() {
			s := newSim(settings)
			next := testSettings()
			next.Physics.TimeStep = 0
			Expect(s.ApplySettings(next)).To(MatchError(config.ErrInvalidSettings))
		})
	})

	Describe("running", func() {
		It("runs a fixed number of frames", func() {
			s := newSim(settings)
			Expect(s.Run(context.Background(), 5, frame, cmds, nil)).To(Succeed())
			Expect(s.Frame()).To(Equal(uint64(5)))
			Expect(s.Elapsed()).To(Equal(5 * frame))
		})

		It("stops when the callback says so", func() {
			s := newSim(settings)
			err := s.Run(context.Background(), 0, frame, cmds, func(st metrics.FrameStats) bool {
				return st.Frame < 3
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Frame()).To(Equal(uint64(3)))
		})

		It("stops on cancellation", func() {
			s := newSim(settings)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			Expect(s.Run(ctx, 10, frame, cmds, nil)).To(MatchError(context.Canceled))
			Expect(s.Frame()).To(BeZero())
		})

		It("rejects a non-positive dt", func() {
			s := newSim(settings)
			Expect(s.Run(context.Background(), 1, 0, cmds, nil)).NotTo(Succeed())
		})

		It("feeds observers", func() {
			rec := metrics.DefaultRecorder(16)
			settings.Population.Min = 2
			s := newSim(settings, sim.WithObserver(rec))
			Expect(s.Run(context.Background(), 4, frame, cmds, nil)).To(Succeed())
			Expect(rec.Frames()).To(Equal(4))
			Expect(rec.Last().Population).To(Equal(2))
		})

		It("syncs the pointer", func() {
			s := newSim(settings)
			s.Update(sim.FrameInput{Dt: frame, Pointer: mgl64.Vec2{3, 4}})
			Expect(s.Pointer()).To(Equal(mgl64.Vec2{3, 4}))
		})
	})

	Describe("drawing", func() {
		It("draws the bounds, the grid, links and quanta", func() {
			settings.Population.Initial = 5
			s := newSim(settings)
			s.SpawnAssembly(entity.Triplet())
			s.Update(sim.FrameInput{Dt: frame})

			var rec draw.Recorder
			s.Draw(&rec)
			Expect(rec.Count(draw.OpRect)).To(Equal(1))
			Expect(rec.Count(draw.OpDot)).To(Equal(29 * 20))
			Expect(rec.Count(draw.OpLine)).To(Equal(3))
			Expect(rec.Count(draw.OpCircle)).To(Equal(9))
		})
	})

	Describe("queries", func() {
		It("finds the nearest quantum", func() {
			s := newSim(settings)
			asm := s.SpawnAssembly(entity.Triplet())
			q, ok := s.Nearest(asm.Major, 30)
			Expect(ok).To(BeTrue())
			Expect(asm.Minors).To(ContainElement(q.Handle))
		})
	})
})
