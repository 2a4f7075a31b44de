package metrics

// FloorStability is the fraction of frames whose population was at or above
// the configured floor.
type FloorStability struct {
	name       string
	violations int
	samples    int
}

func NewFloorStability() *FloorStability {
	return &FloorStability{name: "floor_stability"}
}

func (s *FloorStability) Name() string {
	return s.name
}

func (s *FloorStability) Observe(f FrameStats) {
	s.samples++
	if f.Population < f.Floor {
		s.violations++
	}
}

func (s *FloorStability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *FloorStability) Reset() {
	s.violations = 0
	s.samples = 0
}

// ContactRate is the mean number of new contacts per frame.
type ContactRate struct {
	name    string
	sum     int
	samples int
}

func NewContactRate() *ContactRate {
	return &ContactRate{name: "contact_rate"}
}

func (c *ContactRate) Name() string { return c.name }

func (c *ContactRate) Observe(f FrameStats) {
	c.sum += f.Contacts
	c.samples++
}

func (c *ContactRate) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.sum) / float64(c.samples)
}

func (c *ContactRate) Reset() {
	c.sum = 0
	c.samples = 0
}

// GravityRate is gravity passes per simulated second.
type GravityRate struct {
	name   string
	passes int
	last   FrameStats
}

func NewGravityRate() *GravityRate {
	return &GravityRate{name: "gravity_rate"}
}

func (g *GravityRate) Name() string { return g.name }

func (g *GravityRate) Observe(f FrameStats) {
	if f.GravityPass {
		g.passes++
	}
	g.last = f
}

func (g *GravityRate) Value() float64 {
	secs := g.last.Time.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(g.passes) / secs
}

func (g *GravityRate) Reset() {
	g.passes = 0
	g.last = FrameStats{}
}
