package physics

// Properties are the material and damping values applied when a body and
// its shape are created.
type Properties struct {
	Friction       float64 `yaml:"friction"`
	Restitution    float64 `yaml:"restitution"`
	Density        float64 `yaml:"density"`
	LinearDamping  float64 `yaml:"linear_damping"`
	AngularDamping float64 `yaml:"angular_damping"`
}

func DefaultProperties() Properties {
	return Properties{
		Friction:       0.5,
		Restitution:    0.5,
		Density:        0.5,
		LinearDamping:  0.1,
		AngularDamping: 0.9,
	}
}

func BouncyProperties() Properties {
	return Properties{
		Friction:       0,
		Restitution:    1,
		Density:        1,
		LinearDamping:  0.1,
		AngularDamping: 0.1,
	}
}

func FreeProperties() Properties {
	return Properties{
		Friction:    0,
		Restitution: 1,
		Density:     1,
	}
}

var materials = map[string]func() Properties{
	"default": DefaultProperties,
	"bouncy":  BouncyProperties,
	"free":    FreeProperties,
}

// Material returns a named property preset.
func Material(name string) (Properties, bool) {
	fn, ok := materials[name]
	if !ok {
		return Properties{}, false
	}
	return fn(), true
}

// Shape describes the collider attached to a dynamic body.
type Shape struct {
	Radius float64
	Sensor bool
}
