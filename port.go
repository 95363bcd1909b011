package xflow // import "github.com/orkestr8/xflow"

// Port is a named, typed attachment point of a component.
type Port struct {
	Name string
	Type Kind
	// Optional input ports do not have to hold packages for the component
	// to be ready. Ignored on output ports.
	Optional    bool
	Description string
}

// Ports is the ordered port schema of one side of a component.
type Ports []Port

// NewPort returns a required port.
func NewPort(name string, kind Kind) Port {
	return Port{Name: name, Type: kind}
}

// OptionalPort returns an input port that does not gate readiness.
func OptionalPort(name string, kind Kind) Port {
	return Port{Name: name, Type: kind, Optional: true}
}

// Describe returns a copy of the port with a description.
func (p Port) Describe(text string) Port {
	p.Description = text
	return p
}

func (p Ports) Lookup(name string) (Port, bool) {
	for _, port := range p {
		if port.Name == name {
			return port, true
		}
	}
	return Port{}, false
}

func (p Ports) Contains(name string) bool {
	_, has := p.Lookup(name)
	return has
}

func (p Ports) Names() []string {
	out := make([]string, len(p))
	for i := range p {
		out[i] = p[i].Name
	}
	return out
}

func (p Ports) validate(component string) error {
	seen := map[string]bool{}
	for _, port := range p {
		if port.Name == "" {
			return ErrInvalidPort{Component: component, Reason: "empty port name"}
		}
		if port.Type >= maxKind {
			return ErrInvalidPort{Component: component, Port: port.Name, Reason: "invalid type " + port.Type.String()}
		}
		if seen[port.Name] {
			return ErrDuplicatePort{Component: component, Port: port.Name}
		}
		seen[port.Name] = true
	}
	return nil
}
