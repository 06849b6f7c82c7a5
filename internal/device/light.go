package device

// Light is a switchable light. It starts off.
type Light struct {
	name string
	on   bool
}

// NewLight creates a light that is initially off.
func NewLight(name string) *Light {
	return &Light{name: name}
}

// Name implements Device.
func (l *Light) Name() string { return l.name }

// Type implements Device.
func (l *Light) Type() string { return TypeLight }

// Apply accepts TurnOn and TurnOff.
func (l *Light) Apply(cmd Command) (Event, error) {
	switch cmd {
	case TurnOn:
		l.on = true
	case TurnOff:
		l.on = false
	default:
		return Event{}, unsupported(l, cmd)
	}
	return newStateEvent(l, cmd), nil
}

// State returns "on" or "off".
func (l *Light) State() string {
	if l.on {
		return "on"
	}
	return "off"
}

var _ Device = (*Light)(nil)
