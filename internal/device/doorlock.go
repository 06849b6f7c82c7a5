package device

// DoorLock is a lock that starts unlocked.
type DoorLock struct {
	name   string
	locked bool
}

// NewDoorLock creates a door lock that is initially unlocked.
func NewDoorLock(name string) *DoorLock {
	return &DoorLock{name: name}
}

// Name implements Device.
func (d *DoorLock) Name() string { return d.name }

// Type implements Device.
func (d *DoorLock) Type() string { return TypeDoorLock }

// Apply accepts Lock and Unlock.
func (d *DoorLock) Apply(cmd Command) (Event, error) {
	switch cmd {
	case Lock:
		d.locked = true
	case Unlock:
		d.locked = false
	default:
		return Event{}, unsupported(d, cmd)
	}
	return newStateEvent(d, cmd), nil
}

// State returns "locked" or "unlocked".
func (d *DoorLock) State() string {
	if d.locked {
		return "locked"
	}
	return "unlocked"
}

var _ Device = (*DoorLock)(nil)
