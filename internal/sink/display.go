package sink

import (
	"fmt"
	"io"
	"sync"

	"github.com/nerrad567/pulsehome-core/internal/device"
	"github.com/nerrad567/pulsehome-core/internal/hub"
)

// Display prints every event to a console writer.
type Display struct {
	mu  sync.Mutex
	out io.Writer
}

// NewDisplay creates a Display writing to out.
func NewDisplay(out io.Writer) *Display {
	return &Display{out: out}
}

// Notify implements hub.Observer.
func (d *Display) Notify(ev *device.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "[DisplayObserver] Device '%s' (%s) state: %s\n", ev.DeviceName, ev.DeviceType, ev.State())
}

var _ hub.Observer = (*Display)(nil)
