// Package output tracks the monitors advertised at startup and their current
// modes.
package output

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/wlview/internal/wayland"
)

// Output is one monitor. ID is the registry name, which stays stable for the
// lifetime of the global.
type Output struct {
	ID     uint32
	Object wayland.ObjectID
	Name   string
	Width  int
	Height int
	// Known is set once a mode flagged current has been seen.
	Known bool
}

func (o Output) String() string {
	if o.Name != "" {
		return o.Name
	}
	return fmt.Sprintf("output-%d", o.ID)
}

// Tracker holds outputs in advertisement order.
type Tracker struct {
	log     *slog.Logger
	outputs []*Output
	frozen  bool
}

func NewTracker(log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{log: log}
}

// Add records a newly bound output. After Freeze, additions are logged and
// ignored.
func (t *Tracker) Add(id uint32, object wayland.ObjectID) bool {
	if t.frozen {
		t.log.Warn("ignoring output advertised after startup", "output", id)
		return false
	}
	if t.find(func(o *Output) bool { return o.ID == id }) != nil {
		return false
	}
	t.outputs = append(t.outputs, &Output{ID: id, Object: object})
	return true
}

// Remove drops an output whose global went away before startup finished.
func (t *Tracker) Remove(id uint32) {
	if t.frozen {
		t.log.Warn("ignoring output removal after startup", "output", id)
		return
	}
	for i, o := range t.outputs {
		if o.ID == id {
			t.outputs = append(t.outputs[:i], t.outputs[i+1:]...)
			return
		}
	}
}

// Handle applies output events and reports whether ev was one.
func (t *Tracker) Handle(ev wayland.Event) bool {
	switch e := ev.(type) {
	case wayland.OutputMode:
		t.HandleMode(e.Source(), e.Flags, e.Width, e.Height)
	case wayland.OutputGeometry:
		t.HandleGeometry(e.Source(), e.Make, e.Model)
	case wayland.OutputDone, wayland.OutputScale:
	default:
		return false
	}
	return true
}

// HandleMode applies a wl_output.mode event. Only the current mode counts.
func (t *Tracker) HandleMode(object wayland.ObjectID, flags uint32, width, height int32) {
	if flags&wayland.OutputModeCurrent == 0 {
		return
	}
	o := t.find(func(o *Output) bool { return o.Object == object })
	if o == nil {
		return
	}
	o.Width = int(width)
	o.Height = int(height)
	o.Known = true
	t.log.Debug("output mode", "output", o.String(), "width", o.Width, "height", o.Height)
}

// HandleGeometry records the make and model as a display name.
func (t *Tracker) HandleGeometry(object wayland.ObjectID, manufacturer, model string) {
	o := t.find(func(o *Output) bool { return o.Object == object })
	if o == nil {
		return
	}
	switch {
	case manufacturer != "" && model != "":
		o.Name = manufacturer + " " + model
	case model != "":
		o.Name = model
	}
}

// Freeze ends the startup phase.
func (t *Tracker) Freeze() {
	t.frozen = true
}

// Outputs returns a snapshot in advertisement order.
func (t *Tracker) Outputs() []Output {
	out := make([]Output, 0, len(t.outputs))
	for _, o := range t.outputs {
		out = append(out, *o)
	}
	return out
}

// ByObject returns the output bound as object.
func (t *Tracker) ByObject(object wayland.ObjectID) (Output, bool) {
	o := t.find(func(o *Output) bool { return o.Object == object })
	if o == nil {
		return Output{}, false
	}
	return *o, true
}

// Owns reports whether object is a tracked output.
func (t *Tracker) Owns(object wayland.ObjectID) bool {
	_, ok := t.ByObject(object)
	return ok
}

func (t *Tracker) find(match func(*Output) bool) *Output {
	for _, o := range t.outputs {
		if match(o) {
			return o
		}
	}
	return nil
}
