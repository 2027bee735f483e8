package plugin

import (
	"context"
	"errors"
	"fmt"

	"github.com/fkcurrie/streamdeck-helloworld/internal/logging"
	"github.com/fkcurrie/streamdeck-helloworld/internal/types"
)

// ErrNoHandler is returned by Dispatch for events nobody registered for
var ErrNoHandler = errors.New("no handler registered")

// HandlerFunc handles one decoded host event
type HandlerFunc func(evt types.Event)

// Dispatcher routes host events to the handler registered for their kind
type Dispatcher struct {
	action   string
	handlers map[types.EventKind]HandlerFunc
}

// NewDispatcher creates a dispatcher. When action is not empty, events that
// name a different action are ignored.
func NewDispatcher(action string) *Dispatcher {
	return &Dispatcher{
		action:   action,
		handlers: make(map[types.EventKind]HandlerFunc),
	}
}

// Register sets the handler for kind, replacing any previous one
func (d *Dispatcher) Register(kind types.EventKind, fn HandlerFunc) {
	d.handlers[kind] = fn
}

// Dispatch calls the handler registered for evt
func (d *Dispatcher) Dispatch(evt types.Event) error {
	if d.action != "" && evt.Action != "" && evt.Action != d.action {
		return nil
	}

	fn, ok := d.handlers[evt.Kind]
	if !ok {
		return fmt.Errorf("%w for %s", ErrNoHandler, evt.Name)
	}
	fn(evt)
	return nil
}

// Run dispatches events until the channel is closed or ctx is done
func (d *Dispatcher) Run(ctx context.Context, events <-chan types.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			if err := d.Dispatch(evt); err != nil {
				logging.Debugf("skipping event: %v", err)
			}
		}
	}
}

// Register wires the controller's handlers into d
func (c *Controller) Register(d *Dispatcher) {
	d.Register(types.EventWillAppear, func(evt types.Event) {
		var settings types.Settings
		if evt.Appear != nil {
			settings = evt.Appear.Settings
		}
		c.WillAppear(evt.Context, settings)
	})
	d.Register(types.EventWillDisappear, func(evt types.Event) {
		c.WillDisappear(evt.Context)
	})
	d.Register(types.EventKeyDown, func(evt types.Event) {
		c.KeyDown(evt.Context)
	})
	d.Register(types.EventKeyUp, func(evt types.Event) {
		c.KeyUp(evt.Context)
	})
	d.Register(types.EventSettingsChanged, func(evt types.Event) {
		var settings types.Settings
		if evt.Settings != nil {
			settings = evt.Settings.Settings
		}
		c.SettingsChanged(evt.Context, settings)
	})
	d.Register(types.EventSideMessage, func(evt types.Event) {
		if evt.Message == nil {
			return
		}
		c.SideMessage(evt.Context, evt.Message.SDPICollection.Key, evt.Message.SDPICollection.Value)
	})
	d.Register(types.EventInspectorAppeared, func(evt types.Event) {
		logging.Infof("property inspector appeared for %s", evt.Context)
	})
	d.Register(types.EventInspectorDisappeared, func(evt types.Event) {
		logging.Infof("property inspector disappeared for %s", evt.Context)
	})
}
