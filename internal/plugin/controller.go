// Package plugin holds the per-key state cycle of the helloworld action
// and the dispatcher that feeds host events into it.
//
// Each key instance cycles Hello -> World -> ! -> Hello: a press moves an
// idle key to pressed, a release moves a pressed key to released-pending,
// and a timer returns it to idle after the release delay.
package plugin

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/fkcurrie/streamdeck-helloworld/internal/logging"
	"github.com/fkcurrie/streamdeck-helloworld/internal/types"
)

// Host is the set of directives the controller sends to the Stream Deck application
type Host interface {
	SetTitle(keyContext, title string) error
	SetSettings(keyContext string, settings types.Settings) error
	SetImage(keyContext, image string) error
}

// Timer is a pending delayed callback
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run after d
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Controller
type Option func(*Controller)

// WithAfterFunc replaces the clock used for the release timer
func WithAfterFunc(fn AfterFunc) Option {
	return func(c *Controller) {
		c.afterFunc = fn
	}
}

// WithImages makes every render also send the key image for the state
func WithImages(imager types.KeyImager) Option {
	return func(c *Controller) {
		c.imager = imager
	}
}

// keyInstance is the state owned by one key on the device
type keyInstance struct {
	settings types.Settings
	timer    Timer
	// generation identifies the scheduled timer; a callback carrying a
	// stale generation is ignored.
	generation uint64
}

// frame is one rendered key, queued for the host in render order
type frame struct {
	keyContext string
	state      types.KeyState
	title      string
}

// Controller tracks the state of every visible key instance
type Controller struct {
	host      Host
	cfg       types.ActionConfig
	afterFunc AfterFunc
	imager    types.KeyImager

	mu     sync.Mutex
	keys   map[string]*keyInstance
	seq    uint64
	outbox []frame

	// sendMu serialises delivery of the outbox so frames reach the host in
	// the order they were rendered, without holding mu across host writes.
	sendMu sync.Mutex
}

// NewController creates a controller that renders through host
func NewController(host Host, cfg types.ActionConfig, opts ...Option) *Controller {
	c := &Controller{
		host:      host,
		cfg:       cfg,
		afterFunc: realAfterFunc,
		keys:      make(map[string]*keyInstance),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Title returns the title displayed for state
func (c *Controller) Title(state types.KeyState) string {
	switch state {
	case types.StateIdle:
		return c.cfg.Titles.Idle
	case types.StatePressed:
		return c.cfg.Titles.Pressed
	case types.StateReleasedPending:
		return c.cfg.Titles.ReleasedPending
	default:
		return c.cfg.Titles.Unknown
	}
}

// State returns the current state of keyContext and whether it is tracked
func (c *Controller) State(keyContext string) (types.KeyState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	inst, ok := c.keys[keyContext]
	if !ok {
		return types.StateUnknown, false
	}
	return inst.settings.State(), true
}

// Settings returns a copy of the settings held for keyContext
func (c *Controller) Settings(keyContext string) types.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()

	if inst, ok := c.keys[keyContext]; ok {
		return inst.settings.Clone()
	}
	return nil
}

// WillAppear resets the key to idle with the given settings
func (c *Controller) WillAppear(keyContext string, settings types.Settings) {
	defer c.flush()
	c.mu.Lock()
	defer c.mu.Unlock()

	inst := c.instance(keyContext)
	c.cancelTimer(inst)
	inst.settings = settings.Clone()
	inst.settings.SetState(types.StateIdle)
	c.render(keyContext, inst)
}

// WillDisappear forgets the key instance
func (c *Controller) WillDisappear(keyContext string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if inst, ok := c.keys[keyContext]; ok {
		c.cancelTimer(inst)
		delete(c.keys, keyContext)
	}
}

// KeyDown handles a press. Any pending release timer is cancelled when the
// key enters the pressed state, so a late callback cannot end the new cycle.
func (c *Controller) KeyDown(keyContext string) {
	defer c.flush()
	c.mu.Lock()
	defer c.mu.Unlock()

	inst := c.instance(keyContext)
	switch inst.settings.State() {
	case types.StateIdle, types.StateReleasedPending:
		c.cancelTimer(inst)
		inst.settings.SetState(types.StatePressed)
	}
	c.render(keyContext, inst)
}

// KeyUp handles a release. Only a pressed key reacts.
func (c *Controller) KeyUp(keyContext string) {
	defer c.flush()
	c.mu.Lock()
	defer c.mu.Unlock()

	inst := c.instance(keyContext)
	if inst.settings.State() != types.StatePressed {
		return
	}

	inst.settings.SetState(types.StateReleasedPending)
	c.render(keyContext, inst)

	c.cancelTimer(inst)
	gen := inst.generation
	inst.timer = c.afterFunc(c.cfg.ReleaseDelay, func() {
		c.expire(keyContext, gen)
	})
}

// SettingsChanged replaces the key settings and renders whatever state they
// carry. The state is not reset, so settings without a state show the
// unknown title.
func (c *Controller) SettingsChanged(keyContext string, settings types.Settings) {
	defer c.flush()
	c.mu.Lock()
	defer c.mu.Unlock()

	inst := c.instance(keyContext)
	inst.settings = settings.Clone()
	c.render(keyContext, inst)
}

// SideMessage handles a value sent by the property inspector. It is logged,
// and persisted only when the action is configured to do so.
func (c *Controller) SideMessage(keyContext string, key string, value any) {
	if !truthy(value) {
		return
	}
	logging.Infof("property inspector for %s sent %s=%v", keyContext, key, value)

	if c.cfg.PersistInspectorValues {
		if err := c.SaveSetting(keyContext, key, value); err != nil {
			logging.Warnf("failed to save %s for %s: %v", key, keyContext, err)
		}
	}
}

// SaveSetting merges key=value into the key settings and asks the host to
// persist them. Empty keys and empty values are ignored.
func (c *Controller) SaveSetting(keyContext string, key string, value any) error {
	if key == "" || !truthy(value) {
		return nil
	}

	c.mu.Lock()
	inst := c.instance(keyContext)
	inst.settings[key] = value
	snapshot := inst.settings.Clone()
	c.mu.Unlock()

	return c.host.SetSettings(keyContext, snapshot)
}

// Close stops every pending timer
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, inst := range c.keys {
		c.cancelTimer(inst)
	}
}

// expire returns a released key to idle once its timer fires
func (c *Controller) expire(keyContext string, gen uint64) {
	defer c.flush()
	c.mu.Lock()
	defer c.mu.Unlock()

	inst, ok := c.keys[keyContext]
	if !ok || inst.timer == nil || inst.generation != gen {
		return
	}
	inst.timer = nil
	inst.settings.SetState(types.StateIdle)
	c.render(keyContext, inst)
}

// instance returns the key instance for keyContext, creating it on first
// use. Callers must hold c.mu.
func (c *Controller) instance(keyContext string) *keyInstance {
	inst, ok := c.keys[keyContext]
	if !ok {
		inst = &keyInstance{settings: types.Settings{}}
		c.keys[keyContext] = inst
	}
	return inst
}

// cancelTimer stops the pending timer and invalidates its callback.
// Callers must hold c.mu.
func (c *Controller) cancelTimer(inst *keyInstance) {
	if inst.timer != nil {
		inst.timer.Stop()
		inst.timer = nil
	}
	c.seq++
	inst.generation = c.seq
}

// render queues the title for the key's current state. Callers must hold
// c.mu and call flush after releasing it.
func (c *Controller) render(keyContext string, inst *keyInstance) {
	state := inst.settings.State()
	c.outbox = append(c.outbox, frame{
		keyContext: keyContext,
		state:      state,
		title:      c.Title(state),
	})
}

// flush delivers queued frames to the host. It must not be called with c.mu
// held.
func (c *Controller) flush() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	for {
		c.mu.Lock()
		frames := c.outbox
		c.outbox = nil
		c.mu.Unlock()

		if len(frames) == 0 {
			return
		}
		for _, f := range frames {
			c.send(f)
		}
	}
}

// send writes one frame: a title and, with images enabled, the key image
func (c *Controller) send(f frame) {
	logging.Debugf("render %s: state=%s title=%q", f.keyContext, f.state, f.title)

	if err := c.host.SetTitle(f.keyContext, f.title); err != nil {
		logging.Warnf("setTitle for %s failed: %v", f.keyContext, err)
	}

	if c.imager == nil {
		return
	}
	uri, err := c.imager.DataURI(f.state)
	if err != nil {
		logging.Warnf("key image for %s failed: %v", f.state, err)
		return
	}
	if err := c.host.SetImage(f.keyContext, uri); err != nil {
		logging.Warnf("setImage for %s failed: %v", f.keyContext, err)
	}
}

// truthy reports whether a property inspector value counts as set
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}
