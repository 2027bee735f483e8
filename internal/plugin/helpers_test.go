package plugin

import (
	"sync"
	"time"

	"github.com/fkcurrie/streamdeck-helloworld/internal/types"
)

type call struct {
	kind     string
	context  string
	value    string
	settings types.Settings
}

// fakeHost records every directive the controller sends
type fakeHost struct {
	mu    sync.Mutex
	calls []call
}

func (h *fakeHost) SetTitle(keyContext, title string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, call{kind: "setTitle", context: keyContext, value: title})
	return nil
}

func (h *fakeHost) SetSettings(keyContext string, settings types.Settings) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, call{kind: "setSettings", context: keyContext, settings: settings})
	return nil
}

func (h *fakeHost) SetImage(keyContext, image string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, call{kind: "setImage", context: keyContext, value: image})
	return nil
}

// titles returns the titles sent to keyContext, in order
func (h *fakeHost) titles(keyContext string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, c := range h.calls {
		if c.kind == "setTitle" && c.context == keyContext {
			out = append(out, c.value)
		}
	}
	return out
}

func (h *fakeHost) count(kind string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, c := range h.calls {
		if c.kind == kind {
			n++
		}
	}
	return n
}

func (h *fakeHost) last(kind string) (call, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.calls) - 1; i >= 0; i-- {
		if h.calls[i].kind == kind {
			return h.calls[i], true
		}
	}
	return call{}, false
}

// slowHost blocks setTitle for one key until release is closed
type slowHost struct {
	fakeHost
	mu      sync.Mutex
	key     string
	entered chan struct{}
	release chan struct{}
}

func (h *slowHost) stall(keyContext string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.key = keyContext
}

func (h *slowHost) SetTitle(keyContext, title string) error {
	h.mu.Lock()
	stalled := h.key != "" && h.key == keyContext
	if stalled {
		h.key = ""
	}
	h.mu.Unlock()

	if stalled {
		close(h.entered)
		<-h.release
	}
	return h.fakeHost.SetTitle(keyContext, title)
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeClock hands out timers that only fire when the test says so
type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{delay: d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// fire runs timer i even if it was stopped, as a timer that lost the race
// with Stop would.
func (c *fakeClock) fire(i int) {
	t := c.timers[i]
	t.fired = true
	t.fn()
}

type fakeImager struct{}

func (fakeImager) DataURI(state types.KeyState) (string, error) {
	return "img:" + state.String(), nil
}

func testActionConfig() types.ActionConfig {
	return types.ActionConfig{
		ReleaseDelay: 800 * time.Millisecond,
		Titles: types.TitleConfig{
			Idle:            "Hello",
			Pressed:         "World",
			ReleasedPending: "!",
			Unknown:         "?",
		},
	}
}

func newTestController(opts ...Option) (*Controller, *fakeHost, *fakeClock) {
	host := &fakeHost{}
	clock := &fakeClock{}
	opts = append([]Option{WithAfterFunc(clock.AfterFunc)}, opts...)
	return NewController(host, testActionConfig(), opts...), host, clock
}
