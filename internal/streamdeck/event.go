package streamdeck

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fkcurrie/streamdeck-helloworld/internal/logging"
	"github.com/fkcurrie/streamdeck-helloworld/internal/types"
)

// envelope is the common shape of every message sent by the application
type envelope struct {
	Event   string          `json:"event"`
	Action  string          `json:"action"`
	Context string          `json:"context"`
	Device  string          `json:"device"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeEvent parses a message from the Stream Deck application. Only a
// message that is not a JSON object is an error; a payload of the wrong
// shape is dropped and the event is returned with an empty payload.
func DecodeEvent(message []byte) (types.Event, error) {
	var env envelope
	if err := json.Unmarshal(message, &env); err != nil {
		return types.Event{}, fmt.Errorf("invalid event message: %w", err)
	}

	evt := types.Event{
		Kind:    types.ParseEventKind(env.Event),
		Name:    env.Event,
		Action:  env.Action,
		Context: env.Context,
		Device:  env.Device,
	}

	switch evt.Kind {
	case types.EventWillAppear, types.EventWillDisappear:
		evt.Appear = &types.AppearPayload{}
		decodePayload(env, evt.Appear)
	case types.EventKeyDown, types.EventKeyUp:
		evt.Key = &types.KeyPayload{}
		decodePayload(env, evt.Key)
	case types.EventSettingsChanged:
		evt.Settings = &types.SettingsPayload{}
		decodePayload(env, evt.Settings)
	case types.EventSideMessage:
		evt.Message = &types.SendToPluginPayload{}
		decodePayload(env, evt.Message)
	}

	return evt, nil
}

// decodePayload fills dst from the raw payload. Numbers are kept as
// json.Number so settings round-trip without float conversion.
func decodePayload(env envelope, dst any) {
	if len(env.Payload) == 0 || bytes.Equal(env.Payload, []byte("null")) {
		return
	}

	dec := json.NewDecoder(bytes.NewReader(env.Payload))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		logging.Warnf("ignoring malformed %s payload for %s: %v", env.Event, env.Context, err)
		// A partial decode may have left fields half-set.
		switch p := dst.(type) {
		case *types.AppearPayload:
			*p = types.AppearPayload{}
		case *types.KeyPayload:
			*p = types.KeyPayload{}
		case *types.SettingsPayload:
			*p = types.SettingsPayload{}
		case *types.SendToPluginPayload:
			*p = types.SendToPluginPayload{}
		}
	}
}
