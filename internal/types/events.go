package types

// EventKind identifies an event dispatched by the Stream Deck application
type EventKind int

const (
	EventUnknown EventKind = iota
	EventWillAppear
	EventWillDisappear
	EventKeyDown
	EventKeyUp
	EventSettingsChanged
	EventSideMessage
	EventInspectorAppeared
	EventInspectorDisappeared
)

var eventNames = map[EventKind]string{
	EventWillAppear:           "willAppear",
	EventWillDisappear:        "willDisappear",
	EventKeyDown:              "keyDown",
	EventKeyUp:                "keyUp",
	EventSettingsChanged:      "didReceiveSettings",
	EventSideMessage:          "sendToPlugin",
	EventInspectorAppeared:    "propertyInspectorDidAppear",
	EventInspectorDisappeared: "propertyInspectorDidDisappear",
}

var eventKinds = func() map[string]EventKind {
	m := make(map[string]EventKind, len(eventNames))
	for k, name := range eventNames {
		m[name] = k
	}
	return m
}()

// ParseEventKind maps a host event name to its kind
func ParseEventKind(name string) EventKind {
	if k, ok := eventKinds[name]; ok {
		return k
	}
	return EventUnknown
}

// String returns the event name used on the wire
func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Coordinates represents the position of a key on the device
type Coordinates struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// AppearPayload is carried by willAppear and willDisappear
type AppearPayload struct {
	Settings        Settings    `json:"settings"`
	Coordinates     Coordinates `json:"coordinates"`
	State           int         `json:"state"`
	IsInMultiAction bool        `json:"isInMultiAction"`
}

// KeyPayload is carried by keyDown and keyUp
type KeyPayload struct {
	Settings         Settings    `json:"settings"`
	Coordinates      Coordinates `json:"coordinates"`
	State            int         `json:"state"`
	UserDesiredState int         `json:"userDesiredState"`
	IsInMultiAction  bool        `json:"isInMultiAction"`
}

// SettingsPayload is carried by didReceiveSettings
type SettingsPayload struct {
	Settings        Settings    `json:"settings"`
	Coordinates     Coordinates `json:"coordinates"`
	IsInMultiAction bool        `json:"isInMultiAction"`
}

// SDPICollection is a single key/value pair sent by the property inspector
type SDPICollection struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// SendToPluginPayload is carried by sendToPlugin
type SendToPluginPayload struct {
	SDPICollection SDPICollection `json:"sdpi_collection"`
}

// Event is a decoded host event. At most one of the payload fields is set,
// depending on Kind.
type Event struct {
	Kind    EventKind
	Name    string
	Action  string
	Context string
	Device  string

	Appear   *AppearPayload
	Key      *KeyPayload
	Settings *SettingsPayload
	Message  *SendToPluginPayload
}
