package streamdeck

import "github.com/fkcurrie/streamdeck-helloworld/internal/types"

// Target selects where a title or image is shown
type Target int

const (
	TargetBoth     Target = 0
	TargetHardware Target = 1
	TargetSoftware Target = 2
)

// Directive names understood by the Stream Deck application
const (
	DirectiveSetTitle    = "setTitle"
	DirectiveSetSettings = "setSettings"
	DirectiveSetImage    = "setImage"
	DirectiveLogMessage  = "logMessage"
)

// Directive is a message sent from the plugin to the application
type Directive struct {
	Event   string `json:"event"`
	Context string `json:"context,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// Registration is the first message sent after connecting
type Registration struct {
	Event string `json:"event"`
	UUID  string `json:"uuid"`
}

// TitlePayload is the payload of setTitle
type TitlePayload struct {
	Title  string `json:"title"`
	Target Target `json:"target"`
}

// ImagePayload is the payload of setImage
type ImagePayload struct {
	Image  string `json:"image"`
	Target Target `json:"target"`
}

// LogPayload is the payload of logMessage
type LogPayload struct {
	Message string `json:"message"`
}

func setTitle(keyContext, title string) Directive {
	return Directive{
		Event:   DirectiveSetTitle,
		Context: keyContext,
		Payload: TitlePayload{Title: title, Target: TargetBoth},
	}
}

func setSettings(keyContext string, settings types.Settings) Directive {
	if settings == nil {
		settings = types.Settings{}
	}
	return Directive{
		Event:   DirectiveSetSettings,
		Context: keyContext,
		Payload: settings,
	}
}

func setImage(keyContext, image string) Directive {
	return Directive{
		Event:   DirectiveSetImage,
		Context: keyContext,
		Payload: ImagePayload{Image: image, Target: TargetBoth},
	}
}

func logMessage(message string) Directive {
	return Directive{
		Event:   DirectiveLogMessage,
		Payload: LogPayload{Message: message},
	}
}
