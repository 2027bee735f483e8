package types

import (
	"encoding/json"
	"fmt"
)

// ApplicationInfo describes the Stream Deck application that launched the plugin
type ApplicationInfo struct {
	Font            string `json:"font"`
	Language        string `json:"language"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platformVersion"`
	Version         string `json:"version"`
}

// PluginInfo describes the plugin as registered with the application
type PluginInfo struct {
	UUID    string `json:"uuid"`
	Version string `json:"version"`
}

// DeviceInfo describes one connected device
type DeviceInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type int    `json:"type"`
	Size struct {
		Columns int `json:"columns"`
		Rows    int `json:"rows"`
	} `json:"size"`
}

// LaunchInfo represents the -info document passed on the command line
type LaunchInfo struct {
	Application      ApplicationInfo `json:"application"`
	Plugin           PluginInfo      `json:"plugin"`
	DevicePixelRatio int             `json:"devicePixelRatio"`
	Devices          []DeviceInfo    `json:"devices"`
}

// ParseLaunchInfo parses the -info argument. An empty string yields the
// zero value.
func ParseLaunchInfo(raw string) (LaunchInfo, error) {
	var info LaunchInfo
	if raw == "" {
		return info, nil
	}
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return info, fmt.Errorf("failed to parse launch info: %w", err)
	}
	return info, nil
}
