package types

import "time"

// HostConfig represents the configuration for the Stream Deck connection
type HostConfig struct {
	Address       string        `mapstructure:"address" yaml:"address"`
	Port          int           `mapstructure:"port" yaml:"port"`
	PluginUUID    string        `mapstructure:"pluginUUID" yaml:"pluginUUID"`
	RegisterEvent string        `mapstructure:"registerEvent" yaml:"registerEvent"`
	Info          string        `mapstructure:"info" yaml:"-"`
	PingInterval  time.Duration `mapstructure:"pingInterval" yaml:"pingInterval"`
	PongWait      time.Duration `mapstructure:"pongWait" yaml:"pongWait"`
	WriteTimeout  time.Duration `mapstructure:"writeTimeout" yaml:"writeTimeout"`
}

// TitleConfig holds the title shown for each key state
type TitleConfig struct {
	Idle            string `mapstructure:"idle" yaml:"idle"`
	Pressed         string `mapstructure:"pressed" yaml:"pressed"`
	ReleasedPending string `mapstructure:"releasedPending" yaml:"releasedPending"`
	Unknown         string `mapstructure:"unknown" yaml:"unknown"`
}

// ActionConfig represents the configuration for the key action
type ActionConfig struct {
	UUID                   string        `mapstructure:"uuid" yaml:"uuid"`
	ReleaseDelay           time.Duration `mapstructure:"releaseDelay" yaml:"releaseDelay"`
	Titles                 TitleConfig   `mapstructure:"titles" yaml:"titles"`
	PersistInspectorValues bool          `mapstructure:"persistInspectorValues" yaml:"persistInspectorValues"`
}

// StateColors holds the key background colour for each state
type StateColors struct {
	Idle            string `mapstructure:"idle" yaml:"idle"`
	Pressed         string `mapstructure:"pressed" yaml:"pressed"`
	ReleasedPending string `mapstructure:"releasedPending" yaml:"releasedPending"`
	Unknown         string `mapstructure:"unknown" yaml:"unknown"`
}

// DisplayConfig represents the configuration for rendered key images
type DisplayConfig struct {
	Enabled    bool        `mapstructure:"enabled" yaml:"enabled"`
	Size       int         `mapstructure:"size" yaml:"size"`
	Background string      `mapstructure:"background" yaml:"background"`
	Colors     StateColors `mapstructure:"colors" yaml:"colors"`
}

// LogConfig represents the logging configuration
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}
