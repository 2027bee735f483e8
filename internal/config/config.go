package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fkcurrie/streamdeck-helloworld/internal/types"
)

// ErrMissingPort is returned by Validate when no host port was supplied
var ErrMissingPort = errors.New("missing Stream Deck port")

const (
	configName = "helloworld"
	envPrefix  = "helloworld"
)

// Config represents the application configuration
type Config struct {
	Host    types.HostConfig    `mapstructure:"host" yaml:"host"`
	Action  types.ActionConfig  `mapstructure:"action" yaml:"action"`
	Display types.DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     types.LogConfig     `mapstructure:"log" yaml:"log"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Host: types.HostConfig{
			Address:       "127.0.0.1",
			RegisterEvent: "registerPlugin",
			PingInterval:  54 * time.Second,
			PongWait:      60 * time.Second,
			WriteTimeout:  10 * time.Second,
		},
		Action: types.ActionConfig{
			ReleaseDelay: 800 * time.Millisecond,
			Titles: types.TitleConfig{
				Idle:            "Hello",
				Pressed:         "World",
				ReleasedPending: "!",
				Unknown:         "?",
			},
		},
		Display: types.DisplayConfig{
			Size:       72,
			Background: "black",
			Colors: types.StateColors{
				Idle:            "steelblue",
				Pressed:         "seagreen",
				ReleasedPending: "darkorange",
				Unknown:         "dimgray",
			},
		},
		Log: types.LogConfig{
			Level: "info",
		},
	}
}

// defaults flattens DefaultConfig into viper keys
func defaults() map[string]any {
	d := DefaultConfig()
	return map[string]any{
		"host.address":                   d.Host.Address,
		"host.port":                      d.Host.Port,
		"host.pluginUUID":                d.Host.PluginUUID,
		"host.registerEvent":             d.Host.RegisterEvent,
		"host.info":                      d.Host.Info,
		"host.pingInterval":              d.Host.PingInterval,
		"host.pongWait":                  d.Host.PongWait,
		"host.writeTimeout":              d.Host.WriteTimeout,
		"action.uuid":                    d.Action.UUID,
		"action.releaseDelay":            d.Action.ReleaseDelay,
		"action.titles.idle":             d.Action.Titles.Idle,
		"action.titles.pressed":          d.Action.Titles.Pressed,
		"action.titles.releasedPending":  d.Action.Titles.ReleasedPending,
		"action.titles.unknown":          d.Action.Titles.Unknown,
		"action.persistInspectorValues":  d.Action.PersistInspectorValues,
		"display.enabled":                d.Display.Enabled,
		"display.size":                   d.Display.Size,
		"display.background":             d.Display.Background,
		"display.colors.idle":            d.Display.Colors.Idle,
		"display.colors.pressed":         d.Display.Colors.Pressed,
		"display.colors.releasedPending": d.Display.Colors.ReleasedPending,
		"display.colors.unknown":         d.Display.Colors.Unknown,
		"log.level":                      d.Log.Level,
		"log.file":                       d.Log.File,
	}
}

// flagKeys maps command-line flags to config keys. The first four are the
// arguments the Stream Deck application passes when it launches a plugin.
var flagKeys = map[string]string{
	"port":          "host.port",
	"pluginUUID":    "host.pluginUUID",
	"registerEvent": "host.registerEvent",
	"info":          "host.info",
	"action":        "action.uuid",
	"release-delay": "action.releaseDelay",
	"images":        "display.enabled",
	"log-level":     "log.level",
	"log-file":      "log.file",
}

// LaunchFlags lists the flags the Stream Deck application passes with a single dash
var LaunchFlags = []string{"port", "pluginUUID", "registerEvent", "info"}

// BindFlags registers the configuration flags on cmd
func BindFlags(cmd *cobra.Command) {
	d := DefaultConfig()
	f := cmd.PersistentFlags()
	f.Int("port", d.Host.Port, "Stream Deck WebSocket port")
	f.String("pluginUUID", d.Host.PluginUUID, "plugin instance UUID assigned by Stream Deck")
	f.String("registerEvent", d.Host.RegisterEvent, "event name used to register the plugin")
	f.String("info", d.Host.Info, "JSON document describing the application and devices")
	f.String("action", d.Action.UUID, "action UUID to handle (empty accepts every action)")
	f.Duration("release-delay", d.Action.ReleaseDelay, "delay before a released key returns to idle")
	f.Bool("images", d.Display.Enabled, "render a per-state key image")
	f.String("log-level", d.Log.Level, "log level (debug, info, warn, error)")
	f.String("log-file", d.Log.File, "write logs to this file instead of stderr")
}

// getConfigDirs returns the directories searched for helloworld.yaml
func getConfigDirs() []string {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		// The plugin directory inside the Stream Deck plugins folder.
		dirs = append(dirs, filepath.Dir(exe))
	}
	if userDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userDir, configName))
	}
	return append(dirs, ".")
}

// LoadConfig loads the configuration. Precedence from lowest to highest:
// defaults, config file, HELLOWORLD_* environment variables, flags.
// configFile may be empty to search the standard locations.
func LoadConfig(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		for _, dir := range getConfigDirs() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine when searching; an explicit path must exist.
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		for name, key := range flagKeys {
			flag := cmd.Flags().Lookup(name)
			if flag == nil {
				flag = cmd.PersistentFlags().Lookup(name)
			}
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings needed to run the plugin
func (c *Config) Validate() error {
	if c.Host.Port <= 0 || c.Host.Port > 65535 {
		return ErrMissingPort
	}
	if c.Action.ReleaseDelay <= 0 {
		return fmt.Errorf("release delay must be positive, got %s", c.Action.ReleaseDelay)
	}
	if c.Display.Size <= 0 {
		return fmt.Errorf("display size must be positive, got %d", c.Display.Size)
	}
	return nil
}

// WriteConfigFile writes c as YAML to path, creating parent directories
func WriteConfigFile(c *Config, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
