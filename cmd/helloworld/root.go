package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fkcurrie/streamdeck-helloworld/internal/config"
	"github.com/fkcurrie/streamdeck-helloworld/internal/display"
	"github.com/fkcurrie/streamdeck-helloworld/internal/logging"
	"github.com/fkcurrie/streamdeck-helloworld/internal/plugin"
	"github.com/fkcurrie/streamdeck-helloworld/internal/streamdeck"
	"github.com/fkcurrie/streamdeck-helloworld/internal/types"
)

var cfgFile string

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "helloworld",
		Short:         "Hello World Stream Deck plugin",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runPlugin,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: helloworld.yaml in the plugin or user config directory)")
	config.BindFlags(root)

	root.AddCommand(newRenderCommand(), newConfigCommand())
	return root
}

// loadConfig loads the config and sets up logging. The returned function
// releases the log file.
func loadConfig(cmd *cobra.Command) (*config.Config, func(), error) {
	cfg, err := config.LoadConfig(cmd, cfgFile)
	if err != nil {
		return nil, nil, err
	}

	closer, err := logging.Configure(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, func() { closer.Close() }, nil
}

func runPlugin(cmd *cobra.Command, _ []string) error {
	cfg, closeLog, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := cfg.Validate(); err != nil {
		return err
	}

	session := uuid.NewString()
	logging.L = logging.L.With("session", session[:8])

	if cfg.Host.PluginUUID == "" {
		// Only happens when started by hand against a test host.
		cfg.Host.PluginUUID = session
		logging.Warnf("no pluginUUID given, registering as %s", session)
	}

	info, err := types.ParseLaunchInfo(cfg.Host.Info)
	if err != nil {
		logging.Warnf("%v", err)
	}
	logging.Infof("starting helloworld %s (Stream Deck %s on %s, %d device(s))",
		version, info.Application.Version, info.Application.Platform, len(info.Devices))

	var opts []plugin.Option
	if cfg.Display.Enabled {
		if info.DevicePixelRatio >= 2 && cfg.Display.Size == config.DefaultConfig().Display.Size {
			cfg.Display.Size *= 2
		}
		renderer, err := display.NewRenderer(cfg.Display)
		if err != nil {
			return fmt.Errorf("failed to create key renderer: %w", err)
		}
		opts = append(opts, plugin.WithImages(renderer))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := streamdeck.NewClient(cfg.Host)
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()

	controller := plugin.NewController(client, cfg.Action, opts...)
	defer controller.Close()

	dispatcher := plugin.NewDispatcher(cfg.Action.UUID)
	controller.Register(dispatcher)

	if err := client.LogMessage(fmt.Sprintf("helloworld %s started", version)); err != nil {
		logging.Warnf("logMessage failed: %v", err)
	}

	err = dispatcher.Run(ctx, client.Events())
	if errors.Is(err, context.Canceled) {
		logging.Infof("shutting down...")
		return nil
	}
	logging.Infof("Stream Deck closed the connection")
	return err
}
