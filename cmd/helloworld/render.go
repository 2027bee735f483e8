package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fkcurrie/streamdeck-helloworld/internal/display"
	"github.com/fkcurrie/streamdeck-helloworld/internal/logging"
	"github.com/fkcurrie/streamdeck-helloworld/internal/types"
)

// renderStates lists the images written by the render command
var renderStates = []struct {
	state types.KeyState
	file  string
}{
	{types.StateIdle, "idle.png"},
	{types.StatePressed, "pressed.png"},
	{types.StateReleasedPending, "released.png"},
	{types.StateUnknown, "unknown.png"},
}

func newRenderCommand() *cobra.Command {
	var outDir string
	var size int

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the key image for every state as PNG files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, closeLog, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			if size > 0 {
				cfg.Display.Size = size
			}
			return renderImages(cfg.Display, outDir, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().IntVar(&size, "size", 0, "image edge length in pixels (default from config)")
	return cmd
}

func renderImages(cfg types.DisplayConfig, outDir string, w io.Writer) error {
	renderer, err := display.NewRenderer(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, rs := range renderStates {
		data, err := renderer.PNG(rs.state)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, rs.file)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		logging.Debugf("wrote %s (%d bytes)", path, len(data))
		fmt.Fprintln(w, path)
	}
	return nil
}
