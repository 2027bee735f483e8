package main

import (
	"bytes"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// TestRunPlugin_AgainstFakeApp launches the root command the way the
// Stream Deck application does and plays one key cycle.
func TestRunPlugin_AgainstFakeApp(t *testing.T) {
	titles := make(chan string, 16)
	registered := make(chan map[string]any, 1)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Upgrade() error = %v", err)
			return
		}
		defer conn.Close()

		var reg map[string]any
		if err := conn.ReadJSON(&reg); err != nil {
			t.Errorf("reading registration: %v", err)
			return
		}
		registered <- reg

		for _, msg := range []string{
			`{"event":"willAppear","action":"com.example.helloworld.action","context":"K1","payload":{"settings":{}}}`,
			`{"event":"keyDown","action":"com.example.helloworld.action","context":"K1","payload":{"settings":{}}}`,
		} {
			conn.WriteMessage(websocket.TextMessage, []byte(msg))
		}

		seen := 0
		for seen < 2 {
			var d struct {
				Event   string `json:"event"`
				Payload struct {
					Title string `json:"title"`
				} `json:"payload"`
			}
			if err := conn.ReadJSON(&d); err != nil {
				return
			}
			if d.Event == "setTitle" {
				titles <- d.Payload.Title
				seen++
			}
		}
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		// Drain until the plugin closes its side.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	port := srv.Listener.Addr().(*net.TCPAddr).Port
	root := newRootCommand()
	root.SetArgs(normalizeLaunchArgs([]string{
		"-port", strconv.Itoa(port),
		"-pluginUUID", "PLUGIN-1",
		"-registerEvent", "registerPlugin",
		"-info", `{"application":{"platform":"linux","version":"6.0"},"devicePixelRatio":1,"devices":[]}`,
		"--images",
	}))

	errc := make(chan error, 1)
	go func() { errc <- root.Execute() }()

	select {
	case reg := <-registered:
		if reg["event"] != "registerPlugin" || reg["uuid"] != "PLUGIN-1" {
			t.Fatalf("registration = %v", reg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("plugin never registered")
	}

	for _, want := range []string{"Hello", "World"} {
		select {
		case got := <-titles:
			if got != want {
				t.Fatalf("title = %q, want %q", got, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for title %q", want)
		}
	}

	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("plugin did not exit after the application closed the connection")
	}
}

func TestRunPlugin_MissingPort(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"--config", writeConfig(t, "{}\n")})
	if err := root.Execute(); err == nil {
		t.Fatal("Execute() expected error without a port")
	}
}

func TestRenderCommand(t *testing.T) {
	out := t.TempDir()
	root := newRootCommand()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetArgs([]string{"render", "--config", writeConfig(t, "{}\n"), "-o", out, "--size", "36"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, rs := range renderStates {
		f, err := os.Open(filepath.Join(out, rs.file))
		if err != nil {
			t.Fatalf("missing %s: %v", rs.file, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decoding %s: %v", rs.file, err)
		}
		if img.Bounds().Dx() != 36 {
			t.Errorf("%s width = %d, want 36", rs.file, img.Bounds().Dx())
		}
	}
	if lines := strings.Count(stdout.String(), "\n"); lines != len(renderStates) {
		t.Errorf("printed %d paths, want %d", lines, len(renderStates))
	}
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "helloworld.yaml")

	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"config", "init", "--path", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "releaseDelay") {
		t.Errorf("config file missing releaseDelay:\n%s", data)
	}

	root = newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"config", "init", "--path", path})
	if err := root.Execute(); err == nil {
		t.Error("Execute() expected error when the file exists")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "helloworld.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}
