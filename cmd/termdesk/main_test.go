package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/runtimepath"
	"github.com/1broseidon/termdesk/internal/wm"
)

// startDaemon serves a fresh registry on a temporary socket that
// ipc.NewClient picks up through the environment.
func startDaemon(t *testing.T) {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "td.sock")
	t.Setenv(runtimepath.SocketEnv, socket)

	n := 0
	mgr := wm.New(wm.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("w%d", n)
	}))
	handler := ipc.NewSerialHandler(mgr, nil)
	t.Cleanup(handler.Close)

	srv := ipc.NewServerAt(socket, handler)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
}

func TestUsageErrors(t *testing.T) {
	t.Setenv(runtimepath.SocketEnv, filepath.Join(t.TempDir(), "none.sock"))
	var out bytes.Buffer

	tests := []struct {
		name string
		run  func() int
	}{
		{"open without kind", func() int { return runOpen(nil, &out) }},
		{"open unknown kind", func() int { return runOpen([]string{"calculator"}, &out) }},
		{"open two kinds", func() int { return runOpen([]string{"todo", "shell"}, &out) }},
		{"close without id", func() int { return runWindowCommand("close", nil, &out) }},
		{"focus blank id", func() int { return runWindowCommand("focus", []string{""}, &out) }},
		{"list with args", func() int { return runList([]string{"extra"}, &out) }},
		{"status with args", func() int { return runStatus([]string{"extra"}, &out) }},
		{"kinds with args", func() int { return runKinds([]string{"extra"}, &out) }},
		{"config without subcommand", func() int { return runConfig(nil) }},
		{"config unknown subcommand", func() int { return runConfigTo([]string{"edit"}, &out) }},
		{"mcp without subcommand", func() int { return runMCP(nil) }},
		{"daemon with args", func() int { return runDaemon([]string{"extra"}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rc := tt.run(); rc != 2 {
				t.Fatalf("rc=%d, want 2", rc)
			}
		})
	}
}

func TestWindowCommandsWithoutServer(t *testing.T) {
	t.Setenv(runtimepath.SocketEnv, filepath.Join(t.TempDir(), "none.sock"))
	var out bytes.Buffer

	if rc := runList(nil, &out); rc != 1 {
		t.Fatalf("list rc=%d, want 1", rc)
	}
	if rc := runOpen([]string{"todo"}, &out); rc != 1 {
		t.Fatalf("open rc=%d, want 1", rc)
	}
	if rc := runStatus(nil, &out); rc != 1 {
		t.Fatalf("status rc=%d, want 1", rc)
	}
}

func TestWindowCommandsAgainstDaemon(t *testing.T) {
	startDaemon(t)

	var out bytes.Buffer
	if rc := runOpen([]string{"todo"}, &out); rc != 0 {
		t.Fatalf("open rc=%d, want 0", rc)
	}
	if got := strings.TrimSpace(out.String()); got != "w1" {
		t.Fatalf("open printed %q, want %q", got, "w1")
	}

	out.Reset()
	if rc := runOpen([]string{"--json", "shell"}, &out); rc != 0 {
		t.Fatalf("open --json rc=%d, want 0", rc)
	}
	var data ipc.WindowsData
	if err := json.Unmarshal(out.Bytes(), &data); err != nil {
		t.Fatalf("decode open output: %v\n%s", err, out.String())
	}
	if data.ID != "w2" || data.ActiveID != "w2" || len(data.Windows) != 2 {
		t.Fatalf("open data = %+v", data)
	}

	out.Reset()
	if rc := runWindowCommand("minimize", []string{"w2"}, &out); rc != 0 {
		t.Fatalf("minimize rc=%d, want 0", rc)
	}
	if !strings.Contains(out.String(), "minimized") {
		t.Fatalf("minimize output missing state:\n%s", out.String())
	}

	out.Reset()
	if rc := runList(nil, &out); rc != 0 {
		t.Fatalf("list rc=%d, want 0", rc)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("list lines=%d, want 3:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[1], "w1") || !strings.Contains(lines[1], "active") {
		t.Fatalf("first row = %q, want active w1", lines[1])
	}
	if !strings.HasPrefix(lines[2], "w2") || !strings.Contains(lines[2], "minimized") {
		t.Fatalf("second row = %q, want minimized w2", lines[2])
	}

	out.Reset()
	if rc := runStatus(nil, &out); rc != 0 {
		t.Fatalf("status rc=%d, want 0", rc)
	}
	for _, want := range []string{"mode:           daemon", "window_count:   2", "visible_count:  1", "To-Do List (w1)"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("status output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if rc := runWindowCommand("close", []string{"w1"}, &out); rc != 0 {
		t.Fatalf("close rc=%d, want 0", rc)
	}
	if rc := runWindowCommand("restore", []string{"w2"}, &out); rc != 0 {
		t.Fatalf("restore rc=%d, want 0", rc)
	}

	out.Reset()
	if rc := runList([]string{"--json"}, &out); rc != 0 {
		t.Fatalf("list --json rc=%d, want 0", rc)
	}
	data = ipc.WindowsData{}
	if err := json.Unmarshal(out.Bytes(), &data); err != nil {
		t.Fatalf("decode list output: %v", err)
	}
	if len(data.Windows) != 1 || data.Windows[0].ID != "w2" || data.Windows[0].Minimized || data.ActiveID != "w2" {
		t.Fatalf("list data = %+v", data)
	}
}

func TestListEmpty(t *testing.T) {
	startDaemon(t)
	var out bytes.Buffer
	if rc := runList(nil, &out); rc != 0 {
		t.Fatalf("list rc=%d, want 0", rc)
	}
	if got := strings.TrimSpace(out.String()); got != "no windows" {
		t.Fatalf("list output = %q", got)
	}
}

func TestRunKinds(t *testing.T) {
	var out bytes.Buffer
	if rc := runKinds(nil, &out); rc != 0 {
		t.Fatalf("rc=%d, want 0", rc)
	}
	for _, k := range wm.Kinds() {
		if !strings.Contains(out.String(), k.String()) || !strings.Contains(out.String(), k.Title()) {
			t.Fatalf("kinds output missing %s:\n%s", k, out.String())
		}
	}
}

func TestRunConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("theme: light\npomodoro:\n  focus_minutes: 50\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var out bytes.Buffer
	if rc := runConfigTo([]string{"validate", "--path", path}, &out); rc != 0 {
		t.Fatalf("validate rc=%d, want 0", rc)
	}
	if got := strings.TrimSpace(out.String()); got != "config: ok" {
		t.Fatalf("validate output = %q", got)
	}

	out.Reset()
	if rc := runConfigTo([]string{"print", "--path", path}, &out); rc != 0 {
		t.Fatalf("print rc=%d, want 0", rc)
	}
	if !strings.Contains(out.String(), "theme: light") || !strings.Contains(out.String(), "focus_minutes: 50") {
		t.Fatalf("print output:\n%s", out.String())
	}

	out.Reset()
	if rc := runConfigTo([]string{"print", "--defaults"}, &out); rc != 0 {
		t.Fatalf("print --defaults rc=%d, want 0", rc)
	}
	if !strings.Contains(out.String(), "theme: dark") {
		t.Fatalf("defaults output:\n%s", out.String())
	}

	out.Reset()
	if rc := runConfigTo([]string{"explain", "--path", path, "pomodoro.focus_minutes"}, &out); rc != 0 {
		t.Fatalf("explain rc=%d, want 0", rc)
	}
	if !strings.Contains(out.String(), "source: file:") || !strings.Contains(out.String(), "value:\n50") {
		t.Fatalf("explain output:\n%s", out.String())
	}

	out.Reset()
	if rc := runConfigTo([]string{"explain", "--path", path, "window.cascade_step"}, &out); rc != 0 {
		t.Fatalf("explain default rc=%d, want 0", rc)
	}
	if !strings.Contains(out.String(), "source: default:defaults") {
		t.Fatalf("explain default output:\n%s", out.String())
	}

	if rc := runConfigTo([]string{"explain", "--path", path}, &out); rc != 2 {
		t.Fatalf("explain without path rc=%d, want 2", rc)
	}
	if rc := runConfigTo([]string{"explain", "--path", path, "no.such.key"}, &out); rc != 1 {
		t.Fatalf("explain unknown rc=%d, want 1", rc)
	}
}

func TestRunConfigValidateRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("theme: purple\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	var out bytes.Buffer
	if rc := runConfigTo([]string{"validate", "--path", path}, &out); rc != 1 {
		t.Fatalf("validate rc=%d, want 1", rc)
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 7}, "file:/c.yaml:3:7"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Fatalf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := configPath("")
	if err != nil {
		t.Fatalf("configPath: %v", err)
	}
	if want := filepath.Join(home, ".config", "termdesk", "config.yaml"); got != want {
		t.Fatalf("configPath(\"\") = %q, want %q", got, want)
	}

	got, err = configPath("rel.yaml")
	if err != nil {
		t.Fatalf("configPath: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Fatalf("configPath(rel) = %q, want absolute", got)
	}
}
