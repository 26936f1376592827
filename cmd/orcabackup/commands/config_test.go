package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/thoreinstein/orcabackup/internal/config"
	"github.com/thoreinstein/orcabackup/internal/editor"
	"github.com/thoreinstein/orcabackup/internal/errors"
	"github.com/thoreinstein/orcabackup/internal/paths"
)

func TestConfigInit_WritesDefaults(t *testing.T) {
	env := setupTestEnv(t)
	configFile = filepath.Join(env.home, "cfg", "config.yaml")

	var buf bytes.Buffer
	if err := runConfigInitWithWriter(&buf); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(buf.String(), "Wrote "+configFile) {
		t.Errorf("unexpected output: %s", buf.String())
	}

	info, err := os.Stat(configFile)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config file mode = %o, want 600", info.Mode().Perm())
	}

	config.Init()
	cfg, err := config.Load(configFile)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	want := config.Default()
	if cfg.Process.WaitTimeout != want.Process.WaitTimeout || cfg.Compare.ContentThreshold != want.Compare.ContentThreshold {
		t.Errorf("loaded config = %+v, want defaults %+v", cfg, want)
	}
	if !strings.Contains(readFile(t, configFile), "wait_timeout: 20s") {
		t.Errorf("durations should be written as strings:\n%s", readFile(t, configFile))
	}
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	env := setupTestEnv(t)
	configFile = filepath.Join(env.home, "config.yaml")
	if err := os.WriteFile(configFile, []byte("version: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := runConfigInitWithWriter(&bytes.Buffer{})
	if errors.CodeOf(err) != errors.ExitUser {
		t.Fatalf("expected user error, got %v", err)
	}
	if readFile(t, configFile) != "version: 1\n" {
		t.Error("existing config file changed")
	}

	configInitForce = true
	if err := runConfigInitWithWriter(&bytes.Buffer{}); err != nil {
		t.Fatalf("config init --force: %v", err)
	}
	if !strings.Contains(readFile(t, configFile), "excluded_dirs:") {
		t.Error("--force should rewrite the config file")
	}
}

func TestConfigShow(t *testing.T) {
	env := setupTestEnv(t)
	path := filepath.Join(env.home, "config.yaml")
	content := "version: 1\ncreate_backup: false\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config.Init()
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	appConfig = cfg

	var buf bytes.Buffer
	if err := runConfigShowWithWriter(&buf); err != nil {
		t.Fatalf("config show: %v", err)
	}
	output := buf.String()
	for _, want := range []string{"# " + path, "create_backup: false", "poll_interval: 2s"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}

	configShowRaw = true
	buf.Reset()
	if err := runConfigShowWithWriter(&buf); err != nil {
		t.Fatalf("config show --raw: %v", err)
	}
	if buf.String() != content {
		t.Errorf("raw output = %q, want %q", buf.String(), content)
	}
}

func TestConfigShow_RawWithoutFile(t *testing.T) {
	env := setupTestEnv(t)
	t.Setenv(paths.ConfigHomeEnv, filepath.Join(env.home, "no-config"))
	t.Chdir(env.home)

	config.Init()
	if _, err := config.Load(""); err != nil {
		t.Fatal(err)
	}

	configShowRaw = true
	err := runConfigShowWithWriter(&bytes.Buffer{})
	if errors.CodeOf(err) != errors.ExitUser {
		t.Errorf("expected user error, got %v", err)
	}
}

// useScriptEditor installs an editor that runs script with the file path as $1.
func useScriptEditor(t *testing.T, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping on windows (uses shell script editor)")
	}
	path := filepath.Join(t.TempDir(), "editor.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	orig := newEditor
	newEditor = func() *editor.Editor {
		return &editor.Editor{Command: path, Stdout: io.Discard, Stderr: io.Discard}
	}
	t.Cleanup(func() { newEditor = orig })
}

func TestConfigEdit_CreatesAndValidates(t *testing.T) {
	env := setupTestEnv(t)
	configFile = filepath.Join(env.home, "cfg", "config.yaml")
	useScriptEditor(t, `sed -i.bak 's/create_backup: true/create_backup: false/' "$1"`)

	var buf bytes.Buffer
	if err := runConfigEditWithWriter(context.Background(), &buf); err != nil {
		t.Fatalf("config edit: %v", err)
	}
	if !strings.Contains(buf.String(), configFile+" is valid") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
	if appConfig.CreateBackup {
		t.Error("edited value should be applied to the running config")
	}
}

func TestConfigEdit_InvalidResult(t *testing.T) {
	env := setupTestEnv(t)
	configFile = filepath.Join(env.home, "config.yaml")
	useScriptEditor(t, `echo "version: 9" > "$1"`)

	err := runConfigEditWithWriter(context.Background(), &bytes.Buffer{})
	if errors.CodeOf(err) != errors.ExitUser {
		t.Fatalf("expected user error, got %v", err)
	}
	if !strings.Contains(err.Error(), "unsupported config version: 9") {
		t.Errorf("error = %v", err)
	}
}

func TestConfigEdit_EditorFails(t *testing.T) {
	env := setupTestEnv(t)
	configFile = filepath.Join(env.home, "config.yaml")
	useScriptEditor(t, "exit 3")

	err := runConfigEditWithWriter(context.Background(), &bytes.Buffer{})
	if errors.CodeOf(err) != errors.ExitSystem {
		t.Fatalf("expected system error, got %v", err)
	}
	if _, statErr := os.Stat(configFile); statErr != nil {
		t.Errorf("defaults should be written before the editor runs: %v", statErr)
	}
}
