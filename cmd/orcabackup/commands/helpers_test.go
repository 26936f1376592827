package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/mock"

	"github.com/thoreinstein/orcabackup/internal/config"
	"github.com/thoreinstein/orcabackup/internal/process"
	"github.com/thoreinstein/orcabackup/internal/process/mocks"
)

// testEnv is an isolated home with a populated configuration directory and
// an empty archive directory.
type testEnv struct {
	home       string
	configDir  string
	archiveDir string
}

// setupTestEnv points HOME and the XDG variables at a temp dir, installs a
// config whose overrides resolve inside it, and restores every
// package-level flag afterwards. The process detector reports OrcaSlicer as
// not running.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	home := t.TempDir()
	for _, key := range []string{"XDG_CONFIG_HOME", "XDG_DATA_HOME", "APPDATA", "LOCALAPPDATA"} {
		t.Setenv(key, filepath.Join(home, "env-"+key))
	}
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	env := &testEnv{
		home:       home,
		configDir:  filepath.Join(home, "orca", "data"),
		archiveDir: filepath.Join(home, "archives"),
	}

	writeFiles(t, env.configDir, map[string]string{
		"OrcaSlicer.conf":              `{"app":{"language":"en"}}`,
		"user/default/filament/a.json": `{"name":"PLA"}`,
		"cache/blob.bin":               "cached",
	})

	saved := struct {
		cfg          *config.Config
		loadErr      error
		quiet        bool
		exportForce  bool
		exportNow    func() time.Time
		noBackup     bool
		yes          bool
		wait         int
		ignore       bool
		infoFlags    [4]bool
		inspectFlags [2]bool
		threshold    int64
		compareJSON  bool
		listJSON     bool
		initForce    bool
		showRaw      bool
		doctorFlags  [2]bool
		configFile   string
		detector     func() process.Detector
		stdin        io.Reader
	}{
		appConfig, configLoadErr, quiet, exportForce, exportNow,
		importNoBackup, importYes, importWaitSeconds, importIgnoreRunning,
		[4]bool{infoJSON, infoYAML, infoTOML, infoDetailed},
		[2]bool{inspectJSON, inspectList},
		compareThreshold, compareJSON, listJSON, configInitForce, configShowRaw,
		[2]bool{doctorJSON, doctorAll}, configFile, newDetector, stdin,
	}
	t.Cleanup(func() {
		appConfig, configLoadErr, quiet = saved.cfg, saved.loadErr, saved.quiet
		exportForce, exportNow = saved.exportForce, saved.exportNow
		importNoBackup, importYes = saved.noBackup, saved.yes
		importWaitSeconds, importIgnoreRunning = saved.wait, saved.ignore
		infoJSON, infoYAML, infoTOML, infoDetailed = saved.infoFlags[0], saved.infoFlags[1], saved.infoFlags[2], saved.infoFlags[3]
		inspectJSON, inspectList = saved.inspectFlags[0], saved.inspectFlags[1]
		compareThreshold, compareJSON, listJSON = saved.threshold, saved.compareJSON, saved.listJSON
		configInitForce, configShowRaw, configFile = saved.initForce, saved.showRaw, saved.configFile
		doctorJSON, doctorAll = saved.doctorFlags[0], saved.doctorFlags[1]
		newDetector, stdin = saved.detector, saved.stdin
	})

	cfg := config.Default()
	cfg.ConfigDir = env.configDir
	cfg.ArchiveDir = env.archiveDir
	appConfig = cfg
	configLoadErr = nil

	quiet = false
	exportForce = false
	exportNow = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local) }
	importNoBackup, importYes, importWaitSeconds, importIgnoreRunning = false, false, -1, false
	infoJSON, infoYAML, infoTOML, infoDetailed = false, false, false, false
	inspectJSON, inspectList = false, false
	compareThreshold, compareJSON, listJSON = 0, false, false
	configInitForce, configShowRaw, configFile = false, false, ""
	doctorJSON, doctorAll = false, false

	useDetector(t, false)
	disableColor(t)

	return env
}

// disableColor turns off escape codes so output can be matched as text.
func disableColor(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
}

// useDetector installs a mock detector that always answers running.
func useDetector(t *testing.T, running bool) *mocks.MockDetector {
	t.Helper()
	d := mocks.NewMockDetector(t)
	d.EXPECT().Running(mock.Anything).Return(running, nil).Maybe()
	newDetector = func() process.Detector { return d }
	return d
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", path, err)
		}
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// exportTo writes an archive of the test configuration to path.
func exportTo(t *testing.T, path string) string {
	t.Helper()
	if err := runExportWithWriter(context.Background(), io.Discard, []string{path}); err != nil {
		t.Fatalf("export to %s: %v", path, err)
	}
	return path
}
