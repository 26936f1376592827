package backup

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/orcabackup/internal/archive"
)

var original = map[string]string{
	"OrcaSlicer.conf":                `{"version":"2.1"}`,
	"user/default/filament/PLA.json": "old pla",
	"user/default/machine/X1C.json":  "old x1c",
}

// populated returns a config directory named OrcaSlicer holding original,
// inside its own parent so safety backups land somewhere observable.
func populated(t *testing.T) (configDir, parent string) {
	t.Helper()
	parent = t.TempDir()
	configDir = filepath.Join(parent, "OrcaSlicer")
	writeTree(t, configDir, original)
	return configDir, parent
}

func incomingArchive(t *testing.T) string {
	t.Helper()
	return buildArchive(t,
		[2]string{archive.MetadataName, "export_date: 2024-01-01T00:00:00\nplatform: windows\nconfig_path: C:\\x\ninstall_path: unknown"},
		[2]string{"config/OrcaSlicer.conf", `{"version":"2.2"}`},
		[2]string{"config/user/default/filament/PETG.json", "petg"},
	)
}

func TestImport_ReplacesContents(t *testing.T) {
	configDir, parent := populated(t)

	res, err := newTestEngine(t, fakeResolver{config: configDir}).Import(incomingArchive(t), true)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	want := map[string]string{
		"OrcaSlicer.conf":                 `{"version":"2.2"}`,
		"user/default/filament/PETG.json": "petg",
	}
	if got := readTree(t, configDir); !reflect.DeepEqual(got, want) {
		t.Errorf("config = %v, want %v", got, want)
	}

	wantSafety := filepath.Join(parent, "orca_config_backup_20240301_120000.zip")
	if res.SafetyBackup != wantSafety {
		t.Errorf("SafetyBackup = %q, want %q", res.SafetyBackup, wantSafety)
	}
	if !archive.IsValidBackup(wantSafety) {
		t.Fatal("safety backup is not a valid archive")
	}
	if md := archive.ReadMetadata(wantSafety); md[archive.KeyFileCount] != "3" {
		t.Errorf("safety backup file_count = %q, want 3", md[archive.KeyFileCount])
	}
	if res.ConfigDir != configDir || res.FileCount != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestImport_WithoutSafetyBackup(t *testing.T) {
	configDir, parent := populated(t)

	res, err := newTestEngine(t, fakeResolver{config: configDir}).Import(incomingArchive(t), false)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.SafetyBackup != "" {
		t.Errorf("SafetyBackup = %q, want none", res.SafetyBackup)
	}

	entries, err := os.ReadDir(parent)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("parent holds %d entries, want only the config dir", len(entries))
	}
}

func TestImport_RejectsInvalidArchive(t *testing.T) {
	configDir, _ := populated(t)
	bad := buildArchive(t, [2]string{"config/a.json", "no metadata"})

	_, err := newTestEngine(t, fakeResolver{config: configDir}).Import(bad, true)
	if !errors.Is(err, archive.ErrInvalidArchive) {
		t.Fatalf("Import() error = %v, want ErrInvalidArchive", err)
	}
	if got := readTree(t, configDir); !reflect.DeepEqual(got, original) {
		t.Error("config directory changed by rejected import")
	}
}

func TestImport_CustomValidatorErrorIsInvalidArchive(t *testing.T) {
	configDir, _ := populated(t)
	eng := newTestEngine(t, fakeResolver{config: configDir},
		WithValidator(func(string) error { return errors.New("nope") }))

	_, err := eng.Import(incomingArchive(t), false)
	if !errors.Is(err, archive.ErrInvalidArchive) {
		t.Fatalf("Import() error = %v, want ErrInvalidArchive", err)
	}
}

func TestImport_NoConfigLocation(t *testing.T) {
	_, err := newTestEngine(t, fakeResolver{}).Import(incomingArchive(t), true)
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("Import() error = %v, want ErrConfigNotFound", err)
	}
}

func TestImport_RollbackOnExtractionFailure(t *testing.T) {
	configDir, _ := populated(t)

	// Validates, but config/a cannot be both a file and a directory.
	corrupt := buildArchive(t,
		[2]string{archive.MetadataName, "platform: linux"},
		[2]string{"config/a", "file"},
		[2]string{"config/a/b", "nested"},
	)
	if !archive.IsValidBackup(corrupt) {
		t.Fatal("test archive should pass validation")
	}

	_, err := newTestEngine(t, fakeResolver{config: configDir}).Import(corrupt, true)
	if !errors.Is(err, ErrImportFailed) {
		t.Fatalf("Import() error = %v, want ErrImportFailed", err)
	}

	var ierr *ImportError
	if !errors.As(err, &ierr) {
		t.Fatalf("error %T is not *ImportError", err)
	}
	if !ierr.RolledBack() {
		t.Errorf("RolledBack() = false, RollbackErr = %v", ierr.RollbackErr)
	}
	if got := readTree(t, configDir); !reflect.DeepEqual(got, original) {
		t.Errorf("config after rollback = %v, want %v", got, original)
	}
}

func TestImport_RollbackAfterClear(t *testing.T) {
	configDir, _ := populated(t)

	eng := newTestEngine(t, fakeResolver{config: configDir})
	calls := 0
	eng.hooks.afterClear = func(string) error {
		calls++
		if calls == 1 {
			return errors.New("copy interrupted")
		}
		return nil
	}

	_, err := eng.Import(incomingArchive(t), true)

	var ierr *ImportError
	if !errors.As(err, &ierr) {
		t.Fatalf("Import() error = %v, want *ImportError", err)
	}
	if !ierr.RollbackAttempted || ierr.RollbackErr != nil {
		t.Errorf("rollback attempted=%v err=%v", ierr.RollbackAttempted, ierr.RollbackErr)
	}
	if ierr.SafetyBackup == "" {
		t.Error("SafetyBackup not recorded")
	}
	if !errors.Is(err, ErrImportFailed) {
		t.Error("error does not match ErrImportFailed")
	}
	if got := readTree(t, configDir); !reflect.DeepEqual(got, original) {
		t.Errorf("config after rollback = %v, want %v", got, original)
	}
	if calls != 2 {
		t.Errorf("replacement ran %d times, want 2 (import and one rollback)", calls)
	}
}

func TestImport_RollbackFailsOnce(t *testing.T) {
	configDir, _ := populated(t)

	eng := newTestEngine(t, fakeResolver{config: configDir})
	calls := 0
	eng.hooks.afterClear = func(string) error {
		calls++
		return errors.New("still broken")
	}

	_, err := eng.Import(incomingArchive(t), true)

	var ierr *ImportError
	if !errors.As(err, &ierr) {
		t.Fatalf("Import() error = %v, want *ImportError", err)
	}
	if !ierr.RollbackAttempted || ierr.RollbackErr == nil {
		t.Errorf("rollback attempted=%v err=%v, want a failed attempt", ierr.RollbackAttempted, ierr.RollbackErr)
	}
	if ierr.RolledBack() {
		t.Error("RolledBack() = true for a failed rollback")
	}
	if calls != 2 {
		t.Errorf("replacement ran %d times, want exactly 2", calls)
	}
}

func TestImport_FailureWithoutSafetyBackup(t *testing.T) {
	configDir, _ := populated(t)

	eng := newTestEngine(t, fakeResolver{config: configDir})
	eng.hooks.afterClear = func(string) error { return errors.New("boom") }

	_, err := eng.Import(incomingArchive(t), false)

	var ierr *ImportError
	if !errors.As(err, &ierr) {
		t.Fatalf("Import() error = %v, want *ImportError", err)
	}
	if ierr.RollbackAttempted {
		t.Error("rollback attempted without a safety backup")
	}
	if got := ierr.Error(); got == "" || !errors.Is(err, ErrImportFailed) {
		t.Errorf("unexpected error %q", got)
	}
}

func TestImport_SafetyBackupFailure(t *testing.T) {
	failBackup := func(e *Engine) {
		e.hooks.afterEntry = func(string) error { return errors.New("no space left") }
	}

	t.Run("no confirmation aborts", func(t *testing.T) {
		configDir, _ := populated(t)
		eng := newTestEngine(t, fakeResolver{config: configDir})
		failBackup(eng)

		_, err := eng.Import(incomingArchive(t), true)
		if !errors.Is(err, ErrBackupDeclined) {
			t.Fatalf("Import() error = %v, want ErrBackupDeclined", err)
		}
		if got := readTree(t, configDir); !reflect.DeepEqual(got, original) {
			t.Error("config directory changed after declined import")
		}
	})

	t.Run("refused confirmation aborts", func(t *testing.T) {
		configDir, _ := populated(t)
		var asked error
		eng := newTestEngine(t, fakeResolver{config: configDir},
			WithConfirm(func(cause error) bool { asked = cause; return false }))
		failBackup(eng)

		_, err := eng.Import(incomingArchive(t), true)
		if !errors.Is(err, ErrBackupDeclined) {
			t.Fatalf("Import() error = %v, want ErrBackupDeclined", err)
		}
		if !errors.Is(asked, ErrPartialWrite) {
			t.Errorf("confirm asked with %v, want the backup failure", asked)
		}
		if got := readTree(t, configDir); !reflect.DeepEqual(got, original) {
			t.Error("config directory changed after declined import")
		}
	})

	t.Run("confirmed continues without backup", func(t *testing.T) {
		configDir, _ := populated(t)
		eng := newTestEngine(t, fakeResolver{config: configDir},
			WithConfirm(func(error) bool { return true }))
		failBackup(eng)

		res, err := eng.Import(incomingArchive(t), true)
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		if res.SafetyBackup != "" {
			t.Errorf("SafetyBackup = %q, want none", res.SafetyBackup)
		}
		if _, ok := readTree(t, configDir)["user/default/filament/PETG.json"]; !ok {
			t.Error("archive contents not imported")
		}
	})
}

func TestImport_CreatesMissingDirectory(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "a", "b", "OrcaSlicer")

	res, err := newTestEngine(t, fakeResolver{config: configDir}).Import(incomingArchive(t), true)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.SafetyBackup != "" {
		t.Errorf("SafetyBackup = %q, want none for a new directory", res.SafetyBackup)
	}
	if got := readTree(t, configDir); len(got) != 2 {
		t.Errorf("imported %d files, want 2", len(got))
	}
}

func TestImportError_Messages(t *testing.T) {
	cause := errors.New("extract failed")
	tests := []struct {
		name string
		err  *ImportError
		want string
	}{
		{"no backup", &ImportError{Err: cause}, "import failed: extract failed (no safety backup; the configuration directory may need manual repair)"},
		{"restored", &ImportError{Err: cause, SafetyBackup: "/b.zip", RollbackAttempted: true}, "import failed: extract failed (previous configuration restored from /b.zip)"},
		{"rollback failed", &ImportError{Err: cause, SafetyBackup: "/b.zip", RollbackAttempted: true, RollbackErr: errors.New("io")}, "import failed: extract failed (restoring /b.zip also failed: io)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, cause) {
				t.Error("ImportError does not unwrap to its cause")
			}
		})
	}
}

func TestImport_SafetyBackupKeepsEarlierBackups(t *testing.T) {
	configDir, parent := populated(t)
	first := filepath.Join(parent, "orca_config_backup_20240301_120000.zip")
	if err := os.WriteFile(first, []byte("earlier backup"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := newTestEngine(t, fakeResolver{config: configDir}).Import(incomingArchive(t), true)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	want := filepath.Join(parent, "orca_config_backup_20240301_120000_1.zip")
	if res.SafetyBackup != want {
		t.Errorf("SafetyBackup = %q, want %q", res.SafetyBackup, want)
	}
	if data, _ := os.ReadFile(first); string(data) != "earlier backup" {
		t.Error("earlier safety backup was overwritten")
	}
	if !archive.IsValidBackup(want) {
		t.Error("new safety backup is not a valid archive")
	}
}

func TestImport_SafetyBackupNeverReplacesSource(t *testing.T) {
	configDir, parent := populated(t)

	// The incoming archive sits where the safety backup would be written.
	source := filepath.Join(parent, "orca_config_backup_20240301_120000.zip")
	data, err := os.ReadFile(incomingArchive(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(source, data, 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := newTestEngine(t, fakeResolver{config: configDir}).Import(source, true)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.SafetyBackup == source {
		t.Fatal("safety backup replaced the archive being imported")
	}
	if got, _ := os.ReadFile(source); string(got) != string(data) {
		t.Error("imported archive changed on disk")
	}
	if _, ok := readTree(t, configDir)["user/default/filament/PETG.json"]; !ok {
		t.Error("archive contents not imported")
	}
}

func TestFreeArchivePath(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 1, 9, 7, 5, 3, 0, time.UTC)
	base := filepath.Join(dir, "orca_config_backup_20250109_070503")

	got, err := freeArchivePath(dir, now, filepath.Join(t.TempDir(), "in.zip"))
	if err != nil || got != base+".zip" {
		t.Fatalf("freeArchivePath() = %q, %v", got, err)
	}

	for _, name := range []string{base + ".zip", base + "_1.zip"} {
		if err := os.WriteFile(name, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err = freeArchivePath(dir, now, "")
	if err != nil || got != base+"_2.zip" {
		t.Errorf("freeArchivePath() = %q, %v, want %s_2.zip", got, err, base)
	}
}
