package archive

import (
	"path/filepath"
	"strings"
	"time"
)

const (
	// MetadataName is the archive entry holding the metadata record.
	MetadataName = "backup_metadata.txt"

	// PayloadPrefix is the namespace every configuration file is stored under.
	PayloadPrefix = "config/"

	// UnknownInstallPath is recorded when no installation was found.
	UnknownInstallPath = "unknown"

	// TimestampLayout is the export_date layout. Whole seconds drop the
	// fractional part, matching ISO-8601 output of the original tool.
	TimestampLayout = "2006-01-02T15:04:05.000000"

	timestampLayoutSeconds = "2006-01-02T15:04:05"
)

// Metadata record keys, in the order they are written.
const (
	KeyExportDate  = "export_date"
	KeyPlatform    = "platform"
	KeyConfigPath  = "config_path"
	KeyInstallPath = "install_path"

	// KeyFileCount is added by ReadMetadata; it is never stored.
	KeyFileCount = "file_count"

	// KeyError carries the failure reason when ReadMetadata cannot read a record.
	KeyError = "error"
)

// Metadata is the record written at the start of every archive.
type Metadata struct {
	ExportDate  time.Time
	Platform    string
	ConfigPath  string
	InstallPath string
}

// FormatTimestamp renders t the way export_date is stored: local wall time,
// no zone, microseconds only when non-zero.
func FormatTimestamp(t time.Time) string {
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format(timestampLayoutSeconds)
	}
	return t.Format(TimestampLayout)
}

// Encode returns the record as "key: value" lines joined by newlines, without
// a trailing newline.
func (m Metadata) Encode() []byte {
	install := m.InstallPath
	if install == "" {
		install = UnknownInstallPath
	}
	lines := []string{
		KeyExportDate + ": " + FormatTimestamp(m.ExportDate),
		KeyPlatform + ": " + m.Platform,
		KeyConfigPath + ": " + m.ConfigPath,
		KeyInstallPath + ": " + install,
	}
	return []byte(strings.Join(lines, "\n"))
}

// ParseMetadata parses "key: value" lines. Each line is split on its first
// colon and both sides are trimmed; lines without a colon are ignored. Later
// duplicates overwrite earlier ones.
func ParseMetadata(data []byte) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out
}

// EntryName returns the archive entry name for a path relative to the
// configuration directory.
func EntryName(rel string) string {
	return PayloadPrefix + filepath.ToSlash(rel)
}

// IsPayloadEntry reports whether an entry name belongs to the payload.
func IsPayloadEntry(name string) bool {
	return strings.HasPrefix(name, PayloadPrefix)
}
