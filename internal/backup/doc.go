// Package backup exports an OrcaSlicer configuration directory to a single
// archive and restores it again.
//
// # Exporting
//
// [Engine.Export] resolves the live configuration directory, writes the
// metadata record followed by every file the exclusion rules keep, validates
// the result and only then moves it onto the destination:
//
//	eng := backup.NewEngine(platform.NewResolver(platform.Host()))
//	res, err := eng.Export("/backups/orca.zip")
//
// The destination is never left holding a partial archive. Files that cannot
// be read are skipped with a warning and reported in [ExportResult.Skipped].
//
// # Importing
//
// [Engine.Import] replaces the live directory with the payload of an archive:
//
//  1. the archive is validated
//  2. optionally, the current directory is exported next to itself as a
//     safety backup named orca_config_backup_YYYYMMDD_HHMMSS.zip
//  3. the payload is extracted to a scratch directory
//  4. the live directory is cleared and the payload copied in
//
// If steps 3 or 4 fail and a safety backup exists, it is imported once with
// no further backup. The returned [*ImportError] records whether that rollback
// ran and how it went; it always wraps the original failure.
//
// If the safety backup itself cannot be written the engine asks its
// [ConfirmFunc]. Without one, the import stops with [ErrBackupDeclined] before
// anything is touched.
//
// # Error Handling
//
//   - [ErrConfigNotFound]: no configuration directory could be resolved
//   - [ErrEmptyConfiguration]: the directory exists but has no entries
//   - [archive.ErrInvalidArchive]: the archive failed validation
//   - [ErrPartialWrite]: writing the archive failed
//   - [ErrValidationFailed]: the written archive did not validate
//   - [ErrImportFailed]: extraction or replacement failed
//   - [ErrBackupDeclined]: no safety backup and no confirmation to go on
//
// An Engine does no locking. Calls against the same directory must be
// serialized by the caller.
package backup
