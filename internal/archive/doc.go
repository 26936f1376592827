// Package archive defines the backup archive format and the read-side
// operations on it.
//
// A backup archive is a deflate-compressed zip file holding one plain-text
// metadata record named [MetadataName] and the configuration tree stored
// under [PayloadPrefix]:
//
//	backup_metadata.txt
//	config/printer.json
//	config/user/default/filament/PLA.json
//
// The metadata record is a list of "key: value" lines in a fixed order:
// export_date, platform, config_path and install_path. Readers split each
// line on its first colon only, so values such as Windows paths and
// timestamps survive intact.
//
// [Validate] and [IsValidBackup] gatekeep every archive before it is trusted.
// [ExtractPayload] unpacks the payload with path confinement, and [Compare]
// reports how an archive differs from a live configuration directory.
package archive
