package backup

// hooks are failure injection points. They are nil outside tests.
type hooks struct {
	// afterEntry runs after each payload entry is written during export.
	afterEntry func(rel string) error

	// afterClear runs during import once the live directory has been
	// cleared, before the payload is copied in.
	afterClear func(configDir string) error
}
