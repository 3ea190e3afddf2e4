package interfaces

// LocalStorageStore persists localStorage snapshots per origin
type LocalStorageStore interface {
	// Save stores the snapshot of an origin, replacing the previous one
	Save(origin string, items map[string]string) error

	// Load returns the snapshot of an origin, empty if none was saved
	Load(origin string) (map[string]string, error)

	// Origins lists origins with a saved snapshot
	Origins() ([]string, error)
}
