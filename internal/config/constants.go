package config

// Default vault-relative folder names
const (
	// DefaultWatchFolder is where the Boox companion app drops exports
	DefaultWatchFolder = "BooxDrop"

	// DefaultOutputFolder is where book notes are written
	DefaultOutputFolder = "Books"

	// DefaultLogFolder is where daily event logs are appended
	DefaultLogFolder = "Logs"
)
