package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./librarium.db"

	// DefaultMaxImageBytes caps article thumbnail uploads at 5 MiB
	DefaultMaxImageBytes = 5 * 1024 * 1024
)
