package buildinfo

// Set via -ldflags "-X github.com/stockwise-dev/agingprov/internal/buildinfo.Version=..."
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
