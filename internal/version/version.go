package version

// Version is the linkshelf release version. Overridden at build time via
// -ldflags "-X github.com/mesh-intelligence/linkshelf/internal/version.Version=...".
var Version = "0.1.0"
