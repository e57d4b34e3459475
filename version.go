package aoi

// Version is the release version, set at build time with
// -ldflags "-X github.com/aoidb/aoi.Version=...".
var Version = "dev"
