package types

// Version is overwritten at build time with -ldflags "-X ...types.Version=..."
var Version = "dev"

// ServiceName is reported by the health endpoint and used as the CLI name
const ServiceName = "examresult"
