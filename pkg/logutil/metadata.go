package logutil

import "os"

// Environment variables that identify the running service. Every log record
// carries the resolved values, so aggregated logs can be filtered by service,
// version and environment.
const (
	EnvServiceName    = "SERVICE_NAME"
	EnvServiceVersion = "SERVICE_VERSION"
	EnvEnvironment    = "ENVIRONMENT"
)

// Metadata identifies the service instance that emits log records.
type Metadata struct {
	Service     string
	Version     string
	Environment string
}

// MetadataFromEnv resolves the service identity from the environment. Unset
// variables fall back to development defaults, so local runs still produce
// complete records without any setup.
func MetadataFromEnv() Metadata {
	return Metadata{
		Service:     envOr(EnvServiceName, "pricing-service"),
		Version:     envOr(EnvServiceVersion, "1.0.0"),
		Environment: envOr(EnvEnvironment, "development"),
	}
}

func envOr(name, fallback string) string {
	if value, ok := os.LookupEnv(name); ok {
		return value
	}

	return fallback
}
