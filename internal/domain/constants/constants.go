// Package constants holds shared domain-level constant values.
package constants

// Environment names used in configuration.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Pub/Sub provider types for the verification event publisher.
const (
	PubSubProviderDirect = "direct"
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)
