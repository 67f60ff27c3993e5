package subsystems

// EnvironmentProvider supplies device and application metadata that is embedded in
// every evaluation request: the stable device identifier, OS, SDK name and version,
// session ID, and so on.
//
// GetMetadata is read-only apart from persisting a newly generated stable ID, which
// is idempotent. If overrideStableID is non-empty it is used and persisted in place
// of any previously stored ID.
type EnvironmentProvider interface {
	GetMetadata(overrideStableID string) map[string]string
}
