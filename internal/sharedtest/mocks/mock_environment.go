package mocks

// MockEnvironmentProvider is a test implementation of
// subsystems.EnvironmentProvider returning a fixed metadata map.
type MockEnvironmentProvider struct {
	Metadata map[string]string
}

func (m MockEnvironmentProvider) GetMetadata(overrideStableID string) map[string]string {
	ret := make(map[string]string, len(m.Metadata)+1)
	for k, v := range m.Metadata {
		ret[k] = v
	}
	if overrideStableID != "" {
		ret["stableID"] = overrideStableID
	}
	return ret
}
