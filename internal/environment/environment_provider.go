package environment

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"runtime"
	"sync"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/featuregate/go-client-sdk/subsystems"
)

const stableIDStoreKey = "stableID"

const sdkType = "go-client"

// Provider is the standard EnvironmentProvider. It owns the persisted stable device
// ID and generates one session ID per client lifetime.
type Provider struct {
	store      subsystems.PersistentStore
	loggers    ldlog.Loggers
	sdkVersion string
	appVersion string
	sessionID  string

	lock     sync.Mutex
	stableID string
}

// NewProvider creates the standard EnvironmentProvider. appVersion may be empty if
// the application did not supply one.
func NewProvider(
	store subsystems.PersistentStore,
	sdkVersion string,
	appVersion string,
	loggers ldlog.Loggers,
) *Provider {
	return &Provider{
		store:      store,
		loggers:    loggers,
		sdkVersion: sdkVersion,
		appVersion: appVersion,
		sessionID:  newRandomID(),
	}
}

// GetMetadata implements subsystems.EnvironmentProvider.
func (p *Provider) GetMetadata(overrideStableID string) map[string]string {
	metadata := map[string]string{
		"stableID":   p.resolveStableID(overrideStableID),
		"os":         runtime.GOOS,
		"sdkType":    sdkType,
		"sdkVersion": p.sdkVersion,
		"sessionID":  p.sessionID,
	}
	if p.appVersion != "" {
		metadata["appVersion"] = p.appVersion
	}
	if locale := os.Getenv("LANG"); locale != "" {
		metadata["locale"] = locale
	}
	return metadata
}

// resolveStableID returns the stable device ID, generating and persisting one on
// first use. Persisting an already-stored ID is skipped so repeated calls have no
// side effects.
func (p *Provider) resolveStableID(override string) string {
	p.lock.Lock()
	defer p.lock.Unlock()
	if override != "" {
		if override != p.stableID {
			p.stableID = override
			p.store.Set(stableIDStoreKey, []byte(override))
		}
		return override
	}
	if p.stableID != "" {
		return p.stableID
	}
	if data, ok := p.store.Get(stableIDStoreKey); ok && len(data) > 0 {
		p.stableID = string(data)
		return p.stableID
	}
	p.stableID = newRandomID()
	p.store.Set(stableIDStoreKey, []byte(p.stableID))
	return p.stableID
}

func newRandomID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		// math/rand quality would do here; an all-zero ID is still functional
		return "00000000000000000000000000000000"
	}
	return hex.EncodeToString(bytes)
}
