package fgcomponents

import (
	"github.com/featuregate/go-client-sdk/internal/datasource"
	"github.com/featuregate/go-client-sdk/subsystems"
)

// RemoteFetcherBuilder configures the component that retrieves evaluated snapshots
// from the evaluation service. This is the default fetcher; most applications only
// interact with it indirectly through Config.ServiceEndpoints.
type RemoteFetcherBuilder struct {
	baseURI string
}

// RemoteFetcher returns a configurable factory for the standard snapshot fetcher.
func RemoteFetcher() *RemoteFetcherBuilder {
	return &RemoteFetcherBuilder{}
}

// BaseURI overrides the evaluation service base URI for this component only,
// taking precedence over Config.ServiceEndpoints.
func (b *RemoteFetcherBuilder) BaseURI(baseURI string) *RemoteFetcherBuilder {
	b.baseURI = baseURI
	return b
}

// Build is called internally by the SDK.
func (b *RemoteFetcherBuilder) Build(
	clientContext subsystems.ClientContext,
) (subsystems.SnapshotFetcher, error) {
	baseURI := selectBaseURI(clientContext.GetServiceEndpoints().Evaluation, b.baseURI)
	return datasource.NewSnapshotFetcher(clientContext, nil, baseURI), nil
}
