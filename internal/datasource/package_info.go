// Package datasource implements how the SDK gets evaluated gate/config data from
// the evaluation service: the HTTP requestor, the delta-merging snapshot fetcher,
// and the sync coordinator that races fetches against timeouts and drives periodic
// background refresh.
package datasource
