// Package fgservices provides HTTP handlers that simulate the FeatureGate
// evaluation service, for use in tests together with the httphelpers package:
//
//	data := fgservices.NewEvalData().Gates(fgservices.Gate("my-gate", true))
//	handler := fgservices.EvaluationServiceHandler(data)
//	httphelpers.WithServer(handler, func(server *httptest.Server) { ... })
package fgservices

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/featuregate/go-client-sdk/subsystems/fgstoretypes"
)

type evalGate struct {
	Value  bool   `json:"value"`
	RuleID string `json:"ruleID"`
}

type evalConfig struct {
	Value  ldvalue.Value `json:"value"`
	RuleID string        `json:"ruleID"`
}

// GateItem is a named gate result for EvalData.Gates.
type GateItem struct {
	name string
	gate evalGate
}

// ConfigItem is a named config result for EvalData.Configs.
type ConfigItem struct {
	name   string
	config evalConfig
}

// Gate describes one gate result for EvalData.Gates. The name is hashed the same
// way the SDK hashes it, so tests can evaluate gates by their plain names.
func Gate(name string, value bool) GateItem {
	return GateItem{name: name, gate: evalGate{Value: value, RuleID: "fallthrough"}}
}

// Config describes one config result for EvalData.Configs.
func Config(name string, value ldvalue.Value) ConfigItem {
	return ConfigItem{name: name, config: evalConfig{Value: value, RuleID: "fallthrough"}}
}

// EvalData is a convenience type for constructing a test evaluation service
// response payload for EvaluationServiceHandler. Its String() method returns the
// JSON encoding.
type EvalData struct {
	GatesMap   map[string]evalGate   `json:"gates"`
	ConfigsMap map[string]evalConfig `json:"configs"`
	HasUpdates bool                  `json:"hasUpdates"`
	FullUpdate bool                  `json:"fullUpdate"`
	Time       uint64                `json:"time"`
}

// NewEvalData creates an EvalData representing a full update with no results yet.
func NewEvalData() *EvalData {
	return &EvalData{
		GatesMap:   make(map[string]evalGate),
		ConfigsMap: make(map[string]evalConfig),
		HasUpdates: true,
		FullUpdate: true,
	}
}

// Gates adds gate results to the payload.
func (d *EvalData) Gates(gates ...GateItem) *EvalData {
	for _, g := range gates {
		d.GatesMap[fgstoretypes.HashName(g.name)] = g.gate
	}
	return d
}

// Configs adds config results to the payload.
func (d *EvalData) Configs(configs ...ConfigItem) *EvalData {
	for _, c := range configs {
		d.ConfigsMap[fgstoretypes.HashName(c.name)] = c.config
	}
	return d
}

// AsDelta marks the payload as a delta rather than a full update.
func (d *EvalData) AsDelta() *EvalData {
	d.FullUpdate = false
	return d
}

// SyncTime sets the server watermark in the payload.
func (d *EvalData) SyncTime(t uint64) *EvalData {
	d.Time = t
	return d
}

// String returns the JSON encoding of the payload as a string.
func (d *EvalData) String() string {
	bytes, _ := json.Marshal(*d)
	return string(bytes)
}

// EvaluationServiceHandler creates an HTTP handler that responds to the evaluation
// endpoint with the given payload. The data is marshalled on every request, so
// tests may modify it between requests.
func EvaluationServiceHandler(data *EvalData) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" || !strings.HasPrefix(r.URL.Path, "/sdk/eval/users/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(data.String()))
	})
}

// NoChangesHandler creates an HTTP handler that always reports no updates.
func NoChangesHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hasUpdates": false}`))
	})
}
