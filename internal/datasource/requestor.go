package datasource

import (
	"context"
	"encoding/base64"
	"io/ioutil"
	"net/http"
	"sort"

	"github.com/gregjones/httpcache"
	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
	"golang.org/x/exp/maps"

	"github.com/featuregate/go-client-sdk/fguser"
	"github.com/featuregate/go-client-sdk/subsystems"
	"github.com/featuregate/go-client-sdk/subsystems/fgstoretypes"
)

// EvaluateUserBasePath is the evaluation endpoint path. The request payload is
// base64url-encoded into the final path segment so that requests are plain GETs and
// unchanged results can be served from the HTTP cache.
const EvaluateUserBasePath = "/sdk/eval/users/"

// requestor is the interface implemented by requestorImpl, used for testing purposes.
type requestor interface {
	requestSnapshot(
		ctx context.Context,
		user fguser.User,
		since ldtime.UnixMillisecondTime,
	) (snapshot fgstoretypes.Snapshot, fullUpdate bool, noChanges bool, err error)
}

// requestorImpl is the internal implementation of getting evaluated results from the
// evaluation service endpoint.
type requestorImpl struct {
	httpClient  *http.Client
	baseURI     string
	headers     http.Header
	environment subsystems.EnvironmentProvider
	loggers     ldlog.Loggers
}

func newRequestorImpl(
	clientContext subsystems.ClientContext,
	httpClient *http.Client,
	baseURI string,
) requestor {
	if httpClient == nil {
		httpClient = clientContext.GetHTTP().CreateHTTPClient()
	}

	modifiedClient := *httpClient
	modifiedClient.Transport = &httpcache.Transport{
		Cache:               httpcache.NewMemoryCache(),
		MarkCachedResponses: true,
		Transport:           httpClient.Transport,
	}

	return &requestorImpl{
		httpClient:  &modifiedClient,
		baseURI:     baseURI,
		headers:     clientContext.GetHTTP().DefaultHeaders,
		environment: clientContext.GetEnvironmentProvider(),
		loggers:     clientContext.GetLogging().Loggers,
	}
}

func (r *requestorImpl) requestSnapshot(
	ctx context.Context,
	user fguser.User,
	since ldtime.UnixMillisecondTime,
) (fgstoretypes.Snapshot, bool, bool, error) {
	if r.loggers.IsDebugEnabled() {
		r.loggers.Debugf("Requesting evaluated results (since: %d)", since)
	}

	payload, err := r.encodeRequest(user, since)
	if err != nil {
		return fgstoretypes.Snapshot{}, false, false, err
	}

	body, cached, err := r.makeRequest(ctx, EvaluateUserBasePath+payload)
	if err != nil {
		return fgstoretypes.Snapshot{}, false, false, err
	}
	// A cache-served replay means the service answered the conditional GET with a
	// 304: nothing has changed since the watermark. A full request carries no
	// watermark to confirm, so its replayed body is parsed like a fresh response.
	if cached && since > 0 {
		return fgstoretypes.Snapshot{}, false, true, nil
	}

	reader := jreader.NewReader(body)
	snapshot, fullUpdate, hasUpdates := parseEvaluationResponse(&reader)
	if err := reader.Error(); err != nil {
		return fgstoretypes.Snapshot{}, false, false, malformedJSONError{err}
	}
	if !hasUpdates {
		return fgstoretypes.Snapshot{}, false, true, nil
	}
	return snapshot, fullUpdate, false, nil
}

// encodeRequest produces the base64url payload segment. Metadata keys are written in
// sorted order so that identical requests always produce identical URLs; the HTTP
// cache keys on the URL.
func (r *requestorImpl) encodeRequest(user fguser.User, since ldtime.UnixMillisecondTime) (string, error) {
	w := jwriter.NewWriter()
	obj := w.Object()
	user.WriteToJSONWriter(obj.Name("user"))
	metaObj := obj.Name("metadata").Object()
	if r.environment != nil {
		metadata := r.environment.GetMetadata("")
		keys := maps.Keys(metadata)
		sort.Strings(keys)
		for _, k := range keys {
			metaObj.Name(k).String(metadata[k])
		}
	}
	metaObj.End()
	// the field is omitted entirely, not sent as zero, on the first request
	if since > 0 {
		obj.Name("lastSyncTimeForUser").Float64(float64(since))
	}
	obj.End()
	if err := w.Error(); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(w.Bytes()), nil
}

func (r *requestorImpl) makeRequest(ctx context.Context, resource string) ([]byte, bool, error) {
	req, reqErr := http.NewRequestWithContext(ctx, "GET", r.baseURI+resource, nil)
	if reqErr != nil {
		return nil, false, reqErr
	}
	url := req.URL.String()

	for k, vv := range r.headers {
		req.Header[k] = vv
	}

	res, resErr := r.httpClient.Do(req)

	if resErr != nil {
		return nil, false, resErr
	}

	defer func() {
		_, _ = ioutil.ReadAll(res.Body)
		_ = res.Body.Close()
	}()

	if err := checkForHTTPError(res.StatusCode, url); err != nil {
		return nil, false, err
	}

	cached := res.Header.Get(httpcache.XFromCache) != ""

	body, ioErr := ioutil.ReadAll(res.Body)

	if ioErr != nil {
		return nil, false, ioErr // COVERAGE: there is no way to simulate this condition in unit tests
	}
	return body, cached, nil
}

// parseEvaluationResponse reads a service response:
//
//	{
//	  "gates": {"<hash>": {"value": true, "ruleID": "rule1"}},
//	  "configs": {"<hash>": {"value": {...}, "ruleID": "rule2"}},
//	  "hasUpdates": true,
//	  "fullUpdate": false,
//	  "time": 1680000000000
//	}
//
// hasUpdates defaults to true and fullUpdate defaults to false when absent, so a
// minimal response body is interpreted as a delta carrying changes.
func parseEvaluationResponse(r *jreader.Reader) (fgstoretypes.Snapshot, bool, bool) {
	var snapshot fgstoretypes.Snapshot
	hasUpdates := true
	fullUpdate := false
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "gates":
			snapshot.Gates = fgstoretypes.ReadGatesFromJSONReader(r)
		case "configs":
			snapshot.Configs = fgstoretypes.ReadConfigsFromJSONReader(r)
		case "hasUpdates":
			hasUpdates = r.Bool()
		case "fullUpdate":
			fullUpdate = r.Bool()
		case "time":
			snapshot.SyncTime = ldtime.UnixMillisecondTime(r.Float64())
		default:
			r.SkipValue()
		}
	}
	return snapshot, fullUpdate, hasUpdates
}
