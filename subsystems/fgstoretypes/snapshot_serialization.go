package fgstoretypes

import (
	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// The serialized snapshot layout is the same shape the evaluation service uses in
// its responses, minus transport-only fields:
//
//	{
//	  "gates": {"<hash>": {"value": true, "ruleID": "rule1"}},
//	  "configs": {"<hash>": {"value": {...}, "ruleID": "rule2"}},
//	  "time": 1680000000000
//	}

// WriteToJSONWriter writes the snapshot's persistent representation. Source is
// deliberately not serialized; provenance is decided by whoever loads the data.
func (s Snapshot) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	gatesObj := obj.Name("gates").Object()
	for key, g := range s.Gates {
		gObj := gatesObj.Name(key).Object()
		gObj.Name("value").Bool(g.Value)
		gObj.Name("ruleID").String(g.RuleID)
		gObj.End()
	}
	gatesObj.End()
	configsObj := obj.Name("configs").Object()
	for key, c := range s.Configs {
		cObj := configsObj.Name(key).Object()
		c.Value.WriteToJSONWriter(cObj.Name("value"))
		cObj.Name("ruleID").String(c.RuleID)
		cObj.End()
	}
	configsObj.End()
	obj.Name("time").Float64(float64(s.SyncTime))
	obj.End()
}

// Serialize returns the snapshot's persistent representation as JSON.
func (s Snapshot) Serialize() ([]byte, error) {
	w := jwriter.NewWriter()
	s.WriteToJSONWriter(&w)
	if err := w.Error(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// ReadFromJSONReader reads a snapshot from its persistent representation,
// overwriting the receiver. Unrecognized properties are skipped so the same parser
// handles service responses, which carry extra transport fields.
func (s *Snapshot) ReadFromJSONReader(r *jreader.Reader) {
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "gates":
			s.Gates = ReadGatesFromJSONReader(r)
		case "configs":
			s.Configs = ReadConfigsFromJSONReader(r)
		case "time":
			s.SyncTime = ldtime.UnixMillisecondTime(r.Float64())
		default:
			r.SkipValue()
		}
	}
}

// ParseSnapshot deserializes a snapshot previously produced by Serialize.
func ParseSnapshot(data []byte) (Snapshot, error) {
	r := jreader.NewReader(data)
	var s Snapshot
	s.ReadFromJSONReader(&r)
	if err := r.Error(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// ReadGatesFromJSONReader reads the "gates" object of a snapshot or service
// response.
func ReadGatesFromJSONReader(r *jreader.Reader) map[string]GateResult {
	gates := make(map[string]GateResult)
	for obj := r.Object(); obj.Next(); {
		key := string(obj.Name())
		var g GateResult
		for gObj := r.Object(); gObj.Next(); {
			switch string(gObj.Name()) {
			case "value":
				g.Value = r.Bool()
			case "ruleID":
				g.RuleID = r.String()
			default:
				r.SkipValue()
			}
		}
		gates[key] = g
	}
	return gates
}

// ReadConfigsFromJSONReader reads the "configs" object of a snapshot or service
// response.
func ReadConfigsFromJSONReader(r *jreader.Reader) map[string]ConfigResult {
	configs := make(map[string]ConfigResult)
	for obj := r.Object(); obj.Next(); {
		key := string(obj.Name())
		var c ConfigResult
		for cObj := r.Object(); cObj.Next(); {
			switch string(cObj.Name()) {
			case "value":
				c.Value = ldvalue.Value{}
				c.Value.ReadFromJSONReader(r)
			case "ruleID":
				c.RuleID = r.String()
			default:
				r.SkipValue()
			}
		}
		configs[key] = c
	}
	return configs
}
