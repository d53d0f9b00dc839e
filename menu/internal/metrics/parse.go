package metrics

import (
	"fmt"
	"io"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// ParseText decodes a Prometheus text exposition into metric families keyed
// by name. Input the parser rejects outright is an error; if it stops part
// way, the families read up to that point are returned.
func ParseText(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var p expfmt.TextParser
	mfs, err := p.TextToMetricFamilies(r)
	if len(mfs) == 0 && err != nil {
		return nil, fmt.Errorf("metrics: parse text: %w", err)
	}
	return mfs, nil
}

// ReadText seeds the registry from a dump written by WriteText, so counters
// continue across runs. Counter and gauge series are restored; other types
// are skipped. Series already in the registry are overwritten.
func (r *Registry) ReadText(rd io.Reader) error {
	if r == nil {
		return nil
	}
	mfs, err := ParseText(rd)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for name, mf := range mfs {
		typ := mf.GetType()
		if typ != dto.MetricType_COUNTER && typ != dto.MetricType_GAUGE {
			continue
		}
		for _, src := range mf.GetMetric() {
			m := r.metric(name, mf.GetHelp(), typ, flatLabels(src.GetLabel()))
			if typ == dto.MetricType_COUNTER {
				m.Counter = &dto.Counter{Value: proto.Float64(src.GetCounter().GetValue())}
			} else {
				m.Gauge = &dto.Gauge{Value: proto.Float64(src.GetGauge().GetValue())}
			}
		}
	}
	return nil
}

// Total returns the value of one series of family name. With no labels it
// returns the sum over every series in the family.
func (r *Registry) Total(name string, labels ...string) float64 {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	mf := r.families[name]
	if len(labels) == 0 {
		return Sum(mf)
	}
	return Value(mf, labels...)
}

// Sum adds up the counter, gauge and untyped values of every series in mf.
// A nil family sums to 0.
func Sum(mf *dto.MetricFamily) float64 {
	var total float64
	for _, m := range mf.GetMetric() {
		total += value(m)
	}
	return total
}

// Value returns the value of the first series in mf carrying every
// name/value pair in labels, or 0 when none does.
func Value(mf *dto.MetricFamily, labels ...string) float64 {
	want := labelPairs(labels)
	for _, m := range mf.GetMetric() {
		if hasLabels(m.GetLabel(), want) {
			return value(m)
		}
	}
	return 0
}

func value(m *dto.Metric) float64 {
	switch {
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	case m.Untyped != nil:
		return m.Untyped.GetValue()
	}
	return 0
}

func flatLabels(pairs []*dto.LabelPair) []string {
	out := make([]string, 0, 2*len(pairs))
	for _, p := range pairs {
		out = append(out, p.GetName(), p.GetValue())
	}
	return out
}

func hasLabels(have, want []*dto.LabelPair) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h.GetName() == w.GetName() && h.GetValue() == w.GetValue() {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
