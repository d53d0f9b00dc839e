package metrics

import (
	"fmt"
	"io"
	"sort"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// Registry is a thread-safe set of counter and gauge families.
// A nil *Registry is valid and discards every update.
type Registry struct {
	mu       sync.Mutex
	families map[string]*dto.MetricFamily
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{families: make(map[string]*dto.MetricFamily)}
}

// Inc adds 1 to the counter identified by name and labels.
// labels is a flat list of name/value pairs.
func (r *Registry) Inc(name, help string, labels ...string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.metric(name, help, dto.MetricType_COUNTER, labels)
	if m.Counter == nil {
		m.Counter = &dto.Counter{Value: proto.Float64(0)}
	}
	m.Counter.Value = proto.Float64(m.Counter.GetValue() + 1)
}

// Set replaces the value of the gauge identified by name and labels.
func (r *Registry) Set(name, help string, v float64, labels ...string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.metric(name, help, dto.MetricType_GAUGE, labels)
	m.Gauge = &dto.Gauge{Value: proto.Float64(v)}
}

// Gather returns a copy of every family, sorted by name.
func (r *Registry) Gather() []*dto.MetricFamily {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*dto.MetricFamily, 0, len(r.families))
	for _, mf := range r.families {
		out = append(out, proto.Clone(mf).(*dto.MetricFamily))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GetName() < out[j].GetName() })
	return out
}

// WriteText writes all families to w in the Prometheus text format.
func (r *Registry) WriteText(w io.Writer) error {
	for _, mf := range r.Gather() {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("metrics: write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// metric returns the series for labels in family name, creating both as
// needed. Callers must hold r.mu.
func (r *Registry) metric(name, help string, typ dto.MetricType, labels []string) *dto.Metric {
	mf, ok := r.families[name]
	if !ok {
		mf = &dto.MetricFamily{
			Name: proto.String(name),
			Help: proto.String(help),
			Type: typ.Enum(),
		}
		r.families[name] = mf
	}

	pairs := labelPairs(labels)
	for _, m := range mf.Metric {
		if sameLabels(m.GetLabel(), pairs) {
			return m
		}
	}
	m := &dto.Metric{Label: pairs}
	mf.Metric = append(mf.Metric, m)
	return m
}

// labelPairs converts a flat name/value list into label pairs sorted by name.
// A trailing name without a value is dropped.
func labelPairs(labels []string) []*dto.LabelPair {
	if len(labels) < 2 {
		return nil
	}
	pairs := make([]*dto.LabelPair, 0, len(labels)/2)
	for i := 0; i+1 < len(labels); i += 2 {
		pairs = append(pairs, &dto.LabelPair{
			Name:  proto.String(labels[i]),
			Value: proto.String(labels[i+1]),
		})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].GetName() < pairs[j].GetName() })
	return pairs
}

func sameLabels(a, b []*dto.LabelPair) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].GetName() != b[i].GetName() || a[i].GetValue() != b[i].GetValue() {
			return false
		}
	}
	return true
}
