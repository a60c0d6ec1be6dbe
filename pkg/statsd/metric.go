package statsd

import (
	"sort"
	"strings"

	"github.com/goto/salt/log"
)

type publishFunc func(name string, tags []string, rate float64) error

// Metric is a single statsd data point being assembled. A nil *Metric
// accepts every call and publishes nothing.
type Metric struct {
	logger        log.Logger
	name          string
	rate          float64
	tags          map[string]string
	withInfluxTag bool
	publish       publishFunc
}

func (m *Metric) Success() *Metric {
	return m.Tag("success", "true")
}

// Failure tags the metric as failed. err is accepted for call-site symmetry
// and is not reported.
func (m *Metric) Failure(error) *Metric {
	return m.Tag("success", "false")
}

func (m *Metric) Tag(key, val string) *Metric {
	if m == nil {
		return nil
	}
	if m.tags == nil {
		m.tags = map[string]string{}
	}
	m.tags[key] = val
	return m
}

// Publish sends the metric asynchronously.
func (m *Metric) Publish() {
	if m == nil || m.publish == nil {
		return
	}

	name, tags := m.render()
	go func() {
		if err := m.publish(name, tags, m.rate); err != nil {
			m.logger.Warn("failed to publish metric", "name", name, "err", err)
		}
	}()
}

// render returns the wire name and datadog tags. Influx format folds the
// tags into the name instead. Tags are sorted by key.
func (m *Metric) render() (string, []string) {
	keys := make([]string, 0, len(m.tags))
	for k := range m.tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if m.withInfluxTag {
		var b strings.Builder
		b.WriteString(m.name)
		for _, k := range keys {
			b.WriteString("," + k + "=" + m.tags[k])
		}
		return b.String(), nil
	}

	tags := make([]string, 0, len(keys))
	for _, k := range keys {
		tags = append(tags, k+":"+m.tags[k])
	}
	return m.name, tags
}
