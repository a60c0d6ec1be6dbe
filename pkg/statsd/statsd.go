package statsd

import (
	"time"

	std "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/goto/salt/log"
)

// Reporter hands out metrics bound to a statsd client. A nil or disabled
// Reporter hands out nil metrics.
type Reporter struct {
	client std.ClientInterface
	logger log.Logger
	config Config
}

// Init initializes the statsd client when cfg enables it.
func Init(logger log.Logger, cfg Config) (*Reporter, error) {
	if !cfg.Enabled {
		logger.Warn("statsd is disabled")
		return nil, nil
	}

	client, err := std.New(cfg.Address,
		std.WithNamespace(cfg.Prefix+"."),
		std.WithoutTelemetry())
	if err != nil {
		return nil, err
	}

	return &Reporter{
		client: client,
		logger: logger,
		config: cfg,
	}, nil
}

func (sd *Reporter) Close() {
	if sd == nil || sd.client == nil {
		return
	}
	if err := sd.client.Close(); err != nil {
		sd.logger.Warn("failed to close statsd client", "err", err)
	}
}

func (sd *Reporter) Incr(name string) *Metric {
	return sd.metric(name, func(name string, tags []string, rate float64) error {
		return sd.client.Incr(name, tags, rate)
	})
}

func (sd *Reporter) Timing(name string, value time.Duration) *Metric {
	return sd.metric(name, func(name string, tags []string, rate float64) error {
		return sd.client.Timing(name, value, tags, rate)
	})
}

func (sd *Reporter) Gauge(name string, value float64) *Metric {
	return sd.metric(name, func(name string, tags []string, rate float64) error {
		return sd.client.Gauge(name, value, tags, rate)
	})
}

func (sd *Reporter) metric(name string, publish publishFunc) *Metric {
	if sd == nil || sd.client == nil {
		return nil
	}
	return &Metric{
		logger:        sd.logger,
		name:          name,
		rate:          sd.config.SamplingRate,
		withInfluxTag: sd.config.WithInfluxTagFormat,
		publish:       publish,
	}
}
