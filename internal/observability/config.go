package observability

import "resumescan/internal/config"

// GetObservabilityConfig maps application config onto the manager's config.
// version is used when no service version is configured.
func GetObservabilityConfig(cfg *config.Config, version string) ObservabilityConfig {
	if cfg == nil {
		return ObservabilityConfig{
			ServiceName:    "resumescan",
			ServiceVersion: version,
			Enabled:        false,
			SampleRate:     1.0,
		}
	}

	obs := cfg.Observability
	serviceVersion := obs.ServiceVersion
	if serviceVersion == "" {
		serviceVersion = version
	}

	sampleRate := obs.SampleRate
	switch {
	case !obs.Tracing.Enabled:
		sampleRate = 0
	case obs.Tracing.SampleRate > 0:
		sampleRate = obs.Tracing.SampleRate
	}

	return ObservabilityConfig{
		ServiceName:     obs.ServiceName,
		ServiceVersion:  serviceVersion,
		ServiceInstance: obs.ServiceInstance,
		Enabled:         obs.Enabled,
		ConsoleOutput:   obs.ConsoleOutput || obs.Console.Enabled,
		PrettyPrint:     obs.Console.PrettyPrint,
		SampleRate:      sampleRate,
		Interval:        obs.Metrics.CollectionInterval,
		OTLP:            obs.OTLP,
		Prometheus: PrometheusConfig{
			Enabled:  obs.Prometheus.Enabled && obs.Metrics.Enabled,
			Endpoint: obs.Prometheus.Endpoint,
			Port:     obs.Prometheus.Port,
		},
		CustomMetrics: obs.CustomMetrics,
	}
}
