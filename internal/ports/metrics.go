package ports

// Metric names understood by the Prometheus observability adapter.
const (
	MetricSequencesGenerated = "nfx_sequences_generated_total"
	MetricSamplesGenerated   = "nfx_samples_generated_total"
	MetricSamplesDelivered   = "nfx_samples_delivered_total"
	MetricSamplesRejected    = "nfx_samples_rejected_total"
	MetricQueueDropped       = "nfx_queue_dropped_total"
	MetricLocateCalls        = "nfx_locate_total"

	MetricQueueLength   = "nfx_queue_length"
	MetricWindowSamples = "nfx_window_samples"

	MetricGenerateLatency = "nfx_generate_latency_seconds"
	MetricLocateLatency   = "nfx_locate_latency_seconds"
	MetricSinkLatency     = "nfx_sink_latency_seconds"
)
