package ports

import "time"

// Queue-full behaviours.
const (
	OnFullBlock  = "block"
	OnFullDrop   = "drop"
	OnFullReject = "reject"
)

type Policy struct {
	MaxQueueLen  int           `yaml:"max_queue_len"`
	MaxBatchSize int           `yaml:"max_batch_size"`
	IdleSleep    time.Duration `yaml:"idle_sleep"`

	OnQueueFull string `yaml:"on_queue_full"` // "reject", "block", "drop"
}
