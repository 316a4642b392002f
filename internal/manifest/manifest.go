// Package manifest publishes harvest run summaries.
package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/segmentio/kafka-go"

	"samivl/internal/artifact"
	"samivl/internal/models"
)

// ErrNoRunDir is returned when a summary has no run directory to write into.
var ErrNoRunDir = errors.New("summary has no run directory")

type Publisher interface {
	Publish(ctx context.Context, s *models.RunSummary) error
}

// FilesystemPublisher writes harvest_summary.json into the run directory.
type FilesystemPublisher struct{}

func (FilesystemPublisher) Publish(_ context.Context, s *models.RunSummary) error {
	if s.RunDir == "" {
		return ErrNoRunDir
	}

	if err := os.MkdirAll(s.RunDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	out, err := os.Create(filepath.Join(s.RunDir, artifact.SummaryFile))
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	return nil
}

// ReadSummary loads harvest_summary.json from a run directory.
func ReadSummary(runDir string) (*models.RunSummary, error) {
	data, err := os.ReadFile(filepath.Join(runDir, artifact.SummaryFile))
	if err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}

	var s models.RunSummary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}

	return &s, nil
}

// KafkaPublisher publishes each summary as a keyed record, so a compacted
// topic keeps the latest run.
type KafkaPublisher struct {
	writer kafkaMessageWriter
	key    []byte
}

// kafkaMessageWriter abstracts kafka.Writer for testability.
type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewKafkaPublisher creates a publisher. bootstrap may list comma-separated brokers.
func NewKafkaPublisher(bootstrap, topic, key string) *KafkaPublisher {
	var brokers []string
	for _, a := range strings.Split(bootstrap, ",") {
		if a = strings.TrimSpace(a); a != "" {
			brokers = append(brokers, a)
		}
	}

	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}, key: []byte(key)}
}

// NewKafkaPublisherWith is only for tests to inject a fake writer.
func NewKafkaPublisherWith(w kafkaMessageWriter, key string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, key: []byte(key)}
}

func (k *KafkaPublisher) Publish(ctx context.Context, s *models.RunSummary) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := k.writer.WriteMessages(ctx, kafka.Message{Key: k.key, Value: b}); err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}

	return nil
}

// Close releases the underlying writer when it supports closing.
func (k *KafkaPublisher) Close() error {
	if c, ok := k.writer.(interface{ Close() error }); ok {
		return c.Close()
	}

	return nil
}
