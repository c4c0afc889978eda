// Package audit ships censor history records to Kafka.
package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"wordfilter/pkg/censor"
)

const writeTimeout = 10 * time.Second

// Writer is the subset of *kafka.Writer used for publishing.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Entry is the Kafka message payload for one censor record.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Service   string         `json:"service"`
	Subject   string         `json:"subject"`
	Text      string         `json:"text"`
	Frequency map[string]int `json:"frequency"`
}

type Publisher struct {
	service string
	w       Writer
	wg      sync.WaitGroup
}

func NewPublisher(service string, w Writer) *Publisher {
	return &Publisher{service: service, w: w}
}

// Publish sends rec in the background. It matches the censor.WithRecordHook
// signature; write failures are only logged.
func (p *Publisher) Publish(rec censor.Record) {
	entry := Entry{
		Timestamp: time.Now().UTC(),
		Service:   p.service,
		Subject:   rec.Subject,
		Text:      rec.Text,
		Frequency: rec.Frequency,
	}

	b, err := json.Marshal(entry)
	if err != nil {
		log.Errorf("[audit] failed to marshal censor record: %v", err)
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := p.w.WriteMessages(ctx, kafka.Message{Key: []byte(p.service), Value: b}); err != nil {
			log.Errorf("[audit] failed to write censor record to Kafka: %v", err)
			return
		}
		log.Debugf("[audit] censor record sent to Kafka, %d term(s)", len(entry.Frequency))
	}()
}

// Close waits for in-flight writes.
func (p *Publisher) Close() {
	p.wg.Wait()
}
