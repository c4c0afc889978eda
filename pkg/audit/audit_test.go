package audit

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"wordfilter/pkg/censor"
)

func TestMain(m *testing.M) {
	log.SetLevel(log.PanicLevel)
	os.Exit(m.Run())
}

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	fw := &fakeWriter{}
	p := NewPublisher("wordfilter", fw)

	c, err := censor.New(censor.Config{Terms: []string{"ng_word"}}, censor.WithRecordHook(p.Publish))
	if err != nil {
		t.Fatalf("failed to create censor: %v", err)
	}
	c.Censor("clean")
	c.Censor("ng_word and ng_word")
	p.Close()

	if len(fw.msgs) != 1 {
		t.Fatalf("want 1 message, got %d", len(fw.msgs))
	}
	if string(fw.msgs[0].Key) != "wordfilter" {
		t.Errorf("want key %q, got %q", "wordfilter", fw.msgs[0].Key)
	}

	var entry Entry
	if err := json.Unmarshal(fw.msgs[0].Value, &entry); err != nil {
		t.Fatalf("failed to unmarshal entry: %v", err)
	}
	if entry.Service != "wordfilter" || entry.Text != "ng_word and ng_word" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if entry.Frequency["ng_word"] != 2 {
		t.Errorf("want frequency 2, got %d", entry.Frequency["ng_word"])
	}
	if entry.Timestamp.IsZero() {
		t.Error("want non-zero timestamp")
	}
}

func TestPublisher_PublishWriteError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker down")}
	p := NewPublisher("wordfilter", fw)

	p.Publish(censor.Record{Text: "ng_word", Frequency: map[string]int{"ng_word": 1}})
	p.Close()

	if len(fw.msgs) != 0 {
		t.Errorf("want no messages stored, got %d", len(fw.msgs))
	}
}
