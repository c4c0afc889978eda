// Package censor provides forbidden-term detection and replacement.
//
// A Censor is not safe for concurrent use: it keeps an append-only history
// of censoring calls, so callers sharing one instance must serialize access.
package censor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
)

// DefaultPlaceholder replaces every forbidden term unless configured otherwise.
const DefaultPlaceholder = "<censored>"

var ErrEmptyTerm = errors.New("forbidden term must not be empty")

// Config describes the forbidden terms and the replacement placeholder.
type Config struct {
	Terms       []string `json:"terms"`
	Placeholder string   `json:"placeholder"`
}

// Record is a single history entry produced by a censoring call that found
// at least one forbidden term.
type Record struct {
	// Subject is reserved for the author of the text and is always empty.
	Subject   string         `json:"subject"`
	Text      string         `json:"text"`
	Frequency map[string]int `json:"frequency"`
}

type Option func(*Censor)

// WithRecordHook registers fn to be called with every record appended to history.
func WithRecordHook(fn func(Record)) Option {
	return func(c *Censor) {
		c.onRecord = fn
	}
}

type Censor struct {
	terms       []string
	placeholder string
	history     []Record

	onRecord func(Record)
}

// New builds a Censor from cfg. Duplicate terms are dropped and the rest are
// ordered longest first, keeping the given order among terms of equal length.
func New(cfg Config, opts ...Option) (*Censor, error) {
	seen := make(map[string]struct{}, len(cfg.Terms))
	terms := make([]string, 0, len(cfg.Terms))
	for i, term := range cfg.Terms {
		if term == "" {
			return nil, fmt.Errorf("term #%d: %w", i, ErrEmptyTerm)
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	slices.SortStableFunc(terms, func(a, b string) int {
		return len(b) - len(a)
	})

	c := &Censor{
		terms:       terms,
		placeholder: cfg.Placeholder,
	}
	if c.placeholder == "" {
		c.placeholder = DefaultPlaceholder
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// LoadConfig reads a Config from a JSON file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode terms file %q: %w", path, err)
	}

	return cfg, nil
}

// Terms returns the forbidden terms in matching order.
func (c *Censor) Terms() []string {
	return slices.Clone(c.terms)
}

func (c *Censor) Placeholder() string {
	return c.placeholder
}

// Detect reports whether text contains any forbidden term. Matching is
// case-sensitive substring containment.
func (c *Censor) Detect(text string) bool {
	for _, term := range c.terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// DetectMessage runs Detect on the body of a "prefix: body" message.
func (c *Censor) DetectMessage(message string) (bool, error) {
	_, body, err := ParseMessage(message)
	if err != nil {
		return false, err
	}
	return c.Detect(body), nil
}

// Censor replaces every forbidden term in text with the placeholder and
// records how often each term occurred. Clean text is returned as is and
// leaves the history untouched.
func (c *Censor) Censor(text string) string {
	if !c.Detect(text) {
		return text
	}

	// Counts are taken on the original text, before any replacement.
	freq := make(map[string]int)
	for _, term := range c.terms {
		if n := strings.Count(text, term); n > 0 {
			freq[term] = n
		}
	}
	c.record(Record{Text: text, Frequency: freq})

	// Longest terms go first so a shorter term cannot split a longer match.
	censored := text
	for _, term := range c.terms {
		censored = strings.ReplaceAll(censored, term, c.placeholder)
	}

	return censored
}

// CensorMessage censors the body of a "prefix: body" message. The prefix is
// kept verbatim even when it contains forbidden terms.
func (c *Censor) CensorMessage(message string) (string, error) {
	prefix, body, err := ParseMessage(message)
	if err != nil {
		return "", err
	}
	return prefix + separator + c.Censor(body), nil
}

// Describe returns a copy of the censoring history in call order.
func (c *Censor) Describe() []Record {
	history := make([]Record, len(c.history))
	for i, rec := range c.history {
		rec.Frequency = cloneFrequency(rec.Frequency)
		history[i] = rec
	}
	return history
}

func (c *Censor) record(rec Record) {
	c.history = append(c.history, rec)
	if c.onRecord != nil {
		rec.Frequency = cloneFrequency(rec.Frequency)
		c.onRecord(rec)
	}
}

func cloneFrequency(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
