package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"wordfilter/pkg/api"
	"wordfilter/pkg/audit"
	"wordfilter/pkg/censor"
	"wordfilter/pkg/config"
)

func main() {
	var (
		configPath  string
		termsPath   string
		placeholder string
		httpAddr    string
		logLevel    string
		kafkaAddr   string
		kafkaTopic  string
		auditTopic  string
		kafkaBatch  int
	)

	flag.StringVar(&configPath, "servconf", "cmd/server/config.toml", "Path to TOML config file")
	flag.StringVar(&termsPath, "terms", "", "Path to JSON file with forbidden terms")
	flag.StringVar(&placeholder, "placeholder", "", "Replacement for forbidden terms")
	flag.StringVar(&httpAddr, "http", "", "HTTP server address in the form 'host:port'.")
	flag.StringVar(&logLevel, "log", "", "Log level: debug, info, warn, error.")
	flag.StringVar(&kafkaAddr, "kafka", "", "Kafka server address in the form 'host:port'.")
	flag.StringVar(&kafkaTopic, "topic", "", "Kafka topic for request logs.")
	flag.StringVar(&auditTopic, "audit", "", "Kafka topic for censor records.")
	flag.IntVar(&kafkaBatch, "batch", 0, "Kafka batch size.")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("[server] %v", err)
	}

	// Override config with flags if set
	if termsPath != "" {
		cfg.TermsPath = termsPath
	}
	if placeholder != "" {
		cfg.Placeholder = placeholder
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if kafkaAddr != "" {
		cfg.KafkaAddr = kafkaAddr
	}
	if kafkaTopic != "" {
		cfg.KafkaTopic = kafkaTopic
	}
	if auditTopic != "" {
		cfg.KafkaAuditTopic = auditTopic
	}
	if kafkaBatch != 0 {
		cfg.KafkaBatch = kafkaBatch
	}

	log.SetLevel(cfg.Level())
	if !strings.Contains(cfg.HTTPAddr, ":") {
		log.Warn("[server] use ':' before port number, e.g. ':8080'")
	}

	censorConf, err := censor.LoadConfig(cfg.TermsPath)
	if err != nil {
		log.Fatalf("[server] failed to load terms file %s: %v", cfg.TermsPath, err)
	}
	if cfg.Placeholder != "" {
		censorConf.Placeholder = cfg.Placeholder
	}

	var (
		logWriter audit.Writer
		opts      []censor.Option
		publisher *audit.Publisher
		writers   []*kafka.Writer
	)
	if cfg.KafkaAddr != "" && cfg.KafkaTopic != "" {
		w := newKafkaWriter(cfg.KafkaAddr, cfg.KafkaTopic, cfg.KafkaBatch)
		writers = append(writers, w)
		logWriter = w
	} else {
		log.Warnf("[server] kafka was not configured, logs will not be sent to Kafka")
	}
	if cfg.KafkaAddr != "" && cfg.KafkaAuditTopic != "" {
		w := newKafkaWriter(cfg.KafkaAddr, cfg.KafkaAuditTopic, cfg.KafkaBatch)
		writers = append(writers, w)
		publisher = audit.NewPublisher(cfg.ServiceName, w)
		opts = append(opts, censor.WithRecordHook(publisher.Publish))
	}

	c, err := censor.New(censorConf, opts...)
	if err != nil {
		log.Fatalf("[server] failed to create censor: %v", err)
	}
	log.Infof("[server] loaded %d forbidden term(s)", len(c.Terms()))

	api, err := api.New(cfg.ServiceName, c, logWriter)
	if err != nil {
		log.Fatalf("[server] failed to create API: %v", err)
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Infof("[server] starting on %v", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[server] failed to start: %v", err)
			return
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownRelease()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("[server] HTTP server shutdown error: %v", err)
	} else {
		log.Info("[server] HTTP server shut down gracefully")
	}

	if publisher != nil {
		publisher.Close()
	}
	for _, w := range writers {
		if err := w.Close(); err != nil {
			log.Errorf("[server] failed to close Kafka writer for %s: %v", w.Topic, err)
		}
	}
}

func newKafkaWriter(addr, topic string, batch int) *kafka.Writer {
	w := &kafka.Writer{
		Addr:      kafka.TCP(addr),
		Topic:     topic,
		BatchSize: batch,
	}
	if err := createTopic(addr, topic); err != nil {
		log.Warnf("[server] failed to create Kafka topic %s: %v", topic, err)
	}
	return w
}

func createTopic(broker, topic string) error {
	conn, err := kafka.DialContext(context.Background(), "tcp", broker)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
}
