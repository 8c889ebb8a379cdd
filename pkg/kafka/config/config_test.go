package kafka_config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Brokers) != 1 || cfg.Brokers[0] != DefaultKafkaBrokers {
		t.Errorf("unexpected brokers %v", cfg.Brokers)
	}
	if cfg.DLQTopic != DefaultKafkaDLQTopic {
		t.Errorf("unexpected dlq topic %s", cfg.DLQTopic)
	}
}

func TestLoad_TrimsBrokers(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " kafka-1:9092, ,kafka-2:9092 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Brokers) != 2 || cfg.Brokers[0] != "kafka-1:9092" || cfg.Brokers[1] != "kafka-2:9092" {
		t.Errorf("unexpected brokers %v", cfg.Brokers)
	}
}

func TestValidate_CollectsProblems(t *testing.T) {
	cfg := &Config{
		ProducerMaxAttempts:  0,
		ProducerBatchTimeout: time.Millisecond,
		ProducerCompression:  "brotli",
		ProducerRequireAcks:  2,
		PublishTimeout:       time.Second,
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"1. At least one Kafka broker", "ProducerMaxAttempts", "ProducerCompression", "ProducerRequireAcks"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err.Error(), want)
		}
	}
}
