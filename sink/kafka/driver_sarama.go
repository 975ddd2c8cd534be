package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/IBM/sarama"

	"lyricdex/internal/logging"
	"lyricdex/internal/lyric"
	"lyricdex/sink"
)

type Config struct {
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic"`
	Acks     int16    `yaml:"required_acks"` // 0,1,-1
	ClientID string   `yaml:"client_id"`
	Version  string   `yaml:"version"` // "" = sarama default
}

type producerFactory func(brokers []string, sc *sarama.Config) (sarama.SyncProducer, error)

type driver struct {
	cfg  Config
	p    sarama.SyncProducer
	sent int

	newProducer producerFactory
}

func (d *driver) Configure(c any) error {
	cfg, ok := c.(Config)
	if !ok {
		return fmt.Errorf("kafka-sink: want Config, got %T", c)
	}
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return errors.New("kafka-sink: brokers and topic are required")
	}
	d.cfg = cfg

	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Acks)
	sc.Producer.Return.Successes = true
	if cfg.ClientID != "" {
		sc.ClientID = cfg.ClientID
	}
	if cfg.Version != "" {
		ver, err := sarama.ParseKafkaVersion(cfg.Version)
		if err != nil {
			return fmt.Errorf("kafka-sink: %w", err)
		}
		sc.Version = ver
	}

	if d.newProducer == nil {
		d.newProducer = sarama.NewSyncProducer
	}
	p, err := d.newProducer(cfg.Brokers, sc)
	if err != nil {
		return fmt.Errorf("kafka-sink: %w", err)
	}
	d.p = p
	return nil
}

// Push publishes a record keyed by song so a song's lines share a partition.
func (d *driver) Push(r lyric.Record) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("kafka-sink: %w", err)
	}
	_, _, err = d.p.SendMessage(&sarama.ProducerMessage{
		Topic: d.cfg.Topic,
		Key:   sarama.StringEncoder(r.Song),
		Value: sarama.ByteEncoder(b),
		Headers: []sarama.RecordHeader{
			{Key: []byte("lyric-id"), Value: []byte(strconv.Itoa(r.ID))},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka-sink: record %d: %w", r.ID, err)
	}
	d.sent++
	return nil
}

func (d *driver) Destination() string { return "kafka topic " + d.cfg.Topic }

func (d *driver) Close() error {
	if d.p == nil {
		return nil
	}
	logging.L().Info("kafka sink closing", "topic", d.cfg.Topic, "sent", d.sent)
	err := d.p.Close()
	d.p = nil
	return err
}

func init() { sink.Register("kafka", func() sink.Adapter { return &driver{} }) }
