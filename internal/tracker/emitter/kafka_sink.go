/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package emitter

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"github.com/gem/snowplow-bridge/internal/system/constants"
	"github.com/gem/snowplow-bridge/internal/tracker/model"
)

// KafkaWriter is the part of kafka.Writer the sink relies on.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSinkConfig describes the topic the sink writes to.
type KafkaSinkConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
	Compression  string
	RequiredAcks string
}

// KafkaSink writes each payload as a JSON message keyed by app id.
type KafkaSink struct {
	writer KafkaWriter
}

// NewKafkaSink creates a sink backed by a kafka.Writer.
func NewKafkaSink(cfg KafkaSinkConfig) *KafkaSink {
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 10 * time.Millisecond
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: batchTimeout,
		RequiredAcks: parseAcks(cfg.RequiredAcks),
		Compression:  parseCompression(cfg.Compression),
	}
	return NewKafkaSinkWithWriter(writer)
}

// NewKafkaSinkWithWriter wraps an existing writer.
func NewKafkaSinkWithWriter(writer KafkaWriter) *KafkaSink {
	return &KafkaSink{writer: writer}
}

func (s *KafkaSink) Send(ctx context.Context, payloads []model.Payload) error {
	msgs := make([]kafka.Message, 0, len(payloads))
	for _, p := range payloads {
		value, err := json.Marshal(p)
		if err != nil {
			return errors.Wrap(err, "failed to encode payload for kafka")
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(p[constants.ParamAppID]),
			Value: value,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(p[constants.ParamEvent])},
			},
		})
	}
	if err := s.writer.WriteMessages(ctx, msgs...); err != nil {
		return errors.Wrap(err, "failed to write events to kafka")
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

func parseCompression(s string) kafka.Compression {
	switch strings.ToLower(s) {
	case "", "none", "no", "off", "0":
		return kafka.Compression(0)
	case "gzip":
		return kafka.Gzip
	case "snappy":
		return kafka.Snappy
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	default:
		return kafka.Snappy
	}
}

func parseAcks(s string) kafka.RequiredAcks {
	switch strings.ToLower(s) {
	case "none":
		return kafka.RequireNone
	case "all":
		return kafka.RequireAll
	default:
		return kafka.RequireOne
	}
}
