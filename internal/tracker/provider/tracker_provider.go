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

package provider

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/gem/snowplow-bridge/internal/system/config"
	"github.com/gem/snowplow-bridge/internal/system/constants"
	errors2 "github.com/gem/snowplow-bridge/internal/system/errors"
	"github.com/gem/snowplow-bridge/internal/system/log"
	"github.com/gem/snowplow-bridge/internal/tracker/emitter"
	"github.com/gem/snowplow-bridge/internal/tracker/model"
	"github.com/gem/snowplow-bridge/internal/tracker/service"
)

// SinkFactory creates the delivery sink for a tracker configuration.
type SinkFactory func(cfg model.Configuration) (emitter.Sink, error)

// TrackerProviderInterface defines how trackers are created.
type TrackerProviderInterface interface {
	CreateTracker(cfg model.Configuration) (*service.Tracker, error)
}

// TrackerProvider is the default implementation of the TrackerProviderInterface.
type TrackerProvider struct {
	sinkFactory SinkFactory
	queueSize   int
	sendTimeout time.Duration
}

// NewTrackerProvider creates a provider from the emitter section of the bridge configuration.
func NewTrackerProvider(cfg config.Config) TrackerProviderInterface {

	return &TrackerProvider{
		sinkFactory: NewSinkFactory(cfg),
		queueSize:   cfg.Emitter.QueueSize,
		sendTimeout: time.Duration(cfg.Emitter.RequestTimeout) * time.Second,
	}
}

// NewTrackerProviderWithSink creates a provider using a custom sink factory.
func NewTrackerProviderWithSink(factory SinkFactory, queueSize int) TrackerProviderInterface {

	return &TrackerProvider{
		sinkFactory: factory,
		queueSize:   queueSize,
		sendTimeout: constants.DefaultRequestTimeout * time.Second,
	}
}

// CreateTracker validates cfg, builds its sink and emitter, and returns a running tracker.
func (tp *TrackerProvider) CreateTracker(cfg model.Configuration) (*service.Tracker, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sink, err := tp.sinkFactory(cfg)
	if err != nil {
		return nil, err
	}
	em := emitter.NewEmitter(sink, cfg.BufferOption,
		emitter.WithQueueSize(tp.queueSize),
		emitter.WithSendTimeout(tp.sendTimeout))
	return service.NewTracker(cfg, em)
}

// NewSinkFactory builds the sinks named in the emitter configuration. A comma
// separated list such as "http,console" fans every batch out to each of them.
func NewSinkFactory(cfg config.Config) SinkFactory {

	names := sinkNames(cfg.Emitter.Sink)
	if len(names) == 1 {
		return singleSinkFactory(cfg, names[0])
	}
	factories := make([]SinkFactory, 0, len(names))
	for _, name := range names {
		factories = append(factories, singleSinkFactory(cfg, name))
	}
	return func(trackerCfg model.Configuration) (emitter.Sink, error) {
		sinks := make([]emitter.Sink, 0, len(factories))
		for _, factory := range factories {
			sink, err := factory(trackerCfg)
			if err != nil {
				for _, created := range sinks {
					_ = created.Close()
				}
				return nil, err
			}
			sinks = append(sinks, sink)
		}
		return emitter.NewFanOutSink(sinks...), nil
	}
}

func singleSinkFactory(cfg config.Config, name string) SinkFactory {

	timeout := time.Duration(cfg.Emitter.RequestTimeout) * time.Second
	switch name {
	case constants.SinkKafka:
		return func(_ model.Configuration) (emitter.Sink, error) {
			if len(cfg.Kafka.Brokers) == 0 {
				return nil, sinkError("Kafka sink requires at least one broker.", nil)
			}
			return emitter.NewKafkaSink(emitter.KafkaSinkConfig{
				Brokers:      cfg.Kafka.Brokers,
				Topic:        cfg.Kafka.Topic,
				BatchTimeout: time.Duration(cfg.Kafka.BatchTimeoutMs) * time.Millisecond,
				Compression:  cfg.Kafka.Compression,
				RequiredAcks: cfg.Kafka.RequiredAcks,
			}), nil
		}
	case constants.SinkMQTT:
		return func(_ model.Configuration) (emitter.Sink, error) {
			sink, err := emitter.NewMQTTSink(mqttSinkConfig(cfg.MQTT), timeout)
			if err != nil {
				return nil, sinkError(fmt.Sprintf("MQTT broker %s is not reachable.", cfg.MQTT.BrokerURL), err)
			}
			return sink, nil
		}
	case constants.SinkConsole:
		return func(_ model.Configuration) (emitter.Sink, error) {
			return emitter.NewConsoleSink(), nil
		}
	default:
		return func(trackerCfg model.Configuration) (emitter.Sink, error) {
			return emitter.NewHTTPSink(trackerCfg.CollectorURL, trackerCfg.Method, timeout), nil
		}
	}
}

// sinkNames lowercases and de-duplicates the configured sinks. Unknown names fall back to http.
func sinkNames(raw string) []string {

	var names []string
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		switch name {
		case constants.SinkHTTP, constants.SinkKafka, constants.SinkMQTT, constants.SinkConsole:
		default:
			log.GetLogger().Warn(fmt.Sprintf("Unknown sink '%s'; falling back to http", name))
			name = constants.SinkHTTP
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		names = []string{constants.SinkHTTP}
	}
	return names
}

// mqttSinkConfig gives every sink its own client id. A replaced tracker keeps its
// connection until it has drained, and the broker drops one of two sessions sharing an id.
func mqttSinkConfig(cfg config.MQTTConfig) emitter.MQTTSinkConfig {

	return emitter.MQTTSinkConfig{
		BrokerURL: cfg.BrokerURL,
		ClientID:  cfg.ClientID + "-" + uuid.NewString()[:8],
		Username:  cfg.Username,
		Password:  cfg.Password,
		Topic:     cfg.Topic,
		QoS:       cfg.QoS,
	}
}

func sinkError(description string, cause error) error {
	if cause == nil {
		cause = errors.New(description)
	}
	return errors2.NewServerError(errors2.WithDescription(errors2.SINK_UNAVAILABLE, description), cause)
}
