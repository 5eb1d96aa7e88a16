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
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gem/snowplow-bridge/internal/system/config"
	"github.com/gem/snowplow-bridge/internal/system/constants"
	errors2 "github.com/gem/snowplow-bridge/internal/system/errors"
	"github.com/gem/snowplow-bridge/internal/system/log"
	"github.com/gem/snowplow-bridge/internal/tracker/emitter"
	"github.com/gem/snowplow-bridge/internal/tracker/model"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

type memorySink struct {
	mu       sync.Mutex
	payloads []model.Payload
}

func (s *memorySink) Send(_ context.Context, payloads []model.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payloads...)
	return nil
}

func (s *memorySink) Close() error { return nil }

func TestCreateTracker_WiresSinkAndEmitter(t *testing.T) {
	sink := &memorySink{}
	var seen model.Configuration
	p := NewTrackerProviderWithSink(func(cfg model.Configuration) (emitter.Sink, error) {
		seen = cfg
		return sink, nil
	}, 10)

	tracker, err := p.CreateTracker(model.NewConfiguration("https://c.example.com", "app"))
	require.NoError(t, err)
	tracker.Track(model.NewScreenView("Home"))
	require.NoError(t, tracker.Close(context.Background()))

	assert.Equal(t, "https://c.example.com", seen.CollectorURL)
	require.Len(t, sink.payloads, 1)
	assert.Equal(t, "app", sink.payloads[0][constants.ParamAppID])
}

func TestCreateTracker_InvalidConfigurationSkipsSink(t *testing.T) {
	called := false
	p := NewTrackerProviderWithSink(func(model.Configuration) (emitter.Sink, error) {
		called = true
		return &memorySink{}, nil
	}, 10)

	_, err := p.CreateTracker(model.NewConfiguration("https://c.example.com", ""))

	assert.Error(t, err)
	assert.False(t, called)
}

func TestCreateTracker_SinkError(t *testing.T) {
	p := NewTrackerProviderWithSink(func(model.Configuration) (emitter.Sink, error) {
		return nil, errors.New("no sink")
	}, 10)

	_, err := p.CreateTracker(model.NewConfiguration("https://c.example.com", "app"))

	assert.ErrorContains(t, err, "no sink")
}

func TestNewSinkFactory_SelectsSink(t *testing.T) {
	trackerCfg := model.NewConfiguration("c.example.com", "app")

	tests := []struct {
		name string
		cfg  config.Config
		want interface{}
	}{
		{"default http", config.Config{}, &emitter.HTTPSink{}},
		{"unknown falls back to http", config.Config{Emitter: config.EmitterConfig{Sink: "carrier-pigeon"}}, &emitter.HTTPSink{}},
		{"console", config.Config{Emitter: config.EmitterConfig{Sink: constants.SinkConsole}}, &emitter.ConsoleSink{}},
		{"kafka", config.Config{
			Emitter: config.EmitterConfig{Sink: constants.SinkKafka},
			Kafka:   config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "events"},
		}, &emitter.KafkaSink{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink, err := NewSinkFactory(tt.cfg)(trackerCfg)

			require.NoError(t, err)
			assert.IsType(t, tt.want, sink)
			assert.NoError(t, sink.Close())
		})
	}
}

func TestNewSinkFactory_HTTPUsesTrackerCollector(t *testing.T) {
	sink, err := NewSinkFactory(config.Config{})(model.NewConfiguration("c.example.com", "app"))

	require.NoError(t, err)
	assert.Equal(t, "https://c.example.com", sink.(*emitter.HTTPSink).Endpoint())
}

func TestNewSinkFactory_KafkaRequiresBrokers(t *testing.T) {
	factory := NewSinkFactory(config.Config{Emitter: config.EmitterConfig{Sink: constants.SinkKafka}})

	_, err := factory(model.NewConfiguration("c.example.com", "app"))

	var serverErr *errors2.ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, errors2.SINK_UNAVAILABLE.Code, serverErr.Code)
}

func TestNewSinkFactory_FansOutToListedSinks(t *testing.T) {
	factory := NewSinkFactory(config.Config{Emitter: config.EmitterConfig{Sink: "HTTP, console ,http"}})

	sink, err := factory(model.NewConfiguration("c.example.com", "app"))

	require.NoError(t, err)
	assert.IsType(t, &emitter.FanOutSink{}, sink)
	assert.NoError(t, sink.Close())
}

func TestNewSinkFactory_FanOutFailsWhenAnySinkCannotBeCreated(t *testing.T) {
	factory := NewSinkFactory(config.Config{Emitter: config.EmitterConfig{Sink: "console,kafka"}})

	_, err := factory(model.NewConfiguration("c.example.com", "app"))

	var serverErr *errors2.ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, errors2.SINK_UNAVAILABLE.Code, serverErr.Code)
}

func TestSinkNames(t *testing.T) {
	assert.Equal(t, []string{constants.SinkHTTP}, sinkNames(""))
	assert.Equal(t, []string{constants.SinkHTTP}, sinkNames("carrier-pigeon,http"))
	assert.Equal(t, []string{constants.SinkConsole, constants.SinkMQTT}, sinkNames("console, MQTT"))
}

func TestMQTTSinkConfig_ClientIDIsUniquePerSink(t *testing.T) {
	mqttCfg := config.MQTTConfig{BrokerURL: "tcp://localhost:1883", ClientID: "snowplow-bridge", Topic: "events", QoS: 1}

	first := mqttSinkConfig(mqttCfg)
	second := mqttSinkConfig(mqttCfg)

	assert.NotEqual(t, first.ClientID, second.ClientID)
	assert.True(t, strings.HasPrefix(first.ClientID, "snowplow-bridge-"))
	assert.Equal(t, "events", second.Topic)
	assert.Equal(t, byte(1), second.QoS)
}
