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
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"

	"github.com/gem/snowplow-bridge/internal/tracker/model"
)

// MQTTSinkConfig describes the broker and topic events are published to.
type MQTTSinkConfig struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string
	Topic     string
	QoS       byte
}

// MQTTSink publishes each payload as a JSON message.
type MQTTSink struct {
	client mqtt.Client
	topic  string
	qos    byte
}

// NewMQTTSink connects to the broker and returns a sink publishing to cfg.Topic.
func NewMQTTSink(cfg MQTTSinkConfig, connectTimeout time.Duration) (*MQTTSink, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetCleanSession(true).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, errors.Errorf("timed out connecting to mqtt broker %s", cfg.BrokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, errors.Wrapf(err, "failed to connect to mqtt broker %s", cfg.BrokerURL)
	}
	return NewMQTTSinkWithClient(client, cfg.Topic, cfg.QoS), nil
}

// NewMQTTSinkWithClient wraps an already configured client.
func NewMQTTSinkWithClient(client mqtt.Client, topic string, qos byte) *MQTTSink {
	return &MQTTSink{client: client, topic: topic, qos: qos}
}

func (s *MQTTSink) Send(ctx context.Context, payloads []model.Payload) error {
	for _, p := range payloads {
		body, err := json.Marshal(p)
		if err != nil {
			return errors.Wrap(err, "failed to encode payload for mqtt")
		}
		token := s.client.Publish(s.topic, s.qos, false, body)
		select {
		case <-token.Done():
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "mqtt publish did not complete")
		}
		if err := token.Error(); err != nil {
			return errors.Wrapf(err, "failed to publish to %s", s.topic)
		}
	}
	return nil
}

func (s *MQTTSink) Close() error {
	s.client.Disconnect(250)
	return nil
}
