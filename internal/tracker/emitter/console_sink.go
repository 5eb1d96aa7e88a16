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

	"github.com/gem/snowplow-bridge/internal/system/constants"
	"github.com/gem/snowplow-bridge/internal/system/log"
	"github.com/gem/snowplow-bridge/internal/tracker/model"
)

// ConsoleSink writes payloads to the process logger instead of a collector.
type ConsoleSink struct {
	logger *log.Logger
}

func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{logger: log.GetLogger().With(log.String("sink", constants.SinkConsole))}
}

func (s *ConsoleSink) Send(_ context.Context, payloads []model.Payload) error {
	for _, p := range payloads {
		s.logger.Info("Tracked event",
			log.String("event_id", p[constants.ParamEventID]),
			log.String("event_type", p[constants.ParamEvent]),
			log.Any("payload", map[string]string(p)))
	}
	return nil
}

func (s *ConsoleSink) Close() error {
	return nil
}
