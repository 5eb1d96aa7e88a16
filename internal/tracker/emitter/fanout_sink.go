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
	"fmt"

	"github.com/pkg/errors"

	"github.com/gem/snowplow-bridge/internal/system/log"
	"github.com/gem/snowplow-bridge/internal/tracker/model"
)

// FanOutSink delivers every batch to each of its sinks. A failing sink does not
// keep the batch from the others; Send fails only when every sink failed.
type FanOutSink struct {
	sinks  []Sink
	logger *log.Logger
}

func NewFanOutSink(sinks ...Sink) *FanOutSink {
	return &FanOutSink{sinks: sinks, logger: log.GetLogger()}
}

func (s *FanOutSink) Send(ctx context.Context, payloads []model.Payload) error {
	var firstErr error
	failed := 0
	for i, sink := range s.sinks {
		if err := sink.Send(ctx, payloads); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			s.logger.Warn(fmt.Sprintf("Sink %d of %d failed to deliver %d events", i+1, len(s.sinks), len(payloads)),
				log.Error(err))
		}
	}
	if failed > 0 && failed == len(s.sinks) {
		return errors.Wrapf(firstErr, "all %d sinks failed", failed)
	}
	return nil
}

func (s *FanOutSink) Close() error {
	var firstErr error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
