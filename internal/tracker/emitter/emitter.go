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
	"strconv"
	"sync"
	"time"

	"github.com/gem/snowplow-bridge/internal/system/constants"
	errors2 "github.com/gem/snowplow-bridge/internal/system/errors"
	"github.com/gem/snowplow-bridge/internal/system/log"
	"github.com/gem/snowplow-bridge/internal/tracker/model"
)

// Sink delivers a batch of payloads to wherever events are collected.
type Sink interface {
	Send(ctx context.Context, payloads []model.Payload) error
	Close() error
}

type request struct {
	payload model.Payload
	flushed chan struct{}
}

// Emitter buffers payloads and hands them to a Sink from a single worker goroutine.
// A batch that fails to send is logged and dropped.
type Emitter struct {
	sink        Sink
	bufferSize  int
	sendTimeout time.Duration
	queue       chan request
	buffer      []model.Payload
	done        chan struct{}
	logger      *log.Logger
	now         func() time.Time

	mu     sync.RWMutex
	closed bool
}

// Option customises an Emitter.
type Option func(*Emitter)

// WithQueueSize bounds the number of payloads waiting for the worker.
func WithQueueSize(size int) Option {
	return func(e *Emitter) {
		if size > 0 {
			e.queue = make(chan request, size)
		}
	}
}

// WithSendTimeout bounds a single delivery attempt.
func WithSendTimeout(timeout time.Duration) Option {
	return func(e *Emitter) {
		if timeout > 0 {
			e.sendTimeout = timeout
		}
	}
}

// WithClock replaces the clock used for the sent timestamp.
func WithClock(now func() time.Time) Option {
	return func(e *Emitter) {
		e.now = now
	}
}

// NewEmitter starts an emitter that flushes every time bufferOption events are waiting.
func NewEmitter(sink Sink, bufferOption model.BufferOption, opts ...Option) *Emitter {
	bufferSize := int(bufferOption)
	if bufferSize < 1 {
		bufferSize = 1
	}
	e := &Emitter{
		sink:        sink,
		bufferSize:  bufferSize,
		sendTimeout: constants.DefaultRequestTimeout * time.Second,
		queue:       make(chan request, constants.DefaultQueueSize),
		done:        make(chan struct{}),
		logger:      log.GetLogger(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.buffer = make([]model.Payload, 0, bufferSize)

	go e.run()
	return e
}

// Add queues a payload. It never blocks: when the queue is full the payload is dropped.
func (e *Emitter) Add(payload model.Payload) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		e.logger.Debug("Emitter is closed; dropping event",
			log.String("event_id", payload[constants.ParamEventID]))
		return
	}
	select {
	case e.queue <- request{payload: payload}:
	default:
		e.logger.Warn("Emitter queue is full; dropping event",
			log.String("event_id", payload[constants.ParamEventID]))
	}
}

// Flush sends everything queued before the call and waits for the attempt to finish.
func (e *Emitter) Flush(ctx context.Context) error {
	flushed := make(chan struct{})

	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return nil
	}
	select {
	case e.queue <- request{flushed: flushed}:
	case <-ctx.Done():
		e.mu.RUnlock()
		return ctx.Err()
	}
	e.mu.RUnlock()

	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes pending events, stops the worker and closes the sink.
func (e *Emitter) Close(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	select {
	case <-e.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return e.sink.Close()
}

func (e *Emitter) run() {
	defer close(e.done)
	for req := range e.queue {
		if req.flushed != nil {
			e.send()
			close(req.flushed)
			continue
		}
		e.buffer = append(e.buffer, req.payload)
		if len(e.buffer) >= e.bufferSize {
			e.send()
		}
	}
	e.send()
}

func (e *Emitter) send() {
	if len(e.buffer) == 0 {
		return
	}
	sentAt := strconv.FormatInt(e.now().UnixMilli(), 10)
	batch := make([]model.Payload, len(e.buffer))
	for i, p := range e.buffer {
		stamped := p.Copy()
		stamped[constants.ParamSentTime] = sentAt
		batch[i] = stamped
	}
	e.buffer = e.buffer[:0]

	ctx, cancel := context.WithTimeout(context.Background(), e.sendTimeout)
	defer cancel()
	if err := e.sink.Send(ctx, batch); err != nil {
		serverError := errors2.NewServerError(errors2.WithDescription(errors2.EMIT_FAILED,
			fmt.Sprintf("Dropping %d event(s).", len(batch))), err)
		e.logger.Error(serverError.Error(), log.Int("events", len(batch)))
		return
	}
	e.logger.Debug(fmt.Sprintf("Delivered %d event(s)", len(batch)))
}
