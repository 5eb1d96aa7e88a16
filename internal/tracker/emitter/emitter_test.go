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
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gem/snowplow-bridge/internal/system/constants"
	"github.com/gem/snowplow-bridge/internal/system/log"
	"github.com/gem/snowplow-bridge/internal/tracker/model"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

type recordingSink struct {
	mu      sync.Mutex
	batches [][]model.Payload
	err     error
	closed  bool
}

func (s *recordingSink) Send(_ context.Context, payloads []model.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, payloads)
	return s.err
}

func (s *recordingSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *recordingSink) Batches() [][]model.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]model.Payload(nil), s.batches...)
}

func event(id string) model.Payload {
	return model.Payload{constants.ParamEventID: id, constants.ParamEvent: constants.EventStructured}
}

func TestEmitter_SingleSendsEachEvent(t *testing.T) {
	sink := &recordingSink{}
	em := NewEmitter(sink, model.Single)
	defer em.Close(context.Background())

	em.Add(event("1"))
	em.Add(event("2"))
	require.NoError(t, em.Flush(context.Background()))

	batches := sink.Batches()
	require.Len(t, batches, 2)
	assert.Equal(t, "1", batches[0][0][constants.ParamEventID])
	assert.Equal(t, "2", batches[1][0][constants.ParamEventID])
}

func TestEmitter_SmallGroupWaitsForBuffer(t *testing.T) {
	sink := &recordingSink{}
	em := NewEmitter(sink, model.SmallGroup)
	defer em.Close(context.Background())

	for i := 0; i < 12; i++ {
		em.Add(event("e"))
	}
	require.NoError(t, em.Flush(context.Background()))

	batches := sink.Batches()
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 10)
	assert.Len(t, batches[1], 2)
}

func TestEmitter_StampsSentTime(t *testing.T) {
	sink := &recordingSink{}
	fixed := time.UnixMilli(1700000000123)
	em := NewEmitter(sink, model.Single, WithClock(func() time.Time { return fixed }))
	defer em.Close(context.Background())

	original := event("1")
	em.Add(original)
	require.NoError(t, em.Flush(context.Background()))

	batches := sink.Batches()
	require.Len(t, batches, 1)
	assert.Equal(t, "1700000000123", batches[0][0][constants.ParamSentTime])
	assert.NotContains(t, original, constants.ParamSentTime)
}

func TestEmitter_FailedBatchIsDropped(t *testing.T) {
	sink := &recordingSink{err: errors.New("collector down")}
	em := NewEmitter(sink, model.SmallGroup)
	defer em.Close(context.Background())

	em.Add(event("1"))
	require.NoError(t, em.Flush(context.Background()))
	require.NoError(t, em.Flush(context.Background()))

	assert.Len(t, sink.Batches(), 1, "no retry of a failed batch")
}

func TestEmitter_CloseFlushesAndClosesSink(t *testing.T) {
	sink := &recordingSink{}
	em := NewEmitter(sink, model.SmallGroup)

	em.Add(event("1"))
	require.NoError(t, em.Close(context.Background()))

	assert.Len(t, sink.Batches(), 1)
	assert.True(t, sink.closed)

	em.Add(event("2"))
	assert.NoError(t, em.Flush(context.Background()))
	assert.NoError(t, em.Close(context.Background()))
	assert.Len(t, sink.Batches(), 1)
}

type blockingSink struct {
	recordingSink
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *blockingSink) Send(ctx context.Context, payloads []model.Payload) error {
	s.once.Do(func() {
		close(s.entered)
		<-s.release
	})
	return s.recordingSink.Send(ctx, payloads)
}

func TestEmitter_DropsWhenQueueIsFull(t *testing.T) {
	sink := &blockingSink{entered: make(chan struct{}), release: make(chan struct{})}
	em := NewEmitter(sink, model.Single, WithQueueSize(1))
	defer em.Close(context.Background())

	em.Add(event("1"))
	<-sink.entered
	em.Add(event("2"))
	em.Add(event("3"))
	close(sink.release)
	require.NoError(t, em.Flush(context.Background()))

	batches := sink.Batches()
	require.Len(t, batches, 2)
	assert.Equal(t, "1", batches[0][0][constants.ParamEventID])
	assert.Equal(t, "2", batches[1][0][constants.ParamEventID])
}
