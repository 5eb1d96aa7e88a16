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

package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"strings"
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

type recordingEmitter struct {
	mu       sync.Mutex
	payloads []model.Payload
	flushed  int
	closed   bool
}

func (e *recordingEmitter) Add(p model.Payload) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.payloads = append(e.payloads, p)
}

func (e *recordingEmitter) Flush(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flushed++
	return nil
}

func (e *recordingEmitter) Close(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

func (e *recordingEmitter) last(t *testing.T) model.Payload {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	require.NotEmpty(t, e.payloads)
	return e.payloads[len(e.payloads)-1]
}

type contextsEnvelope struct {
	Schema string                     `json:"schema"`
	Data   []model.SelfDescribingJSON `json:"data"`
}

func decodeContexts(t *testing.T, p model.Payload) contextsEnvelope {
	t.Helper()
	raw := []byte(p[constants.ParamContexts])
	if encoded, ok := p[constants.ParamContextsB64]; ok {
		var err error
		raw, err = base64.URLEncoding.DecodeString(encoded)
		require.NoError(t, err)
	}
	var envelope contextsEnvelope
	require.NoError(t, json.Unmarshal(raw, &envelope))
	return envelope
}

func schemas(envelope contextsEnvelope) []string {
	out := make([]string, 0, len(envelope.Data))
	for _, entity := range envelope.Data {
		out = append(out, entity.Schema)
	}
	return out
}

func newTestTracker(t *testing.T, mutate func(*model.Configuration)) (*Tracker, *recordingEmitter) {
	t.Helper()
	cfg := model.NewConfiguration("https://collector.example.com", "app-1")
	if mutate != nil {
		mutate(&cfg)
	}
	em := &recordingEmitter{}
	tracker, err := NewTracker(cfg, em)
	require.NoError(t, err)
	return tracker, em
}

func TestNewTracker_RejectsInvalidConfiguration(t *testing.T) {
	_, err := NewTracker(model.NewConfiguration("", "app"), &recordingEmitter{})

	assert.Error(t, err)
}

func TestTrack_CommonFields(t *testing.T) {
	tracker, em := newTestTracker(t, nil)

	eventID := tracker.Track(model.NewStructured("cat", "act"))

	p := em.last(t)
	assert.Equal(t, eventID, p[constants.ParamEventID])
	assert.Equal(t, constants.EventStructured, p[constants.ParamEvent])
	assert.Equal(t, "app-1", p[constants.ParamAppID])
	assert.Equal(t, constants.DefaultNamespace, p[constants.ParamNamespace])
	assert.Equal(t, constants.DefaultPlatform, p[constants.ParamPlatform])
	assert.Equal(t, constants.TrackerVersion, p[constants.ParamTrackerVersion])
	assert.NotEmpty(t, p[constants.ParamDeviceTime])
	assert.NotContains(t, p, constants.ParamSeLabel)
	assert.NotContains(t, p, constants.ParamSeProperty)
	assert.NotContains(t, p, constants.ParamSeValue)
}

func TestTrack_AttachesSessionAndPlatformContexts(t *testing.T) {
	tracker, em := newTestTracker(t, nil)

	tracker.Track(model.NewScreenView("Home"))

	p := em.last(t)
	assert.NotContains(t, p, constants.ParamContexts, "contexts are base64 encoded by default")
	envelope := decodeContexts(t, p)
	assert.Equal(t, constants.SchemaContexts, envelope.Schema)
	assert.Equal(t, []string{constants.SchemaClientSession, constants.SchemaMobileContext}, schemas(envelope))
}

func TestTrack_PlainContextsWithoutBase64(t *testing.T) {
	tracker, em := newTestTracker(t, func(c *model.Configuration) {
		c.Base64 = false
		c.PlatformContext = false
	})

	tracker.Track(model.NewScreenView("Home"))

	p := em.last(t)
	assert.NotContains(t, p, constants.ParamContextsB64)
	assert.Equal(t, []string{constants.SchemaClientSession}, schemas(decodeContexts(t, p)))
}

func TestTrack_NoContextsWhenDisabled(t *testing.T) {
	tracker, em := newTestTracker(t, func(c *model.Configuration) {
		c.PlatformContext = false
		c.SessionContext = false
	})

	tracker.Track(model.NewStructured("c", "a"))

	p := em.last(t)
	assert.NotContains(t, p, constants.ParamContexts)
	assert.NotContains(t, p, constants.ParamContextsB64)
}

func TestTrack_GlobalContexts(t *testing.T) {
	tracker, em := newTestTracker(t, func(c *model.Configuration) {
		c.PlatformContext = false
		c.SessionContext = false
	})
	tracker.AddGlobalContext(model.NewSelfDescribingJSON("iglu:com.acme/user/jsonschema/1-0-0",
		map[string]interface{}{"tier": "gold"}))

	tracker.Track(model.NewStructured("c", "a"))
	assert.Equal(t, []string{"iglu:com.acme/user/jsonschema/1-0-0"}, schemas(decodeContexts(t, em.last(t))))

	tracker.ClearGlobalContexts()
	tracker.Track(model.NewStructured("c", "a"))
	assert.NotContains(t, em.last(t), constants.ParamContextsB64)
}

func TestTrack_SubjectUserID(t *testing.T) {
	tracker, em := newTestTracker(t, nil)

	tracker.Subject().SetUserID("user-42")
	tracker.Track(model.NewStructured("c", "a"))
	assert.Equal(t, "user-42", em.last(t)[constants.ParamUserID])

	tracker.Subject().SetUserID("")
	tracker.Track(model.NewStructured("c", "a"))
	assert.NotContains(t, em.last(t), constants.ParamUserID)
}

func TestTrack_SubjectDefaults(t *testing.T) {
	tracker, em := newTestTracker(t, func(c *model.Configuration) {
		c.Subject = model.SubjectDefaults{ScreenWidth: 1080, ScreenHeight: 1920, Language: "vi", Timezone: "Asia/Ho_Chi_Minh"}
	})

	tracker.Track(model.NewStructured("c", "a"))

	p := em.last(t)
	assert.Equal(t, "1080x1920", p[constants.ParamResolution])
	assert.Equal(t, "vi", p[constants.ParamLanguage])
	assert.Equal(t, "Asia/Ho_Chi_Minh", p[constants.ParamTimezone])
}

func TestTrack_NoResolutionWithoutBothDimensions(t *testing.T) {
	tracker, em := newTestTracker(t, func(c *model.Configuration) {
		c.Subject = model.SubjectDefaults{ScreenWidth: 1080}
	})

	tracker.Track(model.NewStructured("c", "a"))

	p := em.last(t)
	assert.NotContains(t, p, constants.ParamResolution)
	assert.NotContains(t, p, constants.ParamLanguage)
}

func TestTrack_LogLevelControlsTrackerOutput(t *testing.T) {
	tests := []struct {
		name     string
		level    model.LogLevel
		expected bool
	}{
		{name: "verbose logs tracked events above the process level", level: model.LogLevelVerbose, expected: true},
		{name: "debug", level: model.LogLevelDebug, expected: true},
		{name: "error", level: model.LogLevelError, expected: false},
		{name: "off", level: model.LogLevelOff, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, log.InitWithWriter("INFO", &buf))
			t.Cleanup(func() { _ = log.Init("ERROR") })

			tracker, _ := newTestTracker(t, func(c *model.Configuration) { c.LogLevel = tt.level })
			tracker.Track(model.NewScreenView("Home"))

			assert.Equal(t, tt.expected, strings.Contains(buf.String(), "Tracking event"))
		})
	}
}

func TestTracker_FlushAndClose(t *testing.T) {
	tracker, em := newTestTracker(t, nil)

	require.NoError(t, tracker.Flush(context.Background()))
	require.NoError(t, tracker.Close(context.Background()))

	assert.Equal(t, 1, em.flushed)
	assert.True(t, em.closed)
}

func TestSession_StartNewSessionRotates(t *testing.T) {
	session := NewSession(time.Hour, nil)
	firstID := session.ID()

	session.StartNewSession()

	assert.NotEqual(t, firstID, session.ID())
	assert.Equal(t, firstID, session.PreviousID())
	assert.Equal(t, 2, session.Index())
}

func TestSession_ExpiresAfterTimeout(t *testing.T) {
	now := time.Unix(1700000000, 0)
	session := NewSession(time.Minute, func() time.Time { return now })
	firstID := session.ID()

	entity := session.entity("e1", now)
	assert.Equal(t, firstID, entity.Data.(map[string]interface{})["sessionId"])

	now = now.Add(30 * time.Second)
	session.entity("e2", now)
	assert.Equal(t, firstID, session.ID(), "activity inside the timeout keeps the session")

	now = now.Add(2 * time.Minute)
	entity = session.entity("e3", now)
	data := entity.Data.(map[string]interface{})
	assert.NotEqual(t, firstID, data["sessionId"])
	assert.Equal(t, firstID, data["previousSessionId"])
	assert.Equal(t, "e3", data["firstEventId"])
	assert.Equal(t, 2, data["sessionIndex"])
}

func TestSession_FirstEventIsKept(t *testing.T) {
	session := NewSession(time.Hour, nil)

	session.entity("first", time.Now())
	entity := session.entity("second", time.Now())

	assert.Equal(t, "first", entity.Data.(map[string]interface{})["firstEventId"])
	assert.Nil(t, entity.Data.(map[string]interface{})["previousSessionId"])
}
