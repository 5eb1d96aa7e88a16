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
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gem/snowplow-bridge/internal/system/constants"
	"github.com/gem/snowplow-bridge/internal/tracker/model"
)

func decodeEvent(t *testing.T, p model.Payload) model.SelfDescribingJSON {
	t.Helper()
	raw, err := base64.URLEncoding.DecodeString(p[constants.ParamUnstructB64])
	require.NoError(t, err)
	var envelope struct {
		Data model.SelfDescribingJSON `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	return envelope.Data
}

func entity(t *testing.T, p model.Payload, schema string) map[string]interface{} {
	t.Helper()
	for _, e := range decodeContexts(t, p).Data {
		if e.Schema == schema {
			return e.Data.(map[string]interface{})
		}
	}
	return nil
}

func newMediaTracker(t *testing.T) (*Tracker, *recordingEmitter) {
	return newTestTracker(t, func(c *model.Configuration) {
		c.PlatformContext = false
		c.SessionContext = false
	})
}

func TestMedia_EventsWithoutSessionAreIgnored(t *testing.T) {
	tracker, em := newMediaTracker(t)

	eventID, err := tracker.TrackMediaEvent(model.MediaAction{Type: model.MediaPlay})

	require.NoError(t, err)
	assert.Empty(t, eventID)
	assert.Empty(t, em.payloads)
	assert.False(t, tracker.UpdatePlayerState(model.PlayerState{CurrentTime: 3}))
}

func TestMedia_StartSessionTracksReady(t *testing.T) {
	tracker, em := newMediaTracker(t)

	eventID := tracker.StartMediaSession("video-1", model.MediaMetadata{Label: "Trailer"})

	require.NotEmpty(t, eventID)
	assert.Equal(t, "video-1", tracker.MediaSessionID())
	p := em.last(t)
	assert.Equal(t, constants.EventSelfDescribing, p[constants.ParamEvent])
	assert.Equal(t, "iglu:com.snowplowanalytics.snowplow.media/ready_event/jsonschema/1-0-0", decodeEvent(t, p).Schema)

	player := entity(t, p, constants.SchemaMediaPlayer)
	require.NotNil(t, player)
	assert.Equal(t, "Trailer", player["label"])
	assert.Equal(t, constants.DefaultMediaPlayerType, player["playerType"])
	assert.Equal(t, true, player["paused"])
	assert.Equal(t, float64(100), player["volume"])
	assert.Equal(t, "video-1", entity(t, p, constants.SchemaMediaSession)["mediaSessionId"])
}

func TestMedia_PlayPauseEndUpdatePlayer(t *testing.T) {
	tracker, em := newMediaTracker(t)
	tracker.StartMediaSession("video-1", model.MediaMetadata{})

	_, err := tracker.TrackMediaEvent(model.MediaAction{Type: model.MediaPlay})
	require.NoError(t, err)
	assert.Equal(t, false, entity(t, em.last(t), constants.SchemaMediaPlayer)["paused"])

	_, err = tracker.TrackMediaEvent(model.MediaAction{Type: model.MediaEnd})
	require.NoError(t, err)
	p := em.last(t)
	assert.Equal(t, "iglu:com.snowplowanalytics.snowplow.media/end_event/jsonschema/1-0-0", decodeEvent(t, p).Schema)
	assert.Equal(t, true, entity(t, p, constants.SchemaMediaPlayer)["ended"])
	assert.Empty(t, tracker.MediaSessionID(), "end closes the media session")

	eventID, err := tracker.TrackMediaEvent(model.MediaAction{Type: model.MediaPause})
	require.NoError(t, err)
	assert.Empty(t, eventID)
}

func TestMedia_NewSessionReplacesCurrent(t *testing.T) {
	tracker, em := newMediaTracker(t)
	tracker.StartMediaSession("video-1", model.MediaMetadata{})
	tracker.StartMediaSession("video-2", model.MediaMetadata{})

	_, err := tracker.TrackMediaEvent(model.MediaAction{Type: model.MediaPlay})

	require.NoError(t, err)
	assert.Equal(t, "video-2", entity(t, em.last(t), constants.SchemaMediaSession)["mediaSessionId"])
	assert.Len(t, em.payloads, 3, "no end event is tracked for the replaced session")
}

func TestMedia_EventData(t *testing.T) {
	enabled := true
	tests := []struct {
		name     string
		action   model.MediaAction
		schema   string
		expected map[string]interface{}
	}{
		{
			name:     "quality change",
			action:   model.MediaAction{Type: model.MediaQualityChange, Bitrate: 2500, Height: 720, Width: 1280},
			schema:   "iglu:com.snowplowanalytics.snowplow.media/quality_change_event/jsonschema/1-0-0",
			expected: map[string]interface{}{"newQuality": "720p", "bitrate": float64(2500), "framesPerSecond": float64(0)},
		},
		{
			name:     "volume change",
			action:   model.MediaAction{Type: model.MediaVolumeChange, Volume: 0.35},
			schema:   "iglu:com.snowplowanalytics.snowplow.media/volume_change_event/jsonschema/1-0-0",
			expected: map[string]interface{}{"previousVolume": float64(100), "newVolume": float64(35)},
		},
		{
			name:     "playback rate change",
			action:   model.MediaAction{Type: model.MediaPlaybackRateChange, PlaybackRate: 1.5},
			schema:   "iglu:com.snowplowanalytics.snowplow.media/playback_rate_change_event/jsonschema/1-0-0",
			expected: map[string]interface{}{"previousRate": float64(1), "newRate": 1.5},
		},
		{
			name:     "error",
			action:   model.MediaAction{Type: model.MediaError, ErrorCode: "3016", ErrorMessage: "decode failed"},
			schema:   "iglu:com.snowplowanalytics.snowplow.media/error_event/jsonschema/1-0-0",
			expected: map[string]interface{}{"errorCode": "3016", "errorDescription": "decode failed"},
		},
		{
			name:     "percent progress",
			action:   model.MediaAction{Type: model.MediaPercentProgress, Percent: 50},
			schema:   "iglu:com.snowplowanalytics.snowplow.media/percent_progress_event/jsonschema/1-0-0",
			expected: map[string]interface{}{"percentProgress": float64(50)},
		},
		{
			name:     "subtitle change",
			action:   model.MediaAction{Type: model.MediaSubtitleChange, Label: "English", Language: "en", Enabled: &enabled},
			schema:   constants.SchemaSubtitleChange,
			expected: map[string]interface{}{"label": "English", "language": "en", "enabled": true},
		},
		{
			name:     "fullscreen",
			action:   model.MediaAction{Type: model.MediaFullscreenChange, Fullscreen: true},
			schema:   "iglu:com.snowplowanalytics.snowplow.media/fullscreen_change_event/jsonschema/1-0-0",
			expected: map[string]interface{}{"fullscreen": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, em := newMediaTracker(t)
			tracker.StartMediaSession("video-1", model.MediaMetadata{})

			eventID, err := tracker.TrackMediaEvent(tt.action)

			require.NoError(t, err)
			require.NotEmpty(t, eventID)
			event := decodeEvent(t, em.last(t))
			assert.Equal(t, tt.schema, event.Schema)
			assert.Equal(t, tt.expected, event.Data)
		})
	}
}

func TestMedia_AdEntitiesFollowAdLifecycle(t *testing.T) {
	tracker, em := newMediaTracker(t)
	tracker.StartMediaSession("video-1", model.MediaMetadata{})
	skip := 5.0

	_, err := tracker.TrackMediaEvent(model.MediaAction{Type: model.MediaAdBreakStart, BreakID: "pre", BreakType: "linear"})
	require.NoError(t, err)
	_, err = tracker.TrackMediaEvent(model.MediaAction{Type: model.MediaAdStart, AdID: "ad-1", AdDuration: 15, SkipOffset: &skip})
	require.NoError(t, err)

	p := em.last(t)
	assert.Equal(t, "pre", entity(t, p, constants.SchemaMediaAdBreak)["breakId"])
	ad := entity(t, p, constants.SchemaMediaAd)
	assert.Equal(t, "ad-1", ad["adId"])
	assert.Equal(t, true, ad["skippable"])

	_, err = tracker.TrackMediaEvent(model.MediaAction{Type: model.MediaAdComplete})
	require.NoError(t, err)
	assert.NotNil(t, entity(t, em.last(t), constants.SchemaMediaAd), "the completing ad is still attached")

	_, err = tracker.TrackMediaEvent(model.MediaAction{Type: model.MediaAdBreakEnd})
	require.NoError(t, err)
	p = em.last(t)
	assert.Nil(t, entity(t, p, constants.SchemaMediaAd))
	assert.NotNil(t, entity(t, p, constants.SchemaMediaAdBreak))

	_, err = tracker.TrackMediaEvent(model.MediaAction{Type: model.MediaPlay})
	require.NoError(t, err)
	assert.Nil(t, entity(t, em.last(t), constants.SchemaMediaAdBreak))
}

func TestMedia_UpdatePlayerState(t *testing.T) {
	tracker, em := newMediaTracker(t)
	tracker.StartMediaSession("video-1", model.MediaMetadata{})

	assert.True(t, tracker.UpdatePlayerState(model.PlayerState{
		CurrentTime: 12.5, Duration: 60, Muted: true, Volume: 0.5, PlaybackRate: 2,
	}))
	assert.Len(t, em.payloads, 1, "a state update tracks nothing")

	_, err := tracker.TrackMediaEvent(model.MediaAction{Type: model.MediaSeekEnd})
	require.NoError(t, err)
	player := entity(t, em.last(t), constants.SchemaMediaPlayer)
	assert.Equal(t, 12.5, player["currentTime"])
	assert.Equal(t, float64(60), player["duration"])
	assert.Equal(t, true, player["muted"])
	assert.Equal(t, float64(50), player["volume"])
	assert.Equal(t, float64(2), player["playbackRate"])
}

func TestMedia_InvalidActionIsRejected(t *testing.T) {
	tracker, em := newMediaTracker(t)
	tracker.StartMediaSession("video-1", model.MediaMetadata{})

	_, err := tracker.TrackMediaEvent(model.MediaAction{Type: "rewind"})
	assert.Error(t, err)
	_, err = tracker.TrackMediaEvent(model.MediaAction{Type: model.MediaAdStart})
	assert.Error(t, err)
	assert.Len(t, em.payloads, 1)
}

func TestMedia_GlobalContextsFollowMediaEntities(t *testing.T) {
	tracker, em := newMediaTracker(t)
	tracker.AddGlobalContext(model.NewSelfDescribingJSON("iglu:com.acme/user/jsonschema/1-0-0", map[string]interface{}{}))

	tracker.StartMediaSession("video-1", model.MediaMetadata{})

	assert.Equal(t, []string{
		constants.SchemaMediaPlayer,
		constants.SchemaMediaSession,
		"iglu:com.acme/user/jsonschema/1-0-0",
	}, schemas(decodeContexts(t, em.last(t))))
}
