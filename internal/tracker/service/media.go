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
	"fmt"
	"math"
	"time"

	"github.com/gem/snowplow-bridge/internal/system/constants"
	"github.com/gem/snowplow-bridge/internal/system/log"
	"github.com/gem/snowplow-bridge/internal/tracker/model"
)

// mediaSession is the state of the media currently tracked. Guarded by Tracker.mediaMu.
type mediaSession struct {
	id        string
	startedAt time.Time
	player    model.MediaPlayer
	ad        *model.MediaAd
	adBreak   *model.MediaAdBreak
}

// StartMediaSession makes id the current media and tracks a ready event for it.
// A session already in progress is discarded without an end event.
func (t *Tracker) StartMediaSession(id string, meta model.MediaMetadata) string {
	t.mediaMu.Lock()
	defer t.mediaMu.Unlock()

	if t.media != nil {
		t.logger.Debug("Replacing media session", log.String("media_id", t.media.id),
			log.String("new_media_id", id))
	}
	t.media = &mediaSession{id: id, startedAt: t.now(), player: model.NewMediaPlayer(meta)}
	return t.Track(t.media.event(model.MediaReady, nil))
}

// MediaSessionID returns the id of the current media, or an empty string.
func (t *Tracker) MediaSessionID() string {
	t.mediaMu.Lock()
	defer t.mediaMu.Unlock()
	if t.media == nil {
		return ""
	}
	return t.media.id
}

// TrackMediaEvent tracks action against the current media and returns the event id.
// Without a media session nothing is tracked and the id is empty. An end event closes the session.
func (t *Tracker) TrackMediaEvent(action model.MediaAction) (string, error) {
	if err := action.Validate(); err != nil {
		return "", err
	}

	t.mediaMu.Lock()
	defer t.mediaMu.Unlock()

	m := t.media
	if m == nil {
		t.logger.Debug("No media session; ignoring media event", log.String("media_event", string(action.Type)))
		return "", nil
	}
	eventID := t.Track(m.event(action.Type, m.apply(action)))

	switch action.Type {
	case model.MediaEnd:
		t.media = nil
	case model.MediaAdComplete, model.MediaAdSkip:
		m.ad = nil
	case model.MediaAdBreakEnd:
		m.adBreak = nil
	}
	return eventID, nil
}

// UpdatePlayerState records the host player state without tracking an event.
// It reports false when there is no media session.
func (t *Tracker) UpdatePlayerState(state model.PlayerState) bool {
	t.mediaMu.Lock()
	defer t.mediaMu.Unlock()

	if t.media == nil {
		return false
	}
	player := &t.media.player
	player.CurrentTime = state.CurrentTime
	player.Duration = state.Duration
	player.Paused = state.Paused
	player.Muted = state.Muted
	player.Volume = volumePercent(state.Volume)
	player.PlaybackRate = state.PlaybackRate
	player.Ended = false
	return true
}

// apply updates the session from action and returns the event data.
func (m *mediaSession) apply(action model.MediaAction) map[string]interface{} {
	data := map[string]interface{}{}
	switch action.Type {
	case model.MediaPlay:
		m.player.Paused = false
		m.player.Ended = false
	case model.MediaPause:
		m.player.Paused = true
	case model.MediaEnd:
		m.player.Paused = true
		m.player.Ended = true
	case model.MediaQualityChange:
		quality := fmt.Sprintf("%dp", action.Height)
		if m.player.Quality != "" {
			data["previousQuality"] = m.player.Quality
		}
		data["newQuality"] = quality
		data["bitrate"] = action.Bitrate
		data["framesPerSecond"] = 0
		m.player.Quality = quality
	case model.MediaAudioChange, model.MediaSubtitleChange:
		data["label"] = action.Label
		data["language"] = action.Language
		if action.PreviousLabel != "" {
			data["previousLabel"] = action.PreviousLabel
		}
		if action.PreviousLanguage != "" {
			data["previousLanguage"] = action.PreviousLanguage
		}
		if action.Type == model.MediaSubtitleChange && action.Enabled != nil {
			data["enabled"] = *action.Enabled
		}
	case model.MediaError:
		data["errorCode"] = action.ErrorCode
		data["errorDescription"] = action.ErrorMessage
	case model.MediaPlaybackRateChange:
		data["previousRate"] = m.player.PlaybackRate
		data["newRate"] = action.PlaybackRate
		m.player.PlaybackRate = action.PlaybackRate
	case model.MediaVolumeChange:
		volume := volumePercent(action.Volume)
		data["previousVolume"] = m.player.Volume
		data["newVolume"] = volume
		m.player.Volume = volume
	case model.MediaFullscreenChange:
		data["fullscreen"] = action.Fullscreen
		m.player.Fullscreen = action.Fullscreen
	case model.MediaPictureInPictureChange:
		data["pictureInPicture"] = action.PictureInPicture
		m.player.PictureInPicture = action.PictureInPicture
	case model.MediaPercentProgress:
		data["percentProgress"] = action.Percent
	case model.MediaAdStart:
		m.ad = &model.MediaAd{AdID: action.AdID, Duration: action.AdDuration, Skippable: action.SkipOffset != nil}
	case model.MediaAdBreakStart:
		m.adBreak = &model.MediaAdBreak{
			BreakID:   action.BreakID,
			BreakType: action.BreakType,
			StartTime: action.BreakStartTime,
		}
	}
	return data
}

// event snapshots the media entities into a trackable event.
func (m *mediaSession) event(eventType model.MediaEventType, data map[string]interface{}) *model.MediaEvent {
	entities := []model.SelfDescribingJSON{
		model.NewSelfDescribingJSON(constants.SchemaMediaPlayer, m.player),
		model.NewSelfDescribingJSON(constants.SchemaMediaSession, map[string]interface{}{
			"mediaSessionId": m.id,
			"startedAt":      m.startedAt.UTC().Format(time.RFC3339Nano),
		}),
	}
	if m.ad != nil {
		entities = append(entities, model.NewSelfDescribingJSON(constants.SchemaMediaAd, *m.ad))
	}
	if m.adBreak != nil {
		entities = append(entities, model.NewSelfDescribingJSON(constants.SchemaMediaAdBreak, *m.adBreak))
	}
	return &model.MediaEvent{Type: eventType, Data: data, Context: entities}
}

func volumePercent(volume float64) int {
	return int(math.Round(volume * 100))
}
