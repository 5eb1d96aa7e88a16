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

package model

import (
	"net/http"

	"github.com/gem/snowplow-bridge/internal/system/constants"
	errors2 "github.com/gem/snowplow-bridge/internal/system/errors"
)

// MediaEventType names a media event. The event schema is derived from it.
type MediaEventType string

const (
	MediaReady                  MediaEventType = "ready"
	MediaPlay                   MediaEventType = "play"
	MediaPause                  MediaEventType = "pause"
	MediaEnd                    MediaEventType = "end"
	MediaSeekStart              MediaEventType = "seek_start"
	MediaSeekEnd                MediaEventType = "seek_end"
	MediaBufferStart            MediaEventType = "buffer_start"
	MediaBufferEnd              MediaEventType = "buffer_end"
	MediaQualityChange          MediaEventType = "quality_change"
	MediaAudioChange            MediaEventType = "audio_change"
	MediaSubtitleChange         MediaEventType = "subtitle_change"
	MediaError                  MediaEventType = "error"
	MediaPlaybackRateChange     MediaEventType = "playback_rate_change"
	MediaVolumeChange           MediaEventType = "volume_change"
	MediaFullscreenChange       MediaEventType = "fullscreen_change"
	MediaPictureInPictureChange MediaEventType = "picture_in_picture_change"
	MediaPercentProgress        MediaEventType = "percent_progress"
	MediaAdStart                MediaEventType = "ad_start"
	MediaAdComplete             MediaEventType = "ad_complete"
	MediaAdBreakStart           MediaEventType = "ad_break_start"
	MediaAdBreakEnd             MediaEventType = "ad_break_end"
	MediaAdSkip                 MediaEventType = "ad_skip"
	MediaAdClick                MediaEventType = "ad_click"
	MediaAdPause                MediaEventType = "ad_pause"
	MediaAdResume               MediaEventType = "ad_resume"
	MediaAdFirstQuartile        MediaEventType = "ad_first_quartile"
	MediaAdMidpoint             MediaEventType = "ad_midpoint"
	MediaAdThirdQuartile        MediaEventType = "ad_third_quartile"
)

var mediaEventTypes = map[MediaEventType]bool{
	MediaReady: true, MediaPlay: true, MediaPause: true, MediaEnd: true,
	MediaSeekStart: true, MediaSeekEnd: true, MediaBufferStart: true, MediaBufferEnd: true,
	MediaQualityChange: true, MediaAudioChange: true, MediaSubtitleChange: true, MediaError: true,
	MediaPlaybackRateChange: true, MediaVolumeChange: true, MediaFullscreenChange: true,
	MediaPictureInPictureChange: true, MediaPercentProgress: true,
	MediaAdStart: true, MediaAdComplete: true, MediaAdBreakStart: true, MediaAdBreakEnd: true,
	MediaAdSkip: true, MediaAdClick: true, MediaAdPause: true, MediaAdResume: true,
	MediaAdFirstQuartile: true, MediaAdMidpoint: true, MediaAdThirdQuartile: true,
}

// Valid reports whether t is a known media event type.
func (t MediaEventType) Valid() bool {
	return mediaEventTypes[t]
}

// Schema returns the Iglu schema of the event.
func (t MediaEventType) Schema() string {
	switch t {
	case MediaAudioChange:
		return constants.SchemaAudioTrackChange
	case MediaSubtitleChange:
		return constants.SchemaSubtitleChange
	default:
		return constants.MediaEventSchemaPrefix + string(t) + constants.MediaEventSchemaSuffix
	}
}

// MediaMetadata describes the player and media of a new media session.
type MediaMetadata struct {
	Label      string `json:"label,omitempty"`
	PlayerType string `json:"playerType,omitempty"`
	MediaType  string `json:"mediaType,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
}

// PlayerState is the playback state reported by the host player. Volume is 0 to 1.
type PlayerState struct {
	CurrentTime  float64 `json:"currentTime"`
	Duration     float64 `json:"duration"`
	Paused       bool    `json:"paused"`
	Muted        bool    `json:"muted"`
	Volume       float64 `json:"volume"`
	PlaybackRate float64 `json:"playbackRate"`
}

// MediaAction is a single media call from the host. Only the fields used by Type are read.
type MediaAction struct {
	Type MediaEventType `json:"type"`

	// quality_change
	Bitrate float64 `json:"bitrate,omitempty"`
	Height  int     `json:"height,omitempty"`
	Width   int     `json:"width,omitempty"`

	// audio_change, subtitle_change
	Label            string `json:"label,omitempty"`
	Language         string `json:"language,omitempty"`
	PreviousLabel    string `json:"previousLabel,omitempty"`
	PreviousLanguage string `json:"previousLanguage,omitempty"`
	Enabled          *bool  `json:"enabled,omitempty"`

	// error
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`

	// playback_rate_change, volume_change, fullscreen_change, picture_in_picture_change
	PlaybackRate     float64 `json:"playbackRate,omitempty"`
	Volume           float64 `json:"volume,omitempty"`
	Fullscreen       bool    `json:"fullscreen,omitempty"`
	PictureInPicture bool    `json:"pictureInPicture,omitempty"`

	// percent_progress
	Percent int `json:"percent,omitempty"`

	// ad_start
	AdID       string   `json:"adId,omitempty"`
	AdType     string   `json:"adType,omitempty"`
	AdDuration float64  `json:"adDuration,omitempty"`
	SkipOffset *float64 `json:"skipOffset,omitempty"`

	// ad_break_start
	BreakID        string  `json:"breakId,omitempty"`
	BreakType      string  `json:"breakType,omitempty"`
	BreakStartTime float64 `json:"breakStartTime,omitempty"`
}

// Validate checks the type and the fields the type cannot do without.
func (a MediaAction) Validate() error {
	switch {
	case !a.Type.Valid():
		return invalidMediaEvent("'" + string(a.Type) + "' is not a supported media event type.")
	case a.Type == MediaAdStart && a.AdID == "":
		return invalidMediaEvent("'adId' is required for ad_start.")
	case a.Type == MediaAdBreakStart && a.BreakID == "":
		return invalidMediaEvent("'breakId' is required for ad_break_start.")
	case a.Type == MediaError && a.ErrorCode == "":
		return invalidMediaEvent("'errorCode' is required for error.")
	case a.Type == MediaPercentProgress && (a.Percent < 0 || a.Percent > 100):
		return invalidMediaEvent("'percent' must be between 0 and 100.")
	}
	return nil
}

// MediaPlayer is the media_player entity attached to every media event.
type MediaPlayer struct {
	CurrentTime      float64 `json:"currentTime"`
	Duration         float64 `json:"duration,omitempty"`
	Ended            bool    `json:"ended"`
	Fullscreen       bool    `json:"fullscreen"`
	Label            string  `json:"label,omitempty"`
	MediaType        string  `json:"mediaType,omitempty"`
	Muted            bool    `json:"muted"`
	Paused           bool    `json:"paused"`
	PictureInPicture bool    `json:"pictureInPicture"`
	PlaybackRate     float64 `json:"playbackRate"`
	PlayerType       string  `json:"playerType,omitempty"`
	Quality          string  `json:"quality,omitempty"`
	Volume           int     `json:"volume"`
}

// NewMediaPlayer returns a paused player at full volume described by meta.
func NewMediaPlayer(meta MediaMetadata) MediaPlayer {
	player := MediaPlayer{
		Label:        meta.Label,
		PlayerType:   meta.PlayerType,
		MediaType:    meta.MediaType,
		Paused:       true,
		PlaybackRate: 1,
		Volume:       100,
	}
	if player.Label == "" {
		player.Label = constants.DefaultMediaPlayerLabel
	}
	if player.PlayerType == "" {
		player.PlayerType = constants.DefaultMediaPlayerType
	}
	if player.MediaType == "" {
		player.MediaType = constants.DefaultMediaType
	}
	return player
}

// MediaAd is the ad entity attached while an ad plays.
type MediaAd struct {
	AdID      string  `json:"adId"`
	Duration  float64 `json:"duration,omitempty"`
	Skippable bool    `json:"skippable"`
}

// MediaAdBreak is the ad_break entity attached while an ad break is in progress.
type MediaAdBreak struct {
	BreakID   string  `json:"breakId"`
	BreakType string  `json:"breakType,omitempty"`
	StartTime float64 `json:"startTime"`
}

// EntityCarrier is implemented by events that bring their own context entities.
type EntityCarrier interface {
	Entities() []SelfDescribingJSON
}

// MediaEvent is a media event together with the media entities describing it.
type MediaEvent struct {
	Type    MediaEventType
	Data    map[string]interface{}
	Context []SelfDescribingJSON
}

func (e *MediaEvent) Apply(p Payload, encode bool) error {
	data := e.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	return applySelfDescribing(p, NewSelfDescribingJSON(e.Type.Schema(), data), encode)
}

func (e *MediaEvent) Entities() []SelfDescribingJSON {
	return e.Context
}

func invalidMediaEvent(description string) error {
	return errors2.NewClientError(errors2.WithDescription(errors2.INVALID_MEDIA_EVENT, description),
		http.StatusBadRequest)
}
