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

package tracking

import (
	"github.com/gem/snowplow-bridge/internal/bridge/model"
	trackerModel "github.com/gem/snowplow-bridge/internal/tracker/model"
)

// bridge_initialize
type InitializeInput struct {
	CollectorURL string  `json:"collector_url" jsonschema:"collector address, scheme optional"`
	AppID        string  `json:"app_id" jsonschema:"application identifier"`
	Method       *string `json:"method,omitempty" jsonschema:"get or post"`
	Base64       *bool   `json:"base64,omitempty" jsonschema:"base64url encode JSON parameters"`
	BufferSize   *int    `json:"buffer_size,omitempty" jsonschema:"events buffered before sending"`
}

type StatusOutput struct {
	Status model.Status `json:"status"`
}

// bridge_track_screen_view
type ScreenViewInput struct {
	Name string `json:"name" jsonschema:"screen name"`
	ID   string `json:"id,omitempty" jsonschema:"screen id, generated when empty"`
}

// bridge_track_structured_event
type StructuredEventInput struct {
	Category string   `json:"category"`
	Action   string   `json:"action"`
	Label    *string  `json:"label,omitempty"`
	Property *string  `json:"property,omitempty"`
	Value    *float64 `json:"value,omitempty"`
}

// bridge_track_self_describing_event
type SelfDescribingEventInput struct {
	Schema string                 `json:"schema" jsonschema:"iglu schema URI"`
	Data   map[string]interface{} `json:"data"`
}

// bridge_set_user_id
type UserIDInput struct {
	UserID string `json:"user_id" jsonschema:"empty clears the user id"`
}

// bridge_track_page_view
type PageViewInput struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// bridge_set_global_context
type GlobalContextInput struct {
	Schema string                 `json:"schema" jsonschema:"iglu schema URI of the entity"`
	Data   map[string]interface{} `json:"data"`
}

// bridge_start_media_session
type MediaSessionInput struct {
	ID         string `json:"id" jsonschema:"media id; events are tracked against it until it ends"`
	Label      string `json:"label,omitempty"`
	PlayerType string `json:"player_type,omitempty"`
	MediaType  string `json:"media_type,omitempty" jsonschema:"video or audio"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
}

// bridge_track_media_event
type MediaEventInput struct {
	Type             string   `json:"type" jsonschema:"media event type, e.g. play, pause, end, seek_start, quality_change, ad_start"`
	Bitrate          float64  `json:"bitrate,omitempty"`
	Height           int      `json:"height,omitempty"`
	Width            int      `json:"width,omitempty"`
	Label            string   `json:"label,omitempty"`
	Language         string   `json:"language,omitempty"`
	PreviousLabel    string   `json:"previous_label,omitempty"`
	PreviousLanguage string   `json:"previous_language,omitempty"`
	Enabled          *bool    `json:"enabled,omitempty"`
	ErrorCode        string   `json:"error_code,omitempty"`
	ErrorMessage     string   `json:"error_message,omitempty"`
	PlaybackRate     float64  `json:"playback_rate,omitempty"`
	Volume           float64  `json:"volume,omitempty" jsonschema:"0 to 1"`
	Fullscreen       bool     `json:"fullscreen,omitempty"`
	PictureInPicture bool     `json:"picture_in_picture,omitempty"`
	Percent          int      `json:"percent,omitempty"`
	AdID             string   `json:"ad_id,omitempty"`
	AdType           string   `json:"ad_type,omitempty"`
	AdDuration       float64  `json:"ad_duration,omitempty"`
	SkipOffset       *float64 `json:"skip_offset,omitempty"`
	BreakID          string   `json:"break_id,omitempty"`
	BreakType        string   `json:"break_type,omitempty"`
	BreakStartTime   float64  `json:"break_start_time,omitempty"`
}

func (in MediaEventInput) action() trackerModel.MediaAction {
	return trackerModel.MediaAction{
		Type:             trackerModel.MediaEventType(in.Type),
		Bitrate:          in.Bitrate,
		Height:           in.Height,
		Width:            in.Width,
		Label:            in.Label,
		Language:         in.Language,
		PreviousLabel:    in.PreviousLabel,
		PreviousLanguage: in.PreviousLanguage,
		Enabled:          in.Enabled,
		ErrorCode:        in.ErrorCode,
		ErrorMessage:     in.ErrorMessage,
		PlaybackRate:     in.PlaybackRate,
		Volume:           in.Volume,
		Fullscreen:       in.Fullscreen,
		PictureInPicture: in.PictureInPicture,
		Percent:          in.Percent,
		AdID:             in.AdID,
		AdType:           in.AdType,
		AdDuration:       in.AdDuration,
		SkipOffset:       in.SkipOffset,
		BreakID:          in.BreakID,
		BreakType:        in.BreakType,
		BreakStartTime:   in.BreakStartTime,
	}
}

// bridge_update_media_player
type PlayerStateInput struct {
	CurrentTime  float64 `json:"current_time"`
	Duration     float64 `json:"duration,omitempty"`
	Paused       bool    `json:"paused,omitempty"`
	Muted        bool    `json:"muted,omitempty"`
	Volume       float64 `json:"volume" jsonschema:"0 to 1"`
	PlaybackRate float64 `json:"playback_rate"`
}

type AcceptedOutput struct {
	Accepted    bool `json:"accepted"`
	Initialized bool `json:"initialized"`
}
