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

package constants

type contextKey string

const ApiBasePath = "/api/v1/bridge"

const ConfigFile = "/repository/conf/deployment.yaml"

const ClaimsContextKey contextKey = "claims"

const TraceIDContextKey contextKey = "trace_id"

const TraceIDHeader = "X-Trace-Id"

const MCPEndpointPath = "/mcp"

// Tracker identity sent with every event.
const (
	TrackerVersion   = "go-bridge-1.0.0"
	DefaultNamespace = "sp"
	DefaultPlatform  = "mob"
)

// Collector endpoints relative to the collector URL.
const (
	GetPath  = "/i"
	PostPath = "/com.snowplowanalytics.snowplow/tp2"
)

// Iglu schemas used by the tracker protocol.
const (
	SchemaPayloadData   = "iglu:com.snowplowanalytics.snowplow/payload_data/jsonschema/1-0-4"
	SchemaUnstructEvent = "iglu:com.snowplowanalytics.snowplow/unstruct_event/jsonschema/1-0-0"
	SchemaContexts      = "iglu:com.snowplowanalytics.snowplow/contexts/jsonschema/1-0-1"
	SchemaScreenView    = "iglu:com.snowplowanalytics.mobile/screen_view/jsonschema/1-0-0"
	SchemaSiteSearch    = "iglu:com.snowplowanalytics.snowplow/site_search/jsonschema/1-0-0"
	SchemaClientSession = "iglu:com.snowplowanalytics.snowplow/client_session/jsonschema/1-0-2"
	SchemaMobileContext = "iglu:com.snowplowanalytics.snowplow/mobile_context/jsonschema/1-0-3"
)

// Media schemas. Media events use MediaEventSchemaPrefix + type + MediaEventSchemaSuffix.
const (
	MediaEventSchemaPrefix  = "iglu:com.snowplowanalytics.snowplow.media/"
	MediaEventSchemaSuffix  = "_event/jsonschema/1-0-0"
	SchemaMediaPlayer       = "iglu:com.snowplowanalytics.snowplow/media_player/jsonschema/2-0-0"
	SchemaMediaSession      = "iglu:com.snowplowanalytics.snowplow.media/session/jsonschema/1-0-0"
	SchemaMediaAd           = "iglu:com.snowplowanalytics.snowplow.media/ad/jsonschema/1-0-0"
	SchemaMediaAdBreak      = "iglu:com.snowplowanalytics.snowplow.media/ad_break/jsonschema/1-0-0"
	SchemaAudioTrackChange  = "iglu:com.sony.snowplow.media/audio_track_change/jsonschema/1-0-0"
	SchemaSubtitleChange    = "iglu:com.sony.snowplow.media/subtitle_change/jsonschema/1-0-0"
	DefaultMediaPlayerLabel = "player"
	DefaultMediaPlayerType  = "VIDEO"
	DefaultMediaType        = "video"
)

// Event type codes ("e" parameter).
const (
	EventPageView       = "pv"
	EventStructured     = "se"
	EventSelfDescribing = "ue"
)

// Tracker protocol parameter names.
const (
	ParamEvent          = "e"
	ParamEventID        = "eid"
	ParamDeviceTime     = "dtm"
	ParamSentTime       = "stm"
	ParamTrackerVersion = "tv"
	ParamNamespace      = "tna"
	ParamAppID          = "aid"
	ParamPlatform       = "p"
	ParamUserID         = "uid"
	ParamResolution     = "res"
	ParamLanguage       = "lang"
	ParamTimezone       = "tz"
	ParamPageURL        = "url"
	ParamPageTitle      = "page"
	ParamContexts       = "co"
	ParamContextsB64    = "cx"
	ParamUnstruct       = "ue_pr"
	ParamUnstructB64    = "ue_px"
	ParamSeCategory     = "se_ca"
	ParamSeAction       = "se_ac"
	ParamSeLabel        = "se_la"
	ParamSeProperty     = "se_pr"
	ParamSeValue        = "se_va"
)

// Sink names accepted in emitter configuration.
const (
	SinkHTTP    = "http"
	SinkKafka   = "kafka"
	SinkMQTT    = "mqtt"
	SinkConsole = "console"
)

const (
	DefaultQueueSize       = 1000
	DefaultSessionTimeout  = 1800
	DefaultRequestTimeout  = 30
	DefaultCloseTimeoutSec = 5
)
