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

// InitOptions is what the host passes to initialize. Optional fields are pointers
// so that absent and zero values can be told apart.
type InitOptions struct {
	CollectorURL string  `json:"collectorUrl"`
	AppID        string  `json:"appId"`
	Method       *string `json:"method,omitempty"`
	Base64       *bool   `json:"base64,omitempty"`
	BufferSize   *int    `json:"bufferSize,omitempty"`
	Namespace    string  `json:"namespace,omitempty"`
}

type ScreenViewRequest struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

type StructuredEventRequest struct {
	Category string   `json:"category"`
	Action   string   `json:"action"`
	Label    *string  `json:"label,omitempty"`
	Property *string  `json:"property,omitempty"`
	Value    *float64 `json:"value,omitempty"`
}

type SelfDescribingEventRequest struct {
	Schema string                 `json:"schema"`
	Data   map[string]interface{} `json:"data"`
}

type UserIDRequest struct {
	UserID *string `json:"userId"`
}

type PageViewRequest struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

type SiteSearchRequest struct {
	Terms        []string               `json:"terms"`
	Filters      map[string]interface{} `json:"filters,omitempty"`
	TotalResults *int                   `json:"totalResults,omitempty"`
}

type GlobalContextRequest struct {
	Schema string                 `json:"schema"`
	Data   map[string]interface{} `json:"data"`
}

// MediaSessionRequest starts tracking the media identified by ID.
type MediaSessionRequest struct {
	ID         string `json:"id"`
	Label      string `json:"label,omitempty"`
	PlayerType string `json:"playerType,omitempty"`
	MediaType  string `json:"mediaType,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
}

// Status describes the bridge state reported to the host.
type Status struct {
	Initialized  bool   `json:"initialized"`
	CollectorURL string `json:"collectorUrl,omitempty"`
	AppID        string `json:"appId,omitempty"`
	Namespace    string `json:"namespace,omitempty"`
	Method       string `json:"method,omitempty"`
	BufferOption string `json:"bufferOption,omitempty"`
	SessionID    string `json:"sessionId,omitempty"`

	MediaSessionID string `json:"mediaSessionId,omitempty"`
}
