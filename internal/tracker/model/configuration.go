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
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/gem/snowplow-bridge/internal/system/constants"
	errors2 "github.com/gem/snowplow-bridge/internal/system/errors"
)

// HttpMethod is the method the emitter uses to reach the collector.
type HttpMethod string

const (
	MethodGet  HttpMethod = http.MethodGet
	MethodPost HttpMethod = http.MethodPost
)

// ParseHttpMethod maps "get" (any case) to GET. Everything else, including the empty string, is POST.
func ParseHttpMethod(method string) HttpMethod {
	if strings.EqualFold(strings.TrimSpace(method), "get") {
		return MethodGet
	}
	return MethodPost
}

// BufferOption is the number of events the emitter collects before a delivery attempt.
type BufferOption int

const (
	Single     BufferOption = 1
	SmallGroup BufferOption = 10
	LargeGroup BufferOption = 25
)

func (b BufferOption) String() string {
	switch b {
	case Single:
		return "Single"
	case SmallGroup:
		return "SmallGroup"
	case LargeGroup:
		return "LargeGroup"
	default:
		return fmt.Sprintf("BufferOption(%d)", int(b))
	}
}

// BufferOptionFor selects SmallGroup for sizes above one and Single otherwise.
func BufferOptionFor(bufferSize int) BufferOption {
	if bufferSize > 1 {
		return SmallGroup
	}
	return Single
}

// LogLevel controls how chatty a tracker is.
type LogLevel string

const (
	LogLevelOff     LogLevel = "OFF"
	LogLevelError   LogLevel = "ERROR"
	LogLevelDebug   LogLevel = "DEBUG"
	LogLevelVerbose LogLevel = "VERBOSE"
)

// ParseLogLevel maps a configured name to a LogLevel. Unknown names give LogLevelVerbose.
func ParseLogLevel(name string) LogLevel {
	switch LogLevel(strings.ToUpper(strings.TrimSpace(name))) {
	case LogLevelOff:
		return LogLevelOff
	case LogLevelError:
		return LogLevelError
	case LogLevelDebug:
		return LogLevelDebug
	default:
		return LogLevelVerbose
	}
}

// SubjectDefaults are the device fields a new tracker's subject starts with.
type SubjectDefaults struct {
	ScreenWidth  int
	ScreenHeight int
	Language     string
	Timezone     string
}

// PlatformInfo is reported in the mobile context entity.
type PlatformInfo struct {
	OSType             string
	OSVersion          string
	DeviceManufacturer string
	DeviceModel        string
}

// DefaultPlatformInfo describes the host the bridge runs on.
func DefaultPlatformInfo() PlatformInfo {
	return PlatformInfo{
		OSType:             runtime.GOOS,
		OSVersion:          "unknown",
		DeviceManufacturer: "unknown",
		DeviceModel:        runtime.GOARCH,
	}
}

// Configuration is the full set of settings a tracker is created with.
type Configuration struct {
	Namespace       string
	CollectorURL    string
	AppID           string
	Method          HttpMethod
	Base64          bool
	BufferOption    BufferOption
	PlatformContext bool
	SessionContext  bool
	LogLevel        LogLevel
	Platform        string
	SessionTimeout  time.Duration
	PlatformInfo    PlatformInfo
	Subject         SubjectDefaults
}

// NewConfiguration returns a configuration with the tracker defaults applied.
func NewConfiguration(collectorURL, appID string) Configuration {
	return Configuration{
		Namespace:       constants.DefaultNamespace,
		CollectorURL:    collectorURL,
		AppID:           appID,
		Method:          MethodPost,
		Base64:          true,
		BufferOption:    Single,
		PlatformContext: true,
		SessionContext:  true,
		LogLevel:        LogLevelVerbose,
		Platform:        constants.DefaultPlatform,
		SessionTimeout:  constants.DefaultSessionTimeout * time.Second,
		PlatformInfo:    DefaultPlatformInfo(),
	}
}

// Validate reports the first missing or malformed required setting.
func (c Configuration) Validate() error {
	if strings.TrimSpace(c.CollectorURL) == "" {
		return invalidConfig("Collector URL is required.")
	}
	if strings.TrimSpace(c.AppID) == "" {
		return invalidConfig("App id is required.")
	}
	if _, err := url.Parse(CollectorEndpoint(c.CollectorURL)); err != nil {
		return invalidConfig(fmt.Sprintf("Collector URL '%s' is not a valid URL.", c.CollectorURL))
	}
	if c.Method != MethodGet && c.Method != MethodPost {
		return invalidConfig(fmt.Sprintf("'%s' is not a supported HTTP method.", c.Method))
	}
	if c.BufferOption < Single {
		return invalidConfig("Buffer option must be at least one event.")
	}
	return nil
}

// CollectorEndpoint normalises a collector address. A missing scheme defaults to https.
func CollectorEndpoint(collectorURL string) string {
	endpoint := strings.TrimRight(strings.TrimSpace(collectorURL), "/")
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	return endpoint
}

func invalidConfig(description string) error {
	return errors2.NewClientError(errors2.WithDescription(errors2.INVALID_TRACKER_CONFIG, description),
		http.StatusBadRequest)
}
