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
	"time"

	"github.com/gem/snowplow-bridge/internal/bridge/model"
	"github.com/gem/snowplow-bridge/internal/system/config"
	trackerModel "github.com/gem/snowplow-bridge/internal/tracker/model"
)

// DefaultsFromConfig overlays the tracker section of the deployment file on DefaultDefaults.
func DefaultsFromConfig(cfg config.TrackerConfig) Defaults {

	defaults := DefaultDefaults()
	if cfg.Namespace != "" {
		defaults.Namespace = cfg.Namespace
	}
	if cfg.Platform != "" {
		defaults.Platform = cfg.Platform
	}
	if cfg.SessionTimeout > 0 {
		defaults.SessionTimeout = time.Duration(cfg.SessionTimeout) * time.Second
	}
	if cfg.PlatformContext != nil {
		defaults.PlatformContext = *cfg.PlatformContext
	}
	if cfg.SessionContext != nil {
		defaults.SessionContext = *cfg.SessionContext
	}
	defaults.StrictPayload = cfg.StrictPayload
	if cfg.LogLevel != "" {
		defaults.LogLevel = trackerModel.ParseLogLevel(cfg.LogLevel)
	}
	defaults.Subject = trackerModel.SubjectDefaults{
		ScreenWidth:  cfg.ScreenWidth,
		ScreenHeight: cfg.ScreenHeight,
		Language:     cfg.Language,
		Timezone:     cfg.Timezone,
	}
	return defaults
}

// InitOptionsFromConfig returns the options for initializing at startup.
// The second value is false when no collector is configured.
func InitOptionsFromConfig(cfg config.TrackerConfig) (model.InitOptions, bool) {

	if cfg.CollectorURL == "" {
		return model.InitOptions{}, false
	}
	opts := model.InitOptions{
		CollectorURL: cfg.CollectorURL,
		AppID:        cfg.AppID,
		Namespace:    cfg.Namespace,
		Base64:       cfg.Base64,
	}
	if cfg.Method != "" {
		method := cfg.Method
		opts.Method = &method
	}
	if cfg.BufferSize != 0 {
		bufferSize := cfg.BufferSize
		opts.BufferSize = &bufferSize
	}
	return opts, true
}
