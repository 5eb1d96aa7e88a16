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

package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	errors2 "github.com/gem/snowplow-bridge/internal/system/errors"
)

// LoadEnvFiles loads every *.env file found in dir into the process environment.
// Variables already set are not overridden.
func LoadEnvFiles(dir string) ([]string, error) {
	envFiles, err := filepath.Glob(filepath.Join(dir, "*.env"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list env files")
	}
	if len(envFiles) == 0 {
		return nil, nil
	}
	if err := godotenv.Load(envFiles...); err != nil {
		return nil, errors.Wrapf(err, "failed to load env files from %s", dir)
	}
	return envFiles, nil
}

// LoadConfig reads the deployment file, expands ${VAR} references and applies defaults.
func LoadConfig(bridgeHome, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(bridgeHome, filePath))
	if err != nil {
		return nil, errors2.NewServerError(errors2.WithDescription(errors2.CONFIG_LOAD_ERROR,
			fmt.Sprintf("Failed to read config file %s.", filePath)), err)
	}
	return ParseConfig(file)
}

// ParseConfig parses a deployment document.
func ParseConfig(raw []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(raw))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors2.NewServerError(errors2.WithDescription(errors2.CONFIG_LOAD_ERROR,
			"Failed to parse the deployment configuration."), err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Addr.Port == 0 {
		cfg.Addr.Port = 8900
	}
	if cfg.Log.LogLevel == "" {
		cfg.Log.LogLevel = "INFO"
	}
	if cfg.Auth.Audience == "" {
		cfg.Auth.Audience = "snowplow-bridge"
	}
	if cfg.Emitter.Sink == "" {
		cfg.Emitter.Sink = "http"
	}
	if cfg.Emitter.QueueSize <= 0 {
		cfg.Emitter.QueueSize = 1000
	}
	if cfg.Emitter.RequestTimeout <= 0 {
		cfg.Emitter.RequestTimeout = 30
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "snowplow-events"
	}
	if cfg.MQTT.Topic == "" {
		cfg.MQTT.Topic = "snowplow/events"
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "snowplow-bridge"
	}
}

// OverrideBridgeRuntime replaces the runtime configuration. Used by tests.
func OverrideBridgeRuntime(conf Config) {
	mu.Lock()
	defer mu.Unlock()
	runtimeConfig = &BridgeRuntime{
		Config: conf,
	}
}
