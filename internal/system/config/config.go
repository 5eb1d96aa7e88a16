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

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

type AuthConfig struct {
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	JWTSecret          string   `yaml:"jwt_secret"`
	Audience           string   `yaml:"audience"`
}

// TrackerConfig holds the values used to auto-initialize the bridge at startup.
// An empty CollectorURL leaves the bridge uninitialized until the host calls initialize.
type TrackerConfig struct {
	CollectorURL    string `yaml:"collector_url"`
	AppID           string `yaml:"app_id"`
	Namespace       string `yaml:"namespace"`
	Method          string `yaml:"method"`
	Base64          *bool  `yaml:"base64"`
	BufferSize      int    `yaml:"buffer_size"`
	Platform        string `yaml:"platform"`
	SessionTimeout  int    `yaml:"session_timeout_seconds"`
	StrictPayload   bool   `yaml:"strict_payload"`
	PlatformContext *bool  `yaml:"platform_context"`
	SessionContext  *bool  `yaml:"session_context"`
	LogLevel        string `yaml:"log_level"`
	ScreenWidth     int    `yaml:"screen_width"`
	ScreenHeight    int    `yaml:"screen_height"`
	Language        string `yaml:"language"`
	Timezone        string `yaml:"timezone"`
}

type EmitterConfig struct {
	Sink           string `yaml:"sink"`
	QueueSize      int    `yaml:"queue_size"`
	RequestTimeout int    `yaml:"request_timeout_seconds"`
}

type KafkaConfig struct {
	Brokers        []string `yaml:"brokers"`
	Topic          string   `yaml:"topic"`
	BatchTimeoutMs int      `yaml:"batch_timeout_ms"`
	Compression    string   `yaml:"compression"`
	RequiredAcks   string   `yaml:"required_acks"`
}

type MQTTConfig struct {
	BrokerURL string `yaml:"broker_url"`
	ClientID  string `yaml:"client_id"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	Topic     string `yaml:"topic"`
	QoS       byte   `yaml:"qos"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	Addr    AddrConfig    `yaml:"addr"`
	Log     LogConfig     `yaml:"log"`
	Auth    AuthConfig    `yaml:"auth"`
	Tracker TrackerConfig `yaml:"tracker"`
	Emitter EmitterConfig `yaml:"emitter"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	MCP     MCPConfig     `yaml:"mcp"`
}
