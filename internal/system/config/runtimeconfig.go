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

import "sync"

// BridgeRuntime holds the runtime configuration for the bridge server.
type BridgeRuntime struct {
	BridgeHome string `yaml:"bridge_home"`
	Config     Config `yaml:"config"`
}

var (
	runtimeConfig *BridgeRuntime
	mu            sync.RWMutex
)

// InitializeBridgeRuntime initializes the BridgeRuntime configuration. Only the first call has effect.
func InitializeBridgeRuntime(bridgeHome string, config *Config) {

	mu.Lock()
	defer mu.Unlock()
	if runtimeConfig != nil {
		return
	}
	runtimeConfig = &BridgeRuntime{
		BridgeHome: bridgeHome,
		Config:     *config,
	}
}

// GetBridgeRuntime returns the BridgeRuntime configuration.
func GetBridgeRuntime() *BridgeRuntime {

	mu.RLock()
	defer mu.RUnlock()
	if runtimeConfig == nil {
		panic("BridgeRuntime is not initialized")
	}
	return runtimeConfig
}
