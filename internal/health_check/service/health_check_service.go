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
	"github.com/pkg/errors"

	"github.com/gem/snowplow-bridge/internal/system/log"
)

// ReadinessChecker reports whether the bridge holds a tracker.
type ReadinessChecker interface {
	IsInitialized() bool
}

// HealthCheckServiceInterface defines the service interface.
type HealthCheckServiceInterface interface {
	CheckReadiness() error
}

// HealthCheckService is the default implementation.
type HealthCheckService struct {
	bridge ReadinessChecker
}

// NewHealthCheckService returns a new instance.
func NewHealthCheckService(bridge ReadinessChecker) HealthCheckServiceInterface {
	return &HealthCheckService{bridge: bridge}
}

// CheckReadiness fails until a tracker has been initialized.
func (h *HealthCheckService) CheckReadiness() error {
	logger := log.GetLogger()
	if logger == nil {
		return errors.New("logger not initialized")
	}
	if h.bridge == nil || !h.bridge.IsInitialized() {
		return errors.New("tracker not initialized")
	}
	return nil
}
