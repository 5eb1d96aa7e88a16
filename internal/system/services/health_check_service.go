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

package services

import (
	"net/http"

	"github.com/gem/snowplow-bridge/internal/health_check/handler"
	"github.com/gem/snowplow-bridge/internal/health_check/service"
)

// HealthService registers the health and readiness endpoints.
type HealthService struct {
	handler *handler.HealthHandler
}

// NewHealthService creates a new HealthService instance.
func NewHealthService(mux *http.ServeMux, bridge service.ReadinessChecker) *HealthService {
	instance := &HealthService{
		handler: handler.NewHealthHandler(service.NewHealthCheckService(bridge)),
	}
	mux.HandleFunc("GET /health", instance.handler.HandleHealth)
	mux.HandleFunc("GET /ready", instance.handler.HandleReadiness)
	return instance
}
