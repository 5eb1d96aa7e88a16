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

package managers

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/gem/snowplow-bridge/internal/bridge/service"
	"github.com/gem/snowplow-bridge/internal/system/config"
	"github.com/gem/snowplow-bridge/internal/system/constants"
	sysContext "github.com/gem/snowplow-bridge/internal/system/context"
	"github.com/gem/snowplow-bridge/internal/system/log"
	"github.com/gem/snowplow-bridge/internal/system/mcp"
	"github.com/gem/snowplow-bridge/internal/system/security"
	"github.com/gem/snowplow-bridge/internal/system/services"
	"github.com/gem/snowplow-bridge/internal/system/utils"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
	Handler() http.Handler
}

type ServiceManager struct {
	mux    *http.ServeMux
	bridge service.BridgeServiceInterface
	config config.Config
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux, bridge service.BridgeServiceInterface,
	cfg config.Config) ServiceManagerInterface {

	return &ServiceManager{
		mux:    mux,
		bridge: bridge,
		config: cfg,
	}
}

func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	if sm.bridge == nil {
		return errors.New("bridge service is required")
	}

	// Bridge and MCP routes sit behind bearer authentication; health checks stay open.
	bridgeMux := http.NewServeMux()
	services.NewBridgeAPIService(bridgeMux, apiBasePath, sm.bridge)
	sm.mux.Handle(apiBasePath+"/", security.RequireAuthentication(sm.config.Auth, bridgeMux))

	if sm.config.MCP.Enabled {
		mcpMux := http.NewServeMux()
		mcp.Initialize(mcpMux, sm.bridge)
		protected := security.RequireAuthentication(sm.config.Auth, mcpMux)
		sm.mux.Handle(constants.MCPEndpointPath, protected)
		sm.mux.Handle(constants.MCPEndpointPath+"/", protected)
		log.GetLogger().Info("MCP endpoint enabled", log.String("path", constants.MCPEndpointPath))
	}

	services.NewHealthService(sm.mux, sm.bridge)
	return nil
}

// Handler returns the registered routes wrapped with tracing and CORS handling.
func (sm *ServiceManager) Handler() http.Handler {
	return sysContext.TraceMiddleware(utils.EnableCORS(sm.config.Auth.CORSAllowedOrigins, sm.mux))
}
