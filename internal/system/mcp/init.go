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

package mcp

import (
	"net/http"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	bridgeService "github.com/gem/snowplow-bridge/internal/bridge/service"
	"github.com/gem/snowplow-bridge/internal/system/constants"
)

// Initialize mounts the streamable MCP endpoint on mux.
func Initialize(mux *http.ServeMux, bridge bridgeService.BridgeServiceInterface) {
	mcpServer := newServer(bridge)

	httpHandler := mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
		return mcpServer.getMCPServer()
	}, nil)

	mux.Handle(constants.MCPEndpointPath, httpHandler)
	mux.Handle(constants.MCPEndpointPath+"/", httpHandler)
}
