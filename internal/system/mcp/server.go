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
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	bridgeService "github.com/gem/snowplow-bridge/internal/bridge/service"
	"github.com/gem/snowplow-bridge/internal/system/constants"
	trackingTools "github.com/gem/snowplow-bridge/internal/system/mcp/tools/tracking"
)

// server holds dependencies for MCP tool registration.
type server struct {
	bridge bridgeService.BridgeServiceInterface

	once sync.Once
	mcp  *mcpsdk.Server
}

func newServer(bridge bridgeService.BridgeServiceInterface) *server {
	return &server{bridge: bridge}
}

// getMCPServer builds (once) and returns the MCP server with the tracking tools registered.
func (s *server) getMCPServer() *mcpsdk.Server {
	s.once.Do(func() {
		s.mcp = NewMCPServer(s.bridge)
	})
	return s.mcp
}

// NewMCPServer creates an MCP server exposing the bridge operations as tools.
func NewMCPServer(bridge bridgeService.BridgeServiceInterface) *mcpsdk.Server {
	mcpServer := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "snowplow-bridge",
		Version: constants.TrackerVersion,
	}, nil)
	trackingTools.NewTools(bridge).RegisterTools(mcpServer)
	return mcpServer
}
