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
	"fmt"
	"net/http"

	"github.com/gem/snowplow-bridge/internal/bridge/handler"
	"github.com/gem/snowplow-bridge/internal/bridge/service"
)

type BridgeAPIService struct {
	handler *handler.BridgeHandler
}

func NewBridgeAPIService(mux *http.ServeMux, apiBasePath string, bridgeService service.BridgeServiceInterface) *BridgeAPIService {
	instance := &BridgeAPIService{
		handler: handler.NewBridgeHandler(bridgeService),
	}
	instance.RegisterRoutes(mux, apiBasePath)
	return instance
}

func (s *BridgeAPIService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {
	mux.HandleFunc(fmt.Sprintf("POST %s/initialize", apiBasePath), s.handler.Initialize)
	mux.HandleFunc(fmt.Sprintf("GET %s/status", apiBasePath), s.handler.GetStatus)
	mux.HandleFunc(fmt.Sprintf("POST %s/track/screen-view", apiBasePath), s.handler.TrackScreenView)
	mux.HandleFunc(fmt.Sprintf("POST %s/track/structured", apiBasePath), s.handler.TrackStructuredEvent)
	mux.HandleFunc(fmt.Sprintf("POST %s/track/self-describing", apiBasePath), s.handler.TrackSelfDescribingEvent)
	mux.HandleFunc(fmt.Sprintf("POST %s/track/page-view", apiBasePath), s.handler.TrackPageView)
	mux.HandleFunc(fmt.Sprintf("POST %s/track/site-search", apiBasePath), s.handler.TrackSiteSearch)
	mux.HandleFunc(fmt.Sprintf("POST %s/user-id", apiBasePath), s.handler.SetUserID)
	mux.HandleFunc(fmt.Sprintf("POST %s/session/new", apiBasePath), s.handler.StartNewSession)
	mux.HandleFunc(fmt.Sprintf("POST %s/flush", apiBasePath), s.handler.Flush)
	mux.HandleFunc(fmt.Sprintf("POST %s/global-contexts", apiBasePath), s.handler.SetGlobalContext)
	mux.HandleFunc(fmt.Sprintf("DELETE %s/global-contexts", apiBasePath), s.handler.ClearGlobalContexts)
	mux.HandleFunc(fmt.Sprintf("POST %s/media/session", apiBasePath), s.handler.StartMediaSession)
	mux.HandleFunc(fmt.Sprintf("POST %s/media/events", apiBasePath), s.handler.TrackMediaEvent)
	mux.HandleFunc(fmt.Sprintf("PUT %s/media/player", apiBasePath), s.handler.UpdateMediaPlayer)
}
