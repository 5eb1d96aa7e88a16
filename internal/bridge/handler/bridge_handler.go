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

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gem/snowplow-bridge/internal/bridge/model"
	"github.com/gem/snowplow-bridge/internal/bridge/service"
	"github.com/gem/snowplow-bridge/internal/system/errors"
	"github.com/gem/snowplow-bridge/internal/system/utils"
	trackerModel "github.com/gem/snowplow-bridge/internal/tracker/model"
)

type BridgeHandler struct {
	service service.BridgeServiceInterface
}

func NewBridgeHandler(bridgeService service.BridgeServiceInterface) *BridgeHandler {
	return &BridgeHandler{service: bridgeService}
}

// Initialize handles POST /initialize
func (h *BridgeHandler) Initialize(w http.ResponseWriter, r *http.Request) {

	var options map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&options); err != nil {
		utils.HandleError(w, utils.BadRequest(errors.INVALID_TRACKER_CONFIG, err, "tracker configuration"))
		return
	}
	if err := h.service.InitializeFromMap(options); err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.service.Status())
}

// GetStatus handles GET /status
func (h *BridgeHandler) GetStatus(w http.ResponseWriter, r *http.Request) {

	utils.WriteJSON(w, http.StatusOK, h.service.Status())
}

// TrackScreenView handles POST /track/screen-view
func (h *BridgeHandler) TrackScreenView(w http.ResponseWriter, r *http.Request) {

	var req model.ScreenViewRequest
	if !decodeEvent(w, r, &req, "screen view") {
		return
	}
	if req.Name == "" {
		invalidEvent(w, "Screen view requires a name.")
		return
	}
	if req.ID != "" {
		h.service.TrackScreenViewWithID(req.Name, req.ID)
	} else {
		h.service.TrackScreenView(req.Name)
	}
	w.WriteHeader(http.StatusAccepted)
}

// TrackStructuredEvent handles POST /track/structured
func (h *BridgeHandler) TrackStructuredEvent(w http.ResponseWriter, r *http.Request) {

	var req model.StructuredEventRequest
	if !decodeEvent(w, r, &req, "structured event") {
		return
	}
	if req.Category == "" || req.Action == "" {
		invalidEvent(w, "Structured event requires a category and an action.")
		return
	}
	h.service.TrackStructuredEvent(req.Category, req.Action, req.Label, req.Property, req.Value)
	w.WriteHeader(http.StatusAccepted)
}

// TrackSelfDescribingEvent handles POST /track/self-describing
func (h *BridgeHandler) TrackSelfDescribingEvent(w http.ResponseWriter, r *http.Request) {

	var req model.SelfDescribingEventRequest
	if !decodeEvent(w, r, &req, "self-describing event") {
		return
	}
	if req.Schema == "" {
		invalidEvent(w, "Self-describing event requires a schema.")
		return
	}
	h.service.TrackSelfDescribingEvent(req.Schema, req.Data)
	w.WriteHeader(http.StatusAccepted)
}

// TrackPageView handles POST /track/page-view
func (h *BridgeHandler) TrackPageView(w http.ResponseWriter, r *http.Request) {

	var req model.PageViewRequest
	if !decodeEvent(w, r, &req, "page view") {
		return
	}
	if req.URL == "" {
		invalidEvent(w, "Page view requires a url.")
		return
	}
	h.service.TrackPageView(req.URL, req.Title)
	w.WriteHeader(http.StatusAccepted)
}

// TrackSiteSearch handles POST /track/site-search
func (h *BridgeHandler) TrackSiteSearch(w http.ResponseWriter, r *http.Request) {

	var req model.SiteSearchRequest
	if !decodeEvent(w, r, &req, "site search") {
		return
	}
	if len(req.Terms) == 0 {
		invalidEvent(w, "Site search requires at least one term.")
		return
	}
	h.service.TrackSiteSearch(req.Terms, req.Filters, req.TotalResults)
	w.WriteHeader(http.StatusAccepted)
}

// SetUserID handles POST /user-id. A null userId clears the identifier.
func (h *BridgeHandler) SetUserID(w http.ResponseWriter, r *http.Request) {

	var req model.UserIDRequest
	if !decodeEvent(w, r, &req, "user id") {
		return
	}
	userID := ""
	if req.UserID != nil {
		userID = *req.UserID
	}
	h.service.SetUserID(userID)
	w.WriteHeader(http.StatusAccepted)
}

// StartNewSession handles POST /session/new
func (h *BridgeHandler) StartNewSession(w http.ResponseWriter, r *http.Request) {

	h.service.StartNewSession()
	w.WriteHeader(http.StatusAccepted)
}

// Flush handles POST /flush
func (h *BridgeHandler) Flush(w http.ResponseWriter, r *http.Request) {

	h.service.Flush()
	w.WriteHeader(http.StatusAccepted)
}

// SetGlobalContext handles POST /global-contexts
func (h *BridgeHandler) SetGlobalContext(w http.ResponseWriter, r *http.Request) {

	var req model.GlobalContextRequest
	if !decodeEvent(w, r, &req, "global context") {
		return
	}
	if req.Schema == "" {
		invalidEvent(w, "Global context requires a schema.")
		return
	}
	h.service.SetGlobalContext(req.Schema, req.Data)
	w.WriteHeader(http.StatusAccepted)
}

// ClearGlobalContexts handles DELETE /global-contexts
func (h *BridgeHandler) ClearGlobalContexts(w http.ResponseWriter, r *http.Request) {

	h.service.ClearGlobalContexts()
	w.WriteHeader(http.StatusAccepted)
}

// StartMediaSession handles POST /media/session
func (h *BridgeHandler) StartMediaSession(w http.ResponseWriter, r *http.Request) {

	var req model.MediaSessionRequest
	if !decodeEvent(w, r, &req, "media session") {
		return
	}
	if req.ID == "" {
		invalidEvent(w, "Media session requires an id.")
		return
	}
	h.service.StartMediaSession(req.ID, trackerModel.MediaMetadata{
		Label:      req.Label,
		PlayerType: req.PlayerType,
		MediaType:  req.MediaType,
		Width:      req.Width,
		Height:     req.Height,
	})
	w.WriteHeader(http.StatusAccepted)
}

// TrackMediaEvent handles POST /media/events
func (h *BridgeHandler) TrackMediaEvent(w http.ResponseWriter, r *http.Request) {

	var req trackerModel.MediaAction
	if !decodeEvent(w, r, &req, "media event") {
		return
	}
	if err := h.service.TrackMediaEvent(req); err != nil {
		utils.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// UpdateMediaPlayer handles PUT /media/player
func (h *BridgeHandler) UpdateMediaPlayer(w http.ResponseWriter, r *http.Request) {

	var req trackerModel.PlayerState
	if !decodeEvent(w, r, &req, "player state") {
		return
	}
	h.service.UpdateMediaPlayer(req)
	w.WriteHeader(http.StatusAccepted)
}

func decodeEvent(w http.ResponseWriter, r *http.Request, target interface{}, resourceName string) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		utils.HandleError(w, utils.BadRequest(errors.INVALID_REQUEST, err, resourceName))
		return false
	}
	return true
}

func invalidEvent(w http.ResponseWriter, description string) {
	utils.HandleError(w, errors.NewClientError(errors.WithDescription(errors.INVALID_EVENT, description),
		http.StatusBadRequest))
}
