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

package tracking

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gem/snowplow-bridge/internal/bridge/model"
	"github.com/gem/snowplow-bridge/internal/bridge/service"
	trackerModel "github.com/gem/snowplow-bridge/internal/tracker/model"
)

type Tools struct {
	bridge service.BridgeServiceInterface
}

func NewTools(bridge service.BridgeServiceInterface) *Tools {
	return &Tools{bridge: bridge}
}

func (t *Tools) RegisterTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "bridge_initialize",
		Description: "Create the tracker, replacing any existing one.",
		Annotations: &mcp.ToolAnnotations{Title: "Initialize Tracker"},
	}, t.initialize)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bridge_status",
		Description: "Report whether a tracker is initialized and how it is configured.",
		Annotations: &mcp.ToolAnnotations{Title: "Tracker Status", ReadOnlyHint: true},
	}, t.status)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bridge_track_screen_view",
		Description: "Track a screen view.",
		Annotations: &mcp.ToolAnnotations{Title: "Track Screen View"},
	}, t.trackScreenView)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bridge_track_structured_event",
		Description: "Track a category/action event with optional label, property and value.",
		Annotations: &mcp.ToolAnnotations{Title: "Track Structured Event"},
	}, t.trackStructuredEvent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bridge_track_self_describing_event",
		Description: "Track an event described by an iglu schema.",
		Annotations: &mcp.ToolAnnotations{Title: "Track Self-Describing Event"},
	}, t.trackSelfDescribingEvent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bridge_set_user_id",
		Description: "Set the user id attached to subsequent events.",
		Annotations: &mcp.ToolAnnotations{Title: "Set User ID", IdempotentHint: true},
	}, t.setUserID)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bridge_flush",
		Description: "Send buffered events now.",
		Annotations: &mcp.ToolAnnotations{Title: "Flush", IdempotentHint: true},
	}, t.flush)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bridge_start_new_session",
		Description: "End the current client session and start a new one.",
		Annotations: &mcp.ToolAnnotations{Title: "Start New Session"},
	}, t.startNewSession)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bridge_track_page_view",
		Description: "Track a page view.",
		Annotations: &mcp.ToolAnnotations{Title: "Track Page View"},
	}, t.trackPageView)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bridge_set_global_context",
		Description: "Attach an entity to every subsequent event.",
		Annotations: &mcp.ToolAnnotations{Title: "Set Global Context"},
	}, t.setGlobalContext)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bridge_clear_global_contexts",
		Description: "Remove all global context entities.",
		Annotations: &mcp.ToolAnnotations{Title: "Clear Global Contexts", IdempotentHint: true},
	}, t.clearGlobalContexts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bridge_start_media_session",
		Description: "Start tracking a media item. Replaces the media currently tracked.",
		Annotations: &mcp.ToolAnnotations{Title: "Start Media Session"},
	}, t.startMediaSession)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bridge_track_media_event",
		Description: "Track a media event for the current media. Ignored when no media session is active.",
		Annotations: &mcp.ToolAnnotations{Title: "Track Media Event"},
	}, t.trackMediaEvent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bridge_update_media_player",
		Description: "Record the player position and settings without tracking an event.",
		Annotations: &mcp.ToolAnnotations{Title: "Update Media Player", IdempotentHint: true},
	}, t.updateMediaPlayer)
}

func (t *Tools) initialize(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input InitializeInput,
) (*mcp.CallToolResult, StatusOutput, error) {

	if strings.TrimSpace(input.CollectorURL) == "" || strings.TrimSpace(input.AppID) == "" {
		return nil, StatusOutput{}, fmt.Errorf("collector_url and app_id are required")
	}
	err := t.bridge.Initialize(model.InitOptions{
		CollectorURL: input.CollectorURL,
		AppID:        input.AppID,
		Method:       input.Method,
		Base64:       input.Base64,
		BufferSize:   input.BufferSize,
	})
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("failed to initialize tracker: %w", err)
	}
	return nil, StatusOutput{Status: t.bridge.Status()}, nil
}

func (t *Tools) status(
	ctx context.Context,
	req *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, StatusOutput, error) {

	return nil, StatusOutput{Status: t.bridge.Status()}, nil
}

func (t *Tools) trackScreenView(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ScreenViewInput,
) (*mcp.CallToolResult, AcceptedOutput, error) {

	if strings.TrimSpace(input.Name) == "" {
		return nil, AcceptedOutput{}, fmt.Errorf("name is required")
	}
	if input.ID != "" {
		t.bridge.TrackScreenViewWithID(input.Name, input.ID)
	} else {
		t.bridge.TrackScreenView(input.Name)
	}
	return nil, t.accepted(), nil
}

func (t *Tools) trackStructuredEvent(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input StructuredEventInput,
) (*mcp.CallToolResult, AcceptedOutput, error) {

	if input.Category == "" || input.Action == "" {
		return nil, AcceptedOutput{}, fmt.Errorf("category and action are required")
	}
	t.bridge.TrackStructuredEvent(input.Category, input.Action, input.Label, input.Property, input.Value)
	return nil, t.accepted(), nil
}

func (t *Tools) trackSelfDescribingEvent(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SelfDescribingEventInput,
) (*mcp.CallToolResult, AcceptedOutput, error) {

	if strings.TrimSpace(input.Schema) == "" {
		return nil, AcceptedOutput{}, fmt.Errorf("schema is required")
	}
	t.bridge.TrackSelfDescribingEvent(input.Schema, input.Data)
	return nil, t.accepted(), nil
}

func (t *Tools) setUserID(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input UserIDInput,
) (*mcp.CallToolResult, AcceptedOutput, error) {

	t.bridge.SetUserID(input.UserID)
	return nil, t.accepted(), nil
}

func (t *Tools) flush(
	ctx context.Context,
	req *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, AcceptedOutput, error) {

	t.bridge.Flush()
	return nil, t.accepted(), nil
}

func (t *Tools) startNewSession(
	ctx context.Context,
	req *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, AcceptedOutput, error) {

	t.bridge.StartNewSession()
	return nil, t.accepted(), nil
}

func (t *Tools) trackPageView(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input PageViewInput,
) (*mcp.CallToolResult, AcceptedOutput, error) {

	if strings.TrimSpace(input.URL) == "" {
		return nil, AcceptedOutput{}, fmt.Errorf("url is required")
	}
	t.bridge.TrackPageView(input.URL, input.Title)
	return nil, t.accepted(), nil
}

func (t *Tools) setGlobalContext(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input GlobalContextInput,
) (*mcp.CallToolResult, AcceptedOutput, error) {

	if strings.TrimSpace(input.Schema) == "" {
		return nil, AcceptedOutput{}, fmt.Errorf("schema is required")
	}
	t.bridge.SetGlobalContext(input.Schema, input.Data)
	return nil, t.accepted(), nil
}

func (t *Tools) clearGlobalContexts(
	ctx context.Context,
	req *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, AcceptedOutput, error) {

	t.bridge.ClearGlobalContexts()
	return nil, t.accepted(), nil
}

func (t *Tools) startMediaSession(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input MediaSessionInput,
) (*mcp.CallToolResult, AcceptedOutput, error) {

	if strings.TrimSpace(input.ID) == "" {
		return nil, AcceptedOutput{}, fmt.Errorf("id is required")
	}
	t.bridge.StartMediaSession(input.ID, trackerModel.MediaMetadata{
		Label:      input.Label,
		PlayerType: input.PlayerType,
		MediaType:  input.MediaType,
		Width:      input.Width,
		Height:     input.Height,
	})
	return nil, t.accepted(), nil
}

func (t *Tools) trackMediaEvent(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input MediaEventInput,
) (*mcp.CallToolResult, AcceptedOutput, error) {

	if err := t.bridge.TrackMediaEvent(input.action()); err != nil {
		return nil, AcceptedOutput{}, fmt.Errorf("invalid media event: %w", err)
	}
	return nil, t.accepted(), nil
}

func (t *Tools) updateMediaPlayer(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input PlayerStateInput,
) (*mcp.CallToolResult, AcceptedOutput, error) {

	t.bridge.UpdateMediaPlayer(trackerModel.PlayerState{
		CurrentTime:  input.CurrentTime,
		Duration:     input.Duration,
		Paused:       input.Paused,
		Muted:        input.Muted,
		Volume:       input.Volume,
		PlaybackRate: input.PlaybackRate,
	})
	return nil, t.accepted(), nil
}

// accepted mirrors the fire-and-forget HTTP routes: calls before initialization are dropped.
func (t *Tools) accepted() AcceptedOutput {
	return AcceptedOutput{Accepted: true, Initialized: t.bridge.IsInitialized()}
}
