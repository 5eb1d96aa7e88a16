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
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gem/snowplow-bridge/internal/bridge/model"
	"github.com/gem/snowplow-bridge/internal/payload"
	"github.com/gem/snowplow-bridge/internal/system/constants"
	errors2 "github.com/gem/snowplow-bridge/internal/system/errors"
	"github.com/gem/snowplow-bridge/internal/system/log"
	trackerModel "github.com/gem/snowplow-bridge/internal/tracker/model"
	"github.com/gem/snowplow-bridge/internal/tracker/provider"
	trackerService "github.com/gem/snowplow-bridge/internal/tracker/service"
)

// BridgeServiceInterface is the surface the host application layer calls.
// Every tracking call is a no-op until Initialize has succeeded.
type BridgeServiceInterface interface {
	Initialize(opts model.InitOptions) error
	InitializeFromMap(config map[string]interface{}) error
	IsInitialized() bool
	Status() model.Status
	TrackScreenView(name string)
	TrackScreenViewWithID(name, id string)
	TrackStructuredEvent(category, action string, label, property *string, value *float64)
	TrackSelfDescribingEvent(schema string, data map[string]interface{})
	TrackPageView(url, title string)
	TrackSiteSearch(terms []string, filters map[string]interface{}, totalResults *int)
	SetUserID(userID string)
	StartNewSession()
	SetGlobalContext(schema string, data map[string]interface{})
	ClearGlobalContexts()
	Flush()
	StartMediaSession(id string, metadata trackerModel.MediaMetadata)
	TrackMediaEvent(action trackerModel.MediaAction) error
	UpdateMediaPlayer(state trackerModel.PlayerState)
	Close(ctx context.Context) error
}

// Defaults applied to every tracker the bridge creates, on top of what the host passes.
type Defaults struct {
	Namespace       string
	Platform        string
	SessionTimeout  time.Duration
	PlatformContext bool
	SessionContext  bool
	StrictPayload   bool
	LogLevel        trackerModel.LogLevel
	Subject         trackerModel.SubjectDefaults
}

// DefaultDefaults matches the behaviour of the mobile tracker bridge.
func DefaultDefaults() Defaults {
	return Defaults{
		Namespace:       constants.DefaultNamespace,
		Platform:        constants.DefaultPlatform,
		SessionTimeout:  constants.DefaultSessionTimeout * time.Second,
		PlatformContext: true,
		SessionContext:  true,
		LogLevel:        trackerModel.LogLevelVerbose,
	}
}

// BridgeService owns the tracker handle. The handle is replaced on every Initialize.
type BridgeService struct {
	provider     provider.TrackerProviderInterface
	defaults     Defaults
	closeTimeout time.Duration
	logger       *log.Logger

	mu      sync.RWMutex
	tracker *trackerService.Tracker
}

// NewBridgeService creates an uninitialized bridge.
func NewBridgeService(trackerProvider provider.TrackerProviderInterface, defaults Defaults) *BridgeService {

	return &BridgeService{
		provider:     trackerProvider,
		defaults:     defaults,
		closeTimeout: constants.DefaultCloseTimeoutSec * time.Second,
		logger:       log.GetLogger(),
	}
}

// Initialize creates a tracker from opts and makes it the current handle.
// The replaced tracker is flushed and closed in the background.
func (bs *BridgeService) Initialize(opts model.InitOptions) error {

	cfg := bs.configuration(opts)
	tracker, err := bs.provider.CreateTracker(cfg)
	if err != nil {
		bs.logger.Debug("Failed to create tracker", log.Error(err))
		return err
	}

	bs.mu.Lock()
	previous := bs.tracker
	bs.tracker = tracker
	bs.mu.Unlock()

	action := log.ActionInitializeTracker
	if previous != nil {
		action = log.ActionReinitializeTracker
		go bs.retire(previous)
	}
	bs.logger.Audit(log.AuditEvent{
		InitiatorType: log.InitiatorTypeHost,
		TargetID:      cfg.Namespace,
		TargetType:    log.TargetTypeTracker,
		ActionID:      action,
		Data: map[string]interface{}{
			"collector_url": cfg.CollectorURL,
			"app_id":        cfg.AppID,
			"method":        cfg.Method,
			"buffer_option": cfg.BufferOption.String(),
		},
	})
	return nil
}

// InitializeFromMap reads collectorUrl, appId, method, base64 and bufferSize from a dynamic map.
func (bs *BridgeService) InitializeFromMap(config map[string]interface{}) error {

	opts, err := parseInitOptions(config)
	if err != nil {
		return err
	}
	return bs.Initialize(opts)
}

func (bs *BridgeService) IsInitialized() bool {

	return bs.current() != nil
}

// Status reports whether a tracker exists and how it is configured.
func (bs *BridgeService) Status() model.Status {

	tracker := bs.current()
	if tracker == nil {
		return model.Status{}
	}
	cfg := tracker.Config()
	return model.Status{
		Initialized:    true,
		CollectorURL:   cfg.CollectorURL,
		AppID:          cfg.AppID,
		Namespace:      cfg.Namespace,
		Method:         string(cfg.Method),
		BufferOption:   cfg.BufferOption.String(),
		SessionID:      tracker.Session().ID(),
		MediaSessionID: tracker.MediaSessionID(),
	}
}

func (bs *BridgeService) TrackScreenView(name string) {

	bs.TrackScreenViewWithID(name, "")
}

// TrackScreenViewWithID tracks a screen view under a caller chosen screen id.
// An empty id gets a generated one.
func (bs *BridgeService) TrackScreenViewWithID(name, id string) {

	bs.withTracker(func(t *trackerService.Tracker) {
		t.Track(&trackerModel.ScreenView{Name: name, ID: id})
	})
}

// TrackStructuredEvent attaches label, property and value only when they are non-nil.
func (bs *BridgeService) TrackStructuredEvent(category, action string, label, property *string, value *float64) {

	bs.withTracker(func(t *trackerService.Tracker) {
		event := trackerModel.NewStructured(category, action)
		event.Label = label
		event.Property = property
		event.Value = value
		t.Track(event)
	})
}

// TrackSelfDescribingEvent converts data with the payload adapter and tracks it under schema.
func (bs *BridgeService) TrackSelfDescribingEvent(schema string, data map[string]interface{}) {

	bs.withTracker(func(t *trackerService.Tracker) {
		converted, ok := bs.convert(schema, data)
		if !ok {
			return
		}
		t.Track(trackerModel.NewSelfDescribing(schema, converted))
	})
}

func (bs *BridgeService) TrackPageView(url, title string) {

	bs.withTracker(func(t *trackerService.Tracker) {
		t.Track(&trackerModel.PageView{URL: url, Title: title})
	})
}

func (bs *BridgeService) TrackSiteSearch(terms []string, filters map[string]interface{}, totalResults *int) {

	bs.withTracker(func(t *trackerService.Tracker) {
		event := &trackerModel.SiteSearch{Terms: terms, TotalResults: totalResults}
		if filters != nil {
			event.Filters = payload.Convert(filters)
		}
		t.Track(event)
	})
}

func (bs *BridgeService) SetUserID(userID string) {

	bs.withTracker(func(t *trackerService.Tracker) {
		t.Subject().SetUserID(userID)
		bs.logger.Audit(log.AuditEvent{
			InitiatorType: log.InitiatorTypeHost,
			TargetID:      userID,
			TargetType:    log.TargetTypeSubject,
			ActionID:      log.ActionSetUserID,
		})
	})
}

func (bs *BridgeService) StartNewSession() {

	bs.withTracker(func(t *trackerService.Tracker) {
		t.Session().StartNewSession()
		bs.logger.Audit(log.AuditEvent{
			InitiatorType: log.InitiatorTypeHost,
			TargetID:      t.Session().ID(),
			TargetType:    log.TargetTypeSession,
			ActionID:      log.ActionStartNewSession,
		})
	})
}

// SetGlobalContext attaches an entity to every subsequent event.
func (bs *BridgeService) SetGlobalContext(schema string, data map[string]interface{}) {

	bs.withTracker(func(t *trackerService.Tracker) {
		converted, ok := bs.convert(schema, data)
		if !ok {
			return
		}
		t.AddGlobalContext(trackerModel.NewSelfDescribingJSON(schema, converted))
	})
}

func (bs *BridgeService) ClearGlobalContexts() {

	bs.withTracker(func(t *trackerService.Tracker) {
		t.ClearGlobalContexts()
	})
}

// Flush sends buffered events of the current tracker and waits for the attempt.
func (bs *BridgeService) Flush() {

	bs.withTracker(func(t *trackerService.Tracker) {
		ctx, cancel := context.WithTimeout(context.Background(), bs.closeTimeout)
		defer cancel()
		if err := t.Flush(ctx); err != nil {
			bs.logger.Warn("Flush did not complete", log.Error(err))
		}
	})
}

// StartMediaSession makes id the current media of the tracker, replacing any media in progress.
func (bs *BridgeService) StartMediaSession(id string, metadata trackerModel.MediaMetadata) {

	bs.withTracker(func(t *trackerService.Tracker) {
		t.StartMediaSession(id, metadata)
		bs.logger.Audit(log.AuditEvent{
			InitiatorType: log.InitiatorTypeHost,
			TargetID:      id,
			TargetType:    log.TargetTypeMedia,
			ActionID:      log.ActionStartMediaSession,
		})
	})
}

// TrackMediaEvent tracks action against the current media. It is a no-op without
// a tracker or a media session; only a malformed action is an error.
func (bs *BridgeService) TrackMediaEvent(action trackerModel.MediaAction) error {

	if err := action.Validate(); err != nil {
		return err
	}
	var err error
	bs.withTracker(func(t *trackerService.Tracker) {
		_, err = t.TrackMediaEvent(action)
	})
	return err
}

func (bs *BridgeService) UpdateMediaPlayer(state trackerModel.PlayerState) {

	bs.withTracker(func(t *trackerService.Tracker) {
		t.UpdatePlayerState(state)
	})
}

// Close flushes and stops the current tracker. The bridge is uninitialized afterwards.
func (bs *BridgeService) Close(ctx context.Context) error {

	bs.mu.Lock()
	tracker := bs.tracker
	bs.tracker = nil
	bs.mu.Unlock()

	if tracker == nil {
		return nil
	}
	bs.logger.Audit(log.AuditEvent{
		InitiatorType: log.InitiatorTypeSystem,
		TargetID:      tracker.Config().Namespace,
		TargetType:    log.TargetTypeTracker,
		ActionID:      log.ActionCloseTracker,
	})
	return tracker.Close(ctx)
}

func (bs *BridgeService) current() *trackerService.Tracker {

	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.tracker
}

// withTracker runs fn against the current tracker while holding the read lock,
// so a concurrent Initialize cannot retire the tracker mid-call.
func (bs *BridgeService) withTracker(fn func(t *trackerService.Tracker)) {

	bs.mu.RLock()
	defer bs.mu.RUnlock()
	if bs.tracker == nil {
		return
	}
	fn(bs.tracker)
}

func (bs *BridgeService) convert(schema string, data map[string]interface{}) (map[string]interface{}, bool) {

	if !bs.defaults.StrictPayload {
		return payload.Convert(data), true
	}
	converted, err := payload.ConvertStrict(data)
	if err != nil {
		bs.logger.Warn(fmt.Sprintf("Dropping event for schema %s", schema), log.Error(err))
		return nil, false
	}
	return converted, true
}

func (bs *BridgeService) retire(tracker *trackerService.Tracker) {

	ctx, cancel := context.WithTimeout(context.Background(), bs.closeTimeout)
	defer cancel()
	if err := tracker.Close(ctx); err != nil {
		bs.logger.Warn("Replaced tracker did not close cleanly", log.Error(err))
	}
}

func (bs *BridgeService) configuration(opts model.InitOptions) trackerModel.Configuration {

	cfg := trackerModel.NewConfiguration(opts.CollectorURL, opts.AppID)
	cfg.Namespace = bs.defaults.Namespace
	if opts.Namespace != "" {
		cfg.Namespace = opts.Namespace
	}
	if bs.defaults.Platform != "" {
		cfg.Platform = bs.defaults.Platform
	}
	if bs.defaults.SessionTimeout > 0 {
		cfg.SessionTimeout = bs.defaults.SessionTimeout
	}
	cfg.PlatformContext = bs.defaults.PlatformContext
	cfg.SessionContext = bs.defaults.SessionContext
	cfg.LogLevel = trackerModel.LogLevelVerbose
	if bs.defaults.LogLevel != "" {
		cfg.LogLevel = bs.defaults.LogLevel
	}
	cfg.Subject = bs.defaults.Subject

	if opts.Method != nil {
		cfg.Method = trackerModel.ParseHttpMethod(*opts.Method)
	}
	if opts.Base64 != nil {
		cfg.Base64 = *opts.Base64
	}
	bufferSize := 1
	if opts.BufferSize != nil {
		bufferSize = *opts.BufferSize
	}
	cfg.BufferOption = trackerModel.BufferOptionFor(bufferSize)
	return cfg
}

func parseInitOptions(config map[string]interface{}) (model.InitOptions, error) {

	var opts model.InitOptions
	if config == nil {
		return opts, invalidOption("Configuration is required.")
	}

	collectorURL, err := requiredString(config, "collectorUrl")
	if err != nil {
		return opts, err
	}
	appID, err := requiredString(config, "appId")
	if err != nil {
		return opts, err
	}
	opts.CollectorURL = collectorURL
	opts.AppID = appID

	if raw, ok := config["method"]; ok && raw != nil {
		v := payload.Of(raw)
		if v.Kind() != payload.KindString {
			return opts, invalidOption("'method' must be a string.")
		}
		method := v.String()
		opts.Method = &method
	}
	if raw, ok := config["base64"]; ok && raw != nil {
		v := payload.Of(raw)
		if v.Kind() != payload.KindBool {
			return opts, invalidOption("'base64' must be a boolean.")
		}
		base64 := v.Bool()
		opts.Base64 = &base64
	}
	if raw, ok := config["bufferSize"]; ok && raw != nil {
		v := payload.Of(raw)
		if v.Kind() != payload.KindNumber {
			return opts, invalidOption("'bufferSize' must be a number.")
		}
		bufferSize := int(v.Number())
		opts.BufferSize = &bufferSize
	}
	if raw, ok := config["namespace"]; ok {
		if v := payload.Of(raw); v.Kind() == payload.KindString {
			opts.Namespace = v.String()
		}
	}
	return opts, nil
}

func requiredString(config map[string]interface{}, key string) (string, error) {

	v := payload.Of(config[key])
	if v.Kind() != payload.KindString || v.String() == "" {
		return "", invalidOption(fmt.Sprintf("'%s' is required and must be a string.", key))
	}
	return v.String(), nil
}

func invalidOption(description string) error {

	return errors2.NewClientError(errors2.WithDescription(errors2.INVALID_TRACKER_CONFIG, description),
		http.StatusBadRequest)
}
