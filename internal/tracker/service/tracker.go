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
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gem/snowplow-bridge/internal/system/constants"
	errors2 "github.com/gem/snowplow-bridge/internal/system/errors"
	"github.com/gem/snowplow-bridge/internal/system/log"
	"github.com/gem/snowplow-bridge/internal/tracker/emitter"
	"github.com/gem/snowplow-bridge/internal/tracker/model"
)

// EventEmitter is the part of the emitter a tracker uses.
type EventEmitter interface {
	Add(payload model.Payload)
	Flush(ctx context.Context) error
	Close(ctx context.Context) error
}

var _ EventEmitter = (*emitter.Emitter)(nil)

// Tracker turns events into tracker protocol payloads and hands them to its emitter.
type Tracker struct {
	config  model.Configuration
	emitter EventEmitter
	subject *Subject
	session *Session
	logger  *log.Logger
	now     func() time.Time

	mu             sync.RWMutex
	globalContexts []model.SelfDescribingJSON

	mediaMu sync.Mutex
	media   *mediaSession
}

// NewTracker validates cfg and creates a tracker writing to em.
func NewTracker(cfg model.Configuration, em EventEmitter) (*Tracker, error) {
	return newTracker(cfg, em, time.Now)
}

func newTracker(cfg model.Configuration, em EventEmitter, now func() time.Time) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Namespace == "" {
		cfg.Namespace = constants.DefaultNamespace
	}
	if cfg.Platform == "" {
		cfg.Platform = constants.DefaultPlatform
	}

	logger := log.GetLogger()
	if leveled, err := logger.WithLevel(string(cfg.LogLevel)); err == nil {
		logger = leveled
	}
	logger = logger.With(log.Namespace(cfg.Namespace), log.String("app_id", cfg.AppID))
	logger.Debug(fmt.Sprintf("Creating tracker for collector %s", cfg.CollectorURL),
		log.String("method", string(cfg.Method)),
		log.Bool("base64", cfg.Base64),
		log.String("buffer_option", cfg.BufferOption.String()))

	subject := NewSubject()
	if cfg.Subject.ScreenWidth > 0 && cfg.Subject.ScreenHeight > 0 {
		subject.SetScreenResolution(cfg.Subject.ScreenWidth, cfg.Subject.ScreenHeight)
	}
	subject.SetLanguage(cfg.Subject.Language)
	subject.SetTimezone(cfg.Subject.Timezone)

	return &Tracker{
		config:  cfg,
		emitter: em,
		subject: subject,
		session: NewSession(cfg.SessionTimeout, now),
		logger:  logger,
		now:     now,
	}, nil
}

// Config returns the configuration the tracker was created with.
func (t *Tracker) Config() model.Configuration {
	return t.config
}

func (t *Tracker) Subject() *Subject {
	return t.subject
}

func (t *Tracker) Session() *Session {
	return t.session
}

// Track builds the payload for event, queues it and returns the event id.
// An empty id means the event could not be encoded and was dropped.
func (t *Tracker) Track(event model.Event) string {
	eventID := uuid.NewString()
	eventTime := t.now()

	p := model.Payload{}
	if err := event.Apply(p, t.config.Base64); err != nil {
		t.logEncodingError(eventID, err)
		return ""
	}
	p.Add(constants.ParamEventID, eventID)
	p.Add(constants.ParamDeviceTime, strconv.FormatInt(eventTime.UnixMilli(), 10))
	p.Add(constants.ParamTrackerVersion, constants.TrackerVersion)
	p.Add(constants.ParamNamespace, t.config.Namespace)
	p.Add(constants.ParamAppID, t.config.AppID)
	p.Add(constants.ParamPlatform, t.config.Platform)
	t.subject.apply(p)

	entities := t.entities(event, eventID, eventTime)
	if len(entities) > 0 {
		envelope := model.NewSelfDescribingJSON(constants.SchemaContexts, entities)
		if err := p.AddJSON(envelope, t.config.Base64, constants.ParamContextsB64, constants.ParamContexts); err != nil {
			t.logEncodingError(eventID, err)
			return ""
		}
	}

	t.logger.Debug("Tracking event", log.String("event_id", eventID),
		log.String("event_type", p[constants.ParamEvent]))
	t.emitter.Add(p)
	return eventID
}

// AddGlobalContext attaches entity to every event tracked from now on.
func (t *Tracker) AddGlobalContext(entity model.SelfDescribingJSON) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.globalContexts = append(t.globalContexts, entity)
}

// ClearGlobalContexts removes all entities added with AddGlobalContext.
func (t *Tracker) ClearGlobalContexts() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.globalContexts = nil
}

// Flush asks the emitter to send everything buffered.
func (t *Tracker) Flush(ctx context.Context) error {
	return t.emitter.Flush(ctx)
}

// Close flushes and stops the emitter. The tracker must not be used afterwards.
func (t *Tracker) Close(ctx context.Context) error {
	return t.emitter.Close(ctx)
}

func (t *Tracker) entities(event model.Event, eventID string, eventTime time.Time) []model.SelfDescribingJSON {
	var own []model.SelfDescribingJSON
	if carrier, ok := event.(model.EntityCarrier); ok {
		own = carrier.Entities()
	}

	t.mu.RLock()
	entities := make([]model.SelfDescribingJSON, 0, len(own)+len(t.globalContexts)+2)
	entities = append(entities, own...)
	entities = append(entities, t.globalContexts...)
	t.mu.RUnlock()

	if t.config.SessionContext {
		entities = append(entities, t.session.entity(eventID, eventTime))
	}
	if t.config.PlatformContext {
		entities = append(entities, platformEntity(t.config.PlatformInfo))
	}
	return entities
}

func platformEntity(info model.PlatformInfo) model.SelfDescribingJSON {
	return model.NewSelfDescribingJSON(constants.SchemaMobileContext, map[string]interface{}{
		"osType":             info.OSType,
		"osVersion":          info.OSVersion,
		"deviceManufacturer": info.DeviceManufacturer,
		"deviceModel":        info.DeviceModel,
	})
}

func (t *Tracker) logEncodingError(eventID string, err error) {
	serverError := errors2.NewServerError(errors2.ENCODING_ERROR, err)
	t.logger.Error(fmt.Sprintf("Dropping event %s", eventID), log.Error(serverError))
}
