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
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gem/snowplow-bridge/internal/system/constants"
	"github.com/gem/snowplow-bridge/internal/tracker/model"
)

const storageMechanism = "LOCAL_STORAGE"

// Session keeps the client session state. A session ends after timeout
// without events or when StartNewSession is called.
type Session struct {
	mu                  sync.Mutex
	userID              string
	sessionID           string
	previousSessionID   string
	sessionIndex        int
	firstEventID        string
	firstEventTimestamp string
	timeout             time.Duration
	lastActivity        time.Time
	now                 func() time.Time
}

// NewSession creates the first session of a tracker.
func NewSession(timeout time.Duration, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	s := &Session{
		userID:  uuid.NewString(),
		timeout: timeout,
		now:     now,
	}
	s.rotate()
	s.lastActivity = now()
	return s
}

// StartNewSession ends the current session. The next event belongs to the new one.
func (s *Session) StartNewSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotate()
	s.lastActivity = s.now()
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

func (s *Session) PreviousID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previousSessionID
}

func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionIndex
}

// entity records activity for eventID and returns the client_session entity.
func (s *Session) entity(eventID string, eventTime time.Time) model.SelfDescribingJSON {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.timeout > 0 && now.Sub(s.lastActivity) > s.timeout {
		s.rotate()
	}
	s.lastActivity = now
	if s.firstEventID == "" {
		s.firstEventID = eventID
		s.firstEventTimestamp = eventTime.UTC().Format("2006-01-02T15:04:05.000Z")
	}

	data := map[string]interface{}{
		"userId":              s.userID,
		"sessionId":           s.sessionID,
		"sessionIndex":        s.sessionIndex,
		"previousSessionId":   nil,
		"storageMechanism":    storageMechanism,
		"firstEventId":        s.firstEventID,
		"firstEventTimestamp": s.firstEventTimestamp,
	}
	if s.previousSessionID != "" {
		data["previousSessionId"] = s.previousSessionID
	}
	return model.NewSelfDescribingJSON(constants.SchemaClientSession, data)
}

func (s *Session) rotate() {
	s.previousSessionID = s.sessionID
	s.sessionID = uuid.NewString()
	s.sessionIndex++
	s.firstEventID = ""
	s.firstEventTimestamp = ""
}
