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
	"fmt"
	"sync"

	"github.com/gem/snowplow-bridge/internal/system/constants"
	"github.com/gem/snowplow-bridge/internal/tracker/model"
)

// Subject is the user and device identity attached to every event.
type Subject struct {
	mu         sync.RWMutex
	userID     string
	resolution string
	language   string
	timezone   string
}

func NewSubject() *Subject {
	return &Subject{}
}

// SetUserID sets the business user id. An empty id clears it.
func (s *Subject) SetUserID(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

func (s *Subject) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Subject) SetScreenResolution(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolution = fmt.Sprintf("%dx%d", width, height)
}

func (s *Subject) SetLanguage(language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = language
}

func (s *Subject) SetTimezone(timezone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timezone = timezone
}

func (s *Subject) apply(p model.Payload) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p.Add(constants.ParamUserID, s.userID)
	p.Add(constants.ParamResolution, s.resolution)
	p.Add(constants.ParamLanguage, s.language)
	p.Add(constants.ParamTimezone, s.timezone)
}
