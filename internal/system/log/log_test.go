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

package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithWriter_Levels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("WARN", &buf))
	t.Cleanup(func() { _ = Init("ERROR") })

	logger := GetLogger()
	logger.Info("hidden")
	logger.Warn("shown", String("sink", "http"), Int("batch", 2))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "sink=http")
	assert.Contains(t, buf.String(), "batch=2")

	verbose, err := logger.WithLevel("verbose")
	require.NoError(t, err)
	verbose.Debug("now visible", Error(errors.New("boom")))
	logger.Debug("still hidden")
	assert.Contains(t, buf.String(), "now visible")
	assert.Contains(t, buf.String(), "boom")
	assert.NotContains(t, buf.String(), "still hidden")
}

func TestWithLevel_Off(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("DEBUG", &buf))
	t.Cleanup(func() { _ = Init("ERROR") })

	off, err := GetLogger().WithLevel("OFF")
	require.NoError(t, err)
	off.Error("discarded")
	assert.Empty(t, buf.String())
}

func TestInit_InvalidLevel(t *testing.T) {
	assert.Error(t, Init("LOUD"))
	_, err := GetLogger().WithLevel("LOUD")
	assert.Error(t, err)
}

func TestWithAndAudit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("INFO", &buf))
	t.Cleanup(func() { _ = Init("ERROR") })

	GetLogger().With(Namespace("sp")).Audit(AuditEvent{
		InitiatorType: InitiatorTypeHost,
		TargetID:      "sp",
		TargetType:    TargetTypeTracker,
		ActionID:      ActionInitializeTracker,
	})
	out := buf.String()
	assert.Contains(t, out, "AUDIT")
	assert.Contains(t, out, "initialize-tracker")
	assert.Contains(t, out, "recordedAt")
	assert.Contains(t, out, "namespace=sp")
}
