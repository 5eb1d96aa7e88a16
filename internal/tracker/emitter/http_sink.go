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

package emitter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/gem/snowplow-bridge/internal/system/constants"
	"github.com/gem/snowplow-bridge/internal/tracker/model"
)

// HTTPSink sends payloads to a collector over GET (one request per event)
// or POST (one payload_data request per batch).
type HTTPSink struct {
	endpoint   string
	method     model.HttpMethod
	HTTPClient *http.Client
}

// NewHTTPSink creates a sink for the given collector.
func NewHTTPSink(collectorURL string, method model.HttpMethod, timeout time.Duration) *HTTPSink {
	return &HTTPSink{
		endpoint: model.CollectorEndpoint(collectorURL),
		method:   method,
		HTTPClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				IdleConnTimeout:     60 * time.Second,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// Endpoint returns the normalised collector address.
func (s *HTTPSink) Endpoint() string {
	return s.endpoint
}

func (s *HTTPSink) Send(ctx context.Context, payloads []model.Payload) error {
	if s.method == model.MethodGet {
		for _, p := range payloads {
			if err := s.get(ctx, p); err != nil {
				return err
			}
		}
		return nil
	}
	return s.post(ctx, payloads)
}

func (s *HTTPSink) Close() error {
	s.HTTPClient.CloseIdleConnections()
	return nil
}

func (s *HTTPSink) get(ctx context.Context, p model.Payload) error {
	query := url.Values{}
	for k, v := range p {
		query.Set(k, v)
	}
	target := s.endpoint + constants.GetPath + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build collector request")
	}
	return s.do(req)
}

func (s *HTTPSink) post(ctx context.Context, payloads []model.Payload) error {
	body, err := json.Marshal(model.NewSelfDescribingJSON(constants.SchemaPayloadData, payloads))
	if err != nil {
		return errors.Wrap(err, "failed to encode payload_data")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+constants.PostPath,
		bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build collector request")
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	return s.do(req)
}

func (s *HTTPSink) do(req *http.Request) error {
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "collector request to %s failed", s.endpoint)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("collector %s answered with status %d", s.endpoint, resp.StatusCode)
	}
	return nil
}
