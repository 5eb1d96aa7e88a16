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

package model

import (
	"encoding/base64"
	"encoding/json"

	"github.com/pkg/errors"
)

// Payload is one event in tracker protocol form. All values are strings.
type Payload map[string]string

// Add sets key to value, skipping empty values.
func (p Payload) Add(key, value string) {
	if value == "" {
		return
	}
	p[key] = value
}

// AddJSON serialises data and stores it under keyEncoded as base64url when
// encode is set, otherwise under keyPlain.
func (p Payload) AddJSON(data interface{}, encode bool, keyEncoded, keyPlain string) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", keyPlain)
	}
	if encode {
		p[keyEncoded] = base64.URLEncoding.EncodeToString(raw)
		return nil
	}
	p[keyPlain] = string(raw)
	return nil
}

// Copy returns an independent copy of the payload.
func (p Payload) Copy() Payload {
	out := make(Payload, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	return out
}
