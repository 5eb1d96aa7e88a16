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

// Package payload converts host supplied custom event data into the
// plain map shape serialised by the tracker.
package payload

import (
	"fmt"
	"net/http"

	errors2 "github.com/gem/snowplow-bridge/internal/system/errors"
	"github.com/gem/snowplow-bridge/internal/system/log"
)

// Convert walks data depth first and returns a copy holding only nil, bool,
// float64, string, nested maps and []interface{} values.
//
// Numbers of every width become float64. Arrays are copied one level deep and
// their elements are left untouched. Keys holding values of any other type are
// omitted from the result.
func Convert(data map[string]interface{}) map[string]interface{} {
	out, _ := convert(data, "", false)
	return out
}

// ConvertStrict behaves like Convert but fails on the first unsupported value.
func ConvertStrict(data map[string]interface{}) (map[string]interface{}, error) {
	return convert(data, "", true)
}

func convert(data map[string]interface{}, path string, strict bool) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(data))
	for key, raw := range data {
		keyPath := joinPath(path, key)
		value := Of(raw)
		switch value.Kind() {
		case KindNull:
			result[key] = nil
		case KindBool:
			result[key] = value.Bool()
		case KindNumber:
			result[key] = value.Number()
		case KindString:
			result[key] = value.String()
		case KindMap:
			nested, err := convert(value.Map(), keyPath, strict)
			if err != nil {
				return nil, err
			}
			result[key] = nested
		case KindArray:
			elems := value.Array()
			copied := make([]interface{}, len(elems))
			copy(copied, elems)
			result[key] = copied
		default:
			if strict {
				return nil, unsupportedValueError(keyPath, raw)
			}
			log.GetLogger().Debug(fmt.Sprintf("Dropping payload key '%s' with unsupported type %T", keyPath, raw))
		}
	}
	return result, nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func unsupportedValueError(keyPath string, raw interface{}) error {
	return errors2.NewClientError(errors2.WithDescription(errors2.UNSUPPORTED_PAYLOAD_VALUE,
		fmt.Sprintf("Value of '%s' has unsupported type %T.", keyPath, raw)), http.StatusBadRequest)
}
