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

package payload

import (
	"encoding/json"
	"reflect"
)

// Kind tags the recognised shapes of an event payload value.
type Kind int

const (
	KindUnsupported Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindMap
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindMap:
		return "map"
	case KindArray:
		return "array"
	default:
		return "unsupported"
	}
}

// Value is a classified payload value. The zero Value is unsupported.
type Value struct {
	kind Kind
	raw  interface{}
}

// Kind returns the tag of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// Bool returns the boolean held by a KindBool value.
func (v Value) Bool() bool {
	b, _ := v.raw.(bool)
	return b
}

// Number returns the float64 held by a KindNumber value.
func (v Value) Number() float64 {
	f, _ := v.raw.(float64)
	return f
}

// String returns the string held by a KindString value.
func (v Value) String() string {
	s, _ := v.raw.(string)
	return s
}

// Map returns the nested payload held by a KindMap value.
func (v Value) Map() map[string]interface{} {
	m, _ := v.raw.(map[string]interface{})
	return m
}

// Array returns the elements held by a KindArray value.
func (v Value) Array() []interface{} {
	a, _ := v.raw.([]interface{})
	return a
}

// Of classifies a dynamically typed value.
func Of(value interface{}) Value {
	switch t := value.(type) {
	case nil:
		return Value{kind: KindNull}
	case bool:
		return Value{kind: KindBool, raw: t}
	case string:
		return Value{kind: KindString, raw: t}
	case float64:
		return Value{kind: KindNumber, raw: t}
	case float32:
		return Value{kind: KindNumber, raw: float64(t)}
	case int:
		return Value{kind: KindNumber, raw: float64(t)}
	case int8:
		return Value{kind: KindNumber, raw: float64(t)}
	case int16:
		return Value{kind: KindNumber, raw: float64(t)}
	case int32:
		return Value{kind: KindNumber, raw: float64(t)}
	case int64:
		return Value{kind: KindNumber, raw: float64(t)}
	case uint:
		return Value{kind: KindNumber, raw: float64(t)}
	case uint8:
		return Value{kind: KindNumber, raw: float64(t)}
	case uint16:
		return Value{kind: KindNumber, raw: float64(t)}
	case uint32:
		return Value{kind: KindNumber, raw: float64(t)}
	case uint64:
		return Value{kind: KindNumber, raw: float64(t)}
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{kind: KindUnsupported, raw: t}
		}
		return Value{kind: KindNumber, raw: f}
	case map[string]interface{}:
		return Value{kind: KindMap, raw: t}
	case []interface{}:
		return Value{kind: KindArray, raw: t}
	}
	return ofReflected(value)
}

// ofReflected handles typed maps and slices, e.g. map[string]string or []int.
func ofReflected(value interface{}) Value {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return Value{kind: KindNull}
		}
		m := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return Value{kind: KindMap, raw: m}
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Value{kind: KindNull}
		}
		a := make([]interface{}, rv.Len())
		for i := range a {
			a[i] = rv.Index(i).Interface()
		}
		return Value{kind: KindArray, raw: a}
	}
	return Value{kind: KindUnsupported, raw: value}
}
