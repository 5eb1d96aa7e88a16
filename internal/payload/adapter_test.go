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
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errors2 "github.com/gem/snowplow-bridge/internal/system/errors"
	"github.com/gem/snowplow-bridge/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func TestConvert_NestedExample(t *testing.T) {
	input := map[string]interface{}{
		"a": 1,
		"b": map[string]interface{}{"c": true, "d": nil},
		"e": "x",
	}

	result := Convert(input)

	assert.Equal(t, map[string]interface{}{
		"a": 1.0,
		"b": map[string]interface{}{"c": true, "d": nil},
		"e": "x",
	}, result)
}

func TestConvert_NumbersBecomeFloat64(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  float64
	}{
		{"int", 42, 42},
		{"int8", int8(-3), -3},
		{"int64", int64(1 << 40), float64(1 << 40)},
		{"uint16", uint16(7), 7},
		{"float32", float32(1.5), 1.5},
		{"float64", 2.25, 2.25},
		{"json number", json.Number("12.5"), 12.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Convert(map[string]interface{}{"n": tt.input})
			assert.IsType(t, float64(0), result["n"])
			assert.Equal(t, tt.want, result["n"])
		})
	}
}

func TestConvert_ArrayElementsPassThrough(t *testing.T) {
	nested := map[string]interface{}{"k": 1}
	input := map[string]interface{}{
		"list": []interface{}{1, "two", nested, []interface{}{3}},
	}

	result := Convert(input)

	list, ok := result["list"].([]interface{})
	require.True(t, ok)
	require.Len(t, list, 4)
	assert.Equal(t, 1, list[0], "elements are not normalised to float64")
	assert.Equal(t, "two", list[1])
	assert.Equal(t, nested, list[2])
	assert.Equal(t, []interface{}{3}, list[3])
}

func TestConvert_ArrayIsShallowCopy(t *testing.T) {
	source := []interface{}{"a", "b"}
	result := Convert(map[string]interface{}{"list": source})

	list := result["list"].([]interface{})
	list[0] = "changed"

	assert.Equal(t, "a", source[0])
}

func TestConvert_TypedCollections(t *testing.T) {
	input := map[string]interface{}{
		"tags":   []string{"x", "y"},
		"counts": map[string]int{"views": 3},
	}

	result := Convert(input)

	assert.Equal(t, []interface{}{"x", "y"}, result["tags"])
	assert.Equal(t, map[string]interface{}{"views": 3.0}, result["counts"])
}

func TestConvert_UnsupportedValuesAreDropped(t *testing.T) {
	type custom struct{ A int }
	input := map[string]interface{}{
		"keep":   "yes",
		"struct": custom{A: 1},
		"fn":     func() {},
		"ch":     make(chan int),
		"nested": map[string]interface{}{"ptr": &custom{}, "ok": false},
	}

	result := Convert(input)

	assert.Equal(t, map[string]interface{}{
		"keep":   "yes",
		"nested": map[string]interface{}{"ok": false},
	}, result)
}

func TestConvert_NilAndEmptyInput(t *testing.T) {
	assert.Equal(t, map[string]interface{}{}, Convert(nil))
	assert.Equal(t, map[string]interface{}{}, Convert(map[string]interface{}{}))
}

func TestConvert_PreservesShape(t *testing.T) {
	input := map[string]interface{}{
		"level1": map[string]interface{}{
			"level2": map[string]interface{}{
				"level3": map[string]interface{}{"leaf": 5},
				"flag":   true,
			},
			"name": "n",
		},
		"empty": map[string]interface{}{},
	}

	result := Convert(input)

	require.Len(t, result, 2)
	level1 := result["level1"].(map[string]interface{})
	assert.Len(t, level1, 2)
	level2 := level1["level2"].(map[string]interface{})
	assert.Len(t, level2, 2)
	assert.Equal(t, map[string]interface{}{"leaf": 5.0}, level2["level3"])
	assert.Equal(t, map[string]interface{}{}, result["empty"])
}

func TestConvertStrict_ReportsKeyPath(t *testing.T) {
	input := map[string]interface{}{
		"outer": map[string]interface{}{"bad": struct{}{}},
	}

	result, err := ConvertStrict(input)

	require.Error(t, err)
	assert.Nil(t, result)
	var clientErr *errors2.ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, errors2.UNSUPPORTED_PAYLOAD_VALUE.Code, clientErr.Code)
	assert.Contains(t, clientErr.Description, "outer.bad")
}

func TestConvertStrict_AcceptsSupportedValues(t *testing.T) {
	result, err := ConvertStrict(map[string]interface{}{"a": 1, "b": "c"})

	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": 1.0, "b": "c"}, result)
}

func TestOf_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  Kind
	}{
		{"nil", nil, KindNull},
		{"bool", true, KindBool},
		{"number", 3, KindNumber},
		{"string", "s", KindString},
		{"map", map[string]interface{}{}, KindMap},
		{"array", []interface{}{}, KindArray},
		{"bad json number", json.Number("abc"), KindUnsupported},
		{"int keyed map", map[int]string{1: "a"}, KindUnsupported},
		{"struct", struct{}{}, KindUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Of(tt.input).Kind())
		})
	}
}
