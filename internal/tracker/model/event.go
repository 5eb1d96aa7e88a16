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
	"strconv"

	"github.com/google/uuid"

	"github.com/gem/snowplow-bridge/internal/system/constants"
)

// SelfDescribingJSON pairs data with the Iglu schema that describes it.
type SelfDescribingJSON struct {
	Schema string      `json:"schema"`
	Data   interface{} `json:"data"`
}

// NewSelfDescribingJSON creates a schema tagged payload.
func NewSelfDescribingJSON(schema string, data interface{}) SelfDescribingJSON {
	return SelfDescribingJSON{Schema: schema, Data: data}
}

// Event is anything a tracker can track.
type Event interface {
	// Apply writes the event specific fields into p.
	Apply(p Payload, encode bool) error
}

// ScreenView records that a screen was shown.
type ScreenView struct {
	Name string
	ID   string
}

// NewScreenView creates a screen view with a fresh screen id.
func NewScreenView(name string) *ScreenView {
	return &ScreenView{Name: name, ID: uuid.NewString()}
}

func (e *ScreenView) Apply(p Payload, encode bool) error {
	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}
	data := map[string]interface{}{
		"name": e.Name,
		"id":   id,
	}
	return applySelfDescribing(p, NewSelfDescribingJSON(constants.SchemaScreenView, data), encode)
}

// Structured is a category/action event with optional label, property and value.
type Structured struct {
	Category string
	Action   string
	Label    *string
	Property *string
	Value    *float64
}

// NewStructured creates a structured event with only the mandatory fields set.
func NewStructured(category, action string) *Structured {
	return &Structured{Category: category, Action: action}
}

func (e *Structured) Apply(p Payload, _ bool) error {
	p.Add(constants.ParamEvent, constants.EventStructured)
	p.Add(constants.ParamSeCategory, e.Category)
	p.Add(constants.ParamSeAction, e.Action)
	if e.Label != nil {
		p[constants.ParamSeLabel] = *e.Label
	}
	if e.Property != nil {
		p[constants.ParamSeProperty] = *e.Property
	}
	if e.Value != nil {
		p[constants.ParamSeValue] = strconv.FormatFloat(*e.Value, 'f', -1, 64)
	}
	return nil
}

// SelfDescribing is a custom event described by its own schema.
type SelfDescribing struct {
	Data SelfDescribingJSON
}

// NewSelfDescribing wraps a schema and its already converted data.
func NewSelfDescribing(schema string, data map[string]interface{}) *SelfDescribing {
	return &SelfDescribing{Data: NewSelfDescribingJSON(schema, data)}
}

func (e *SelfDescribing) Apply(p Payload, encode bool) error {
	return applySelfDescribing(p, e.Data, encode)
}

// PageView records a page visit.
type PageView struct {
	URL   string
	Title string
}

func (e *PageView) Apply(p Payload, _ bool) error {
	p.Add(constants.ParamEvent, constants.EventPageView)
	p.Add(constants.ParamPageURL, e.URL)
	p.Add(constants.ParamPageTitle, e.Title)
	return nil
}

// SiteSearch records a search performed inside the application.
type SiteSearch struct {
	Terms        []string
	Filters      map[string]interface{}
	TotalResults *int
}

func (e *SiteSearch) Apply(p Payload, encode bool) error {
	data := map[string]interface{}{
		"terms": e.Terms,
	}
	if len(e.Filters) > 0 {
		data["filters"] = e.Filters
	}
	if e.TotalResults != nil {
		data["totalResults"] = *e.TotalResults
	}
	return applySelfDescribing(p, NewSelfDescribingJSON(constants.SchemaSiteSearch, data), encode)
}

func applySelfDescribing(p Payload, data SelfDescribingJSON, encode bool) error {
	p.Add(constants.ParamEvent, constants.EventSelfDescribing)
	envelope := NewSelfDescribingJSON(constants.SchemaUnstructEvent, data)
	return p.AddJSON(envelope, encode, constants.ParamUnstructB64, constants.ParamUnstruct)
}
