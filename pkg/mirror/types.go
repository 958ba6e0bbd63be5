/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package mirror keeps a typed, cached copy of the variables below a controller object.
package mirror

import (
	"time"

	"github.com/carverauto/symcon-mirror/pkg/models"
)

// DataType is the typed shape an attribute exposes.
type DataType int

const (
	// String passes wire values through unchanged. It is the zero value.
	String DataType = iota
	Boolean
	Integer
	Float
)

func (d DataType) String() string {
	switch d {
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// MarshalText encodes the type by name.
func (d DataType) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Numeric reports whether the type carries bounds.
func (d DataType) Numeric() bool {
	return d == Integer || d == Float
}

// Attribute describes one mirrored variable. All fields are fixed at registration.
type Attribute struct {
	Name     string
	RemoteID int64
	DataType DataType
	// Min and Max are set together, and only for numeric types with a profile.
	Min    *float64
	Max    *float64
	Unit   string
	Access models.AccessMode
}

// Spec returns the hosted view of the attribute.
func (a *Attribute) Spec() AttributeSpec {
	return AttributeSpec{
		Name:     a.Name,
		DataType: a.DataType,
		Access:   a.Access,
		Writable: a.Access.Writable(),
		Min:      a.Min,
		Max:      a.Max,
		Unit:     a.Unit,
	}
}

// AttributeSpec is what a host needs to expose an attribute.
type AttributeSpec struct {
	Name     string            `json:"name"`
	DataType DataType          `json:"data_type"`
	Access   models.AccessMode `json:"access"`
	Writable bool              `json:"writable"`
	Min      *float64          `json:"min,omitempty"`
	Max      *float64          `json:"max,omitempty"`
	Unit     string            `json:"unit,omitempty"`
}

// Status is a point-in-time view of the mirror.
type Status struct {
	Attributes     int       `json:"attributes"`
	RefreshPasses  uint64    `json:"refresh_passes"`
	RefreshRunning bool      `json:"refresh_running"`
	LastRefresh    time.Time `json:"last_refresh"`
	KernelVersion  string    `json:"kernel_version"`
	KernelDir      string    `json:"kernel_dir"`
}
