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

package models

// ObjectType is the IP-Symcon object kind reported by IPS_GetObject.
type ObjectType int

const (
	ObjectTypeCategory ObjectType = 0
	ObjectTypeInstance ObjectType = 1
	ObjectTypeVariable ObjectType = 2
	ObjectTypeScript   ObjectType = 3
	ObjectTypeEvent    ObjectType = 4
	ObjectTypeMedia    ObjectType = 5
	ObjectTypeLink     ObjectType = 6
)

func (t ObjectType) String() string {
	switch t {
	case ObjectTypeCategory:
		return "category"
	case ObjectTypeInstance:
		return "instance"
	case ObjectTypeVariable:
		return "variable"
	case ObjectTypeScript:
		return "script"
	case ObjectTypeEvent:
		return "event"
	case ObjectTypeMedia:
		return "media"
	case ObjectTypeLink:
		return "link"
	default:
		return "unknown"
	}
}

// ObjectDetails is the subset of IPS_GetObject the mirror consumes.
type ObjectDetails struct {
	ObjectID    int64      `json:"ObjectID"`
	ObjectName  string     `json:"ObjectName"`
	ObjectType  ObjectType `json:"ObjectType"`
	ParentID    int64      `json:"ParentID"`
	ChildrenIDs []int64    `json:"ChildrenIDs"`
}

// VariableDetails is the subset of IPS_GetVariable the mirror consumes.
// Profile is filled in by the client when a profile is assigned.
type VariableDetails struct {
	VariableID            int64            `json:"VariableID"`
	VariableType          int              `json:"VariableType"`
	VariableProfile       string           `json:"VariableProfile"`
	VariableCustomProfile string           `json:"VariableCustomProfile"`
	Profile               *VariableProfile `json:"-"`
}

// EffectiveProfile returns the custom profile when set, else the default one.
func (v *VariableDetails) EffectiveProfile() string {
	if v.VariableCustomProfile != "" {
		return v.VariableCustomProfile
	}

	return v.VariableProfile
}

// VariableProfile is the subset of IPS_GetVariableProfile the mirror consumes.
type VariableProfile struct {
	ProfileName string  `json:"ProfileName"`
	ProfileType int     `json:"ProfileType"`
	MinValue    float64 `json:"MinValue"`
	MaxValue    float64 `json:"MaxValue"`
	StepSize    float64 `json:"StepSize"`
	Digits      int     `json:"Digits"`
	Prefix      string  `json:"Prefix"`
	Suffix      string  `json:"Suffix"`
}

// LinkDetails is the subset of IPS_GetLink the mirror consumes.
type LinkDetails struct {
	LinkID   int64 `json:"LinkID"`
	TargetID int64 `json:"TargetID"`
}
