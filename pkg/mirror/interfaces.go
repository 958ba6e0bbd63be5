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

package mirror

//go:generate mockgen -destination=mock_mirror.go -package=mirror github.com/carverauto/symcon-mirror/pkg/mirror RemoteStore,AttributeHost,Clock

import (
	"context"
	"time"

	"github.com/carverauto/symcon-mirror/pkg/models"
)

// RemoteStore is the controller the mirror reads from and writes to.
type RemoteStore interface {
	GetObject(ctx context.Context, id int64) (*models.ObjectDetails, error)
	// GetVariable returns the variable metadata with its effective profile attached, if any.
	GetVariable(ctx context.Context, id int64) (*models.VariableDetails, error)
	ResolveLink(ctx context.Context, id int64) (int64, error)
	GetValue(ctx context.Context, id int64) (string, error)
	RequestValueChange(ctx context.Context, id int64, value interface{}) error
	KernelVersion(ctx context.Context) (string, error)
	KernelDir(ctx context.Context) (string, error)
}

// ReadFunc returns the current typed value of an attribute.
type ReadFunc func(ctx context.Context) (interface{}, error)

// WriteFunc writes a typed value to an attribute.
type WriteFunc func(ctx context.Context, value interface{}) error

// AttributeHost exposes attributes to external readers and writers.
type AttributeHost interface {
	RegisterAttribute(spec AttributeSpec, onRead ReadFunc, onWrite WriteFunc) error
	NotifyChanged(ctx context.Context, name string, value interface{}) error
}

// Clock abstracts time for the refresh gate.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}
