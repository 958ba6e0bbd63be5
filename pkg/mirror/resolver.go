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

import (
	"context"
	"fmt"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/symcon-mirror/pkg/logger"
	"github.com/carverauto/symcon-mirror/pkg/models"
)

const nameSeparator = "_"

// RegisterFunc receives every variable the resolver discovers.
type RegisterFunc func(ctx context.Context, attr Attribute) error

// Resolver walks the controller tree depth-first below a root object.
type Resolver struct {
	store  RemoteStore
	access models.AccessMode
	logger logger.Logger
	tracer trace.Tracer
}

// NewResolver returns a resolver that tags every discovered attribute with access.
func NewResolver(store RemoteStore, access models.AccessMode, log logger.Logger) *Resolver {
	return &Resolver{
		store:  store,
		access: access,
		logger: log,
		tracer: otel.Tracer(meterName),
	}
}

type walk struct {
	register RegisterFunc
	// path holds the containers and links on the current branch.
	path map[int64]struct{}
	// seen maps variable ids to the name they were first found under.
	seen map[int64]string
	// names maps qualified names to the variable id that claimed them.
	names map[string]int64
	count int
}

// Resolve registers every variable below rootID. Children of the root are
// named with an empty prefix, so a variable v in container A becomes "_A_v".
// Any metadata failure aborts the walk.
func (r *Resolver) Resolve(ctx context.Context, rootID int64, register RegisterFunc) (int, error) {
	ctx, span := r.tracer.Start(ctx, "ResolveTree")
	defer span.End()

	span.SetAttributes(attribute.Int64("symcon.root_id", rootID))

	root, err := r.store.GetObject(ctx, rootID)
	if err != nil {
		span.RecordError(err)

		return 0, fmt.Errorf("failed to fetch root object %d: %w", rootID, err)
	}

	w := &walk{
		register: register,
		path:     map[int64]struct{}{rootID: {}},
		seen:     make(map[int64]string),
		names:    make(map[string]int64),
	}

	r.logger.Info().
		Int64("object_id", rootID).
		Str("name", root.ObjectName).
		Int("children", len(root.ChildrenIDs)).
		Msg("Resolving object tree")

	for _, child := range root.ChildrenIDs {
		if err := r.resolve(ctx, w, "", child); err != nil {
			span.RecordError(err)

			return w.count, err
		}
	}

	span.SetAttributes(attribute.Int("symcon.attributes", w.count))

	return w.count, nil
}

func (r *Resolver) resolve(ctx context.Context, w *walk, prefix string, id int64) error {
	if _, onPath := w.path[id]; onPath {
		r.logger.Warn().Int64("object_id", id).Str("prefix", prefix).Msg("Skipping object cycle")

		return nil
	}

	obj, err := r.store.GetObject(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch object %d: %w", id, err)
	}

	r.logger.Debug().
		Int64("object_id", id).
		Str("name", obj.ObjectName).
		Stringer("type", obj.ObjectType).
		Msg("Processing object")

	switch obj.ObjectType {
	case models.ObjectTypeLink:
		target, err := r.store.ResolveLink(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to resolve link %d: %w", id, err)
		}

		w.path[id] = struct{}{}
		defer delete(w.path, id)

		return r.resolve(ctx, w, prefix, target)
	case models.ObjectTypeVariable:
		return r.resolveVariable(ctx, w, prefix+nameSeparator+obj.ObjectName, id)
	case models.ObjectTypeCategory, models.ObjectTypeInstance, models.ObjectTypeScript,
		models.ObjectTypeEvent, models.ObjectTypeMedia:
	}

	w.path[id] = struct{}{}
	defer delete(w.path, id)

	childPrefix := prefix + nameSeparator + obj.ObjectName
	for _, child := range obj.ChildrenIDs {
		if err := r.resolve(ctx, w, childPrefix, child); err != nil {
			return err
		}
	}

	return nil
}

func (r *Resolver) resolveVariable(ctx context.Context, w *walk, name string, id int64) error {
	if first, dup := w.seen[id]; dup {
		r.logger.Warn().
			Int64("object_id", id).
			Str("attribute", name).
			Str("registered_as", first).
			Msg("Variable reachable through more than one path, keeping the first")

		return nil
	}

	if owner, taken := w.names[name]; taken {
		r.logger.Warn().
			Int64("object_id", id).
			Str("attribute", name).
			Int64("registered_id", owner).
			Msg("Qualified name already taken by another variable, keeping the first")

		return nil
	}

	details, err := r.store.GetVariable(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch variable %d: %w", id, err)
	}

	attr := BuildAttribute(name, id, details, r.access)

	if err := w.register(ctx, attr); err != nil {
		return fmt.Errorf("failed to register %q: %w", name, err)
	}

	w.seen[id] = name
	w.names[name] = id
	w.count++

	return nil
}

// BuildAttribute derives type, bounds and unit from variable metadata.
// Bounds are kept only for numeric types whose profile has min != max;
// integer bounds are truncated.
func BuildAttribute(name string, id int64, details *models.VariableDetails, access models.AccessMode) Attribute {
	attr := Attribute{
		Name:     name,
		RemoteID: id,
		DataType: InferDataType(details.VariableType),
		Access:   access,
	}

	profile := details.Profile
	if profile == nil {
		return attr
	}

	attr.Unit = profile.Suffix

	if !attr.DataType.Numeric() {
		return attr
	}

	lo, hi := profile.MinValue, profile.MaxValue
	if attr.DataType == Integer {
		lo, hi = math.Trunc(lo), math.Trunc(hi)
	}

	if lo != hi {
		attr.Min, attr.Max = &lo, &hi
	}

	return attr
}
