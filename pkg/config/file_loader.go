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

package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	errEmptyConfig    = errors.New("configuration document is empty")
	errTrailingConfig = errors.New("unexpected data after configuration document")
)

// FileConfigLoader loads configuration from a local JSON file.
type FileConfigLoader struct{}

// Load reads path and decodes it into dst. See decodeJSON for the rules.
func (*FileConfigLoader) Load(_ context.Context, path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file '%s': %w", path, err)
	}

	if err := decodeJSON(data, dst); err != nil {
		return fmt.Errorf("failed to decode '%s': %w", path, err)
	}

	return nil
}

// decodeJSON decodes exactly one JSON document into dst. Unknown fields are
// rejected so a misspelled key fails loading instead of silently falling
// back to its default.
func decodeJSON(data []byte, dst interface{}) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errEmptyConfig
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingConfig
	}

	return nil
}
