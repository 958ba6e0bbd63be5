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

package symcon

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport covers network failures, non-200 responses, and undecodable bodies.
	ErrTransport = errors.New("symcon transport error")
	// ErrRPC is matched by every *RPCError returned by the controller.
	ErrRPC = errors.New("symcon rpc error")
	// ErrCircuitOpen is returned without contacting the controller while the breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrUnexpectedResult means the call succeeded but the result had the wrong shape.
	ErrUnexpectedResult = errors.New("unexpected symcon result")
)

// RPCError is the JSON-RPC error object reported by the controller.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("symcon rpc error %d: %s", e.Code, e.Message)
}

// Is lets errors.Is(err, ErrRPC) match any controller error.
func (*RPCError) Is(target error) bool {
	return target == ErrRPC
}
