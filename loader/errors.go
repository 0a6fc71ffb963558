// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package loader

import "errors"

var (
	// ErrInvalidMaxAttempts indicates that maxAttempts must be greater than 0.
	ErrInvalidMaxAttempts = errors.New("loader: maxAttempts must be greater than 0")

	// ErrTimeout indicates an operation did not finish within its deadline.
	ErrTimeout = errors.New("loader: operation timed out")

	// ErrPageNotFound indicates the store has no page under the requested name.
	ErrPageNotFound = errors.New("loader: page not found")

	// ErrUnexpectedStatus indicates an HTTP store answered with a non-success status.
	ErrUnexpectedStatus = errors.New("loader: unexpected response status")

	// ErrStoreRequired indicates a Loader was created without a DocumentStore.
	ErrStoreRequired = errors.New("loader: document store is required")

	// ErrInvalidPoolSize indicates a non-positive worker pool size.
	ErrInvalidPoolSize = errors.New("loader: pool size must be positive")

	// ErrInvalidTimeout indicates a non-positive fetch timeout.
	ErrInvalidTimeout = errors.New("loader: timeout must be positive")
)
