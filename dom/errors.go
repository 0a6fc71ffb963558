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


package dom

import "errors"

var (
	// ErrNilReader indicates Parse was called without input.
	ErrNilReader = errors.New("dom: reader cannot be nil")

	// ErrInvalidViewport indicates a non-positive viewport dimension.
	ErrInvalidViewport = errors.New("dom: viewport dimensions must be positive")

	// ErrInvalidLineHeight indicates a non-positive line height.
	ErrInvalidLineHeight = errors.New("dom: line height must be positive")
)
