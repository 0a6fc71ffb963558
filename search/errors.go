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


package search

import "errors"

var (
	// ErrPageRequired is returned when a page is not provided.
	ErrPageRequired = errors.New("page required")

	// ErrCacheRequired is returned when a result cache is not provided.
	ErrCacheRequired = errors.New("result cache required")

	// ErrResultNotFound is returned when navigating to an id that is not in
	// the current result cache.
	ErrResultNotFound = errors.New("search result not found")

	// ErrStaleReference is returned when a cached element has been removed
	// from its page.
	ErrStaleReference = errors.New("search result element is no longer attached")

	// ErrNavigatorClosed is returned by Navigate after Close.
	ErrNavigatorClosed = errors.New("navigator is closed")
)
