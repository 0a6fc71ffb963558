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

package ui

import "errors"

var (
	// ErrMissingElements indicates the page has no search input or results panel.
	ErrMissingElements = errors.New("ui: page has no search input or results panel")

	// ErrSearcherRequired indicates a Controller was created without a searcher.
	ErrSearcherRequired = errors.New("ui: searcher is required")

	// ErrNavigatorRequired indicates a Controller was created without a navigator.
	ErrNavigatorRequired = errors.New("ui: navigator is required")

	// ErrHistoryRequired indicates a Controller was created without a history store.
	ErrHistoryRequired = errors.New("ui: history is required")

	// ErrNoSuchRow indicates a selection outside the panel's selectable rows.
	ErrNoSuchRow = errors.New("ui: no selectable row at index")
)
