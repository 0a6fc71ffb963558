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

// Package ui drives the search box of one page.
//
// A Controller receives the input events of the hosting page (keystrokes,
// focus, clicks, keys) and keeps a Panel describing what the results dropdown
// shows. Searches are debounced: each keystroke cancels the pending search, so
// only the last query of a burst scans the page. Committed queries are recorded
// in the history store, and selecting a result hands its id to the navigator.
//
// The Controller toggles the display of the page's results panel and clear
// control elements; everything else a renderer needs is in the Panel, which
// can be written out as text with Render.
package ui
