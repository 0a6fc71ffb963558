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


// Package dom provides a live, queryable page model built from HTML.
//
// A Document is parsed with goquery and keeps stable Element handles for the
// lifetime of the page, so the search engine can cache references between a
// scan and a later navigation. Elements carry runtime style overrides, which
// is how highlights and panel visibility are applied.
//
// # Layout
//
// The package does not implement CSS. It computes a simple block layout that
// is enough to answer the questions a scroll-to-result needs:
//   - every rendered element starts on a new block
//   - each non-blank text node occupies one line (WithLineHeight)
//   - an inline height style (height: Npx) sets a minimum box height
//   - display:none, the hidden attribute and metadata elements produce no box
//   - position:relative|absolute|fixed|sticky establishes an offset parent
//   - transform: translateY(Npx) shifts the visual box without affecting layout
//
// Layout is recomputed lazily after any mutation.
//
// # Lifecycle
//
// Detach marks the whole document as gone, which is what happens when a page
// is reloaded. Handles taken before Detach report IsAttached false.
package dom
