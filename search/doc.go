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


// Package search finds, classifies and navigates to text on a live page.
//
// A search runs in three stages:
//   - Matcher scans every candidate element and keeps those whose visible
//     text, plus any data-search-content payload, contains the query
//   - Classify assigns each match a category from its classes, its
//     container and its tag, and picks the title shown in the panel
//   - Searcher drops duplicates, truncates titles and groups the results by
//     category in order of first appearance
//
// Matching is a case-insensitive substring test. Results are not ranked.
//
// Every search resets the ResultCache and fills it with the ids of the new
// results. A Navigator sharing that cache scrolls to a result, checks that it
// landed in view and highlights it for a few seconds. Ids from an earlier
// search, or elements that have left the page, are logged and ignored.
package search
