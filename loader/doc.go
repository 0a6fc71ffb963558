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

// Package loader fetches page markup from a DocumentStore and parses it into
// dom.Documents ready for searching.
//
// Fetches are wrapped in a per-attempt timeout and retried with a linearly
// growing delay. LoadAll fans out over an ants worker pool and can report
// progress to a writer. A Watcher reloads a page from disk when its file
// changes and detaches the document it replaces, so results cached against the
// old document fail navigation instead of pointing at dead nodes.
package loader
