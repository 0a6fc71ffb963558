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


// Package history keeps the user's recent queries and search log.
//
// Two lists are maintained:
//   - recent queries: up to five distinct queries, most recent first. Running
//     a query again moves it to the front.
//   - search history: up to twenty timestamped records, most recent first,
//     never deduplicated.
//
// Both lists are loaded once when the Store is created and written through to
// a storage.KeyValueStore after every change. When storage fails the Store
// logs the failure and carries on in memory, so suggestions still work for
// the rest of the session.
package history
