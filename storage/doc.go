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


// Package storage provides the persistence abstraction for pagesearch.
//
// The search engine itself keeps no durable state. The only persisted data is
// the user's recent queries and search history, which the history package
// writes through a KeyValueStore under two fixed keys.
//
// # Backends
//
// The badger subpackage implements KeyValueStore on top of BadgerDB, either on
// disk (one directory per user profile) or fully in memory for tests:
//
//	store, err := badger.OpenStore("/path/to/profile", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
// # Encoding
//
// Values are strings. The history lists are encoded with mus-go into a compact
// binary form (see MarshalQueries and MarshalQueryRecords) before being stored.
//
// # Thread Safety
//
// All KeyValueStore implementations must be safe for concurrent use.
package storage
