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


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/pagesearch/core"
)

// Both history lists share a layout: a varint entry count followed by the
// entries. Records use the generated QueryRecordMUS serializer, which stores
// timestamps as Unix microseconds.

// MarshalQueries serializes a list of query strings to bytes.
func MarshalQueries(queries []string) []byte {
	size := varint.Int.Size(len(queries))
	for _, q := range queries {
		size += ord.String.Size(q)
	}
	buf := make([]byte, size)
	n := varint.Int.Marshal(len(queries), buf)
	for _, q := range queries {
		n += ord.String.Marshal(q, buf[n:])
	}
	return buf
}

// UnmarshalQueries deserializes a list of query strings.
func UnmarshalQueries(data []byte) ([]string, error) {
	count, n, err := unmarshalCount(data)
	if err != nil {
		return nil, err
	}
	queries := make([]string, 0, count)
	for i := 0; i < count; i++ {
		q, m, err := ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: query %d: %w", ErrSerializationFailed, i, err)
		}
		n += m
		queries = append(queries, q)
	}
	return queries, nil
}

// MarshalQueryRecords serializes search history entries to bytes.
func MarshalQueryRecords(records []core.QueryRecord) []byte {
	size := varint.Int.Size(len(records))
	for _, r := range records {
		size += core.QueryRecordMUS.Size(r)
	}
	buf := make([]byte, size)
	n := varint.Int.Marshal(len(records), buf)
	for _, r := range records {
		n += core.QueryRecordMUS.Marshal(r, buf[n:])
	}
	return buf
}

// UnmarshalQueryRecords deserializes search history entries.
func UnmarshalQueryRecords(data []byte) ([]core.QueryRecord, error) {
	count, n, err := unmarshalCount(data)
	if err != nil {
		return nil, err
	}
	records := make([]core.QueryRecord, 0, count)
	for i := 0; i < count; i++ {
		record, m, err := core.QueryRecordMUS.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrSerializationFailed, i, err)
		}
		n += m
		records = append(records, record)
	}
	return records, nil
}

func unmarshalCount(data []byte) (int, int, error) {
	if len(data) == 0 {
		return 0, 0, ErrTruncatedData
	}
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	// Every entry takes at least one byte, so a count larger than the
	// remaining input can only come from corrupt data.
	if count < 0 || count > len(data)-n {
		return 0, 0, ErrTruncatedData
	}
	return count, n, nil
}
