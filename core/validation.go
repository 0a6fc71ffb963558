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


package core

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MinQueryLength is the shortest query that triggers a scan.
// Single characters match nearly every element and are filtered as noise.
const MinQueryLength = 2

// NormalizeQuery trims surrounding whitespace from raw input.
func NormalizeQuery(raw string) string {
	return strings.TrimSpace(raw)
}

// QueryLength returns the length of q in characters.
func QueryLength(q string) int {
	return utf8.RuneCountInString(q)
}

// ValidateQuery checks that an already normalized query is long enough to
// search for.
//
// Validation rules:
//   - Query must not be empty
//   - Query must be at least minLength characters
func ValidateQuery(q string, minLength int) error {
	if q == "" {
		return ErrEmptyQuery
	}
	if QueryLength(q) < minLength {
		return fmt.Errorf("%w: %q has %d characters, need %d", ErrQueryTooShort, q, QueryLength(q), minLength)
	}
	return nil
}

// ValidateQueryRecord validates a history entry.
//
// Validation rules:
//   - Query must satisfy ValidateQuery with minLength
//   - Timestamp must be set and not in the future
func ValidateQueryRecord(record *QueryRecord, minLength int) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidQueryRecord)
	}

	if err := ValidateQuery(record.Query, minLength); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidQueryRecord, err)
	}

	if !IsValidTimestamp(record.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidQueryRecord, ErrInvalidTimestamp)
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is set and not in the future.
func IsValidTimestamp(ts time.Time) bool {
	return !ts.IsZero() && !ts.After(time.Now())
}
