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

import "fmt"

// ValidateIndexRecord validates an IndexRecord according to domain rules.
//
// Validation rules:
//   - ID must not be empty (ticker, or CIK fallback)
//   - Document must not be empty
//
// NOT validated:
//   - Metadata (sector/industry lookups are best-effort and may be blank)
func ValidateIndexRecord(record *IndexRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidIndexRecord)
	}

	if record.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidIndexRecord, ErrEmptyID)
	}

	if record.Document == "" {
		return fmt.Errorf("%w: %w", ErrInvalidIndexRecord, ErrEmptyDocument)
	}

	return nil
}

// ValidateIssuer validates that an issuer carries at least one identifier.
func ValidateIssuer(issuer *IssuerRecord) error {
	if issuer == nil || issuer.ID() == "" {
		return ErrInvalidIssuer
	}
	return nil
}
