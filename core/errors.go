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

import "errors"

// Domain validation errors
var (
	// ErrInvalidIndexRecord indicates an IndexRecord failed validation.
	ErrInvalidIndexRecord = errors.New("invalid index record")

	// ErrEmptyID indicates the ID field is empty.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrEmptyDocument indicates the Document field is empty.
	ErrEmptyDocument = errors.New("document cannot be empty")

	// ErrInvalidIssuer indicates an IssuerRecord has neither ticker nor CIK.
	ErrInvalidIssuer = errors.New("issuer must have a ticker or CIK")
)
