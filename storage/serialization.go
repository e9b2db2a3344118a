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
	"time"

	mus "github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/sectorvec/core"
)

var (
	vectorMUS   = ord.NewSliceSer[float32](raw.Float32)
	metadataMUS = ord.NewMapSer[string, string](ord.String, ord.String)
)

// companyEntryMUS is a hand-composed MUS serializer for CompanyEntry.
// Timestamps are stored as Unix microseconds.
type companyEntryMUS struct{}

// CompanyEntryMUS serializes CompanyEntry values for storage.
var CompanyEntryMUS companyEntryMUS

var _ mus.Serializer[core.CompanyEntry] = CompanyEntryMUS

func (companyEntryMUS) Marshal(e core.CompanyEntry, bs []byte) (n int) {
	n = ord.String.Marshal(e.ID, bs)
	n += ord.String.Marshal(e.Document, bs[n:])
	n += vectorMUS.Marshal(e.Vector, bs[n:])
	n += metadataMUS.Marshal(e.Metadata, bs[n:])
	n += varint.Uint64.Marshal(uint64(e.Fingerprint), bs[n:])
	n += varint.Int64.Marshal(e.InsertedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(e.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (companyEntryMUS) Unmarshal(bs []byte) (e core.CompanyEntry, n int, err error) {
	var n1 int
	if e.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if e.Document, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.Metadata, n1, err = metadataMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	var fp uint64
	if fp, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	e.Fingerprint = core.Fingerprint(fp)
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	e.InsertedAt = time.UnixMicro(micros).UTC()
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	e.UpdatedAt = time.UnixMicro(micros).UTC()
	return e, n, nil
}

func (companyEntryMUS) Size(e core.CompanyEntry) (size int) {
	size = ord.String.Size(e.ID)
	size += ord.String.Size(e.Document)
	size += vectorMUS.Size(e.Vector)
	size += metadataMUS.Size(e.Metadata)
	size += varint.Uint64.Size(uint64(e.Fingerprint))
	size += varint.Int64.Size(e.InsertedAt.UnixMicro())
	size += varint.Int64.Size(e.UpdatedAt.UnixMicro())
	return size
}

func (companyEntryMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = ord.String.Skip(bs); err != nil {
		return
	}
	if n1, err = ord.String.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = vectorMUS.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = metadataMUS.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = varint.Uint64.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = varint.Int64.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = varint.Int64.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	return n + n1, nil
}

// MarshalCompanyEntry serializes a CompanyEntry to bytes.
func MarshalCompanyEntry(entry *core.CompanyEntry) []byte {
	buf := make([]byte, CompanyEntryMUS.Size(*entry))
	CompanyEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalCompanyEntry deserializes a CompanyEntry from bytes.
func UnmarshalCompanyEntry(data []byte) (*core.CompanyEntry, error) {
	entry, _, err := CompanyEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
