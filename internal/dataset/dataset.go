// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

// Package dataset implements the compact binary container for derived
// constants: planetary bodies, spacecraft, Euler parameter frame
// offsets, and ground locations.
//
// The encoding is self describing: a magic word, a version tag, the
// record kind, length-prefixed records interleaved with their id/name
// lookup keys, and a trailing CRC32 over everything before it. A set
// decodes in one pass and is immutable afterwards; encode(decode(x))
// restores x byte for byte for every valid record.
package dataset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
)

const (
	magic = "ORRDSET\x00"

	// Version is the one container version this build reads/writes.
	Version = 1

	// KeyNameLen is the longest allowed lookup name.
	KeyNameLen = 32
)

var (
	// ErrDecode reports a malformed container or record layout.
	ErrDecode = errors.New("dataset: decode error")

	// ErrVersion reports a container written by an incompatible
	// version.
	ErrVersion = errors.New("dataset: unsupported version")

	// ErrChecksum reports a corrupt container.
	ErrChecksum = errors.New("dataset: checksum mismatch")

	// ErrNotFound reports a lookup key with no record.
	ErrNotFound = errors.New("dataset: not found")

	// ErrDuplicateKey reports two records sharing a lookup key.
	ErrDuplicateKey = errors.New("dataset: duplicate lookup key")

	// ErrBadKey reports an invalid lookup key on a record.
	ErrBadKey = errors.New("dataset: invalid lookup key")
)

// Kind tags the record type a container holds.
type Kind uint8

const (
	KindPlanetary Kind = iota + 1
	KindSpacecraft
	KindEulerParameters
	KindLocations
)

func (k Kind) String() string {
	switch k {
	case KindPlanetary:
		return "planetary"
	case KindSpacecraft:
		return "spacecraft"
	case KindEulerParameters:
		return "euler-parameters"
	case KindLocations:
		return "locations"
	default:
		return "unknown"
	}
}

// Record is the contract every stored record type satisfies. An id of
// zero means the record is only reachable by name; an empty name means
// only by id.
type Record interface {
	RecordID() int
	RecordName() string
	appendBinary(buf []byte) []byte
}

// recordPtr constrains the pointer side of a record type so DecodeSet
// can materialize values.
type recordPtr[T any] interface {
	*T
	unmarshalBinary(data []byte) error
}

// Set is a decoded, immutable collection of records of one kind with
// O(1) id and name lookup.
type Set[T Record] struct {
	kind    Kind
	records []T
	byID    map[int]int
	byName  map[string]int
}

// NewSet builds a set from records, validating lookup keys.
func NewSet[T Record](kind Kind, records []T) (*Set[T], error) {
	s := &Set[T]{
		kind:    kind,
		records: records,
		byID:    make(map[int]int, len(records)),
		byName:  make(map[string]int, len(records)),
	}
	for i, r := range records {
		id, name := r.RecordID(), r.RecordName()
		if len(name) > KeyNameLen {
			return nil, fmt.Errorf("%w: name %q exceeds %d bytes", ErrBadKey, name, KeyNameLen)
		}
		if id == 0 && name == "" {
			return nil, fmt.Errorf("%w: record %d has neither id nor name", ErrBadKey, i)
		}
		if id != 0 {
			if _, dup := s.byID[id]; dup {
				return nil, fmt.Errorf("%w: id %d", ErrDuplicateKey, id)
			}
			s.byID[id] = i
		}
		if name != "" {
			if _, dup := s.byName[name]; dup {
				return nil, fmt.Errorf("%w: name %q", ErrDuplicateKey, name)
			}
			s.byName[name] = i
		}
	}
	return s, nil
}

// Kind returns the record kind this set holds.
func (s *Set[T]) Kind() Kind { return s.kind }

// Len returns the number of records.
func (s *Set[T]) Len() int { return len(s.records) }

// Records returns the records in storage order. The slice is owned by
// the set and must not be mutated.
func (s *Set[T]) Records() []T { return s.records }

// GetByID returns the record with the given id.
func (s *Set[T]) GetByID(id int) (T, error) {
	if i, ok := s.byID[id]; ok {
		return s.records[i], nil
	}
	var zero T
	return zero, fmt.Errorf("%w: id %d in %s set", ErrNotFound, id, s.kind)
}

// GetByName returns the record with the given name.
func (s *Set[T]) GetByName(name string) (T, error) {
	if i, ok := s.byName[name]; ok {
		return s.records[i], nil
	}
	var zero T
	return zero, fmt.Errorf("%w: name %q in %s set", ErrNotFound, name, s.kind)
}

// Encode serializes the set. The output always round-trips through
// DecodeSet.
func (s *Set[T]) Encode() []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, magic...)
	buf = binary.LittleEndian.AppendUint16(buf, Version)
	buf = append(buf, byte(s.kind), 0)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.records)))

	for _, r := range s.records {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(r.RecordID())))
		name := r.RecordName()
		buf = append(buf, byte(len(name)))
		buf = append(buf, name...)

		lenAt := len(buf)
		buf = binary.LittleEndian.AppendUint32(buf, 0)
		buf = r.appendBinary(buf)
		binary.LittleEndian.PutUint32(buf[lenAt:lenAt+4], uint32(len(buf)-lenAt-4))
	}

	return binary.LittleEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf))
}

// DecodeSet parses a container of the expected kind, verifying the
// version tag and the trailing checksum before touching any record.
func DecodeSet[T Record, PT recordPtr[T]](data []byte, wantKind Kind) (*Set[T], error) {
	const headerLen = len(magic) + 2 + 2 + 4
	if len(data) < headerLen+4 {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the fixed layout", ErrDecode, len(data))
	}
	if string(data[:len(magic)]) != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrDecode)
	}

	body := data[:len(data)-4]
	wantSum := binary.LittleEndian.Uint32(data[len(data)-4:])
	if got := crc32.ChecksumIEEE(body); got != wantSum {
		return nil, fmt.Errorf("%w: computed %08x, stored %08x", ErrChecksum, got, wantSum)
	}

	if v := binary.LittleEndian.Uint16(data[8:10]); v != Version {
		return nil, fmt.Errorf("%w: %d, this build reads %d", ErrVersion, v, Version)
	}
	kind := Kind(data[10])
	if kind != wantKind {
		return nil, fmt.Errorf("%w: container holds %s records, want %s", ErrDecode, kind, wantKind)
	}

	count := int(binary.LittleEndian.Uint32(data[12:16]))
	records := make([]T, 0, count)
	rest := body[headerLen:]
	for i := 0; i < count; i++ {
		if len(rest) < 5 {
			return nil, fmt.Errorf("%w: truncated record %d", ErrDecode, i)
		}
		id := int(int32(binary.LittleEndian.Uint32(rest[:4])))
		nameLen := int(rest[4])
		rest = rest[5:]
		if len(rest) < nameLen+4 {
			return nil, fmt.Errorf("%w: truncated record %d key", ErrDecode, i)
		}
		name := string(rest[:nameLen])
		recLen := int(binary.LittleEndian.Uint32(rest[nameLen : nameLen+4]))
		rest = rest[nameLen+4:]
		if len(rest) < recLen {
			return nil, fmt.Errorf("%w: record %d declares %d bytes, %d remain", ErrDecode, i, recLen, len(rest))
		}

		var rec T
		if err := PT(&rec).unmarshalBinary(rest[:recLen]); err != nil {
			return nil, fmt.Errorf("%w: record %d (id %d, name %q): %v", ErrDecode, i, id, name, err)
		}
		if rec.RecordID() != id || rec.RecordName() != name {
			return nil, fmt.Errorf("%w: record %d keys disagree with payload", ErrDecode, i)
		}
		records = append(records, rec)
		rest = rest[recLen:]
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrDecode, len(rest))
	}

	return NewSet(kind, records)
}

// Typed aliases for the four supported sets.
type (
	PlanetarySet      = Set[PlanetaryRecord]
	SpacecraftSet     = Set[SpacecraftRecord]
	EulerParameterSet = Set[EulerParameterRecord]
	LocationSet       = Set[LocationRecord]
)

// NewPlanetarySet builds a planetary constants set.
func NewPlanetarySet(records []PlanetaryRecord) (*PlanetarySet, error) {
	return NewSet(KindPlanetary, records)
}

// DecodePlanetarySet parses a planetary constants container.
func DecodePlanetarySet(data []byte) (*PlanetarySet, error) {
	return DecodeSet[PlanetaryRecord, *PlanetaryRecord](data, KindPlanetary)
}

// NewSpacecraftSet builds a spacecraft constants set.
func NewSpacecraftSet(records []SpacecraftRecord) (*SpacecraftSet, error) {
	return NewSet(KindSpacecraft, records)
}

// DecodeSpacecraftSet parses a spacecraft constants container.
func DecodeSpacecraftSet(data []byte) (*SpacecraftSet, error) {
	return DecodeSet[SpacecraftRecord, *SpacecraftRecord](data, KindSpacecraft)
}

// NewEulerParameterSet builds a frame offset set.
func NewEulerParameterSet(records []EulerParameterRecord) (*EulerParameterSet, error) {
	return NewSet(KindEulerParameters, records)
}

// DecodeEulerParameterSet parses a frame offset container.
func DecodeEulerParameterSet(data []byte) (*EulerParameterSet, error) {
	return DecodeSet[EulerParameterRecord, *EulerParameterRecord](data, KindEulerParameters)
}

// NewLocationSet builds a ground location set.
func NewLocationSet(records []LocationRecord) (*LocationSet, error) {
	return NewSet(KindLocations, records)
}

// DecodeLocationSet parses a ground location container.
func DecodeLocationSet(data []byte) (*LocationSet, error) {
	return DecodeSet[LocationRecord, *LocationRecord](data, KindLocations)
}
