// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

// Package daf reads NAIF double precision array files, the container
// format shared by ephemeris (SPK) and orientation (PCK) kernels.
//
// A DAF is a sequence of fixed 1024-byte records: one file record,
// then linked pairs of summary and name records, then data records of
// packed big- or little-endian float64 values. Parsing keeps the whole
// byte buffer and indexes into it; payload doubles are decoded on
// access, never copied up front. The source byte order is taken from
// the file record's format word, so a kernel written on either kind of
// machine decodes identically.
package daf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

// RecordLen is the fixed DAF record length in bytes.
const RecordLen = 1024

// Epoch tolerance when matching a summary time window, in seconds
// (100 ns). Kernel generators round interval bounds slightly
// differently, so an exact comparison would reject valid queries at
// record edges.
const epochTolS = 1e-7

var (
	// ErrParse reports a malformed byte layout. It is fatal to the one
	// file being loaded, never to the process.
	ErrParse = errors.New("daf: parse error")

	// ErrNotFound reports an (id, epoch) pair not covered by this
	// file. Callers may try another loaded kernel.
	ErrNotFound = errors.New("daf: not found")
)

// Kind is the DAF content kind from the identification word.
type Kind uint8

const (
	KindSPK Kind = iota + 1
	KindPCK
)

func (k Kind) String() string {
	switch k {
	case KindSPK:
		return "SPK"
	case KindPCK:
		return "PCK"
	default:
		return "unknown"
	}
}

// Summary is one segment summary: the time window, the packed integer
// components, and the segment name. The meaning of the integer
// components depends on the file kind; the first is always the object
// id the segment describes.
type Summary struct {
	Name         string
	StartEpochET float64
	EndEpochET   float64
	Ints         [6]int32
}

// ID returns the object id this segment describes.
func (s Summary) ID() int { return int(s.Ints[0]) }

// Covers reports whether the epoch lies in the segment window, with a
// small tolerance at both edges.
func (s Summary) Covers(epochET float64) bool {
	return epochET >= s.StartEpochET-epochTolS && epochET <= s.EndEpochET+epochTolS
}

// File is a parsed DAF. It owns the byte buffer for its lifetime and
// is immutable after Parse returns.
type File struct {
	bytes     []byte
	order     binary.ByteOrder
	kind      Kind
	nd        int
	ni        int
	summaries []Summary
}

// Parse validates the file record and walks the summary and name
// record chain, building the segment index without touching data
// records. The buffer must stay valid for the lifetime of the File.
func Parse(bytes []byte) (*File, error) {
	if len(bytes) < RecordLen {
		return nil, fmt.Errorf("%w: %d bytes is shorter than one record", ErrParse, len(bytes))
	}

	idWord := string(bytes[0:8])
	var kind Kind
	switch strings.TrimRight(idWord, " ") {
	case "DAF/SPK":
		kind = KindSPK
	case "DAF/PCK":
		kind = KindPCK
	default:
		return nil, fmt.Errorf("%w: unrecognized identification word %q", ErrParse, idWord)
	}

	var order binary.ByteOrder
	switch fmtWord := string(bytes[88:96]); fmtWord {
	case "LTL-IEEE":
		order = binary.LittleEndian
	case "BIG-IEEE":
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: unrecognized format word %q", ErrParse, fmtWord)
	}

	f := &File{
		bytes: bytes,
		order: order,
		kind:  kind,
		nd:    int(order.Uint32(bytes[8:12])),
		ni:    int(order.Uint32(bytes[12:16])),
	}

	if f.nd != 2 {
		return nil, fmt.Errorf("%w: %d summary doubles, want 2", ErrParse, f.nd)
	}
	if f.ni < 5 || f.ni > 6 {
		return nil, fmt.Errorf("%w: %d summary integers, want 5 or 6", ErrParse, f.ni)
	}

	fwrd := int(order.Uint32(bytes[76:80]))
	if err := f.scanSummaries(fwrd); err != nil {
		return nil, err
	}
	return f, nil
}

// summarySize returns the summary length in doubles: nd doubles plus
// the integers packed two per double.
func (f *File) summarySize() int {
	return f.nd + (f.ni+1)/2
}

func (f *File) scanSummaries(fwrd int) error {
	seen := map[int]bool{}
	for record := fwrd; record != 0; {
		if seen[record] {
			return fmt.Errorf("%w: summary record chain loops at record %d", ErrParse, record)
		}
		seen[record] = true

		start := (record - 1) * RecordLen
		if start < 0 || start+2*RecordLen > len(f.bytes) {
			return fmt.Errorf("%w: summary record %d out of range", ErrParse, record)
		}
		summaryRec := f.bytes[start : start+RecordLen]
		nameRec := f.bytes[start+RecordLen : start+2*RecordLen]

		next := int(f.readF64At(summaryRec, 0))
		nsum := int(f.readF64At(summaryRec, 2))
		size := f.summarySize()
		if nsum < 0 || 3*8+nsum*size*8 > RecordLen {
			return fmt.Errorf("%w: record %d declares %d summaries", ErrParse, record, nsum)
		}

		for i := 0; i < nsum; i++ {
			base := (3 + i*size) * 8
			var s Summary
			s.StartEpochET = f.readF64At(summaryRec, 3+i*size)
			s.EndEpochET = f.readF64At(summaryRec, 3+i*size+1)
			for j := 0; j < f.ni; j++ {
				off := base + f.nd*8 + j*4
				s.Ints[j] = int32(f.order.Uint32(summaryRec[off : off+4]))
			}
			nameOff := i * size * 8
			s.Name = strings.TrimRight(string(nameRec[nameOff:nameOff+size*8]), " \x00")
			f.summaries = append(f.summaries, s)
		}

		record = next
	}
	return nil
}

func (f *File) readF64At(rec []byte, word int) float64 {
	return math.Float64frombits(f.order.Uint64(rec[word*8 : word*8+8]))
}

// Kind returns the file content kind.
func (f *File) Kind() Kind { return f.kind }

// Len returns the buffer length in bytes.
func (f *File) Len() int { return len(f.bytes) }

// Summaries returns the segment index in file order. The slice is
// owned by the File and must not be mutated.
func (f *File) Summaries() []Summary { return f.summaries }

// SummaryAtEpoch returns the first summary for id whose window covers
// the epoch. Ids may repeat with disjoint windows, so every summary is
// examined, not just the first matching id.
func (f *File) SummaryAtEpoch(id int, epochET float64) (Summary, error) {
	found := false
	for _, s := range f.summaries {
		if s.ID() != id {
			continue
		}
		found = true
		if s.Covers(epochET) {
			return s, nil
		}
	}
	if found {
		return Summary{}, fmt.Errorf("%w: id %d loaded but epoch %v outside every window", ErrNotFound, id, epochET)
	}
	return Summary{}, fmt.Errorf("%w: id %d not in file", ErrNotFound, id)
}

// ReadF64 decodes the double at the given one-based DAF address.
func (f *File) ReadF64(addr int) (float64, error) {
	off := (addr - 1) * 8
	if addr < 1 || off+8 > len(f.bytes) {
		return 0, fmt.Errorf("%w: double address %d out of range", ErrParse, addr)
	}
	return math.Float64frombits(f.order.Uint64(f.bytes[off : off+8])), nil
}

// ReadF64s decodes len(dst) consecutive doubles starting at the given
// one-based DAF address.
func (f *File) ReadF64s(addr int, dst []float64) error {
	off := (addr - 1) * 8
	if addr < 1 || off+len(dst)*8 > len(f.bytes) {
		return fmt.Errorf("%w: double window [%d, %d) out of range", ErrParse, addr, addr+len(dst))
	}
	for i := range dst {
		dst[i] = math.Float64frombits(f.order.Uint64(f.bytes[off+i*8 : off+i*8+8]))
	}
	return nil
}
