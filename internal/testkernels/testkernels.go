// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

// Package testkernels builds small synthetic DAF kernels in memory so
// the store and resolver tests never depend on real mission files. The
// builders emit either byte order, which is what makes the endianness
// equivalence tests possible.
package testkernels

import (
	"encoding/binary"
	"math"
)

const recordLen = 1024

// Segment describes one segment to place in a synthetic kernel. For
// ephemeris kernels Target/Center/Frame are the SPK integer fields;
// for orientation kernels Target is the frame id and Center the
// inertial frame id.
type Segment struct {
	Name     string
	Target   int
	Center   int
	Frame    int
	DataType int
	StartET  float64
	EndET    float64
	Data     []float64
}

// BuildSPK assembles an ephemeris kernel holding the given segments.
func BuildSPK(order binary.ByteOrder, segs []Segment) []byte {
	return build(order, "DAF/SPK ", 6, segs, func(s Segment, startIdx, endIdx int) [6]int32 {
		return [6]int32{
			int32(s.Target), int32(s.Center), int32(s.Frame),
			int32(s.DataType), int32(startIdx), int32(endIdx),
		}
	})
}

// BuildBPC assembles an orientation kernel holding the given segments.
func BuildBPC(order binary.ByteOrder, segs []Segment) []byte {
	return build(order, "DAF/PCK ", 5, segs, func(s Segment, startIdx, endIdx int) [6]int32 {
		return [6]int32{
			int32(s.Target), int32(s.Center), int32(s.DataType),
			int32(startIdx), int32(endIdx), 0,
		}
	})
}

func build(order binary.ByteOrder, idWord string, ni int, segs []Segment, ints func(Segment, int, int) [6]int32) []byte {
	summarySize := 2 + (ni+1)/2

	// Data records start after the file, summary, and name records.
	dataStartWord := 3*recordLen/8 + 1

	var payload []float64
	starts := make([]int, len(segs))
	ends := make([]int, len(segs))
	for i, s := range segs {
		starts[i] = dataStartWord + len(payload)
		payload = append(payload, s.Data...)
		ends[i] = dataStartWord + len(payload) - 1
	}

	dataBytes := len(payload) * 8
	dataRecords := (dataBytes + recordLen - 1) / recordLen
	buf := make([]byte, (3+dataRecords)*recordLen)

	// File record.
	copy(buf[0:8], idWord)
	order.PutUint32(buf[8:12], 2)
	order.PutUint32(buf[12:16], uint32(ni))
	copy(buf[16:76], pad("orrery synthetic kernel", 60))
	order.PutUint32(buf[76:80], 2) // fwrd
	order.PutUint32(buf[80:84], 2) // bwrd
	order.PutUint32(buf[84:88], uint32(dataStartWord+len(payload)))
	if order == binary.BigEndian {
		copy(buf[88:96], "BIG-IEEE")
	} else {
		copy(buf[88:96], "LTL-IEEE")
	}

	// Summary record: next, prev, count, then the packed summaries.
	sum := buf[recordLen : 2*recordLen]
	putF64(order, sum[0:8], 0)
	putF64(order, sum[8:16], 0)
	putF64(order, sum[16:24], float64(len(segs)))
	name := buf[2*recordLen : 3*recordLen]
	for i := range name {
		name[i] = ' '
	}

	for i, s := range segs {
		base := (3 + i*summarySize) * 8
		putF64(order, sum[base:base+8], s.StartET)
		putF64(order, sum[base+8:base+16], s.EndET)
		iv := ints(s, starts[i], ends[i])
		for j := 0; j < ni; j++ {
			order.PutUint32(sum[base+16+j*4:base+20+j*4], uint32(iv[j]))
		}
		copy(name[i*summarySize*8:(i+1)*summarySize*8], pad(s.Name, summarySize*8))
	}

	// Data records.
	for i, v := range payload {
		putF64(order, buf[3*recordLen+i*8:3*recordLen+i*8+8], v)
	}

	return buf
}

func putF64(order binary.ByteOrder, dst []byte, v float64) {
	order.PutUint64(dst, math.Float64bits(v))
}

func pad(s string, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = ' '
	}
	copy(out, s)
	return out
}

// Type2Data lays out a Chebyshev position segment: records of
// [midpoint, radius, x coeffs, y coeffs, z coeffs] followed by the
// four metadata doubles.
func Type2Data(initET, intervalS float64, coeffs [][3][]float64) []float64 {
	nCoeffs := len(coeffs[0][0])
	rsize := 2 + 3*nCoeffs
	var data []float64
	for i, rec := range coeffs {
		mid := initET + (float64(i)+0.5)*intervalS
		data = append(data, mid, intervalS/2)
		for axis := 0; axis < 3; axis++ {
			data = append(data, rec[axis]...)
		}
	}
	return append(data, initET, intervalS, float64(rsize), float64(len(coeffs)))
}

// Type3Data lays out a Chebyshev position and velocity segment with
// six coefficient sets per record.
func Type3Data(initET, intervalS float64, coeffs [][6][]float64) []float64 {
	nCoeffs := len(coeffs[0][0])
	rsize := 2 + 6*nCoeffs
	var data []float64
	for i, rec := range coeffs {
		mid := initET + (float64(i)+0.5)*intervalS
		data = append(data, mid, intervalS/2)
		for set := 0; set < 6; set++ {
			data = append(data, rec[set]...)
		}
	}
	return append(data, initET, intervalS, float64(rsize), float64(len(coeffs)))
}

// Type13Data lays out a Hermite unequal-step segment: position and
// velocity records, their epochs, no epoch directory, then the window
// size minus one and the record count.
func Type13Data(samples int, epochs []float64, states [][6]float64) []float64 {
	var data []float64
	for _, st := range states {
		data = append(data, st[:]...)
	}
	data = append(data, epochs...)
	return append(data, float64(samples-1), float64(len(states)))
}

// Type9Data lays out a Lagrange unequal-step segment: records, epochs,
// no epoch directory, then the polynomial degree and record count.
func Type9Data(degree int, epochs []float64, states [][6]float64) []float64 {
	var data []float64
	for _, st := range states {
		data = append(data, st[:]...)
	}
	data = append(data, epochs...)
	return append(data, float64(degree), float64(len(states)))
}
