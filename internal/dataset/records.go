// Orrery - High-Precision Ephemeris and Attitude Query Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orrery

package dataset

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tomtom215/orrery/internal/frames"
	"github.com/tomtom215/orrery/internal/linalg"
	"github.com/tomtom215/orrery/internal/rotation"
)

const (
	secondsPerDay     = 86400.0
	secondsPerCentury = 36525.0 * secondsPerDay
)

// reader is a cursor over a record payload that latches the first
// error instead of panicking on truncated input.
type reader struct {
	data []byte
	err  error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.data) < n {
		r.err = fmt.Errorf("need %d bytes, %d remain", n, len(r.data))
		return nil
	}
	out := r.data[:n]
	r.data = r.data[n:]
	return out
}

func (r *reader) f64() float64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func (r *reader) i32() int {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int(int32(binary.LittleEndian.Uint32(b)))
}

func (r *reader) u16() int {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return int(binary.LittleEndian.Uint16(b))
}

func (r *reader) u8() int {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return int(b[0])
}

func (r *reader) str() string {
	n := r.u8()
	return string(r.take(n))
}

func (r *reader) finish() error {
	if r.err != nil {
		return r.err
	}
	if len(r.data) != 0 {
		return fmt.Errorf("%d trailing bytes", len(r.data))
	}
	return nil
}

func appendF64(buf []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
}

func appendI32(buf []byte, v int) []byte {
	return binary.LittleEndian.AppendUint32(buf, uint32(int32(v)))
}

func appendStr(buf []byte, s string) []byte {
	buf = append(buf, byte(len(s)))
	return append(buf, s...)
}

// PhaseAngle is a polynomial of an angle in degrees plus optional
// nutation/precession trig coefficients, exactly as tabulated in text
// planetary constant kernels. The polynomial variable is centuries
// past J2000 TDB for pole angles and days for the prime meridian.
type PhaseAngle struct {
	OffsetDeg float64
	RateDeg   float64
	AccelDeg  float64
	Coeffs    []float64
}

// EvaluateDeg evaluates the polynomial at the given factor (centuries
// or days past J2000, depending on which angle this is).
func (p PhaseAngle) EvaluateDeg(factor float64) float64 {
	return p.OffsetDeg + p.RateDeg*factor + p.AccelDeg*factor*factor
}

func (p PhaseAngle) appendTo(buf []byte) []byte {
	buf = appendF64(buf, p.OffsetDeg)
	buf = appendF64(buf, p.RateDeg)
	buf = appendF64(buf, p.AccelDeg)
	buf = append(buf, byte(len(p.Coeffs)))
	for _, c := range p.Coeffs {
		buf = appendF64(buf, c)
	}
	return buf
}

func readPhaseAngle(r *reader) PhaseAngle {
	p := PhaseAngle{
		OffsetDeg: r.f64(),
		RateDeg:   r.f64(),
		AccelDeg:  r.f64(),
	}
	n := r.u8()
	if n > 0 {
		p.Coeffs = make([]float64, n)
		for i := range p.Coeffs {
			p.Coeffs[i] = r.f64()
		}
	}
	return p
}

// PlanetaryRecord holds the derived constants of one body: its
// gravitational parameter, shape, and low fidelity orientation
// polynomials relative to its parent frame.
type PlanetaryRecord struct {
	ObjectID int
	ParentID int

	MuKm3S2 float64
	HasMu   bool

	Shape    frames.Ellipsoid
	HasShape bool

	PoleRA        *PhaseAngle
	PoleDec       *PhaseAngle
	PrimeMeridian *PhaseAngle

	// NutPrecAngles are the system phase angles referenced by the
	// trig coefficients of this body (or of its satellites).
	NutPrecAngles []PhaseAngle
}

func (p PlanetaryRecord) RecordID() int      { return p.ObjectID }
func (p PlanetaryRecord) RecordName() string { return "" }

const (
	planetaryHasMu = 1 << iota
	planetaryHasShape
	planetaryHasPoleRA
	planetaryHasPoleDec
	planetaryHasPrimeMeridian
)

func (p PlanetaryRecord) appendBinary(buf []byte) []byte {
	buf = appendI32(buf, p.ObjectID)
	buf = appendI32(buf, p.ParentID)

	var flags byte
	if p.HasMu {
		flags |= planetaryHasMu
	}
	if p.HasShape {
		flags |= planetaryHasShape
	}
	if p.PoleRA != nil {
		flags |= planetaryHasPoleRA
	}
	if p.PoleDec != nil {
		flags |= planetaryHasPoleDec
	}
	if p.PrimeMeridian != nil {
		flags |= planetaryHasPrimeMeridian
	}
	buf = append(buf, flags)

	if p.HasMu {
		buf = appendF64(buf, p.MuKm3S2)
	}
	if p.HasShape {
		buf = appendF64(buf, p.Shape.SemiMajorEquatorialKm)
		buf = appendF64(buf, p.Shape.SemiMinorEquatorialKm)
		buf = appendF64(buf, p.Shape.PolarRadiusKm)
	}
	for _, angle := range []*PhaseAngle{p.PoleRA, p.PoleDec, p.PrimeMeridian} {
		if angle != nil {
			buf = angle.appendTo(buf)
		}
	}
	buf = append(buf, byte(len(p.NutPrecAngles)))
	for _, angle := range p.NutPrecAngles {
		buf = angle.appendTo(buf)
	}
	return buf
}

func (p *PlanetaryRecord) unmarshalBinary(data []byte) error {
	r := &reader{data: data}
	*p = PlanetaryRecord{
		ObjectID: r.i32(),
		ParentID: r.i32(),
	}
	flags := byte(r.u8())
	if flags&planetaryHasMu != 0 {
		p.MuKm3S2 = r.f64()
		p.HasMu = true
	}
	if flags&planetaryHasShape != 0 {
		p.Shape = frames.Ellipsoid{
			SemiMajorEquatorialKm: r.f64(),
			SemiMinorEquatorialKm: r.f64(),
			PolarRadiusKm:         r.f64(),
		}
		p.HasShape = true
	}
	if flags&planetaryHasPoleRA != 0 {
		a := readPhaseAngle(r)
		p.PoleRA = &a
	}
	if flags&planetaryHasPoleDec != 0 {
		a := readPhaseAngle(r)
		p.PoleDec = &a
	}
	if flags&planetaryHasPrimeMeridian != 0 {
		a := readPhaseAngle(r)
		p.PrimeMeridian = &a
	}
	n := r.u8()
	if n > 0 {
		p.NutPrecAngles = make([]PhaseAngle, n)
		for i := range p.NutPrecAngles {
			p.NutPrecAngles[i] = readPhaseAngle(r)
		}
	}
	return r.finish()
}

// Frame returns the body-fixed frame described by this record with
// its constants attached.
func (p PlanetaryRecord) Frame() frames.Frame {
	f := frames.New(p.ObjectID, p.ObjectID)
	if p.HasMu {
		f = f.WithMu(p.MuKm3S2)
	}
	if p.HasShape {
		f = f.WithShape(p.Shape)
	}
	return f
}

// dcmToParent evaluates the IAU-style pole and twist model at the
// epoch. The system record supplies the shared nutation/precession
// angles (a satellite references its planet's system terms).
func (p PlanetaryRecord) dcmToParent(epochET float64, system PlanetaryRecord) linalg.Mat3 {
	if p.PoleRA == nil && p.PoleDec == nil && p.PrimeMeridian == nil {
		return linalg.Identity3()
	}

	centuries := epochET / secondsPerCentury
	days := epochET / secondsPerDay

	variableRad := make([]float64, len(system.NutPrecAngles))
	for i, angle := range system.NutPrecAngles {
		variableRad[i] = angle.EvaluateDeg(centuries) * math.Pi / 180
	}

	var raRad, decRad, twistRad float64
	if p.PoleRA != nil {
		deg := p.PoleRA.EvaluateDeg(centuries)
		for i, c := range p.PoleRA.Coeffs {
			if i < len(variableRad) {
				deg += c * math.Sin(variableRad[i])
			}
		}
		raRad = deg*math.Pi/180 + math.Pi/2
	}
	if p.PoleDec != nil {
		deg := p.PoleDec.EvaluateDeg(centuries)
		for i, c := range p.PoleDec.Coeffs {
			if i < len(variableRad) {
				deg += c * math.Cos(variableRad[i])
			}
		}
		decRad = math.Pi/2 - deg*math.Pi/180
	}
	if p.PrimeMeridian != nil {
		deg := p.PrimeMeridian.EvaluateDeg(days)
		for i, c := range p.PrimeMeridian.Coeffs {
			if i < len(variableRad) {
				deg += c * math.Sin(variableRad[i])
			}
		}
		twistRad = deg * math.Pi / 180
	}

	return rotation.R3(twistRad, 0, 0).Rot.
		Mul(rotation.R1(decRad, 0, 0).Rot).
		Mul(rotation.R3(raRad, 0, 0).Rot)
}

// RotationToParent computes the rotation from the parent frame to this
// body-fixed frame. The time derivative comes from a central finite
// difference over two seconds, which is the accuracy bound of this
// low fidelity model anyway.
func (p PlanetaryRecord) RotationToParent(epochET float64, system PlanetaryRecord) rotation.DCM {
	if p.PoleRA == nil && p.PoleDec == nil && p.PrimeMeridian == nil {
		return rotation.IdentityDCM(p.ParentID, p.ObjectID)
	}
	pre := p.dcmToParent(epochET-1, system)
	post := p.dcmToParent(epochET+1, system)
	return rotation.DCM{
		Rot:   p.dcmToParent(epochET, system),
		RotDt: post.Add(pre.Scale(-1)).Scale(0.5),
		HasDt: true,
		From:  p.ParentID,
		To:    p.ObjectID,
	}
}

// SpacecraftRecord holds spacecraft constants: masses and the areas
// and coefficients of the force models.
type SpacecraftRecord struct {
	ObjectID int
	Name     string

	DryMassKg  float64
	FuelMassKg float64
	HasMass    bool

	SrpAreaM2 float64
	SrpCoeff  float64
	HasSrp    bool

	DragAreaM2 float64
	DragCoeff  float64
	HasDrag    bool
}

func (s SpacecraftRecord) RecordID() int      { return s.ObjectID }
func (s SpacecraftRecord) RecordName() string { return s.Name }

const (
	spacecraftHasMass = 1 << iota
	spacecraftHasSrp
	spacecraftHasDrag
)

func (s SpacecraftRecord) appendBinary(buf []byte) []byte {
	buf = appendI32(buf, s.ObjectID)
	buf = appendStr(buf, s.Name)

	var flags byte
	if s.HasMass {
		flags |= spacecraftHasMass
	}
	if s.HasSrp {
		flags |= spacecraftHasSrp
	}
	if s.HasDrag {
		flags |= spacecraftHasDrag
	}
	buf = append(buf, flags)

	if s.HasMass {
		buf = appendF64(buf, s.DryMassKg)
		buf = appendF64(buf, s.FuelMassKg)
	}
	if s.HasSrp {
		buf = appendF64(buf, s.SrpAreaM2)
		buf = appendF64(buf, s.SrpCoeff)
	}
	if s.HasDrag {
		buf = appendF64(buf, s.DragAreaM2)
		buf = appendF64(buf, s.DragCoeff)
	}
	return buf
}

func (s *SpacecraftRecord) unmarshalBinary(data []byte) error {
	r := &reader{data: data}
	*s = SpacecraftRecord{
		ObjectID: r.i32(),
		Name:     r.str(),
	}
	flags := byte(r.u8())
	if flags&spacecraftHasMass != 0 {
		s.DryMassKg = r.f64()
		s.FuelMassKg = r.f64()
		s.HasMass = true
	}
	if flags&spacecraftHasSrp != 0 {
		s.SrpAreaM2 = r.f64()
		s.SrpCoeff = r.f64()
		s.HasSrp = true
	}
	if flags&spacecraftHasDrag != 0 {
		s.DragAreaM2 = r.f64()
		s.DragCoeff = r.f64()
		s.HasDrag = true
	}
	return r.finish()
}

// TotalMassKg returns the wet mass.
func (s SpacecraftRecord) TotalMassKg() float64 {
	return s.DryMassKg + s.FuelMassKg
}

// EulerParameterRecord is a fixed rotation between two frames stored
// as a quaternion, typically an instrument or structural alignment.
type EulerParameterRecord struct {
	ID   int
	Name string

	W, X, Y, Z float64
	FromID     int
	ToID       int
}

func (e EulerParameterRecord) RecordID() int      { return e.ID }
func (e EulerParameterRecord) RecordName() string { return e.Name }

func (e EulerParameterRecord) appendBinary(buf []byte) []byte {
	buf = appendI32(buf, e.ID)
	buf = appendStr(buf, e.Name)
	buf = appendF64(buf, e.W)
	buf = appendF64(buf, e.X)
	buf = appendF64(buf, e.Y)
	buf = appendF64(buf, e.Z)
	buf = appendI32(buf, e.FromID)
	return appendI32(buf, e.ToID)
}

func (e *EulerParameterRecord) unmarshalBinary(data []byte) error {
	r := &reader{data: data}
	*e = EulerParameterRecord{
		ID:     r.i32(),
		Name:   r.str(),
		W:      r.f64(),
		X:      r.f64(),
		Y:      r.f64(),
		Z:      r.f64(),
		FromID: r.i32(),
		ToID:   r.i32(),
	}
	return r.finish()
}

// Quaternion returns the stored rotation.
func (e EulerParameterRecord) Quaternion() rotation.Quaternion {
	return rotation.NewQuaternion(e.W, e.X, e.Y, e.Z, e.FromID, e.ToID)
}

// TerrainMaskPoint is one azimuth sector of a location's horizon
// profile.
type TerrainMaskPoint struct {
	AzimuthDeg       float64
	ElevationMaskDeg float64
}

// LocationRecord is a named ground location.
type LocationRecord struct {
	ID   int
	Name string

	LatitudeDeg   float64
	LongitudeDeg  float64
	HeightKm      float64
	EphemerisID   int
	OrientationID int

	// TerrainMask is ordered by ascending azimuth; empty means an
	// unobstructed horizon.
	TerrainMask []TerrainMaskPoint
}

func (l LocationRecord) RecordID() int      { return l.ID }
func (l LocationRecord) RecordName() string { return l.Name }

func (l LocationRecord) appendBinary(buf []byte) []byte {
	buf = appendI32(buf, l.ID)
	buf = appendStr(buf, l.Name)
	buf = appendF64(buf, l.LatitudeDeg)
	buf = appendF64(buf, l.LongitudeDeg)
	buf = appendF64(buf, l.HeightKm)
	buf = appendI32(buf, l.EphemerisID)
	buf = appendI32(buf, l.OrientationID)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(l.TerrainMask)))
	for _, m := range l.TerrainMask {
		buf = appendF64(buf, m.AzimuthDeg)
		buf = appendF64(buf, m.ElevationMaskDeg)
	}
	return buf
}

func (l *LocationRecord) unmarshalBinary(data []byte) error {
	r := &reader{data: data}
	*l = LocationRecord{
		ID:            r.i32(),
		Name:          r.str(),
		LatitudeDeg:   r.f64(),
		LongitudeDeg:  r.f64(),
		HeightKm:      r.f64(),
		EphemerisID:   r.i32(),
		OrientationID: r.i32(),
	}
	n := r.u16()
	if n > 0 {
		l.TerrainMask = make([]TerrainMaskPoint, n)
		for i := range l.TerrainMask {
			l.TerrainMask[i] = TerrainMaskPoint{
				AzimuthDeg:       r.f64(),
				ElevationMaskDeg: r.f64(),
			}
		}
	}
	return r.finish()
}

// ElevationMaskDeg returns the horizon mask at the given azimuth: the
// mask of the sector whose azimuth is the greatest one at or below the
// query, wrapping around from the last sector to north.
func (l LocationRecord) ElevationMaskDeg(azimuthDeg float64) float64 {
	if len(l.TerrainMask) == 0 {
		return 0
	}
	az := math.Mod(azimuthDeg, 360)
	if az < 0 {
		az += 360
	}
	mask := l.TerrainMask[len(l.TerrainMask)-1].ElevationMaskDeg
	for _, m := range l.TerrainMask {
		if m.AzimuthDeg <= az {
			mask = m.ElevationMaskDeg
		}
	}
	return mask
}
