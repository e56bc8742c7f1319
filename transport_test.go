/*
Copyright © 2019 the MPDATA authors.
This file is part of MPDATA.

MPDATA is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

MPDATA is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with MPDATA.  If not, see <http://www.gnu.org/licenses/>.
*/

package mpdata

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

// TestCourants checks the conversion of winds to face Courant numbers
// on a grid with non-uniform layer thicknesses.
func TestCourants(t *testing.T) {
	const testTolerance = 1.e-12

	d := NewDomain(4, 3, 3, 1000, 100)
	copy(d.Dz.Elements, []float64{100, 200, 400})
	d.UniformWind(2, 3, 1.2)

	s, err := NewSolver(d, Config{Order: 2})
	if err != nil {
		t.Fatal(err)
	}
	s.courants(d, 50)

	// Horizontal faces use the uniform horizontal spacing.
	for i, c := range s.cu.Elements {
		if different(c, 0.1, testTolerance) {
			t.Errorf("cu[%d]=%g (it should equal %g)", i, c, 0.1)
		}
	}
	for i, c := range s.cv.Elements {
		if different(c, 0.15, testTolerance) {
			t.Errorf("cv[%d]=%g (it should equal %g)", i, c, 0.15)
		}
	}
	// Vertical faces use the thickness-weighted spacing at each face:
	// 150 m and 300 m at the interior faces, 400 m at the lid.
	wantW := []float64{0.4, 0.2, 0.15}
	plane := d.Ny * d.Nx
	for k := 0; k < d.Nz; k++ {
		for ji := 0; ji < plane; ji++ {
			c := s.cw.Elements[k*plane+ji]
			if different(c, wantW[k], testTolerance) {
				t.Errorf("layer %d: cw=%g (it should equal %g)", k, c, wantW[k])
			}
		}
	}
}

// TestCourantsDensity checks the density weighting of the face Courant
// numbers against hand-computed face-to-layer-mean density ratios.
func TestCourantsDensity(t *testing.T) {
	const testTolerance = 1.e-12

	d := NewDomain(3, 2, 2, 1000, 500)
	d.UniformWind(2, 2, 3)
	copy(d.Rho.Elements, []float64{
		1, 2, 3, // layer 0, row 0
		2, 3, 4, // layer 0, row 1; layer mean 2.5
		2, 2, 2, // layer 1, row 0
		2, 2, 2, // layer 1, row 1; layer mean 2
	})

	s, err := NewSolver(d, Config{Order: 2, AdvectDensity: true})
	if err != nil {
		t.Fatal(err)
	}
	s.courants(d, 50) // unweighted Courant numbers 0.1, 0.1, 0.3

	wantU := []float64{0.06, 0.1, 0.1, 0.14, 0.1, 0.1, 0.1, 0.1}
	for i, want := range wantU {
		if different(s.cu.Elements[i], want, testTolerance) {
			t.Errorf("cu[%d]=%g (it should equal %g)", i, s.cu.Elements[i], want)
		}
	}
	wantV := []float64{0.06, 0.1, 0.14, 0.1, 0.1, 0.1}
	for i, want := range wantV {
		if different(s.cv.Elements[i], want, testTolerance) {
			t.Errorf("cv[%d]=%g (it should equal %g)", i, s.cv.Elements[i], want)
		}
	}
	// The interior z faces divide by the mean of the two layer means
	// (2.25); the lid faces divide by the top layer's own mean.
	wantW := []float64{
		0.2, 4.0 / 15.0, 1.0 / 3.0,
		4.0 / 15.0, 1.0 / 3.0, 0.4,
		0.3, 0.3, 0.3,
		0.3, 0.3, 0.3,
	}
	for i, want := range wantW {
		if different(s.cw.Elements[i], want, testTolerance) {
			t.Errorf("cw[%d]=%g (it should equal %g)", i, s.cw.Elements[i], want)
		}
	}
}

func TestTransported(t *testing.T) {
	tests := []struct {
		scheme Scheme
		want   []int
	}{
		{scheme: Kessler, want: []int{IQv, IQc, IQr, IQs, ITheta}},
		{scheme: Lin, want: []int{IQv, IQc, IQr, IQs, ITheta, IQi, IQg}},
		{scheme: Morrison, want: []int{IQv, IQc, IQr, IQs, ITheta, IQi, IQg, INi, INr}},
	}
	for _, test := range tests {
		got := transported(test.scheme)
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("%v: transported=%v (it should equal %v)", test.scheme, got, test.want)
		}
	}
}

// TestStepSchemeSelectsScalars checks that Step only advects the
// scalars transported under the configured microphysics scheme.
func TestStepSchemeSelectsScalars(t *testing.T) {
	d := NewDomain(8, 1, 1, 1000, 500)
	d.UniformWind(5, 0, 0)
	d.Scalars[IQv].Set(10, 0, 0, 3)
	d.Scalars[INi].Set(10, 0, 0, 3)

	s, err := NewSolver(d, Config{Order: 1, Scheme: Lin})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Step(d, 100); err != nil {
		t.Fatal(err)
	}
	for i, v := range d.Scalars[INi].Elements {
		var want float64
		if i == 3 {
			want = 10
		}
		if v != want {
			t.Errorf("Lin: ni[%d]=%g (it should equal %g)", i, v, want)
		}
	}

	d2 := NewDomain(8, 1, 1, 1000, 500)
	d2.UniformWind(5, 0, 0)
	d2.Scalars[IQv].Set(10, 0, 0, 3)
	d2.Scalars[INi].Set(10, 0, 0, 3)
	s2, err := NewSolver(d2, Config{Order: 1, Scheme: Morrison})
	if err != nil {
		t.Fatal(err)
	}
	if err := s2.Step(d2, 100); err != nil {
		t.Fatal(err)
	}
	for i, v := range d2.Scalars[INi].Elements {
		if v != d2.Scalars[IQv].Elements[i] {
			t.Errorf("Morrison: ni[%d]=%g (it should equal qv[%d]=%g)",
				i, v, i, d2.Scalars[IQv].Elements[i])
		}
	}
}

func TestStepRotationAndCount(t *testing.T) {
	d := NewDomain(4, 4, 2, 1000, 500)
	s, err := NewSolver(d, Config{Order: 1})
	if err != nil {
		t.Fatal(err)
	}
	wantRotation := []int{1, 2, 0, 1}
	for n := 0; n < 4; n++ {
		if err := s.Step(d, 60); err != nil {
			t.Fatal(err)
		}
		if s.rotation != wantRotation[n] {
			t.Errorf("after step %d: rotation=%d (it should equal %d)",
				n+1, s.rotation, wantRotation[n])
		}
	}
	if s.Steps() != 4 {
		t.Errorf("Steps()=%d (it should equal 4)", s.Steps())
	}
}

// TestStepDebugCeiling checks that a value pushed above the ceiling
// aborts the step with a TransportError, and that the scalars advected
// before the failing one keep their new values.
func TestStepDebugCeiling(t *testing.T) {
	d := NewDomain(8, 1, 1, 1000, 500)
	d.UniformWind(5, 0, 0) // Courant number 0.5 at dt=100
	d.Scalars[IQv].Set(10, 0, 0, 3)
	for i := range d.Scalars[IQc].Elements {
		d.Scalars[IQc].Elements[i] = 2000
	}

	s, err := NewSolver(d, Config{Order: 1, Debug: true})
	if err != nil {
		t.Fatal(err)
	}
	err = s.Step(d, 100)
	if err == nil {
		t.Fatal("Step should have failed the ceiling check")
	}
	terr, ok := err.(*TransportError)
	if !ok {
		t.Fatalf("error type %T (it should be *TransportError)", err)
	}
	if terr.Field != "qc" {
		t.Errorf("Field=%s (it should equal qc)", terr.Field)
	}
	if terr.Flags != flagCeiling {
		t.Errorf("Flags=%d (it should equal %d)", terr.Flags, flagCeiling)
	}
	if terr.Step != 0 {
		t.Errorf("Step=%d (it should equal 0)", terr.Step)
	}
	if s.Steps() != 0 {
		t.Errorf("Steps()=%d (it should equal 0)", s.Steps())
	}

	// Water vapor was advected before the failure.
	wantQv := []float64{0, 0, 0, 5, 5, 0, 0, 0}
	for i, want := range wantQv {
		if d.Scalars[IQv].Elements[i] != want {
			t.Errorf("qv[%d]=%g (it should equal %g)", i, d.Scalars[IQv].Elements[i], want)
		}
	}

	// A higher ceiling admits the same field.
	d2 := NewDomain(8, 1, 1, 1000, 500)
	d2.UniformWind(5, 0, 0)
	for i := range d2.Scalars[IQc].Elements {
		d2.Scalars[IQc].Elements[i] = 2000
	}
	s2, err := NewSolver(d2, Config{Order: 1, Debug: true,
		Bounds: Bounds{NegTol: 1.e-12, Ceiling: 1.e4}})
	if err != nil {
		t.Fatal(err)
	}
	if err := s2.Step(d2, 100); err != nil {
		t.Errorf("Step with raised ceiling: %v", err)
	}
}

// TestStepDebugNegativePreMsgs checks that a problem predating the
// step is reported to Msgs and tolerated.
func TestStepDebugNegativePreMsgs(t *testing.T) {
	d := NewDomain(5, 1, 1, 1000, 500)
	d.UniformWind(5, 0, 0)
	copy(d.Scalars[IQv].Elements, []float64{5, -1.e-13, 5, 5, 5})

	s, err := NewSolver(d, Config{Order: 1, Debug: true})
	if err != nil {
		t.Fatal(err)
	}
	msgs := new(bytes.Buffer)
	s.Msgs = msgs
	if err := s.Step(d, 100); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if s.Steps() != 1 {
		t.Errorf("Steps()=%d (it should equal 1)", s.Steps())
	}
	if !strings.Contains(msgs.String(), "qv") || !strings.Contains(msgs.String(), "continuing") {
		t.Errorf("message %q should name the field and say the step continued", msgs.String())
	}
}

func TestTransportErrorMessage(t *testing.T) {
	err := &TransportError{Field: "qc", Flags: 2, Step: 7}
	want := "mpdata: transport of qc failed sanity checks at step 7 (flags 2)"
	if err.Error() != want {
		t.Errorf("Error()=%q (it should equal %q)", err.Error(), want)
	}
}
