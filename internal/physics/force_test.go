package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/accretion/internal/dynamo"
)

func TestForceLaw_Accel(t *testing.T) {
	law := ForceLaw{K: 0.2, Exponent: 1.5, CaptureRadius: 0.5}

	a, err := law.Accel(dynamo.Planar(5, 0))
	if err != nil {
		t.Fatalf("Accel: %v", err)
	}

	want := -0.2 / math.Pow(5, 1.5)
	if math.Abs(a.X-want) > 1e-12 {
		t.Errorf("a.X = %.6f, want %.6f", a.X, want)
	}
	if math.Abs(a.X+0.01789) > 1e-5 {
		t.Errorf("a.X = %.6f, want about -0.01789", a.X)
	}
	if a.Y != 0 || a.Z != 0 {
		t.Errorf("acceleration should be radial, got %+v", a)
	}
}

func TestForceLaw_PointsToOrigin(t *testing.T) {
	law := ForceLaw{K: 0.3, Exponent: 2, CaptureRadius: 1}
	positions := []dynamo.Vec{
		{X: 3, Y: 4},
		{X: -2, Y: 0, Z: 7},
		{X: 0, Y: -1.5, Z: -1.5},
	}

	for _, pos := range positions {
		a, err := law.Accel(pos)
		if err != nil {
			t.Fatalf("Accel(%v): %v", pos, err)
		}
		dot := a.X*pos.X + a.Y*pos.Y + a.Z*pos.Z
		if dot >= 0 {
			t.Errorf("Accel(%v) = %v does not point inward", pos, a)
		}
		r := dynamo.Norm(pos)
		if want := law.K / (r * r); math.Abs(dynamo.Norm(a)-want) > 1e-12 {
			t.Errorf("|Accel(%v)| = %v, want %v", pos, dynamo.Norm(a), want)
		}
	}
}

func TestForceLaw_DomainGuard(t *testing.T) {
	law := ForceLaw{K: 0.2, Exponent: 2, CaptureRadius: 0.5}

	tests := []struct {
		name string
		pos  dynamo.Vec
	}{
		{"origin", dynamo.Vec{}},
		{"inside", dynamo.Planar(0.3, 0)},
		{"just inside", dynamo.Planar(0.4999999, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := law.Accel(tt.pos)
			if !errors.Is(err, dynamo.ErrDomain) {
				t.Errorf("err = %v, want ErrDomain", err)
			}
			if a != (dynamo.Vec{}) {
				t.Errorf("a = %v, want zero", a)
			}
		})
	}
}

func TestForceLaw_CaptureBoundary(t *testing.T) {
	law := ForceLaw{K: 0.2, Exponent: 1.5, CaptureRadius: 0.5}

	if law.Captured(dynamo.Planar(0.5, 0)) {
		t.Error("particle exactly on the capture radius must not be captured")
	}
	if _, err := law.Accel(dynamo.Planar(0.5, 0)); err != nil {
		t.Errorf("Accel on the boundary: %v", err)
	}
	if !law.Captured(dynamo.Planar(0.3, 0)) {
		t.Error("particle inside the capture radius must be captured")
	}
}

func TestForceLaw_Validate(t *testing.T) {
	tests := []struct {
		name string
		law  ForceLaw
		ok   bool
	}{
		{"valid", ForceLaw{K: 0.2, Exponent: 2, CaptureRadius: 1}, true},
		{"zero radius", ForceLaw{K: 0.2, Exponent: 2, CaptureRadius: 0}, false},
		{"negative radius", ForceLaw{K: 0.2, Exponent: 2, CaptureRadius: -1}, false},
		{"negative k", ForceLaw{K: -0.2, Exponent: 2, CaptureRadius: 1}, false},
		{"zero exponent", ForceLaw{K: 0.2, Exponent: 0, CaptureRadius: 1}, false},
		{"nan k", ForceLaw{K: math.NaN(), Exponent: 2, CaptureRadius: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.law.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("err = %v, want ErrParameterBounds", err)
			}
		})
	}
}

func TestForceLaw_PotentialGradient(t *testing.T) {
	for _, exp := range []float64{1, 1.5, 2} {
		law := ForceLaw{K: 0.2, Exponent: exp, CaptureRadius: 0.5}
		r, h := 3.0, 1e-5
		grad := (law.Potential(r+h) - law.Potential(r-h)) / (2 * h)
		a, _ := law.Accel(dynamo.Planar(r, 0))
		if math.Abs(grad+a.X) > 1e-7 {
			t.Errorf("exponent %v: dPhi/dr = %v, want %v", exp, grad, -a.X)
		}
	}
}
