package physics

import (
	"math"
	"testing"

	"github.com/san-kum/accretion/internal/dynamo"
)

func TestNoise_Active(t *testing.T) {
	n := Noise{Every: 10, Chance: 0.1, Amplitude: 0.05}
	if !n.Active(0) || !n.Active(20) {
		t.Error("noise should be active on multiples of Every")
	}
	if n.Active(7) {
		t.Error("noise should be inactive between multiples")
	}

	if (Noise{Every: 10, Chance: 0, Amplitude: 0.05}).Active(10) {
		t.Error("zero chance must disable noise")
	}
	if (Noise{}).Enabled() {
		t.Error("zero value must be disabled")
	}
}

func TestNoise_KickBounded(t *testing.T) {
	n := Noise{Every: 1, Chance: 1, Amplitude: 0.05}
	rng := newRNG()

	for i := 0; i < 200; i++ {
		v := n.Kick(dynamo.Vec{}, 2, rng)
		if math.Abs(v.X) > 0.05 || math.Abs(v.Y) > 0.05 {
			t.Fatalf("kick %v exceeds amplitude", v)
		}
		if v.Z != 0 {
			t.Fatalf("2D kick moved Z: %v", v)
		}
	}
}
