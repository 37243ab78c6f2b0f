package colors

import (
	"errors"
	"image/color"
	"math"
	"strings"
	"testing"
)

func TestU8ToF32(t *testing.T) {
	got := U8ToF32(New[uint8](255, 128, 64, 32))
	want := New[float32](1.0, 0.5019608, 0.2509804, 0.1254902)
	if got != want {
		t.Errorf("U8ToF32() = %v, want %v", got, want)
	}
}

func TestF32ToU8(t *testing.T) {
	tests := []struct {
		name string
		in   F32x4Rgba
		want U8x4Rgba
	}{
		{"exact", New[float32](1.0, 0.5019608, 0.2509804, 0), New[uint8](255, 128, 64, 0)},
		{"half rounds up", New[float32](0.5, 0, 0, 1), New[uint8](128, 0, 0, 255)},
		{"above one saturates", New[float32](1.5, 2, 0, 2), New[uint8](255, 255, 0, 255)},
		{"negative saturates", New[float32](-0.2, -1, 0, 1), New[uint8](0, 0, 0, 255)},
		{"nan is zero", New(float32(math.NaN()), 0, 0, 1), New[uint8](0, 0, 0, 255)},
		{"inf saturates", New(float32(math.Inf(1)), float32(math.Inf(-1)), 0, 1), New[uint8](255, 0, 0, 255)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := F32ToU8(tt.in); got != tt.want {
				t.Errorf("F32ToU8(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, v := range []uint8{0, 32, 64, 128, 255} {
		c := New(v, v, v, v)
		if got := F32ToU8(U8ToF32(c)); got != c {
			t.Errorf("round trip of %v = %v", c, got)
		}
	}

	// Every byte value survives, not only the representative ones.
	for i := 0; i < 256; i++ {
		v := uint8(i)
		c := New(v, 255-v, v/2, v)
		got, err := F32ToU8Strict(U8ToF32(c))
		if err != nil {
			t.Fatalf("strict round trip of %v: %v", c, err)
		}
		if got != c {
			t.Fatalf("strict round trip of %v = %v", c, got)
		}
	}
}

func TestF32ToU8Strict(t *testing.T) {
	tests := []struct {
		name    string
		in      F32x4Rgba
		channel string
	}{
		{"alpha above range", New[float32](0.5, 0.7, 0.9, 2.0), "alpha"},
		{"red below range", New[float32](-0.5, 0, 0, 1), "red"},
		{"green nan", New(0, float32(math.NaN()), 0, 1), "green"},
		{"blue inf", New(0, 0, float32(math.Inf(1)), 1), "blue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := F32ToU8Strict(tt.in)
			if !errors.Is(err, ErrChannelOverflow) {
				t.Fatalf("F32ToU8Strict(%v) error = %v, want ErrChannelOverflow", tt.in, err)
			}
			if !strings.Contains(err.Error(), tt.channel) {
				t.Errorf("error %q does not name the %s channel", err, tt.channel)
			}
		})
	}

	// Tiny negatives round to zero and are accepted.
	got, err := F32ToU8Strict(New[float32](-0.001, 0, 0, 1))
	if err != nil {
		t.Fatalf("F32ToU8Strict() unexpected error: %v", err)
	}
	if want := New[uint8](0, 0, 0, 255); got != want {
		t.Errorf("F32ToU8Strict() = %v, want %v", got, want)
	}
}

func TestFromColor(t *testing.T) {
	tests := []struct {
		name string
		in   color.Color
		want F32x4Rgba
	}{
		{"nrgba", color.NRGBA{R: 255, G: 0, B: 0, A: 128}, New[float32](1, 0, 0, 128.0/255)},
		{"opaque rgba", color.RGBA{R: 0, G: 0, B: 255, A: 255}, Blue()},
		{"transparent", color.RGBA{}, Transparent()},
		{"gray", color.Gray{Y: 255}, White()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromColor(tt.in); got != tt.want {
				t.Errorf("FromColor(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNRGBAInterop(t *testing.T) {
	c := New[uint8](10, 20, 30, 40)
	if got := FromNRGBA(ToNRGBA(c)); got != c {
		t.Errorf("FromNRGBA(ToNRGBA(%v)) = %v", c, got)
	}
}
