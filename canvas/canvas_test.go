package canvas

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/echoflaresat/alphablend/blend"
	"github.com/echoflaresat/alphablend/colors"
)

var (
	red  = colors.New[float32](1, 0, 0, 0.5)
	blue = colors.New[float32](0, 0, 1, 0.5)
)

func squares(size int) (src, dst *Canvas) {
	src, dst = New(size, size), New(size, size)
	src.FillRect(image.Rect(size/4, 0, size, size*3/4), red)
	dst.FillRect(image.Rect(0, size/4, size*3/4, size), blue)
	return src, dst
}

func TestFillRectClips(t *testing.T) {
	c := New(4, 4)
	c.FillRect(image.Rect(2, 2, 10, 10), colors.White())

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := colors.Transparent()
			if x >= 2 && y >= 2 {
				want = colors.White()
			}
			if got := c.At(x, y); got != want {
				t.Errorf("At(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestSetAndClone(t *testing.T) {
	c := New(3, 2)
	c.Fill(colors.Black())
	c.Set(2, 1, colors.Red())

	d := c.Clone()
	d.Set(0, 0, colors.Green())

	if got := c.At(0, 0); got != colors.Black() {
		t.Errorf("Clone shares pixels: original At(0,0) = %v", got)
	}
	if got := d.At(2, 1); got != colors.Red() {
		t.Errorf("clone At(2,1) = %v, want red", got)
	}
	if got := c.Bounds(); got != image.Rect(0, 0, 3, 2) {
		t.Errorf("Bounds() = %v", got)
	}
}

func TestAtOutOfBoundsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("At outside the canvas did not panic")
		}
	}()
	New(2, 2).At(2, 0)
}

func TestCompositeMatchesPerPixel(t *testing.T) {
	src, dst := squares(16)

	for _, mode := range blend.Modes() {
		t.Run(mode.String(), func(t *testing.T) {
			out, err := Composite(context.Background(), src, dst, mode, 3)
			if err != nil {
				t.Fatalf("Composite() error: %v", err)
			}
			for i := range out.Pix {
				if want := mode.Apply(src.Pix[i], dst.Pix[i]); out.Pix[i] != want {
					t.Fatalf("pixel %d = %v, want %v", i, out.Pix[i], want)
				}
			}
		})
	}
}

func TestCompositeOverlap(t *testing.T) {
	src, dst := squares(8)
	out, err := Composite(context.Background(), src, dst, blend.SourceOver, 0)
	if err != nil {
		t.Fatal(err)
	}

	// (4,4) is covered by both squares.
	want := colors.New[float32](0.5, 0, 0.5, 0.5)
	if got := out.At(4, 4); got != want {
		t.Errorf("overlap = %v, want %v", got, want)
	}
	// (0,0) is covered by neither.
	if got := out.At(0, 0); got != colors.Transparent() {
		t.Errorf("empty corner = %v", got)
	}
}

func TestCompositeVisitsEveryPixelOnce(t *testing.T) {
	src, dst := squares(10)
	var calls atomic.Int64
	f := blend.Func(func(s, d colors.F32x4Rgba) colors.F32x4Rgba {
		calls.Add(1)
		return s
	})

	if _, err := Composite(context.Background(), src, dst, f, 4); err != nil {
		t.Fatal(err)
	}
	if got := calls.Load(); got != 100 {
		t.Errorf("blender called %d times, want 100", got)
	}
}

func TestCompositeSizeMismatch(t *testing.T) {
	_, err := Composite(context.Background(), New(2, 2), New(3, 2), blend.Plus, 1)
	if !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Composite() error = %v, want ErrSizeMismatch", err)
	}
}

func TestCompositeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src, dst := squares(8)
	out, err := Composite(ctx, src, dst, blend.SourceOver, 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Composite() error = %v, want context.Canceled", err)
	}
	if out != nil {
		t.Error("Composite() returned a canvas after cancellation")
	}
}

func TestImageRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 8, 7))
	img.SetNRGBA(5, 5, color.NRGBA{R: 255, A: 128})
	img.SetNRGBA(7, 6, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	c := FromImage(img)
	if c.Width != 3 || c.Height != 2 {
		t.Fatalf("FromImage size = %dx%d, want 3x2", c.Width, c.Height)
	}

	out := c.NRGBA()
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{R: 255, A: 128}) {
		t.Errorf("NRGBAAt(0,0) = %v", got)
	}
	if got := out.NRGBAAt(2, 1); got != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("NRGBAAt(2,1) = %v", got)
	}
}

func TestFromImageGeneric(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 1))
	img.SetGray(1, 0, color.Gray{Y: 255})

	c := FromImage(img)
	if got := c.At(0, 0); got != colors.Black() {
		t.Errorf("At(0,0) = %v, want opaque black", got)
	}
	if got := c.At(1, 0); got != colors.White() {
		t.Errorf("At(1,0) = %v, want white", got)
	}
}

func TestNRGBAStrict(t *testing.T) {
	c := New(2, 2)
	c.Fill(colors.New[float32](0.5, 0.5, 0.5, 1))

	if _, err := c.NRGBAStrict(); err != nil {
		t.Fatalf("NRGBAStrict() on in-range canvas: %v", err)
	}

	plus, err := Composite(context.Background(), c, c, blend.Plus, 1)
	if err != nil {
		t.Fatal(err)
	}
	_, err = plus.NRGBAStrict()
	if !errors.Is(err, colors.ErrChannelOverflow) {
		t.Fatalf("NRGBAStrict() error = %v, want ErrChannelOverflow", err)
	}
	if !strings.Contains(err.Error(), "pixel (0,0)") {
		t.Errorf("error %q does not name the pixel", err)
	}

	// The saturating path clamps instead.
	if got := plus.NRGBA().NRGBAAt(1, 1); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("saturated pixel = %v", got)
	}
}
