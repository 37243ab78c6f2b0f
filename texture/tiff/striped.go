package tiff

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/exp/mmap"
)

// Striped is an uncompressed striped TIFF read on demand from a mapping.
type Striped struct {
	header Header
	reader *mmap.ReaderAt
}

func LoadStriped(path string) (*Striped, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	t, err := newStriped(reader)
	if err != nil {
		reader.Close()
		return nil, err
	}
	return t, nil
}

func newStriped(reader *mmap.ReaderAt) (*Striped, error) {
	header, err := parseHeader(reader)
	if err != nil {
		return nil, err
	}
	if len(header.StripOffsets) == 0 {
		return nil, fmt.Errorf("%w: no strips", ErrUnsupported)
	}
	if header.Compression != CompressionNone {
		return nil, fmt.Errorf("%w: striped compression %d", ErrUnsupported, header.Compression)
	}
	if err := header.validatePixels(); err != nil {
		return nil, err
	}
	if len(header.StripOffsets) != len(header.StripByteCounts) {
		return nil, fmt.Errorf("%w: %d strip offsets, %d byte counts",
			ErrUnsupported, len(header.StripOffsets), len(header.StripByteCounts))
	}
	if header.RowsPerStrip <= 0 || header.RowsPerStrip > header.Height {
		header.RowsPerStrip = header.Height
	}
	strips := (header.Height + header.RowsPerStrip - 1) / header.RowsPerStrip
	if len(header.StripOffsets) < strips {
		return nil, fmt.Errorf("%w: %d strips for %d rows", ErrUnsupported, len(header.StripOffsets), header.Height)
	}
	rowBytes := header.Width * header.SamplesPerPixel
	for i := 0; i < strips; i++ {
		rows := min(header.RowsPerStrip, header.Height-i*header.RowsPerStrip)
		if need := rows * rowBytes; header.StripByteCounts[i] < need {
			return nil, fmt.Errorf("%w: strip %d is %d bytes, want %d",
				ErrTruncated, i, header.StripByteCounts[i], need)
		}
		if err := checkExtent(reader, "strip", i, header.StripOffsets[i], header.StripByteCounts[i]); err != nil {
			return nil, err
		}
	}
	return &Striped{header: header, reader: reader}, nil
}

func (t *Striped) Header() Header {
	return t.header
}

func (t *Striped) Close() error {
	return t.reader.Close()
}

func (t *Striped) ColorModel() color.Model {
	return t.header.colorModel()
}

func (t *Striped) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.header.Width, t.header.Height)
}

func (t *Striped) At(x, y int) color.Color {
	h := t.header
	if !(image.Point{x, y}.In(t.Bounds())) {
		return color.NRGBA{}
	}

	strip := y / h.RowsPerStrip
	localY := y % h.RowsPerStrip
	idx := h.StripOffsets[strip] + (localY*h.Width+x)*h.SamplesPerPixel

	var buf [4]byte
	px := buf[:h.SamplesPerPixel]
	if _, err := t.reader.ReadAt(px, int64(idx)); err != nil {
		panic(fmt.Sprintf("could not read pixel at (%d,%d): %v", x, y, err))
	}
	return h.colorAt(px)
}
