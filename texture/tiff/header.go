// Package tiff reads uncompressed and Deflate-compressed 8-bit TIFF layers
// straight from a memory-mapped file.
package tiff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"
)

// Header is the subset of the first IFD the readers need.
type Header struct {
	ByteOrder       binary.ByteOrder
	Width, Height   int
	SamplesPerPixel int
	BitsPerSample   []int
	Photometric     int
	Compression     int
	PlanarConfig    int
	ExtraSamples    []int

	// Strip layout
	RowsPerStrip    int
	StripOffsets    []int
	StripByteCounts []int

	// Tile layout
	TileWidth      int
	TileHeight     int
	TileOffsets    []int
	TileByteCounts []int
}

// https://www.loc.gov/preservation/digital/formats/content/tiff_tags.shtml
const (
	TagImageWidth                = 256
	TagImageLength               = 257
	TagBitsPerSample             = 258
	TagCompression               = 259
	TagPhotometricInterpretation = 262
	TagStripOffsets              = 273
	TagSamplesPerPixel           = 277
	TagRowsPerStrip              = 278
	TagStripByteCounts           = 279
	TagPlanarConfiguration       = 284
	TagTileWidth                 = 322
	TagTileLength                = 323
	TagTileOffsets               = 324
	TagTileByteCounts            = 325
	TagExtraSamples              = 338
)

const (
	CompressionNone       = 1
	CompressionDeflate    = 8
	CompressionOldDeflate = 32946

	PhotometricBlackIsZero = 1
	PhotometricRGB         = 2

	extraSamplesAssociated = 1

	typeByte  = 1
	typeShort = 3
	typeLong  = 4

	maxFieldCount = 1 << 24
)

var (
	ErrInvalidTiffHeader = errors.New("invalid TIFF header")
	ErrUnsupported       = errors.New("unsupported TIFF layout")

	// ErrTruncated marks strips or tiles that point past the end of the
	// file or hold fewer bytes than their pixels need.
	ErrTruncated = fmt.Errorf("%w: truncated pixel data", ErrUnsupported)
)

func parseHeader(reader io.ReaderAt) (Header, error) {
	read := func(offset int64, size int) ([]byte, error) {
		buf := make([]byte, size)
		_, err := reader.ReadAt(buf, offset)
		return buf, err
	}

	// Read 8-byte header
	header, err := read(0, 8)
	if err != nil {
		return Header{}, ErrInvalidTiffHeader
	}

	var bo binary.ByteOrder
	switch string(header[0:2]) {
	case "II":
		bo = binary.LittleEndian
	case "MM":
		bo = binary.BigEndian
	default:
		return Header{}, ErrInvalidTiffHeader
	}
	if bo.Uint16(header[2:4]) != 42 {
		return Header{}, ErrInvalidTiffHeader
	}
	ifdOffset := int64(bo.Uint32(header[4:8]))

	entryCountRaw, err := read(ifdOffset, 2)
	if err != nil {
		return Header{}, fmt.Errorf("reading IFD: %w", err)
	}
	numEntries := int(bo.Uint16(entryCountRaw))
	entriesRaw, err := read(ifdOffset+2, numEntries*12)
	if err != nil {
		return Header{}, fmt.Errorf("reading IFD entries: %w", err)
	}

	hdr := Header{
		ByteOrder:       bo,
		SamplesPerPixel: 1,
		Photometric:     -1,
		Compression:     CompressionNone,
		PlanarConfig:    1,
	}

	for i := 0; i < numEntries; i++ {
		entry := entriesRaw[i*12 : (i+1)*12]
		tag := bo.Uint16(entry[0:2])

		// Values of up to four bytes live in the entry itself.
		ints := func() ([]int, error) {
			typ := bo.Uint16(entry[2:4])
			count := bo.Uint32(entry[4:8])
			if count > maxFieldCount {
				return nil, fmt.Errorf("%w: tag %d has %d values", ErrUnsupported, tag, count)
			}
			var size int
			switch typ {
			case typeByte:
				size = 1
			case typeShort:
				size = 2
			case typeLong:
				size = 4
			default:
				return nil, fmt.Errorf("%w: tag %d has field type %d", ErrUnsupported, tag, typ)
			}
			n := int(count) * size
			raw := entry[8 : 8+min(n, 4)]
			if n > 4 {
				if raw, err = read(int64(bo.Uint32(entry[8:12])), n); err != nil {
					return nil, fmt.Errorf("reading tag %d: %w", tag, err)
				}
			}
			out := make([]int, count)
			for i := range out {
				switch size {
				case 1:
					out[i] = int(raw[i])
				case 2:
					out[i] = int(bo.Uint16(raw[i*2:]))
				default:
					out[i] = int(bo.Uint32(raw[i*4:]))
				}
			}
			return out, nil
		}
		first := func() (int, error) {
			v, err := ints()
			if err != nil {
				return 0, err
			}
			if len(v) == 0 {
				return 0, fmt.Errorf("%w: tag %d is empty", ErrUnsupported, tag)
			}
			return v[0], nil
		}

		switch tag {
		case TagImageWidth:
			hdr.Width, err = first()
		case TagImageLength:
			hdr.Height, err = first()
		case TagBitsPerSample:
			hdr.BitsPerSample, err = ints()
		case TagCompression:
			hdr.Compression, err = first()
		case TagPhotometricInterpretation:
			hdr.Photometric, err = first()
		case TagStripOffsets:
			hdr.StripOffsets, err = ints()
		case TagSamplesPerPixel:
			hdr.SamplesPerPixel, err = first()
		case TagRowsPerStrip:
			hdr.RowsPerStrip, err = first()
		case TagStripByteCounts:
			hdr.StripByteCounts, err = ints()
		case TagPlanarConfiguration:
			hdr.PlanarConfig, err = first()
		case TagTileWidth:
			hdr.TileWidth, err = first()
		case TagTileLength:
			hdr.TileHeight, err = first()
		case TagTileOffsets:
			hdr.TileOffsets, err = ints()
		case TagTileByteCounts:
			hdr.TileByteCounts, err = ints()
		case TagExtraSamples:
			hdr.ExtraSamples, err = ints()
		}
		if err != nil {
			return Header{}, err
		}
	}

	return hdr, nil
}

// validatePixels checks the pixel format both readers share: chunky 8-bit
// gray, gray+alpha, RGB or RGBA.
func (h Header) validatePixels() error {
	if h.Width <= 0 || h.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrUnsupported, h.Width, h.Height)
	}
	if h.PlanarConfig != 1 {
		return fmt.Errorf("%w: planar configuration %d", ErrUnsupported, h.PlanarConfig)
	}
	for _, b := range h.BitsPerSample {
		if b != 8 {
			return fmt.Errorf("%w: bits per sample %v", ErrUnsupported, h.BitsPerSample)
		}
	}
	switch h.Photometric {
	case PhotometricBlackIsZero:
		if h.SamplesPerPixel != 1 && h.SamplesPerPixel != 2 {
			return fmt.Errorf("%w: grayscale with %d samples", ErrUnsupported, h.SamplesPerPixel)
		}
	case PhotometricRGB:
		if h.SamplesPerPixel != 3 && h.SamplesPerPixel != 4 {
			return fmt.Errorf("%w: RGB with %d samples", ErrUnsupported, h.SamplesPerPixel)
		}
	default:
		return fmt.Errorf("%w: photometric interpretation %d", ErrUnsupported, h.Photometric)
	}
	return nil
}

func (h Header) associatedAlpha() bool {
	return len(h.ExtraSamples) > 0 && h.ExtraSamples[0] == extraSamplesAssociated
}

// colorAt decodes one pixel of SamplesPerPixel bytes.
func (h Header) colorAt(p []byte) color.Color {
	var r, g, b, a uint8
	switch h.SamplesPerPixel {
	case 1:
		r, g, b, a = p[0], p[0], p[0], 255
	case 2:
		r, g, b, a = p[0], p[0], p[0], p[1]
	case 3:
		r, g, b, a = p[0], p[1], p[2], 255
	default:
		r, g, b, a = p[0], p[1], p[2], p[3]
	}
	if h.associatedAlpha() {
		return color.RGBA{R: r, G: g, B: b, A: a}
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

func (h Header) colorModel() color.Model {
	if h.associatedAlpha() {
		return color.RGBAModel
	}
	return color.NRGBAModel
}

// checkExtent rejects strips or tiles that run past the end of the file.
func checkExtent(r interface{ Len() int }, kind string, i, offset, count int) error {
	if offset < 0 || count < 0 || offset+count > r.Len() {
		return fmt.Errorf("%w: %s %d at %d+%d exceeds file size %d",
			ErrTruncated, kind, i, offset, count, r.Len())
	}
	return nil
}
