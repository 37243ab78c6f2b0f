package tiff

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"image/color"
	"io"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/exp/mmap"
)

// tileCacheSize is the number of decompressed tiles kept per image.
const tileCacheSize = 200

// Tiled is a tiled TIFF whose tiles are inflated on first use and kept in
// an LRU cache.
type Tiled struct {
	header      Header
	reader      *mmap.ReaderAt
	cache       *lru.Cache // tileIndex -> []byte
	tilesAcross int
}

func LoadTiled(path string) (*Tiled, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	t, err := newTiled(reader)
	if err != nil {
		reader.Close()
		return nil, err
	}
	return t, nil
}

func newTiled(reader *mmap.ReaderAt) (*Tiled, error) {
	header, err := parseHeader(reader)
	if err != nil {
		return nil, err
	}
	if len(header.TileOffsets) == 0 {
		return nil, fmt.Errorf("%w: no tiles", ErrUnsupported)
	}
	switch header.Compression {
	case CompressionNone, CompressionDeflate, CompressionOldDeflate:
	default:
		return nil, fmt.Errorf("%w: tiled compression %d", ErrUnsupported, header.Compression)
	}
	if err := header.validatePixels(); err != nil {
		return nil, err
	}
	if header.TileWidth <= 0 || header.TileHeight <= 0 {
		return nil, fmt.Errorf("%w: tile size %dx%d", ErrUnsupported, header.TileWidth, header.TileHeight)
	}
	if len(header.TileOffsets) != len(header.TileByteCounts) {
		return nil, fmt.Errorf("%w: %d tile offsets, %d byte counts",
			ErrUnsupported, len(header.TileOffsets), len(header.TileByteCounts))
	}

	across := (header.Width + header.TileWidth - 1) / header.TileWidth
	down := (header.Height + header.TileHeight - 1) / header.TileHeight
	if len(header.TileOffsets) < across*down {
		return nil, fmt.Errorf("%w: %d tiles, want %d", ErrUnsupported, len(header.TileOffsets), across*down)
	}
	tileBytes := header.TileWidth * header.TileHeight * header.SamplesPerPixel
	for i := 0; i < across*down; i++ {
		if header.Compression == CompressionNone && header.TileByteCounts[i] < tileBytes {
			return nil, fmt.Errorf("%w: tile %d is %d bytes, want %d",
				ErrTruncated, i, header.TileByteCounts[i], tileBytes)
		}
		if err := checkExtent(reader, "tile", i, header.TileOffsets[i], header.TileByteCounts[i]); err != nil {
			return nil, err
		}
	}

	cache, err := lru.New(tileCacheSize)
	if err != nil {
		return nil, err
	}

	return &Tiled{
		header:      header,
		reader:      reader,
		cache:       cache,
		tilesAcross: across,
	}, nil
}

func (t *Tiled) Header() Header {
	return t.header
}

func (t *Tiled) Close() error {
	t.cache.Purge()
	return t.reader.Close()
}

func (t *Tiled) ColorModel() color.Model {
	return t.header.colorModel()
}

func (t *Tiled) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.header.Width, t.header.Height)
}

func (t *Tiled) At(x, y int) color.Color {
	h := t.header
	if !(image.Point{x, y}.In(t.Bounds())) {
		return color.NRGBA{}
	}

	tileIndex := (y/h.TileHeight)*t.tilesAcross + x/h.TileWidth

	var tile []byte
	if val, ok := t.cache.Get(tileIndex); ok {
		tile = val.([]byte)
	} else {
		var err error
		if tile, err = t.loadTile(tileIndex); err != nil {
			panic(fmt.Sprintf("could not load tile %d: %v", tileIndex, err))
		}
		t.cache.Add(tileIndex, tile)
	}

	localX := x % h.TileWidth
	localY := y % h.TileHeight
	rowStride := h.TileWidth * h.SamplesPerPixel
	pixOffset := localY*rowStride + localX*h.SamplesPerPixel
	if pixOffset+h.SamplesPerPixel > len(tile) {
		panic(fmt.Sprintf("tile %d is %d bytes, pixel (%d,%d) needs %d", tileIndex, len(tile), x, y, pixOffset+h.SamplesPerPixel))
	}
	return h.colorAt(tile[pixOffset : pixOffset+h.SamplesPerPixel])
}

func (t *Tiled) loadTile(index int) ([]byte, error) {
	h := t.header
	buf := make([]byte, h.TileByteCounts[index])
	if _, err := t.reader.ReadAt(buf, int64(h.TileOffsets[index])); err != nil {
		return nil, err
	}

	if h.Compression == CompressionNone {
		return buf, nil
	}
	r, err := zlib.NewReader(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	defer r.Close()
	return io.ReadAll(r)
}
