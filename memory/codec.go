package memory

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/brensch/wombats/arena"
)

// Blob layout before compression:
//
//	magic 'W', version, uvarint width, uvarint height, width*height content codes
//
// The whole thing is zstd-compressed and base64 encoded so it survives as a
// plain JSON string in saved-state.
const (
	blobMagic   = 'W'
	blobVersion = 1

	// maxCells bounds what Decode will allocate for a hostile blob.
	maxCells = 1 << 20
)

var (
	codecOnce sync.Once
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	codecErr  error
)

func codec() (*zstd.Encoder, *zstd.Decoder, error) {
	codecOnce.Do(func() {
		encoder, codecErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if codecErr != nil {
			return
		}
		decoder, codecErr = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0), zstd.WithDecoderMaxMemory(4*maxCells))
	})
	return encoder, decoder, codecErr
}

// Encode packs a global arena into an opaque string.
func Encode(a arena.Arena) (string, error) {
	size := a.Size()
	if err := arena.ValidateShape(a, size); err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}

	raw := make([]byte, 0, 2+2*binary.MaxVarintLen64+size.Width*size.Height)
	raw = append(raw, blobMagic, blobVersion)
	raw = binary.AppendUvarint(raw, uint64(size.Width))
	raw = binary.AppendUvarint(raw, uint64(size.Height))
	for _, row := range a {
		for _, t := range row {
			code, _ := t.Contents.Type.Code()
			raw = append(raw, code)
		}
	}

	enc, _, err := codec()
	if err != nil {
		return "", fmt.Errorf("encode: zstd: %w", err)
	}
	return base64.StdEncoding.EncodeToString(enc.EncodeAll(raw, nil)), nil
}

// Decode unpacks a string produced by Encode.
func Decode(blob string) (arena.Arena, error) {
	compressed, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("decode: base64: %v: %w", err, arena.ErrInvalidState)
	}
	_, dec, err := codec()
	if err != nil {
		return nil, fmt.Errorf("decode: zstd: %w", err)
	}
	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decode: zstd: %v: %w", err, arena.ErrInvalidState)
	}

	if len(raw) < 2 || raw[0] != blobMagic || raw[1] != blobVersion {
		return nil, fmt.Errorf("decode: bad header: %w", arena.ErrInvalidState)
	}
	raw = raw[2:]
	width, n := binary.Uvarint(raw)
	if n <= 0 {
		return nil, fmt.Errorf("decode: width: %w", arena.ErrInvalidState)
	}
	raw = raw[n:]
	height, n := binary.Uvarint(raw)
	if n <= 0 {
		return nil, fmt.Errorf("decode: height: %w", arena.ErrInvalidState)
	}
	raw = raw[n:]
	// Bound each side before multiplying so the product cannot wrap.
	if width == 0 || height == 0 || width > maxCells || height > maxCells/width || uint64(len(raw)) != width*height {
		return nil, fmt.Errorf("decode: %dx%d with %d cells: %w", width, height, len(raw), arena.ErrInvalidState)
	}

	out := make(arena.Arena, height)
	for y := range out {
		out[y] = make([]arena.Tile, width)
		for x := range out[y] {
			ct, err := arena.ContentFromCode(raw[uint64(y)*width+uint64(x)])
			if err != nil {
				return nil, fmt.Errorf("decode: %w", err)
			}
			out[y][x] = arena.Tile{Contents: arena.Contents{Type: ct}, X: x, Y: y}
		}
	}
	return out, nil
}
