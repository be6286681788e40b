// Copyright 2026 The Treewire Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/treewire/treewire/lib/tree"
)

// Compression identifies the compression algorithm of an envelope
// body. Tags are stored in the envelope header (1 byte); the values
// are protocol constants.
type Compression uint8

const (
	// CompressionNone stores the payload uncompressed. Also the
	// automatic fallback when a requested algorithm does not shrink
	// the payload.
	CompressionNone Compression = 0

	// CompressionLZ4 applies LZ4 block compression. Fast, modest
	// ratio; the default for payloads moved within one process or
	// host.
	CompressionLZ4 Compression = 1

	// CompressionZstd applies zstd at its default level. Better
	// ratio for the repetitive map-key structure of large trees;
	// use for payloads going to storage or across a network.
	CompressionZstd Compression = 2
)

// String returns the human-readable name of a compression tag.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// Envelope layout, all integers big-endian:
//
//	offset 0   magic "TWIR" (4 bytes)
//	offset 4   format version (1 byte, currently 1)
//	offset 5   compression tag (1 byte)
//	offset 6   uncompressed payload size (8 bytes)
//	offset 14  keyed BLAKE3 hash of the uncompressed payload (32 bytes)
//	offset 46  body
var envelopeMagic = [4]byte{'T', 'W', 'I', 'R'}

const (
	envelopeVersion    = 1
	envelopeHeaderSize = 4 + 1 + 1 + 8 + HashSize

	// maxExpansionRatio bounds how much larger the size header may
	// claim the payload is than the body that follows it. LZ4 block
	// compression tops out near 255:1 and zstd a little higher, so
	// 1024 accepts any envelope Encode can produce while keeping a
	// crafted size field from driving allocation.
	maxExpansionRatio = 1024
)

// errIncompressible reports that compression did not shrink the
// payload; Encode falls back to storing it uncompressed.
var errIncompressible = errors.New("wire: payload is incompressible")

// Encode marshals a record to deterministic CBOR and wraps it in an
// envelope using the requested compression. If the payload does not
// shrink under the requested algorithm it is stored uncompressed and
// the header says so; Decode never needs to know what was requested.
func Encode(record *tree.Record, compression Compression) ([]byte, error) {
	payload, err := Marshal(record)
	if err != nil {
		return nil, err
	}
	hash := PayloadHash(payload)

	body, err := compress(payload, compression)
	if errors.Is(err, errIncompressible) {
		body, compression = payload, CompressionNone
	} else if err != nil {
		return nil, err
	}

	out := make([]byte, 0, envelopeHeaderSize+len(body))
	out = append(out, envelopeMagic[:]...)
	out = append(out, envelopeVersion, byte(compression))
	out = binary.BigEndian.AppendUint64(out, uint64(len(payload)))
	out = append(out, hash[:]...)
	return append(out, body...), nil
}

// Decode unwraps an envelope, decompresses the payload, verifies its
// size and hash, and unmarshals the record.
func Decode(data []byte) (*tree.Record, error) {
	if len(data) < envelopeHeaderSize {
		return nil, fmt.Errorf("wire: envelope is %d bytes, want at least %d", len(data), envelopeHeaderSize)
	}
	if !bytes.Equal(data[:4], envelopeMagic[:]) {
		return nil, fmt.Errorf("wire: bad envelope magic %q", data[:4])
	}
	if version := data[4]; version != envelopeVersion {
		return nil, fmt.Errorf("wire: unsupported envelope version %d", version)
	}
	compression := Compression(data[5])
	size := binary.BigEndian.Uint64(data[6:14])
	var expected Hash
	copy(expected[:], data[14:envelopeHeaderSize])
	body := data[envelopeHeaderSize:]
	if size > uint64(len(body))*maxExpansionRatio || size > math.MaxInt {
		return nil, fmt.Errorf("wire: header claims a %d-byte payload from a %d-byte body", size, len(body))
	}

	payload, err := decompress(body, compression, int(size))
	if err != nil {
		return nil, err
	}
	if actual := PayloadHash(payload); actual != expected {
		return nil, fmt.Errorf("wire: payload hash mismatch, envelope is corrupt")
	}
	return Unmarshal(payload)
}

func compress(payload []byte, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return payload, nil
	case CompressionLZ4:
		return compressLZ4(payload)
	case CompressionZstd:
		return compressZstd(payload)
	default:
		return nil, fmt.Errorf("wire: unsupported compression tag: %d", compression)
	}
}

func decompress(body []byte, compression Compression, uncompressedSize int) ([]byte, error) {
	switch compression {
	case CompressionNone:
		if len(body) != uncompressedSize {
			return nil, fmt.Errorf("wire: uncompressed payload is %d bytes, header says %d",
				len(body), uncompressedSize)
		}
		return body, nil
	case CompressionLZ4:
		return decompressLZ4(body, uncompressedSize)
	case CompressionZstd:
		return decompressZstd(body, uncompressedSize)
	default:
		return nil, fmt.Errorf("wire: unsupported compression tag: %d", compression)
	}
}

// LZ4 compression: block mode.

func compressLZ4(payload []byte) ([]byte, error) {
	bound := lz4.CompressBlockBound(len(payload))
	destination := make([]byte, bound)

	written, err := lz4.CompressBlock(payload, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("wire: lz4 compress: %w", err)
	}
	// CompressBlock returns 0 when it judges the data incompressible.
	if written == 0 || written >= len(payload) {
		return nil, errIncompressible
	}
	return destination[:written], nil
}

func decompressLZ4(body []byte, uncompressedSize int) ([]byte, error) {
	destination := make([]byte, uncompressedSize)
	read, err := lz4.UncompressBlock(body, destination)
	if err != nil {
		return nil, fmt.Errorf("wire: lz4 decompress: %w", err)
	}
	if read != uncompressedSize {
		return nil, fmt.Errorf("wire: lz4 decompress: got %d bytes, header says %d", read, uncompressedSize)
	}
	return destination, nil
}

// zstdEncoder and zstdDecoder are reused across calls; both are safe
// for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("wire: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("wire: zstd decoder initialization failed: " + err.Error())
	}
}

func compressZstd(payload []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(payload, nil)
	if len(compressed) >= len(payload) {
		return nil, errIncompressible
	}
	return compressed, nil
}

func decompressZstd(body []byte, uncompressedSize int) ([]byte, error) {
	payload, err := zstdDecoder.DecodeAll(body, make([]byte, 0, uncompressedSize))
	if err != nil {
		return nil, fmt.Errorf("wire: zstd decompress: %w", err)
	}
	if len(payload) != uncompressedSize {
		return nil, fmt.Errorf("wire: zstd decompress: got %d bytes, header says %d",
			len(payload), uncompressedSize)
	}
	return payload, nil
}
