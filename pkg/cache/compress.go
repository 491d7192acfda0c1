package cache

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Stored values start with a one-byte codec tag.
const (
	codecRaw  byte = 0
	codecZstd byte = 1
)

// minCompressSize is the smallest payload worth compressing.
const minCompressSize = 256

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// encodeValue frames data for storage, compressing it when that saves at
// least a tenth of its size.
func encodeValue(data []byte) []byte {
	if len(data) >= minCompressSize {
		enc := getZstdEncoder()
		out := enc.EncodeAll(data, []byte{codecZstd})
		zstdEncoderPool.Put(enc)
		if len(out)-1 < len(data)*9/10 {
			return out
		}
	}
	out := make([]byte, 1+len(data))
	out[0] = codecRaw
	copy(out[1:], data)
	return out
}

// decodeValue reverses encodeValue.
func decodeValue(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty cache value")
	}
	switch raw[0] {
	case codecRaw:
		return raw[1:], nil
	case codecZstd:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		return dec.DecodeAll(raw[1:], nil)
	default:
		return nil, fmt.Errorf("unknown cache codec %d", raw[0])
	}
}
