package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// decodeContentEncoding undoes the Content-Encoding of a response body.
// Identity and unknown encodings are returned unchanged.
func decodeContentEncoding(header http.Header, raw []byte) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(header.Get("Content-Encoding")))
	if len(raw) == 0 {
		return raw, nil
	}

	switch encoding {
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case "deflate":
		fr := flate.NewReader(bytes.NewReader(raw))
		defer fr.Close()
		return io.ReadAll(fr)
	case "zstd":
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		return dec.DecodeAll(raw, nil)
	default:
		return raw, nil
	}
}
