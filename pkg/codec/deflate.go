package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/text/encoding/charmap"
)

type deflateCodec struct {
	level int
}

// Deflate returns the MZ codec: zlib at the fastest level over the JSON text,
// rendered as a binary string. Every compressed byte becomes the rune with
// the same code point (U+0000..U+00FF), and the blob is that string in
// UTF-8, which is what a string-mode deflate output looks like once a text
// file write has encoded it.
func Deflate() Codec {
	return deflateCodec{level: zlib.BestSpeed}
}

func (deflateCodec) Name() string {
	return "deflate"
}

func (c deflateCodec) Encode(snapshot *Snapshot) (string, error) {
	if snapshot == nil {
		return "", nil
	}
	text, err := MarshalText(snapshot)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, c.level)
	if err != nil {
		return "", fmt.Errorf("codec: %s init: %w", c.Name(), err)
	}
	if _, err := zw.Write(text); err != nil {
		_ = zw.Close()
		return "", fmt.Errorf("codec: %s write: %w", c.Name(), err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("codec: %s close: %w", c.Name(), err)
	}

	binary, err := charmap.ISO8859_1.NewDecoder().Bytes(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("codec: %s binary string: %w", c.Name(), err)
	}
	return string(binary), nil
}

func (c deflateCodec) Decode(blob string) (*Snapshot, error) {
	if blob == "" {
		return nil, nil
	}
	raw, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(blob))
	if err != nil {
		return nil, fmt.Errorf("%w: %s binary string: %w", ErrCorrupt, c.Name(), err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s header: %w", ErrCorrupt, c.Name(), err)
	}
	defer zr.Close()

	text, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s inflate: %w", ErrCorrupt, c.Name(), err)
	}
	return UnmarshalText(c.Name(), text)
}
