package codec

import (
	"fmt"

	lzstring "github.com/daku10/go-lz-string"
)

type lzStringCodec struct{}

// LZString returns the MV codec: LZ-String compressToBase64 over the JSON
// text. Output is plain base64 and safe for any text medium.
func LZString() Codec {
	return lzStringCodec{}
}

func (lzStringCodec) Name() string {
	return "lzstring"
}

func (c lzStringCodec) Encode(snapshot *Snapshot) (string, error) {
	if snapshot == nil {
		return "", nil
	}
	text, err := MarshalText(snapshot)
	if err != nil {
		return "", err
	}
	blob, err := lzstring.CompressToBase64(string(text))
	if err != nil {
		return "", fmt.Errorf("codec: %s compress: %w", c.Name(), err)
	}
	return blob, nil
}

func (c lzStringCodec) Decode(blob string) (*Snapshot, error) {
	if blob == "" {
		return nil, nil
	}
	text, err := lzstring.DecompressFromBase64(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %s decompress: %w", ErrCorrupt, c.Name(), err)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: %s decompress produced no data", ErrCorrupt, c.Name())
	}
	return UnmarshalText(c.Name(), []byte(text))
}
