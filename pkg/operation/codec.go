package operation

import (
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// ErrDecode reports file bytes that are invalid in the configured encoding
var ErrDecode = errors.Base("invalid content for encoding")

// 🔤 Codec converts file bytes to text and back
type Codec struct {
	name string
	enc  encoding.Encoding
}

// NewCodec resolves an encoding by its WHATWG name or label ("utf-8",
// "latin1", "windows-1252", "shift_jis", ...). An empty name means utf-8.
func NewCodec(name string) (*Codec, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "utf-8"
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Errorf("unknown encoding %q: %w", name, err)
	}

	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = strings.ToLower(name)
	}

	return &Codec{name: canonical, enc: enc}, nil
}

func (c *Codec) isUTF8() bool {
	return c.name == "utf-8"
}

// Name returns the canonical encoding name
func (c *Codec) Name() string {
	return c.name
}

// Decode converts raw file bytes to a string
func (c *Codec) Decode(data []byte) (string, error) {
	if c.isUTF8() {
		// the utf-8 decoder would replace bad bytes with U+FFFD and corrupt the file on write
		if !utf8.Valid(data) {
			return "", errors.Errorf("%w %s", ErrDecode, c.name)
		}
		return string(data), nil
	}

	out, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", errors.Errorf("%w %s: %v", ErrDecode, c.name, err)
	}
	return string(out), nil
}

// Encode converts text back to bytes in the codec's encoding
func (c *Codec) Encode(s string) ([]byte, error) {
	if c.isUTF8() {
		return []byte(s), nil
	}

	out, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Errorf("encoding %s: %w", c.name, err)
	}
	return out, nil
}
