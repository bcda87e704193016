package operation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestNewCodec(t *testing.T) {
	tests := []struct {
		name     string
		given    string
		wantName string
		wantErr  bool
	}{
		{name: "default", given: "", wantName: "utf-8"},
		{name: "utf8_label", given: "UTF8", wantName: "utf-8"},
		{name: "latin1_label", given: "latin1", wantName: "windows-1252"},
		{name: "shift_jis", given: "shift_jis", wantName: "shift_jis"},
		{name: "unknown", given: "klingon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, err := NewCodec(tt.given)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown encoding")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, codec.Name())
		})
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	codec, err := NewCodec("windows-1252")
	require.NoError(t, err)

	text, err := codec.Decode([]byte("\x80 caf\xe9"))
	require.NoError(t, err)
	assert.Equal(t, "€ café", text)

	out, err := codec.Encode("€ café color")
	require.NoError(t, err)
	assert.Equal(t, []byte("\x80 caf\xe9 color"), out)

	_, err = codec.Encode("日本")
	assert.Error(t, err, "runes outside the charset cannot be encoded")
}

func TestCodec_UTF8(t *testing.T) {
	codec, err := NewCodec("utf-8")
	require.NoError(t, err)

	text, err := codec.Decode([]byte("naïve colour"))
	require.NoError(t, err)
	assert.Equal(t, "naïve colour", text)

	_, err = codec.Decode([]byte{'a', 0xff, 'b'})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))

	out, err := codec.Encode("naïve")
	require.NoError(t, err)
	assert.Equal(t, []byte("naïve"), out)
}
