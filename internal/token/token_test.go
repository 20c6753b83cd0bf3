package token

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec([]byte("secret"))

	signed, err := codec.Encode(NewClaims("user-1", "session-1", time.Now().Add(15*time.Minute)))
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := codec.Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "session-1", claims.SessionID())
}

func TestCodec_Expired(t *testing.T) {
	codec := NewCodec([]byte("secret"))

	signed, err := codec.Encode(NewClaims("user-1", "session-1", time.Now().Add(-time.Minute)))
	require.NoError(t, err)

	_, err = codec.Decode(signed)
	assert.True(t, errors.Is(err, ErrTokenExpired))
}

func TestCodec_WrongSecret(t *testing.T) {
	signed, err := NewCodec([]byte("secret")).
		Encode(NewClaims("user-1", "session-1", time.Now().Add(15*time.Minute)))
	require.NoError(t, err)

	_, err = NewCodec([]byte("other")).Decode(signed)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestCodec_Malformed(t *testing.T) {
	codec := NewCodec([]byte("secret"))

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Decode(input)
		assert.True(t, errors.Is(err, ErrInvalidToken), "input %q", input)
	}
}

func TestCodec_RejectsUnsignedToken(t *testing.T) {
	// alg=none token carrying plausible claims
	unsigned := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." +
		"eyJzdWIiOiJ1c2VyLTEiLCJqdGkiOiJzZXNzaW9uLTEifQ."

	_, err := NewCodec([]byte("secret")).Decode(unsigned)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
