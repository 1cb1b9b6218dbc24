package token

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec("test-secret")
	require.NoError(t, err)
	return c
}

func TestIssueDecodeRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	for i := 0; i < 200; i++ {
		id := uuid.NewString()
		tok, err := c.Issue(id)
		require.NoError(t, err)

		claims, err := c.Decode(tok)
		require.NoError(t, err)
		assert.Equal(t, id, claims.UserID)
	}
}

func TestIssueShape(t *testing.T) {
	c := newTestCodec(t)
	fixed := time.UnixMilli(1700000000123)
	c.now = func() time.Time { return fixed }

	id := uuid.NewString()
	tok, err := c.Issue(id)
	require.NoError(t, err)

	parts := strings.Split(tok, Delimiter)
	require.Len(t, parts, 8)
	assert.Equal(t, Prefix, parts[0])
	assert.Equal(t, id, strings.Join(parts[2:7], Delimiter))
	assert.Equal(t, "1700000000123", parts[7])

	claims, err := c.Decode(tok)
	require.NoError(t, err)
	assert.True(t, claims.IssuedAt.Equal(fixed))
}

func TestIssueRejectsNonUUID(t *testing.T) {
	c := newTestCodec(t)

	for _, id := range []string{"", "42", "not-a-uuid", "{" + uuid.NewString() + "}"} {
		_, err := c.Issue(id)
		assert.ErrorIs(t, err, ErrInvalidUserID, "id %q", id)
	}
}

func TestDecodeTooFewSegments(t *testing.T) {
	c := newTestCodec(t)

	cases := []string{
		"",
		"malformed",
		"bt-abc",
		"a-b-c-d-e-f",
		"bt-00-11111111-2222-3333-4444",
	}
	for _, s := range cases {
		_, err := c.Decode(s)
		assert.ErrorIs(t, err, ErrMalformedStructure, "input %q", s)
	}
}

func TestDecodeRejectsForgedUser(t *testing.T) {
	c := newTestCodec(t)

	tok, err := c.Issue(uuid.NewString())
	require.NoError(t, err)

	parts := strings.Split(tok, Delimiter)
	forged := strings.Join(append(parts[:2:2], append(strings.Split(uuid.NewString(), Delimiter), parts[7])...), Delimiter)

	_, err = c.Decode(forged)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestDecodeRejectsOtherSecret(t *testing.T) {
	c := newTestCodec(t)
	other, err := NewCodec("another-secret")
	require.NoError(t, err)

	tok, err := other.Issue(uuid.NewString())
	require.NoError(t, err)

	_, err = c.Decode(tok)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestDecodeStructuralFailures(t *testing.T) {
	c := newTestCodec(t)
	id := uuid.NewString()
	tok, err := c.Issue(id)
	require.NoError(t, err)
	parts := strings.Split(tok, Delimiter)

	cases := map[string]string{
		"wrong prefix":  "xx" + strings.TrimPrefix(tok, Prefix),
		"extra segment": tok + "-1",
		"non-hex mac":   strings.Join(append([]string{Prefix, "zz"}, parts[2:]...), Delimiter),
		"legacy shape":  "dummy-token-" + id + "-1700000000000",
		"not a uuid":    "bt-00-aaaa-bbbb-cccc-dddd-eeee-1",
	}
	for name, s := range cases {
		_, err := c.Decode(s)
		assert.ErrorIs(t, err, ErrMalformedStructure, name)
	}
}

func TestDecodeToleratesBadTimestamp(t *testing.T) {
	c := newTestCodec(t)
	id := uuid.NewString()

	payload := id + Delimiter + "notanumber"
	mac, err := c.sign(payload)
	require.NoError(t, err)

	claims, err := c.Decode(Prefix + Delimiter + mac + Delimiter + payload)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.True(t, claims.IssuedAt.IsZero())
}

func TestDecodeWithoutTimestamp(t *testing.T) {
	c := newTestCodec(t)
	id := uuid.NewString()

	mac, err := c.sign(id)
	require.NoError(t, err)

	claims, err := c.Decode(Prefix + Delimiter + mac + Delimiter + id)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
}

func TestNewCodecEmptySecret(t *testing.T) {
	_, err := NewCodec("")
	assert.ErrorIs(t, err, ErrEmptySecret)
}
