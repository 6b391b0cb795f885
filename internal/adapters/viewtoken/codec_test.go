package viewtoken

import (
	"testing"
	"time"

	"devhub/internal/config"
	"devhub/internal/core/view"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "post_views"

func newID(t *testing.T) string {
	t.Helper()
	return uuid.Must(uuid.NewV4()).String()
}

func fullLedger(t *testing.T, n int, now time.Time) view.Ledger {
	t.Helper()
	ledger := view.Ledger{}
	step := 24 * time.Hour / time.Duration(n)
	for i := 0; i < n; i++ {
		ledger = ledger.Append(newID(t), now.Add(-24*time.Hour+time.Duration(i)*step), n)
	}
	return ledger
}

func TestCodecJWT_RoundTrip(t *testing.T) {
	codec := NewCodecJWT([]byte("k1"))
	now := time.Unix(1_700_000_000, 0)
	ledger := view.Ledger{}.Append(newID(t), now, 10).Append(newID(t), now.Add(time.Second), 10)

	token, err := codec.Encode(ledger)
	require.NoError(t, err)

	got := codec.Decode(token)
	assert.Equal(t, ledger.Entries, got.Entries)
}

func TestCodecJWT_EmptyLedger(t *testing.T) {
	codec := NewCodecJWT([]byte("k1"))

	token, err := codec.Encode(view.Ledger{})
	require.NoError(t, err)
	assert.Empty(t, codec.Decode(token).Entries)
}

func TestCodecJWT_FullLedgerFitsInCookie(t *testing.T) {
	codec := NewCodecJWT([]byte("a-reasonably-long-view-token-secret"))
	ledger := fullLedger(t, config.DefaultViewMaxEntries, time.Now())

	token, err := codec.Encode(ledger)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(cookieName+"=")+len(token), 4096)
	assert.Equal(t, ledger.Entries, codec.Decode(token).Entries, "the default cap must not need trimming")
}

func TestCodecJWT_OversizedLedgerKeepsNewest(t *testing.T) {
	codec := NewCodecJWT([]byte("k1"))
	ledger := fullLedger(t, 4*config.DefaultViewMaxEntries, time.Now())

	token, err := codec.Encode(ledger)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(token), MaxTokenLen)

	got := codec.Decode(token).Entries
	require.NotEmpty(t, got)
	assert.Less(t, len(got), len(ledger.Entries))
	assert.Equal(t, ledger.Entries[len(ledger.Entries)-len(got):], got)
}

func TestCodecJWT_RejectsBadTokens(t *testing.T) {
	codec := NewCodecJWT([]byte("k1"))
	now := time.Unix(1_700_000_000, 0)
	token, err := NewCodecJWT([]byte("other")).Encode(view.Ledger{}.Append(newID(t), now, 10))
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"v": ""}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	short, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"b": 1, "v": "AAAA"}).
		SignedString([]byte("k1"))
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"empty":         "",
		"garbage":       "not.a.token",
		"foreign key":   token,
		"alg none":      none,
		"short payload": short,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, codec.Decode(raw).Entries)
		})
	}
}
