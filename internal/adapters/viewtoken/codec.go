// Package viewtoken signs a visitor's view ledger into the client-held cookie value.
package viewtoken

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"

	"devhub/internal/config"
	"devhub/internal/core/view"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// MaxTokenLen bounds the signed token so that name=value stays under the 4096 byte browser cookie limit.
const MaxTokenLen = 4000

// entrySize is a raw post UUID followed by a big-endian uint32 offset from ledgerClaims.Base.
const entrySize = 16 + 4

type ledgerClaims struct {
	Base    int64  `json:"b"`
	Entries string `json:"v"`
	jwt.StandardClaims
}

// CodecJWT stores the ledger as an HS256 token. A forged or truncated token decodes to an empty ledger.
type CodecJWT struct {
	key    []byte
	maxLen int
}

func NewCodecJWT(key []byte) *CodecJWT {
	return &CodecJWT{key: key, maxLen: MaxTokenLen}
}

// Encode signs the ledger. When the token would exceed MaxTokenLen the oldest entries are dropped.
func (c *CodecJWT) Encode(ledger view.Ledger) (string, error) {
	entries := ledger.Entries
	for {
		token, err := c.sign(entries)
		if err != nil {
			return "", err
		}
		if len(token) <= c.maxLen || len(entries) == 0 {
			return token, nil
		}
		// a packed entry costs about 36 token bytes after both base64 passes
		drop := (len(token)-c.maxLen)/36 + 1
		if drop > len(entries) {
			drop = len(entries)
		}
		entries = entries[drop:]
	}
}

func (c *CodecJWT) sign(entries []view.Entry) (string, error) {
	claims := &ledgerClaims{}
	if len(entries) > 0 {
		claims.Base = entries[0].At
		for _, e := range entries {
			if e.At < claims.Base {
				claims.Base = e.At
			}
		}
	}

	packed := make([]byte, 0, len(entries)*entrySize)
	for _, e := range entries {
		id, err := uuid.FromString(e.PostID)
		if err != nil {
			continue
		}
		offset := e.At - claims.Base
		if offset > math.MaxUint32 {
			offset = math.MaxUint32
		}
		packed = append(packed, id.Bytes()...)
		packed = binary.BigEndian.AppendUint32(packed, uint32(offset))
	}
	claims.Entries = base64.RawURLEncoding.EncodeToString(packed)

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

func (c *CodecJWT) Decode(raw string) view.Ledger {
	if raw == "" {
		return view.Ledger{}
	}

	claims := &ledgerClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.key, nil
	})
	if err != nil || !token.Valid {
		config.Logger.Debug("view token rejected", zap.Error(err))
		return view.Ledger{}
	}

	packed, err := base64.RawURLEncoding.DecodeString(claims.Entries)
	if err != nil || len(packed)%entrySize != 0 {
		config.Logger.Debug("view token payload malformed", zap.Error(err))
		return view.Ledger{}
	}

	entries := make([]view.Entry, 0, len(packed)/entrySize)
	for i := 0; i < len(packed); i += entrySize {
		id, err := uuid.FromBytes(packed[i : i+16])
		if err != nil {
			return view.Ledger{}
		}
		entries = append(entries, view.Entry{
			PostID: id.String(),
			At:     claims.Base + int64(binary.BigEndian.Uint32(packed[i+16:i+entrySize])),
		})
	}
	return view.Ledger{Entries: entries}
}
