package view

import "devhub/internal/core/view"

// TokenCodec turns a visitor's ledger into the opaque client-held token and back.
// Decode never fails: an unreadable token is an empty ledger.
type TokenCodec interface {
	Encode(ledger view.Ledger) (string, error)
	Decode(token string) view.Ledger
}

type ViewResult struct {
	Counted bool
	Token   string
}
