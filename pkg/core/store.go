package core

import "context"

// Store persists at most one TokenRecord per configured location.
//
// Load reports an absent record as (nil, nil). Save replaces the record as a
// unit. Clear removes it and is idempotent, so clearing an absent record is
// not an error.
type Store interface {
	Load(ctx context.Context) (*TokenRecord, error)
	Save(ctx context.Context, record *TokenRecord) error
	Clear(ctx context.Context) error
}
