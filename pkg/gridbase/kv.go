package gridbase

import (
	"context"
	"encoding/base64"
	"fmt"
)

const (
	kvKeyColumn   = "key"
	kvValueColumn = "value"
)

// KV is a key-value capability over arbitrary byte values. Any tabular
// backend satisfying this interface can replace the sheet-backed one.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close(ctx context.Context) error
}

// Codec converts byte values to and from the text-safe form stored in
// cells.
type Codec interface {
	Encode(data []byte) string
	Decode(data string) ([]byte, error)
}

type base64Codec struct{}

func (base64Codec) Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func (base64Codec) Decode(data string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(data)
}

// kvStore implements KV as a two-column table: one row per key, values
// base64-encoded.
type kvStore struct {
	store *RowStore
	codec Codec
}

// KV opens a key-value store backed by the named sheet.
func (db *DB) KV(ctx context.Context, sheet string) (KV, error) {
	store, err := db.RowStore(ctx, sheet, kvKeyColumn, kvValueColumn)
	if err != nil {
		return nil, err
	}
	return &kvStore{store: store, codec: base64Codec{}}, nil
}

// Get returns the value stored under key, or ErrKeyNotFound. More than one
// row for a key means Set's overwrite invariant was violated and is
// reported as an error rather than picking a row.
func (s *kvStore) Get(ctx context.Context, key string) ([]byte, error) {
	rows, err := s.store.Select(kvValueColumn).Where("key = ?", key).Exec(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	if len(rows) > 1 {
		return nil, fmt.Errorf("found %d rows for key %q, keys must be unique", len(rows), key)
	}

	switch v := rows[0][kvValueColumn].(type) {
	case nil:
		return []byte{}, nil
	case string:
		return s.codec.Decode(v)
	default:
		return nil, fmt.Errorf("unexpected stored value of type %T for key %q", v, key)
	}
}

// Set stores value under key, overwriting the existing row when the key is
// already present so a key never occupies more than one row.
func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	encoded := s.codec.Encode(value)

	changed, err := s.store.Update(map[string]interface{}{kvValueColumn: encoded}).
		Where("key = ?", key).
		Exec(ctx)
	if err != nil {
		return err
	}
	if changed > 0 {
		return nil
	}

	return s.store.Insert(map[string]interface{}{
		kvKeyColumn:   key,
		kvValueColumn: encoded,
	}).Exec(ctx)
}

// Delete removes the row for key; deleting an absent key is a no-op.
func (s *kvStore) Delete(ctx context.Context, key string) error {
	_, err := s.store.Delete().Where("key = ?", key).Exec(ctx)
	return err
}

// Close releases the scratch resources held by the backing row store.
func (s *kvStore) Close(ctx context.Context) error {
	return s.store.Close(ctx)
}
