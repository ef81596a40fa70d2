package kvstore

import (
	"context"
	"encoding/json"
	"errors"
)

// GetJSON loads key and decodes it into v. A missing key leaves v untouched
// and reports found=false without error.
func GetJSON(ctx context.Context, s Store, key string, v any) (found bool, err error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, errors.Join(ErrDecode, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Join(ErrEncode, err)
	}
	return s.Set(ctx, key, raw)
}
