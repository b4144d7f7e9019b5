package store

import (
	"context"
	"fmt"
	"unicode/utf16"
)

// Usage reports how much space the stored values occupy, counted as
// UTF-16 text (two bytes per code unit).
type Usage struct {
	Bytes     int
	Kilobytes float64
	Megabytes float64
}

// String formats the usage with two decimals for KB and four for MB.
func (u Usage) String() string {
	return fmt.Sprintf("%d bytes (%.2f KB, %.4f MB)", u.Bytes, u.Kilobytes, u.Megabytes)
}

// StorageUsage sums the UTF-16 size of every key currently present.
func (s *Store) StorageUsage(ctx context.Context) (Usage, error) {
	total := 0
	for _, key := range allKeys {
		raw, ok, err := s.kv.Get(ctx, key)
		if err != nil {
			return Usage{}, fmt.Errorf("measuring %s: %w", key, err)
		}
		if ok {
			total += utf16Len(raw) * 2
		}
	}

	return Usage{
		Bytes:     total,
		Kilobytes: float64(total) / 1024,
		Megabytes: float64(total) / (1024 * 1024),
	}, nil
}

// ClearAll removes every key the Store owns, theme included.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.kv.Delete(ctx, allKeys...); err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}
	s.logger.Info("store cleared")
	return nil
}

// utf16Len counts the UTF-16 code units needed to encode s.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
