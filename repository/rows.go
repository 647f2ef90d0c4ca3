// Package repository maps domain entities onto store rows and enforces the
// per-entity rules: sort-order assignment, full-replace updates, idempotent
// deletes, and aggregate count upkeep.
package repository

import (
	"time"

	"github.com/joCur/later-server/store"
)

func rowString(r store.Row, col string) string {
	s, _ := r[col].(string)
	return s
}

func rowBool(r store.Row, col string) bool {
	b, _ := r[col].(bool)
	return b
}

func rowInt(r store.Row, col string) int {
	switch n := r[col].(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func rowTime(r store.Row, col string) time.Time {
	t, _ := r[col].(time.Time)
	return t
}

func rowTimePtr(r store.Row, col string) *time.Time {
	switch t := r[col].(type) {
	case time.Time:
		out := t
		return &out
	case *time.Time:
		if t == nil {
			return nil
		}
		out := *t
		return &out
	}
	return nil
}

func rowStrings(r store.Row, col string) []string {
	switch v := r[col].(type) {
	case []string:
		return append([]string(nil), v...)
	}
	return []string{}
}

func utcNow() time.Time {
	return time.Now().UTC()
}
