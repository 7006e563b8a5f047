package arena

import (
	"fmt"

	"github.com/bitfsorg/libissuance-go/account"
)

// MaxPageSize bounds the number of entries a single Page call returns.
const MaxPageSize = 500

// Set is an append-only, insertion-ordered set of addresses stored in a Space.
//
// Layout under Prefix:
//
//	Prefix + "n"            -> count (uint64)
//	Prefix + "i" + index(8) -> address
//	Prefix + "a" + address  -> index (uint64)
type Set struct {
	Space  Space
	Prefix string
}

// NewSet returns the set stored under prefix in s.
func NewSet(s Space, prefix string) *Set {
	return &Set{Space: s, Prefix: prefix}
}

// Len returns the number of members.
func (s *Set) Len() (uint64, error) {
	return GetUint64(s.Space, Key(s.Prefix+"n"))
}

// Contains reports whether a has been added.
func (s *Set) Contains(a account.Address) bool {
	return s.Space.Get(Key(s.Prefix+"a", a[:])) != nil
}

// Add appends a and reports whether it was new.
func (s *Set) Add(a account.Address) (bool, error) {
	if s.Contains(a) {
		return false, nil
	}
	n, err := s.Len()
	if err != nil {
		return false, err
	}
	if err := s.Space.Put(Key(s.Prefix+"i", U64Key(n)), a[:]); err != nil {
		return false, err
	}
	if err := PutUint64(s.Space, Key(s.Prefix+"a", a[:]), n); err != nil {
		return false, err
	}
	if err := PutUint64(s.Space, Key(s.Prefix+"n"), n+1); err != nil {
		return false, err
	}
	return true, nil
}

// At returns the member at index i.
func (s *Set) At(i uint64) (account.Address, error) {
	v := s.Space.Get(Key(s.Prefix+"i", U64Key(i)))
	if v == nil {
		return account.Zero, fmt.Errorf("arena: set index %d out of range", i)
	}
	return account.FromBytes(v)
}

// Page returns up to limit members starting at offset. limit is capped at
// MaxPageSize; a zero limit means MaxPageSize.
func (s *Set) Page(offset, limit uint64) ([]account.Address, error) {
	n, err := s.Len()
	if err != nil {
		return nil, err
	}
	if limit == 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset >= n {
		return []account.Address{}, nil
	}
	end := offset + limit
	if end > n || end < offset {
		end = n
	}
	out := make([]account.Address, 0, end-offset)
	for i := offset; i < end; i++ {
		a, err := s.At(i)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
