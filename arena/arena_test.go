package arena

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/bitfsorg/libissuance-go/account"
)

var errBoom = errors.New("boom")

// backends returns a fresh arena of every kind.
func backends(t *testing.T) map[string]Arena {
	t.Helper()
	b, err := OpenBolt(filepath.Join(t.TempDir(), "sub", "arena.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return map[string]Arena{
		"bolt": b,
		"mem":  NewMem(),
	}
}

func TestArena_UpdateCommitsAndViewReads(t *testing.T) {
	owner := account.Hash("diamond")
	for name, a := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, a.Update(func(tx Tx) error {
				s, err := tx.Space(owner, "ns")
				require.NoError(t, err)
				return PutUint64(s, []byte("k"), 42)
			}))

			require.NoError(t, a.View(func(tx Tx) error {
				assert.False(t, tx.Writable())
				s, err := tx.Space(owner, "ns")
				require.NoError(t, err)
				v, err := GetUint64(s, []byte("k"))
				require.NoError(t, err)
				assert.Equal(t, uint64(42), v)
				return nil
			}))
		})
	}
}

func TestArena_UpdateErrorRollsBack(t *testing.T) {
	owner := account.Hash("diamond")
	for name, a := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, a.Update(func(tx Tx) error {
				s, _ := tx.Space(owner, "ns")
				return PutString(s, []byte("name"), "before")
			}))

			err := a.Update(func(tx Tx) error {
				s, _ := tx.Space(owner, "ns")
				require.NoError(t, PutString(s, []byte("name"), "after"))
				require.NoError(t, PutString(s, []byte("other"), "x"))
				other, _ := tx.Space(owner, "fresh")
				require.NoError(t, PutBool(other, []byte("f"), true))
				return errBoom
			})
			assert.ErrorIs(t, err, errBoom)

			require.NoError(t, a.View(func(tx Tx) error {
				s, _ := tx.Space(owner, "ns")
				assert.Equal(t, "before", GetString(s, []byte("name")))
				assert.Nil(t, s.Get([]byte("other")))
				fresh, _ := tx.Space(owner, "fresh")
				assert.False(t, GetBool(fresh, []byte("f")))
				return nil
			}))
		})
	}
}

func TestArena_NamespacesAreIsolated(t *testing.T) {
	d1, d2 := account.Hash("d1"), account.Hash("d2")
	for name, a := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, a.Update(func(tx Tx) error {
				for _, o := range []account.Address{d1, d2} {
					for _, ns := range []string{"bond", "warrant"} {
						s, err := tx.Space(o, ns)
						require.NoError(t, err)
						require.NoError(t, PutString(s, []byte("v"), o.String()+"/"+ns))
					}
				}
				return nil
			}))
			require.NoError(t, a.View(func(tx Tx) error {
				for _, o := range []account.Address{d1, d2} {
					for _, ns := range []string{"bond", "warrant"} {
						s, _ := tx.Space(o, ns)
						assert.Equal(t, o.String()+"/"+ns, GetString(s, []byte("v")))
					}
				}
				return nil
			}))
		})
	}
}

func TestArena_ReadOnlyRejectsWrites(t *testing.T) {
	owner := account.Hash("diamond")
	for name, a := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, a.Update(func(tx Tx) error {
				s, _ := tx.Space(owner, "ns")
				return PutBool(s, []byte("x"), true)
			}))
			require.NoError(t, a.View(func(tx Tx) error {
				existing, _ := tx.Space(owner, "ns")
				assert.ErrorIs(t, existing.Put([]byte("y"), []byte{1}), ErrReadOnly)
				missing, _ := tx.Space(owner, "missing")
				assert.ErrorIs(t, missing.Put([]byte("y"), []byte{1}), ErrReadOnly)
				assert.Nil(t, missing.Get([]byte("y")))
				return nil
			}))
		})
	}
}

func TestArena_ScanPrefixInOrder(t *testing.T) {
	owner := account.Hash("diamond")
	for name, a := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, a.Update(func(tx Tx) error {
				s, _ := tx.Space(owner, "ns")
				for _, k := range []string{"b/2", "a/1", "b/1", "c/1", "b/3"} {
					require.NoError(t, PutString(s, []byte(k), k))
				}
				require.NoError(t, s.Delete([]byte("b/3")))
				return nil
			}))
			var got []string
			require.NoError(t, a.View(func(tx Tx) error {
				s, _ := tx.Space(owner, "ns")
				return s.Scan([]byte("b/"), func(k, v []byte) error {
					got = append(got, string(k))
					return nil
				})
			}))
			assert.Equal(t, []string{"b/1", "b/2"}, got)
		})
	}
}

func TestArena_EmptyNamespaceAndKey(t *testing.T) {
	for name, a := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := a.Update(func(tx Tx) error {
				_, err := tx.Space(account.Zero, "")
				assert.ErrorIs(t, err, ErrEmptyNamespace)
				s, _ := tx.Space(account.Zero, "ns")
				return s.Put(nil, []byte{1})
			})
			assert.ErrorIs(t, err, ErrEmptyKey)
		})
	}
}

func TestMem_ClosedArena(t *testing.T) {
	m := NewMem()
	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.View(func(Tx) error { return nil }), ErrClosed)
	assert.ErrorIs(t, m.Update(func(Tx) error { return nil }), ErrClosed)
}

func TestBolt_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.db")
	owner := account.Hash("diamond")

	b, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, b.Update(func(tx Tx) error {
		s, _ := tx.Space(owner, "ns")
		return PutAddress(s, []byte("owner"), owner)
	}))
	require.NoError(t, b.Close())

	b, err = OpenBolt(path)
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, path, b.Path())
	require.NoError(t, b.View(func(tx Tx) error {
		s, _ := tx.Space(owner, "ns")
		got, err := GetAddress(s, []byte("owner"))
		require.NoError(t, err)
		assert.Equal(t, owner, got)
		return nil
	}))
}

func TestBolt_ReadsDoNotCreateBuckets(t *testing.T) {
	b, err := OpenBolt(filepath.Join(t.TempDir(), "arena.db"))
	require.NoError(t, err)
	defer b.Close()
	reader := account.Hash("reader")
	writer := account.Hash("writer")

	require.NoError(t, b.Update(func(tx Tx) error {
		s, err := tx.Space(reader, "ns")
		require.NoError(t, err)
		assert.Nil(t, s.Get([]byte("k")))
		require.NoError(t, s.Delete([]byte("k")))
		require.NoError(t, s.Scan(nil, func(_, _ []byte) error { return errBoom }))

		// A second handle on the same space sees a bucket created by the first.
		w1, _ := tx.Space(writer, "ns")
		w2, _ := tx.Space(writer, "ns")
		assert.Nil(t, w2.Get([]byte("k")))
		require.NoError(t, PutUint64(w1, []byte("k"), 7))
		got, err := GetUint64(w2, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, uint64(7), got)
		return nil
	}))

	require.NoError(t, b.db.View(func(tx *bbolt.Tx) error {
		assert.Nil(t, tx.Bucket(reader[:]))
		assert.NotNil(t, tx.Bucket(writer[:]))
		return nil
	}))
}
