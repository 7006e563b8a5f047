package arena

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libissuance-go/account"
)

type record struct {
	Name  string
	Count uint64
}

func TestSet_AddIsIdempotentAndOrdered(t *testing.T) {
	for name, a := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, a.Update(func(tx Tx) error {
				s, _ := tx.Space(account.Hash("d"), "holders")
				set := NewSet(s, "h/")
				for i := 0; i < 5; i++ {
					added, err := set.Add(account.Hash(fmt.Sprint(i)))
					require.NoError(t, err)
					assert.True(t, added)
				}
				added, err := set.Add(account.Hash("2"))
				require.NoError(t, err)
				assert.False(t, added)
				return nil
			}))

			require.NoError(t, a.View(func(tx Tx) error {
				s, _ := tx.Space(account.Hash("d"), "holders")
				set := NewSet(s, "h/")
				n, err := set.Len()
				require.NoError(t, err)
				assert.Equal(t, uint64(5), n)
				assert.True(t, set.Contains(account.Hash("4")))
				assert.False(t, set.Contains(account.Hash("9")))

				page, err := set.Page(1, 2)
				require.NoError(t, err)
				assert.Equal(t, []account.Address{account.Hash("1"), account.Hash("2")}, page)

				tail, err := set.Page(4, 10)
				require.NoError(t, err)
				assert.Equal(t, []account.Address{account.Hash("4")}, tail)

				empty, err := set.Page(7, 10)
				require.NoError(t, err)
				assert.Empty(t, empty)

				_, err = set.At(5)
				assert.Error(t, err)
				return nil
			}))
		})
	}
}

func TestSet_PageLimitCapped(t *testing.T) {
	a := NewMem()
	require.NoError(t, a.Update(func(tx Tx) error {
		s, _ := tx.Space(account.Zero, "big")
		set := NewSet(s, "")
		for i := 0; i < MaxPageSize+10; i++ {
			if _, err := set.Add(account.Hash(fmt.Sprint(i))); err != nil {
				return err
			}
		}
		page, err := set.Page(0, 0)
		require.NoError(t, err)
		assert.Len(t, page, MaxPageSize)
		return nil
	}))
}

func TestGob_RoundTrip(t *testing.T) {
	a := NewMem()
	require.NoError(t, a.Update(func(tx Tx) error {
		s, _ := tx.Space(account.Zero, "rec")
		return PutGob(s, []byte("r"), record{Name: "alice", Count: 3})
	}))
	require.NoError(t, a.View(func(tx Tx) error {
		s, _ := tx.Space(account.Zero, "rec")
		var r record
		ok, err := GetGob(s, []byte("r"), &r)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, record{Name: "alice", Count: 3}, r)

		ok, err = GetGob(s, []byte("missing"), &r)
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	}))
}

func TestGetUint64_Corrupt(t *testing.T) {
	a := NewMem()
	require.NoError(t, a.Update(func(tx Tx) error {
		s, _ := tx.Space(account.Zero, "ns")
		require.NoError(t, s.Put([]byte("k"), []byte{1, 2}))
		_, err := GetUint64(s, []byte("k"))
		assert.ErrorIs(t, err, ErrCorrupt)
		return nil
	}))
}
