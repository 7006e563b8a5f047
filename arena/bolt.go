package arena

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/bitfsorg/libissuance-go/account"
)

// Bolt is an Arena backed by a bbolt database file.
type Bolt struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Arena = (*Bolt)(nil)

// OpenBolt opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBolt(dbPath string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("arena: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("arena: open bolt db: %w", err)
	}
	return &Bolt{db: db}, nil
}

// Path returns the database file path.
func (b *Bolt) Path() string { return b.db.Path() }

// Close closes the underlying database.
func (b *Bolt) Close() error { return b.db.Close() }

// View runs fn in a bbolt read transaction.
func (b *Bolt) View(fn func(Tx) error) error {
	return b.db.View(func(tx *bbolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
}

// Update runs fn in a bbolt read-write transaction.
func (b *Bolt) Update(fn func(Tx) error) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
}

type boltTx struct {
	tx *bbolt.Tx
}

func (t *boltTx) Writable() bool { return t.tx.Writable() }

// Space maps owner to a top-level bucket and namespace to a nested bucket.
// Buckets are created on the first write, so reading a space never leaves
// an empty bucket behind.
func (t *boltTx) Space(owner account.Address, namespace string) (Space, error) {
	if namespace == "" {
		return nil, ErrEmptyNamespace
	}
	return &boltSpace{tx: t.tx, owner: owner, ns: []byte(namespace)}, nil
}

type boltSpace struct {
	tx    *bbolt.Tx
	owner account.Address
	ns    []byte
	b     *bbolt.Bucket
}

// bucket returns the namespace bucket, nil while it does not exist.
func (s *boltSpace) bucket() *bbolt.Bucket {
	if s.b == nil {
		if top := s.tx.Bucket(s.owner[:]); top != nil {
			s.b = top.Bucket(s.ns)
		}
	}
	return s.b
}

func (s *boltSpace) create() (*bbolt.Bucket, error) {
	if b := s.bucket(); b != nil {
		return b, nil
	}
	top, err := s.tx.CreateBucketIfNotExists(s.owner[:])
	if err != nil {
		return nil, fmt.Errorf("arena: create owner bucket %s: %w", s.owner, err)
	}
	if s.b, err = top.CreateBucketIfNotExists(s.ns); err != nil {
		return nil, fmt.Errorf("arena: create namespace bucket %q: %w", s.ns, err)
	}
	return s.b, nil
}

func (s *boltSpace) Get(key []byte) []byte {
	b := s.bucket()
	if b == nil {
		return nil
	}
	return b.Get(key)
}

func (s *boltSpace) Put(key, value []byte) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}
	if !s.tx.Writable() {
		return ErrReadOnly
	}
	b, err := s.create()
	if err != nil {
		return err
	}
	// bbolt treats a nil value as a delete marker on some paths; store empty.
	if value == nil {
		value = []byte{}
	}
	if err := b.Put(key, value); err != nil {
		return fmt.Errorf("arena: put: %w", err)
	}
	return nil
}

func (s *boltSpace) Delete(key []byte) error {
	if !s.tx.Writable() {
		return ErrReadOnly
	}
	b := s.bucket()
	if b == nil {
		return nil
	}
	if err := b.Delete(key); err != nil {
		return fmt.Errorf("arena: delete: %w", err)
	}
	return nil
}

func (s *boltSpace) Scan(prefix []byte, fn func(key, value []byte) error) error {
	b := s.bucket()
	if b == nil {
		return nil
	}
	c := b.Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		if v == nil {
			continue // nested bucket
		}
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}
