package arena

import (
	"bytes"
	"sort"
	"strings"
	"sync"

	"github.com/bitfsorg/libissuance-go/account"
)

// Mem is an in-memory Arena for tests and dry runs. Update transactions copy
// a space on first write and swap the copies in on commit.
type Mem struct {
	mu     sync.RWMutex
	spaces map[string]map[string][]byte
	closed bool
}

// Compile-time interface check.
var _ Arena = (*Mem)(nil)

// NewMem creates an empty in-memory arena.
func NewMem() *Mem {
	return &Mem{spaces: make(map[string]map[string][]byte)}
}

// Close marks the arena closed; later transactions fail with ErrClosed.
func (m *Mem) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// View runs fn against the committed state.
func (m *Mem) View(fn func(Tx) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return fn(&memTx{m: m})
}

// Update runs fn and commits its writes only if fn returns nil.
func (m *Mem) Update(fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	tx := &memTx{m: m, writable: true, dirty: make(map[string]map[string][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	for id, kv := range tx.dirty {
		m.spaces[id] = kv
	}
	return nil
}

type memTx struct {
	m        *Mem
	writable bool
	dirty    map[string]map[string][]byte
}

func (t *memTx) Writable() bool { return t.writable }

func (t *memTx) Space(owner account.Address, namespace string) (Space, error) {
	if namespace == "" {
		return nil, ErrEmptyNamespace
	}
	return &memSpace{tx: t, id: spaceID(owner, namespace)}, nil
}

// view returns the current contents of a space, dirty copy first.
func (t *memTx) view(id string) map[string][]byte {
	if kv, ok := t.dirty[id]; ok {
		return kv
	}
	return t.m.spaces[id]
}

// mutable returns the dirty copy of a space, cloning on first write.
func (t *memTx) mutable(id string) map[string][]byte {
	if kv, ok := t.dirty[id]; ok {
		return kv
	}
	base := t.m.spaces[id]
	kv := make(map[string][]byte, len(base))
	for k, v := range base {
		kv[k] = v
	}
	t.dirty[id] = kv
	return kv
}

type memSpace struct {
	tx *memTx
	id string
}

func (s *memSpace) Get(key []byte) []byte {
	return s.tx.view(s.id)[string(key)]
}

func (s *memSpace) Put(key, value []byte) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}
	if !s.tx.writable {
		return ErrReadOnly
	}
	if value == nil {
		value = []byte{}
	}
	s.tx.mutable(s.id)[string(key)] = bytes.Clone(value)
	return nil
}

func (s *memSpace) Delete(key []byte) error {
	if !s.tx.writable {
		return ErrReadOnly
	}
	delete(s.tx.mutable(s.id), string(key))
	return nil
}

func (s *memSpace) Scan(prefix []byte, fn func(key, value []byte) error) error {
	kv := s.tx.view(s.id)
	keys := make([]string, 0, len(kv))
	p := string(prefix)
	for k := range kv {
		if strings.HasPrefix(k, p) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn([]byte(k), kv[k]); err != nil {
			return err
		}
	}
	return nil
}
