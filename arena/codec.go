package arena

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"

	"github.com/bitfsorg/libissuance-go/account"
)

// Key joins a string prefix and binary parts into a single key.
func Key(prefix string, parts ...[]byte) []byte {
	n := len(prefix)
	for _, p := range parts {
		n += len(p)
	}
	k := make([]byte, 0, n)
	k = append(k, prefix...)
	for _, p := range parts {
		k = append(k, p...)
	}
	return k
}

// U64Key encodes v as an 8-byte big-endian key for sorted storage.
func U64Key(v uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, v)
	return k
}

// GetUint64 reads a big-endian uint64; missing keys read as zero.
func GetUint64(s Space, key []byte) (uint64, error) {
	v := s.Get(key)
	if v == nil {
		return 0, nil
	}
	if len(v) != 8 {
		return 0, fmt.Errorf("%w: uint64 %q has %d bytes", ErrCorrupt, key, len(v))
	}
	return binary.BigEndian.Uint64(v), nil
}

// PutUint64 stores v as a big-endian uint64.
func PutUint64(s Space, key []byte, v uint64) error {
	return s.Put(key, U64Key(v))
}

// GetBool reads a flag; missing keys read as false.
func GetBool(s Space, key []byte) bool {
	v := s.Get(key)
	return len(v) == 1 && v[0] == 1
}

// PutBool stores a flag as a single byte.
func PutBool(s Space, key []byte, b bool) error {
	var v byte
	if b {
		v = 1
	}
	return s.Put(key, []byte{v})
}

// GetString reads a string; missing keys read as "".
func GetString(s Space, key []byte) string {
	return string(s.Get(key))
}

// PutString stores a string.
func PutString(s Space, key []byte, v string) error {
	return s.Put(key, []byte(v))
}

// GetAddress reads an address; missing keys read as the zero address.
func GetAddress(s Space, key []byte) (account.Address, error) {
	v := s.Get(key)
	if v == nil {
		return account.Zero, nil
	}
	a, err := account.FromBytes(v)
	if err != nil {
		return account.Zero, fmt.Errorf("%w: address %q: %w", ErrCorrupt, key, err)
	}
	return a, nil
}

// PutAddress stores an address.
func PutAddress(s Space, key []byte, a account.Address) error {
	return s.Put(key, a[:])
}

// GetGob decodes a gob value into v and reports whether the key existed.
func GetGob(s Space, key []byte, v interface{}) (bool, error) {
	data := s.Get(key)
	if data == nil {
		return false, nil
	}
	if err := decodeGob(data, v); err != nil {
		return true, fmt.Errorf("%w: decode %q: %w", ErrCorrupt, key, err)
	}
	return true, nil
}

// PutGob gob-encodes v under key.
func PutGob(s Space, key []byte, v interface{}) error {
	data, err := encodeGob(v)
	if err != nil {
		return fmt.Errorf("arena: encode %q: %w", key, err)
	}
	return s.Put(key, data)
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
