package wallet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// --- Mnemonic tests ---

func TestGenerateMnemonic(t *testing.T) {
	for bits, words := range map[int]int{Mnemonic12Words: 12, Mnemonic24Words: 24} {
		mnemonic, err := GenerateMnemonic(bits)
		require.NoError(t, err)
		assert.Len(t, strings.Fields(mnemonic), words)
		assert.True(t, ValidateMnemonic(mnemonic))
	}

	for _, bits := range []int{0, 64, 160, 192, 512} {
		_, err := GenerateMnemonic(bits)
		assert.ErrorIs(t, err, ErrInvalidEntropy, "bits=%d", bits)
	}

	m1, err := GenerateMnemonic(Mnemonic12Words)
	require.NoError(t, err)
	m2, err := GenerateMnemonic(Mnemonic12Words)
	require.NoError(t, err)
	assert.NotEqual(t, m1, m2)
}

func TestValidateMnemonic(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		valid    bool
	}{
		{"valid 12-word", testMnemonic, true},
		{"invalid words", "foo bar baz qux quux corge grault garply waldo fred plugh xyzzy", false},
		{"bad checksum", strings.Replace(testMnemonic, "about", "abandon", 1), false},
		{"empty", "", false},
		{"partial", "abandon abandon", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateMnemonic(tt.mnemonic))
		})
	}
}

// --- Seed derivation tests ---

func TestSeedFromMnemonic(t *testing.T) {
	seed1, err := SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	seed2, err := SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	assert.Equal(t, seed1, seed2)
	assert.Len(t, seed1, 64)

	other, err := SeedFromMnemonic(testMnemonic, "my secret passphrase")
	require.NoError(t, err)
	assert.NotEqual(t, seed1, other)

	_, err = SeedFromMnemonic("invalid mnemonic words here", "")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
	_, err = SeedFromMnemonic("", "")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

// --- Seed encryption tests ---

func testSeed() []byte {
	seed := make([]byte, 64)
	for i := range seed {
		seed[i] = byte(i)
	}
	return seed
}

func TestEncryptDecryptSeed(t *testing.T) {
	seed := testSeed()
	for _, password := range []string{"test-password-123", ""} {
		enc, err := EncryptSeed(seed, password)
		require.NoError(t, err)
		assert.Len(t, enc, SaltLen+NonceLen+len(seed)+ChecksumLen+16)

		dec, err := DecryptSeed(enc, password)
		require.NoError(t, err)
		assert.Equal(t, seed, dec)
	}

	enc1, err := EncryptSeed(seed, "same")
	require.NoError(t, err)
	enc2, err := EncryptSeed(seed, "same")
	require.NoError(t, err)
	assert.NotEqual(t, enc1, enc2, "salt and nonce are random")
}

func TestDecryptSeed_Failures(t *testing.T) {
	enc, err := EncryptSeed(testSeed(), "correct")
	require.NoError(t, err)

	flip := func(i int) []byte {
		b := append([]byte(nil), enc...)
		b[i] ^= 0xff
		return b
	}
	tests := []struct {
		name     string
		data     []byte
		password string
	}{
		{"wrong password", enc, "wrong"},
		{"too short", []byte{1, 2, 3}, "correct"},
		{"one below minimum", make([]byte, SaltLen+NonceLen+ChecksumLen-1), "correct"},
		{"truncated", enc[:len(enc)-1], "correct"},
		{"corrupted salt", flip(0), "correct"},
		{"corrupted nonce", flip(SaltLen), "correct"},
		{"corrupted body", flip(SaltLen + NonceLen), "correct"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecryptSeed(tt.data, tt.password)
			assert.ErrorIs(t, err, ErrDecryptionFailed)
		})
	}

	_, err = EncryptSeed(nil, "password")
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestSeedFile(t *testing.T) {
	dir := t.TempDir()
	path := SeedPath(dir)

	_, err := OpenSeedFile(path, "pw")
	require.ErrorIs(t, err, ErrWalletNotFound)

	require.NoError(t, CreateSeedFile(path, testSeed(), "pw"))
	err = CreateSeedFile(path, testSeed(), "pw")
	require.ErrorIs(t, err, ErrWalletExists)

	seed, err := OpenSeedFile(path, "pw")
	require.NoError(t, err)
	assert.Equal(t, testSeed(), seed)

	_, err = OpenSeedFile(path, "other")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}
