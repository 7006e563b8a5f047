// Package wallet holds the operator's participant identities: a BIP39
// mnemonic, its seed encrypted at rest, and BIP32 derivation of one address
// per participant along m/44'/236'/0'/0/{index}.
package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bsv-blockchain/go-sdk/compat/bip39"
	"golang.org/x/crypto/argon2"
)

const (
	// Mnemonic entropy sizes.
	Mnemonic12Words = 128
	Mnemonic24Words = 256

	// Argon2id parameters for seed encryption.
	Argon2Time        = 3
	Argon2Memory      = 64 * 1024 // KiB
	Argon2Parallelism = 4
	Argon2KeyLen      = 32

	// Encrypted seed layout.
	SaltLen     = 16
	NonceLen    = 12
	ChecksumLen = 4

	// SeedFile is the encrypted seed's file name inside the data directory.
	SeedFile = "wallet.enc"
)

// GenerateMnemonic creates a mnemonic from entropyBits of randomness.
func GenerateMnemonic(entropyBits int) (string, error) {
	if entropyBits != Mnemonic12Words && entropyBits != Mnemonic24Words {
		return "", ErrInvalidEntropy
	}
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("wallet: entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("wallet: mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic reports whether mnemonic is valid BIP39.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// SeedFromMnemonic derives the 64-byte BIP39 seed. An empty passphrase still
// takes part in the derivation.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	if !ValidateMnemonic(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("wallet: seed: %w", err)
	}
	return seed, nil
}

func seedAEAD(password string, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(password), salt, Argon2Time, Argon2Memory, Argon2Parallelism, Argon2KeyLen)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func checksum(seed []byte) []byte {
	sum := sha256.Sum256(seed)
	return sum[:ChecksumLen]
}

// EncryptSeed seals seed under an Argon2id key with AES-256-GCM:
//
//	salt(16) || nonce(12) || GCM(seed || SHA256(seed)[:4])
func EncryptSeed(seed []byte, password string) ([]byte, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	out := make([]byte, SaltLen+NonceLen, SaltLen+NonceLen+len(seed)+ChecksumLen+16)
	if _, err := rand.Read(out); err != nil {
		return nil, fmt.Errorf("wallet: salt and nonce: %w", err)
	}
	aead, err := seedAEAD(password, out[:SaltLen])
	if err != nil {
		return nil, fmt.Errorf("wallet: cipher: %w", err)
	}
	plaintext := append(append(make([]byte, 0, len(seed)+ChecksumLen), seed...), checksum(seed)...)
	return aead.Seal(out, out[SaltLen:SaltLen+NonceLen], plaintext, nil), nil
}

// DecryptSeed reverses EncryptSeed and verifies the checksum.
func DecryptSeed(encrypted []byte, password string) ([]byte, error) {
	if len(encrypted) < SaltLen+NonceLen+ChecksumLen {
		return nil, ErrDecryptionFailed
	}
	aead, err := seedAEAD(password, encrypted[:SaltLen])
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	plaintext, err := aead.Open(nil, encrypted[SaltLen:SaltLen+NonceLen], encrypted[SaltLen+NonceLen:], nil)
	if err != nil || len(plaintext) < ChecksumLen {
		return nil, ErrDecryptionFailed
	}
	seed, sum := plaintext[:len(plaintext)-ChecksumLen], plaintext[len(plaintext)-ChecksumLen:]
	if subtle.ConstantTimeCompare(sum, checksum(seed)) != 1 {
		return nil, ErrChecksumMismatch
	}
	return seed, nil
}

// SeedPath returns the seed file path inside dataDir.
func SeedPath(dataDir string) string { return filepath.Join(dataDir, SeedFile) }

// CreateSeedFile encrypts seed to path. It refuses to overwrite.
func CreateSeedFile(path string, seed []byte, password string) error {
	enc, err := EncryptSeed(seed, password)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("wallet: create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrWalletExists, path)
		}
		return fmt.Errorf("wallet: create %s: %w", path, err)
	}
	if _, err := f.Write(enc); err != nil {
		f.Close()
		return fmt.Errorf("wallet: write %s: %w", path, err)
	}
	return f.Close()
}

// OpenSeedFile reads and decrypts the seed at path.
func OpenSeedFile(path, password string) ([]byte, error) {
	enc, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrWalletNotFound, path)
		}
		return nil, fmt.Errorf("wallet: read %s: %w", path, err)
	}
	return DecryptSeed(enc, password)
}
