package wallet

import (
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/bitfsorg/libissuance-go/account"
)

const (
	// BIP44 path constants.
	PurposeBIP44       = 44
	CoinType           = 236
	ParticipantAccount = 0
	ExternalChain      = 0

	// MaxIndex is the largest non-hardened child index.
	MaxIndex = 1<<31 - 1

	// Hardened is the BIP32 hardened offset.
	Hardened = 0x80000000
)

// Wallet derives participant identities from a BIP39 seed.
type Wallet struct {
	chain   *bip32.ExtendedKey // m/44'/236'/0'/0
	network string
}

// Participant is one derived identity.
type Participant struct {
	Index      uint32          `json:"index"`
	Path       string          `json:"path"`
	PrivateKey *ec.PrivateKey  `json:"-"`
	PublicKey  *ec.PublicKey   `json:"public_key"`
	Address    account.Address `json:"address"`
}

// NewWallet creates a wallet for network ("" means mainnet).
func NewWallet(seed []byte, network string) (*Wallet, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	if network == "" {
		network = "mainnet"
	}
	params, err := NetworkParams(network)
	if err != nil {
		return nil, err
	}

	master, err := bip32.NewMaster(seed, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	key := master
	for i, step := range []uint32{PurposeBIP44 + Hardened, CoinType + Hardened, ParticipantAccount + Hardened, ExternalChain} {
		key, err = key.Child(step)
		if err != nil {
			return nil, fmt.Errorf("%w: level %d: %w", ErrDerivationFailed, i+1, err)
		}
	}
	return &Wallet{chain: key, network: network}, nil
}

// Network returns the wallet's network name.
func (w *Wallet) Network() string { return w.network }

// Participant derives m/44'/236'/0'/0/index.
func (w *Wallet) Participant(index uint32) (*Participant, error) {
	if index > MaxIndex {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	child, err := w.chain.Child(index)
	if err != nil {
		return nil, fmt.Errorf("%w: index %d: %w", ErrDerivationFailed, index, err)
	}
	priv, err := child.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: private key: %w", ErrDerivationFailed, err)
	}
	pub := priv.PubKey()
	return &Participant{
		Index:      index,
		Path:       fmt.Sprintf("m/%d'/%d'/%d'/%d/%d", PurposeBIP44, CoinType, ParticipantAccount, ExternalChain, index),
		PrivateKey: priv,
		PublicKey:  pub,
		Address:    account.FromPubKey(pub),
	}, nil
}

// Address returns the address of participant index.
func (w *Wallet) Address(index uint32) (account.Address, error) {
	p, err := w.Participant(index)
	if err != nil {
		return account.Zero, err
	}
	return p.Address, nil
}

// Addresses returns the first n participant addresses.
func (w *Wallet) Addresses(n uint32) ([]account.Address, error) {
	out := make([]account.Address, 0, n)
	for i := uint32(0); i < n; i++ {
		a, err := w.Address(i)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
