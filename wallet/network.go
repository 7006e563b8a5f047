package wallet

import (
	"fmt"

	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"
)

// networks maps configured network names to BIP32 version parameters.
// Regtest keys use the testnet encoding.
var networks = map[string]*chaincfg.Params{
	"mainnet": &chaincfg.MainNet,
	"testnet": &chaincfg.TestNet,
	"regtest": &chaincfg.TestNet,
}

// NetworkParams returns the chain parameters for name.
func NetworkParams(name string) (*chaincfg.Params, error) {
	if p, ok := networks[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidNetwork, name)
}
