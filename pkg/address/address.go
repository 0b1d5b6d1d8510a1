package address

import (
	"errors"

	"github.com/btcsuite/btcutil/base58"
	"github.com/cespare/xxhash"
)

var ErrorInvalidEncoding = errors.New("invalid base58 address")

// Fingerprint is a short, log-friendly identifier for an address.
func Fingerprint(address []byte) string {
	xxxHash := xxhash.New()
	xxxHash.Write(address)
	return base58.Encode(xxxHash.Sum(nil))
}

func Encode(address []byte) string {
	return base58.Encode(address)
}

func Decode(encoded string) ([]byte, error) {
	if encoded == "" {
		return []byte{}, nil
	}
	address := base58.Decode(encoded)
	if len(address) == 0 {
		return nil, ErrorInvalidEncoding
	}
	return address, nil
}
