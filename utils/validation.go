package utils

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x402x/gives/types"
)

// IsChainAddress reports whether a string is a syntactically valid EVM
// address (0x + 40 hex characters).
func IsChainAddress(address string) bool {
	return common.IsHexAddress(address)
}

// ValidateAddress returns a typed error for an invalid chain address.
func ValidateAddress(address string) error {
	if address == "" {
		return types.NewError(types.ErrInvalidAddress, "address cannot be empty")
	}
	if !common.IsHexAddress(address) {
		return types.NewError(types.ErrInvalidAddress,
			fmt.Sprintf("not a valid chain address: %s", address))
	}
	return nil
}

// ChecksumAddress returns the EIP-55 checksummed form of an address.
// Input must already be a valid hex address.
func ChecksumAddress(address string) string {
	return common.HexToAddress(address).Hex()
}

// AbbreviateAddress shortens an address for display: 0x1234...abcd.
func AbbreviateAddress(address string) string {
	if len(address) <= 12 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// ValidateTxHash checks an EVM transaction hash (0x + 64 hex characters).
func ValidateTxHash(hash string) error {
	if len(hash) != 66 || hash[:2] != "0x" {
		return types.NewError(types.ErrInvalidConfig,
			fmt.Sprintf("invalid transaction hash: %s", hash))
	}
	for _, c := range hash[2:] {
		switch {
		case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		default:
			return types.NewError(types.ErrInvalidConfig,
				fmt.Sprintf("invalid transaction hash: %s", hash))
		}
	}
	return nil
}
