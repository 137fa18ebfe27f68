package payment

import "github.com/x402x/gives/types"

// EmptyHookData is the hook payload for a plain transfer.
const EmptyHookData = "0x"

// EncodeRecipientsForHook produces the settlement-hook payload for a
// recipient list.
//
// Multi-recipient splitting is not encoded yet: the settlement protocol
// owners have not finalized the distributed-transfer payload, so every
// configuration settles as a plain transfer to payTo. The split list still
// validates and displays so configs are forward-compatible.
func EncodeRecipientsForHook(recipients []types.Recipient) string {
	return EmptyHookData
}

// PrimaryRecipient returns the address owed the unallocated remainder.
func PrimaryRecipient(recipients []types.Recipient) string {
	if len(recipients) == 0 {
		return "0x0000000000000000000000000000000000000000"
	}
	return recipients[0].Address
}

// ValidateRecipients checks a split list the payment flow was handed:
// non-empty and within the aggregate bips budget.
func ValidateRecipients(recipients []types.Recipient) bool {
	if len(recipients) == 0 {
		return false
	}
	total := 0
	for _, r := range recipients {
		total += r.Bips
	}
	return total <= types.MaxTotalBips
}
