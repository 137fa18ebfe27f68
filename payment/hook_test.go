package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/x402x/gives/types"
)

func TestEncodeRecipientsForHook(t *testing.T) {
	// Until the distributed-transfer payload ships, everything settles as a
	// plain transfer.
	assert.Equal(t, EmptyHookData, EncodeRecipientsForHook(nil))
	assert.Equal(t, EmptyHookData, EncodeRecipientsForHook([]types.Recipient{
		{Address: payToAddr, Bips: 0},
		{Address: splitAddr, Bips: 5000},
	}))
}

func TestPrimaryRecipient(t *testing.T) {
	assert.Equal(t, "0x0000000000000000000000000000000000000000", PrimaryRecipient(nil))
	assert.Equal(t, payToAddr, PrimaryRecipient([]types.Recipient{
		{Address: payToAddr, Bips: 0},
		{Address: splitAddr, Bips: 5000},
	}))
}

func TestValidateRecipients(t *testing.T) {
	assert.False(t, ValidateRecipients(nil))
	assert.True(t, ValidateRecipients([]types.Recipient{{Address: payToAddr, Bips: 0}}))
	assert.True(t, ValidateRecipients([]types.Recipient{
		{Address: payToAddr, Bips: 0},
		{Address: splitAddr, Bips: 10000},
	}))
	assert.False(t, ValidateRecipients([]types.Recipient{
		{Address: payToAddr, Bips: 0},
		{Address: splitAddr, Bips: 10001},
	}))
}
