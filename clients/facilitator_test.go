package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x402x/gives/networks"
	"github.com/x402x/gives/types"
)

type stubWallet struct {
	connected bool
	signErr   error
	signed    []TransferAuthorization
}

func (w *stubWallet) Address() string { return "0x1111111111111111111111111111111111111111" }
func (w *stubWallet) ChainID() int64  { return 8453 }
func (w *stubWallet) Connected() bool { return w.connected }

func (w *stubWallet) SwitchChain(context.Context, int64) error { return nil }

func (w *stubWallet) SignTransferAuthorization(_ context.Context, auth TransferAuthorization) (string, error) {
	if w.signErr != nil {
		return "", w.signErr
	}
	w.signed = append(w.signed, auth)
	return "0xdeadbeef", nil
}

func baseNetwork(t *testing.T) networks.NetworkConfig {
	t.Helper()
	r := networks.NewRegistry(networks.Development, nil)
	n, ok := r.ByKey(networks.Base)
	require.True(t, ok)
	return n
}

func newFacilitatorFixture(t *testing.T, wallet Wallet, handler http.Handler) *FacilitatorClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewFacilitatorClient(FacilitatorConfig{
		URL:     srv.URL,
		Network: baseNetwork(t),
		Wallet:  wallet,
	})
}

func TestCalculateFee(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotReq map[string]string
		client := newFacilitatorFixture(t, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/fee", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			w.Write([]byte(`{"facilitatorFee":"10000","asset":"USDC","network":"base"}`))
		}))

		fee, err := client.CalculateFee(context.Background(), "0xhook", "0x")
		require.NoError(t, err)
		assert.Equal(t, "10000", fee.FacilitatorFee)
		assert.Equal(t, map[string]string{
			"network":  "base",
			"hook":     "0xhook",
			"hookData": "0x",
		}, gotReq)
	})

	t.Run("http failure is a typed fee error", func(t *testing.T) {
		client := newFacilitatorFixture(t, nil, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))

		_, err := client.CalculateFee(context.Background(), "0xhook", "0x")
		require.Error(t, err)
		ge, ok := err.(*types.GivesError)
		require.True(t, ok)
		assert.Equal(t, types.ErrFeeQueryFailed, ge.Code)
	})

	t.Run("empty quote is an error", func(t *testing.T) {
		client := newFacilitatorFixture(t, nil, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{}`))
		}))

		_, err := client.CalculateFee(context.Background(), "0xhook", "0x")
		assert.Error(t, err)
	})
}

func TestExecute(t *testing.T) {
	params := ExecuteParams{
		Amount:         "5000000",
		PayTo:          testPayTo,
		Hook:           "0xhook",
		HookData:       "0x",
		FacilitatorFee: "10000",
	}

	t.Run("requires a connected wallet", func(t *testing.T) {
		client := newFacilitatorFixture(t, &stubWallet{connected: false}, http.NotFoundHandler())
		_, err := client.Execute(context.Background(), params, false)
		require.Error(t, err)
		ge, ok := err.(*types.GivesError)
		require.True(t, ok)
		assert.Equal(t, types.ErrWalletNotConnected, ge.Code)
	})

	t.Run("signs amount plus fee to the settlement router", func(t *testing.T) {
		wallet := &stubWallet{connected: true}
		var gotReq map[string]interface{}
		client := newFacilitatorFixture(t, wallet, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/settle", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			w.Write([]byte(`{"txHash":"0xabc123","network":"base"}`))
		}))

		result, err := client.Execute(context.Background(), params, false)
		require.NoError(t, err)
		assert.Equal(t, "0xabc123", result.TxHash)

		require.Len(t, wallet.signed, 1)
		auth := wallet.signed[0]
		assert.Equal(t, "5010000", auth.Value)
		assert.Equal(t, baseNetwork(t).SettlementRouter, auth.To)
		assert.Equal(t, wallet.Address(), auth.From)
		assert.Len(t, auth.Nonce, 2+64)

		assert.Equal(t, "0xdeadbeef", gotReq["signature"])
		assert.Equal(t, testPayTo, gotReq["payTo"])
		assert.Equal(t, "base", gotReq["network"])
	})

	t.Run("wallet rejection passes through unwrapped", func(t *testing.T) {
		rejection := types.NewError(types.ErrUserRejected, "user rejected signing")
		client := newFacilitatorFixture(t, &stubWallet{connected: true, signErr: rejection}, http.NotFoundHandler())

		_, err := client.Execute(context.Background(), params, false)
		require.Error(t, err)
		assert.True(t, IsUserRejection(err))
		assert.Same(t, rejection, err)
	})

	t.Run("missing txHash is an execution error", func(t *testing.T) {
		client := newFacilitatorFixture(t, &stubWallet{connected: true}, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{}`))
		}))

		_, err := client.Execute(context.Background(), params, false)
		require.Error(t, err)
		ge, ok := err.(*types.GivesError)
		require.True(t, ok)
		assert.Equal(t, types.ErrExecutionFailed, ge.Code)
	})
}

func TestIsUserRejection(t *testing.T) {
	assert.False(t, IsUserRejection(nil))
	assert.True(t, IsUserRejection(types.NewError(types.ErrUserRejected, "declined")))
	assert.True(t, IsUserRejection(assertErr("request failed with code 4001")))
	assert.True(t, IsUserRejection(assertErr("MetaMask: User rejected the request")))
	assert.False(t, IsUserRejection(assertErr("connection refused")))
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
