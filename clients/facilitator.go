package clients

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/x402x/gives/logger"
	"github.com/x402x/gives/metrics"
	"github.com/x402x/gives/networks"
	"github.com/x402x/gives/types"
	"github.com/x402x/gives/utils"
)

// DefaultFacilitatorURL is the public facilitator this module talks to
// when nothing else is configured.
const DefaultFacilitatorURL = "https://facilitator.x402x.dev"

const (
	defaultRequestTimeout      = 30 * time.Second
	defaultConfirmationTimeout = 60 * time.Second
	authorizationValidity      = 15 * time.Minute
)

// FeeInfo is the facilitator's quote for settling through a hook.
// Amounts are atomic units of the network's default asset.
type FeeInfo struct {
	FacilitatorFee string `json:"facilitatorFee"`
	Asset          string `json:"asset,omitempty"`
	Network        string `json:"network,omitempty"`
}

// ExecuteParams describes one settlement. Amount and FacilitatorFee are
// atomic units; Hook and HookData select the settlement extension.
type ExecuteParams struct {
	Amount         string `json:"amount"`
	PayTo          string `json:"payTo"`
	Hook           string `json:"hook"`
	HookData       string `json:"hookData"`
	FacilitatorFee string `json:"facilitatorFee"`
}

// ExecuteResult is what the facilitator reports after submission.
type ExecuteResult struct {
	TxHash  string                 `json:"txHash"`
	Receipt map[string]interface{} `json:"receipt,omitempty"`
	Network string                 `json:"network,omitempty"`
}

// SettlementClient is the boundary the payment orchestrator drives. One
// client is bound to one network.
type SettlementClient interface {
	CalculateFee(ctx context.Context, hook, hookData string) (*FeeInfo, error)
	Execute(ctx context.Context, params ExecuteParams, waitForConfirmation bool) (*ExecuteResult, error)
	Network() networks.NetworkConfig
}

// FacilitatorConfig configures a facilitator-backed settlement client.
type FacilitatorConfig struct {
	URL                 string
	Network             networks.NetworkConfig
	Wallet              Wallet
	Timeout             time.Duration
	ConfirmationTimeout time.Duration
	Logger              logger.Logger
	Metrics             metrics.Recorder
}

// FacilitatorClient quotes fees and executes settlements through an
// off-chain facilitator. Construction is a direct constructor per network;
// signature collection goes through the wallet collaborator.
type FacilitatorClient struct {
	url           string
	network       networks.NetworkConfig
	wallet        Wallet
	httpClient    *http.Client
	confirmClient *http.Client
	log           logger.Logger
	metrics       metrics.Recorder
}

// NewFacilitatorClient builds a settlement client for one network.
func NewFacilitatorClient(cfg FacilitatorConfig) *FacilitatorClient {
	if cfg.URL == "" {
		cfg.URL = DefaultFacilitatorURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRequestTimeout
	}
	if cfg.ConfirmationTimeout <= 0 {
		cfg.ConfirmationTimeout = defaultConfirmationTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NoopLogger{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NoopRecorder{}
	}

	return &FacilitatorClient{
		url:           cfg.URL,
		network:       cfg.Network,
		wallet:        cfg.Wallet,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		confirmClient: &http.Client{Timeout: cfg.ConfirmationTimeout},
		log:           cfg.Logger,
		metrics:       cfg.Metrics,
	}
}

// Network returns the network this client settles on.
func (c *FacilitatorClient) Network() networks.NetworkConfig { return c.network }

// CalculateFee asks the facilitator what it charges for settling through
// the given hook on this client's network.
func (c *FacilitatorClient) CalculateFee(ctx context.Context, hook, hookData string) (*FeeInfo, error) {
	start := time.Now()
	reqBody := map[string]string{
		"network":  string(c.network.Key),
		"hook":     hook,
		"hookData": hookData,
	}

	var fee FeeInfo
	if err := c.postJSON(ctx, c.httpClient, "/fee", reqBody, &fee); err != nil {
		return nil, &types.GivesError{
			Code:    types.ErrFeeQueryFailed,
			Message: fmt.Sprintf("failed to load facilitator fee: %v", err),
		}
	}
	c.metrics.ObserveLatency(metrics.OperationFeeQuote, time.Since(start),
		map[string]string{"network": string(c.network.Key)})

	if fee.FacilitatorFee == "" {
		return nil, types.NewError(types.ErrFeeQueryFailed, "facilitator returned no fee")
	}
	return &fee, nil
}

// Execute signs a transfer authorization with the donor's wallet and
// submits it to the facilitator. The authorized value covers the donation
// amount plus the facilitator fee. Wallet rejections pass through
// unchanged so callers can classify them.
func (c *FacilitatorClient) Execute(ctx context.Context, params ExecuteParams, waitForConfirmation bool) (*ExecuteResult, error) {
	if c.wallet == nil || !c.wallet.Connected() {
		return nil, types.NewError(types.ErrWalletNotConnected, "wallet is not connected")
	}

	total := params.Amount
	if params.FacilitatorFee != "" {
		var err error
		total, err = utils.AddAtomic(params.Amount, params.FacilitatorFee)
		if err != nil {
			return nil, err
		}
	}

	nonce, err := randomNonce()
	if err != nil {
		return nil, types.NewError(types.ErrExecutionFailed,
			fmt.Sprintf("failed to generate authorization nonce: %v", err))
	}

	now := time.Now()
	auth := TransferAuthorization{
		From:        c.wallet.Address(),
		To:          c.network.SettlementRouter,
		Value:       total,
		ValidAfter:  strconv.FormatInt(now.Add(-time.Minute).Unix(), 10),
		ValidBefore: strconv.FormatInt(now.Add(authorizationValidity).Unix(), 10),
		Nonce:       nonce,
	}

	signature, err := c.wallet.SignTransferAuthorization(ctx, auth)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	reqBody := map[string]interface{}{
		"network":             string(c.network.Key),
		"authorization":       auth,
		"signature":           signature,
		"payTo":               params.PayTo,
		"hook":                params.Hook,
		"hookData":            params.HookData,
		"facilitatorFee":      params.FacilitatorFee,
		"waitForConfirmation": waitForConfirmation,
	}

	client := c.httpClient
	if waitForConfirmation {
		client = c.confirmClient
	}

	var result ExecuteResult
	if err := c.postJSON(ctx, client, "/settle", reqBody, &result); err != nil {
		return nil, &types.GivesError{
			Code:    types.ErrExecutionFailed,
			Message: fmt.Sprintf("settlement failed: %v", err),
		}
	}
	c.metrics.ObserveLatency(metrics.OperationSettle, time.Since(start),
		map[string]string{"network": string(c.network.Key)})

	if result.TxHash == "" {
		return nil, types.NewError(types.ErrExecutionFailed, "facilitator returned no transaction hash")
	}

	c.log.Info("settlement submitted", map[string]any{
		"network": string(c.network.Key),
		"txHash":  result.TxHash,
	})
	return &result, nil
}

func (c *FacilitatorClient) postJSON(ctx context.Context, client *http.Client, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("facilitator returned status %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}

	return json.Unmarshal(respBody, out)
}

func randomNonce() (string, error) {
	var nonce [32]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}
	return hexutil.Encode(nonce[:]), nil
}
