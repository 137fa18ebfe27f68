package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/x402x/gives/clients"
	"github.com/x402x/gives/logger"
	"github.com/x402x/gives/metrics"
	"github.com/x402x/gives/networks"
	"github.com/x402x/gives/types"
	"github.com/x402x/gives/utils"
)

// SettlementFactory builds a settlement client bound to one network.
// Injected so tests and alternative facilitators can substitute their own.
type SettlementFactory func(networks.NetworkConfig) clients.SettlementClient

// Orchestrator owns the payment state machine. One orchestrator serves one
// donation dialog at a time; opening it resets everything from any prior
// session.
type Orchestrator struct {
	registry *networks.Registry
	wallet   clients.Wallet
	settle   SettlementFactory
	log      logger.Logger
	metrics  metrics.Recorder

	callbacks Callbacks

	mu      sync.Mutex
	session *Session
}

// NewOrchestrator wires the orchestrator to its collaborators.
func NewOrchestrator(registry *networks.Registry, wallet clients.Wallet, settle SettlementFactory, cb Callbacks, log logger.Logger, rec metrics.Recorder) *Orchestrator {
	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Orchestrator{
		registry:  registry,
		wallet:    wallet,
		settle:    settle,
		callbacks: cb,
		log:       log,
		metrics:   rec,
	}
}

// Open starts a fresh session for the given config and display amount.
// All state from any previous session is discarded first. When exactly one
// network is selectable it is chosen immediately; if the wallet is already
// connected the flow continues through switching and fee loading without
// any manual selection.
func (o *Orchestrator) Open(ctx context.Context, config *types.DonationConfig, amount string) (*Session, error) {
	if config == nil || config.PayTo == "" {
		return nil, types.NewError(types.ErrInvalidConfig, "donation config has no payTo address")
	}
	if err := utils.ValidateAddress(config.PayTo); err != nil {
		return nil, err
	}
	if _, err := utils.ParseAmount(amount); err != nil {
		return nil, err
	}

	recipients := append([]types.Recipient{{Address: config.PayTo, Bips: 0}}, config.Recipients...)
	if !ValidateRecipients(recipients) {
		return nil, types.NewError(types.ErrInvalidConfig, "invalid recipient configuration")
	}

	o.mu.Lock()
	session := &Session{
		Step:       StepSelectNetwork,
		amount:     amount,
		config:     config.Clone(),
		recipients: recipients,
		payTo:      config.PayTo,
		selectable: o.registry.Selectable(config),
	}
	o.session = session
	o.mu.Unlock()

	o.metrics.IncCounter(metrics.EventPaymentStarted, map[string]string{})

	switch len(session.selectable) {
	case 0:
		o.failTo(StepSelectNetwork, types.NewError(types.ErrNoSelectableNet,
			"no available networks: the configured networks are not available in this environment"))
		return session, nil
	case 1:
		// Single selectable network: skip the selection UI entirely.
		return session, o.SelectNetwork(ctx, session.selectable[0])
	}

	if preferred, ok := o.registry.Preferred(); ok && contains(session.selectable, preferred) {
		o.mu.Lock()
		session.SelectedNetwork = preferred
		o.mu.Unlock()
	}
	o.notifyStep(StepSelectNetwork)
	return session, nil
}

// SelectNetwork records the donor's network choice and advances the flow.
// With no wallet connected the session halts at select-network until the
// embedding client reports the connection via WalletConnected.
func (o *Orchestrator) SelectNetwork(ctx context.Context, key networks.Key) error {
	o.mu.Lock()
	session := o.session
	if session == nil {
		o.mu.Unlock()
		return types.NewError(types.ErrConfigError, "no open payment session")
	}
	if !contains(session.selectable, key) {
		o.mu.Unlock()
		return types.NewError(types.ErrUnsupportedNetwork,
			fmt.Sprintf("network %s is not selectable for this recipient", key))
	}
	session.SelectedNetwork = key
	session.Err = ""
	session.manualSelection = true
	o.mu.Unlock()

	o.registry.SetPreferred(key)

	if !o.wallet.Connected() {
		// Wallet-connect UI is the embedding client's job; nothing more
		// happens until WalletConnected.
		return nil
	}
	return o.advance(ctx)
}

// WalletConnected resumes a session that halted waiting for a wallet.
// Only a network the donor (or single-network auto-selection) actually
// chose resumes; a preference-preloaded default stays waiting for an
// explicit SelectNetwork.
func (o *Orchestrator) WalletConnected(ctx context.Context) error {
	o.mu.Lock()
	session := o.session
	ready := session != nil && session.SelectedNetwork != "" &&
		session.Step == StepSelectNetwork && session.manualSelection
	o.mu.Unlock()
	if !ready {
		return nil
	}
	return o.advance(ctx)
}

// advance moves a session with a selected network through chain switching
// and fee loading until it reaches confirm-payment or falls back with an
// error.
func (o *Orchestrator) advance(ctx context.Context) error {
	o.mu.Lock()
	session := o.session
	if session == nil || session.SelectedNetwork == "" {
		o.mu.Unlock()
		return types.NewError(types.ErrConfigError, "no network selected")
	}
	key := session.SelectedNetwork
	o.mu.Unlock()

	network, ok := o.registry.ByKey(key)
	if !ok {
		return types.NewError(types.ErrUnsupportedNetwork, fmt.Sprintf("unknown network: %s", key))
	}

	if o.wallet.ChainID() != network.ChainID {
		o.setStep(StepSwitchNetwork)
		if err := o.wallet.SwitchChain(ctx, network.ChainID); err != nil {
			if clients.IsUserRejection(err) {
				o.log.Info("network switch rejected by user", map[string]any{
					"network": string(key),
				})
			} else {
				o.log.Warn("network switch failed", map[string]any{
					"network": string(key), "error": err.Error(),
				})
			}
			o.failTo(StepSelectNetwork, types.NewError(types.ErrSwitchFailed,
				fmt.Sprintf("failed to switch to %s", network.DisplayName)))
			return nil
		}
	}

	return o.loadFee(ctx, network)
}

// loadFee quotes the facilitator fee for the selected network and moves to
// confirmation; a failed quote returns the donor to network selection.
func (o *Orchestrator) loadFee(ctx context.Context, network networks.NetworkConfig) error {
	o.setStep(StepLoadingFee)

	client := o.settle(network)
	hookData := EncodeRecipientsForHook(o.currentRecipients())
	fee, err := client.CalculateFee(ctx, network.TransferHook, hookData)
	if err != nil {
		o.failTo(StepSelectNetwork, err)
		return nil
	}

	o.mu.Lock()
	if o.session != nil {
		o.session.Fee = fee
		o.session.Err = ""
	}
	o.mu.Unlock()
	o.setStep(StepConfirmPayment)
	return nil
}

// Breakdown recomputes the donor-visible amount, fee and total from the
// current session. It must be re-evaluated whenever amount, fee or network
// changes, which callers get for free by never caching the result.
func (o *Orchestrator) Breakdown() (Breakdown, error) {
	o.mu.Lock()
	session := o.session
	o.mu.Unlock()
	if session == nil {
		return Breakdown{}, types.NewError(types.ErrConfigError, "no open payment session")
	}

	amount := utils.NormalizeAmount(session.amount)
	out := Breakdown{Amount: amount, Total: amount}
	if session.Fee == nil || session.SelectedNetwork == "" {
		return out, nil
	}

	network, ok := o.registry.ByKey(session.SelectedNetwork)
	if !ok {
		return out, nil
	}
	decimals := network.DefaultAsset.Decimals

	atomicAmount, err := utils.ToAtomic(amount, decimals)
	if err != nil {
		return Breakdown{}, err
	}
	fee, err := utils.FromAtomic(session.Fee.FacilitatorFee, decimals)
	if err != nil {
		return Breakdown{}, err
	}
	totalAtomic, err := utils.AddAtomic(atomicAmount, session.Fee.FacilitatorFee)
	if err != nil {
		return Breakdown{}, err
	}
	total, err := utils.FromAtomic(totalAtomic, decimals)
	if err != nil {
		return Breakdown{}, err
	}

	out.Fee = fee
	out.Total = total
	return out, nil
}

// ChangeNetwork backs a confirming session out to network re-selection.
// Only meaningful when more than one network is selectable.
func (o *Orchestrator) ChangeNetwork() error {
	o.mu.Lock()
	session := o.session
	if session == nil {
		o.mu.Unlock()
		return types.NewError(types.ErrConfigError, "no open payment session")
	}
	if !session.CanChangeNetwork() {
		o.mu.Unlock()
		return types.NewError(types.ErrUnsupportedNetwork,
			"this recipient accepts a single network")
	}
	session.Step = StepSelectNetwork
	session.Fee = nil
	session.Err = ""
	session.manualSelection = false
	o.mu.Unlock()
	o.notifyStep(StepSelectNetwork)
	return nil
}

// Confirm executes the settlement. Success is terminal for the session;
// failure returns to confirm-payment so the donor can retry manually.
// Nothing here retries automatically.
func (o *Orchestrator) Confirm(ctx context.Context) error {
	o.mu.Lock()
	session := o.session
	if session == nil || session.Step != StepConfirmPayment || session.Fee == nil {
		o.mu.Unlock()
		return types.NewError(types.ErrConfigError, "session is not ready to confirm")
	}
	key := session.SelectedNetwork
	amount := session.amount
	payTo := session.payTo
	fee := session.Fee.FacilitatorFee
	recipients := append([]types.Recipient(nil), session.recipients...)
	o.mu.Unlock()

	network, ok := o.registry.ByKey(key)
	if !ok {
		return types.NewError(types.ErrUnsupportedNetwork, fmt.Sprintf("unknown network: %s", key))
	}

	atomicAmount, err := utils.ToAtomic(amount, network.DefaultAsset.Decimals)
	if err != nil {
		return err
	}

	o.setStep(StepProcessing)

	client := o.settle(network)
	result, err := client.Execute(ctx, clients.ExecuteParams{
		Amount:         atomicAmount,
		PayTo:          payTo,
		Hook:           network.TransferHook,
		HookData:       EncodeRecipientsForHook(recipients),
		FacilitatorFee: fee,
	}, false)
	if err != nil {
		if clients.IsUserRejection(err) {
			o.log.Info("payment rejected by user", map[string]any{
				"network": string(key),
			})
		} else {
			o.log.Error("payment failed", map[string]any{
				"network": string(key), "error": err.Error(),
			})
		}
		o.metrics.IncCounter(metrics.EventPaymentFailed, map[string]string{"network": string(key)})
		o.failTo(StepConfirmPayment, err)
		if o.callbacks.OnError != nil {
			o.callbacks.OnError(err)
		}
		return nil
	}

	o.mu.Lock()
	if o.session != nil {
		o.session.TxHash = result.TxHash
		o.session.Err = ""
	}
	o.mu.Unlock()
	o.setStep(StepSuccess)

	o.metrics.IncCounter(metrics.EventPaymentSuccess, map[string]string{"network": string(key)})
	o.log.Info("donation settled", map[string]any{
		"network": string(key),
		"txHash":  result.TxHash,
	})

	if o.callbacks.OnSuccess != nil {
		o.callbacks.OnSuccess(SuccessResult{
			TxHash:         result.TxHash,
			Network:        key,
			Amount:         utils.NormalizeAmount(amount),
			PayTo:          payTo,
			FacilitatorFee: fee,
		})
	}
	return nil
}

// Close discards the session. Reopening later starts from scratch.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.session = nil
	o.mu.Unlock()
}

// Session returns the current session, or nil when the dialog is closed.
func (o *Orchestrator) Session() *Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

func (o *Orchestrator) currentRecipients() []types.Recipient {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session == nil {
		return nil
	}
	return append([]types.Recipient(nil), o.session.recipients...)
}

func (o *Orchestrator) setStep(step Step) {
	o.mu.Lock()
	if o.session != nil {
		o.session.Step = step
	}
	o.mu.Unlock()
	o.notifyStep(step)
}

func (o *Orchestrator) failTo(step Step, err error) {
	o.mu.Lock()
	if o.session != nil {
		o.session.Step = step
		o.session.Err = err.Error()
	}
	o.mu.Unlock()
	o.notifyStep(step)
}

func (o *Orchestrator) notifyStep(step Step) {
	if o.callbacks.OnStep != nil {
		o.callbacks.OnStep(step)
	}
}

func contains(keys []networks.Key, key networks.Key) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
