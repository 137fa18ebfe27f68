// Package networks holds the static catalog of chains the donation flow can
// settle on, plus the policy deciding which of them a given build and a
// given recipient configuration may actually use.
package networks

// Key identifies a supported network.
type Key string

const (
	Base          Key = "base"
	BaseSepolia   Key = "base-sepolia"
	XLayer        Key = "x-layer"
	XLayerTestnet Key = "x-layer-testnet"
)

func (k Key) String() string { return string(k) }

// NetworkType classifies a chain as mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// Asset is the settlement token of a network (USDC on every chain today).
type Asset struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
}

// NetworkConfig is one immutable catalog entry: protocol addresses merged
// with the UI metadata a donation page needs. Loaded once at process start,
// never mutated.
type NetworkConfig struct {
	Key              Key         `json:"network"`
	ChainID          int64       `json:"chainId"`
	Type             NetworkType `json:"type"`
	DisplayName      string      `json:"displayName"`
	Icon             string      `json:"icon"`
	SettlementRouter string      `json:"settlementRouter"`
	TransferHook     string      `json:"transferHook"`
	DefaultAsset     Asset       `json:"defaultAsset"`
	BlockExplorerURL string      `json:"blockExplorerUrl"`
	TxExplorerBase   string      `json:"txExplorerBaseUrl,omitempty"`
	FaucetURL        string      `json:"faucetUrl,omitempty"`
}

// IsTestnet reports whether the entry is a test network.
func (c NetworkConfig) IsTestnet() bool { return c.Type == Testnet }

const (
	// Settlement contracts are deployed at the same address on every
	// supported chain (CREATE2).
	settlementRouterAddress = "0x4020eC7885ee4F20E97B9b95C4eC06881574D402"
	transferHookAddress     = "0x40207bEa2B6C8a29b5b1bbBBbD9c29403B4E2402"
)

// catalogOrder fixes the order every listing operation preserves.
var catalogOrder = []Key{BaseSepolia, XLayerTestnet, Base, XLayer}

var catalog = map[Key]NetworkConfig{
	BaseSepolia: {
		Key:              BaseSepolia,
		ChainID:          84532,
		Type:             Testnet,
		DisplayName:      "Base Sepolia",
		Icon:             "🔵",
		SettlementRouter: settlementRouterAddress,
		TransferHook:     transferHookAddress,
		DefaultAsset: Asset{
			Address:  "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
			Symbol:   "USDC",
			Name:     "USDC",
			Decimals: 6,
		},
		BlockExplorerURL: "https://sepolia.basescan.org",
		TxExplorerBase:   "https://sepolia.basescan.org/tx/",
		FaucetURL:        "https://faucet.circle.com/",
	},
	XLayerTestnet: {
		Key:              XLayerTestnet,
		ChainID:          195,
		Type:             Testnet,
		DisplayName:      "X Layer Testnet",
		Icon:             "⭕",
		SettlementRouter: settlementRouterAddress,
		TransferHook:     transferHookAddress,
		DefaultAsset: Asset{
			Address:  "0x04292AF1Cf8687235A83766D55B307880fC5E76d",
			Symbol:   "USDC",
			Name:     "USDC",
			Decimals: 6,
		},
		BlockExplorerURL: "https://www.okx.com/web3/explorer/xlayer-test",
		TxExplorerBase:   "https://www.okx.com/web3/explorer/xlayer-test/tx/",
		FaucetURL:        "https://www.okx.com/xlayer/faucet",
	},
	Base: {
		Key:              Base,
		ChainID:          8453,
		Type:             Mainnet,
		DisplayName:      "Base Mainnet",
		Icon:             "🔵",
		SettlementRouter: settlementRouterAddress,
		TransferHook:     transferHookAddress,
		DefaultAsset: Asset{
			Address:  "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
			Symbol:   "USDC",
			Name:     "USD Coin",
			Decimals: 6,
		},
		BlockExplorerURL: "https://basescan.org",
		TxExplorerBase:   "https://basescan.org/tx/",
		FaucetURL:        "https://docs.base.org/docs/tools/bridge-funds/",
	},
	XLayer: {
		Key:              XLayer,
		ChainID:          196,
		Type:             Mainnet,
		DisplayName:      "X Layer",
		Icon:             "⭕",
		SettlementRouter: settlementRouterAddress,
		TransferHook:     transferHookAddress,
		DefaultAsset: Asset{
			Address:  "0x74b7F16337b8972027F6196A17a631aC6dE26d22",
			Symbol:   "USDC",
			Name:     "USD Coin",
			Decimals: 6,
		},
		BlockExplorerURL: "https://www.okx.com/web3/explorer/xlayer",
		TxExplorerBase:   "https://www.okx.com/web3/explorer/xlayer/tx/",
		FaucetURL:        "https://www.okx.com/xlayer/bridge",
	},
}
