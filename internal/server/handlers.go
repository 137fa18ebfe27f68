package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/x402x/gives/builder"
	"github.com/x402x/gives/codec"
	"github.com/x402x/gives/networks"
	"github.com/x402x/gives/resolver"
	"github.com/x402x/gives/types"
	"github.com/x402x/gives/utils"
)

func (s *Server) handleNetworks(c *gin.Context) {
	registry := s.core.Networks()

	available := registry.Available()
	keys := make(map[string]bool, len(available))
	for _, k := range available {
		keys[string(k)] = true
	}

	out := make([]gin.H, 0, len(available))
	for _, n := range registry.ListAll() {
		if !keys[string(n.Key)] {
			continue
		}
		out = append(out, gin.H{
			"network":          n.Key,
			"chainId":          n.ChainID,
			"type":             n.Type,
			"displayName":      n.DisplayName,
			"icon":             n.Icon,
			"settlementRouter": n.SettlementRouter,
			"transferHook":     n.TransferHook,
			"defaultAsset":     n.DefaultAsset,
			"blockExplorerUrl": n.BlockExplorerURL,
			"faucetUrl":        n.FaucetURL,
		})
	}
	c.JSON(http.StatusOK, gin.H{"networks": out})
}

func (s *Server) handleGitHubRecipient(c *gin.Context) {
	route := resolver.Route{
		Username: c.Param("username"),
		Repo:     c.Param("repo"),
	}

	data, err := s.core.Resolve(c.Request.Context(), route)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if data == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":    data,
		"display": data.Display(),
	})
}

func (s *Server) handleQuickLinkRecipient(c *gin.Context) {
	address := c.Param("address")
	if !utils.IsChainAddress(address) {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
		return
	}

	// The fragment never reaches the server; clients forward the token
	// through the c query parameter instead.
	route := resolver.Route{
		Address: address,
		Hash:    strings.TrimPrefix(c.Query("c"), "#"),
	}

	data, err := s.core.Resolve(c.Request.Context(), route)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if data == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":    data,
		"display": data.Display(),
	})
}

func (s *Server) handleQuickLink(c *gin.Context) {
	var draft builder.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	b := s.core.Builder()
	if errs := b.Validate(draft); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	pageURL, token, err := b.QuickLink(draft)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	configFile, err := b.ConfigFile(draft)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":           pageURL,
		"token":         token,
		"configFile":    string(configFile),
		"badgeMarkdown": b.BadgeMarkdown(pageURL, draft.PayTo),
		"badgeHtml":     b.BadgeHTML(pageURL, draft.PayTo),
	})
}

type donationNotice struct {
	PayTo   string `json:"payTo"`
	TxHash  string `json:"txHash"`
	Network string `json:"network"`
	Amount  string `json:"amount,omitempty"`
}

// handleDonationNotice accepts a settled-donation report from an embedding
// client and fans it out to the recipient's feed subscribers.
func (s *Server) handleDonationNotice(c *gin.Context) {
	var notice donationNotice
	if err := c.ShouldBindJSON(&notice); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	if !utils.IsChainAddress(notice.PayTo) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid recipient address"})
		return
	}
	if err := utils.ValidateTxHash(notice.TxHash); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if notice.Network != "" {
		if _, ok := s.core.Networks().ByKey(networks.Key(notice.Network)); !ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown network: " + notice.Network})
			return
		}
	}

	// Subscribers are keyed by checksummed address at registration.
	s.hub.Broadcast <- DonationEvent{
		PayTo:   utils.ChecksumAddress(notice.PayTo),
		TxHash:  notice.TxHash,
		Network: notice.Network,
		Amount:  notice.Amount,
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

type validateRequest struct {
	Config *types.DonationConfig `json:"config,omitempty"`
	Token  string                `json:"token,omitempty"`
}

func (s *Server) handleValidate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	cfg := req.Config
	if cfg == nil && req.Token != "" {
		cfg = codec.Decode(req.Token)
	}
	if cfg == nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "errors": []string{"no decodable configuration"}})
		return
	}

	report := s.core.Networks().ValidateConfig(cfg)
	if !codec.Validate(cfg) {
		report.Valid = false
		report.Errors = append(report.Errors, "configuration is not payable: payTo and recipient splits must be valid")
	}
	c.JSON(http.StatusOK, report)
}
