// Package builder constructs donation configurations interactively: it
// validates drafts field by field, previews them through the codec and the
// network registry, and renders the shareable artifacts (quick-link URLs,
// GitHub config files, badges).
package builder

import (
	"encoding/json"
	"fmt"

	"github.com/x402x/gives/codec"
	"github.com/x402x/gives/networks"
	"github.com/x402x/gives/types"
	"github.com/x402x/gives/utils"
)

// DefaultBaseURL is the public donation site the builder links to.
const DefaultBaseURL = "https://x402.gives"

// BadgeImageURL is the static badge served by shields.io; the link target
// around it carries the actual donation URL.
const BadgeImageURL = "https://img.shields.io/badge/donate-x402.gives-blue?logo=githubsponsors&logoColor=white"

// Draft is an in-progress donation configuration. It mirrors
// types.DonationConfig but stays loose enough to hold partial input while
// the creator is still typing.
type Draft struct {
	PayTo         string            `json:"payTo"`
	Title         string            `json:"title,omitempty"`
	Description   string            `json:"description,omitempty"`
	DefaultAmount string            `json:"defaultAmount,omitempty"`
	Networks      []string          `json:"networks,omitempty"`
	Recipients    []types.Recipient `json:"recipients,omitempty"`
	Links         []types.Link      `json:"links,omitempty"`
	Creator       *types.Creator    `json:"creator,omitempty"`
}

// FieldError pins a validation problem to the offending input field so the
// form can render it inline.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Builder validates drafts and renders shareable outputs.
type Builder struct {
	registry *networks.Registry
	baseURL  string
}

// New builds a Builder. An empty baseURL falls back to the public site.
func New(registry *networks.Registry, baseURL string) *Builder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Builder{registry: registry, baseURL: baseURL}
}

// Validate reports every problem with a draft at once; it never stops at
// the first error, so forms can mark all offending fields together.
func (b *Builder) Validate(d Draft) []FieldError {
	var errs []FieldError

	if d.PayTo == "" {
		errs = append(errs, FieldError{Field: "payTo", Message: "recipient address is required"})
	} else if !utils.IsChainAddress(d.PayTo) {
		errs = append(errs, FieldError{Field: "payTo", Message: "not a valid chain address"})
	}

	total := 0
	for i, r := range d.Recipients {
		field := fmt.Sprintf("recipients[%d]", i)
		if r.Address == "" {
			errs = append(errs, FieldError{Field: field + ".address", Message: "address is required"})
		} else if !utils.IsChainAddress(r.Address) {
			errs = append(errs, FieldError{Field: field + ".address", Message: "not a valid chain address"})
		}
		if r.Bips < 0 {
			errs = append(errs, FieldError{Field: field + ".bips", Message: "bips cannot be negative"})
		}
		total += r.Bips
	}
	if total > types.MaxTotalBips {
		errs = append(errs, FieldError{
			Field:   "recipients",
			Message: fmt.Sprintf("splits total %d bips; at most %d allowed", total, types.MaxTotalBips),
		})
	}

	if d.DefaultAmount != "" {
		if _, err := utils.ParseAmount(d.DefaultAmount); err != nil {
			errs = append(errs, FieldError{Field: "defaultAmount", Message: "not a valid amount"})
		}
	}

	if len(d.Networks) > 0 {
		report := b.registry.ValidateConfig(&types.DonationConfig{Network: types.NetworkField(d.Networks)})
		for _, msg := range report.Errors {
			errs = append(errs, FieldError{Field: "networks", Message: msg})
		}
	}

	for i, l := range d.Links {
		if l.URL == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("links[%d].url", i),
				Message: "link URL is required",
			})
		}
	}

	if d.Creator != nil && d.Creator.Handle == "" {
		errs = append(errs, FieldError{Field: "creator.handle", Message: "creator handle is required"})
	}

	return errs
}

// Config freezes a draft into a DonationConfig. Amounts keep their display
// form; currency symbols are stripped when the payment flow converts them.
func (b *Builder) Config(d Draft) *types.DonationConfig {
	return &types.DonationConfig{
		PayTo:         d.PayTo,
		Title:         d.Title,
		Description:   d.Description,
		DefaultAmount: d.DefaultAmount,
		Network:       types.NetworkField(d.Networks),
		Recipients:    append([]types.Recipient(nil), d.Recipients...),
		Links:         append([]types.Link(nil), d.Links...),
		Creator:       d.Creator,
	}
}

// QuickLink encodes a draft into its shareable URL and the raw token.
// Drafts that fail validation do not encode.
func (b *Builder) QuickLink(d Draft) (pageURL, token string, err error) {
	if errs := b.Validate(d); len(errs) > 0 {
		return "", "", types.NewError(types.ErrInvalidConfig, errs[0].Message)
	}

	config := b.Config(d)
	// The address lives in the path; carrying it in the token too only
	// bloats the URL, and the path wins on decode anyway.
	encodable := config.Clone()
	encodable.PayTo = ""

	token, err = codec.Encode(encodable)
	if err != nil {
		return "", "", err
	}

	if onlyPayTo(d) {
		return fmt.Sprintf("%s/%s", b.baseURL, config.PayTo), "", nil
	}
	return fmt.Sprintf("%s/%s#%s", b.baseURL, config.PayTo, token), token, nil
}

// GitHubURL is the shareable verified-page URL for a user or repository.
func (b *Builder) GitHubURL(username, repo string) string {
	if repo == "" {
		return fmt.Sprintf("%s/github.com/%s", b.baseURL, username)
	}
	return fmt.Sprintf("%s/github.com/%s/%s", b.baseURL, username, repo)
}

// ConfigFile renders the donation.json a creator commits to the
// conventional path of their repository.
func (b *Builder) ConfigFile(d Draft) ([]byte, error) {
	if errs := b.Validate(d); len(errs) > 0 {
		return nil, types.NewError(types.ErrInvalidConfig, errs[0].Message)
	}
	return json.MarshalIndent(b.Config(d), "", "  ")
}

// BadgeMarkdown renders the README badge linking to a donation page.
func (b *Builder) BadgeMarkdown(pageURL, displayName string) string {
	return fmt.Sprintf("[![Support %s](%s)](%s)", displayName, BadgeImageURL, pageURL)
}

// BadgeHTML renders the HTML form of the badge.
func (b *Builder) BadgeHTML(pageURL, displayName string) string {
	return fmt.Sprintf("<a href=\"%s\">\n  <img src=\"%s\" alt=\"Support %s\" />\n</a>",
		pageURL, BadgeImageURL, displayName)
}

func onlyPayTo(d Draft) bool {
	return d.Title == "" && d.Description == "" && d.DefaultAmount == "" &&
		len(d.Networks) == 0 && len(d.Recipients) == 0 && len(d.Links) == 0 &&
		d.Creator == nil
}
