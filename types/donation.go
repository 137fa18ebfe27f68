// Package types defines the shared data model for the gives donation core:
// donation configurations, resolved recipient pages, and the typed errors
// exchanged between packages.
package types

// MaxTotalBips is the aggregate basis-point budget for split recipients.
// The unallocated remainder (MaxTotalBips - sum) is implicitly owed to PayTo.
const MaxTotalBips = 10000

// Recipient is one entry of a split-payment list. Bips are basis points
// (1 bip = 0.01%) of the donated amount routed to Address.
type Recipient struct {
	Address string `json:"address" validate:"required"`
	Bips    int    `json:"bips" validate:"gte=0"`
}

// Creator identifies whose donation page this is.
type Creator struct {
	Handle string `json:"handle" validate:"required"`
	Avatar string `json:"avatar,omitempty"`
}

// Link is a related URL shown on the donation page.
type Link struct {
	URL   string `json:"url" validate:"required,url"`
	Label string `json:"label,omitempty"`
}

// DonationConfig is the canonical, source-agnostic description of how a
// donation is routed and displayed. It is decoded from a GitHub-hosted
// donation.json, from a quick-link URL token, or built from a bare address.
//
// PayTo is optional: its absence signals a page that exists but has not been
// configured yet (for example a GitHub profile without a config file).
// If Recipients is non-empty, each entry receives its share and PayTo
// receives the remainder; otherwise PayTo receives everything.
type DonationConfig struct {
	PayTo         string      `json:"payTo,omitempty"`
	Recipients    []Recipient `json:"recipients,omitempty" validate:"omitempty,dive"`
	Title         string      `json:"title,omitempty"`
	Description   string      `json:"description,omitempty"`
	Creator       *Creator    `json:"creator,omitempty"`
	DefaultAmount string      `json:"defaultAmount,omitempty"`

	// Network restricts which chains may be used for this recipient.
	// JSON accepts either a single string or a list; absence means all
	// available networks. Always read through codec.NormalizeNetworks.
	Network NetworkField `json:"network,omitempty"`

	Links []Link `json:"links,omitempty" validate:"omitempty,dive"`
}

// TotalBips returns the sum of the split recipients' basis points.
func (c *DonationConfig) TotalBips() int {
	total := 0
	for _, r := range c.Recipients {
		total += r.Bips
	}
	return total
}

// Clone returns a deep copy. Configs are never mutated in place; every
// update produces a new value.
func (c *DonationConfig) Clone() *DonationConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.Recipients != nil {
		out.Recipients = append([]Recipient(nil), c.Recipients...)
	}
	if c.Links != nil {
		out.Links = append([]Link(nil), c.Links...)
	}
	if c.Creator != nil {
		creator := *c.Creator
		out.Creator = &creator
	}
	if c.Network != nil {
		out.Network = append(NetworkField(nil), c.Network...)
	}
	return &out
}

// SourceType classifies where a resolved recipient page came from.
type SourceType string

const (
	SourceGitHub    SourceType = "github"
	SourceQuickLink SourceType = "quicklink"
	SourceCustom    SourceType = "custom"
)

// Source carries the provenance of a resolved donation configuration.
// Verified is true only when a GitHub configuration file was actually
// fetched and parsed from the claimed repository.
type Source struct {
	Type      SourceType `json:"type"`
	Reference string     `json:"reference"`
	Verified  bool       `json:"verified"`
}

// PageMetadata is runtime metadata gathered while resolving a recipient,
// used to backfill display fields the config leaves empty.
type PageMetadata struct {
	Source     Source      `json:"source"`
	GitHubUser *GitHubUser `json:"githubUser,omitempty"`
	GitHubRepo *GitHubRepo `json:"githubRepo,omitempty"`
}

// RecipientPageData is the complete result of recipient resolution:
// the configuration plus everything needed to render the page.
type RecipientPageData struct {
	Config   DonationConfig `json:"config"`
	Metadata PageMetadata   `json:"metadata"`
}

// Configured reports whether the page has a payable recipient.
func (d *RecipientPageData) Configured() bool {
	return d != nil && d.Config.PayTo != ""
}
