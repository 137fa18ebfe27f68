package types

import "strings"

// DisplayData is the merged view a donation page renders: configuration
// fields backfilled from GitHub metadata according to fixed priority rules.
type DisplayData struct {
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	Creator       *Creator    `json:"creator,omitempty"`
	Recipients    []Recipient `json:"recipients"`
	Links         []Link      `json:"links,omitempty"`
	DefaultAmount string      `json:"defaultAmount,omitempty"`
	Network       []string    `json:"network,omitempty"`
	Source        Source      `json:"source"`
}

// LinkType classifies a related link by its URL so the presentation layer
// can pick an icon without the config having to say what each link is.
func LinkType(rawURL string) string {
	u := strings.ToLower(rawURL)

	switch {
	case strings.Contains(u, "github.com"), strings.Contains(u, "gitlab.com"):
		return "repository"
	case strings.Contains(u, "twitter.com"), strings.Contains(u, "x.com"):
		return "twitter"
	case strings.Contains(u, "discord.gg"), strings.Contains(u, "discord.com"):
		return "discord"
	case strings.Contains(u, "t.me"), strings.Contains(u, "telegram."):
		return "telegram"
	case strings.HasPrefix(u, "mailto:"):
		return "email"
	case strings.Contains(u, "/docs"), strings.Contains(u, "/documentation"), strings.Contains(u, "docs."):
		return "documentation"
	case strings.Contains(u, "/blog"), strings.Contains(u, "blog."), strings.Contains(u, "medium.com"):
		return "blog"
	}
	return "website"
}

// MergeLinks supplements the configured links with the GitHub repository URL
// and homepage/blog when the config does not already carry them.
func MergeLinks(configured []Link, meta PageMetadata) []Link {
	links := append([]Link(nil), configured...)

	if meta.Source.Type != SourceGitHub {
		return links
	}

	has := func(url string) bool {
		for _, l := range configured {
			if l.URL == url {
				return true
			}
		}
		return false
	}

	if meta.GitHubRepo != nil && meta.GitHubRepo.HTMLURL != "" && !has(meta.GitHubRepo.HTMLURL) {
		links = append(links, Link{URL: meta.GitHubRepo.HTMLURL, Label: "Repository"})
	}

	website := ""
	if meta.GitHubRepo != nil && meta.GitHubRepo.Homepage != "" {
		website = meta.GitHubRepo.Homepage
	} else if meta.GitHubUser != nil && meta.GitHubUser.Blog != "" {
		website = meta.GitHubUser.Blog
	}
	if website != "" && !has(website) {
		links = append(links, Link{URL: website, Label: "Website"})
	}

	return links
}

// Display merges config and metadata into the page view. Priorities follow
// the config first, then repo metadata, then user metadata, then the raw
// source reference.
func (d *RecipientPageData) Display() DisplayData {
	config := d.Config
	meta := d.Metadata

	title := config.Title
	if title == "" && meta.GitHubRepo != nil {
		title = meta.GitHubRepo.Name
	}
	if title == "" && meta.GitHubUser != nil {
		title = meta.GitHubUser.Login
	}
	if title == "" {
		title = meta.Source.Reference
	}

	description := config.Description
	if description == "" && meta.GitHubRepo != nil {
		description = meta.GitHubRepo.Description
	}
	if description == "" && meta.GitHubUser != nil {
		description = meta.GitHubUser.Bio
	}

	creator := config.Creator
	if creator == nil && meta.GitHubUser != nil {
		creator = &Creator{Handle: meta.GitHubUser.Login, Avatar: meta.GitHubUser.AvatarURL}
	}

	recipients := append([]Recipient(nil), config.Recipients...)
	if recipients == nil {
		recipients = []Recipient{}
	}

	return DisplayData{
		Title:         title,
		Description:   description,
		Creator:       creator,
		Recipients:    recipients,
		Links:         MergeLinks(config.Links, meta),
		DefaultAmount: config.DefaultAmount,
		Network:       []string(config.Network),
		Source:        meta.Source,
	}
}
