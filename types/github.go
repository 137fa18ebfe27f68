package types

// GitHubUser is the subset of the GitHub users API this system reads.
type GitHubUser struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
	HTMLURL     string `json:"html_url"`
	Blog        string `json:"blog"`
	Twitter     string `json:"twitter_username"`
	Email       string `json:"email"`
	PublicRepos int    `json:"public_repos"`
}

// GitHubRepo is the subset of the GitHub repos API this system reads.
type GitHubRepo struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	HTMLURL       string `json:"html_url"`
	Homepage      string `json:"homepage"`
	Stars         int    `json:"stargazers_count"`
	Forks         int    `json:"forks_count"`
	DefaultBranch string `json:"default_branch"`
}
