package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubUserAPI = "https://api.github.com/user"

// GitHubUser is the subset of the provider profile this application keeps.
type GitHubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// UserID renders the provider's numeric ID as the stable account key.
func (u *GitHubUser) UserID() string {
	return strconv.FormatInt(u.ID, 10)
}

// GitHubProvider performs the OAuth code flow against GitHub.
type GitHubProvider struct {
	oauth   *oauth2.Config
	userAPI string
	client  *http.Client
}

// NewGitHubProvider builds a provider from client credentials and the
// callback URL registered with GitHub.
func NewGitHubProvider(clientID, clientSecret, redirectURL string) *GitHubProvider {
	return &GitHubProvider{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user"},
			Endpoint:     github.Endpoint,
		},
		userAPI: githubUserAPI,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthorizeURL returns the provider login URL carrying the CSRF state.
func (p *GitHubProvider) AuthorizeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange swaps the callback code for an access token and fetches the
// authenticated user's profile.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*GitHubUser, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code: %w", err)
	}
	return p.fetchUser(ctx, token.AccessToken)
}

func (p *GitHubProvider) fetchUser(ctx context.Context, accessToken string) (*GitHubUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userAPI, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching user profile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("github user API returned %d: %s", resp.StatusCode, body)
	}

	var user GitHubUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decoding user profile: %w", err)
	}
	if user.ID == 0 || user.Login == "" {
		return nil, fmt.Errorf("github user profile incomplete")
	}
	return &user, nil
}

// WithEndpoints overrides the token and user API endpoints. Tests use this
// to point the provider at a local stub.
func (p *GitHubProvider) WithEndpoints(authURL, tokenURL, userAPI string) *GitHubProvider {
	p.oauth.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
	p.userAPI = userAPI
	return p
}
