package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v71/github"
	"golang.org/x/oauth2"
)

// NewGitHubClient builds a token-authenticated client, or an anonymous one
// when no token is given.
func NewGitHubClient(token string) *github.Client {
	if token == "" {
		return github.NewClient(nil)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(context.Background(), ts))
}

// NewInstallationClient builds a client that authenticates as one app
// installation. Callers construct it explicitly and pass it down; there is
// no shared lazily-initialized client.
func NewInstallationClient(appID, installationID int64, privateKey []byte) (*github.Client, error) {
	transport, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create installation transport: %v", err)
	}
	return github.NewClient(&http.Client{Transport: transport}), nil
}

// InstallationRepoCount returns how many repositories the installation can
// see, used by the admin installation-status endpoint.
func InstallationRepoCount(ctx context.Context, client *github.Client) (int, error) {
	repos, _, err := client.Apps.ListRepos(ctx, &github.ListOptions{PerPage: 1})
	if err != nil {
		return 0, fmt.Errorf("failed to list installation repos: %v", err)
	}
	return repos.GetTotalCount(), nil
}

// InstallURL is where an admin is sent to install the github app.
func InstallURL(appSlug string) string {
	return fmt.Sprintf("https://github.com/apps/%s/installations/new", appSlug)
}
