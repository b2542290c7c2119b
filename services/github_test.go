package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-github/v71/github"
	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
)

func TestInstallURL(t *testing.T) {
	assert.Equal(t, "https://github.com/apps/feedback-sync/installations/new", InstallURL("feedback-sync"))
}

func TestInstallationRepoCount(t *testing.T) {
	defer gock.Off()

	gock.New("https://api.github.com").
		Get("/installation/repositories").
		Reply(200).
		JSON(map[string]interface{}{
			"total_count":  5,
			"repositories": []interface{}{},
		})

	httpClient := &http.Client{}
	gock.InterceptClient(httpClient)
	client := github.NewClient(httpClient)

	count, err := InstallationRepoCount(context.Background(), client)
	assert.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestInstallationRepoCountError(t *testing.T) {
	defer gock.Off()

	gock.New("https://api.github.com").
		Get("/installation/repositories").
		Reply(401).
		JSON(map[string]interface{}{"message": "Bad credentials"})

	httpClient := &http.Client{}
	gock.InterceptClient(httpClient)
	client := github.NewClient(httpClient)

	_, err := InstallationRepoCount(context.Background(), client)
	assert.Error(t, err)
}

func TestNewInstallationClientRejectsBadKey(t *testing.T) {
	_, err := NewInstallationClient(42, 12345, []byte("not a pem key"))
	assert.Error(t, err)
}

func TestNewGitHubClientWithoutToken(t *testing.T) {
	assert.NotNil(t, NewGitHubClient(""))
	assert.NotNil(t, NewGitHubClient("some-token"))
}
