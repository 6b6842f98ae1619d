package cmd

import (
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"

	"ytbridge/auth"
	"ytbridge/config"
)

// defaultScopes covers read access (search, liked videos) and the write
// actions (like, comment, subscribe).
var defaultScopes = []string{
	youtube.YoutubeReadonlyScope,
	youtube.YoutubeForceSslScope,
}

// oauthConfig parses the client registration file into an oauth2 config.
func oauthConfig(cfg *config.Config) (*oauth2.Config, error) {
	data, err := os.ReadFile(cfg.ClientSecretsFile)
	if err != nil {
		return nil, fmt.Errorf("read client secrets %s: %w", cfg.ClientSecretsFile, err)
	}

	oc, err := google.ConfigFromJSON(data, defaultScopes...)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}
	return oc, nil
}

// buildManager assembles the credential manager from configuration.
func buildManager(cfg *config.Config) (*auth.Manager, error) {
	oc, err := oauthConfig(cfg)
	if err != nil {
		return nil, err
	}

	store := auth.NewFileStore(cfg.TokenFile)
	return auth.NewManager(store, oc, auth.WithHeadless(cfg.Headless)), nil
}
