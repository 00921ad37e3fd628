package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/arbor-dev/arbor/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/vk"
)

const (
	vkAPIVersion = "5.131"
	vkAPIBaseURL = "https://api.vk.com"
)

type VKProvider struct {
	conf    *oauth2.Config
	apiBase string
}

func NewVK(creds config.OAuthCredentials, redirectURI string) *VKProvider {
	return &VKProvider{
		conf: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"email"},
			Endpoint:     vk.Endpoint,
		},
		apiBase: vkAPIBaseURL,
	}
}

func (p *VKProvider) Name() string {
	return "vk"
}

func (p *VKProvider) AuthCodeURL() string {
	return p.conf.AuthCodeURL("",
		oauth2.SetAuthURLParam("display", "page"),
		oauth2.SetAuthURLParam("v", vkAPIVersion))
}

func (p *VKProvider) Authenticate(ctx context.Context, code string) (*Profile, error) {
	token, err := p.conf.Exchange(ctx, code)

	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	// VK returns the user id and email alongside the access token.
	userID, ok := token.Extra("user_id").(float64)

	if !ok {
		return nil, fmt.Errorf("failed to get access token: no user_id in response")
	}

	vkUserID := fmt.Sprintf("%.0f", userID)
	email, _ := token.Extra("email").(string)

	if email == "" {
		email = fmt.Sprintf("vk%s@vk.com", vkUserID)
	}

	query := url.Values{
		"user_ids":     {vkUserID},
		"fields":       {"photo_200"},
		"access_token": {token.AccessToken},
		"v":            {vkAPIVersion},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+"/method/users.get?"+query.Encode(), nil)

	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)

	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	var api struct {
		Response []struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			Photo200  string `json:"photo_200"`
		} `json:"response"`
	}

	if err := json.Unmarshal(body, &api); err != nil || len(api.Response) == 0 {
		return nil, fmt.Errorf("failed to get user info")
	}

	userInfo := api.Response[0]
	rawUser, _ := json.Marshal(userInfo)

	return &Profile{
		ProviderUserID: vkUserID,
		Email:          email,
		DisplayName:    strings.TrimSpace(userInfo.FirstName + " " + userInfo.LastName),
		AvatarURL:      userInfo.Photo200,
		Raw:            rawUser,
	}, nil
}
