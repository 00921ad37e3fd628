package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/arbor-dev/arbor/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/yandex"
)

const yandexProfileURL = "https://login.yandex.ru/info?format=json"

type YandexProvider struct {
	conf       *oauth2.Config
	profileURL string
}

func NewYandex(creds config.OAuthCredentials, redirectURI string) *YandexProvider {
	return &YandexProvider{
		conf: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  redirectURI,
			Endpoint:     yandex.Endpoint,
		},
		profileURL: yandexProfileURL,
	}
}

func (p *YandexProvider) Name() string {
	return "yandex"
}

func (p *YandexProvider) AuthCodeURL() string {
	return p.conf.AuthCodeURL("")
}

func (p *YandexProvider) Authenticate(ctx context.Context, code string) (*Profile, error) {
	token, err := p.conf.Exchange(ctx, code)

	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)

	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "OAuth "+token.AccessToken)

	resp, err := http.DefaultClient.Do(req)

	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get user info: status %d", resp.StatusCode)
	}

	var info struct {
		ID              string `json:"id"`
		DefaultEmail    string `json:"default_email"`
		DisplayName     string `json:"display_name"`
		RealName        string `json:"real_name"`
		DefaultAvatarID string `json:"default_avatar_id"`
	}

	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	displayName := info.DisplayName

	if displayName == "" {
		displayName = info.RealName
	}

	var avatarURL string

	if info.DefaultAvatarID != "" {
		avatarURL = fmt.Sprintf("https://avatars.yandex.net/get-yapic/%s/islands-200", info.DefaultAvatarID)
	}

	return &Profile{
		ProviderUserID: info.ID,
		Email:          info.DefaultEmail,
		DisplayName:    displayName,
		AvatarURL:      avatarURL,
		Raw:            body,
	}, nil
}
