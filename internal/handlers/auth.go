package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arbor-dev/arbor/db"
	"github.com/arbor-dev/arbor/internal/auth"
	"github.com/arbor-dev/arbor/internal/config"
	"github.com/arbor-dev/arbor/internal/models"
	"github.com/arbor-dev/arbor/internal/oauth"
	"github.com/arbor-dev/arbor/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthHandler struct {
	frontendURL string
	providers   map[string]oauth.Provider
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	redirectBase := cfg.PublicBaseURL + "/api/auth"

	providers := make(map[string]oauth.Provider)

	if cfg.Yandex.Configured() {
		providers["yandex"] = oauth.NewYandex(cfg.Yandex, redirectBase+"?provider=yandex")
	}

	if cfg.VK.Configured() {
		providers["vk"] = oauth.NewVK(cfg.VK, redirectBase+"?provider=vk")
	}

	return &AuthHandler{
		frontendURL: cfg.FrontendURL,
		providers:   providers,
	}
}

// Handle dispatches on the provider and action query parameters, the way
// the auth endpoint is addressed by the frontend.
func (h *AuthHandler) Handle(ctx *gin.Context) {
	provider := ctx.Query("provider")

	switch provider {
	case "yandex", "vk":
		h.oauthFlow(ctx, provider)
		return
	}

	action := ctx.Query("action")

	switch {
	case action == "register" && ctx.Request.Method == http.MethodPost:
		h.register(ctx)
	case action == "login" && ctx.Request.Method == http.MethodPost:
		h.login(ctx)
	case action == "verify" && ctx.Request.Method == http.MethodGet:
		h.verify(ctx)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action or method"})
	}
}

func (h *AuthHandler) register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if email == "" || req.Password == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	if len(req.Password) < 6 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
		return
	}

	var existingUser models.User

	err := db.DB.Where("email = ?", email).First(&existingUser).Error

	if err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	displayName := req.DisplayName

	if displayName == "" {
		displayName = emailLocalPart(email)
	}

	newUser := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
	}

	if err := db.DB.Create(&newUser).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	session, err := auth.CreateSession(db.DB, newUser.ID)

	if err != nil {
		log.Printf("Failed to create session: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, types.RegisterResponse{
		UserID:       newUser.ID,
		Email:        newUser.Email,
		DisplayName:  newUser.DisplayName,
		SessionToken: session.SessionToken,
		ExpiresAt:    session.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *AuthHandler) login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if email == "" || req.Password == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	var user models.User

	err := db.DB.Where("email = ?", email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same message as a hash mismatch, to avoid user enumeration.
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	session, err := auth.CreateSession(db.DB, user.ID)

	if err != nil {
		log.Printf("Failed to create session: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, types.LoginResponse{
		UserID:       user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		AvatarURL:    user.AvatarURL,
		SessionToken: session.SessionToken,
		ExpiresAt:    session.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *AuthHandler) verify(ctx *gin.Context) {
	token := ctx.GetHeader("X-Session-Token")

	if token == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Session token required"})
		return
	}

	var session models.Session

	err := db.DB.Preload("User").Where("session_token = ?", token).First(&session).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session token"})
			return
		}
		log.Printf("Database error when fetching session: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if session.ExpiresAt.Before(time.Now().UTC()) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
		return
	}

	ctx.JSON(http.StatusOK, types.VerifyResponse{
		UserID:      session.UserID,
		Email:       session.User.Email,
		DisplayName: session.User.DisplayName,
		AvatarURL:   session.User.AvatarURL,
		ExpiresAt:   session.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *AuthHandler) oauthFlow(ctx *gin.Context, name string) {
	provider, ok := h.providers[name]

	if !ok {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "OAuth not configured"})
		return
	}

	code := ctx.Query("code")

	if code == "" {
		ctx.Redirect(http.StatusFound, provider.AuthCodeURL())
		return
	}

	profile, err := provider.Authenticate(ctx.Request.Context(), code)

	if err != nil {
		log.Printf("OAuth %s authentication failed: %v", name, err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to get access token"})
		return
	}

	var session *models.Session

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		userID, err := resolveOAuthUser(tx, name, profile)

		if err != nil {
			return err
		}

		session, err = auth.CreateSession(tx, userID)

		return err
	})

	if err != nil {
		log.Printf("OAuth %s login failed: %v", name, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	callback := h.frontendURL + "/auth/callback?session_token=" + url.QueryEscape(session.SessionToken)
	ctx.Redirect(http.StatusFound, callback)
}

// resolveOAuthUser maps a provider profile to a local user id: an
// existing provider link wins, then an email match, then a fresh
// verified user. The link row is written whenever it was missing.
func resolveOAuthUser(tx *gorm.DB, name string, profile *oauth.Profile) (uint, error) {
	var link models.AuthProvider

	err := tx.Where("provider = ? AND provider_user_id = ?", name, profile.ProviderUserID).First(&link).Error

	if err == nil {
		return link.UserID, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))

	var user models.User

	err = tx.Where("email = ?", email).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		displayName := profile.DisplayName

		if displayName == "" {
			displayName = emailLocalPart(email)
		}

		user = models.User{
			Email:         email,
			DisplayName:   displayName,
			AvatarURL:     profile.AvatarURL,
			EmailVerified: true,
		}

		if err := tx.Create(&user).Error; err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, err
	}

	newLink := models.AuthProvider{
		UserID:         user.ID,
		Provider:       name,
		ProviderUserID: profile.ProviderUserID,
		ProviderEmail:  email,
		ProviderData:   datatypes.JSON(profile.Raw),
	}

	if err := tx.Create(&newLink).Error; err != nil {
		return 0, err
	}

	return user.ID, nil
}

func emailLocalPart(email string) string {
	if idx := strings.Index(email, "@"); idx > 0 {
		return email[:idx]
	}
	return email
}
