package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/trichbarbershop/barber-queue/internal/config"
	"github.com/trichbarbershop/barber-queue/internal/httperr"
	"github.com/trichbarbershop/barber-queue/internal/identity"
	"github.com/trichbarbershop/barber-queue/internal/mailer"
	"github.com/trichbarbershop/barber-queue/internal/middleware"
	"github.com/trichbarbershop/barber-queue/internal/models"
	"github.com/trichbarbershop/barber-queue/internal/validators"
)

const (
	tokenTTL         = 24 * time.Hour
	magicLinkTTL     = 15 * time.Minute
	oauthStateCookie = "oauth_state"
)

// ======================================================
// HANDLER
// ======================================================

type AuthHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	resolver *identity.Resolver
	mail     mailer.Mailer
	logger   zerolog.Logger
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, resolver *identity.Resolver, mail mailer.Mailer, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		db:       db,
		cfg:      cfg,
		resolver: resolver,
		mail:     mail,
		logger:   logger.With().Str("handler", "auth").Logger(),
	}
}

// ======================================================
// SIGN UP
// ======================================================

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Email and a password of at least 8 characters are required.")
		return
	}

	if h.cfg.VerifyEmailDomains && !validators.IsEmailDomainValid(req.Email) {
		httperr.BadRequest(c, "invalid_email_domain", "Email domain does not accept mail.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "signup_failed", "Failed to process password.")
		return
	}

	profile := models.Profile{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(req.Email),
		FullName:     req.FullName,
		PasswordHash: string(hash),
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "UNIQUE") {
			httperr.BadRequest(c, "email_already_registered", "An account with this email already exists.")
			return
		}
		h.logger.Error().Err(err).Msg("signup insert failed")
		httperr.Internal(c, "signup_failed", "Failed to create account.")
		return
	}

	token, err := h.generateToken(profile)
	if err != nil {
		httperr.Internal(c, "signup_failed", "Failed to issue session token.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{
		"token": token,
		"user":  publicProfile(profile),
	}})
}

// ======================================================
// SIGN IN
// ======================================================

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Email and password are required.")
		return
	}

	var profile models.Profile
	err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", strings.ToLower(req.Email)).
		First(&profile).Error
	if err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	if profile.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)) != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	token, err := h.generateToken(profile)
	if err != nil {
		httperr.Internal(c, "signin_failed", "Failed to issue session token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"token": token,
		"user":  publicProfile(profile),
	}})
}

// ======================================================
// MAGIC LINK
// ======================================================

type MagicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
	Next  string `json:"next"`
}

// MagicLink issues a one-time sign-in link. The response is the same
// whether or not an account exists for the address.
func (h *AuthHandler) MagicLink(c *gin.Context) {
	var req MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A valid email is required.")
		return
	}

	token := models.MagicLinkToken{
		Token:     uuid.NewString(),
		Email:     strings.ToLower(req.Email),
		ExpiresAt: time.Now().Add(magicLinkTTL),
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&token).Error; err != nil {
		h.logger.Error().Err(err).Msg("magic link token insert failed")
		httperr.Internal(c, "magic_link_failed", "Failed to issue magic link.")
		return
	}

	link := fmt.Sprintf("%s/api/auth/callback?token=%s", strings.TrimRight(h.cfg.SiteURL, "/"), token.Token)
	if req.Next != "" {
		link += "&next=" + url.QueryEscape(req.Next)
	}
	if err := h.mail.SendMagicLink(req.Email, link); err != nil {
		h.logger.Error().Err(err).Msg("magic link delivery failed")
		httperr.Internal(c, "magic_link_failed", "Failed to send magic link.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"message": "Check your email for the sign-in link.",
	}})
}

// AuthCallback consumes a magic-link token and exchanges it for a
// session token. Tokens are single-use and expire after 15 minutes.
func (h *AuthHandler) AuthCallback(c *gin.Context) {
	raw := c.Query("token")
	if raw == "" {
		httperr.BadRequest(c, "invalid_request", "Missing token.")
		return
	}

	ctx := c.Request.Context()

	var token models.MagicLinkToken
	if err := h.db.WithContext(ctx).Where("token = ?", raw).First(&token).Error; err != nil {
		httperr.BadRequest(c, "invalid_or_expired_token", "This link is invalid or has expired.")
		return
	}
	if !token.Usable(time.Now()) {
		httperr.BadRequest(c, "invalid_or_expired_token", "This link is invalid or has expired.")
		return
	}

	now := time.Now()
	if err := h.db.WithContext(ctx).Model(&token).Update("used_at", &now).Error; err != nil {
		h.logger.Error().Err(err).Msg("magic link consume failed")
		httperr.Internal(c, "magic_link_failed", "Failed to consume magic link.")
		return
	}

	profile, err := h.findOrCreateByEmail(c, token.Email, "", "")
	if err != nil {
		httperr.Internal(c, "magic_link_failed", "Failed to resolve account.")
		return
	}

	session, err := h.generateToken(profile)
	if err != nil {
		httperr.Internal(c, "magic_link_failed", "Failed to issue session token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"token": session,
		"user":  publicProfile(profile),
	}})
}

// ======================================================
// ROLE
// ======================================================

// Role reports the caller's role, or null for anonymous and unknown
// sessions. It always answers 200; authorization decisions downstream
// treat a missing role as the default customer role.
func (h *AuthHandler) Role(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess.UserID == "" {
		c.JSON(http.StatusOK, gin.H{"role": nil})
		return
	}

	id, err := h.resolver.Resolve(c.Request.Context(), sess)
	if err != nil || id.Role == "" {
		c.JSON(http.StatusOK, gin.H{"role": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"role": id.Role})
}

// ======================================================
// GOOGLE OAUTH
// ======================================================

func (h *AuthHandler) googleConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.cfg.GoogleClientID,
		ClientSecret: h.cfg.GoogleClientSecret,
		RedirectURL:  h.cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

func (h *AuthHandler) GoogleRedirect(c *gin.Context) {
	if h.cfg.GoogleClientID == "" {
		httperr.Internal(c, "social_login_unavailable", "Google sign-in is not configured.")
		return
	}

	state := uuid.NewString()
	c.SetCookie(oauthStateCookie, state, int((10 * time.Minute).Seconds()), "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.googleConfig().AuthCodeURL(state))
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		httperr.BadRequest(c, "invalid_oauth_state", "OAuth state mismatch.")
		return
	}

	code := c.Query("code")
	if code == "" {
		httperr.BadRequest(c, "invalid_request", "Missing authorization code.")
		return
	}

	ctx := c.Request.Context()
	conf := h.googleConfig()

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		h.logger.Warn().Err(err).Msg("google code exchange failed")
		httperr.Unauthorized(c, "social_login_failed", "Google sign-in failed.")
		return
	}

	resp, err := conf.Client(ctx, tok).Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		httperr.Internal(c, "social_login_failed", "Failed to fetch Google profile.")
		return
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Email == "" {
		httperr.Internal(c, "social_login_failed", "Failed to decode Google profile.")
		return
	}

	profile, err := h.findOrCreateByEmail(c, info.Email, info.Name, info.Picture)
	if err != nil {
		httperr.Internal(c, "social_login_failed", "Failed to resolve account.")
		return
	}

	session, err := h.generateToken(profile)
	if err != nil {
		httperr.Internal(c, "social_login_failed", "Failed to issue session token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"token": session,
		"user":  publicProfile(profile),
	}})
}

// ======================================================
// HELPERS
// ======================================================

// findOrCreateByEmail looks a profile up by email and provisions one if
// none exists. Existing profiles keep their role and stored name.
func (h *AuthHandler) findOrCreateByEmail(c *gin.Context, email, fullName, avatarURL string) (models.Profile, error) {
	ctx := c.Request.Context()
	email = strings.ToLower(email)

	var profile models.Profile
	err := h.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Profile{}, err
	}

	profile = models.Profile{
		ID:        uuid.NewString(),
		Email:     email,
		FullName:  fullName,
		AvatarURL: avatarURL,
	}
	if err := h.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

func (h *AuthHandler) generateToken(profile models.Profile) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    profile.ID,
		"email":  profile.Email,
		"name":   profile.FullName,
		"avatar": profile.AvatarURL,
		"iat":    now.Unix(),
		"exp":    now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

func publicProfile(p models.Profile) gin.H {
	return gin.H{
		"id":         p.ID,
		"email":      p.Email,
		"full_name":  p.FullName,
		"avatar_url": p.AvatarURL,
		"role":       p.Role,
	}
}
