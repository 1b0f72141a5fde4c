package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/videotube/account-service/internal/domain"
	"github.com/videotube/account-service/pkg/util"
)

// Cookie names for the two token classes.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// AccountHandler handles the account and session HTTP surface.
type AccountHandler struct {
	Service          domain.AccountService
	tempDir          string
	accessMaxAgeSec  int
	refreshMaxAgeSec int
}

// NewAccountHandler creates a new AccountHandler. tempDir is the local
// staging directory for multipart uploads; the max ages control token cookie
// lifetimes.
func NewAccountHandler(service domain.AccountService, tempDir string, accessMaxAgeSec, refreshMaxAgeSec int) *AccountHandler {
	return &AccountHandler{
		Service:          service,
		tempDir:          tempDir,
		accessMaxAgeSec:  accessMaxAgeSec,
		refreshMaxAgeSec: refreshMaxAgeSec,
	}
}

// RegisterRoutes mounts the account routes on the given group. auth guards
// the session-bound endpoints; limit throttles the credential endpoints.
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup, auth, limit, jsonLimit gin.HandlerFunc) {
	rg.POST("/register", limit, h.Register)
	rg.POST("/login", limit, jsonLimit, h.Login)
	rg.POST("/refresh-token", limit, jsonLimit, h.Refresh)

	rg.POST("/logout", auth, h.Logout)
	rg.POST("/change-password", auth, jsonLimit, h.ChangePassword)
	rg.GET("/current-user", auth, h.CurrentUser)
	rg.PATCH("/update-account", auth, jsonLimit, h.UpdateAccount)
	rg.PATCH("/avatar", auth, h.UpdateAvatar)
	rg.PATCH("/cover-image", auth, h.UpdateCoverImage)
	rg.GET("/c/:username", auth, h.ChannelProfile)
	rg.GET("/history", auth, h.WatchHistory)
}

// Register handles POST /register: multipart form with the profile fields,
// a required avatar file and an optional cover image.
func (h *AccountHandler) Register(c *gin.Context) {
	avatarPath, err := h.stageFile(c, "avatar")
	if err != nil {
		respondError(c, domain.NewInternalError("failed to store uploaded file", err))
		return
	}
	// Staged files are normally consumed (and removed) by the asset store;
	// on early validation failures they must still not outlive the request.
	defer removeIfExists(avatarPath)
	coverPath, err := h.stageFile(c, "coverImage")
	if err != nil {
		respondError(c, domain.NewInternalError("failed to store uploaded file", err))
		return
	}
	defer removeIfExists(coverPath)

	req := domain.RegisterRequest{
		FullName:            c.PostForm("fullName"),
		Email:               c.PostForm("email"),
		Username:            c.PostForm("username"),
		Password:            c.PostForm("password"),
		AvatarLocalPath:     avatarPath,
		CoverImageLocalPath: coverPath,
	}
	user, err := h.Service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, user, "User registered successfully")
}

// Login handles POST /login. Tokens are delivered both as httpOnly cookies
// and in the body for non-cookie clients.
func (h *AccountHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidationError("invalid request body"))
		return
	}
	resp, err := h.Service.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setTokenCookies(c, resp.AccessToken, resp.RefreshToken)
	respond(c, http.StatusOK, resp, "User logged in successfully")
}

// Logout handles POST /logout: clears the stored refresh token and both
// cookies.
func (h *AccountHandler) Logout(c *gin.Context) {
	user, ok := util.GetCurrentUser(c)
	if !ok {
		respondError(c, domain.NewUnauthorizedError("unauthorized request"))
		return
	}
	if err := h.Service.Logout(user.ID); err != nil {
		respondError(c, err)
		return
	}
	h.clearTokenCookies(c)
	respond(c, http.StatusOK, gin.H{}, "User logged out successfully")
}

// Refresh handles POST /refresh-token: the refresh token comes from the
// cookie or the request body.
func (h *AccountHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(RefreshTokenCookie)
	if token == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			token = body.RefreshToken
		}
	}
	pair, err := h.Service.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setTokenCookies(c, pair.AccessToken, pair.RefreshToken)
	respond(c, http.StatusOK, pair, "Access token refreshed successfully")
}

// ChangePassword handles POST /change-password.
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	user, ok := util.GetCurrentUser(c)
	if !ok {
		respondError(c, domain.NewUnauthorizedError("unauthorized request"))
		return
	}
	var req domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidationError("old and new password are required"))
		return
	}
	if err := h.Service.ChangePassword(user.ID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Password changed successfully")
}

// CurrentUser handles GET /current-user. The guard already attached the
// sanitized user.
func (h *AccountHandler) CurrentUser(c *gin.Context) {
	user, ok := util.GetCurrentUser(c)
	if !ok {
		respondError(c, domain.NewUnauthorizedError("unauthorized request"))
		return
	}
	respond(c, http.StatusOK, user, "Current user fetched successfully")
}

// UpdateAccount handles PATCH /update-account.
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	user, ok := util.GetCurrentUser(c)
	if !ok {
		respondError(c, domain.NewUnauthorizedError("unauthorized request"))
		return
	}
	var req domain.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidationError("all fields are required"))
		return
	}
	updated, err := h.Service.UpdateAccount(user.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, updated, "Account details updated successfully")
}

// UpdateAvatar handles PATCH /avatar (multipart, field "avatar").
func (h *AccountHandler) UpdateAvatar(c *gin.Context) {
	h.replaceImage(c, "avatar", func(userID uint, path string) (*domain.User, error) {
		return h.Service.UpdateAvatar(c.Request.Context(), userID, path)
	}, "Avatar image updated successfully")
}

// UpdateCoverImage handles PATCH /cover-image (multipart, field "coverImage").
func (h *AccountHandler) UpdateCoverImage(c *gin.Context) {
	h.replaceImage(c, "coverImage", func(userID uint, path string) (*domain.User, error) {
		return h.Service.UpdateCoverImage(c.Request.Context(), userID, path)
	}, "Cover image updated successfully")
}

func (h *AccountHandler) replaceImage(c *gin.Context, field string, update func(uint, string) (*domain.User, error), message string) {
	user, ok := util.GetCurrentUser(c)
	if !ok {
		respondError(c, domain.NewUnauthorizedError("unauthorized request"))
		return
	}
	path, err := h.stageFile(c, field)
	if err != nil {
		respondError(c, domain.NewInternalError("failed to store uploaded file", err))
		return
	}
	defer removeIfExists(path)

	updated, err := update(user.ID, path)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, updated, message)
}

// ChannelProfile handles GET /c/:username.
func (h *AccountHandler) ChannelProfile(c *gin.Context) {
	profile, err := h.Service.GetChannelProfile(c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, profile, "Channel profile fetched successfully")
}

// WatchHistory handles GET /history.
func (h *AccountHandler) WatchHistory(c *gin.Context) {
	user, ok := util.GetCurrentUser(c)
	if !ok {
		respondError(c, domain.NewUnauthorizedError("unauthorized request"))
		return
	}
	history, err := h.Service.GetWatchHistory(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, history, "Watch history fetched successfully")
}

// stageFile saves a multipart file into the local temp directory under a
// uuid name and returns its path. An absent field yields ("", nil) so the
// service layer owns the required-versus-optional decision; only real I/O
// failures propagate as errors.
func (h *AccountHandler) stageFile(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}
	if err := os.MkdirAll(h.tempDir, 0o755); err != nil {
		return "", err
	}
	dst := filepath.Join(h.tempDir, uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func (h *AccountHandler) setTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetCookie(AccessTokenCookie, accessToken, h.accessMaxAgeSec, "/", "", true, true)
	c.SetCookie(RefreshTokenCookie, refreshToken, h.refreshMaxAgeSec, "/", "", true, true)
}

func (h *AccountHandler) clearTokenCookies(c *gin.Context) {
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", true, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", true, true)
}

func removeIfExists(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}
