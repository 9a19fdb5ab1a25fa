package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/session"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/store"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler covers login, first-run registration and password recovery.
type AuthHandler struct {
	Store     *store.Store
	Session   *session.Machine
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthHandler(s *store.Store, m *session.Machine, jwtSecret string, ttlHours int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		Store:     s,
		Session:   m,
		JWTSecret: jwtSecret,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
	}
}

// State reports the session state so the caller can decide whether to show
// a login or a first-run registration screen.
func (h *AuthHandler) State(c *gin.Context) {
	util.Success(c, util.Response{
		"state": h.Session.State().String(),
	})
}

// ---------- first-run registration ----------

type registerReq struct {
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Question        string `json:"question" binding:"required"`
	Answer          string `json:"answer" binding:"required"`
}

// Register creates the first operator account. Open registration is only
// legal while no account exists; afterwards the endpoint is closed.
func (h *AuthHandler) Register(c *gin.Context) {
	if h.Session.State() != session.Registering {
		util.Error(c, http.StatusForbidden, util.CodeAuth, "registration is closed")
		return
	}

	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Invalid(c, "all fields are required")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Question = strings.TrimSpace(req.Question)
	req.Answer = strings.TrimSpace(req.Answer)

	if req.Username == "" || req.Question == "" || req.Answer == "" {
		util.Invalid(c, "all fields are required")
		return
	}
	if len(req.Password) < 6 {
		util.Invalid(c, "password must be at least 6 characters")
		return
	}
	if req.Password != req.ConfirmPassword {
		util.Invalid(c, "passwords do not match")
		return
	}

	if err := h.Store.RegisterUser(req.Username, req.Password, req.Question, req.Answer); err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			util.Invalid(c, "username already exists")
		} else {
			util.ServerError(c, "could not create user")
		}
		return
	}
	if err := h.Session.RegisterOK(); err != nil {
		util.ServerError(c, "session error")
		return
	}

	util.Success(c, util.Response{
		"message": "user registered, please log in",
	})
}

// ---------- login / logout ----------

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Invalid(c, "username and password are required")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	ok, err := h.Store.Authenticate(req.Username, req.Password)
	if err != nil {
		util.ServerError(c, "could not verify credentials")
		return
	}
	if !ok {
		_ = h.Session.LoginFailed()
		// no hint about which part was wrong
		util.Unauthorized(c, "invalid credentials")
		return
	}

	user, err := h.Store.UserByName(req.Username)
	if err != nil {
		util.ServerError(c, "could not load user")
		return
	}

	if err := h.Session.LoginOK(); err != nil {
		util.Error(c, http.StatusConflict, util.CodeAuth, "already logged in")
		return
	}

	token, err := util.SignSession(h.JWTSecret, user.ID, h.TokenTTL)
	if err != nil {
		_ = h.Session.Logout()
		util.ServerError(c, "could not create session token")
		return
	}

	util.Success(c, util.Response{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Session.Logout(); err != nil {
		util.Error(c, http.StatusConflict, util.CodeAuth, "not logged in")
		return
	}
	util.Success(c, util.Response{
		"message": "logged out",
	})
}

// ---------- password recovery ----------

// SecurityQuestion returns the recovery question for a username.
func (h *AuthHandler) SecurityQuestion(c *gin.Context) {
	username := strings.TrimSpace(c.Query("username"))
	if username == "" {
		util.Invalid(c, "username is required")
		return
	}

	question, err := h.Store.SecurityQuestion(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.NotFound(c, "username not found")
		} else {
			util.ServerError(c, "could not load security question")
		}
		return
	}

	util.Success(c, util.Response{
		"question": question,
	})
}

type recoverReq struct {
	Username    string `json:"username" binding:"required"`
	Answer      string `json:"answer" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetPassword verifies the security answer and resets the password in the
// same request, so the reset can never run against an unverified answer.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req recoverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Invalid(c, "username, answer and new password are required")
		return
	}

	if len(req.NewPassword) < 6 {
		util.Invalid(c, "password must be at least 6 characters")
		return
	}

	ok, err := h.Store.VerifySecurityAnswer(req.Username, strings.TrimSpace(req.Answer))
	if err != nil {
		util.ServerError(c, "could not verify answer")
		return
	}
	if !ok {
		util.Unauthorized(c, "incorrect answer")
		return
	}

	if err := h.Store.ResetPassword(req.Username, req.NewPassword); err != nil {
		util.ServerError(c, "could not reset password")
		return
	}

	util.Success(c, util.Response{
		"message": "password reset, please log in",
	})
}
