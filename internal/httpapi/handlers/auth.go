package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/drayac/Martin/internal/account"
	"github.com/drayac/Martin/internal/common"
	"github.com/drayac/Martin/internal/local"
)

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(c *gin.Context) {
	sess, okk := sessionFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "email and password required")
		return
	}

	if !sess.TryAcquire() {
		common.Fail(c, http.StatusConflict, 40901, "another request is in flight")
		return
	}
	defer sess.Release()

	res, err := h.Accounts.Register(c.Request.Context(), email, req.Password, false, "")
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to save account")
		return
	}
	if res == account.RegisterExists {
		common.Fail(c, http.StatusConflict, 10003, "User already exists")
		return
	}

	// The session becomes the member; the transient conversation carries over.
	sess.AccountID = email
	sess.Authenticated = true
	sess.Guest = false

	common.OK(c, gin.H{
		"message":    "Registration successful!",
		"account_id": email,
		"guest":      false,
	})
}

func (h *Handler) Login(c *gin.Context) {
	sess, okk := sessionFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "email and password required")
		return
	}

	if !sess.TryAcquire() {
		common.Fail(c, http.StatusConflict, 40901, "another request is in flight")
		return
	}
	defer sess.Release()

	switch h.Accounts.Authenticate(c.Request.Context(), email, req.Password) {
	case account.AuthInvalidPassword:
		common.Fail(c, http.StatusUnauthorized, 40102, "Invalid password")
		return
	case account.AuthNotFound:
		common.Fail(c, http.StatusUnauthorized, 40103, "User not found")
		return
	}

	sess.AccountID = email
	sess.Authenticated = true
	sess.Guest = false

	common.OK(c, gin.H{
		"message":    "Login successful!",
		"account_id": email,
		"guest":      false,
	})
}

// Logout returns the session to a fresh guest identity with an empty
// transient conversation.
func (h *Handler) Logout(c *gin.Context) {
	sess, okk := sessionFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	if !sess.TryAcquire() {
		common.Fail(c, http.StatusConflict, 40901, "another request is in flight")
		return
	}
	defer sess.Release()

	guestID, err := h.Accounts.CreateGuest(c.Request.Context(), sess)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to create guest session")
		return
	}

	common.OK(c, gin.H{
		"message":    "Guest session created!",
		"account_id": guestID,
		"guest":      true,
	})
}

func (h *Handler) GetSession(c *gin.Context) {
	sess, okk := sessionFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	common.OK(c, gin.H{
		"account_id":    sess.AccountID,
		"authenticated": sess.Authenticated,
		"guest":         sess.Guest,
		"language":      sess.Language,
		"labels":        local.Labels(sess.Language),
		"turns":         sess.Turns,
	})
}
