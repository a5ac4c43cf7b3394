package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/drayac/Martin/internal/account"
	"github.com/drayac/Martin/internal/chat"
	"github.com/drayac/Martin/internal/common"
)

type sendMessageReq struct {
	Message string `json:"message"`
}

func (h *Handler) SendChatMessage(c *gin.Context) {
	sess, okk := sessionFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	if !sess.TryAcquire() {
		common.Fail(c, http.StatusConflict, 40901, "another request is in flight")
		return
	}
	defer sess.Release()

	reply, err := h.ChatSvc.SendMessage(c.Request.Context(), sess, req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			common.Fail(c, http.StatusBadRequest, 10002, "message required")
			return
		}
		common.Fail(c, http.StatusBadGateway, 50201, err.Error())
		return
	}

	common.OK(c, gin.H{"reply": reply})
}

func (h *Handler) WrapUpChat(c *gin.Context) {
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

	reply, err := h.ChatSvc.WrapUp(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyConversation) {
			common.Fail(c, http.StatusBadRequest, 10004, "no conversation to wrap up")
			return
		}
		common.Fail(c, http.StatusBadGateway, 50201, err.Error())
		return
	}

	common.OK(c, gin.H{"reply": reply})
}

func (h *Handler) GetHistory(c *gin.Context) {
	sess, okk := sessionFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	limit := h.Cfg.HistoryLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries := []account.HistoryEntry{}
	if sess.Authenticated && sess.AccountID != "" {
		if got := h.History.Recent(c.Request.Context(), sess.AccountID, limit); got != nil {
			entries = got
		}
	}

	common.OK(c, gin.H{"entries": entries})
}
