package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/drayac/Martin/internal/common"
	"github.com/drayac/Martin/internal/local"
)

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"message": "pong"})
}

// Healthz probes the inference endpoint. The error text is truncated the
// way the interface has always shown it.
func (h *Handler) Healthz(c *gin.Context) {
	count, err := h.Catalog.Ping(c.Request.Context())
	if err != nil {
		msg := err.Error()
		if len(msg) > 50 {
			msg = msg[:50]
		}
		common.Fail(c, http.StatusServiceUnavailable, 50301, "Connection Error: "+msg)
		return
	}
	common.OK(c, gin.H{
		"message": fmt.Sprintf("API Connected - %d models available", count),
		"models":  count,
	})
}

func (h *Handler) GetModels(c *gin.Context) {
	common.OK(c, gin.H{"models": h.Catalog.Models(c.Request.Context())})
}

type setLanguageReq struct {
	Language string `json:"language"`
}

// SetLanguage switches the interface language. An empty or absent body
// toggles between the two supported languages.
func (h *Handler) SetLanguage(c *gin.Context) {
	sess, okk := sessionFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req setLanguageReq
	_ = c.ShouldBindJSON(&req) // allow empty {}

	if !sess.TryAcquire() {
		common.Fail(c, http.StatusConflict, 40901, "another request is in flight")
		return
	}
	defer sess.Release()

	if req.Language == "" {
		sess.Language = sess.Language.Toggle()
	} else {
		lang, ok := local.Parse(req.Language)
		if !ok {
			common.Fail(c, http.StatusBadRequest, 10005, "unsupported language")
			return
		}
		sess.Language = lang
	}

	common.OK(c, gin.H{
		"language": sess.Language,
		"labels":   local.Labels(sess.Language),
	})
}
