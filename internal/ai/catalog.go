package ai

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"
	"unicode"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/drayac/Martin/internal/store/redisstore"
)

const (
	catalogCacheKey = "groq:models"
	pingTimeout     = 5 * time.Second
)

type ModelInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Catalog lists the chat models the remote endpoint offers. Results are
// cached for the configured TTL; any listing failure falls back to a fixed
// static set so the interface always has something to show.
type Catalog struct {
	client *openai.Client
	apiKey string
	ttl    time.Duration
	cache  *redisstore.Cache
	log    *zap.Logger
}

func NewCatalog(baseURL, apiKey string, ttl time.Duration, cache *redisstore.Cache, log *zap.Logger) *Catalog {
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	if cache == nil {
		cache = redisstore.New(nil, log)
	}
	if log == nil {
		log = zap.NewNop()
	}
	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = strings.TrimRight(baseURL, "/")
	return &Catalog{
		client: openai.NewClientWithConfig(clientConfig),
		apiKey: apiKey,
		ttl:    ttl,
		cache:  cache,
		log:    log,
	}
}

func (c *Catalog) Models(ctx context.Context) []ModelInfo {
	if cached, ok := c.cache.Get(ctx, catalogCacheKey); ok {
		var models []ModelInfo
		if err := json.Unmarshal([]byte(cached), &models); err == nil {
			return models
		}
	}

	models := c.fetch(ctx)
	if b, err := json.Marshal(models); err == nil {
		c.cache.Set(ctx, catalogCacheKey, string(b), c.ttl)
	}
	return models
}

func (c *Catalog) fetch(ctx context.Context) []ModelInfo {
	if strings.TrimSpace(c.apiKey) == "" || c.apiKey == noAPIKey {
		return fallbackModels()
	}
	list, err := c.client.ListModels(ctx)
	if err != nil {
		c.log.Warn("model listing failed, using the static set", zap.Error(err))
		return fallbackModels()
	}
	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	return buildCatalog(ids)
}

// Ping probes the endpoint and reports how many models it advertises.
func (c *Catalog) Ping(ctx context.Context) (int, error) {
	if strings.TrimSpace(c.apiKey) == "" || c.apiKey == noAPIKey {
		return 0, ErrNoCredential
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	list, err := c.client.ListModels(ctx)
	if err != nil {
		return 0, err
	}
	return len(list.Models), nil
}

// buildCatalog keeps only text generation models and renders display names.
func buildCatalog(ids []string) []ModelInfo {
	models := make([]ModelInfo, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		lower := strings.ToLower(id)
		if strings.Contains(lower, "whisper") || strings.Contains(lower, "distil") {
			continue
		}
		models = append(models, ModelInfo{ID: id, DisplayName: displayName(id)})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models
}

// displayName turns "llama-3.1-8b-instant" into "Llama 3.1 8B Instant":
// dashes become spaces and every letter that follows a non-letter is
// uppercased.
func displayName(id string) string {
	out := []rune(strings.ReplaceAll(id, "-", " "))
	prevLetter := false
	for i, r := range out {
		if unicode.IsLetter(r) {
			if prevLetter {
				out[i] = unicode.ToLower(r)
			} else {
				out[i] = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
	}
	return string(out)
}

// fallbackModels is the static set shown when the endpoint cannot be
// listed. Display names here are hand-curated, not derived.
func fallbackModels() []ModelInfo {
	return []ModelInfo{
		{ID: "gemma-7b-it", DisplayName: "Gemma 7B IT"},
		{ID: "gemma2-9b-it", DisplayName: "Gemma 2 9B IT"},
		{ID: "llama-3.1-70b-versatile", DisplayName: "Llama 3.1 70B Versatile"},
		{ID: "llama-3.1-8b-instant", DisplayName: "Llama 3.1 8B Instant"},
		{ID: "llama-3.2-11b-text-preview", DisplayName: "Llama 3.2 11B Text"},
		{ID: "llama-3.2-1b-preview", DisplayName: "Llama 3.2 1B Preview"},
		{ID: "llama-3.2-3b-preview", DisplayName: "Llama 3.2 3B Preview"},
		{ID: "llama3-70b-8192", DisplayName: "Llama 3 70B"},
		{ID: "llama3-8b-8192", DisplayName: "Llama 3 8B"},
		{ID: "llama3-groq-70b-8192-tool-use-preview", DisplayName: "Llama 3 Groq 70B Tool Use"},
		{ID: "llama3-groq-8b-8192-tool-use-preview", DisplayName: "Llama 3 Groq 8B Tool Use"},
		{ID: "mixtral-8x7b-32768", DisplayName: "Mixtral 8x7B"},
	}
}
