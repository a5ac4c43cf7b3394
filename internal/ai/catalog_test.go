package ai

import "testing"

func TestDisplayName(t *testing.T) {
	cases := []struct {
		id   string
		want string
	}{
		{"llama-3.1-8b-instant", "Llama 3.1 8B Instant"},
		{"mixtral-8x7b-32768", "Mixtral 8X7B 32768"},
		{"gemma2-9b-it", "Gemma2 9B It"},
		{"compound-beta", "Compound Beta"},
	}
	for _, tc := range cases {
		if got := displayName(tc.id); got != tc.want {
			t.Fatalf("displayName(%q) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestBuildCatalogFiltersTranscriptionModels(t *testing.T) {
	models := buildCatalog([]string{
		"llama-3.1-8b-instant",
		"whisper-large-v3",
		"distil-whisper-large-v3-en",
		"",
		"gemma2-9b-it",
	})
	if len(models) != 2 {
		t.Fatalf("expected 2 models after filtering, got %d", len(models))
	}
	if models[0].ID != "gemma2-9b-it" || models[1].ID != "llama-3.1-8b-instant" {
		t.Fatalf("unexpected ids: %+v", models)
	}
}

func TestFallbackModelsHaveCuratedNames(t *testing.T) {
	models := fallbackModels()
	if len(models) != 12 {
		t.Fatalf("expected 12 fallback models, got %d", len(models))
	}
	byID := make(map[string]string, len(models))
	for _, m := range models {
		byID[m.ID] = m.DisplayName
	}
	if byID["mixtral-8x7b-32768"] != "Mixtral 8x7B" {
		t.Fatalf("unexpected display name: %q", byID["mixtral-8x7b-32768"])
	}
	if byID["llama3-groq-70b-8192-tool-use-preview"] != "Llama 3 Groq 70B Tool Use" {
		t.Fatalf("unexpected display name: %q", byID["llama3-groq-70b-8192-tool-use-preview"])
	}
}
