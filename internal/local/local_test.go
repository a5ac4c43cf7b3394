package local

import "testing"

func TestParse(t *testing.T) {
	if l, ok := Parse("fr"); !ok || l != French {
		t.Fatalf("fr: got %v %v", l, ok)
	}
	if l, ok := Parse("en"); !ok || l != English {
		t.Fatalf("en: got %v %v", l, ok)
	}
	if l, ok := Parse("de"); ok || l != English {
		t.Fatalf("unknown value must fail and fall back to english, got %v %v", l, ok)
	}
}

func TestToggle(t *testing.T) {
	if English.Toggle() != French || French.Toggle() != English {
		t.Fatalf("toggle must flip between the two languages")
	}
}

func TestTextSetFallsBackToDefault(t *testing.T) {
	set := NewSet("hello", NewTrans(French, "bonjour"))
	if got := set.Text(French); got != "bonjour" {
		t.Fatalf("french: %q", got)
	}
	if got := set.Text(English); got != "hello" {
		t.Fatalf("english should use the default: %q", got)
	}
}

func TestLabelsResolveEveryKey(t *testing.T) {
	en := Labels(English)
	fr := Labels(French)
	if len(en) != len(labels) || len(fr) != len(labels) {
		t.Fatalf("labels incomplete: en=%d fr=%d want=%d", len(en), len(fr), len(labels))
	}
	if en["title"] != "Martin - Your AI Psychologist" {
		t.Fatalf("unexpected english title %q", en["title"])
	}
	if fr["title"] != "Martin - votre psychologue IA" {
		t.Fatalf("unexpected french title %q", fr["title"])
	}
	for key, val := range en {
		if val == "" {
			t.Fatalf("empty english label for %q", key)
		}
	}
}
