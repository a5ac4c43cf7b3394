package local

import "fmt"

// Language is the closed set of interface languages.
type Language string

const (
	English = Language("en")
	French  = Language("fr")
)

// Parse maps a wire value onto the closed language set.
func Parse(s string) (Language, bool) {
	switch Language(s) {
	case English:
		return English, true
	case French:
		return French, true
	}
	return English, false
}

// Toggle flips between the two supported languages.
func (l Language) Toggle() Language {
	if l == French {
		return English
	}
	return French
}

type Localization struct {
	language Language
	text     string
}

type TextSet struct {
	Default          string
	translationsText map[Language]string
}

func NewTrans(language Language, text string) Localization {
	return Localization{
		language: language,
		text:     text,
	}
}

func NewSet(defaultText string, localizations ...Localization) TextSet {
	set := TextSet{
		Default:          defaultText,
		translationsText: make(map[Language]string),
	}
	for _, localization := range localizations {
		set.translationsText[localization.language] = localization.text
	}
	return set
}

func (l TextSet) Text(language Language) string {
	if text, ok := l.translationsText[language]; ok {
		return text
	}
	return l.Default
}

func (l TextSet) Format(language Language, a ...any) string {
	return fmt.Sprintf(l.Text(language), a...)
}
