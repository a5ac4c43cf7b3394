package local

// Interface labels, keyed the way the client consumes them.
var labels = map[string]TextSet{
	"title": NewSet("Martin - Your AI Psychologist",
		NewTrans(French, "Martin - votre psychologue IA")),
	"intro": NewSet("Hi there, please have a seat. What brings you in today?",
		NewTrans(French, "Bonjour, installez-vous confortablement. Qu'est-ce qui vous amène aujourd'hui ?")),
	"placeholder": NewSet("Enter your message here...",
		NewTrans(French, "Entrez votre message ici...")),
	"wrap_up": NewSet("WRAP UP SESSION",
		NewTrans(French, "TERMINER LA SESSION")),
	"wrap_up_help": NewSet("Click to end the session",
		NewTrans(French, "Cliquez pour terminer la session")),
	"chat_history": NewSet("📜 Chat History",
		NewTrans(French, "📜 Historique des conversations")),
	"no_history": NewSet("No chat history yet",
		NewTrans(French, "Aucun historique pour le moment")),
	"you": NewSet("You",
		NewTrans(French, "Vous")),
	"martin": NewSet("Martin",
		NewTrans(French, "Martin")),
	"date": NewSet("Date",
		NewTrans(French, "Date")),
	"session": NewSet("Q/A",
		NewTrans(French, "Q/A")),
	"language_button": NewSet("🇫🇷 Français",
		NewTrans(French, "🇺🇸 English")),
}

// Labels returns every interface string resolved for one language.
func Labels(language Language) map[string]string {
	out := make(map[string]string, len(labels))
	for key, set := range labels {
		out[key] = set.Text(language)
	}
	return out
}
