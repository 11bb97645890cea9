package config

const (
	LangEN = "en"
	LangES = "es"
)

// SupportedLanguages lists the message catalogues shipped with the binary.
var SupportedLanguages = []string{LangEN, LangES}

func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
