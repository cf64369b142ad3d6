package execution

import "strings"

// DefaultLanguage is used for unknown language names.
const DefaultLanguage = "python"

var languageIDs = map[string]int{
	"python":     71,
	"javascript": 63,
	"cpp":        54,
	"java":       62,
	"csharp":     51,
	"c":          50,
	"go":         60,
}

// LanguageID maps a language name to its Judge0 id. Unknown names map to python.
func LanguageID(language string) int {
	if id, ok := languageIDs[strings.ToLower(strings.TrimSpace(language))]; ok {
		return id
	}
	return languageIDs[DefaultLanguage]
}
