package reporter

import (
	"encoding/json"
	"html/template"
	"strings"
	"unicode"

	"github.com/aleister1102/weeklywrapped/internal/layout"
)

// titleCase converts string to title case (replaces deprecated strings.Title)
func titleCase(s string) string {
	if s == "" {
		return s
	}

	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// GetCommonTemplateFunctions returns the functions available to report templates
func GetCommonTemplateFunctions() template.FuncMap {
	return template.FuncMap{
		"json": func(v interface{}) (template.JS, error) {
			data, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			return template.JS(data), nil
		},
		"title":    titleCase,
		"percent":  layout.FormatPercent,
		"hours":    layout.FormatHours,
		"distance": layout.FormatDistance,
		"count":    layout.FormatCount,
		"safeURL":  safeURL,
		"isURL":    isRenderableURL,
		"inc": func(i int) int {
			return i + 1
		},
		"ordinal": layout.FormatOrdinal,
	}
}

// safeURL marks http(s) links and inline images as trusted. html/template
// would otherwise replace data: image sources with "#ZgotmplZ".
func safeURL(s string) template.URL {
	if isRenderableURL(s) {
		return template.URL(s)
	}
	return template.URL("")
}

func isRenderableURL(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "data:image/")
}
