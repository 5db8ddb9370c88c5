package server

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// supportedTags are the target languages offered by the API. Translation
// providers accept more, but this is the set every provider handles.
var supportedTags = []string{
	"af", "ar", "bg", "bn", "ca", "cs", "da", "de", "el", "en",
	"es", "et", "fa", "fi", "fr", "he", "hi", "hr", "hu", "id",
	"it", "ja", "ko", "lt", "lv", "ms", "nl", "no", "pl", "pt",
	"ro", "ru", "sk", "sl", "sr", "sv", "sw", "ta", "th", "tr",
	"uk", "ur", "vi", "zh-CN", "zh-TW",
}

// SupportedLanguages maps language codes to their English display names.
func SupportedLanguages() map[string]string {
	namer := display.English.Languages()
	out := make(map[string]string, len(supportedTags))
	for _, code := range supportedTags {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		out[code] = namer.Name(tag)
	}
	return out
}
