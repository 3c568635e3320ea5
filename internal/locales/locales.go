// Package locales holds the DeepSeek language allow-list and the registry of
// translation locales with their English display names.
package locales

import "strings"

// supported is the set of language codes accepted by the DeepSeek API,
// see https://api-docs.deepseek.com/. Order is kept for listing.
var supported = []string{
	"af", // Afrikaans
	"ar", // Arabic
	"hy", // Armenian
	"az", // Azerbaijani
	"be", // Belarusian
	"bs", // Bosnian
	"bg", // Bulgarian
	"ca", // Catalan
	"zh", // Chinese
	"hr", // Croatian
	"cs", // Czech
	"da", // Danish
	"nl", // Dutch
	"en", // English
	"et", // Estonian
	"fi", // Finnish
	"fr", // French
	"gl", // Galician
	"de", // German
	"el", // Greek
	"he", // Hebrew
	"hi", // Hindi
	"hu", // Hungarian
	"is", // Icelandic
	"id", // Indonesian
	"it", // Italian
	"ja", // Japanese
	"kn", // Kannada
	"kk", // Kazakh
	"ko", // Korean
	"lv", // Latvian
	"lt", // Lithuanian
	"mk", // Macedonian
	"ms", // Malay
	"mr", // Marathi
	"mi", // Maori
	"ne", // Nepali
	"no", // Norwegian
	"fa", // Persian
	"pl", // Polish
	"pt", // Portuguese
	"ro", // Romanian
	"ru", // Russian
	"sr", // Serbian
	"sk", // Slovak
	"sl", // Slovenian
	"es", // Spanish
	"sw", // Swahili
	"sv", // Swedish
	"tl", // Tagalog
	"ta", // Tamil
	"th", // Thai
	"tr", // Turkish
	"uk", // Ukrainian
	"ur", // Urdu
	"vi", // Vietnamese
	"cy", // Welsh
}

var supportedSet = func() map[string]bool {
	m := make(map[string]bool, len(supported))
	for _, code := range supported {
		m[code] = true
	}
	return m
}()

// IsSupported reports whether DeepSeek can translate into locale. The exact
// code is checked first, then its two-letter base (zh-cn -> zh).
func IsSupported(locale string) bool {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		return false
	}
	if supportedSet[locale] {
		return true
	}
	if len(locale) > 2 {
		return supportedSet[locale[:2]]
	}
	return false
}

// Supported returns a copy of the allow-list.
func Supported() []string {
	out := make([]string, len(supported))
	copy(out, supported)
	return out
}
