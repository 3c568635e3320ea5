package locales

import "strings"

// Locale describes a translation target the way GlotPress names it.
type Locale struct {
	Slug        string
	EnglishName string
	NativeName  string
}

// Resolver maps a locale slug to its English display name.
type Resolver interface {
	EnglishName(slug string) (string, bool)
}

// Registry is a static Resolver keyed by lower-case slug.
type Registry map[string]Locale

var _ Resolver = Registry(nil)

// Default is the built-in registry of GlotPress locales.
var Default = NewRegistry(defaultLocales)

// NewRegistry indexes locales by normalized slug.
func NewRegistry(list []Locale) Registry {
	r := make(Registry, len(list))
	for _, l := range list {
		r[normalize(l.Slug)] = l
	}
	return r
}

// EnglishName returns the English name for slug. Lookup is case-insensitive
// and treats "_" like "-".
func (r Registry) EnglishName(slug string) (string, bool) {
	l, ok := r.Lookup(slug)
	if !ok {
		return "", false
	}
	return l.EnglishName, true
}

// Lookup returns the full Locale for slug.
func (r Registry) Lookup(slug string) (Locale, bool) {
	l, ok := r[normalize(slug)]
	if !ok || l.EnglishName == "" {
		return Locale{}, false
	}
	return l, true
}

func normalize(slug string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(slug)), "_", "-")
}

var defaultLocales = []Locale{
	{Slug: "af", EnglishName: "Afrikaans", NativeName: "Afrikaans"},
	{Slug: "ar", EnglishName: "Arabic", NativeName: "العربية"},
	{Slug: "hy", EnglishName: "Armenian", NativeName: "Հայերեն"},
	{Slug: "az", EnglishName: "Azerbaijani", NativeName: "Azərbaycan dili"},
	{Slug: "bel", EnglishName: "Belarusian", NativeName: "Беларуская мова"},
	{Slug: "bs", EnglishName: "Bosnian", NativeName: "Bosanski"},
	{Slug: "bg", EnglishName: "Bulgarian", NativeName: "Български"},
	{Slug: "ca", EnglishName: "Catalan", NativeName: "Català"},
	{Slug: "zh", EnglishName: "Chinese", NativeName: "中文"},
	{Slug: "zh-cn", EnglishName: "Chinese (China)", NativeName: "简体中文"},
	{Slug: "zh-tw", EnglishName: "Chinese (Taiwan)", NativeName: "繁體中文"},
	{Slug: "zh-hk", EnglishName: "Chinese (Hong Kong)", NativeName: "香港中文"},
	{Slug: "hr", EnglishName: "Croatian", NativeName: "Hrvatski"},
	{Slug: "cs", EnglishName: "Czech", NativeName: "Čeština"},
	{Slug: "da", EnglishName: "Danish", NativeName: "Dansk"},
	{Slug: "nl", EnglishName: "Dutch", NativeName: "Nederlands"},
	{Slug: "nl-be", EnglishName: "Dutch (Belgium)", NativeName: "Nederlands (België)"},
	{Slug: "en", EnglishName: "English", NativeName: "English"},
	{Slug: "en-gb", EnglishName: "English (UK)", NativeName: "English (UK)"},
	{Slug: "en-au", EnglishName: "English (Australia)", NativeName: "English (Australia)"},
	{Slug: "en-ca", EnglishName: "English (Canada)", NativeName: "English (Canada)"},
	{Slug: "eo", EnglishName: "Esperanto", NativeName: "Esperanto"},
	{Slug: "et", EnglishName: "Estonian", NativeName: "Eesti"},
	{Slug: "eu", EnglishName: "Basque", NativeName: "Euskara"},
	{Slug: "fi", EnglishName: "Finnish", NativeName: "Suomi"},
	{Slug: "fr", EnglishName: "French (France)", NativeName: "Français"},
	{Slug: "fr-ca", EnglishName: "French (Canada)", NativeName: "Français du Canada"},
	{Slug: "fr-be", EnglishName: "French (Belgium)", NativeName: "Français de Belgique"},
	{Slug: "ga", EnglishName: "Irish", NativeName: "Gaelige"},
	{Slug: "gl", EnglishName: "Galician", NativeName: "Galego"},
	{Slug: "de", EnglishName: "German", NativeName: "Deutsch"},
	{Slug: "de-ch", EnglishName: "German (Switzerland)", NativeName: "Deutsch (Schweiz)"},
	{Slug: "el", EnglishName: "Greek", NativeName: "Ελληνικά"},
	{Slug: "he", EnglishName: "Hebrew", NativeName: "עִבְרִית"},
	{Slug: "hi", EnglishName: "Hindi", NativeName: "हिन्दी"},
	{Slug: "hu", EnglishName: "Hungarian", NativeName: "Magyar"},
	{Slug: "is", EnglishName: "Icelandic", NativeName: "Íslenska"},
	{Slug: "id", EnglishName: "Indonesian", NativeName: "Bahasa Indonesia"},
	{Slug: "it", EnglishName: "Italian", NativeName: "Italiano"},
	{Slug: "ja", EnglishName: "Japanese", NativeName: "日本語"},
	{Slug: "kn", EnglishName: "Kannada", NativeName: "ಕನ್ನಡ"},
	{Slug: "kk", EnglishName: "Kazakh", NativeName: "Қазақ тілі"},
	{Slug: "ko", EnglishName: "Korean", NativeName: "한국어"},
	{Slug: "lv", EnglishName: "Latvian", NativeName: "Latviešu valoda"},
	{Slug: "lt", EnglishName: "Lithuanian", NativeName: "Lietuvių kalba"},
	{Slug: "mk", EnglishName: "Macedonian", NativeName: "Македонски јазик"},
	{Slug: "ms", EnglishName: "Malay", NativeName: "Bahasa Melayu"},
	{Slug: "mr", EnglishName: "Marathi", NativeName: "मराठी"},
	{Slug: "mi", EnglishName: "Maori", NativeName: "Te Reo Māori"},
	{Slug: "ne", EnglishName: "Nepali", NativeName: "नेपाली"},
	{Slug: "no", EnglishName: "Norwegian", NativeName: "Norsk"},
	{Slug: "nb", EnglishName: "Norwegian (Bokmål)", NativeName: "Norsk bokmål"},
	{Slug: "nn", EnglishName: "Norwegian (Nynorsk)", NativeName: "Norsk nynorsk"},
	{Slug: "fa", EnglishName: "Persian", NativeName: "فارسی"},
	{Slug: "pl", EnglishName: "Polish", NativeName: "Polski"},
	{Slug: "pt", EnglishName: "Portuguese (Portugal)", NativeName: "Português"},
	{Slug: "pt-br", EnglishName: "Portuguese (Brazil)", NativeName: "Português do Brasil"},
	{Slug: "ro", EnglishName: "Romanian", NativeName: "Română"},
	{Slug: "ru", EnglishName: "Russian", NativeName: "Русский"},
	{Slug: "sr", EnglishName: "Serbian", NativeName: "Српски језик"},
	{Slug: "sk", EnglishName: "Slovak", NativeName: "Slovenčina"},
	{Slug: "sl", EnglishName: "Slovenian", NativeName: "Slovenščina"},
	{Slug: "es", EnglishName: "Spanish (Spain)", NativeName: "Español"},
	{Slug: "es-mx", EnglishName: "Spanish (Mexico)", NativeName: "Español de México"},
	{Slug: "es-ar", EnglishName: "Spanish (Argentina)", NativeName: "Español de Argentina"},
	{Slug: "sw", EnglishName: "Swahili", NativeName: "Kiswahili"},
	{Slug: "sv", EnglishName: "Swedish", NativeName: "Svenska"},
	{Slug: "tl", EnglishName: "Tagalog", NativeName: "Tagalog"},
	{Slug: "ta", EnglishName: "Tamil", NativeName: "தமிழ்"},
	{Slug: "th", EnglishName: "Thai", NativeName: "ไทย"},
	{Slug: "tr", EnglishName: "Turkish", NativeName: "Türkçe"},
	{Slug: "uk", EnglishName: "Ukrainian", NativeName: "Українська"},
	{Slug: "ur", EnglishName: "Urdu", NativeName: "اردو"},
	{Slug: "vi", EnglishName: "Vietnamese", NativeName: "Tiếng Việt"},
	{Slug: "cy", EnglishName: "Welsh", NativeName: "Cymraeg"},
}
