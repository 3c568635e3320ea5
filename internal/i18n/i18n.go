// Package i18n localizes the user-facing notices of bulk translation.
//
// Catalogs are gettext .po files embedded under
// locales/{lang}/LC_MESSAGES/deepseek-translate.po. Languages without a
// catalog fall back to the English msgids.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var localeFS embed.FS

// Domain is the gettext domain of the embedded catalogs.
const Domain = "deepseek-translate"

// Catalog translates msgids for one language. The zero value passes
// msgids through.
type Catalog struct {
	lang string
	po   *gotext.Locale
}

// English passes every msgid through.
var English = &Catalog{lang: "en"}

var (
	mu       sync.Mutex
	catalogs = map[string]*Catalog{}
)

// For returns the catalog for lang ("zh_CN", "zh-CN", "de"). An empty lang
// is detected from the environment.
func For(lang string) *Catalog {
	if lang == "" {
		lang = detectLanguage()
	}
	lang = normalize(lang)
	if lang == "" || lang == "en" || strings.HasPrefix(lang, "en_") {
		return English
	}

	mu.Lock()
	defer mu.Unlock()

	if c, ok := catalogs[lang]; ok {
		return c
	}

	po := gotext.NewLocaleFSWithPath(lang, localeFS, "locales")
	po.AddDomain(Domain)
	po.SetDomain(Domain)

	c := &Catalog{lang: lang, po: po}
	catalogs[lang] = c
	return c
}

func (c *Catalog) Lang() string { return c.lang }

// T translates msgid and formats it with vars.
func (c *Catalog) T(msgid string, vars ...any) string {
	if c == nil || c.po == nil {
		return sprintf(msgid, vars...)
	}
	return c.po.Get(msgid, vars...)
}

// N translates a message with plural forms chosen by n.
func (c *Catalog) N(singular, plural string, n int, vars ...any) string {
	if c == nil || c.po == nil {
		if n == 1 {
			return sprintf(singular, vars...)
		}
		return sprintf(plural, vars...)
	}
	return c.po.GetN(singular, plural, n, vars...)
}

func sprintf(format string, vars ...any) string {
	if len(vars) == 0 {
		return format
	}
	return fmt.Sprintf(format, vars...)
}

// FromAcceptLanguage picks the first tag of an Accept-Language header.
func FromAcceptLanguage(header string) string {
	first, _, _ := strings.Cut(header, ",")
	first, _, _ = strings.Cut(first, ";")
	first = strings.TrimSpace(first)
	if first == "*" {
		return ""
	}
	return normalize(first)
}

// normalize turns "zh-cn" into "zh_CN".
func normalize(lang string) string {
	lang = strings.TrimSpace(lang)
	base, region, ok := strings.Cut(strings.ReplaceAll(lang, "-", "_"), "_")
	if !ok {
		return strings.ToLower(base)
	}
	return strings.ToLower(base) + "_" + strings.ToUpper(region)
}

// detectLanguage follows GNU gettext: LANGUAGE > LC_ALL > LC_MESSAGES > LANG.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		// "ru_RU.UTF-8" -> "ru_RU"
		val, _, _ = strings.Cut(val, ".")
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
