package indicator

import (
	"os"
	"strings"
)

// alertTexts maps a language prefix to the default emergency alert text.
var alertTexts = map[string]string{
	"ar": "تنبيه طوارئ",
	"en": "Emergency alert",
}

const fallbackLanguage = "ar"

// defaultAlertText picks the alert text for the user's message locale.
func defaultAlertText() string {
	return alertTextFor(messageLocale(os.Getenv))
}

// messageLocale follows the POSIX precedence LC_ALL > LC_MESSAGES > LANG.
func messageLocale(getenv func(string) string) string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func alertTextFor(locale string) string {
	lang := strings.ToLower(locale)
	if i := strings.IndexAny(lang, "_-.@"); i >= 0 {
		lang = lang[:i]
	}
	if text, ok := alertTexts[lang]; ok {
		return text
	}
	return alertTexts[fallbackLanguage]
}
