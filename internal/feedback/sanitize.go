package feedback

import (
	"strings"

	"github.com/campuspulse/campuspulse/internal/constants"
)

var remarkEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

// SanitizeRemark escapes markup characters and caps the remark length, the
// same treatment free text gets in the single-session flow.
func SanitizeRemark(text string) string {
	if text == "" {
		return ""
	}
	escaped := remarkEscaper.Replace(text)
	runes := []rune(escaped)
	if len(runes) > constants.MaxRemarkLen {
		return string(runes[:constants.MaxRemarkLen])
	}
	return escaped
}
