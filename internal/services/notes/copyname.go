package notes

import (
	"fmt"
	"regexp"
)

// copySuffix matches a trailing " (Copy)" or " (Copy N)" marker.
var copySuffix = regexp.MustCompile(` \(Copy(?:\s\d+)?\)$`)

// BaseTitle strips a single trailing copy marker from a title, so that
// duplicating a duplicate keeps numbering against the original name.
func BaseTitle(title string) string {
	return copySuffix.ReplaceAllString(title, "")
}

// CopyCountPattern returns the anchored regex that matches the base title
// itself and every existing copy of it. The base is quoted so titles with
// regex metacharacters count correctly.
func CopyCountPattern(base string) string {
	return "^" + regexp.QuoteMeta(base) + `( \(Copy( \d+)?\))?$`
}

// CopyTitle picks the name of the next copy from the number of titles that
// matched CopyCountPattern. The first copy of an unsuffixed original is
// "base (Copy)"; after that the count itself is embedded. The rule is kept
// exactly as shipped, including the visible jump from "(Copy)" to
// "(Copy 1)" when an original carrying a literal "(Copy)" already exists.
func CopyTitle(base, originalTitle string, count int64) string {
	if count == 0 || (count == 1 && originalTitle == base) {
		return base + " (Copy)"
	}
	return fmt.Sprintf("%s (Copy %d)", base, count)
}
