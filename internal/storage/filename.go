package storage

import (
	"path"
	"regexp"
	"strings"
)

var (
	nonNameChars = regexp.MustCompile(`[^a-z0-9-]+`)
	multiDash    = regexp.MustCompile(`-+`)
	extChars     = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)
)

// SafeFilename lowercases name into dash separated words and keeps a short
// alphanumeric extension. It never returns an empty string.
func SafeFilename(name string) string {
	name = strings.ToLower(strings.TrimSpace(path.Base(strings.ReplaceAll(name, "\\", "/"))))
	ext := path.Ext(name)
	if !extChars.MatchString(ext) {
		ext = ""
	}
	stem := strings.TrimSuffix(name, ext)
	stem = strings.ReplaceAll(stem, "'", "")
	stem = strings.ReplaceAll(stem, "&", " and ")
	stem = nonNameChars.ReplaceAllString(stem, "-")
	stem = multiDash.ReplaceAllString(stem, "-")
	stem = strings.Trim(stem, "-")
	if stem == "" {
		stem = "upload"
	}
	return stem + ext
}
