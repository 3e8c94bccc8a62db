package utils

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

var vietnameseFold = map[rune]string{
	'đ': "d", 'Đ': "d",
}

// Slugify lowercases s, strips Vietnamese diacritics and joins words with dashes.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		if repl, ok := vietnameseFold[r]; ok {
			b.WriteString(repl)
			lastDash = false
			continue
		}
		r = foldDiacritic(r)
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// UniqueSlug appends a short random suffix to the slug of s.
func UniqueSlug(s string) string {
	base := Slugify(s)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

const (
	foldA = "àáạảãâầấậẩẫăằắặẳẵ"
	foldE = "èéẹẻẽêềếệểễ"
	foldI = "ìíịỉĩ"
	foldO = "òóọỏõôồốộổỗơờớợởỡ"
	foldU = "ùúụủũưừứựửữ"
	foldY = "ỳýỵỷỹ"
)

func foldDiacritic(r rune) rune {
	switch {
	case strings.ContainsRune(foldA, r):
		return 'a'
	case strings.ContainsRune(foldE, r):
		return 'e'
	case strings.ContainsRune(foldI, r):
		return 'i'
	case strings.ContainsRune(foldO, r):
		return 'o'
	case strings.ContainsRune(foldU, r):
		return 'u'
	case strings.ContainsRune(foldY, r):
		return 'y'
	}
	return r
}
