package domain

import "strconv"

// Plural picks the singular form for a count of exactly one and the plural form otherwise.
func Plural(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// Times renders a count followed by "vez" or "veces".
func Times(count int) string {
	return strconv.Itoa(count) + " " + Plural(count, "vez", "veces")
}
