package naming

// Fallback is substituted for empty names and for "." or "..".
const Fallback = "unnamed"

// Sanitize maps an arbitrary display name to a filesystem-safe name. Every
// rune outside the allow-list becomes '_', invalid UTF-8 bytes included.
// The result is never empty and never a relative path element.
func Sanitize(name string) string {
	if name == "" || name == "." || name == ".." {
		return Fallback
	}
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if allowed(r) {
			out = append(out, r)
		} else {
			out = append(out, '_')
		}
	}
	return string(out)
}

// allowed: ASCII letters and digits, space, -_.(), and the Russian alphabet.
func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == ' ', r == '-', r == '_', r == '.', r == '(', r == ')':
		return true
	case r >= 'а' && r <= 'я', r >= 'А' && r <= 'Я', r == 'ё', r == 'Ё':
		return true
	}
	return false
}
