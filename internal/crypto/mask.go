package crypto

// redactionToken replaces the hidden middle (or the whole) of a secret value.
const redactionToken = "****"

// maskRevealLimit is how many characters MaskString may reveal on each side.
const maskRevealLimit = 4

// MaskString produces a partial, non-reversible display form of a secret.
// Values of four characters or fewer are fully redacted; longer values keep
// the first and last four characters around the redaction token, so no more
// than eight characters of any secret are ever revealed.
func MaskString(s string) string {
	if len(s) <= maskRevealLimit {
		return redactionToken
	}
	return s[:maskRevealLimit] + redactionToken + s[len(s)-maskRevealLimit:]
}

// MaskValues masks every string field of a value map, recursing into nested
// maps. Non-string values (numbers, booleans) are carried through unchanged.
// The input map is not modified.
func MaskValues(values map[string]any) map[string]any {
	masked := make(map[string]any, len(values))
	for name, v := range values {
		switch tv := v.(type) {
		case string:
			masked[name] = MaskString(tv)
		case map[string]any:
			masked[name] = MaskValues(tv)
		default:
			masked[name] = v
		}
	}
	return masked
}
