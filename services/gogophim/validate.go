package gogophim

// envelopeKeys are the top-level fields a legitimate object response
// exposes at least one of. A 200 status alone proves nothing: relays
// serve their own block pages with a 200.
var envelopeKeys = []string{"items", "data", "movie", "status", "title"}

// isValidPayload reports whether decoded JSON looks like an API payload
// rather than proxy noise. Bare arrays are always accepted (the upstream
// returns plain post arrays); objects must carry a recognized envelope key.
// Anything else, including an empty object, is rejected.
func isValidPayload(body any) bool {
	switch v := body.(type) {
	case []any:
		return true
	case map[string]any:
		for _, key := range envelopeKeys {
			if _, ok := v[key]; ok {
				return true
			}
		}
	}
	return false
}
