package gogophim

import "testing"

func TestIsValidPayload(t *testing.T) {
	cases := []struct {
		name string
		body any
		want bool
	}{
		{"bare array", []any{map[string]any{"title": "x"}}, true},
		{"empty array", []any{}, true},
		{"items envelope", map[string]any{"items": []any{}}, true},
		{"data envelope", map[string]any{"data": map[string]any{}}, true},
		{"movie envelope", map[string]any{"movie": map[string]any{}}, true},
		{"status envelope", map[string]any{"status": "success"}, true},
		{"title envelope", map[string]any{"title": "Inception"}, true},
		{"empty object", map[string]any{}, false},
		{"proxy quota json", map[string]any{"error": "rate limited", "retry": float64(60)}, false},
		{"string body", "<html>blocked</html>", false},
		{"nil body", nil, false},
		{"number body", float64(42), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isValidPayload(tc.body); got != tc.want {
				t.Errorf("isValidPayload(%v) = %v, want %v", tc.body, got, tc.want)
			}
		})
	}
}
