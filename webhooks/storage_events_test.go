package webhooks

import "testing"

func TestParseFinalVersionKey(t *testing.T) {
	tests := []struct {
		rawKey  string
		wantID  string
		wantKey string
		wantOK  bool
	}{
		{"final-versions/9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d.pdf", "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", "final-versions/9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d.pdf", true},
		{"final-versions/abc.pdf", "abc", "final-versions/abc.pdf", true},
		// Event keys arrive URL-encoded: "+" is a space, %XX escapes apply.
		{"final-versions/my+draft.pdf", "my draft", "final-versions/my draft.pdf", true},
		{"final-versions/a%2Bb.pdf", "a+b", "final-versions/a+b.pdf", true},
		{"final-versions%2Fabc.pdf", "abc", "final-versions/abc.pdf", true},
		{"final-versions/%ZZ.pdf", "", "", false}, // invalid escape
		{"final-versions/.pdf", "", "", false},
		{"final-versions/abc.png", "", "", false},
		{"final-versions/nested/abc.pdf", "", "", false},
		{"congresses/annual/poster.pdf", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		gotID, gotKey, gotOK := parseFinalVersionKey(tt.rawKey)
		if gotID != tt.wantID || gotKey != tt.wantKey || gotOK != tt.wantOK {
			t.Errorf("parseFinalVersionKey(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.rawKey, gotID, gotKey, gotOK, tt.wantID, tt.wantKey, tt.wantOK)
		}
	}
}
