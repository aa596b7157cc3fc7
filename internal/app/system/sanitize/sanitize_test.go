package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Fresh vegetable peels", "Fresh vegetable peels"},
		{"script", `Good scraps<script>alert("x")</script>`, "Good scraps"},
		{"tags", "<b>10kg</b> of <i>peels</i>", "10kg of peels"},
		{"link", `see <a href="http://evil">here</a>`, "see here"},
		{"entities", "R&D compost", "R&D compost"},
		{"whitespace", "  padded  ", "padded"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.input); got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
