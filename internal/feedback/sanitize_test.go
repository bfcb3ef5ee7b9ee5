package feedback

import (
	"strings"
	"testing"
)

func TestSanitizeRemarkEscapes(t *testing.T) {
	got := SanitizeRemark(`<b>"great" & 'clear'</b>`)
	want := "&lt;b&gt;&quot;great&quot; &amp; &#x27;clear&#x27;&lt;/b&gt;"
	if got != want {
		t.Errorf("SanitizeRemark() = %q, want %q", got, want)
	}
}

func TestSanitizeRemarkCapsLength(t *testing.T) {
	long := strings.Repeat("a", 2000)
	if got := SanitizeRemark(long); len([]rune(got)) != 1000 {
		t.Errorf("SanitizeRemark() length = %d, want 1000", len([]rune(got)))
	}
}

func TestSanitizeRemarkEmpty(t *testing.T) {
	if got := SanitizeRemark(""); got != "" {
		t.Errorf("SanitizeRemark(\"\") = %q, want empty", got)
	}
}
