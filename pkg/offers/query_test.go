package offers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single term", "улун", "oolong tea"},
		{"uppercase", "УЛУН", "oolong tea"},
		{"yo spelling", "Зелёный жасминовый", "green jasmine tea"},
		{"partial token", "молочный улун Тайвань", "milk oolong тайвань tea"},
		{"keyword present", "Green tea", "green tea"},
		{"keyword inside word", "Teapot", "teapot"},
		{"collapse spaces", "  пуэр   шу  ", "puerh шу tea"},
		{"empty", "", "tea"},
		{"latin untouched", "Da Hong Pao", "da hong pao tea"},
	}

	n := newTestNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.BuildQuery(tt.input))
		})
	}
}

func TestBuildQuery_KeywordOnce(t *testing.T) {
	n := newTestNormalizer()
	for _, input := range []string{"улун", "oolong tea", "черный чай", "tea"} {
		q := n.BuildQuery(input)
		assert.Equal(t, 1, strings.Count(q, "tea"), q)
	}
}

func TestBuildQuery_NoKeyword(t *testing.T) {
	conf := DefaultConfig()
	conf.CategoryKeyword = ""

	assert.Equal(t, "oolong", New(conf).BuildQuery("Улун"))
}
