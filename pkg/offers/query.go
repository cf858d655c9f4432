package offers

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// teaDictionary maps Russian tea vocabulary to the English terms
// the search provider understands. "чай" is intentionally missing,
// the category keyword is appended separately.
var teaDictionary = map[string]string{
	"зеленый":    "green",
	"зелёный":    "green",
	"черный":     "black",
	"чёрный":     "black",
	"белый":      "white",
	"красный":    "red",
	"улун":       "oolong",
	"пуэр":       "puerh",
	"жасминовый": "jasmine",
	"жемчуг":     "pearl",
	"молочный":   "milk",
	"лимонный":   "lemon",
	"имбирный":   "ginger",
	"мятный":     "mint",
	"ромашковый": "chamomile",
	"лавандовый": "lavender",
	"травяной":   "herbal",
	"фруктовый":  "fruit",
	"матча":      "matcha",
	"ройбуш":     "rooibos",
	"каркаде":    "hibiscus",
}

type termReplacement struct {
	re   *regexp.Regexp
	with string
}

// longer terms go first so a shorter term never eats part of a longer one
var teaReplacements = func() []termReplacement {
	terms := make([]string, 0, len(teaDictionary))
	for term := range teaDictionary {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		li, lj := len([]rune(terms[i])), len([]rune(terms[j]))
		if li != lj {
			return li > lj
		}
		return terms[i] < terms[j]
	})

	out := make([]termReplacement, len(terms))
	for i, term := range terms {
		out[i] = termReplacement{
			re:   regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term)),
			with: teaDictionary[term],
		}
	}
	return out
}()

var reSpaces = regexp.MustCompile(`\s+`)

// BuildQuery translates tea vocabulary in name and makes sure the
// category keyword is part of the query.
func (n *Normalizer) BuildQuery(name string) string {
	q := cases.Lower(language.Russian).String(name)
	for _, r := range teaReplacements {
		q = r.re.ReplaceAllString(q, r.with)
	}
	q = strings.TrimSpace(reSpaces.ReplaceAllString(q, " "))

	keyword := n.config.CategoryKeyword
	if keyword != "" && !strings.Contains(q, keyword) {
		q = strings.TrimSpace(q + " " + keyword)
	}

	return q
}
