package analyzer

import "strings"

// Category buckets a question by its interrogative.
type Category string

const (
	CategoryWhat  Category = "what"
	CategoryWhy   Category = "why"
	CategoryHow   Category = "how"
	CategoryWhen  Category = "when"
	CategoryWhere Category = "where"
	CategoryWho   Category = "who"
	CategoryWhich Category = "which"
	// CategoryYesNo covers auxiliary-led questions ("is", "can", "does").
	CategoryYesNo Category = "yes_no"
	CategoryOther Category = "other"
)

var interrogatives = map[string]Category{
	"what":  CategoryWhat,
	"why":   CategoryWhy,
	"how":   CategoryHow,
	"when":  CategoryWhen,
	"where": CategoryWhere,
	"who":   CategoryWho,
	"whom":  CategoryWho,
	"whose": CategoryWho,
	"which": CategoryWhich,
}

var auxiliaries = map[string]struct{}{
	"is": {}, "are": {}, "was": {}, "were": {}, "am": {},
	"do": {}, "does": {}, "did": {},
	"can": {}, "could": {}, "will": {}, "would": {}, "should": {}, "shall": {},
	"has": {}, "have": {}, "had": {}, "may": {}, "might": {}, "must": {},
}

// Classify buckets a question by its leading interrogative. A wh-word
// in second position still counts ("in which year..."); anything else
// lands in CategoryOther.
func Classify(question string) Category {
	words := strings.Fields(strings.ToLower(question))
	if len(words) == 0 {
		return CategoryOther
	}

	lead := trimPunct(words[0])
	if cat, ok := interrogatives[lead]; ok {
		return cat
	}
	if len(words) > 1 {
		if cat, ok := interrogatives[trimPunct(words[1])]; ok {
			return cat
		}
	}
	if _, ok := auxiliaries[lead]; ok {
		return CategoryYesNo
	}
	return CategoryOther
}

// CountByCategory tallies a batch of questions.
func CountByCategory(questions []string) map[Category]int {
	counts := make(map[Category]int)
	for _, q := range questions {
		counts[Classify(q)]++
	}
	return counts
}

func trimPunct(word string) string {
	return strings.Trim(word, `"'.,;:!?()`)
}
