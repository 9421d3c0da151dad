package taxcat

import "strings"

// MinConfidence is the score a keyword match must exceed before the engine
// will auto-apply a category.
const MinConfidence = 0.30

// Score rates how well a transaction's text matches a category's keyword
// rules. The haystack is lower-cased name + merchant + description. Any
// exclusion keyword found anywhere in the haystack forces a zero score,
// regardless of keyword hits. Otherwise the score is the fraction of the
// category's keywords present as substrings, in [0,1].
//
// Pure function: no store access, no clock.
func Score(haystack string, keywords, exclusions []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	haystack = strings.ToLower(haystack)

	for _, ex := range exclusions {
		if ex == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(ex)) {
			return 0
		}
	}

	matched := 0
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(kw)) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

// BestMatch scores every candidate category against the haystack and returns
// the winner with its score, or nil if no category clears MinConfidence.
// Ties keep the first-encountered category; candidates must already be in
// stable order (FindActive orders by code).
func BestMatch(haystack string, candidates []TaxCategory) (*TaxCategory, float64) {
	var best *TaxCategory
	bestScore := 0.0

	for i := range candidates {
		s := Score(haystack, candidates[i].Keywords, candidates[i].ExclusionKeywords)
		if s > bestScore {
			best = &candidates[i]
			bestScore = s
		}
	}

	if best == nil || bestScore <= MinConfidence {
		return nil, 0
	}
	return best, bestScore
}
