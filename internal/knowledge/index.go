package knowledge

import (
	"sort"
	"strings"
)

// DefaultTopN is the number of matches returned when no limit is given.
const DefaultTopN = 3

const (
	keywordWeight  = 3
	questionWeight = 2
	answerWeight   = 1
)

// Match is a scored knowledge item.
type Match struct {
	Item  Item `json:"item"`
	Score int  `json:"score"`
}

// Filter narrows a corpus by category and/or phase. Zero values match everything.
type Filter struct {
	Category string
	Phase    *int
}

// Matches reports whether the item satisfies the filter. Categories compare
// lower-cased, the same way the store matches them.
func (f Filter) Matches(item Item) bool {
	if category := strings.TrimSpace(f.Category); category != "" && strings.ToLower(category) != strings.ToLower(strings.TrimSpace(item.Category)) {
		return false
	}
	if f.Phase != nil && (item.Phase == nil || *item.Phase != *f.Phase) {
		return false
	}
	return true
}

// Score computes the weighted substring score of item for an already lower-cased query.
func Score(query string, item Item) int {
	if query == "" {
		return 0
	}

	score := 0
	for _, kw := range item.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(query, kw) {
			score += keywordWeight
		}
	}
	if strings.Contains(strings.ToLower(item.Question), query) {
		score += questionWeight
	}
	if strings.Contains(strings.ToLower(item.Answer), query) {
		score += answerWeight
	}
	return score
}

// Rank scores active items against query and returns at most n matches, best first.
// Items scoring zero are dropped; equal scores keep their corpus order.
func Rank(query string, items []Item, filter Filter, n int) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	if n <= 0 {
		n = DefaultTopN
	}

	matches := make([]Match, 0, len(items))
	for _, item := range items {
		if !item.Active || !filter.Matches(item) {
			continue
		}
		if score := Score(query, item); score > 0 {
			matches = append(matches, Match{Item: item, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}

// Select returns the active items accepted by filter, in corpus order.
func Select(items []Item, filter Filter) []Item {
	result := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Active && filter.Matches(item) {
			result = append(result, item)
		}
	}
	return result
}
