package modifier

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxEditDistance bounds how different a suggestion may be from the
// requested name
const maxEditDistance = 2

// Suggest returns declared constant names close to name, best match first.
// A name is close when name's letters appear in it in order, ignoring case,
// or when it is within a small edit distance.
func Suggest(name string, constants []Constant) []string {
	seen := make(map[string]bool, len(constants))
	var names []string
	for _, c := range constants {
		if !seen[c.Name] && c.Name != name {
			seen[c.Name] = true
			names = append(names, c.Name)
		}
	}

	distance := make(map[string]int)
	for _, rank := range fuzzy.RankFindFold(name, names) {
		distance[rank.Target] = rank.Distance
	}
	lower := strings.ToLower(name)
	for _, candidate := range names {
		if _, ok := distance[candidate]; ok {
			continue
		}
		if d := fuzzy.LevenshteinDistance(lower, strings.ToLower(candidate)); d <= maxEditDistance {
			distance[candidate] = d
		}
	}

	suggestions := make([]string, 0, len(distance))
	for candidate := range distance {
		suggestions = append(suggestions, candidate)
	}
	sort.Slice(suggestions, func(i, j int) bool {
		di, dj := distance[suggestions[i]], distance[suggestions[j]]
		if di != dj {
			return di < dj
		}
		return suggestions[i] < suggestions[j]
	})
	return suggestions
}
