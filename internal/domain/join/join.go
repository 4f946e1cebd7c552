// Package join attaches meet dates to results.
//
// The join is a left join on meet name: every result survives. Meet names are
// expected to be unique; when they are not, the first meet with a given name
// wins and the name is reported through Index.Duplicates.
package join

import "github.com/okian/trackboard/internal/domain/model"

// Index resolves meet names to meets.
type Index struct {
	byName     map[string]model.Meet
	duplicates []string
	dupCount   map[string]int
}

// BuildIndex indexes meets by name, keeping the first meet for each name.
func BuildIndex(meets []model.Meet) *Index {
	ix := &Index{
		byName:   make(map[string]model.Meet, len(meets)),
		dupCount: make(map[string]int),
	}
	for _, m := range meets {
		if _, seen := ix.byName[m.Name]; seen {
			if ix.dupCount[m.Name] == 0 {
				ix.duplicates = append(ix.duplicates, m.Name)
			}
			ix.dupCount[m.Name]++
			continue
		}
		ix.byName[m.Name] = m
	}
	return ix
}

// Lookup returns the meet for name, if any.
func (ix *Index) Lookup(name string) (model.Meet, bool) {
	m, ok := ix.byName[name]
	return m, ok
}

// Len returns the number of distinct meet names.
func (ix *Index) Len() int { return len(ix.byName) }

// Duplicates lists names shared by more than one meet, in order of first repeat.
func (ix *Index) Duplicates() []string {
	out := make([]string, len(ix.duplicates))
	copy(out, ix.duplicates)
	return out
}

// ExtraRows returns how many meet rows were shadowed by an earlier row with the same name.
func (ix *Index) ExtraRows(name string) int { return ix.dupCount[name] }

// Stats reports join outcomes.
type Stats struct {
	Matched    int
	Unresolved int
}

// Enrich attaches the date of each result's meet. Results whose meet is
// unknown keep an absent date. Output order equals input order.
func Enrich(results []model.Result, ix *Index) ([]model.EnrichedResult, Stats) {
	var st Stats
	out := make([]model.EnrichedResult, len(results))
	for i, r := range results {
		out[i] = model.EnrichedResult{Result: r}
		m, ok := ix.Lookup(r.Meet)
		if !ok {
			st.Unresolved++
			continue
		}
		st.Matched++
		out[i].Date = m.Date
	}
	return out, st
}
