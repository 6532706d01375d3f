package pipeline

import (
	"sort"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/partscout/datasheet-search/internal/model"
)

// maxSpecColumns is how many verified fields make it into the response table.
const maxSpecColumns = 5

// foldKey case-folds a spec key for comparison. A fresh Caser per call
// because Casers are stateful and not goroutine safe.
func foldKey(s string) string {
	return cases.Fold().String(s)
}

// VerifyAndRank checks every claimed key of every normalization group against
// what the sheets actually contain. Exact match first, then case-folded;
// anything else is a hallucinated triple and is dropped. Surviving groups are
// ranked by document coverage, ties keeping the proposal order, and capped at
// maxSpecColumns. Deterministic: no AI, no randomness, no map-order effects.
func VerifyAndRank(groups []model.NormalizationGroup, sheets []model.SpecSheet) []model.VerifiedField {
	folded := make([]map[string]string, len(sheets))
	for i, s := range sheets {
		folded[i] = foldedKeyIndex(s)
	}

	var exact, caseFolded, dropped int
	var fields []model.VerifiedField

	for _, g := range groups {
		field := model.VerifiedField{
			StandardKey: g.StandardKey,
			DisplayName: g.DisplayName,
			DocKeys:     make(map[int]string, len(g.DocKeys)),
		}

		for docIdx, claimed := range g.DocKeys {
			if docIdx < 0 || docIdx >= len(sheets) {
				dropped++
				continue
			}
			if _, ok := sheets[docIdx].Specs[claimed]; ok {
				field.DocKeys[docIdx] = claimed
				exact++
				continue
			}
			if actual, ok := folded[docIdx][foldKey(claimed)]; ok {
				field.DocKeys[docIdx] = actual
				caseFolded++
				continue
			}
			dropped++
		}

		field.Coverage = len(field.DocKeys)
		if field.Coverage > 0 {
			fields = append(fields, field)
		}
	}

	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Coverage > fields[j].Coverage
	})
	if len(fields) > maxSpecColumns {
		fields = fields[:maxSpecColumns]
	}

	zap.L().Info("verify: mappings checked",
		zap.Int("exact", exact),
		zap.Int("case_folded", caseFolded),
		zap.Int("dropped", dropped),
		zap.Int("fields", len(fields)),
	)
	return fields
}

// foldedKeyIndex maps the case-folded form of every spec key to its original
// spelling. Keys are folded in sorted order so a fold collision always
// resolves the same way.
func foldedKeyIndex(s model.SpecSheet) map[string]string {
	idx := make(map[string]string, len(s.Specs))
	for _, k := range sortedSpecKeys(s) {
		f := foldKey(k)
		if _, exists := idx[f]; !exists {
			idx[f] = k
		}
	}
	return idx
}

// FallbackFields builds spec columns without AI normalization, for runs with
// too few sheets to group. Raw keys are ranked by how many sheets carry them,
// ties broken by first appearance across sheets in order.
func FallbackFields(sheets []model.SpecSheet) []model.VerifiedField {
	type keyStat struct {
		key   string
		count int
		first int
	}

	stats := make(map[string]*keyStat)
	order := 0
	for _, s := range sheets {
		for _, k := range sortedSpecKeys(s) {
			st, ok := stats[k]
			if !ok {
				st = &keyStat{key: k, first: order}
				stats[k] = st
				order++
			}
			st.count++
		}
	}

	ranked := make([]*keyStat, 0, len(stats))
	for _, st := range stats {
		ranked = append(ranked, st)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})
	if len(ranked) > maxSpecColumns {
		ranked = ranked[:maxSpecColumns]
	}

	fields := make([]model.VerifiedField, 0, len(ranked))
	for _, st := range ranked {
		field := model.VerifiedField{
			StandardKey: st.key,
			DisplayName: st.key,
			DocKeys:     make(map[int]string),
		}
		for i, s := range sheets {
			if _, ok := s.Specs[st.key]; ok {
				field.DocKeys[i] = st.key
			}
		}
		field.Coverage = len(field.DocKeys)
		fields = append(fields, field)
	}
	return fields
}
