// Package retrieve implements the batch query side of the pipeline: given a
// query set, it fans out to whichever index backend is configured (dense
// vector or keyword) and returns ranked ids per query.
package retrieve

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Result is one query's ranked hits: IDs[i] scored Scores[i], descending.
type Result struct {
	IDs    []string
	Scores []float64
}

// Backend is the single-query primitive both the vector and keyword index
// implementations satisfy; Retriever fans BatchRetrieve/BatchRetrieveComparative
// out over it.
type Backend interface {
	Query(ctx context.Context, query string, k int, filter map[string]string) (Result, error)
}

// Retriever runs batch queries against one configured Backend.
type Retriever struct {
	Backend Backend
}

// New builds a Retriever over backend.
func New(backend Backend) *Retriever {
	return &Retriever{Backend: backend}
}

// BatchRetrieve runs queries independently, filtering by language when set.
// A comma-separated language list is a disjunction: each alternative's hits
// are merged and re-sorted by score, capped at k.
func (r *Retriever) BatchRetrieve(ctx context.Context, queries []string, k int, language string) ([]Result, error) {
	langs := splitLanguages(language)
	out := make([]Result, len(queries))
	for i, q := range queries {
		res, err := r.queryLanguages(ctx, q, k, langs)
		if err != nil {
			return nil, fmt.Errorf("retrieve: query %q: %w", q, err)
		}
		out[i] = res
	}
	return out, nil
}

// BatchRetrieveComparative runs, for each query, one filtered query per
// comparator group (a column of QIDs), fixing QID to each row in turn and
// concatenating ids/scores in row order. The outer slice is indexed by
// query, the inner by comparator group.
func (r *Retriever) BatchRetrieveComparative(ctx context.Context, queries []string, comparatorGroups [][]string, k int, language string) ([][]Result, error) {
	langs := splitLanguages(language)
	out := make([][]Result, len(queries))
	for qi, q := range queries {
		groups := make([]Result, len(comparatorGroups))
		for gi, rows := range comparatorGroups {
			var ids []string
			var scores []float64
			for _, qid := range rows {
				filter := map[string]string{"QID": qid}
				res, err := r.queryLanguagesFiltered(ctx, q, k, langs, filter)
				if err != nil {
					return nil, fmt.Errorf("retrieve: comparative query %q (QID=%s): %w", q, qid, err)
				}
				ids = append(ids, res.IDs...)
				scores = append(scores, res.Scores...)
			}
			groups[gi] = Result{IDs: ids, Scores: scores}
		}
		out[qi] = groups
	}
	return out, nil
}

func (r *Retriever) queryLanguages(ctx context.Context, query string, k int, langs []string) (Result, error) {
	return r.queryLanguagesFiltered(ctx, query, k, langs, nil)
}

func (r *Retriever) queryLanguagesFiltered(ctx context.Context, query string, k int, langs []string, baseFilter map[string]string) (Result, error) {
	if len(langs) == 0 {
		return r.Backend.Query(ctx, query, k, baseFilter)
	}

	merged := map[string]float64{}
	order := make([]string, 0)
	for _, lang := range langs {
		filter := withLanguage(baseFilter, lang)
		res, err := r.Backend.Query(ctx, query, k, filter)
		if err != nil {
			return Result{}, err
		}
		for i, id := range res.IDs {
			if _, seen := merged[id]; !seen {
				order = append(order, id)
			}
			if res.Scores[i] > merged[id] || merged[id] == 0 {
				merged[id] = res.Scores[i]
			}
		}
	}

	sort.Slice(order, func(i, j int) bool { return merged[order[i]] > merged[order[j]] })
	if k > 0 && len(order) > k {
		order = order[:k]
	}

	out := Result{IDs: make([]string, len(order)), Scores: make([]float64, len(order))}
	for i, id := range order {
		out.IDs[i] = id
		out.Scores[i] = merged[id]
	}
	return out, nil
}

func withLanguage(base map[string]string, lang string) map[string]string {
	filter := make(map[string]string, len(base)+1)
	for k, v := range base {
		filter[k] = v
	}
	filter["Language"] = lang
	return filter
}

func splitLanguages(language string) []string {
	language = strings.TrimSpace(language)
	if language == "" {
		return nil
	}
	parts := strings.Split(language, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
