package search

// Aggregate folds per-index outcomes into a single Response. It performs no
// I/O and returns equal responses for equal inputs. outcomes are expected
// in request order with distinct index names.
func Aggregate(req Request, outcomes []Outcome) Response {
	resp := Response{
		Query:           req.Query,
		Page:            req.Page,
		PerPage:         req.PerPage,
		IndexesSearched: append([]string{}, req.Indexes...),
		Results: Results{
			order:    make([]string, 0, len(outcomes)),
			outcomes: make(map[string]Outcome, len(outcomes)),
		},
		Summary: Summary{
			order:  make([]string, 0, len(outcomes)),
			totals: make(map[string]int, len(outcomes)),
		},
	}

	var succeeded int
	for _, o := range outcomes {
		resp.Results.order = append(resp.Results.order, o.IndexName)
		resp.Results.outcomes[o.IndexName] = o
		resp.Summary.order = append(resp.Summary.order, o.IndexName)

		if !o.Success {
			resp.PartialFailure = true
			resp.Summary.totals[o.IndexName] = 0
			continue
		}
		succeeded++
		resp.TotalAcrossIndexes += o.Total
		resp.Summary.totals[o.IndexName] = o.Total
	}

	if len(outcomes) > 0 {
		resp.SuccessRate = float64(100*succeeded) / float64(len(outcomes))
	}
	return resp
}
