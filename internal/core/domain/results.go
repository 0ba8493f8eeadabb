package domain

// MinSampleSize is the k-anonymity threshold: demographic buckets with fewer
// respondents than this are withheld entirely from formatted results.
const MinSampleSize = 5

type PollResults struct {
	Total      int64                   `json:"total"`
	Options    []OptionResult          `json:"options"`
	ByGender   map[string]BucketResult `json:"byGender,omitempty"`
	ByAgeGroup map[string]BucketResult `json:"byAgeGroup,omitempty"`
}

type OptionResult struct {
	Index      int     `json:"index"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// BucketResult holds per-option percentages computed against the bucket's
// own total, not the poll's grand total.
type BucketResult struct {
	Options []float64 `json:"options"`
	Count   int64     `json:"count"`
}

// FormatResults derives the user-facing result view from raw counts. Pure:
// no I/O, no mutation of the input. Zero totals yield zero percentages.
func FormatResults(c *VoteCounts) *PollResults {
	res := &PollResults{
		Total:   c.Total,
		Options: make([]OptionResult, len(c.Options)),
	}

	for i, count := range c.Options {
		pct := 0.0
		if c.Total > 0 {
			pct = float64(count) / float64(c.Total) * 100
		}
		res.Options[i] = OptionResult{Index: i, Count: count, Percentage: pct}
	}

	res.ByGender = formatBuckets(c.ByGender)
	res.ByAgeGroup = formatBuckets(c.ByAgeGroup)
	return res
}

func formatBuckets(buckets map[string][]int64) map[string]BucketResult {
	var out map[string]BucketResult
	for value, counts := range buckets {
		var total int64
		for _, n := range counts {
			total += n
		}
		if total < MinSampleSize {
			continue
		}

		pcts := make([]float64, len(counts))
		for i, n := range counts {
			pcts[i] = float64(n) / float64(total) * 100
		}
		if out == nil {
			out = map[string]BucketResult{}
		}
		out[value] = BucketResult{Options: pcts, Count: total}
	}
	return out
}
