package core

import (
	"github.com/montanaflynn/stats"
)

// ColumnAggregation summarises one column of a dataset.
// The numeric fields are nil when the column holds no numbers.
type ColumnAggregation struct {
	Column  string   `json:"column"`
	Numbers int      `json:"numbers"`
	Texts   int      `json:"texts"`
	Absent  int      `json:"absent"`
	Sum     *float64 `json:"sum,omitempty"`
	Mean    *float64 `json:"mean,omitempty"`
	Median  *float64 `json:"median,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
}

// Aggregations maps column names to their aggregation results.
type Aggregations map[string]*ColumnAggregation

// Aggregate computes per-column counts and numeric summaries.
// Row order does not affect the result.
func Aggregate(rows []Row, columns []string) Aggregations {
	aggs := make(Aggregations, len(columns))
	for _, col := range columns {
		agg := &ColumnAggregation{Column: col}
		var nums stats.Float64Data

		for _, r := range rows {
			v := r.Get(col)
			switch v.Kind() {
			case KindNumber:
				agg.Numbers++
				nums = append(nums, v.Float())
			case KindText:
				agg.Texts++
			default:
				agg.Absent++
			}
		}

		if len(nums) > 0 {
			agg.Sum = summarize(nums.Sum)
			agg.Mean = summarize(nums.Mean)
			agg.Median = summarize(nums.Median)
			agg.Min = summarize(nums.Min)
			agg.Max = summarize(nums.Max)
		}
		aggs[col] = agg
	}
	return aggs
}

// IsNumeric reports whether the column holds numbers and nothing but
// numbers and blanks.
func (a *ColumnAggregation) IsNumeric() bool {
	return a != nil && a.Numbers > 0 && a.Texts == 0
}

func summarize(fn func() (float64, error)) *float64 {
	v, err := fn()
	if err != nil {
		return nil
	}
	return &v
}
