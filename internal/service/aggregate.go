package service

import (
	"sort"

	"github.com/shopspring/decimal"
)

// bucket is one group produced by groupSum.
type bucket struct {
	Sum   decimal.Decimal
	Count int
}

// groupSum groups items by key and sums the extracted value per group. Both
// analytics services bucket trade rows this way (by date, asset class, symbol).
func groupSum[T any, K comparable](items []T, key func(T) K, value func(T) decimal.Decimal) map[K]bucket {
	groups := make(map[K]bucket, len(items))
	for _, item := range items {
		k := key(item)
		g := groups[k]
		g.Sum = g.Sum.Add(value(item))
		g.Count++
		groups[k] = g
	}
	return groups
}

// sortedKeys returns the group keys in ascending string order. Date keys are
// YYYY-MM-DD, so lexicographic order is chronological order.
func sortedKeys(groups map[string]bucket) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// dateKey buckets a trade into its calendar date.
const dateLayout = "2006-01-02"
