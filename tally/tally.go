// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"github.com/danielhkuo/classvote/models"
)

var defaultClasses = []models.ClassInfo{
	{ID: 1, Name: "一班"},
	{ID: 2, Name: "二班"},
	{ID: 3, Name: "三班"},
	{ID: 4, Name: "四班"},
	{ID: 5, Name: "五班"},
	{ID: 6, Name: "六班"},
	{ID: 7, Name: "七班"},
}

// DefaultClasses returns the seven classes on the ballot. The slice is a
// copy and may be modified by the caller.
func DefaultClasses() []models.ClassInfo {
	return append([]models.ClassInfo(nil), defaultClasses...)
}

// Aggregate counts votes per class. The result has one entry per class in
// classes, in that order, including classes with no votes. Votes for a
// class id not in classes are ignored.
func Aggregate(votes []models.Vote, classes []models.ClassInfo) []models.ClassTally {
	counts := make(map[models.ClassNumber]int, len(classes))
	for _, v := range votes {
		counts[v.ClassID]++
	}

	results := make([]models.ClassTally, len(classes))
	for i, c := range classes {
		results[i] = models.ClassTally{
			ClassID:   c.ID,
			ClassName: c.Name,
			Count:     counts[c.ID],
		}
	}
	return results
}

// Total sums the counts.
func Total(tallies []models.ClassTally) int {
	total := 0
	for _, t := range tallies {
		total += t.Count
	}
	return total
}

// Leaders returns the classes sharing the highest count, in tally order.
// Nil when nobody has voted.
func Leaders(tallies []models.ClassTally) []models.ClassNumber {
	best := 0
	for _, t := range tallies {
		best = max(best, t.Count)
	}
	if best == 0 {
		return nil
	}

	var leaders []models.ClassNumber
	for _, t := range tallies {
		if t.Count == best {
			leaders = append(leaders, t.ClassID)
		}
	}
	return leaders
}

// Share returns count as a fraction of total, or 0 when total is 0.
func Share(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
