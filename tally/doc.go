// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally counts votes per class.

	tallies := tally.Aggregate(votes, tally.DefaultClasses())

Aggregate always returns one entry per configured class, in configured
order, with zero for classes nobody voted for. Class ids are compared as
numbers; records that stored the id as a string are normalised when they
are decoded into models.Vote.
*/
package tally
