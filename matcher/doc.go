// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package matcher draws the gift exchange.

# Generating Assignments

Generate pairs every participant with a receiver:

	assignments, err := matcher.Generate(participants)
	if errors.Is(err, matcher.ErrNoAssignment) {
		// roster too constrained for the attempt budget
	}

Each attempt shuffles a copy of the roster (Fisher-Yates) and zips it with
the roster in input order. An attempt is rejected at its first pair where the
giver would draw themselves or their excluded recipient. The first
clean attempt is returned; after MaxAttempts failures the result is
ErrNoAssignment.

This is rejection sampling, not a solver. A valid draw can exist and still
not be found within the budget.

# Exclusions

Each participant may name one excluded recipient. Names are compared after
trimming surrounding whitespace and lowercasing:

	matcher.IsValid(giver, receiver)

# Options

	matcher.Generate(participants,
		matcher.WithMaxAttempts(200),
		matcher.WithRand(rand.New(rand.NewPCG(1, 2))),
	)

Rosters where somebody has no admissible receiver (or no admissible giver)
fail immediately instead of spending the whole budget.

# Verification

Verify re-checks a finished draw against its roster and returns a
descriptive error for the first broken invariant.
*/
package matcher
