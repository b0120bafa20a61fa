// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package matcher

import (
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/danielhkuo/secret-draw/models"
)

// DefaultMaxAttempts is the number of shuffles tried before giving up
const DefaultMaxAttempts = 1000

// ErrNoAssignment is returned when no valid permutation was found within the
// attempt budget. A valid one may still exist.
var ErrNoAssignment = errors.New("no valid assignment found")

// Assignment pairs a giver with the participant they buy a gift for
type Assignment struct {
	Giver    models.Participant
	Receiver models.Participant
}

type options struct {
	maxAttempts int
	rng         *rand.Rand
}

// Option tunes a single Generate call
type Option func(*options)

// WithMaxAttempts sets the attempt budget. Non-positive values keep the default.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithRand makes Generate draw its shuffles from r instead of the
// package-level source. r must not be shared across goroutines.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// Generate assigns every participant a distinct receiver that is neither
// themselves nor their excluded recipient.
//
// Givers keep the input order. Receivers are a working copy that is
// reshuffled for every attempt; the first attempt whose pairs are all valid
// is returned. Empty input yields an empty, non-nil result. If no attempt
// succeeds, Generate returns ErrNoAssignment and no partial result.
func Generate(participants []models.Participant, opts ...Option) ([]Assignment, error) {
	o := options{maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(&o)
	}

	if len(participants) == 0 {
		return []Assignment{}, nil
	}

	// Some rosters can never succeed; skip the retry loop for those
	if !feasible(participants) {
		return nil, ErrNoAssignment
	}

	shuffle := rand.Shuffle
	if o.rng != nil {
		shuffle = o.rng.Shuffle
	}

	receivers := make([]models.Participant, len(participants))
	copy(receivers, participants)

	for attempt := 0; attempt < o.maxAttempts; attempt++ {
		shuffle(len(receivers), func(i, j int) {
			receivers[i], receivers[j] = receivers[j], receivers[i]
		})

		if assignments, ok := pair(participants, receivers); ok {
			return assignments, nil
		}
	}

	return nil, ErrNoAssignment
}

// pair zips givers with receivers, stopping at the first invalid pair
func pair(givers, receivers []models.Participant) ([]Assignment, bool) {
	for i, giver := range givers {
		if !IsValid(giver, receivers[i]) {
			return nil, false
		}
	}

	assignments := make([]Assignment, len(givers))
	for i, giver := range givers {
		assignments[i] = Assignment{Giver: giver, Receiver: receivers[i]}
	}
	return assignments, true
}

// IsValid reports whether giver may be assigned receiver
func IsValid(giver, receiver models.Participant) bool {
	if giver.Name == receiver.Name {
		return false
	}

	excluded := normalize(giver.ExcludedRecipient)
	if excluded != "" && excluded == normalize(receiver.Name) {
		return false
	}

	return true
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// feasible checks that every participant has at least one admissible
// receiver and at least one admissible giver.
func feasible(participants []models.Participant) bool {
	hasGiver := make([]bool, len(participants))

	for _, giver := range participants {
		hasReceiver := false
		for j, receiver := range participants {
			if IsValid(giver, receiver) {
				hasReceiver = true
				hasGiver[j] = true
			}
		}
		if !hasReceiver {
			return false
		}
	}

	for _, ok := range hasGiver {
		if !ok {
			return false
		}
	}
	return true
}
