// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package matcher

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/danielhkuo/secret-draw/models"
)

// Verify checks a result against the roster it was drawn from: one pair per
// participant, everyone gives once and receives once, and every pair passes
// IsValid. Names identify participants.
func Verify(assignments []Assignment, participants []models.Participant) error {
	if len(assignments) != len(participants) {
		return fmt.Errorf("got %d assignments for %d participants", len(assignments), len(participants))
	}

	roster := lo.CountValuesBy(participants, func(p models.Participant) string { return p.Name })
	givers := lo.CountValuesBy(assignments, func(a Assignment) string { return a.Giver.Name })
	receivers := lo.CountValuesBy(assignments, func(a Assignment) string { return a.Receiver.Name })

	for _, p := range lo.UniqBy(participants, func(p models.Participant) string { return p.Name }) {
		name, want := p.Name, roster[p.Name]
		if givers[name] != want {
			return fmt.Errorf("%q gives %d times, want %d", name, givers[name], want)
		}
		if receivers[name] != want {
			return fmt.Errorf("%q receives %d times, want %d", name, receivers[name], want)
		}
	}

	for _, a := range assignments {
		if !IsValid(a.Giver, a.Receiver) {
			return fmt.Errorf("invalid pair %q -> %q", a.Giver.Name, a.Receiver.Name)
		}
	}

	return nil
}
