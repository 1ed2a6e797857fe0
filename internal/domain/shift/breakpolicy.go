package shift

// BreakSpec describes one break a policy prescribes.
type BreakSpec struct {
	Type            BreakType
	DurationMinutes int
	Paid            bool
	Required        bool
}

// BreakPolicy maps a minimum shift length to the breaks it earns. Policy
// tables are externally supplied configuration data.
type BreakPolicy struct {
	ID              string
	MinShiftMinutes int
	Breaks          []BreakSpec
}

// ResolveBreakPolicy picks the single policy with the greatest MinShiftMinutes
// that is at or below the shift length. Ties keep the earliest table entry.
// A zero-length shift earns no breaks.
func ResolveBreakPolicy(policies []BreakPolicy, shiftMinutes int) []BreakSpec {
	if shiftMinutes <= 0 {
		return nil
	}

	best := -1
	for i, p := range policies {
		if p.MinShiftMinutes > shiftMinutes {
			continue
		}
		if best == -1 || p.MinShiftMinutes > policies[best].MinShiftMinutes {
			best = i
		}
	}

	if best == -1 {
		return nil
	}
	return policies[best].Breaks
}
