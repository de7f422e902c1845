package core

// Fixed content of the derived arrival buffer inserted after a flight
// that opens a day.
const (
	arrivalProcessTitle       = "Immigration & baggage"
	arrivalProcessDescription = "Passport control, immigration and baggage claim"
	arrivalProcessDuration    = "60 min"
)

// ActivityDuration returns the schedule minutes an activity consumes.
// Transit-like categories read their free-text duration; everything
// else uses the per-category default. A flight consumes no time itself:
// it marks an arrival instant whose real elapsed time is absorbed by
// the process card that follows it.
func ActivityDuration(a Activity) int {
	switch a.Category {
	case CategoryNote, CategoryExpense, CategoryFlight:
		return 0
	case CategoryProcess:
		if a.Transport != nil {
			if m := ParseDurationMinutes(a.Transport.Duration); m > 0 {
				return m
			}
		}
		return 60
	case CategoryTransport:
		// A zero-length transit leg would be an invisible hop on the
		// schedule, so an unparseable duration falls back to 30.
		if a.Transport != nil {
			if m := ParseDurationMinutes(a.Transport.Duration); m > 0 {
				return m
			}
		}
		return 30
	case CategoryFood:
		return 60
	case CategoryCafe:
		return 45
	case CategorySightseeing:
		return 90
	case CategoryShopping:
		return 120
	case CategoryRelax:
		return 60
	case CategoryHotel:
		return 30
	default:
		return 60
	}
}

// RecalcDay recomputes every activity time of a day from its anchor:
// the first activity's time is kept verbatim and all subsequent times
// are forward-propagated from it using ActivityDuration. When the day
// opens with a flight arrival that is not already followed by a process
// activity, an "Immigration & baggage" buffer is injected at index 1.
//
// RecalcDay is total and idempotent: it never fails, re-running it on
// its own output changes nothing, and the injected card is never
// duplicated. The input day is not mutated; the returned day carries a
// fresh activity slice.
func RecalcDay(day Day) Day {
	if len(day.Activities) == 0 {
		return day
	}

	acts := make([]Activity, len(day.Activities), len(day.Activities)+1)
	copy(acts, day.Activities)

	if needsArrivalProcess(acts) {
		acts = append(acts, Activity{})
		copy(acts[2:], acts[1:])
		acts[1] = arrivalProcessCard(acts[0])
	}

	// A malformed anchor degrades to midnight rather than failing the
	// recalculation.
	clock, _ := ParseClock(acts[0].Time)
	clock += ActivityDuration(acts[0])
	for i := 1; i < len(acts); i++ {
		acts[i].Time = FormatClock(clock)
		clock += ActivityDuration(acts[i])
	}

	day.Activities = acts
	return day
}

// needsArrivalProcess reports whether the day opens with a flight whose
// follow-up process card is missing.
func needsArrivalProcess(acts []Activity) bool {
	if acts[0].Category != CategoryFlight {
		return false
	}
	return len(acts) == 1 || acts[1].Category != CategoryProcess
}

// arrivalProcessCard builds the derived buffer for a flight arrival.
// Its id is derived from the flight so repeated recalculations of the
// same day agree on identity; its time is provisional and overwritten
// by propagation.
func arrivalProcessCard(flight Activity) Activity {
	id := "arrival-process"
	if flight.ID != "" {
		id = flight.ID + "-arrival"
	}
	return Activity{
		ID:          id,
		Time:        flight.Time,
		Category:    CategoryProcess,
		Title:       arrivalProcessTitle,
		Description: arrivalProcessDescription,
		Transport: &TransportDetail{
			Mode:     "walk",
			Duration: arrivalProcessDuration,
		},
	}
}
