package problem

// TimeWindow is an admissible [Start, End] interval, in seconds since the
// problem's epoch. A job/activity may carry an ordered list of these; an
// arrival is admissible if it falls within at least one.
type TimeWindow struct {
	Start, End float64
}

// Contains reports whether t lies within the window (inclusive).
func (w TimeWindow) Contains(t float64) bool {
	return t >= w.Start && t <= w.End
}

// EarliestAdmissible returns the waiting time imposed by the satisfied
// window with the minimum Start — i.e. min_by_key(start) over every window
// whose End is not already behind arrival, not merely the first such window
// in list order (the input format does not promise the list is sorted
// ascending by Start). Returns ok=false when no window is reachable at all.
func EarliestAdmissible(windows []TimeWindow, arrival float64) (wait float64, ok bool) {
	if len(windows) == 0 {
		return 0, true
	}
	best, found := TimeWindow{}, false
	for _, w := range windows {
		if arrival > w.End {
			continue
		}
		if !found || w.Start < best.Start {
			best, found = w, true
		}
	}
	if !found {
		return 0, false
	}
	if arrival < best.Start {
		return best.Start - arrival, true
	}
	return 0, true
}

// Overtime returns max(0, arrival-windowEnd) minimized over windows whose
// start is reachable, i.e. the time-window constraint's penalty function
// (spec §4.2). When no window is reachable at all, the penalty is the
// overtime against the last window (the job is hopelessly late).
func Overtime(windows []TimeWindow, arrival float64) float64 {
	if len(windows) == 0 {
		return 0
	}
	last := windows[len(windows)-1].End
	for _, w := range windows {
		if arrival <= w.End {
			return 0
		}
	}
	return arrival - last
}
