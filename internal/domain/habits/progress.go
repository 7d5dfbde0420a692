package habits

// Evaluation is the result of classifying one day's log against a habit.
// Logged distinguishes "a log exists" from the implied not-completed case
// when no log was recorded for the date.
type Evaluation struct {
	Logged    bool      `json:"logged"`
	Status    LogStatus `json:"status"`
	Completed bool      `json:"completed"`
	Progress  float64   `json:"progress"`
}

// Classify turns a logged value (or its absence) into a completion status
// against the habit's target.
//
// Binary habits take the stored status verbatim. Quantified habits derive
// truth from the numeric value, never from the status label, so partial
// progress always renders proportionally.
func Classify(h *Habit, log *HabitLog) Evaluation {
	if log == nil {
		return Evaluation{Logged: false, Status: StatusMissed, Completed: false, Progress: 0}
	}

	if !h.IsQuantified() {
		completed := log.Status == StatusCompleted
		progress := 0.0
		if completed {
			progress = 1.0
		}
		return Evaluation{Logged: true, Status: log.Status, Completed: completed, Progress: progress}
	}

	target := *h.DailyTarget
	if log.Value == nil {
		return Evaluation{Logged: true, Status: log.Status, Completed: false, Progress: 0}
	}

	progress := float64(*log.Value) / float64(target)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return Evaluation{
		Logged:    true,
		Status:    log.Status,
		Completed: *log.Value >= target,
		Progress:  progress,
	}
}

// DeriveStatus computes the status to attach to a log at write time, using
// the same rules Classify applies at read time so the two never disagree.
// The fallback is used when the value alone implies nothing, e.g. an
// explicit skip.
func DeriveStatus(h *Habit, value *int, fallback LogStatus) LogStatus {
	if h.IsQuantified() {
		switch {
		case value != nil && *value >= *h.DailyTarget:
			return StatusCompleted
		case value != nil && *value > 0:
			return StatusPartial
		default:
			return fallback
		}
	}

	if value != nil && *value > 0 {
		return StatusCompleted
	}
	return fallback
}
