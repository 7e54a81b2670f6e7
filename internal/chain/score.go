package chain

// Score holds a pair of monotonic attempt counters.
type Score struct {
	AttemptsTotal   int `json:"attempts_total"`
	AttemptsCorrect int `json:"attempts_correct"`
}

// Record counts one attempt.
func (s *Score) Record(correct bool) {
	s.AttemptsTotal++
	if correct {
		s.AttemptsCorrect++
	}
}

// Accuracy returns the share of correct attempts in percent.
func (s Score) Accuracy() float64 {
	if s.AttemptsTotal == 0 {
		return 0
	}
	return float64(s.AttemptsCorrect) / float64(s.AttemptsTotal) * 100
}

func (s Score) valid() bool {
	return s.AttemptsTotal >= 0 && s.AttemptsCorrect >= 0 && s.AttemptsCorrect <= s.AttemptsTotal
}
