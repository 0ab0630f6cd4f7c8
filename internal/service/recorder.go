package service

// Recorder receives domain counters.  metrics.Metrics implements it.
type Recorder interface {
	LoginAttempt(outcome string)
	BookingTransition(event string)
}

type nopRecorder struct{}

func (nopRecorder) LoginAttempt(string)      {}
func (nopRecorder) BookingTransition(string) {}
