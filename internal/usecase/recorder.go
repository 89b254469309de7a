package usecase

// Recorder receives business counters from use cases.
type Recorder interface {
	ExportGenerated(format string)
	DiplomaGenerated(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ExportGenerated(string)  {}
func (nopRecorder) DiplomaGenerated(string) {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
