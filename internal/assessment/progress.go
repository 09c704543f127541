package assessment

import (
	"math"
	"time"
)

// StageStatus is the display state of one processing stage.
type StageStatus string

const (
	StagePending    StageStatus = "pending"
	StageProcessing StageStatus = "processing"
	StageCompleted  StageStatus = "completed"
)

// Stage is one entry of the processing animation.
type Stage struct {
	ID       string
	Title    string
	Duration time.Duration
}

// ProcessingStages is the fixed sequence shown while an application is scored.
var ProcessingStages = []Stage{
	{ID: "data_validation", Title: "Data Validation", Duration: 2000 * time.Millisecond},
	{ID: "feature_engineering", Title: "Feature Engineering", Duration: 3000 * time.Millisecond},
	{ID: "federated_inference", Title: "Federated Model Inference", Duration: 4000 * time.Millisecond},
	{ID: "explainable_ai", Title: "Explainable AI Analysis", Duration: 3500 * time.Millisecond},
	{ID: "risk_assessment", Title: "Risk Assessment", Duration: 2500 * time.Millisecond},
	{ID: "profile_creation", Title: "Profile Creation", Duration: 2000 * time.Millisecond},
}

// StageProgress pairs a stage with its status at some elapsed time.
type StageProgress struct {
	Stage
	Status StageStatus
}

// ProgressReport is the processing view at one instant.
type ProgressReport struct {
	Stages  []StageProgress
	Percent float64
	Done    bool
}

// TotalProcessingTime is the sum of all stage durations.
func TotalProcessingTime() time.Duration {
	var total time.Duration
	for _, st := range ProcessingStages {
		total += st.Duration
	}
	return total
}

// Progress reports each stage's status after elapsed time has passed.
func Progress(elapsed time.Duration) ProgressReport {
	if elapsed < 0 {
		elapsed = 0
	}
	total := TotalProcessingTime()
	report := ProgressReport{Stages: make([]StageProgress, len(ProcessingStages))}

	var start time.Duration
	for i, st := range ProcessingStages {
		end := start + st.Duration
		status := StagePending
		switch {
		case elapsed >= end:
			status = StageCompleted
		case elapsed >= start:
			status = StageProcessing
		}
		report.Stages[i] = StageProgress{Stage: st, Status: status}
		start = end
	}

	if elapsed >= total {
		report.Percent = 100
		report.Done = true
		return report
	}
	report.Percent = math.Round(float64(elapsed)/float64(total)*1000) / 10
	return report
}
