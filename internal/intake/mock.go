package intake

import (
	"math/rand/v2"

	"github.com/radview/imaging-case-portal/internal/models"
)

// The analysis pipeline is a placeholder: real image analysis lives outside
// this repository, so new cases get plausible mock values for the dashboard
// to render.

var mockPatients = []string{
	"Jordan Avery", "Sam Whitfield", "Riley Moreno", "Casey Lindqvist",
	"Alex Okafor", "Morgan Tanaka", "Jamie Petrov", "Taylor Nguyen",
}

var mockPriorities = []models.Priority{
	models.PriorityLow, models.PriorityMedium, models.PriorityHigh,
}

// Analysis holds the placeholder analysis fields for a new case.
type Analysis struct {
	PatientName string
	PatientAge  int
	Modality    string
	BodyPart    string
	Findings    string
	Confidence  int // uniform in [60,100]
	Severity    int // uniform in [1,5]
	Priority    models.Priority
}

// MockAnalysis produces placeholder analysis values for an upload.
func MockAnalysis(rng *rand.Rand, source models.Source) Analysis {
	findings := "Automated placeholder findings for system-uploaded scan; awaiting review."
	if source == models.SourceManual {
		findings = "Automated placeholder findings for manually uploaded scan; awaiting review."
	}
	return Analysis{
		PatientName: mockPatients[rng.IntN(len(mockPatients))],
		PatientAge:  18 + rng.IntN(68),
		Modality:    "CT",
		BodyPart:    "Chest",
		Findings:    findings,
		Confidence:  60 + rng.IntN(41),
		Severity:    1 + rng.IntN(5),
		Priority:    mockPriorities[rng.IntN(len(mockPriorities))],
	}
}
