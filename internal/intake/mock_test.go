package intake

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/radview/imaging-case-portal/internal/models"
)

func TestMockAnalysisRanges(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		a := MockAnalysis(rng, models.SourceSystem)
		if a.Confidence < 60 || a.Confidence > 100 {
			t.Fatalf("confidence %d out of [60,100]", a.Confidence)
		}
		if a.Severity < 1 || a.Severity > 5 {
			t.Fatalf("severity %d out of [1,5]", a.Severity)
		}
		switch a.Priority {
		case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		default:
			t.Fatalf("priority %q not in mock set", a.Priority)
		}
		if a.Modality != "CT" || a.BodyPart != "Chest" {
			t.Fatalf("modality/body part = %q/%q, want CT/Chest", a.Modality, a.BodyPart)
		}
		if a.PatientName == "" || a.PatientAge <= 0 {
			t.Fatalf("missing patient placeholder: %+v", a)
		}
	}
}

func TestMockAnalysisFindingsNameSource(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	if f := MockAnalysis(rng, models.SourceManual).Findings; !strings.Contains(f, "manually") {
		t.Errorf("manual findings %q does not mention manual upload", f)
	}
	if f := MockAnalysis(rng, models.SourceSystem).Findings; !strings.Contains(f, "system") {
		t.Errorf("system findings %q does not mention system upload", f)
	}
}
