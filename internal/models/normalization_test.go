package models

import "testing"

func TestStage_Valid(t *testing.T) {
	tests := []struct {
		name     string
		stage    Stage
		expected bool
	}{
		{"vocabulary", StageVocabulary, true},
		{"taxonomy", StageTaxonomy, true},
		{"model", StageModel, true},
		{"none", StageNone, true},
		{"empty", "", false},
		{"unknown", "embedding", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stage.Valid(); got != tt.expected {
				t.Errorf("Valid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNoMatch(t *testing.T) {
	res := NoMatch()
	if res.Matched() {
		t.Error("NoMatch().Matched() = true, want false")
	}
	if res.Confidence != 0 {
		t.Errorf("NoMatch().Confidence = %v, want 0", res.Confidence)
	}
	if !res.NeedsReview {
		t.Error("NoMatch().NeedsReview = false, want true")
	}
	if res.Stage != StageNone {
		t.Errorf("NoMatch().Stage = %q, want %q", res.Stage, StageNone)
	}
	if res.Value() != "" {
		t.Errorf("NoMatch().Value() = %q, want empty", res.Value())
	}
}

func TestNewProduct(t *testing.T) {
	v := "Navy Blue T-shirt"
	p := NewProduct("Nvy Blue T-shirt", Result{NormalizedValue: &v, Confidence: 1, Stage: StageVocabulary})

	if p.Text != "Nvy Blue T-shirt" {
		t.Errorf("Text = %q", p.Text)
	}
	if p.DisplayValue() != v {
		t.Errorf("DisplayValue() = %q, want %q", p.DisplayValue(), v)
	}
	if p.NeedsReview {
		t.Error("NeedsReview = true, want false")
	}
	if p.SourceStage != StageVocabulary {
		t.Errorf("SourceStage = %q, want %q", p.SourceStage, StageVocabulary)
	}
}

func TestFeedback_HasCorrection(t *testing.T) {
	empty := ""
	value := "Red Shirt"

	tests := []struct {
		name       string
		correction *string
		expected   bool
	}{
		{"nil correction", nil, false},
		{"empty correction", &empty, false},
		{"set correction", &value, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Feedback{Correction: tt.correction}
			if got := f.HasCorrection(); got != tt.expected {
				t.Errorf("HasCorrection() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRetrainRun_IsFinished(t *testing.T) {
	tests := []struct {
		status   string
		expected bool
	}{
		{RunRunning, false},
		{RunSucceeded, true},
		{RunSkipped, true},
		{RunFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			r := &RetrainRun{Status: tt.status}
			if got := r.IsFinished(); got != tt.expected {
				t.Errorf("IsFinished() = %v, want %v", got, tt.expected)
			}
		})
	}
}
