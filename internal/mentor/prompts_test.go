package mentor

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		kind     Kind
		req      Request
		contains []string
	}{
		{KindPlan, Request{TrackName: "AWS Solutions Architect", CurrentStage: 3, CompletedCourses: 4},
			[]string{`"AWS Solutions Architect" track at Stage 3`, "completed 4 courses"}},
		{KindConcept, Request{Concept: "Load Balancing", Context: "AWS"},
			[]string{`concept of "Load Balancing" in the context of AWS`}},
		{KindQuestions, Request{Topic: "IAM"},
			[]string{`questions for "IAM" at Intermediate level`}},
		{KindQuestions, Request{Topic: "IAM", Difficulty: "Advanced"},
			[]string{"at Advanced level"}},
		{KindInsights, Request{Skills: []string{"AWS", "Docker"}, AvgScore: 88, CompletedTracks: 1},
			[]string{"- Skills: AWS, Docker", "- Average Score: 88/100", "- Completed Tracks: 1"}},
		{KindRecommend, Request{JobTitle: "Cloud Engineer", RequiredSkills: []string{"AWS", "Linux"},
			Profiles: []Profile{{Name: "Alex Chen", AllSkills: []string{"AWS"}, AvgScore: 90}}},
			[]string{`"Cloud Engineer" position requiring: AWS, Linux`, "1. Alex Chen - Skills: AWS - Avg Score: 90/100"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			prompt, err := BuildPrompt(tt.kind, tt.req)
			if err != nil {
				t.Fatalf("BuildPrompt failed: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(prompt, want) {
					t.Errorf("expected prompt to contain %q\n%s", want, prompt)
				}
			}
		})
	}
}

func TestBuildPrompt_RecommendCapsProfiles(t *testing.T) {
	var profiles []Profile
	for i := 1; i <= 12; i++ {
		profiles = append(profiles, Profile{Name: fmt.Sprintf("Learner %d", i)})
	}

	prompt, err := BuildPrompt(KindRecommend, Request{JobTitle: "X", Profiles: profiles})
	if err != nil {
		t.Fatalf("BuildPrompt failed: %v", err)
	}
	if !strings.Contains(prompt, "10. Learner 10") {
		t.Error("expected tenth profile")
	}
	if strings.Contains(prompt, "Learner 11") {
		t.Error("expected profiles beyond ten to be dropped")
	}
}

func TestBuildPrompt_UnknownKind(t *testing.T) {
	_, err := BuildPrompt(Kind("haiku"), Request{})
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestFallback(t *testing.T) {
	for _, k := range []Kind{KindPlan, KindConcept, KindQuestions, KindInsights, KindRecommend} {
		if !k.Valid() {
			t.Errorf("%s should be valid", k)
		}
		if Fallback(k) == genericFallback {
			t.Errorf("%s should have its own fallback", k)
		}
	}
	if got := Fallback("other"); got != "Please try again later. The AI service is temporarily unavailable." {
		t.Errorf("unexpected generic fallback %q", got)
	}
}
