package mentor

import (
	"fmt"
	"strings"
)

// Kind selects the prompt template and the fallback text
type Kind string

const (
	KindPlan      Kind = "plan"
	KindConcept   Kind = "concept"
	KindQuestions Kind = "questions"
	KindInsights  Kind = "insights"
	KindRecommend Kind = "recommend"
)

// maxRecommendProfiles caps how many learner profiles go into a prompt
const maxRecommendProfiles = 10

const genericFallback = "Please try again later. The AI service is temporarily unavailable."

var fallbacks = map[Kind]string{
	KindPlan:      "Focus on completing the current stage courses first, then take the next course in your track. Set aside 2 hours daily for focused study.",
	KindConcept:   "Review the course materials on this topic, check the official documentation, and watch related video tutorials in the course library.",
	KindQuestions: "Try the practice quizzes in the course modules, and review the assessment questions at the end of each stage.",
	KindInsights:  "Keep tracking your progress in completed courses and stages. As you complete more tracks, your career options will expand.",
	KindRecommend: "Manually review learner profiles and skills to identify candidates whose completed courses align with job requirements.",
}

// Valid reports whether k has a prompt template
func (k Kind) Valid() bool {
	_, ok := fallbacks[k]
	return ok
}

// Fallback returns the static suggestion shown when generation is unavailable
func Fallback(k Kind) string {
	if s, ok := fallbacks[k]; ok {
		return s
	}
	return genericFallback
}

// Profile is one learner line in a recommend prompt
type Profile struct {
	Name      string   `json:"name"`
	AllSkills []string `json:"allSkills"`
	AvgScore  int      `json:"avgScore"`
}

// Request carries the inputs of every prompt kind; each kind reads its own fields
type Request struct {
	// plan
	TrackName        string `json:"trackName,omitempty"`
	CurrentStage     int    `json:"currentStage,omitempty"`
	CompletedCourses int    `json:"completedCourses,omitempty"`

	// concept
	Concept string `json:"concept,omitempty"`
	Context string `json:"context,omitempty"`

	// questions
	Topic      string `json:"topic,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`

	// insights
	Skills          []string `json:"skills,omitempty"`
	AvgScore        int      `json:"avgScore,omitempty"`
	CompletedTracks int      `json:"completedTracks,omitempty"`

	// recommend
	JobTitle       string    `json:"jobTitle,omitempty"`
	RequiredSkills []string  `json:"requiredSkills,omitempty"`
	Profiles       []Profile `json:"profiles,omitempty"`
}

// BuildPrompt renders the prompt for kind
func BuildPrompt(kind Kind, req Request) (string, error) {
	switch kind {
	case KindPlan:
		return fmt.Sprintf(`You are a cloud learning coach. Create a brief, actionable learning plan for TODAY for a learner on the "%s" track at Stage %d who has completed %d courses.

Provide:
1. One specific learning goal (2-3 sentences)
2. Two recommended activities (with time estimates)
3. One tip for staying motivated

Keep it concise and practical.`, req.TrackName, req.CurrentStage, req.CompletedCourses), nil

	case KindConcept:
		return fmt.Sprintf(`You are a cloud technology expert. Explain the concept of "%s" in the context of %s.

Provide:
1. Simple definition (1-2 sentences)
2. Key points (bullet list, 3-4 items)
3. Real-world example in cloud computing
4. Common misconceptions to avoid

Keep explanations beginner-friendly.`, req.Concept, req.Context), nil

	case KindQuestions:
		difficulty := req.Difficulty
		if difficulty == "" {
			difficulty = "Intermediate"
		}
		return fmt.Sprintf(`You are a cloud certification exam prep coach. Generate practice questions for "%s" at %s level.

Create:
1. Three multiple-choice questions (with 4 options each)
2. One hands-on scenario question
3. Answer key with brief explanations

Focus on practical, real-world scenarios.`, req.Topic, difficulty), nil

	case KindInsights:
		return fmt.Sprintf(`You are a career coach analyzing a cloud learner's profile.

Learner Stats:
- Skills: %s
- Average Score: %d/100
- Completed Tracks: %d

Provide:
1. Career readiness assessment (Junior/Mid/Senior level)
2. Top 3 job roles they're qualified for
3. 2 skill gaps to address for career growth
4. 1-2 networking or certification recommendations

Be encouraging but realistic.`, strings.Join(req.Skills, ", "), req.AvgScore, req.CompletedTracks), nil

	case KindRecommend:
		profiles := req.Profiles
		if len(profiles) > maxRecommendProfiles {
			profiles = profiles[:maxRecommendProfiles]
		}
		lines := make([]string, 0, len(profiles))
		for i, p := range profiles {
			lines = append(lines, fmt.Sprintf("%d. %s - Skills: %s - Avg Score: %d/100",
				i+1, p.Name, strings.Join(p.AllSkills, ", "), p.AvgScore))
		}
		return fmt.Sprintf(`You are a tech recruiter. Review these learner profiles and recommend the top 3 best matches for a "%s" position requiring: %s.

Learner Profiles:
%s

For each recommended learner, provide:
1. Why they're a good fit
2. Strengths relative to the job
3. Areas they could grow in
4. Recommended onboarding focused on their gaps`, req.JobTitle, strings.Join(req.RequiredSkills, ", "), strings.Join(lines, "\n")), nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
