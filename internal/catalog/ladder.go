package catalog

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/terra-clan/skillsprint/internal/models"
)

var stageNames = [models.StageCount]string{
	"Fundamentals",
	"Core Skills",
	"Advanced Topics",
	"Expert Implementation",
	"Mastery",
}

// stage s awards the first s of these
var ladderSkills = [models.StageCount]string{
	"Cloud Architecture",
	"Scalability",
	"Security",
	"Performance",
	"Operations",
}

var salaryPrinter = message.NewPrinter(language.English)

// StageID builds the id of stage n of a track: "track-7" -> "stage-7-n"
func StageID(trackID string, n int) string {
	return fmt.Sprintf("stage-%s-%d", strings.TrimPrefix(trackID, "track-"), n)
}

// DefaultLadder generates the standard 5-stage ladder for a track that does
// not list its stages explicitly. Stage s covers ceil((s+1)/2) courses
// starting at catalog position (s-1)*3.
func DefaultLadder(trackID string, courses []models.Course) []models.Stage {
	stages := make([]models.Stage, 0, models.StageCount)
	for s := 1; s <= models.StageCount; s++ {
		count := (s + 2) / 2
		from := (s - 1) * 3

		courseIDs := []string{}
		for i := from; i < from+count && i < len(courses); i++ {
			courseIDs = append(courseIDs, courses[i].ID)
		}

		skills := make([]string, s)
		copy(skills, ladderSkills[:s])

		stages = append(stages, models.Stage{
			ID:            StageID(trackID, s),
			TrackID:       trackID,
			StageNum:      s,
			Title:         fmt.Sprintf("Stage %d: %s", s, stageNames[s-1]),
			Description:   fmt.Sprintf("Learn and master stage %d concepts and practices for this track", s),
			CourseIDs:     courseIDs,
			SkillsAwarded: skills,
			SalaryRange:   SalaryRange(s),
		})
	}
	return stages
}

// SalaryRange returns the default band for a stage, e.g. "$60,000 - $100,000"
func SalaryRange(stageNum int) string {
	base := 60000 + (stageNum-1)*25000
	return salaryPrinter.Sprintf("$%d - $%d", base, base+40000)
}

// explicitLadder validates stages listed in YAML: exactly five, numbered 1..5
func explicitLadder(trackID string, entries []stageEntry) ([]models.Stage, error) {
	if len(entries) != models.StageCount {
		return nil, fmt.Errorf("track must have exactly %d stages, got %d", models.StageCount, len(entries))
	}

	seen := make(map[int]bool, len(entries))
	stages := make([]models.Stage, 0, len(entries))
	for _, e := range entries {
		if e.StageNum < 1 || e.StageNum > models.StageCount {
			return nil, fmt.Errorf("stage number %d out of range", e.StageNum)
		}
		if seen[e.StageNum] {
			return nil, fmt.Errorf("duplicate stage number %d", e.StageNum)
		}
		seen[e.StageNum] = true

		id := e.ID
		if id == "" {
			id = StageID(trackID, e.StageNum)
		}
		salary := e.SalaryRange
		if salary == "" {
			salary = SalaryRange(e.StageNum)
		}

		stages = append(stages, models.Stage{
			ID:            id,
			TrackID:       trackID,
			StageNum:      e.StageNum,
			Title:         e.Title,
			Description:   e.Description,
			CourseIDs:     nonNil(e.CourseIDs),
			SkillsAwarded: nonNil(e.SkillsAwarded),
			SalaryRange:   salary,
		})
	}

	sort.Slice(stages, func(i, j int) bool {
		return stages[i].StageNum < stages[j].StageNum
	})
	return stages, nil
}
