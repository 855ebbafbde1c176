package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func resetViper() {
	viper.Reset()
	viper.SetEnvPrefix("SKILLSPRINT")
	viper.AutomaticEnv()
}

// runCommand executes sprintctl against server and returns its output
func runCommand(t *testing.T, serverURL string, args ...string) string {
	t.Helper()

	viper.Set("url", serverURL)
	viper.Set("role", "learner")
	viper.Set("user", "learner-2")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	return stdout.String()
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"success": status < 300, "data": data})
}

func TestTracksCommand(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/tracks" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		writeData(w, http.StatusOK, []map[string]interface{}{
			{"id": "track-1", "name": "Cloud Developer", "providerCompanyId": "aws", "estimatedWeeks": 12},
		})
	}))
	defer server.Close()

	out := runCommand(t, server.URL, "tracks")
	if !strings.Contains(out, "track-1") || !strings.Contains(out, "Cloud Developer") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestEnrollCommand(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/learners/learner-2/enrollments" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-SkillSprint-User") != "learner-2" {
			t.Errorf("expected identity header, got %q", r.Header.Get("X-SkillSprint-User"))
		}
		writeData(w, http.StatusCreated, map[string]interface{}{
			"id": "enroll-abc", "trackId": "track-1", "stageNum": 1, "status": "ACTIVE",
		})
	}))
	defer server.Close()

	out := runCommand(t, server.URL, "enroll", "track-1")
	if !strings.Contains(out, "Enrollment ID: enroll-abc") || !strings.Contains(out, "Stage: 1/5") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestCheckinCommand(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/enrollments/enroll-1/check-ins":
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			if body["minutes"] != float64(45) || body["note"] != "lab" {
				t.Errorf("unexpected body %v", body)
			}
			writeData(w, http.StatusCreated, map[string]interface{}{"id": "checkin-1", "minutes": 45})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/enrollments/enroll-1":
			writeData(w, http.StatusOK, map[string]interface{}{"id": "enroll-1", "progressPct": 45})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	out := runCommand(t, server.URL, "checkin", "enroll-1", "--minutes", "45", "--note", "lab")
	if !strings.Contains(out, "Logged 45 minutes") || !strings.Contains(out, "Progress: 45%") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestCompleteStageCommand_NotFound(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"code":"not_found","message":"enrollment not found: nope"}}`))
	}))
	defer server.Close()

	out := runCommand(t, server.URL, "complete-stage", "nope")
	if !strings.Contains(out, "Error (404): enrollment not found: nope") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestCompleteStageCommand_Finished(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, map[string]interface{}{
			"id": "enroll-1", "stageNum": 5, "status": "COMPLETED", "progressPct": 100, "recruiterVisible": true,
		})
	}))
	defer server.Close()

	out := runCommand(t, server.URL, "complete-stage", "enroll-1")
	if !strings.Contains(out, "Track completed!") || !strings.Contains(out, "visible to recruiters") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestMatchesCommand(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/learners/learner-2/job-matches" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		writeData(w, http.StatusOK, map[string]interface{}{
			"avgScore": 88,
			"eligible": []map[string]interface{}{{
				"job":             map[string]interface{}{"id": "job-2", "title": "AWS DevOps Engineer", "minAvgScore": 85},
				"matchPercentage": 75,
				"matchedSkills":   []string{"CI/CD", "DevOps", "Docker"},
			}},
			"closeMatches": []interface{}{},
			"other":        []interface{}{},
		})
	}))
	defer server.Close()

	out := runCommand(t, server.URL, "matches")
	if !strings.Contains(out, "Average score:") || !strings.Contains(out, "job-2") || !strings.Contains(out, "75%") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestSkillsCommand(t *testing.T) {
	resetViper()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeData(w, http.StatusOK, []string{"AWS Basics", "Cloud Architecture"})
	}))
	defer server.Close()

	out := runCommand(t, server.URL, "skills", "--profile")
	if gotPath != "/api/v1/learners/learner-2/skills-profile" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if !strings.Contains(out, "Cloud Architecture") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestRootCommand_EnvVarBinding(t *testing.T) {
	resetViper()

	t.Setenv("SKILLSPRINT_URL", "http://custom:9090")
	t.Setenv("SKILLSPRINT_USER", "learner-7")

	if got := viper.GetString("url"); got != "http://custom:9090" {
		t.Errorf("expected url from env var, got: %s", got)
	}
	if got := currentUser(); got != "learner-7" {
		t.Errorf("expected user from env var, got: %s", got)
	}
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	want := map[string]bool{
		"tracks": false, "enroll [track_id]": false, "checkin [enrollment_id]": false,
		"complete-stage [enrollment_id]": false, "matches": false, "skills": false,
	}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Use]; ok {
			want[c.Use] = true
		}
	}
	for use, found := range want {
		if !found {
			t.Errorf("expected %q subcommand", use)
		}
	}
}
