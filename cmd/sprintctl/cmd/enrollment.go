package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/terra-clan/skillsprint/internal/models"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll [track_id]",
	Short: "Start a track",
	Long:  `Enroll the current learner in a track at stage 1.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, err := newClient().StartTrack(context.Background(), currentUser(), args[0])
		if err != nil {
			printError(cmd, err)
			return
		}

		cmd.Printf("Enrolled in %s\n", e.TrackID)
		cmd.Printf("Enrollment ID: %s\n", e.ID)
		cmd.Printf("Stage: %d/%d\n", e.StageNum, models.StageCount)
	},
}

var checkinCmd = &cobra.Command{
	Use:   "checkin [enrollment_id]",
	Short: "Log a study session",
	Long: `Log a study session against an enrollment. Each check-in adds 5% progress, capped at 100%.

Example:
  sprintctl checkin enroll-1 --minutes 45 --note "IAM policies lab"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		minutes, _ := flags.GetInt("minutes")
		note, _ := flags.GetString("note")

		if minutes < 0 {
			cmd.Println("Error: --minutes must not be negative")
			return
		}

		c := newClient()
		ctx := context.Background()

		ci, err := c.CheckIn(ctx, args[0], minutes, note)
		if err != nil {
			printError(cmd, err)
			return
		}
		cmd.Printf("Logged %d minutes (%s)\n", ci.Minutes, ci.ID)

		if e, err := c.GetEnrollment(ctx, args[0]); err == nil {
			cmd.Printf("Progress: %d%%\n", e.ProgressPct)
		}
	},
}

var completeStageCmd = &cobra.Command{
	Use:   "complete-stage [enrollment_id]",
	Short: "Submit the current stage as completed",
	Long:  `Advance an enrollment to its next stage. Completing stage 5 finishes the track.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, err := newClient().CompleteStage(context.Background(), args[0])
		if err != nil {
			printError(cmd, err)
			return
		}

		if e.Status == models.EnrollmentCompleted {
			cmd.Printf("%sTrack completed!%s\n", colorGreen, colorReset)
		} else {
			cmd.Printf("Now at stage %d/%d (%d%%)\n", e.StageNum, models.StageCount, e.ProgressPct)
		}
		if e.RecruiterVisible {
			cmd.Println("Your profile is visible to recruiters.")
		}
	},
}

func init() {
	checkinCmd.Flags().IntP("minutes", "m", 30, "minutes studied")
	checkinCmd.Flags().StringP("note", "n", "", "what you worked on")

	rootCmd.AddCommand(enrollCmd)
	rootCmd.AddCommand(checkinCmd)
	rootCmd.AddCommand(completeStageCmd)
}
