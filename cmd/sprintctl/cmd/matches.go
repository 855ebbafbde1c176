package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/terra-clan/skillsprint/internal/models"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
)

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Show job eligibility",
	Long: `Show how the current learner matches every open job.

A job is eligible at 75% skill coverage with the minimum average score met,
and a close match at 50% coverage.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		m, err := newClient().JobMatches(context.Background(), currentUser())
		if err != nil {
			printError(cmd, err)
			return
		}

		cmd.Printf("%sAverage score:%s %d\n", colorBold, colorReset, m.AvgScore)

		printMatches(cmd, colorGreen+"Eligible"+colorReset, m.Eligible)
		printMatches(cmd, colorYellow+"Close matches"+colorReset, m.CloseMatches)
		if all, _ := cmd.Flags().GetBool("all"); all {
			printMatches(cmd, "Other", m.Other)
		}
	},
}

func printMatches(cmd *cobra.Command, heading string, matches []models.JobMatch) {
	cmd.Printf("\n%s (%d)\n", heading, len(matches))
	if len(matches) == 0 {
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tTITLE\tMATCH\tMIN SCORE\tMATCHED")
	for _, m := range matches {
		fmt.Fprintf(w, "%s\t%s\t%.0f%%\t%d\t%s\n",
			m.Job.ID, m.Job.Title, m.MatchPercentage, m.Job.MinAvgScore, strings.Join(m.MatchedSkills, ", "))
	}
	w.Flush()
}

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the current learner's skills",
	Long:  `List every skill from the resume, base skills, completed courses and stages. With --profile, only base and stage skills.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c := newClient()
		ctx := context.Background()

		var (
			skills []string
			err    error
		)
		if profile, _ := cmd.Flags().GetBool("profile"); profile {
			skills, err = c.SkillsProfile(ctx, currentUser())
		} else {
			skills, err = c.Skills(ctx, currentUser())
		}
		if err != nil {
			printError(cmd, err)
			return
		}

		if len(skills) == 0 {
			cmd.Println("No skills yet.")
			return
		}
		for _, s := range skills {
			cmd.Printf("  • %s\n", s)
		}
	},
}

func init() {
	matchesCmd.Flags().Bool("all", false, "also list jobs that are not a close match")
	skillsCmd.Flags().Bool("profile", false, "show the skills profile instead of all skills")

	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(skillsCmd)
}
