package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List certification tracks",
	Long:  `List every track with its provider company and estimated duration.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		tracks, err := newClient().ListTracks(context.Background())
		if err != nil {
			printError(cmd, err)
			return
		}

		if len(tracks) == 0 {
			cmd.Println("No tracks found.")
			return
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPROVIDER\tWEEKS")
		for _, t := range tracks {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", t.ID, t.Name, t.ProviderCompanyID, t.EstimatedWeeks)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(tracksCmd)
}
