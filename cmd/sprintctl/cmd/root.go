package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/terra-clan/skillsprint/pkg/client"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "sprintctl",
	Short: "sprintctl is a command line tool for the skillsprint learning platform",
	Long: `sprintctl talks to a running skillsprint server.

Learners enroll in 5-stage certification tracks, log study check-ins and
advance stages. Reaching stage 5 makes a learner visible to recruiters.

Common workflows:

  List tracks:
    sprintctl tracks

  Enroll and log progress:
    sprintctl enroll track-1
    sprintctl checkin <enrollment-id> --minutes 45 --note "VPC lab"
    sprintctl complete-stage <enrollment-id>

  Check job eligibility:
    sprintctl matches
    sprintctl skills

Configuration:
  SKILLSPRINT_URL     API endpoint (default: http://localhost:8080)
  SKILLSPRINT_ROLE    learner or company (default: learner)
  SKILLSPRINT_USER    learner or company id (default: learner-1)`,
}

func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".sprintctl"
		viper.AddConfigPath(home)
		viper.SetConfigName(".sprintctl")
		viper.SetConfigType("yaml")
	}

	// Read environment variables that match "SKILLSPRINT_VARNAME"
	viper.SetEnvPrefix("SKILLSPRINT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sprintctl.yaml)")

	rootCmd.PersistentFlags().String("url", "http://localhost:8080", "skillsprint server URL")
	viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))

	rootCmd.PersistentFlags().String("role", "learner", "role to act as (learner or company)")
	viper.BindPFlag("role", rootCmd.PersistentFlags().Lookup("role"))

	rootCmd.PersistentFlags().StringP("user", "u", "learner-1", "learner or company id to act as")
	viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))
}

// newClient builds an API client from the resolved configuration
func newClient() *client.Client {
	return client.NewClient(viper.GetString("url"),
		client.WithIdentity(viper.GetString("role"), currentUser()))
}

func currentUser() string {
	if u := viper.GetString("user"); u != "" {
		return u
	}
	return "learner-1"
}

// printError reports an API or transport error to the command output
func printError(cmd *cobra.Command, err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		cmd.Printf("Error (%d): %s\n", apiErr.Status, apiErr.Message)
		return
	}
	cmd.Printf("Error: %v\n", err)
}
