// Command locate resolves, saves and watches the user's delivery location from a terminal,
// using the same resolver the storefront embeds.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configDir string
	token     string
	lat       float64
	lng       float64
	accuracy  float64
	syncWait  time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "locate",
	Short: "Resolve and persist the user's delivery location",
	Long: `locate drives the location resolver from the command line.

The cached location lives in a local SQLite file. With --token the location
is also synchronized with the signed-in user's profile.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "./configs", "Directory holding app.env")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token of the signed-in user")
	rootCmd.PersistentFlags().Float64Var(&lat, "lat", 0, "Use a fixed device latitude instead of MQTT")
	rootCmd.PersistentFlags().Float64Var(&lng, "lng", 0, "Use a fixed device longitude instead of MQTT")
	rootCmd.PersistentFlags().Float64Var(&accuracy, "accuracy", 10, "Accuracy in meters reported with --lat/--lng")
	rootCmd.PersistentFlags().DurationVar(&syncWait, "sync-wait", 10*time.Second, "How long to wait for the profile sync")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("locate failed")
		os.Exit(1)
	}
}
