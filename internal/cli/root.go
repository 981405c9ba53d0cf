package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syllascan/syllascan/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "syllascan",
	Short: "Syllascan - Extract assignments and due dates from course syllabi",
	Long: `Syllascan scans course syllabi (PDF or plain text) and extracts
assignments, quizzes, exams, and other deliverables together with their
due dates.

Extraction is heuristic: a keyword vocabulary finds assignment-like
lines, a date recognizer resolves same-line, nearby-line, and table-row
dates, and every extracted item carries a provenance tag so nothing the
tool produces has to be taken on faith. An optional LLM pass can repair
messy results, but the heuristic output always survives its failures.

Dates the tool cannot resolve stay attached to their items as raw text
for manual entry; syllascan never invents a due date.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Syllascan.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("syllascan v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.syllascan/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".syllascan"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match SYLLASCAN_*
	viper.SetEnvPrefix("SYLLASCAN")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the runtime configuration: defaults, then config
// file and SYLLASCAN_* environment values, with flag handling left to
// the individual commands.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid configuration ignored: %v\n", err)
		cfg = model.DefaultConfig()
	}
	cfg.Output.Verbose = verbose

	if cfg.Cache.Enabled && cfg.Cache.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Cache.Dir = filepath.Join(home, ".syllascan", "cache")
		} else {
			cfg.Cache.Enabled = false
		}
	}

	return cfg
}
