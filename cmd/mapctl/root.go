package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/worldtools/mapkit/world"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "mapctl",
	Short: "Inspect and deduplicate the map items of a world save",
	Long: `mapctl reads the map item records of a world save, finds duplicates
that render the same area, merges their pixels conservatively, and
compacts the record id space while keeping every reference into those
records valid.

The world directory is taken from --world, the MAPCTL_WORLD environment
variable, or a mapctl.toml config file in the working directory or
$HOME/.config/mapctl, in that order.`,
	Version: "0.1.0",
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("world", "w", ".", "World directory holding level.dat")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")

	cobra.CheckErr(viper.BindPFlag("world", rootCmd.PersistentFlags().Lookup("world")))
	cobra.CheckErr(viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")))
}

// initConfig locates the optional config file and wires the environment.
func initConfig() {
	viper.SetConfigName("mapctl")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "mapctl"))
	}
	viper.SetEnvPrefix("MAPCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			printError("reading config file: %v\n", err)
		}
	}

	// Fold the resolved value back into the flag global; the flag wins
	// when set, the config file fills in when it is not.
	verbose = viper.GetBool("verbose")
}

func execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the diagnostics logger handed to the store and the
// dedup engine. It writes to stderr so stdout stays parseable.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore opens the configured world directory.
func openStore() (*world.Store, error) {
	dir := viper.GetString("world")
	s, err := world.Open(dir, world.Options{Logger: newLogger()})
	if err != nil {
		return nil, fmt.Errorf("open world %s: %w", dir, err)
	}
	return s, nil
}

// parseIDs converts command arguments to map ids.
func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("invalid map id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
