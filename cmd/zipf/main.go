package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hhkbp2/zipf"
	"github.com/hhkbp2/zipf/binding"
)

func main() {
	binding.AddBindings()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// newRootCommand builds the command tree. Every flag can also be set in
// the --config file or as a ZIPF_<FLAG> environment variable.
func newRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("zipf")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "zipf",
		Short: "Zipf distributed sampling and skewed key access benchmarks",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cmd)
		},
	}
	root.PersistentFlags().String("config", "", "YAML file with flag values")
	root.PersistentFlags().String("log-level", "info", "verbose, debug, info, warn, error or quiet")

	root.AddCommand(
		newHistogramCommand(v),
		newHarmonicCommand(v),
		newWorkloadCommand(v, "load", "Insert the initial records", false),
		newWorkloadCommand(v, "run", "Run the read/update transactions", true),
		newShellCommand(v),
	)
	return root
}

func initConfig(v *viper.Viper, cmd *cobra.Command) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if path := v.GetString("config"); len(path) > 0 {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "fail to read config %s", path)
		}
	}
	level, err := zipf.ParseLogLevel(v.GetString("log-level"))
	if err != nil {
		return err
	}
	zipf.SetLogLevel(level)
	return nil
}
