package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hhkbp2/zipf"
)

func addPropertyFlags(flags *pflag.FlagSet) {
	flags.StringSliceP("property-file", "P", nil, "YAML property file, may be repeated")
	flags.StringArrayP("property", "p", nil, "single property as name=value, may be repeated")
	flags.String("db", "", "database binding: "+fmt.Sprint(zipf.DatabaseNames()))
}

// buildProperties merges the property files, then the single properties,
// then the dedicated flags.
func buildProperties(v *viper.Viper, cmd *cobra.Command) (zipf.Properties, error) {
	props := zipf.NewProperties()
	for _, path := range v.GetStringSlice("property-file") {
		p, err := zipf.LoadProperties(path)
		if err != nil {
			return nil, err
		}
		props.Merge(p)
	}
	args, err := cmd.Flags().GetStringArray("property")
	if err != nil {
		return nil, err
	}
	for _, arg := range args {
		key, value, err := zipf.ParsePropertyArg(arg)
		if err != nil {
			return nil, err
		}
		props.Add(key, value)
	}
	if db := v.GetString("db"); len(db) > 0 {
		props.Add(zipf.PropertyDB, db)
	}
	if props.Has(zipf.PropertyLogLevel) {
		level, err := zipf.ParseLogLevel(props.Get(zipf.PropertyLogLevel))
		if err != nil {
			return nil, err
		}
		zipf.SetLogLevel(level)
	}
	return props, nil
}

func newWorkloadCommand(v *viper.Viper, name, short string, doTransactions bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := buildProperties(v, cmd)
			if err != nil {
				return err
			}
			if threads := v.GetInt64("threads"); threads > 0 {
				props.Add(zipf.PropertyThreadCount, fmt.Sprint(threads))
			}
			if target := v.GetFloat64("target"); target > 0 {
				props.Add(zipf.PropertyTarget, fmt.Sprint(target))
			}
			if !v.GetBool("status") {
				props.Add(zipf.PropertyStatusInterval, "0")
			}
			client, err := zipf.NewClient(props)
			if err != nil {
				return err
			}
			client.SetOutput(cmd.OutOrStdout())
			if doTransactions {
				err = client.Run(cmd.Context())
			} else {
				err = client.Load(cmd.Context())
			}
			return errors.Wrapf(err, "%s failed", name)
		},
	}
	flags := cmd.Flags()
	addPropertyFlags(flags)
	flags.Int64("threads", 0, "number of client routines")
	flags.Float64("target", 0, "target operations per second")
	flags.BoolP("status", "s", false, "log a status line every status.interval seconds")
	return cmd
}
