package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hhkbp2/zipf"
	g "github.com/hhkbp2/zipf/generator"
)

func newHistogramCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "histogram",
		Short: "Draw samples and print how often each value came up",
		Long: `Draw samples from one of the Zipf generators and print one
"value count" line for every value from 1 to the number of elements.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistogram(v, cmd)
		},
	}
	flags := cmd.Flags()
	flags.StringP("generator", "g", "", "generator: "+strings.Join(g.Names(), " or "))
	flags.Int64P("elements", "e", 0, "number of elements")
	flags.Float64P("skew", "s", 0, "skew exponent")
	flags.Int64P("samples", "n", 0, "number of samples")
	flags.Uint64("seed", 0, "seed of the random source (default system entropy)")
	return cmd
}

func runHistogram(v *viper.Viper, cmd *cobra.Command) error {
	name := v.GetString("generator")
	numElements := v.GetInt64("elements")
	skew := v.GetFloat64("skew")
	numSamples := v.GetInt64("samples")
	if len(name) == 0 || numElements <= 0 || !(skew > 0) || numSamples <= 0 {
		return errors.New("generator, elements, skew and samples must all be given")
	}
	var src g.Source
	if v.IsSet("seed") {
		src = g.NewUniformSourceWithSeed(v.GetUint64("seed"))
	}
	gen, err := g.New(name, numElements, skew, src)
	if err != nil {
		return err
	}
	counter, err := zipf.SampleFrequencies(gen, numElements, numSamples)
	if err != nil {
		return err
	}
	_, err = counter.WriteTo(cmd.OutOrStdout())
	return err
}
