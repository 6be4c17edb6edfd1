package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	g "github.com/hhkbp2/zipf/generator"
)

func newHarmonicCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harmonic",
		Short: "Print the generalized harmonic number H_{n,m}",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := v.GetInt64("terms")
			m := v.GetFloat64("exponent")
			if n <= 0 {
				return errors.Errorf("n must be positive: %d", n)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "H_{%d,%v} = %v\n", n, m, g.Zeta(n, m))
			return err
		},
	}
	cmd.Flags().Int64P("terms", "n", 0, "number of terms")
	cmd.Flags().Float64P("exponent", "m", 1, "exponent")
	return cmd
}
