package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hhkbp2/zipf"
)

func newShellCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Issue single operations against a database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := buildProperties(v, cmd)
			if err != nil {
				return err
			}
			db, err := zipf.NewDB(props.GetDefault(zipf.PropertyDB, zipf.PropertyDBDefault), props)
			if err != nil {
				return err
			}
			if err = db.Init(); err != nil {
				return err
			}
			defer db.Cleanup()
			return zipf.NewShell(db, cmd.InOrStdin(), cmd.OutOrStdout()).Run()
		},
	}
	addPropertyFlags(cmd.Flags())
	return cmd
}
