package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/reoring/svcconfig/servicemodel/configuration"
)

func newExtensionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extensions [FILE]",
		Short: "List extension element names and their types",
		Long: `extensions lists the built-in binding, binding element and behavior
names. With FILE the names its <extensions> section adds are listed too.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := configuration.DefaultRegistry()
			if len(args) == 1 {
				m, err := loadFile(cmd.Context(), args[0])
				if err != nil {
					if printIssues(cmd.ErrOrStderr(), args[0], err) {
						return errIssues
					}
					return err
				}
				reg = m.Registry
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tNAME\tTYPE")
			for _, kind := range []configuration.Kind{configuration.KindBinding, configuration.KindBindingElement, configuration.KindBehavior} {
				for _, name := range reg.Names(kind) {
					t, _ := reg.Lookup(kind, name)
					fmt.Fprintf(tw, "%s\t%s\t%s\n", kind, name, t.TypeName)
				}
			}
			return tw.Flush()
		},
	}
}
