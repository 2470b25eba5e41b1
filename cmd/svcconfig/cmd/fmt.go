package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	svcconfig "github.com/reoring/svcconfig"
	jsonsrc "github.com/reoring/svcconfig/source/json"
	xmlsrc "github.com/reoring/svcconfig/source/xml"
	yamlsrc "github.com/reoring/svcconfig/source/yaml"
)

func writeNode(w io.Writer, format string, n *svcconfig.Node, indent int) error {
	switch format {
	case "yaml":
		return yamlsrc.Write(w, n, indent)
	case "json":
		return jsonsrc.Write(w, n, indent)
	case "xml":
		return xmlsrc.Write(w, n, indent)
	}
	return fmt.Errorf("unknown format %q", format)
}

func newFmtCmd() *cobra.Command {
	var (
		preserve bool
		indent   int
		to       string
	)
	c := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Rewrite the service model section in canonical form",
		Long: `fmt loads FILE and writes its <system.serviceModel> section to stdout.
Without --preserve every attribute is written with its effective value;
with --preserve only what the document set is kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadFile(cmd.Context(), args[0])
			if err != nil {
				if printIssues(cmd.ErrOrStderr(), args[0], err) {
					return errIssues
				}
				return err
			}
			n, err := m.Encode(cmd.Context(), preserve)
			if err != nil {
				return err
			}
			format := to
			if format == "" {
				format = formatOf(args[0])
			}
			return writeNode(cmd.OutOrStdout(), format, n, indent)
		},
	}
	c.Flags().BoolVar(&preserve, "preserve", false, "keep only the attributes and elements the document set")
	c.Flags().IntVar(&indent, "indent", 2, "indent width")
	c.Flags().StringVar(&to, "to", "", "output format: xml, yaml or json (default is the input format)")
	return c
}
