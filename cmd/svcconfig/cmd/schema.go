package cmd

import (
	"fmt"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	js "github.com/reoring/svcconfig/jsonschema"
	"github.com/reoring/svcconfig/servicemodel/configuration"
)

func newSchemaCmd() *cobra.Command {
	var kind string
	c := &cobra.Command{
		Use:   "schema [ELEMENT]",
		Short: "Print the JSON Schema of the section or of one extension element",
		Long: `schema prints the JSON Schema of <system.serviceModel>, the shape the
yaml and json inputs follow. With ELEMENT, such as netTcpBinding or
serviceDebug, only that extension element is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := configuration.DefaultRegistry()
			var (
				s   *js.Schema
				err error
			)
			if len(args) == 0 {
				s, err = configuration.SectionSchema(reg).JSONSchema()
			} else {
				s, err = elementSchema(reg, kind, args[0])
			}
			if err != nil {
				return err
			}
			b, err := gojson.MarshalIndent(s, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
	c.Flags().StringVar(&kind, "kind", "", "restrict ELEMENT to binding, bindingElement or behavior")
	return c
}

func elementSchema(reg *configuration.Registry, kind, name string) (*js.Schema, error) {
	kinds := map[string]configuration.Kind{
		"binding":        configuration.KindBinding,
		"bindingElement": configuration.KindBindingElement,
		"behavior":       configuration.KindBehavior,
	}
	order := []string{"binding", "bindingElement", "behavior"}
	if kind != "" {
		if _, ok := kinds[kind]; !ok {
			return nil, fmt.Errorf("unknown kind %q", kind)
		}
		order = []string{kind}
	}
	for _, k := range order {
		if el, ok := reg.Element(kinds[k], name); ok {
			return el.Adapter().JSONSchema()
		}
	}
	return nil, fmt.Errorf("%w: extension element %q", configuration.ErrNotFound, name)
}
