package cmd

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/svcconfig/servicemodel/channels"
	"github.com/reoring/svcconfig/servicemodel/description"
)

type bindingView struct {
	Name      string   `json:"name"`
	Namespace string   `json:"namespace"`
	Scheme    string   `json:"scheme"`
	Stack     []string `json:"stack"`
	Timeouts  struct {
		Open    string `json:"open"`
		Close   string `json:"close"`
		Send    string `json:"send"`
		Receive string `json:"receive"`
	} `json:"timeouts"`
}

type endpointView struct {
	Name             string                `json:"name"`
	Address          string                `json:"address,omitempty"`
	ListenURI        string                `json:"listenUri,omitempty"`
	Contract         string                `json:"contract"`
	Identity         *description.Identity `json:"identity,omitempty"`
	IsSystemEndpoint bool                  `json:"isSystemEndpoint,omitempty"`
	Binding          *bindingView          `json:"binding,omitempty"`
	Behaviors        []string              `json:"behaviors,omitempty"`
}

type serviceView struct {
	Name          string         `json:"name"`
	BaseAddresses []string       `json:"baseAddresses,omitempty"`
	OpenTimeout   string         `json:"openTimeout"`
	CloseTimeout  string         `json:"closeTimeout"`
	Behaviors     []string       `json:"behaviors"`
	Endpoints     []endpointView `json:"endpoints"`
}

func typeNames[T any](b description.Behaviors[T]) []string {
	var out []string
	for _, it := range b.Items() {
		t := reflect.TypeOf(it)
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		out = append(out, t.Name())
	}
	return out
}

func viewBinding(b channels.Binding) *bindingView {
	if b == nil {
		return nil
	}
	v := &bindingView{Name: b.Name(), Namespace: b.Namespace(), Scheme: b.Scheme()}
	for _, e := range b.CreateBindingElements() {
		v.Stack = append(v.Stack, reflect.TypeOf(e).Elem().Name())
	}
	t := b.Timeouts()
	v.Timeouts.Open, v.Timeouts.Close = t.Open.String(), t.Close.String()
	v.Timeouts.Send, v.Timeouts.Receive = t.Send.String(), t.Receive.String()
	return v
}

func viewEndpoint(ep *description.ServiceEndpoint) endpointView {
	v := endpointView{
		Name:             ep.Name,
		Address:          ep.Address.String(),
		IsSystemEndpoint: ep.IsSystemEndpoint,
		Binding:          viewBinding(ep.Binding),
		Behaviors:        typeNames(ep.Behaviors),
	}
	if ep.Address != nil {
		v.Identity = ep.Address.Identity
	}
	if ep.ListenURI != nil {
		v.ListenURI = ep.ListenURI.String()
	}
	if ep.Contract != nil {
		v.Contract = ep.Contract.ConfigurationName
	}
	return v
}

func viewService(d *description.ServiceDescription) serviceView {
	v := serviceView{
		Name:         d.ConfigurationName,
		OpenTimeout:  d.OpenTimeout.String(),
		CloseTimeout: d.CloseTimeout.String(),
		Behaviors:    typeNames(d.Behaviors),
		Endpoints:    []endpointView{},
	}
	for _, u := range d.BaseAddresses {
		v.BaseAddresses = append(v.BaseAddresses, u.String())
	}
	for _, ep := range d.Endpoints {
		v.Endpoints = append(v.Endpoints, viewEndpoint(ep))
	}
	return v
}

// contractOf turns "Ns.IName" into a contract whose Name is the last
// dotted segment.
func contractOf(configurationName string) description.ContractDescription {
	name := configurationName
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return description.ContractDescription{Name: name, Namespace: channels.DefaultNamespace, ConfigurationName: configurationName}
}

func newDescribeCmd() *cobra.Command {
	var (
		service   string
		client    string
		contracts []string
		validate  bool
	)
	c := &cobra.Command{
		Use:   "describe FILE",
		Short: "Resolve a service or client endpoint and print it as JSON",
		Long: `describe resolves --service NAME into its description (base addresses,
behaviors and endpoints with their bindings) or --client NAME into a client
endpoint, and prints the result as JSON. --contract names the contracts
the service implements, by configuration name.`,
		Example: `  svcconfig describe web.config --service Orders.OrderService --contract Orders.IOrderService
  svcconfig describe app.config --client primary --contract Orders.IOrderService`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (service == "") == (client == "") {
				return fmt.Errorf("exactly one of --service and --client is required")
			}
			start := time.Now()
			m, err := loadFile(cmd.Context(), args[0])
			if err != nil {
				if printIssues(cmd.ErrOrStderr(), args[0], err) {
					return errIssues
				}
				return err
			}
			cds := make([]description.ContractDescription, len(contracts))
			for i, c := range contracts {
				cds[i] = contractOf(c)
			}

			var out any
			if service != "" {
				d, err := m.LoadServiceDescription(service, cds...)
				if err != nil {
					return err
				}
				if validate {
					if err := d.Validate(); err != nil {
						return err
					}
				}
				out = viewService(d)
			} else {
				if len(cds) != 1 {
					return fmt.Errorf("--client needs exactly one --contract")
				}
				ep, err := m.LookupChannel(client, cds[0])
				if err != nil {
					return err
				}
				out = viewEndpoint(ep)
			}
			logger(cmd).Debug().Dur("elapsed", time.Since(start)).Msg("resolved")

			b, err := gojson.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
	c.Flags().StringVar(&service, "service", "", "service configuration name")
	c.Flags().StringVar(&client, "client", "", "client endpoint name, or * for the only endpoint of the contract")
	c.Flags().StringSliceVar(&contracts, "contract", nil, "contract configuration name (repeatable)")
	c.Flags().BoolVar(&validate, "validate", true, "run the service and endpoint behavior checks")
	return c
}
