// Package cmd implements the svcconfig commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	svcconfig "github.com/reoring/svcconfig"
	"github.com/reoring/svcconfig/internal/logging"
	"github.com/reoring/svcconfig/servicemodel/configuration"
	_ "github.com/reoring/svcconfig/source"
)

const envPrefix = "SVCCONFIG"

// errIssues marks a run that printed issues; the command already reported
// them, so only the exit status remains.
var errIssues = errors.New("configuration has issues")

var configFile string

func newRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "svcconfig",
		Short: "Service model configuration tool",
		Long: `svcconfig reads <system.serviceModel> configuration from XML, YAML or
JSON documents, reports validation issues with their element paths and
resolves services, endpoints and bindings the way a service host would.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	f := root.PersistentFlags()
	f.StringVar(&configFile, "config", "", "config file (default is ./.svcconfig.yaml or $HOME/.svcconfig.yaml)")
	f.String("log-level", "warn", "log level: trace, debug, info, warn, error")
	f.String("log-format", "console", "log format: console or json")
	f.String("format", "", "input format: xml, yaml or json (default from the file extension)")
	f.Int("max-depth", 0, "maximum element depth (0 is unlimited)")
	f.Bool("strict", false, "reject unknown elements and attributes instead of ignoring them with a warning")
	for _, name := range []string{"log-level", "log-format", "format", "max-depth", "strict"} {
		if err := viper.BindPFlag(name, f.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind %s flag: %v", name, err))
		}
	}

	root.AddCommand(
		newValidateCmd(),
		newFmtCmd(),
		newDescribeCmd(),
		newSchemaCmd(),
		newExtensionsCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(version string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd(version)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errIssues) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		return 1
	}
	return 0
}

// initConfig reads the config file and SVCCONFIG_* variables. Without
// --config a missing default file is not an error.
func initConfig() error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".svcconfig")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// setup reads the configuration and attaches the logger to the command
// context.
func setup(cmd *cobra.Command, _ []string) error {
	if err := initConfig(); err != nil {
		return err
	}
	log := logging.New(viper.GetString("log-level"), viper.GetString("log-format"), cmd.ErrOrStderr())
	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug().Str("config", used).Msg("using config file")
	}
	cmd.SetContext(logging.WithLogger(cmd.Context(), &log))
	return nil
}

func parseOpt() svcconfig.ParseOpt {
	p := svcconfig.ParseOpt{MaxDepth: viper.GetInt("max-depth"), Unknown: svcconfig.UnknownStrip}
	if viper.GetBool("strict") {
		p.Unknown = svcconfig.UnknownStrict
	}
	return p
}

// formatOf picks the document driver from --format or the file extension.
func formatOf(path string) string {
	if f := viper.GetString("format"); f != "" {
		return strings.ToLower(f)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	}
	return "xml"
}

// readFile returns the driver for path and its content ("-" reads stdin).
func readFile(path string) (svcconfig.Driver, []byte, error) {
	d, err := svcconfig.DriverFor(formatOf(path))
	if err != nil {
		return nil, nil, err
	}
	var data []byte
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, nil, err
	}
	return d, data, nil
}

// loadFile loads the service model section of path. Unless --strict is set,
// unknown elements and attributes are logged as warnings and skipped.
func loadFile(ctx context.Context, path string) (*configuration.ServiceModel, error) {
	d, data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx)
	log.Debug().Str("file", path).Str("format", formatOf(path)).Msg("loading")

	load := func(opt svcconfig.ParseOpt) (*configuration.ServiceModel, error) {
		return configuration.Load(ctx, d.NewBytes(data), configuration.WithParseOpt(opt))
	}
	opt := parseOpt()
	strict := opt
	strict.Unknown = svcconfig.UnknownStrict
	m, err := load(strict)
	if opt.Unknown == svcconfig.UnknownStrict {
		return m, err
	}
	iss, ok := svcconfig.AsIssues(err)
	if !ok {
		return m, err
	}
	unknown := 0
	for _, it := range iss {
		if it.Code == svcconfig.CodeUnknownAttribute || it.Code == svcconfig.CodeUnknownElement {
			log.Warn().Str("file", path).Str("path", it.Path).Msg(it.Message + "; ignored")
			unknown++
		}
	}
	if unknown == 0 {
		return m, err
	}
	return load(opt)
}

// printIssues writes one line per issue and reports whether err held issues.
func printIssues(w io.Writer, file string, err error) bool {
	iss, ok := svcconfig.AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		fmt.Fprintf(w, "%s:%s: %s: %s\n", file, it.Path, it.Code, it.Message)
	}
	return true
}

func logger(cmd *cobra.Command) *zerolog.Logger { return logging.FromContext(cmd.Context()) }
