package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"
)

// Version is the scicalc release.
const Version = "0.1.0"

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// RootOptions holds global flags for all commands and, once the root's
// pre-run has finished, the merged configuration.
type RootOptions struct {
	ConfigPath string
	Format     string
	Precision  uint
	Rounding   string
	Digits     int
	Timeout    time.Duration
	Verbose    bool

	cfg Config
}

// NewRootCommand creates the root command for the scicalc CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	def := DefaultConfig()

	cmd := &cobra.Command{
		Use:     "scicalc",
		Short:   "Arbitrary-precision integration, differentiation and summation",
		Long:    "Integrate, differentiate and sum catalogued real functions at any binary precision.",
		Version: Version,
		// Commands report their own errors through the output formatter.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (.yaml, .yml or .toml)")
	flags.StringVar(&opts.Format, "format", def.Format, "output format (json|text)")
	flags.UintVar(&opts.Precision, "prec", def.Precision, "precision in bits")
	flags.StringVar(&opts.Rounding, "rounding", def.Rounding, "rounding mode (nearest|up|down|zero)")
	flags.IntVar(&opts.Digits, "digits", 0, "significant digits to print (0: all)")
	flags.DurationVar(&opts.Timeout, "timeout", 0, "give up on a calculation after this long (0: never)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log calls to stderr at debug level")

	cmd.AddCommand(NewQuadCommand(opts))
	cmd.AddCommand(NewDiffCommand(opts))
	cmd.AddCommand(NewSumCommand(opts))
	cmd.AddCommand(NewFunctionsCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// load reads the config file, if any, and lets explicitly set flags
// override it.
func (o *RootOptions) load(cmd *cobra.Command) error {
	out := &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
	if !slices.Contains(ValidFormats, o.Format) {
		out.Format = "text"
		return out.Fail(ExitCommandError, ErrCodeInvalidArgument,
			fmt.Errorf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	cfg := DefaultConfig()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = LoadConfig(o.ConfigPath); err != nil {
			return out.Fail(ExitCommandError, ErrCodeConfig, err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = o.Format
	}
	if flags.Changed("prec") {
		cfg.Precision = o.Precision
	}
	if flags.Changed("rounding") {
		cfg.Rounding = o.Rounding
	}
	if flags.Changed("digits") {
		cfg.Digits = o.Digits
	}
	if flags.Changed("timeout") {
		cfg.Timeout = o.Timeout
	}
	if o.Verbose {
		cfg.Observe.Logging = LoggingConfig{Enabled: true, Level: "debug"}
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}

	out.Format = cfg.Format
	if err := cfg.Validate(); err != nil {
		return out.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	o.cfg = cfg
	return nil
}
