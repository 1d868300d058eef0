package cmd

import (
	"caextractor/config"
	"caextractor/downloader"
	"caextractor/downloader/core"
	"caextractor/logging"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

// options holds the flags of one invocation
type options struct {
	configFile       string
	targetFolder     string
	timeout          time.Duration
	inputFile        string
	keystorePath     string
	keystorePassword string
	manifest         bool
	jsonOutput       bool
	jsonLogs         bool
	logLevel         string

	cfg *config.Config
}

var rootCmd = NewRootCmd()

// NewRootCmd builds the caextractor command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "caextractor <service> <country> [--target_folder <path>]",
		Short: "Extract qualified CA certificates from an EU trusted list",
		Long: `caextractor downloads the national Trusted List of a country from the
EU trusted list browser and writes the certificate of every granted CA/QC
service tagged for the requested usage to {country}_{index}.pem.

Services:
	QWAC     qualified website authentication certificates
	QSealC   qualified electronic seal certificates`,
		Example: `  # Website authentication CAs of Belgium into the current directory
  caextractor QWAC BE

  # Seal CAs of Austria into ./certs, also collected in a JKS truststore
  caextractor QSealC AT --target_folder certs --keystore eu-qseal.jks`,
		Args:          validateArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			opts.cfg, err = config.LoadConfig(opts.configFile)
			if err != nil {
				return core.UsageError("failed to load configuration: %w", err)
			}

			level := opts.cfg.General.LogLevel
			if opts.logLevel != "" {
				level = opts.logLevel
			}
			if err := logging.InitLogger(opts.cfg.General.LogPath, level, opts.jsonOutput || opts.jsonLogs); err != nil {
				return core.UsageError("failed to initialize logger: %w", err)
			}

			logging.SetOutput(cmd.OutOrStdout())
			if opts.jsonOutput {
				logging.SetOutput(io.Discard)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	// Allow flags to be placed after arguments
	cmd.Flags().SetInterspersed(true)

	cmd.Flags().StringVar(&opts.targetFolder, "target_folder", "", "Folder receiving the PEM files (default: config target_folder or .)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "HTTP timeout (default: config timeout or 30s)")
	cmd.Flags().StringVarP(&opts.inputFile, "input", "i", "", "Read the trusted list from a local .xml or .xml.xz file instead of downloading it")
	cmd.Flags().StringVar(&opts.keystorePath, "keystore", "", "Also add the certificates to this JKS truststore")
	cmd.Flags().StringVar(&opts.keystorePassword, "keystore-password", "", "Truststore password (default: config password or changeit)")
	cmd.Flags().BoolVar(&opts.manifest, "manifest", false, "Write {country}_manifest.json next to the PEM files")

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to configuration file (default: CAEXTRACTOR_CONFIG_PATH or ./caextractor.toml)")
	cmd.PersistentFlags().BoolVarP(&opts.jsonOutput, "json", "j", false, "Output a JSON summary")
	cmd.PersistentFlags().BoolVar(&opts.jsonLogs, "json-logs", false, "Output logs in JSON format")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	return cmd
}

// validateArgs accepts at most <service> <country>; fewer is handled by run
func validateArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 2 {
		return core.UsageError("too many arguments: %v\n\nUsage:\n  %s", args[2:], cmd.UseLine())
	}
	return nil
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	if len(args) < 2 {
		fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
		return nil
	}

	extractOpts, err := opts.extractOptions(args[0], args[1])
	if err != nil {
		return err
	}

	manager, err := downloader.NewManager(extractOpts.Timeout, opts.cfg.Source.UserAgent)
	if err != nil {
		return err
	}

	report, err := manager.Extract(extractOpts)

	if opts.jsonOutput {
		out := CommandOutput{Report: report}
		if err != nil {
			out.Error = err.Error()
		}
		if jsonErr := OutputJSON(cmd.OutOrStdout(), out); jsonErr != nil && err == nil {
			return jsonErr
		}
	}
	return err
}

// extractOptions merges flags over the configuration file
func (o *options) extractOptions(service, country string) (core.ExtractOptions, error) {
	cfg := o.cfg
	if cfg == nil {
		cfg = config.Default()
	}

	timeout := o.timeout
	if timeout <= 0 {
		var err error
		timeout, err = cfg.TimeoutDuration()
		if err != nil {
			return core.ExtractOptions{}, core.UsageError("%w", err)
		}
	}

	target := cfg.General.TargetFolder
	if o.targetFolder != "" {
		target = o.targetFolder
	}

	keystorePath := cfg.Keystore.Path
	if o.keystorePath != "" {
		keystorePath = o.keystorePath
	}
	keystorePassword := cfg.Keystore.Password
	if o.keystorePassword != "" {
		keystorePassword = o.keystorePassword
	}

	return core.ExtractOptions{
		Service:          service,
		Country:          country,
		TargetFolder:     target,
		DownloadURL:      cfg.Source.DownloadURL,
		UserAgent:        cfg.Source.UserAgent,
		Timeout:          timeout,
		InputFile:        o.inputFile,
		KeystorePath:     keystorePath,
		KeystorePassword: keystorePassword,
		WriteManifest:    o.manifest,
	}, nil
}

// Execute runs the root command
func Execute() {
	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		ExitWithError(err)
	}
}
