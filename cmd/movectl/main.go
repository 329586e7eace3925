// movectl resets package addresses in the protocol's Move.toml manifests
// before a release and regenerates the contracts list in the README after
// one.
//
// Usage:
//
//	movectl reset-addresses
//	movectl publish-contracts --readme README.md
//	movectl contracts --format json
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Origin-Byte/nft-protocol/internal/config"
	"github.com/Origin-Byte/nft-protocol/internal/logging"
	"github.com/Origin-Byte/nft-protocol/internal/manifest"
	"github.com/Origin-Byte/nft-protocol/internal/metrics"
	"github.com/Origin-Byte/nft-protocol/internal/pipeline"
	"github.com/Origin-Byte/nft-protocol/pkg/explorer"
)

// version is overridden via -ldflags "-X main.version=...".
var version = "dev"

// app is the state the subcommands share once the root command has loaded
// the configuration.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Recorder
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{metrics: metrics.New()}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	stop()

	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "movectl",
		Short: "Release tooling for the protocol's Move packages",
		Long: `movectl edits the Move.toml manifests of the protocol packages in bulk.

reset-addresses comments out each package's published address and puts the
"0x" placeholder in its place, ready for the next publish. publish-contracts
reads the published-at IDs back out of the manifests and rewrites the
"## Contracts" section of the README with explorer links.

Manifest paths come from the config file (manifests:, globs allowed) or from
the command line, relative to --root.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(v)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./movectl.yaml or ./configs/movectl.yaml)")
	pf.String("root", ".", "directory that manifest and README paths are relative to")
	pf.Bool("strict", false, "stop on manifest or README drift instead of skipping the file")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "console", "log format: console or json")
	pf.String("metrics-file", "", "write Prometheus metrics to this textfile when done")
	bindFlags(v, pf, map[string]string{
		"root":         config.KeyRoot,
		"strict":       config.KeyStrict,
		"log-level":    config.KeyLogLevel,
		"log-format":   config.KeyLogFormat,
		"metrics-file": config.KeyMetricsFile,
	})

	root.AddCommand(newResetCmd(a, v))
	root.AddCommand(newPublishCmd(a, v))
	root.AddCommand(newContractsCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		_ = v.BindPFlag(key, fs.Lookup(name))
	}
}

func (a *app) load(v *viper.Viper) error {
	cfg, err := config.Load(v, a.cfgFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.cfg, a.logger = cfg, logger

	if cfg.File != "" {
		logger.Debug("config loaded", zap.String("file", cfg.File))
	}
	return nil
}

// close flushes the logger and writes the metrics textfile.
func (a *app) close() {
	if a.logger == nil {
		return
	}
	if a.cfg != nil && a.cfg.MetricsFile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
			a.logger.Error("write metrics", zap.String("path", a.cfg.MetricsFile), zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// manifests resolves the manifest list: args when given, the configured
// list otherwise.
func (a *app) manifests(args []string) ([]string, error) {
	entries := a.cfg.Manifests
	if len(args) > 0 {
		entries = args
	}
	return config.ExpandManifests(a.cfg.Root, entries)
}

func (a *app) options(cmd *cobra.Command, dryRun bool) pipeline.Options {
	return pipeline.Options{
		Logger:  a.logger,
		Metrics: a.metrics,
		Strict:  a.cfg.Strict,
		DryRun:  dryRun,
		DiffOut: cmd.OutOrStdout(),
	}
}

// ── reset-addresses ──────────────────────────────────────────────────────────

func newResetCmd(a *app, v *viper.Viper) *cobra.Command {
	var (
		dryRun bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "reset-addresses [manifest...]",
		Short: "Comment out each package address and insert the 0x placeholder",
		Long: `reset-addresses rewrites the first entry of the [addresses] table of each
manifest:

  [addresses]
  #nft_protocol = "0xbc3d..."
  nft_protocol = "0x"

Every other line is left as it is. A manifest whose first entry already holds
the placeholder is skipped; --force resets it again, which comments out the
placeholder line and adds a new one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := a.manifests(args)
			if err != nil {
				return err
			}
			r := pipeline.NewResetter(manifest.ResetOptions{
				Table:       a.cfg.Reset.Table,
				Placeholder: a.cfg.Reset.Placeholder,
			}, force, a.options(cmd, dryRun))

			report, err := r.Run(cmd.Context(), paths)
			if report != nil {
				printReport(cmd.OutOrStdout(), report)
			}
			if err != nil {
				return fmt.Errorf("reset addresses: %w", err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&dryRun, "dry-run", false, "print a diff instead of writing the manifests")
	f.BoolVar(&force, "force", false, "reset manifests that already hold the placeholder")
	f.String("placeholder", manifest.DefaultPlaceholder, "value written in place of the address")
	f.String("table", manifest.DefaultAddressTable, "table whose first entry is reset")
	bindFlags(v, f, map[string]string{
		"placeholder": config.KeyResetPlaceholder,
		"table":       config.KeyResetTable,
	})
	return cmd
}

// ── publish-contracts ────────────────────────────────────────────────────────

func newPublishCmd(a *app, v *viper.Viper) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "publish-contracts [manifest...]",
		Short: "Regenerate the contracts section of the README from the manifests",
		Long: `publish-contracts reads name and published-at from the [package] table of
each manifest, in order, and replaces the body of the "## Contracts" section
of the README with a list of explorer links:

  ## Contracts

  Protocol contracts:
  - [NftProtocol](https://explorer.sui.io/object/0xbc3d...)

The section ends at the next "##" heading. The rest of the README is kept
byte for byte.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := a.manifests(args)
			if err != nil {
				return err
			}
			tpl, err := explorer.Parse(a.cfg.Publish.ExplorerURL)
			if err != nil {
				return err
			}
			p := pipeline.NewPublisher(pipeline.PublishOptions{
				Heading:  a.cfg.Publish.Heading,
				Label:    a.cfg.Publish.Label,
				Explorer: tpl,
			}, a.options(cmd, dryRun))

			readmePath := config.Resolve(a.cfg.Root, a.cfg.Publish.Readme)
			report, err := p.Run(cmd.Context(), paths, readmePath)
			if report != nil {
				printReport(cmd.OutOrStdout(), &report.Report)
			}
			if err != nil {
				return fmt.Errorf("publish contracts: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d contract(s) listed in %s\n", len(report.Contracts), readmePath)
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&dryRun, "dry-run", false, "print a diff instead of writing the README")
	f.String("readme", "README.md", "Markdown file holding the contracts section")
	f.String("explorer-url", explorer.DefaultTemplate, "explorer link template; {id} is replaced by the object ID")
	bindFlags(v, f, map[string]string{
		"readme":       config.KeyPublishReadme,
		"explorer-url": config.KeyPublishExplorer,
	})
	return cmd
}

// ── contracts ────────────────────────────────────────────────────────────────

func newContractsCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "contracts [manifest...]",
		Short: "List the published packages found in the manifests",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := a.manifests(args)
			if err != nil {
				return err
			}
			tpl, err := explorer.Parse(a.cfg.Publish.ExplorerURL)
			if err != nil {
				return err
			}
			p := pipeline.NewPublisher(pipeline.PublishOptions{Explorer: tpl}, a.options(cmd, false))

			contracts, err := p.Collect(cmd.Context(), paths)
			if err != nil {
				return fmt.Errorf("list contracts: %w", err)
			}

			switch format {
			case "json":
				return printContractsJSON(cmd.OutOrStdout(), contracts, tpl)
			case "text":
				return printContractsText(cmd.OutOrStdout(), contracts, tpl)
			default:
				return fmt.Errorf("unknown format %q: expected text or json", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	return cmd
}

func printContractsJSON(w io.Writer, contracts []manifest.Contract, tpl explorer.Template) error {
	type jsonRow struct {
		Package     string `json:"package"`
		PublishedAt string `json:"published_at"`
		URL         string `json:"url"`
	}
	rows := make([]jsonRow, len(contracts))
	for i, c := range contracts {
		rows[i] = jsonRow{Package: c.Package, PublishedAt: c.PublishedAt, URL: tpl.ObjectURL(c.PublishedAt)}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func printContractsText(w io.Writer, contracts []manifest.Contract, tpl explorer.Template) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PACKAGE\tPUBLISHED AT\tEXPLORER")
	for _, c := range contracts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Package, c.PublishedAt, tpl.ObjectURL(c.PublishedAt))
	}
	return tw.Flush()
}

// printReport writes one row per processed file.
func printReport(w io.Writer, report *pipeline.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tOUTCOME\tCHANGED\tNOTE")
	for _, f := range report.Files {
		note := ""
		if f.Err != nil {
			note = f.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", f.Path, f.Outcome, f.Changed, note)
	}
	_ = tw.Flush()
}

// ── version ──────────────────────────────────────────────────────────────────

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the movectl version",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "movectl %s\n", version)
		},
	}
}
