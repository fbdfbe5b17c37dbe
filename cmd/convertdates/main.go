package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coffersTech/nanolog/convertdates/internal/config"
	"github.com/coffersTech/nanolog/convertdates/internal/engine"
	"github.com/coffersTech/nanolog/convertdates/internal/pkg/security"
	"github.com/coffersTech/nanolog/convertdates/internal/storage"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "convertdates [input.jsonl]",
	Short: "Rewrite epoch-second log timestamps as ISO-8601 datetimes",
	Long: `convertdates reads a line-delimited JSON log file, replaces the epoch-seconds
field (time_str) of every record with an ISO-8601 UTC timestamp (datetime)
and writes the records, in order, one per line.

The input may be plain, gzip or zstd compressed. Records go to stdout unless
--out is given; --out must not name the input file. The first malformed line
stops the run; records written before it are kept.

A time_str that is not a usable epoch value stops the run by default
(--on-invalid fail) so no record is written with a date that cannot be
parsed back. Use --on-invalid invalid to write "Invalid Date" instead, or
--on-invalid null to write null.`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			cfg.InputPath = args[0]
		}
		if cfg.Quiet {
			log.SetOutput(io.Discard)
		}
		return convert(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:                   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short:                 "Generate shell completion scripts",
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of convertdates",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

// convert runs one conversion described by c. Records go to the configured
// output file, or to stdout when none is set.
func convert(ctx context.Context, c config.Config, stdout io.Writer) error {
	opts, err := c.Validate()
	if err != nil {
		return err
	}
	codec, _ := storage.ParseCodec(c.Compress)

	if err := storage.CheckDistinct(c.InputPath, c.OutputPath); err != nil {
		return err
	}

	in, err := storage.OpenInput(c.InputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := openOutput(c.OutputPath, codec, stdout)
	if err != nil {
		return err
	}

	var (
		w      io.Writer = out
		digest *security.Digest
	)
	if c.Digest {
		digest = security.NewDigest()
		w = io.MultiWriter(out, digest)
	}

	log.Printf("Converting %s (%s -> %s, invalid timestamps: %s)", c.InputPath, opts.SourceKey, opts.TargetKey, opts.OnInvalid)

	t := engine.NewTransformer(opts)
	stats, err := t.Run(ctx, in, w)
	if cerr := out.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		log.Printf("Stopped after %d records", stats.RecordsWritten)
		return err
	}

	log.Printf("Done: %s", stats)
	if stats.Earliest != "" {
		log.Printf("Records span %s .. %s (%d days with data)", stats.Earliest, stats.Latest, len(stats.Daily))
	}
	if digest != nil {
		log.Printf("Output BLAKE2b-256: %s (%d bytes)", digest.Sum(), digest.Size())
	}
	if c.StatsPath != "" {
		if err := engine.SaveStats(c.StatsPath, stats); err != nil {
			return fmt.Errorf("saving stats: %w", err)
		}
		log.Printf("Stats written to %s", c.StatsPath)
	}
	return nil
}

func openOutput(path string, codec storage.Codec, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == storage.StdioPath {
		if codec == storage.CodecAuto {
			codec = storage.CodecNone
		}
		return storage.Compress(stdout, codec, func() error { return nil })
	}
	return storage.CreateOutput(path, codec)
}

func initCmd() {
	cfg = config.Load()

	f := rootCmd.Flags()
	f.StringVarP(&cfg.InputPath, "in", "i", cfg.InputPath, "Path to the NDJSON log file (- for stdin)")
	f.StringVarP(&cfg.OutputPath, "out", "o", cfg.OutputPath, "Write records to this file instead of stdout")
	f.StringVar(&cfg.SourceKey, "from", cfg.SourceKey, "Field holding the epoch seconds; removed from each record")
	f.StringVar(&cfg.TargetKey, "to", cfg.TargetKey, "Field receiving the ISO-8601 timestamp")
	f.StringVar(&cfg.OnInvalid, "on-invalid", cfg.OnInvalid, "Unusable timestamps: fail, invalid (write \"Invalid Date\") or null")
	f.StringVar(&cfg.Compress, "compress", cfg.Compress, "Output compression: auto (by extension), none, gzip or zstd")
	f.StringVar(&cfg.StatsPath, "stats", cfg.StatsPath, "Write run statistics as JSON to this file")
	f.BoolVar(&cfg.Digest, "digest", false, "Log a BLAKE2b-256 checksum of the emitted records")
	f.BoolVarP(&cfg.Quiet, "quiet", "q", false, "Suppress progress diagnostics")

	rootCmd.AddCommand(completionCmd, versionCmd)
}

func main() {
	log.SetPrefix("convertdates: ")
	initCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "convertdates:", err)
		os.Exit(1)
	}
}
