package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/raven-betanet/elf-header/internal/elfhdr"
	"github.com/raven-betanet/elf-header/internal/fileio"
	"github.com/raven-betanet/elf-header/internal/utils"
)

// exitFailure is returned for every failure class
const exitFailure = 98

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, fileio.OSOpener))
}

func run(args []string, stdout, stderr io.Writer, open fileio.Opener) int {
	// cobra falls back to os.Args when given nil
	if args == nil {
		args = []string{}
	}

	cmd := newRootCmd(open)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, diagnostic(err))
		return exitFailure
	}
	return 0
}

func newRootCmd(open fileio.Opener) *cobra.Command {
	var (
		configFile string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "elf-header <file>",
		Short: "Display the ELF header of a file",
		Long: `elf-header reads the identification bytes and file header of an ELF
binary and prints the magic, class, data encoding, version, OS/ABI,
ABI version, object type and entry point address.

Multi-byte fields are decoded with the byte order declared by the file
itself, so big endian binaries report the same values readelf does.

Exit codes:
  0  - Header displayed
  98 - The file could not be opened, read or closed, or is not ELF`,
		Example: `  elf-header /bin/ls
  elf-header --format json ./a.out`,
		Version:       utils.VersionString(),
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bootstrap := utils.NewLogger(utils.LoggerConfig{
				Level:  utils.LogLevelWarn,
				Format: utils.LogFormatText,
				Output: cmd.ErrOrStderr(),
			})

			config, err := utils.LoadConfig(configFile, cmd.Flags(), bootstrap)
			if err != nil {
				return err
			}

			loggerConfig := config.Log
			loggerConfig.Output = cmd.ErrOrStderr()
			if verbose {
				loggerConfig.Level = utils.LogLevelDebug
			}
			logger := utils.NewLogger(loggerConfig)

			return inspect(args[0], config, fileio.NewReader(open, logger), cmd.OutOrStdout(), logger)
		},
	}

	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	cmd.Flags().String("log-level", string(utils.LogLevelWarn), "Log level (debug, info, warn, error)")
	cmd.Flags().String("log-format", string(utils.LogFormatText), "Log format (text, json)")
	cmd.Flags().Bool("legacy-data-fallback", false, "Report an unknown data encoding with the class byte")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

// inspect decodes the header of path and writes the report to out while the
// file is held open
func inspect(path string, config *utils.Config, reader *fileio.Reader, out io.Writer, logger *utils.Logger) error {
	opts := elfhdr.ReportOptions{LegacyDataFallback: config.Compat.LegacyDataFallback}

	return reader.WithHeader(path, elfhdr.HeaderSize, func(buf []byte) error {
		hdr, err := elfhdr.Decode(buf)
		if errors.Is(err, elfhdr.ErrShortHeader) {
			return &fileio.ReadError{Path: path, Err: err}
		}
		if err != nil {
			return err
		}

		logger.WithComponent("elf-header").WithFields(map[string]interface{}{
			"class": hdr.Ident.Class(),
			"data":  hdr.Ident.Data(),
			"type":  hdr.Type,
		}).Debug("decoded header")

		if config.Output.Format == "json" {
			return elfhdr.WriteJSON(out, hdr, opts)
		}
		return elfhdr.WriteReport(out, hdr, opts)
	})
}

// diagnostic renders err as the single line written to stderr
func diagnostic(err error) string {
	var (
		openErr  *fileio.OpenError
		readErr  *fileio.ReadError
		closeErr *fileio.CloseError
	)

	switch {
	case errors.Is(err, elfhdr.ErrNotELF):
		return "Error: Not an ELF file"
	case errors.As(err, &openErr):
		return fmt.Sprintf("Error: Can't read file %s", openErr.Path)
	case errors.As(err, &readErr):
		return fmt.Sprintf("Error: `%s`: No such file", readErr.Path)
	case errors.As(err, &closeErr):
		return fmt.Sprintf("Error: Can't close fd %d", closeErr.Fd)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
