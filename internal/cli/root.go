package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/WhileEndless/go-httpresult/pkg/http2"
	"github.com/WhileEndless/go-httpresult/pkg/response"
	"github.com/WhileEndless/go-httpresult/pkg/version"
)

// Version information (set by build flags)
var (
	commit = "none"
	date   = "unknown"
)

// inputFlags are shared by every command that builds a Record
type inputFlags struct {
	headersFile string
	bodyFile    string
	url         string
	status      int
	redirects   int
	streamed    bool
	hpack       bool

	charset          string
	contentDecoding  bool
	transferDecoding bool

	verbose int
	noColor bool
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var in inputFlags

	rootCmd := &cobra.Command{
		Use:   "httpresult",
		Short: "Inspect completed HTTP responses",
		Long: `httpresult - Inspect completed HTTP responses

Reads a captured header buffer (every exchange of a transfer, including
redirect hops and proxy CONNECT replies) and an optional body file, then
reports the final response and decodes its body by the declared charset.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	in.bind(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newParseCmd(&in), newDecodeCmd(&in), newGrepCmd(&in), newVersionCmd())
	return rootCmd
}

func (in *inputFlags) bind(flags *pflag.FlagSet) {
	flags.StringVarP(&in.headersFile, "headers", "H", "", "File holding the raw header buffer (- for stdin)")
	flags.StringVarP(&in.bodyFile, "body", "b", "", "File holding the raw body")
	flags.StringVarP(&in.url, "url", "u", "", "Final request URL")
	flags.IntVar(&in.status, "status", 0, "Numeric status (0 = take it from the final status line)")
	flags.IntVar(&in.redirects, "redirects", 0, "Number of redirects followed")
	flags.BoolVar(&in.streamed, "streamed", false, "Treat the body as streamed to a file (absent)")
	flags.BoolVar(&in.hpack, "hpack", false, "Headers file is a single HPACK-encoded HTTP/2 header block")
	flags.StringVarP(&in.charset, "charset", "c", "", "Default charset when Content-Type declares none")
	flags.BoolVar(&in.contentDecoding, "content-decoding", false, "Remove gzip/deflate/br/zstd Content-Encoding before decoding")
	flags.BoolVar(&in.transferDecoding, "transfer-decoding", false, "Remove chunked Transfer-Encoding before decoding")
	flags.IntVarP(&in.verbose, "verbose", "v", 0, "Verbosity level (0-2)")
	flags.BoolVar(&in.noColor, "no-color", false, "Disable coloured output")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "httpresult %s (commit: %s, built: %s)\n", version.BuildInfo(), commit, date)
		},
	}
}

// loadRecord reads the input files and assembles a Record
func loadRecord(cmd *cobra.Command, in *inputFlags, opts ...response.Option) (*response.Record, func(), error) {
	if in.headersFile == "" {
		return nil, nil, errors.New("header buffer is required (use --headers or -H)")
	}

	raw, err := readInput(cmd, in.headersFile)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading headers")
	}
	if in.hpack {
		if raw, err = http2.AppendHeaderBlock(nil, raw); err != nil {
			return nil, nil, err
		}
	}

	var body []byte
	if in.bodyFile != "" && !in.streamed {
		if body, err = readInput(cmd, in.bodyFile); err != nil {
			return nil, nil, errors.Wrap(err, "reading body")
		}
	}

	log, flush, err := newLogger(in.verbose)
	if err != nil {
		return nil, nil, errors.Wrap(err, "building logger")
	}

	opts = append([]response.Option{
		response.WithLogger(log),
		response.WithDefaultCharset(in.charset),
		response.WithContentDecoding(in.contentDecoding),
		response.WithTransferDecoding(in.transferDecoding),
	}, opts...)

	rec, err := response.New(response.Input{
		URL:           in.url,
		Status:        in.status,
		RedirectCount: in.redirects,
		RawHeaders:    raw,
		Body:          body,
		Streamed:      in.streamed,
	}, opts...)
	if err != nil {
		flush()
		return nil, nil, err
	}
	return rec, flush, nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
