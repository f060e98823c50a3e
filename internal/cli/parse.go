package cli

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/WhileEndless/go-httpresult/pkg/response"
)

func newParseCmd(in *inputFlags) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Summarise the final response of a captured transfer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, flush, err := loadRecord(cmd, in)
			if err != nil {
				return err
			}
			defer flush()

			out := cmd.OutOrStdout()
			if dump {
				spew.Fdump(out, rec.Exchanges(), rec.Headers().ToMap(), rec.Cookies())
				return nil
			}
			printSummary(out, newStyler(out, in.noColor), rec)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "Dump exchanges, headers and cookies as Go values")
	return cmd
}

func printSummary(w io.Writer, s styler, rec *response.Record) {
	fmt.Fprintf(w, "%s %s %s\n", s.Info(rec.Version()), s.Status(rec.Status()), s.Bright(rec.Reason()))
	fmt.Fprintf(w, "url: %s\n", s.Noun(rec.URL()))
	fmt.Fprintf(w, "exchanges: %d, redirects: %d\n", len(rec.Exchanges()), rec.RedirectCount())

	for i, ex := range rec.Exchanges()[:max(len(rec.Exchanges())-1, 0)] {
		fmt.Fprintf(w, "  #%d %s\n", i+1, s.Info(ex.StatusLine))
	}

	fmt.Fprintln(w, "headers:")
	for _, h := range rec.Headers().All() {
		fmt.Fprintf(w, "  %s: %s\n", s.Noun(h.Name), h.Value)
	}

	for _, c := range rec.Cookies() {
		fmt.Fprintf(w, "cookie: %s=%s\n", s.Noun(c.Name), c.Value)
	}

	fmt.Fprintf(w, "charset: %s (%s)\n", s.Info(rec.Charset()), rec.CharsetSource())

	switch {
	case rec.Streamed():
		fmt.Fprintln(w, "body: streamed")
	case rec.BodyDecodable():
		fmt.Fprintf(w, "body: %d bytes, %s\n", len(rec.Body()), s.Ok("decodable"))
	default:
		_, err := rec.DecodedBody()
		fmt.Fprintf(w, "body: %d bytes, %s: %v\n", len(rec.Body()), s.Fail("not decodable"), err)
	}
}
