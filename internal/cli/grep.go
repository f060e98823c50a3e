package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WhileEndless/go-httpresult/pkg/search"
)

func newGrepCmd(in *inputFlags) *cobra.Command {
	var (
		opts        search.Options
		headersOnly bool
		bodyOnly    bool
	)

	cmd := &cobra.Command{
		Use:   "grep PATTERN",
		Short: "Search the final headers and decoded body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Pattern = args[0]
			switch {
			case headersOnly && !bodyOnly:
				opts.Location = search.InHeaders
			case bodyOnly && !headersOnly:
				opts.Location = search.InBody
			}

			s, err := search.NewSearcher(opts)
			if err != nil {
				return err
			}

			rec, flush, err := loadRecord(cmd, in)
			if err != nil {
				return err
			}
			defer flush()

			out := cmd.OutOrStdout()
			st := newStyler(out, in.noColor)
			res := s.Record(rec)
			if !res.BodyDecoded {
				fmt.Fprintln(out, st.Warn("body not decodable, searched raw bytes"))
			}
			for _, r := range res.Results {
				if r.Location == search.InHeaders {
					fmt.Fprintf(out, "%s %s: %s\n", st.Info("header"), st.Noun(r.Header.Name), r.Header.Value)
					continue
				}
				fmt.Fprintf(out, "%s %d: %s\n", st.Info("body"), r.Line, r.Context)
			}
			if !res.HasMatches() {
				return fmt.Errorf("no matches for %q", opts.Pattern)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.UseRegex, "regex", "E", false, "Treat PATTERN as a regular expression")
	cmd.Flags().BoolVarP(&opts.CaseInsensitive, "ignore-case", "i", false, "Ignore case when matching")
	cmd.Flags().BoolVar(&opts.HeaderNames, "names", false, "Also match header names")
	cmd.Flags().IntVarP(&opts.MaxResults, "max", "m", 0, "Stop after this many matches (0 = unlimited)")
	cmd.Flags().BoolVar(&headersOnly, "headers-only", false, "Search headers only")
	cmd.Flags().BoolVar(&bodyOnly, "body-only", false, "Search the body only")
	return cmd
}
