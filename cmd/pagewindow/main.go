// Command pagewindow prints the page strip the storefront renders under a
// paginated list.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/pagination"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		current int
		total   int
		window  int
		request int
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "pagewindow",
		Short: "Print the pagination strip for a page position",
		Long: `Prints the page numbers shown around the current page, with far-away
pages collapsed into an ellipsis. The current page is bracketed.`,
		Example: `  # Page 6 of 20
  pagewindow --current 6 --total 20

  # Would a click on page 9 navigate anywhere?
  pagewindow --current 6 --total 20 --go 9

  # Control state as JSON
  pagewindow --current 1 --total 3 --json`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if total < 1 {
				return fmt.Errorf("--total must be at least 1, got %d", total)
			}
			if window < 1 {
				return fmt.Errorf("--window must be at least 1, got %d", window)
			}
			ctl := pagination.NewControl(pagination.ClampPage(current, total), total, window)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(ctl)
			}

			fmt.Fprintln(out, renderStrip(ctl))
			if cmd.Flags().Changed("go") {
				if page, ok := ctl.Go(request); ok {
					fmt.Fprintf(out, "go %d: navigate to page %d\n", request, page)
				} else {
					fmt.Fprintf(out, "go %d: ignored\n", request)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&current, "current", 1, "current page, clamped to [1, total]")
	cmd.Flags().IntVar(&total, "total", 1, "total number of pages")
	cmd.Flags().IntVar(&window, "window", pagination.DefaultWindowSize, "contiguous pages shown around the current page")
	cmd.Flags().IntVar(&request, "go", 0, "page a click requests")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the control state as JSON")

	return cmd
}

// renderStrip lays the control out on one line, e.g. "‹ 1 … 5 [6] 7 … 20 ›".
// Disabled arrows are dropped.
func renderStrip(ctl pagination.Control) string {
	parts := make([]string, 0, len(ctl.Markers)+2)
	if ctl.HasPrev {
		parts = append(parts, "‹")
	}
	for _, m := range ctl.Markers {
		if !m.IsEllipsis() && m.Page == ctl.Current {
			parts = append(parts, "["+m.String()+"]")
			continue
		}
		parts = append(parts, m.String())
	}
	if ctl.HasNext {
		parts = append(parts, "›")
	}
	return strings.Join(parts, " ")
}
