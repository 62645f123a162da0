package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/habedi/mscli/pkg/clierr"
	"github.com/habedi/mscli/pkg/pool"
	"github.com/habedi/mscli/pkg/validation"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// deleteWorkers bounds concurrent deletes issued by one command.
const deleteWorkers = 4

// newTable returns a left-aligned table without wrapping or row lines.
func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetRowLine(false)
	return table
}

// parseID reads a positive numeric ID from a positional argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, clierr.New(clierr.Validation, fmt.Sprintf("ID must be a number, got %q", arg), errRequiredArg)
	}
	if err := validation.ValidateID(id); err != nil {
		return 0, clierr.New(clierr.Validation, err.Error(), err)
	}
	return id, nil
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// printMetrics renders every gathered sample as one table row.
func printMetrics(w io.Writer, reg prometheus.Gatherer) {
	families, err := reg.Gather()
	if err != nil {
		fmt.Fprintln(w, "Failed to gather metrics:", err)
		return
	}
	table := newTable(w, "Metric", "Labels", "Value")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			sort.Strings(labels)

			var value string
			switch {
			case m.GetCounter() != nil:
				value = strconv.FormatFloat(m.GetCounter().GetValue(), 'f', -1, 64)
			case m.GetGauge() != nil:
				value = strconv.FormatFloat(m.GetGauge().GetValue(), 'f', -1, 64)
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				value = fmt.Sprintf("count=%d sum=%.3fs", h.GetSampleCount(), h.GetSampleSum())
			default:
				continue
			}
			table.Append([]string{mf.GetName(), strings.Join(labels, ","), value})
		}
	}
	table.Render()
}

// deleteAll parses every ID first, then deletes them concurrently. Failures
// are reported per ID and joined into the returned error.
func deleteAll(cmd *cobra.Command, args []string, kind string, del func(context.Context, int64) error) error {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	var mu sync.Mutex
	errs := pool.Run(cmd.Context(), ids, deleteWorkers, func(ctx context.Context, id int64) error {
		err := del(ctx, id)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			log.Error().Err(err).Int64("id", id).Str("kind", kind).Msg("Delete failed")
			cmd.PrintErrf("Failed to delete %s %d: %v\n", kind, id, err)
			return err
		}
		cmd.Printf("Deleted %s %d.\n", kind, id)
		return nil
	})
	return errors.Join(errs...)
}
