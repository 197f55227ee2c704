package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	api "github.com/esgdesk/extraction-review/api/v1alpha1"
	"github.com/esgdesk/extraction-review/internal/handlers/v1alpha1/mappers"
	"github.com/esgdesk/extraction-review/internal/review"
	"github.com/esgdesk/extraction-review/internal/service"
	"github.com/esgdesk/extraction-review/internal/validation"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
	"sigs.k8s.io/yaml"
)

const (
	jsonFormat = "json"
	yamlFormat = "yaml"
)

var legalOutputTypes = []string{jsonFormat, yamlFormat}

type QueueOptions struct {
	Output      string
	OrgID       string
	TargetTable string
	Limit       int
}

func newQueueCmd() *cobra.Command {
	o := &QueueOptions{}
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Print the pending review queue split into its two lanes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run(cmd.Context(), cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *QueueOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.StringVar(&o.OrgID, "org-id", o.OrgID, "Only list previews of this organization.")
	fs.StringVar(&o.TargetTable, "target-table", o.TargetTable, "Only list previews for this target table.")
	fs.IntVar(&o.Limit, "limit", o.Limit, "Maximum number of previews to fetch.")
}

func (o *QueueOptions) Validate() error {
	if len(o.Output) > 0 && !funk.Contains(legalOutputTypes, o.Output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}
	if o.TargetTable != "" && !validation.IsKnownTable(o.TargetTable) {
		return fmt.Errorf("unknown target table %q, expected one of %s", o.TargetTable, strings.Join(validation.Tables(), ", "))
	}
	if o.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	return nil
}

func (o *QueueOptions) Run(ctx context.Context, out io.Writer) error {
	cfg, teardown, err := setup()
	if err != nil {
		return err
	}
	defer teardown()

	s, _, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	filter := service.NewPreviewFilter(
		service.WithOrgID(o.OrgID),
		service.WithTargetTable(o.TargetTable),
		service.WithLimit(o.Limit),
	)
	queue, err := service.NewReviewService(s).GetQueue(ctx, filter)
	if err != nil {
		return err
	}

	return o.print(out, mappers.QueueToApi(queue, review.ViewRaw, review.Expansion{}))
}

func (o *QueueOptions) print(out io.Writer, queue api.Queue) error {
	switch o.Output {
	case jsonFormat:
		marshalled, err := json.MarshalIndent(queue, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling queue: %w", err)
		}
		_, err = fmt.Fprintln(out, string(marshalled))
		return err
	case yamlFormat:
		marshalled, err := yaml.Marshal(queue)
		if err != nil {
			return fmt.Errorf("marshalling queue: %w", err)
		}
		_, err = fmt.Fprint(out, string(marshalled))
		return err
	}

	w := tabwriter.NewWriter(out, 0, 8, 1, '\t', 0)
	fmt.Fprintln(w, "LANE\tID\tTARGET TABLE\tAVERAGE\tBAND\tERRORS\tCREATED")
	printLane(w, "high", queue.HighConfidence)
	printLane(w, "individual", queue.Individual)
	return w.Flush()
}

func printLane(w io.Writer, lane string, items []api.QueueItem) {
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%d\t%s\n",
			lane,
			item.Preview.Id,
			item.Preview.TargetTable,
			item.AverageConfidence,
			item.Band,
			len(item.ValidationErrors),
			item.Preview.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
}
