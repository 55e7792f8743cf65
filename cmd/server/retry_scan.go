package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"searchbridge/internal/searchapi/models"
	"searchbridge/internal/searchapi/scheduler"
)

type scanOutput struct {
	Ready  []models.SearchAPIRequest `json:"ready"`
	Retry  []models.SearchAPIRequest `json:"retry"`
	Result *scheduler.ScanResult     `json:"result,omitempty"`
}

func newRetryScanCmd() *cobra.Command {
	var dispatch bool
	cmd := &cobra.Command{
		Use:   "retry-scan",
		Short: "Run one ready/retry scan and print the selected requests as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRetryScan(cmd.Context(), cmd.OutOrStdout(), dispatch)
		},
	}
	cmd.Flags().BoolVar(&dispatch, "dispatch", false, "also publish the selected requests to Kafka")
	return cmd
}

func runRetryScan(ctx context.Context, out io.Writer, dispatch bool) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	var output scanOutput
	if output.Ready, err = a.searchAPI.GetAllReadyForSearch(ctx); err != nil {
		return err
	}
	if output.Retry, err = a.searchAPI.GetAllValidFailed(ctx); err != nil {
		return err
	}

	if dispatch {
		if a.producer == nil {
			return fmt.Errorf("--dispatch requires SEARCHBRIDGE_KAFKA_BROKERS")
		}
		sched, err := scheduler.New(a.searchAPI, a.producer, scheduler.DefaultTopics(cfg.Kafka.TopicPrefix),
			scheduler.WithLogger(log),
			scheduler.WithMetrics(a.apiMetrics),
		)
		if err != nil {
			return err
		}
		result, err := sched.Scan(ctx)
		if err != nil {
			return err
		}
		output.Result = &result
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
