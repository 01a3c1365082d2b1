package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/attendance-portal/internal/application"
)

// operatorPrincipal is the identity CLI reads run under.
var operatorPrincipal = application.Principal{UserID: "cli-operator", IsAdmin: true}

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history <employee-id>",
		Short: "Print an employee's attendance history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logger, err := loadRuntime(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			store, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore(ctx, store, logger)

			svc := newServices(cfg, store, time.Now, logger)
			history, err := svc.history.History(ctx, operatorPrincipal, args[0])
			if err != nil {
				return err
			}
			return writeHistory(cmd.OutOrStdout(), opts.Format, history, cfg.Location)
		},
	}
}

type historyOutput struct {
	EmployeeID  string                 `json:"employee_id"`
	DisplayName string                 `json:"display_name,omitempty"`
	Sessions    []historySessionOutput `json:"sessions"`
	Summary     historySummaryOutput   `json:"summary"`
}

type historySessionOutput struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out,omitempty"`
	Status          string `json:"status"`
	DurationMinutes *int   `json:"duration_minutes,omitempty"`
}

type historySummaryOutput struct {
	TotalSessions     int `json:"total_sessions"`
	CompletedSessions int `json:"completed_sessions"`
	TotalMinutes      int `json:"total_minutes"`
	AverageMinutes    int `json:"average_minutes"`
}

func writeHistory(w io.Writer, format string, history application.EmployeeHistory, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	out := historyOutput{
		EmployeeID: history.EmployeeID,
		Sessions:   make([]historySessionOutput, 0, len(history.Sessions)),
		Summary: historySummaryOutput{
			TotalSessions:     history.Summary.TotalSessions,
			CompletedSessions: history.Summary.CompletedSessions,
			TotalMinutes:      history.Summary.TotalMinutes,
			AverageMinutes:    history.Summary.AverageMinutes,
		},
	}
	if history.Employee != nil {
		out.DisplayName = history.Employee.DisplayName
	}
	for _, s := range history.Sessions {
		row := historySessionOutput{
			ID:              s.ID,
			Date:            s.Date,
			CheckIn:         s.CheckIn.In(loc).Format(time.RFC3339),
			Status:          string(s.Status),
			DurationMinutes: s.DurationMinutes,
		}
		if s.CheckOut != nil {
			row.CheckOut = s.CheckOut.In(loc).Format(time.RFC3339)
		}
		out.Sessions = append(out.Sessions, row)
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	name := out.EmployeeID
	if out.DisplayName != "" {
		name = fmt.Sprintf("%s (%s)", out.DisplayName, out.EmployeeID)
	}
	fmt.Fprintf(w, "History for %s\n", name)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCHECK IN\tCHECK OUT\tSTATUS\tDURATION")
	for _, s := range history.Sessions {
		checkOut, duration := "-", "-"
		if s.CheckOut != nil {
			checkOut = s.CheckOut.In(loc).Format("15:04")
		}
		if s.DurationMinutes != nil {
			duration = application.FormatMinutes(*s.DurationMinutes)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Date, s.CheckIn.In(loc).Format("15:04"), checkOut, s.Status, duration)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d sessions, %d completed, total %s, average %s\n",
		out.Summary.TotalSessions,
		out.Summary.CompletedSessions,
		application.FormatMinutes(out.Summary.TotalMinutes),
		application.FormatMinutes(out.Summary.AverageMinutes),
	)
	return err
}
