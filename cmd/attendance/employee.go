package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/attendance-portal/internal/persistence"
)

func newEmployeeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Maintain the employee directory",
	}
	cmd.AddCommand(newEmployeeUpsertCommand(opts))
	return cmd
}

type employeeFlags struct {
	ID         string
	Code       string
	Name       string
	Department string
}

func (f employeeFlags) validate() error {
	var missing []string
	if strings.TrimSpace(f.ID) == "" {
		missing = append(missing, "--id")
	}
	if strings.TrimSpace(f.Code) == "" {
		missing = append(missing, "--code")
	}
	if strings.TrimSpace(f.Name) == "" {
		missing = append(missing, "--name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}
	return nil
}

func newEmployeeUpsertCommand(opts *rootOptions) *cobra.Command {
	flags := employeeFlags{}

	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Create or update an employee directory entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
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

			now := time.Now().UTC()
			employee := persistence.Employee{
				ID:           strings.TrimSpace(flags.ID),
				EmployeeCode: strings.TrimSpace(flags.Code),
				DisplayName:  strings.TrimSpace(flags.Name),
				Department:   strings.TrimSpace(flags.Department),
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := store.UpsertEmployee(ctx, employee); err != nil {
				if errors.Is(err, persistence.ErrDuplicate) {
					return fmt.Errorf("employee code %q is already assigned to another employee", employee.EmployeeCode)
				}
				return err
			}
			logger.InfoContext(ctx, "employee upserted", "employee_id", employee.ID)

			if opts.Format == "json" {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{
					"id":            employee.ID,
					"employee_code": employee.EmployeeCode,
					"display_name":  employee.DisplayName,
					"department":    employee.Department,
				})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "employee %s (%s) saved\n", employee.ID, employee.EmployeeCode)
			return err
		},
	}

	cmd.Flags().StringVar(&flags.ID, "id", "", "user id matching the token subject")
	cmd.Flags().StringVar(&flags.Code, "code", "", "unique employee code")
	cmd.Flags().StringVar(&flags.Name, "name", "", "display name")
	cmd.Flags().StringVar(&flags.Department, "department", "", "department")
	return cmd
}
