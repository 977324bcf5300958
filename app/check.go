package app

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/clinic-crm/clinic-crm/internal/db"
	"github.com/clinic-crm/clinic-crm/internal/db/models"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the database connection and print record counts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		store, err := db.Open(&cfg)
		if err != nil {
			_, _ = fmt.Fprintf(out, "database: FAILED (%v)\n", err)

			return err
		}

		defer func() { _ = store.Close() }()

		return check(cmd.Context(), out, store)
	},
}

// check prints the redacted connection parameters and the record count of
// every table owned by the service.
func check(ctx context.Context, out io.Writer, store *db.Store) error {
	if ctx == nil {
		ctx = context.Background()
	}

	params := store.Describe()

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		_, _ = fmt.Fprintf(out, "%-10s %v\n", k+":", params[k])
	}

	start := time.Now()

	if err := store.Ping(ctx); err != nil {
		_, _ = fmt.Fprintf(out, "database: FAILED (%v)\n", err)

		return err
	}

	_, _ = fmt.Fprintf(out, "database: OK (ping %s)\n", time.Since(start).Round(time.Millisecond))

	tables := []struct {
		name  string
		model any
	}{
		{models.Certificate{}.TableName(), &models.Certificate{}},
		{models.AppSetting{}.TableName(), &models.AppSetting{}},
	}

	for _, table := range tables {
		tx, cancel := store.WithTimeout(ctx)

		var count int64
		err := tx.Model(table.model).Count(&count).Error

		cancel()

		if err != nil {
			_, _ = fmt.Fprintf(out, "%s: FAILED (%v)\n", table.name, err)

			return err
		}

		_, _ = fmt.Fprintf(out, "%s: %d rows\n", table.name, count)
	}

	return nil
}
