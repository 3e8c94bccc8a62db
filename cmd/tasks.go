package cmd

import (
	"fmt"
	"os"
	"time"

	productcontroller "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/product"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/database"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(*cobra.Command, []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("failed to migrate schema: %w", err)
			}
			log.Info("Database migrations completed successfully")
			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	var opts database.SeedOptions
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert reference data and optionally a bootstrap admin",
		RunE: func(*cobra.Command, []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("failed to migrate schema: %w", err)
			}
			return database.Seed(db, log, opts)
		},
	}
	cmd.Flags().StringVar(&opts.AdminEmail, "admin-email", os.Getenv("ADMIN_EMAIL"), "bootstrap admin email")
	cmd.Flags().StringVar(&opts.AdminPassword, "admin-password", os.Getenv("ADMIN_PASSWORD"), "bootstrap admin password")
	return cmd
}

// settlementPeriod parses inclusive YYYY-MM-DD bounds into a half-open range.
func settlementPeriod(fromRaw, toRaw string) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
	}
	to, err := time.Parse(dateLayout, toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to is before --from")
	}
	return from, to.AddDate(0, 0, 1), nil
}

func newSettleCommand() *cobra.Command {
	var fromRaw, toRaw string
	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Generate seller settlements for delivered items in a period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, to, err := settlementPeriod(fromRaw, toRaw)
			if err != nil {
				return err
			}
			cfg, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)

			created, err := services.GenerateSettlements(cmd.Context(), db, from, to, cfg.Commerce.PlatformFeePercent)
			if err != nil {
				return fmt.Errorf("failed to generate settlements: %w", err)
			}
			for _, s := range created {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tgross=%s\tfee=%s\tnet=%s\n",
					s.SellerID, s.GrossAmount.StringFixed(2), s.FeeAmount.StringFixed(2), s.NetAmount.StringFixed(2))
			}
			log.Info("settlements generated", "from", fromRaw, "to", toRaw, "count", len(created))
			return nil
		},
	}
	cmd.Flags().StringVar(&fromRaw, "from", "", "first day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toRaw, "to", "", "last day of the period (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newExportProductsCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-products",
		Short: "Write the product catalog to an .xlsx file",
		RunE: func(*cobra.Command, []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := productcontroller.WriteProductsWorkbook(db, f); err != nil {
				return fmt.Errorf("failed to export products: %w", err)
			}
			log.Info("products exported", "file", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "products.xlsx", "destination file")
	return cmd
}
