// trilhactl is the operator CLI: recompute a hiker's progress, rebuild the
// ranking, or print the badge catalog.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"trilha-do-cristo/config"
	"trilha-do-cristo/models"
	"trilha-do-cristo/services"
	"trilha-do-cristo/utils"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "trilhactl",
		Short:         "Operator tools for the Trilha do Cristo service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newRecomputeCmd(), newRankingCmd(), newCatalogCmd())
	return root
}

func openDB() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return utils.OpenDatabase(cfg.DatabaseURL)
}

func newRecomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute <user-id>",
		Short: "Reconcile and recompute a user's badges and challenges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			svc := services.NewGamificationService(services.NewGormHikeStore(db), services.NewGormGamificationStore(db))
			state, err := svc.Refresh(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), state)
		},
	}
}

func newRankingCmd() *cobra.Command {
	ranking := &cobra.Command{
		Use:   "ranking",
		Short: "Ranking maintenance",
	}
	ranking.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Rebuild the ranking table from all hikes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			stats, err := services.NewRankingService(db).Refresh(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "participants=%d best=%s average=%s\n",
				stats.TotalParticipants, stats.BestTime, stats.AverageTime)
			return nil
		},
	})
	return ranking
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the canonical badge and challenge catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), models.NewGamificationState(""))
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
