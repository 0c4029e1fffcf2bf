package commands

import (
	"fmt"

	"github.com/LavaJover/shvark-wallet-service/internal/app/setup"
	"github.com/spf13/cobra"
)

func poolInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pool-init",
		Short: "Seed the liquidity pool from pool.reserve",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := setup.InitializeDependencies(cfg)
			if err != nil {
				return err
			}
			defer deps.Close()

			ucs, err := setup.InitializeUseCases(deps)
			if err != nil {
				return err
			}
			pool, err := ucs.PoolUsecase.InitPool(cmd.Context())
			if err != nil {
				return err
			}
			for _, b := range pool.Balances {
				fmt.Printf("%s %s\n", b.Currency, b.Amount.StringFixed(2))
			}
			return nil
		},
	}
}
