package cmd

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/vicinity-labs/vicinity/internal/contract"
	"github.com/vicinity-labs/vicinity/internal/vicinity"
)

var (
	deployName   string
	deploySymbol string
	deploySupply string
	mintTo       string
	transferFrom string
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a new Vicinity contract",
	Long: `Deploy a new Vicinity contract from the sender and record it in the
deployments registry. The sender becomes owner and ADMIN. A non-zero
--supply is minted to the sender after deployment.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		supply, err := parseAmount(deploySupply)
		if err != nil {
			return err
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		opts, err := s.opts(ctx)
		if err != nil {
			return err
		}
		if _, err := s.deploy(ctx, deployName, deploySymbol, supply, opts); err != nil {
			return err
		}
		if supply.Sign() == 0 {
			return nil
		}
		_, err = s.send(ctx, "mint initial supply", func(ctx context.Context) (*contract.Receipt, error) {
			return s.vic.Mint(ctx, supply, common.Address{}, opts...)
		})
		return err
	},
}

var mintCmd = &cobra.Command{
	Use:   "mint <amount>",
	Short: "Mint tokens (owner or MINTER)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
			var to common.Address
			if mintTo != "" {
				if to, err = s.address(ctx, mintTo); err != nil {
					return err
				}
			}
			_, err := s.send(ctx, "mint "+amount.String(), func(ctx context.Context) (*contract.Receipt, error) {
				return s.vic.Mint(ctx, amount, to, opts...)
			})
			return err
		})
	},
}

var burnCmd = &cobra.Command{
	Use:   "burn <amount>",
	Short: "Burn the sender's tokens (owner or MINTER)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
			_, err := s.send(ctx, "burn "+amount.String(), func(ctx context.Context) (*contract.Receipt, error) {
				return s.vic.Burn(ctx, amount, opts...)
			})
			return err
		})
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer <to> <amount>",
	Short: "Transfer tokens, or spend an allowance with --from",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
			to, err := s.address(ctx, args[0])
			if err != nil {
				return err
			}
			if transferFrom == "" {
				_, err = s.send(ctx, fmt.Sprintf("transfer %s", amount), func(ctx context.Context) (*contract.Receipt, error) {
					return s.vic.Transfer(ctx, to, amount, opts...)
				})
				return err
			}
			from, err := s.address(ctx, transferFrom)
			if err != nil {
				return err
			}
			_, err = s.send(ctx, fmt.Sprintf("transferFrom %s", amount), func(ctx context.Context) (*contract.Receipt, error) {
				return s.vic.TransferFrom(ctx, from, to, amount, opts...)
			})
			return err
		})
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <spender> <amount>",
	Short: "Set the allowance of spender over the sender's tokens",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
			spender, err := s.address(ctx, args[0])
			if err != nil {
				return err
			}
			_, err = s.send(ctx, "approve "+amount.String(), func(ctx context.Context) (*contract.Receipt, error) {
				return s.vic.Approve(ctx, spender, amount, opts...)
			})
			return err
		})
	},
}

var allowanceCmd = &cobra.Command{
	Use:   "allowance",
	Short: "Adjust allowances",
}

var allowanceChangeCmd = &cobra.Command{
	Use:   "change <spender> <delta>",
	Short: "Increase (positive delta) or decrease (negative delta) an allowance",
	Example: `  vicinity allowance change accounts[2] 500
  vicinity allowance change accounts[2] -200`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		delta, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
			spender, err := s.address(ctx, args[0])
			if err != nil {
				return err
			}
			_, err = s.send(ctx, "change allowance by "+delta.String(), func(ctx context.Context) (*contract.Receipt, error) {
				return s.vic.ChangeAllowance(ctx, spender, delta, opts...)
			})
			return err
		})
	},
}

func init() {
	deployCmd.Flags().StringVar(&deployName, "name", vicinity.CoinName, "token name")
	deployCmd.Flags().StringVar(&deploySymbol, "symbol", vicinity.CoinSymbol, "token symbol")
	deployCmd.Flags().StringVar(&deploySupply, "supply", vicinity.InitialSupply.String(), "initial supply minted to the sender")

	mintCmd.Flags().StringVar(&mintTo, "to", "", "recipient (default: the sender)")
	transferCmd.Flags().StringVar(&transferFrom, "from", "", "spend the allowance the sender holds over this account")

	// Negative deltas must not be read as flags.
	allowanceChangeCmd.Flags().SetInterspersed(false)
	allowanceCmd.AddCommand(allowanceChangeCmd)
}
