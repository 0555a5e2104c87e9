package cmd

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/vicinity-labs/vicinity/internal/contract"
	"github.com/vicinity-labs/vicinity/internal/ui"
	"github.com/vicinity-labs/vicinity/internal/vicinity"
)

var withdrawTo string

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Send the contract's native balance out (owner)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
			to, err := s.addressOrSender(ctx, withdrawTo)
			if err != nil {
				return err
			}
			_, err = s.send(ctx, "withdraw to "+ui.TruncateAddr(to.Hex()), func(ctx context.Context) (*contract.Receipt, error) {
				return s.vic.Withdraw(ctx, to, opts...)
			})
			return err
		})
	},
}

var withdrawTokensCmd = &cobra.Command{
	Use:   "tokens <token> <amount>",
	Short: "Send ERC20 tokens held by the contract out (owner)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !common.IsHexAddress(args[0]) {
			return fmt.Errorf("invalid token address %q", args[0])
		}
		token := common.HexToAddress(args[0])
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
			to, err := s.addressOrSender(ctx, withdrawTo)
			if err != nil {
				return err
			}
			_, err = s.send(ctx, fmt.Sprintf("withdraw %s of %s", amount, ui.TruncateAddr(token.Hex())), func(ctx context.Context) (*contract.Receipt, error) {
				return s.vic.WithdrawTokens(ctx, amount, token, to, opts...)
			})
			return err
		})
	},
}

var receiveCmd = &cobra.Command{
	Use:   "receive <wei>",
	Short: "Send native currency to the contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
			_, err := s.send(ctx, "send "+value.String()+" wei to the contract", func(ctx context.Context) (*contract.Receipt, error) {
				return s.vic.Receive(ctx, value, opts...)
			})
			return err
		})
	},
}

func init() {
	withdrawCmd.PersistentFlags().StringVar(&withdrawTo, "to", "", "recipient (default: the sender)")
	withdrawCmd.AddCommand(withdrawTokensCmd)
}
