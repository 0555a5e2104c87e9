package cmd

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/vicinity-labs/vicinity/internal/contract"
	"github.com/vicinity-labs/vicinity/internal/ui"
	"github.com/vicinity-labs/vicinity/internal/vicinity"
)

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Stop mints, burns, airdrops and lock changes (owner)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
			_, err := s.send(ctx, "pause", func(ctx context.Context) (*contract.Receipt, error) {
				return s.vic.Pause(ctx, opts...)
			})
			return err
		})
	},
}

var unpauseCmd = &cobra.Command{
	Use:   "unpause",
	Short: "Resume a paused contract (owner)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
			_, err := s.send(ctx, "unpause", func(ctx context.Context) (*contract.Receipt, error) {
				return s.vic.Unpause(ctx, opts...)
			})
			return err
		})
	},
}

var blacklistCmd = &cobra.Command{
	Use:   "blacklist",
	Short: "Block accounts from moving tokens (owner)",
}

// accountOp is a client call that acts on a single account.
type accountOp func(*vicinity.Client, context.Context, common.Address, ...vicinity.CallOption) (*contract.Receipt, error)

func blacklistOp(use, short, verb string, op accountOp) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <account>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
				account, err := s.address(ctx, args[0])
				if err != nil {
					return err
				}
				_, err = s.send(ctx, verb+" "+ui.TruncateAddr(account.Hex()), func(ctx context.Context) (*contract.Receipt, error) {
					return op(s.vic, ctx, account, opts...)
				})
				return err
			})
		},
	}
}

func init() {
	blacklistCmd.AddCommand(
		blacklistOp("add", "Blacklist an account", "blacklist", (*vicinity.Client).AddBlackList),
		blacklistOp("remove", "Lift a blacklisting", "unblacklist", (*vicinity.Client).RemoveBlackList),
		blacklistOp("destroy", "Burn every token a blacklisted account holds", "destroy funds of", (*vicinity.Client).DestroyBlackFunds),
	)
}
