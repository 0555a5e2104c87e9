package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vicinity-labs/vicinity/internal/contract"
	"github.com/vicinity-labs/vicinity/internal/ui"
	"github.com/vicinity-labs/vicinity/internal/vicinity"
)

var reclaimTo string

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Manage time-locked balances (owner or MINTER)",
	Long: `Locked tokens count towards an account's balance but cannot be
transferred or burned until the lock expires.`,
}

var lockUpdateCmd = &cobra.Command{
	Use:   "update <account> <days>",
	Short: "Move a lock expiry by days; negative days bring it forward",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		days, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
			account, err := s.address(ctx, args[0])
			if err != nil {
				return err
			}
			what := fmt.Sprintf("move lock of %s by %s days", ui.TruncateAddr(account.Hex()), days)
			if _, err := s.send(ctx, what, func(ctx context.Context) (*contract.Receipt, error) {
				return s.vic.UpdateLockingTime(ctx, account, days, opts...)
			}); err != nil {
				return err
			}
			expiry, err := s.vic.LockExpiry(ctx, account)
			if err != nil {
				return err
			}
			msg := "lock expires " + expiry.Format("2006-01-02 15:04:05 MST")
			if !expiry.After(time.Now()) {
				s.println(ui.Warn(msg + " (already expired)"))
				return nil
			}
			s.println(ui.Info(msg))
			return nil
		})
	},
}

var lockTransferCmd = &cobra.Command{
	Use:   "transfer <to> <amount> <days>",
	Short: "Send tokens that stay locked at the recipient for days",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		days, err := parseAmount(args[2])
		if err != nil {
			return err
		}
		return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
			to, err := s.address(ctx, args[0])
			if err != nil {
				return err
			}
			_, err = s.send(ctx, fmt.Sprintf("transfer %s locked for %s days", amount, days), func(ctx context.Context) (*contract.Receipt, error) {
				return s.vic.TransferLockedTokens(ctx, to, amount, days, opts...)
			})
			return err
		})
	},
}

var lockReclaimCmd = &cobra.Command{
	Use:   "reclaim <from> <amount>",
	Short: "Take back locked tokens from an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
			from, err := s.address(ctx, args[0])
			if err != nil {
				return err
			}
			to, err := s.addressOrSender(ctx, reclaimTo)
			if err != nil {
				return err
			}
			_, err = s.send(ctx, fmt.Sprintf("reclaim %s locked tokens", amount), func(ctx context.Context) (*contract.Receipt, error) {
				return s.vic.GetBackLockedTokens(ctx, from, to, amount, opts...)
			})
			return err
		})
	},
}

func init() {
	lockReclaimCmd.Flags().StringVar(&reclaimTo, "to", "", "where reclaimed tokens go (default: the sender)")

	lockUpdateCmd.Flags().SetInterspersed(false)
	lockCmd.AddCommand(lockUpdateCmd, lockTransferCmd, lockReclaimCmd)
}
