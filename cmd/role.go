package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vicinity-labs/vicinity/internal/contract"
	"github.com/vicinity-labs/vicinity/internal/ui"
	"github.com/vicinity-labs/vicinity/internal/vicinity"
)

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Administer ADMIN, MINTER and AIRDROPPER",
	Long: `Roles are admin, minter and airdropper, or any 0x-prefixed bytes32
value. ADMIN administers every role; the owner's ADMIN cannot be revoked
or renounced.`,
}

var roleGrantCmd = &cobra.Command{
	Use:   "grant <role> <account>",
	Short: "Grant a role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := vicinity.ParseRole(args[0])
		if err != nil {
			return err
		}
		return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
			account, err := s.address(ctx, args[1])
			if err != nil {
				return err
			}
			_, err = s.send(ctx, fmt.Sprintf("grant %s to %s", role, ui.TruncateAddr(account.Hex())), func(ctx context.Context) (*contract.Receipt, error) {
				return s.vic.GrantRole(ctx, role, account, opts...)
			})
			return err
		})
	},
}

var roleRevokeCmd = &cobra.Command{
	Use:   "revoke <role> <account>",
	Short: "Revoke a role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := vicinity.ParseRole(args[0])
		if err != nil {
			return err
		}
		return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
			account, err := s.address(ctx, args[1])
			if err != nil {
				return err
			}
			_, err = s.send(ctx, fmt.Sprintf("revoke %s from %s", role, ui.TruncateAddr(account.Hex())), func(ctx context.Context) (*contract.Receipt, error) {
				return s.vic.RevokeRole(ctx, role, account, opts...)
			})
			return err
		})
	},
}

var roleRenounceCmd = &cobra.Command{
	Use:   "renounce <role>",
	Short: "Give up a role held by the sender",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := vicinity.ParseRole(args[0])
		if err != nil {
			return err
		}
		return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
			_, err := s.send(ctx, "renounce "+role.String(), func(ctx context.Context) (*contract.Receipt, error) {
				return s.vic.RenounceRole(ctx, role, opts...)
			})
			return err
		})
	},
}

var ownershipCmd = &cobra.Command{
	Use:   "ownership",
	Short: "Contract ownership",
}

var ownershipTransferCmd = &cobra.Command{
	Use:   "transfer <new-owner>",
	Short: "Hand ownership to another account; the new owner also gets ADMIN",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
			owner, err := s.address(ctx, args[0])
			if err != nil {
				return err
			}
			_, err = s.send(ctx, "transfer ownership to "+ui.TruncateAddr(owner.Hex()), func(ctx context.Context) (*contract.Receipt, error) {
				return s.vic.TransferOwnership(ctx, owner, opts...)
			})
			return err
		})
	},
}

func init() {
	roleCmd.AddCommand(roleGrantCmd, roleRevokeCmd, roleRenounceCmd)
	ownershipCmd.AddCommand(ownershipTransferCmd)
}
