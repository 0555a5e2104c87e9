package cmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
	"github.com/vicinity-labs/vicinity/internal/contract"
	"github.com/vicinity-labs/vicinity/internal/vicinity"
)

var (
	airdropTo       []string
	airdropAmounts  []string
	airdropLockDays []string
)

var airdropCmd = &cobra.Command{
	Use:   "airdrop",
	Short: "Send tokens to many recipients in one transaction (owner or AIRDROPPER)",
	Long: `Send amounts[i] from the sender to to[i]. With --lock-days every
recipient's tokens are locked for lock-days[i] days. Lengths are checked by
the contract: a mismatch reverts.`,
	Example: `  vicinity airdrop --to accounts[5],accounts[6] --amounts 100,200
  vicinity airdrop --to 0xabc... --amounts 1e18 --lock-days 30`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		amounts, err := parseAmounts(airdropAmounts)
		if err != nil {
			return err
		}
		var lockDays []*big.Int
		if cmd.Flags().Changed("lock-days") {
			if lockDays, err = parseAmounts(airdropLockDays); err != nil {
				return err
			}
		}
		return withBound(cmd, func(ctx context.Context, s *session, opts []vicinity.CallOption) error {
			recipients, err := s.addresses(ctx, airdropTo)
			if err != nil {
				return err
			}
			what := fmt.Sprintf("airdrop to %d recipients", len(recipients))
			if lockDays != nil {
				what = "locked " + what
			}
			_, err = s.send(ctx, what, func(ctx context.Context) (*contract.Receipt, error) {
				return s.vic.Airdrop(ctx, recipients, amounts, lockDays, opts...)
			})
			return err
		})
	},
}

func init() {
	airdropCmd.Flags().StringSliceVar(&airdropTo, "to", nil, "recipients (addresses, account indexes or keystore ids)")
	airdropCmd.Flags().StringSliceVar(&airdropAmounts, "amounts", nil, "amount per recipient")
	airdropCmd.Flags().StringSliceVar(&airdropLockDays, "lock-days", nil, "lock period in days per recipient")
	_ = airdropCmd.MarkFlagRequired("to")
	_ = airdropCmd.MarkFlagRequired("amounts")
}
