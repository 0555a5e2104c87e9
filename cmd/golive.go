package cmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/spf13/cobra"
	"github.com/vicinity-labs/vicinity/internal/contract"
	"github.com/vicinity-labs/vicinity/internal/ui"
	"github.com/vicinity-labs/vicinity/internal/vicinity"
)

// richAccountIndex is the node account that receives the launch mint on
// local networks.
const richAccountIndex = 4

// goLiveMint is 1,000,000 tokens at 18 decimals.
var goLiveMint = new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(params.Ether))

var goLiveCmd = &cobra.Command{
	Use:   "golive",
	Short: "Deploy Vicinity, hand out every role and fund the treasury account",
	Long: `Deploy a new Vicinity ("Vicinity", "VCNT") from the sender, grant the
sender and the rich account ADMIN, MINTER and AIRDROPPER, then mint
1,000,000 tokens to the rich account.

The rich account is accounts[4] on local networks and rich_account from the
config elsewhere.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		opts, err := s.opts(ctx)
		if err != nil {
			return err
		}
		acct, err := s.sender(ctx)
		if err != nil {
			return err
		}
		rich, err := s.richAccount(ctx)
		if err != nil {
			return err
		}

		if _, err := s.deploy(ctx, "Vicinity", "VCNT", vicinity.InitialSupply, opts); err != nil {
			return err
		}

		for _, holder := range []common.Address{acct.Address, rich} {
			for _, role := range vicinity.AllRoles {
				what := fmt.Sprintf("grant %s to %s", role, ui.TruncateAddr(holder.Hex()))
				if _, err := s.send(ctx, what, func(ctx context.Context) (*contract.Receipt, error) {
					return s.vic.GrantRole(ctx, role, holder, opts...)
				}); err != nil {
					return err
				}
			}
		}

		if _, err := s.send(ctx, "mint to rich account", func(ctx context.Context) (*contract.Receipt, error) {
			return s.vic.Mint(ctx, goLiveMint, rich, opts...)
		}); err != nil {
			return err
		}

		s.println(ui.KeyValueBlock("Vicinity is live", [][2]string{
			{"Network", ui.NetworkName(s.resolver.Name())},
			{"Contract", ui.Addr(s.vic.Address().Hex())},
			{"Owner", ui.Addr(acct.Address.Hex())},
			{"Rich account", ui.Addr(rich.Hex())},
			{"Minted", ui.Val(goLiveMint.String())},
		}))
		return nil
	},
}

func (s *session) richAccount(ctx context.Context) (common.Address, error) {
	if s.resolver.IsLocal() {
		acct, err := s.resolver.AccountAt(ctx, richAccountIndex)
		if err != nil {
			return common.Address{}, err
		}
		return acct.Address, nil
	}
	if !common.IsHexAddress(cfg.RichAccount) {
		return common.Address{}, fmt.Errorf("invalid rich_account %q", cfg.RichAccount)
	}
	return common.HexToAddress(cfg.RichAccount), nil
}
