package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/vicinity-labs/vicinity/internal/ui"
	"github.com/vicinity-labs/vicinity/internal/vicinity"
)

var statusCmd = &cobra.Command{
	Use:   "status [account...]",
	Short: "Show the contract and, optionally, per-account state",
	Long: `Show name, symbol, supply, owner and pause state of the bound contract,
followed by balances, locks, roles and blacklisting of every account given.`,
	Example: `  vicinity status
  vicinity status accounts[1] 0x6339B2613a2767ff2739d5dF933f85e1177674A9`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBound(cmd, func(ctx context.Context, s *session, _ []vicinity.CallOption) error {
			pairs, err := contractStatus(ctx, s.vic)
			if err != nil {
				return err
			}
			pairs = append([][2]string{{"Network", ui.NetworkName(s.resolver.Name())}}, pairs...)
			if deps := s.deps.All(s.resolver.Name()); len(deps) > 0 {
				pairs = append(pairs, [2]string{"Deployments", strconv.Itoa(len(deps))})
			}
			s.println(ui.KeyValueBlock("Vicinity", pairs))

			if len(args) == 0 {
				return nil
			}
			accounts, err := s.addresses(ctx, args)
			if err != nil {
				return err
			}
			tbl := ui.NewTable([]ui.Column{
				{Title: "Account", Width: 13},
				{Title: "Balance", Width: 24},
				{Title: "Locked", Width: 24},
				{Title: "Lock expiry", Width: 20},
				{Title: "Roles", Width: 26},
				{Title: "Blacklisted", Width: 11},
			})
			for _, a := range accounts {
				row, err := accountStatus(ctx, s.vic, a)
				if err != nil {
					return err
				}
				tbl.AddRow(row)
			}
			s.println(tbl.Render())
			return nil
		})
	},
}

func contractStatus(ctx context.Context, v *vicinity.Client) ([][2]string, error) {
	name, err := v.Name(ctx)
	if err != nil {
		return nil, err
	}
	symbol, err := v.Symbol(ctx)
	if err != nil {
		return nil, err
	}
	decimals, err := v.Decimals(ctx)
	if err != nil {
		return nil, err
	}
	supply, err := v.TotalSupply(ctx)
	if err != nil {
		return nil, err
	}
	owner, err := v.Owner(ctx)
	if err != nil {
		return nil, err
	}
	paused, err := v.Paused(ctx)
	if err != nil {
		return nil, err
	}
	return [][2]string{
		{"Contract", ui.Addr(v.Address().Hex())},
		{"Name", name},
		{"Symbol", symbol},
		{"Decimals", strconv.Itoa(int(decimals))},
		{"Total supply", ui.Val(supply.String())},
		{"Owner", ui.Addr(owner.Hex())},
		{"Paused", pausedValue(paused)},
	}, nil
}

func pausedValue(paused bool) string {
	if paused {
		return ui.Warn("true")
	}
	return "false"
}

func accountStatus(ctx context.Context, v *vicinity.Client, a common.Address) (ui.Row, error) {
	balance, err := v.BalanceOf(ctx, a)
	if err != nil {
		return nil, err
	}
	locked, err := v.LockedAmount(ctx, a)
	if err != nil {
		return nil, err
	}
	expiry := "-"
	if locked.Sign() > 0 {
		t, err := v.LockExpiry(ctx, a)
		if err != nil {
			return nil, err
		}
		expiry = t.Format(time.DateTime)
	}
	var roles []string
	for _, r := range vicinity.AllRoles {
		ok, err := v.HasRole(ctx, r, a)
		if err != nil {
			return nil, err
		}
		if ok {
			roles = append(roles, r.String())
		}
	}
	black, err := v.IsBlackListed(ctx, a)
	if err != nil {
		return nil, err
	}
	return ui.Row{
		ui.TruncateAddr(a.Hex()),
		balance.String(),
		locked.String(),
		expiry,
		strings.Join(roles, ","),
		fmt.Sprint(black),
	}, nil
}
