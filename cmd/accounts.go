package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vicinity-labs/vicinity/internal/ui"
	"github.com/vicinity-labs/vicinity/internal/wallet"
	"go.uber.org/zap"
)

// openKeystore is replaced in tests.
var openKeystore = func() wallet.KeystoreBackend { return wallet.DefaultKeystore() }

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List node accounts and manage keystore accounts",
	Long: `Node accounts are referenced by index ("2" or "accounts[2]"), keystore
accounts by id. Both work wherever a command takes an account.`,
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List node accounts with their native balance, then keystore ids",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		addrs, err := s.backend.Accounts(ctx)
		if err != nil {
			return fmt.Errorf("listing node accounts: %w", err)
		}

		tbl := ui.NewTable([]ui.Column{
			{Title: "Ref", Width: 12},
			{Title: "Address", Width: 42},
			{Title: "Balance (wei)", Width: 28},
		})
		for i, a := range addrs {
			bal, err := s.backend.BalanceAt(ctx, a)
			if err != nil {
				return err
			}
			tbl.AddRow(ui.Row{"accounts[" + strconv.Itoa(i) + "]", a.Hex(), bal.String()})
		}
		s.println(tbl.Render())

		if s.keys == nil {
			return nil
		}
		ids, err := s.keys.IDs()
		if err != nil {
			log.Debug("keystore not listed", zap.Error(err))
			return nil
		}
		for _, id := range ids {
			acct, err := wallet.LoadAccount(s.keys, id)
			if err != nil {
				s.println(ui.Warn(id + ": " + err.Error()))
				continue
			}
			s.println(ui.Info(id + "  " + acct.Address.Hex()))
		}
		return nil
	},
}

var accountsImportCmd = &cobra.Command{
	Use:   "import <id>",
	Short: "Store a private key, read from stdin, under id",
	Example: `  echo $PRIVATE_KEY | vicinity accounts import deployer
  vicinity --network rinkeby --as deployer pause`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && strings.TrimSpace(line) == "" {
			return errors.New("no private key on stdin")
		}
		acct, err := wallet.ImportKey(openKeystore(), args[0], line)
		if err != nil {
			return fmt.Errorf("importing %s: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("stored %s as %s", ui.Addr(acct.Address.Hex()), args[0])))
		return nil
	},
}

var accountsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a keystore account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := openKeystore().Delete(wallet.Ref(args[0])); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("removed "+args[0]))
		return nil
	},
}

func init() {
	accountsCmd.AddCommand(accountsListCmd, accountsImportCmd, accountsRemoveCmd)
}
