package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/vicinity-labs/vicinity/internal/chain"
	"github.com/vicinity-labs/vicinity/internal/config"
	"github.com/vicinity-labs/vicinity/internal/contract"
	"github.com/vicinity-labs/vicinity/internal/network"
	"github.com/vicinity-labs/vicinity/internal/rpc"
	"github.com/vicinity-labs/vicinity/internal/sim"
	"github.com/vicinity-labs/vicinity/internal/ui"
	"github.com/vicinity-labs/vicinity/internal/vicinity"
	"github.com/vicinity-labs/vicinity/internal/wallet"
	"go.uber.org/zap"
)

var errAborted = errors.New("aborted")

// session is everything one command invocation needs to talk to the token.
type session struct {
	cmd      *cobra.Command
	backend  contract.Backend
	resolver *network.Resolver
	deps     *contract.Deployments
	keys     wallet.KeystoreBackend
	vic      *vicinity.Client
	sim      bool
}

// openSession connects to the active network. On the simulated network the
// chain and the deployments registry live only as long as the process.
func openSession(cmd *cobra.Command) (*session, error) {
	s := &session{cmd: cmd, sim: cfg.Active() == config.SimNetwork}

	var bytecode []byte
	if s.sim {
		s.backend = sim.New(sim.WithLogger(log.Named("sim")))
		s.deps = contract.NewDeployments("")
		bytecode = sim.Bytecode
	} else {
		n, err := cfg.Network("")
		if err != nil {
			return nil, err
		}
		endpoints := n.Endpoints()
		if len(endpoints) == 0 {
			return nil, fmt.Errorf("network %s has no host", n.Name)
		}
		algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
		if err != nil {
			return nil, err
		}
		host, err := rpc.SelectBest(cmd.Context(), endpoints, algo)
		if err != nil {
			return nil, fmt.Errorf("network %s: %w", n.Name, err)
		}
		log.Debug("using node", zap.String("network", n.Name), zap.String("host", host))
		s.backend = contract.NewEVMBackend(chain.NewEVMClient(host),
			contract.WithConfirmations(cfg.Confirmations),
			contract.WithLogger(log.Named("evm")))
		s.deps = contract.NewDeployments(cfg.DeploymentsPath())
		if err := s.deps.Load(); err != nil {
			return nil, fmt.Errorf("loading deployments: %w", err)
		}
		if cfg.Artifact != "" {
			art, err := contract.LoadArtifact(cfg.Artifact)
			if err != nil {
				return nil, err
			}
			bytecode = art.Bytecode
		}
		s.keys = openKeystore()
	}

	s.resolver = network.NewResolver(cfg, s.backend, s.keys)
	s.vic = vicinity.New(s.backend, s.resolver,
		vicinity.WithNetwork(s.resolver.Name()),
		vicinity.WithBytecode(bytecode),
		vicinity.WithDeployments(s.deps),
		vicinity.WithVerify(s.resolver.ShouldVerify()),
		vicinity.WithLogger(log.Named("vicinity")),
	)
	return s, nil
}

// bind points the client at the recorded Vicinity contract. Local networks
// with no deployment get a fresh one with the default name and symbol.
func (s *session) bind(ctx context.Context) error {
	addr, err := s.resolver.ContractAddress(contract.VicinityName, s.deps)
	if err == nil {
		s.vic.Bind(addr)
		return nil
	}
	if !errors.Is(err, contract.ErrNoDeployment) || !s.resolver.IsLocal() {
		return err
	}
	log.Debug("no deployment recorded, deploying", zap.String("network", s.resolver.Name()))
	_, err = s.deploy(ctx, vicinity.CoinName, vicinity.CoinSymbol, vicinity.InitialSupply, nil)
	return err
}

// opts returns the call options selected by --as.
func (s *session) opts(ctx context.Context) ([]vicinity.CallOption, error) {
	if asAccount == "" {
		return nil, nil
	}
	acct, err := s.account(ctx, asAccount)
	if err != nil {
		return nil, err
	}
	return []vicinity.CallOption{vicinity.As(acct)}, nil
}

// sender returns the account that signs this invocation's transactions.
func (s *session) sender(ctx context.Context) (*wallet.Account, error) {
	if asAccount != "" {
		return s.account(ctx, asAccount)
	}
	return s.resolver.Account(ctx)
}

// account resolves a node account index ("2" or "accounts[2]") or a
// keystore id.
func (s *session) account(ctx context.Context, ref string) (*wallet.Account, error) {
	if i, ok := accountIndex(ref); ok {
		return s.resolver.AccountAt(ctx, i)
	}
	return s.resolver.LoadAccount(ref)
}

// address resolves a hex address, a node account index or a keystore id.
func (s *session) address(ctx context.Context, ref string) (common.Address, error) {
	if common.IsHexAddress(ref) {
		return common.HexToAddress(ref), nil
	}
	acct, err := s.account(ctx, ref)
	if err != nil {
		return common.Address{}, err
	}
	return acct.Address, nil
}

// addressOrSender resolves ref, or the sender's address when ref is empty.
func (s *session) addressOrSender(ctx context.Context, ref string) (common.Address, error) {
	if ref != "" {
		return s.address(ctx, ref)
	}
	acct, err := s.sender(ctx)
	if err != nil {
		return common.Address{}, err
	}
	return acct.Address, nil
}

func (s *session) addresses(ctx context.Context, refs []string) ([]common.Address, error) {
	out := make([]common.Address, 0, len(refs))
	for _, ref := range refs {
		addr, err := s.address(ctx, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

// send runs one transaction and reports the receipt.
func (s *session) send(ctx context.Context, what string, fn func(ctx context.Context) (*contract.Receipt, error)) (*contract.Receipt, error) {
	var r *contract.Receipt
	err := s.await(ctx, what, func(ctx context.Context) (err error) {
		r, err = fn(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.println(ui.Success(fmt.Sprintf("%s confirmed in block %d", what, r.BlockNumber)))
	s.println(ui.Meta("tx " + r.TxHash.Hex()))
	return r, nil
}

// deploy creates a new Vicinity instance and binds the session to it.
func (s *session) deploy(ctx context.Context, name, symbol string, supply *big.Int, opts []vicinity.CallOption) (common.Address, error) {
	var addr common.Address
	err := s.await(ctx, "deploy "+name, func(ctx context.Context) (err error) {
		addr, err = s.vic.Deploy(ctx, name, symbol, supply, opts...)
		return err
	})
	if err != nil {
		return common.Address{}, err
	}
	s.println(ui.Success(fmt.Sprintf("%s (%s) deployed at %s", name, symbol, ui.Addr(addr.Hex()))))
	if s.resolver.ShouldVerify() {
		s.println(ui.Hint("publish the contract source on the network's block explorer"))
	}
	return addr, nil
}

// await asks before touching a live network and shows a spinner while fn
// waits for confirmation. Reverts are reported with their reason.
func (s *session) await(ctx context.Context, what string, fn func(ctx context.Context) error) error {
	if !s.resolver.IsLocal() && !s.resolver.IsForked() && !assumeYes {
		prompt := fmt.Sprintf("%s on live network %s?", what, s.resolver.Name())
		if !ui.ConfirmDanger(s.cmd.InOrStdin(), s.cmd.OutOrStdout(), prompt) {
			return errAborted
		}
	}

	var sp *ui.Spinner
	if !s.sim {
		sp = ui.NewSpinner(s.cmd.ErrOrStderr(), what+"...")
		sp.Start()
	}
	err := fn(ctx)
	if sp != nil {
		sp.Stop()
	}
	if err != nil {
		if contract.IsRevert(err) {
			return fmt.Errorf("%s reverted: %s", what, contract.RevertReason(err))
		}
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

func (s *session) println(a ...any) {
	fmt.Fprintln(s.cmd.OutOrStdout(), a...)
}

// withBound opens a session, binds the contract and resolves --as before
// handing over to fn.
func withBound(cmd *cobra.Command, fn func(ctx context.Context, s *session, opts []vicinity.CallOption) error) error {
	ctx := cmd.Context()
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	if err := s.bind(ctx); err != nil {
		return err
	}
	opts, err := s.opts(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, s, opts)
}

// --- parsing helpers ---

func accountIndex(ref string) (int, bool) {
	if strings.HasPrefix(ref, "accounts[") && strings.HasSuffix(ref, "]") {
		ref = ref[len("accounts[") : len(ref)-1]
	}
	i, err := strconv.Atoi(ref)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// parseAmount parses a base-10 or 0x-prefixed integer. A trailing exponent
// ("1e18", "5e6") scales by a power of ten. Negative values are allowed.
func parseAmount(s string) (*big.Int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if s == "" {
		return nil, errors.New("empty amount")
	}
	mant, exp, scaled := s, "", false
	if !strings.HasPrefix(strings.ToLower(strings.TrimPrefix(s, "-")), "0x") {
		if i := strings.IndexAny(s, "eE"); i >= 0 {
			mant, exp, scaled = s[:i], s[i+1:], true
		}
	}
	n, ok := new(big.Int).SetString(mant, 0)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if scaled {
		e, err := strconv.ParseUint(exp, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid exponent in %q", s)
		}
		n.Mul(n, new(big.Int).Exp(big.NewInt(10), new(big.Int).SetUint64(e), nil))
	}
	return n, nil
}

func parseAmounts(in []string) ([]*big.Int, error) {
	out := make([]*big.Int, 0, len(in))
	for _, s := range in {
		n, err := parseAmount(s)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
