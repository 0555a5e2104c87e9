package cmd

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/vicinity-labs/vicinity/internal/contract"
	"github.com/vicinity-labs/vicinity/internal/ui"
	"golang.org/x/crypto/sha3"
)

var selectorsCmd = &cobra.Command{
	Use:   "selectors [signature-or-selector...]",
	Short: "List Vicinity method selectors, or compute and look up others",
	Long: `Without arguments, list the 4-byte selector of every Vicinity method.

A signature argument is hashed after dropping parameter names; a 0x-prefixed
selector is looked up in the Vicinity ABI.

Examples:
  vicinity selectors
  vicinity selectors "transfer(address to, uint256 amount)"   # 0xa9059cbb
  vicinity selectors 0x40c10f19                               # mint`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			fmt.Fprintln(out, vicinitySelectors().Render())
			return nil
		}
		for _, input := range args {
			if strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X") {
				pairs, err := lookupSelector(input)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, ui.KeyValueBlock("Selector Lookup", pairs))
				continue
			}
			sig := normalizeSignature(input)
			hash := keccak(sig)
			fmt.Fprintln(out, ui.KeyValueBlock("Function Selector", [][2]string{
				{"Signature", sig},
				{"Selector", ui.Val("0x" + hex.EncodeToString(hash[:4]))},
				{"Full Hash", "0x" + hex.EncodeToString(hash)},
			}))
		}
		return nil
	},
}

func keccak(s string) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(s))
	return h.Sum(nil)
}

// vicinitySelectors tabulates the Vicinity ABI, sorted by signature.
func vicinitySelectors() *ui.Table {
	parsed := contract.Vicinity()
	sigs := make([]string, 0, len(parsed.Methods))
	for _, m := range parsed.Methods {
		sigs = append(sigs, m.Sig)
	}
	sort.Strings(sigs)

	tbl := ui.NewTable([]ui.Column{
		{Title: "Selector", Width: 10},
		{Title: "Signature", Width: 64},
	})
	for _, sig := range sigs {
		tbl.AddRow(ui.Row{"0x" + hex.EncodeToString(keccak(sig)[:4]), sig})
	}
	return tbl
}

func lookupSelector(input string) ([][2]string, error) {
	id, err := hexutil.Decode(input)
	if err != nil || len(id) != 4 {
		return nil, fmt.Errorf("invalid selector %q: want 4 bytes of hex", input)
	}
	method := "(not a Vicinity method)"
	parsed := contract.Vicinity()
	if m, err := parsed.MethodById(id); err == nil {
		method = m.Sig
	}
	return [][2]string{
		{"Selector", input},
		{"Method", ui.Val(method)},
	}, nil
}

// normalizeSignature removes parameter names, keeping only types.
// "transfer(address to, uint256 amount)" → "transfer(address,uint256)"
func normalizeSignature(sig string) string {
	parenIdx := strings.Index(sig, "(")
	if parenIdx < 0 || !strings.HasSuffix(sig, ")") {
		return sig
	}

	name := strings.TrimSpace(sig[:parenIdx])
	paramStr := sig[parenIdx+1 : len(sig)-1]

	if strings.TrimSpace(paramStr) == "" {
		return name + "()"
	}

	var types []string
	for _, p := range strings.Split(paramStr, ",") {
		// Take only the first word (the type), skip the name.
		if parts := strings.Fields(p); len(parts) > 0 {
			types = append(types, parts[0])
		}
	}

	return name + "(" + strings.Join(types, ",") + ")"
}
