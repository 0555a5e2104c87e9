package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Artifact holds the ABI and the creation bytecode of a compiled contract.
type Artifact struct {
	ABI      abi.ABI
	Bytecode []byte
}

// LoadArtifact loads a Hardhat, Foundry or Brownie build artifact. The ABI
// must declare a constructor compatible with (string,string,uint256).
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read artifact file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("artifact file is empty: %s", path)
	}
	return ParseArtifact(data)
}

// ParseArtifact parses artifact JSON already in memory.
func ParseArtifact(data []byte) (*Artifact, error) {
	var raw struct {
		ABI      json.RawMessage `json:"abi"`
		Bytecode json.RawMessage `json:"bytecode"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid artifact JSON: %w", err)
	}

	if len(raw.ABI) < 2 || raw.ABI[0] != '[' {
		return nil, fmt.Errorf("artifact has no \"abi\" array")
	}
	parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("parsing artifact ABI: %w", err)
	}
	if err := checkConstructor(parsed); err != nil {
		return nil, err
	}

	if len(raw.Bytecode) == 0 {
		return nil, fmt.Errorf("artifact has no bytecode, cannot deploy an interface")
	}
	bcHex, err := extractBytecodeHex(raw.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("extracting bytecode from artifact: %w", err)
	}
	bcHex = strings.TrimPrefix(bcHex, "0x")
	if bcHex == "" {
		return nil, fmt.Errorf("artifact bytecode is empty")
	}
	code, err := hexutil.Decode("0x" + bcHex)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode hex in artifact: %w", err)
	}

	return &Artifact{ABI: parsed, Bytecode: code}, nil
}

// extractBytecodeHex handles the common artifact formats:
//   - Hardhat/Brownie: "bytecode": "0x608060..." (Brownie omits the 0x)
//   - Foundry:         "bytecode": {"object": "0x608060..."}
func extractBytecodeHex(raw json.RawMessage) (string, error) {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return strings.TrimSpace(str), nil
	}

	var obj struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Object != "" {
		return strings.TrimSpace(obj.Object), nil
	}

	return "", fmt.Errorf("bytecode field is neither a hex string nor a {\"object\":\"0x...\"} object")
}

func checkConstructor(parsed abi.ABI) error {
	want := vicinityABI.Constructor.Inputs
	got := parsed.Constructor.Inputs
	if len(got) != len(want) {
		return fmt.Errorf("artifact constructor takes %d arguments, want %d (string,string,uint256)", len(got), len(want))
	}
	for i := range want {
		if got[i].Type.String() != want[i].Type.String() {
			return fmt.Errorf("artifact constructor argument %d is %s, want %s", i, got[i].Type, want[i].Type)
		}
	}
	return nil
}

// CreationData returns bytecode followed by the ABI-encoded constructor arguments.
func CreationData(bytecode []byte, args ...any) ([]byte, error) {
	packed, err := vicinityABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("encoding constructor arguments: %w", err)
	}
	out := make([]byte, 0, len(bytecode)+len(packed))
	out = append(out, bytecode...)
	return append(out, packed...), nil
}
