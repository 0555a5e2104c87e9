package config

import "time"

// Gas limits used as EstimateGas fallbacks when the node cannot simulate the tx.
const (
	GasLimitContractCall = uint64(300_000)   // any Vicinity state-changing call
	GasLimitAirdrop      = uint64(2_000_000) // batch airdrops scale with recipients
	GasLimitTokenDeploy  = uint64(5_000_000) // full Vicinity deployment
)

// Confirmation waiting.
const (
	DefaultConfirmations = 1
	ReceiptPollInterval  = 2 * time.Second
	TxConfirmTimeout     = 3 * time.Minute
	TxDeployTimeout      = 5 * time.Minute
)

// SecondsPerDay converts lock durations expressed in days.
const SecondsPerDay = 86_400

// SimNetwork is the always-available in-process simulated network.
const SimNetwork = "sim"
