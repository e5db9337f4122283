// internal/transaction/priority.go
package transaction

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
)

type PriorityLevel string

const (
	PriorityNone    PriorityLevel = "none"
	PriorityLow     PriorityLevel = "low"
	PriorityMedium  PriorityLevel = "medium"
	PriorityHigh    PriorityLevel = "high"
	PriorityExtreme PriorityLevel = "extreme"
)

// PriorityConfig is a compute budget request.
type PriorityConfig struct {
	ComputeUnits uint32 // Number of compute units
	PriorityFee  uint64 // Priority fee in micro-lamports per compute unit
}

var profiles = map[PriorityLevel]PriorityConfig{
	PriorityNone:    {},
	PriorityLow:     {ComputeUnits: 200_000, PriorityFee: 1_000},
	PriorityMedium:  {ComputeUnits: 400_000, PriorityFee: 5_000},
	PriorityHigh:    {ComputeUnits: 800_000, PriorityFee: 10_000},
	PriorityExtreme: {ComputeUnits: 1_000_000, PriorityFee: 50_000},
}

// Profile returns the preset for level.
func Profile(level PriorityLevel) (PriorityConfig, error) {
	cfg, ok := profiles[level]
	if !ok {
		return PriorityConfig{}, fmt.Errorf("unknown priority level: %s", level)
	}
	return cfg, nil
}

// Instructions returns the compute budget instructions for cfg.
// A zero priority fee yields none.
func (cfg PriorityConfig) Instructions() []solana.Instruction {
	if cfg.PriorityFee == 0 {
		return nil
	}
	var instructions []solana.Instruction
	if cfg.ComputeUnits > 0 {
		instructions = append(instructions, computebudget.NewSetComputeUnitLimitInstruction(cfg.ComputeUnits).Build())
	}
	instructions = append(instructions, computebudget.NewSetComputeUnitPriceInstruction(cfg.PriorityFee).Build())
	return instructions
}
