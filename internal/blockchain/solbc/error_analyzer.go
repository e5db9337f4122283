package solbc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"go.uber.org/zap"
)

// ProgramError is a program failure parsed from simulation logs
type ProgramError struct {
	Code      int    `json:"code"`
	Name      string `json:"name"`
	Msg       string `json:"msg"`
	ProgramID string `json:"programId,omitempty"`
}

// ErrorAnalyzer extracts logs and program errors from failed sends
type ErrorAnalyzer struct {
	logger *zap.Logger
}

// NewErrorAnalyzer creates a new ErrorAnalyzer instance
func NewErrorAnalyzer(logger *zap.Logger) *ErrorAnalyzer {
	return &ErrorAnalyzer{
		logger: logger.Named("error-analyzer"),
	}
}

// ProgramLogs returns the simulation logs attached to err, if any.
// The RPC error may be wrapped anywhere in the chain.
func ProgramLogs(err error) []string {
	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) || rpcErr.Data == nil {
		return nil
	}
	dataMap, ok := rpcErr.Data.(map[string]interface{})
	if !ok {
		return nil
	}
	raw, ok := dataMap["logs"].([]interface{})
	if !ok {
		return nil
	}
	logs := make([]string, 0, len(raw))
	for _, entry := range raw {
		if s, ok := entry.(string); ok {
			logs = append(logs, s)
		}
	}
	return logs
}

// AnalyzeRPCError analyzes err and extracts detailed information
func (ea *ErrorAnalyzer) AnalyzeRPCError(err error) map[string]interface{} {
	if err == nil {
		return map[string]interface{}{
			"error": "No error provided",
		}
	}

	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return map[string]interface{}{
			"type":    "generic_error",
			"message": err.Error(),
		}
	}

	result := map[string]interface{}{
		"type":    "rpc_error",
		"code":    rpcErr.Code,
		"message": rpcErr.Message,
	}

	if !strings.Contains(rpcErr.Message, "Transaction simulation failed") {
		return result
	}
	result["simulation_failed"] = true

	logs := ProgramLogs(err)
	if len(logs) > 0 {
		result["logs"] = logs
	}
	for _, line := range logs {
		if perr, ok := parseProgramErrorLog(line); ok {
			result["program_error"] = perr
			ea.logger.Warn("Program error detected",
				zap.Int("code", perr.Code),
				zap.String("name", perr.Name),
				zap.String("message", perr.Msg))
			break
		}
	}

	if dataMap, ok := rpcErr.Data.(map[string]interface{}); ok {
		if ixErr, ok := dataMap["err"].(map[string]interface{}); ok {
			result["instruction_error"] = ixErr
		}
	}

	return result
}

// parseProgramErrorLog parses two shapes of failure line:
//
//	Program log: AnchorError occurred. Error Code: X. Error Number: 101. Error Message: msg.
//	Program <id> failed: custom program error: 0x1
func parseProgramErrorLog(line string) (ProgramError, bool) {
	result := ProgramError{}

	if strings.Contains(line, "AnchorError occurred") {
		if parts := strings.SplitN(line, "Error Number:", 2); len(parts) == 2 {
			fmt.Sscanf(strings.TrimSpace(strings.Split(parts[1], ".")[0]), "%d", &result.Code)
		}
		if parts := strings.SplitN(line, "Error Code:", 2); len(parts) == 2 {
			result.Name = strings.TrimSpace(strings.Split(parts[1], ".")[0])
		}
		if parts := strings.SplitN(line, "Error Message:", 2); len(parts) == 2 {
			result.Msg = strings.TrimSuffix(strings.TrimSpace(parts[1]), ".")
		}
		return result, true
	}

	const custom = "failed: custom program error: "
	if idx := strings.Index(line, custom); idx >= 0 && strings.HasPrefix(line, "Program ") {
		result.ProgramID = strings.TrimSpace(line[len("Program "):idx])
		code := strings.TrimSpace(line[idx+len(custom):])
		fmt.Sscanf(code, "0x%x", &result.Code)
		result.Name = "Custom"
		result.Msg = code
		return result, true
	}

	return result, false
}

// FormatErrorAnalysis formats the error analysis for logging or display
func (ea *ErrorAnalyzer) FormatErrorAnalysis(analysis map[string]interface{}) string {
	jsonBytes, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error formatting analysis: %v", err)
	}
	return string(jsonBytes)
}
