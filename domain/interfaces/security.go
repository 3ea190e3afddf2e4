package interfaces

// CommandGuard decides which console commands need user approval
type CommandGuard interface {
	// RequiresApproval checks if a command must be confirmed before it runs
	RequiresApproval(cmd string, args []string) bool

	// RiskLevel returns "low", "medium" or "high"
	RiskLevel(cmd string, args []string) string
}
