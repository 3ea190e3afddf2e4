package security

import (
	"strings"

	"web_navigator/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

var destructiveKeywords = []string{
	"delete", "remove", "удалить", "удаление",
	"cancel", "отменить", "отмена",
	"clear", "очистить",
	"reset", "сброс",
	"trash", "корзина",
}

var paymentKeywords = []string{
	"pay", "checkout", "оплатить", "оплата",
	"order", "заказать", "purchase", "buy", "купить",
}

// Guard flags console commands that can lose data or spend money
type Guard struct {
	logger *logrus.Logger
}

func NewGuard(logger *logrus.Logger) *Guard {
	return &Guard{
		logger: logger,
	}
}

// RequiresApproval - high-risk commands must be confirmed
func (g *Guard) RequiresApproval(cmd string, args []string) bool {
	level := g.RiskLevel(cmd, args)
	if level == RiskHigh {
		g.logger.Debugf("Command %q needs approval", cmd)
		return true
	}
	return false
}

func (g *Guard) RiskLevel(cmd string, args []string) string {
	cmd = strings.ToLower(cmd)
	switch cmd {
	case "click":
		// Clicking on delete, pay or similar buttons
		if len(args) > 1 && containsAny(strings.Join(args[1:], " "), destructiveKeywords, paymentKeywords) {
			return RiskHigh
		}
		return RiskMedium
	case "storage":
		if len(args) > 0 {
			switch args[0] {
			case "clear", "rm", "restore":
				return RiskHigh
			case "set":
				return RiskMedium
			}
		}
		return RiskLow
	case "exec":
		if containsAny(strings.Join(args, " "), []string{"localstorage.clear", "document.cookie", ".submit("}) {
			return RiskHigh
		}
		return RiskMedium
	case "type", "image":
		return RiskMedium
	}
	return RiskLow
}

func containsAny(s string, lists ...[]string) bool {
	s = strings.ToLower(s)
	for _, list := range lists {
		for _, keyword := range list {
			if strings.Contains(s, keyword) {
				return true
			}
		}
	}
	return false
}

var _ interfaces.CommandGuard = (*Guard)(nil)
