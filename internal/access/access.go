// Package access implements the login-time allow/deny policy. The gate is a
// pure function of a username and the operator-supplied lists; it never gates
// already-issued session tokens.
package access

import "strings"

// Mode selects the policy applied to non-admin users.
type Mode string

const (
	// ModeOpen allows every authenticated user.
	ModeOpen Mode = "open"
	// ModeWhitelist allows only users on the allow list (or admins).
	ModeWhitelist Mode = "whitelist"
	// ModeBlacklist denies users on the block list, allows everyone else.
	ModeBlacklist Mode = "blacklist"
)

// ParseMode normalizes a configured mode string, defaulting to open.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeWhitelist:
		return ModeWhitelist
	case ModeBlacklist:
		return ModeBlacklist
	default:
		return ModeOpen
	}
}

// Decision is the outcome of a gate check.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// IsAdmin reports whether the username is on the operator's admin list.
func IsAdmin(username string, admins []string) bool {
	return contains(admins, username)
}

// Check decides whether a username may log in. Admins always pass,
// regardless of mode. All list membership is case-insensitive.
func Check(username string, admins []string, mode Mode, allowList, blockList []string) Decision {
	if contains(admins, username) {
		return Decision{Allowed: true}
	}

	switch mode {
	case ModeWhitelist:
		if contains(allowList, username) {
			return Decision{Allowed: true}
		}
		// An empty combined list shuts the door for everyone but admins.
		return Decision{Allowed: false, Reason: "not on the allow list"}
	case ModeBlacklist:
		if contains(blockList, username) {
			return Decision{Allowed: false, Reason: "blocked"}
		}
		return Decision{Allowed: true}
	default:
		return Decision{Allowed: true}
	}
}

func contains(list []string, name string) bool {
	for _, entry := range list {
		if strings.EqualFold(strings.TrimSpace(entry), name) {
			return true
		}
	}
	return false
}
