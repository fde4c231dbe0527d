package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/syrm/srvmaint/system"
)

var usernamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)

func ValidateUsername(name string) error {
	if !usernamePattern.MatchString(name) {
		return fmt.Errorf("invalid username %q: use lowercase letters, digits, - and _, starting with a letter or _", name)
	}

	return nil
}

func (h *Host) UserExists(name string) bool {
	_, err := h.lookupUser(name)
	return err == nil
}

// CreateUser adds a password-less user, optionally in the sudo group. An
// existing user is left as is apart from the group membership.
func (h *Host) CreateUser(ctx context.Context, name string, sudo bool) error {
	if err := ValidateUsername(name); err != nil {
		return err
	}

	var cmds []system.Command
	if h.UserExists(name) {
		h.logger.InfoContext(ctx, "user already exists", slog.String("user", name))
		h.say("user %s already exists", name)
	} else {
		cmds = append(cmds, system.NewCommand("adduser", "--disabled-password", "--gecos", "", name))
	}

	if sudo {
		cmds = append(cmds, system.NewCommand("usermod", "-aG", "sudo", name))
	}

	return h.runSteps(ctx, "create user", cmds...)
}
