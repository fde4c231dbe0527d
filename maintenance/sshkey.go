package maintenance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/crypto/ssh"
)

// ParseAuthorizedKey validates a single authorized_keys line.
func ParseAuthorizedKey(line string) (ssh.PublicKey, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, errors.New("empty key")
	}
	if strings.Contains(line, "\n") {
		return nil, errors.New("expected a single key line")
	}

	key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(line))
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}

	return key, nil
}

// InstallSSHKey appends key to the user's authorized_keys unless a key with the
// same fingerprint is already there.
func (h *Host) InstallSSHKey(ctx context.Context, username, key string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}

	pub, err := ParseAuthorizedKey(key)
	if err != nil {
		return err
	}

	u, err := h.lookupUser(username)
	if err != nil {
		return fmt.Errorf("user %s: %w", username, err)
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return fmt.Errorf("uid of %s: %w", username, err)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return fmt.Errorf("gid of %s: %w", username, err)
	}

	sshDir := filepath.Join(u.HomeDir, ".ssh")
	path := filepath.Join(sshDir, "authorized_keys")
	fingerprint := ssh.FingerprintSHA256(pub)

	if h.config.DryRun {
		h.say("[dry-run] add %s to %s", fingerprint, path)
		return nil
	}

	if err := os.MkdirAll(sshDir, 0o700); err != nil {
		return err
	}

	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if hasKey(existing, fingerprint) {
		h.logger.InfoContext(ctx, "ssh key already installed", slog.String("user", username), slog.String("fingerprint", fingerprint))
		h.say("key %s already installed for %s", fingerprint, username)
	} else {
		content := existing
		if len(content) > 0 && !bytes.HasSuffix(content, []byte("\n")) {
			content = append(content, '\n')
		}
		content = append(content, strings.TrimSpace(key)+"\n"...)

		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		h.logger.InfoContext(ctx, "ssh key installed", slog.String("user", username), slog.String("fingerprint", fingerprint))
	}

	if err := os.Chmod(sshDir, 0o700); err != nil {
		return err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return err
	}

	for _, p := range []string{sshDir, path} {
		if err := h.chown(p, uid, gid); err != nil {
			return fmt.Errorf("chown %s: %w", p, err)
		}
	}

	return nil
}

func hasKey(authorizedKeys []byte, fingerprint string) bool {
	rest := authorizedKeys
	for len(bytes.TrimSpace(rest)) > 0 {
		key, _, _, next, err := ssh.ParseAuthorizedKey(rest)
		if err != nil {
			return false
		}

		if ssh.FingerprintSHA256(key) == fingerprint {
			return true
		}

		rest = next
	}

	return false
}
