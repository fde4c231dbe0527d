package app

import (
	"context"

	"github.com/syrm/srvmaint/maintenance"
	"github.com/syrm/srvmaint/tui"
)

// RunMenu shows the interactive maintenance menu until the operator exits.
func (a *App) RunMenu(ctx context.Context, opts StackOptions) error {
	return tui.NewMenu(a.tui, "Server maintenance", a.menuItems(opts), a.logger).Run(ctx)
}

func (a *App) menuItems(opts StackOptions) []tui.MenuItem {
	return []tui.MenuItem{
		{Label: "Update OS packages", Action: a.host.UpdateOS},
		{Label: "Configure unattended upgrades", Action: a.host.ConfigureUnattendedUpgrades},
		{Label: "Create user", Action: a.createUser},
		{Label: "Install SSH key", Action: a.installSSHKey},
		{Label: "Install Docker", Action: a.host.InstallDocker},
		{Label: "Install Dockge", Action: a.host.InstallDockge},
		{Label: "Update Dockge", Action: a.host.UpdateDockge},
		{Label: "Update compose stacks", Action: func(ctx context.Context) error {
			report, err := a.UpdateStacks(ctx, StackOptions{UseTUI: opts.UseTUI, Interactive: opts.Interactive})
			if err != nil {
				return err
			}
			return CheckReport(report)
		}},
		{Label: "Clean up Docker", Action: a.cleanup},
		{Label: "Set up Tailscale", Action: a.setupTailscale},
		{Label: "Preflight checks", Action: func(ctx context.Context) error {
			a.Preflight(ctx)
			return nil
		}},
	}
}

func (a *App) createUser(ctx context.Context) error {
	name, err := a.tui.AskValid("Username", maintenance.ValidateUsername)
	if err != nil {
		return err
	}

	sudo, err := a.tui.Confirm("Add "+name+" to the sudo group?", true)
	if err != nil {
		return err
	}

	return a.host.CreateUser(ctx, name, sudo)
}

func (a *App) installSSHKey(ctx context.Context) error {
	name, err := a.tui.AskValid("Username", func(name string) error {
		if err := maintenance.ValidateUsername(name); err != nil {
			return err
		}
		if !a.host.UserExists(name) {
			return errUnknownUser(name)
		}
		return nil
	})
	if err != nil {
		return err
	}

	key, err := a.tui.AskValid("Public key (one line)", func(key string) error {
		_, err := maintenance.ParseAuthorizedKey(key)
		return err
	})
	if err != nil {
		return err
	}

	return a.host.InstallSSHKey(ctx, name, key)
}

func (a *App) cleanup(ctx context.Context) error {
	ok, err := a.tui.Confirm("Remove stopped containers, unused images and unused networks?", false)
	if err != nil {
		return err
	}
	if !ok {
		return tui.ErrCancelled
	}

	_, err = a.host.Cleanup(ctx)

	return err
}

func (a *App) setupTailscale(ctx context.Context) error {
	authKey, err := a.tui.Ask("Tailscale auth key (empty to log in through a URL)")
	if err != nil {
		return err
	}

	return a.host.SetupTailscale(ctx, authKey)
}
