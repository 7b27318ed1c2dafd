package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
)

func parseActor(arg string) (models.ActorID, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("user id %q is not a positive number", arg)
	}
	return models.ActorID(id), nil
}

func newAdminsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admins",
		Short: "Manage the administrator set",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List administrators",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				admins, err := a.gate.ListAdmins(cmd.Context(), a.gate.Owner())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%d\towner\n", a.gate.Owner())
				for _, id := range admins {
					fmt.Fprintf(out, "%d\tadmin\n", id)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <user-id>",
			Short: "Grant administrator privilege",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseActor(args[0])
				if err != nil {
					return err
				}
				if err := a.gate.AddAdmin(cmd.Context(), a.gate.Owner(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d is now an administrator\n", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <user-id>",
			Short: "Revoke administrator privilege",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseActor(args[0])
				if err != nil {
					return err
				}
				if err := a.gate.RemoveAdmin(cmd.Context(), a.gate.Owner(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d is no longer an administrator\n", id)
				return nil
			},
		},
	)
	return cmd
}

func newMaintenanceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Show or switch maintenance mode",
	}

	set := func(on bool) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			if err := a.gate.SetMaintenance(cmd.Context(), a.gate.Owner(), on); err != nil {
				return err
			}
			return printMaintenance(cmd, a)
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "on", Short: "Block plain users", Args: cobra.NoArgs, RunE: set(true)},
		&cobra.Command{Use: "off", Short: "Let everyone in", Args: cobra.NoArgs, RunE: set(false)},
		&cobra.Command{
			Use:   "status",
			Short: "Print the current mode",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printMaintenance(cmd, a)
			},
		},
	)
	return cmd
}

func printMaintenance(cmd *cobra.Command, a *app) error {
	on, err := a.gate.MaintenanceActive(cmd.Context())
	if err != nil {
		return err
	}
	mode := "OFF"
	if on {
		mode = "ON"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "maintenance: %s\n", mode)
	return nil
}
