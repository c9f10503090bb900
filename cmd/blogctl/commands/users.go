package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/bloghub/cmd/blogctl/output"
	"github.com/yourusername/bloghub/internal/storage"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "ユーザーを管理する",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "ユーザー一覧を表示する",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUsersList(cmd)
	},
}

var usersPromoteCmd = &cobra.Command{
	Use:   "promote EMAIL",
	Short: "ユーザーを管理者にする",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetAdmin(cmd, args[0], true)
	},
}

var usersDemoteCmd = &cobra.Command{
	Use:   "demote EMAIL",
	Short: "ユーザーの管理者権限を外す",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetAdmin(cmd, args[0], false)
	},
}

func init() {
	usersCmd.AddCommand(usersListCmd, usersPromoteCmd, usersDemoteCmd)
	rootCmd.AddCommand(usersCmd)
}

func runUsersList(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := output.New(cmd.OutOrStdout())
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	users, err := store.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		out.Note("No users registered")
		return nil
	}

	out.Heading("Users")
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			fmt.Sprint(u.ID), u.Email, u.Username, output.Role(u.IsAdmin), u.CreatedAt.Format("2006-01-02"),
		})
	}
	if err := out.Table([]string{"ID", "EMAIL", "NAME", "ROLE", "CREATED"}, rows); err != nil {
		return err
	}
	out.Note("%d user(s)", len(users))
	return nil
}

func runSetAdmin(cmd *cobra.Command, email string, admin bool) error {
	ctx := cmd.Context()
	out := output.New(cmd.OutOrStdout())
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := store.SetAdmin(ctx, email, admin)
	if errors.Is(err, storage.ErrNotFound) {
		out.Fail("No user with email %s", email)
		return err
	}
	if err != nil {
		return err
	}

	if admin {
		out.OK("%s (id=%d) is now an admin", user.Email, user.ID)
	} else {
		out.Warn("%s (id=%d) is no longer an admin", user.Email, user.ID)
	}
	return nil
}
