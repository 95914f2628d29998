package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/storage"
)

var flagUserPassword string

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List accounts",
	Long: `List the accounts that may log in over SSH and the web API.

Examples:
  snake users
  snake users add ann`,
	Args: cobra.NoArgs,
	RunE: runUsers,
}

var usersAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an account",
	Long: `Create an account. The password is read from the terminal unless
--password is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runUsersAdd,
}

func init() {
	usersAddCmd.Flags().StringVar(&flagUserPassword, "password", "", "Password for the new account")
	usersCmd.AddCommand(usersAddCmd)
}

func runUsers(_ *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	users, err := store.ListUsers()
	if err != nil {
		return fmt.Errorf("cannot list users: %w", err)
	}
	if len(users) == 0 {
		fmt.Println("No accounts yet. Create one with 'snake users add <name>'.")
		return nil
	}

	fmt.Printf("  %-16s  %-8s  %s\n", "User", "Best", "Created")
	fmt.Printf("  %-16s  %-8s  %s\n", "----", "----", "-------")
	for _, u := range users {
		fmt.Printf("  %-16s  %-8d  %s\n", u.Username, u.HighestScore, u.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runUsersAdd(_ *cobra.Command, args []string) error {
	password := flagUserPassword
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("cannot read password: %w", err)
		}
		password = string(raw)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.CreateUser(args[0], password); err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			return fmt.Errorf("user %s already exists", args[0])
		}
		return err
	}
	fmt.Printf("Created %s.\n", args[0])
	return nil
}
