// User commands manage accounts and session tokens.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/linkshelf/internal/sqlite"
	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

var (
	userUsername string
	userPassword string
	userEmail    string
	userAdmin    bool
	tokenTTLDays int
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new user account",
	Long: `Add creates a new user account.

Example:
  linkshelf user add --username alice --password secret
  linkshelf user add --username admin --password secret --admin`,
	Args: cobra.NoArgs,
	RunE: runUserAdd,
}

var userTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for a user",
	Args:  cobra.NoArgs,
	RunE:  runUserToken,
}

func init() {
	userAddCmd.Flags().StringVar(&userUsername, "username", "", "username (required)")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "password (required)")
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "email address")
	userAddCmd.Flags().BoolVar(&userAdmin, "admin", false, "grant the admin role")
	_ = userAddCmd.MarkFlagRequired("username")
	_ = userAddCmd.MarkFlagRequired("password")

	userTokenCmd.Flags().StringVar(&userUsername, "username", "", "username (required)")
	userTokenCmd.Flags().IntVar(&tokenTTLDays, "ttl-days", 30, "token lifetime in days")
	_ = userTokenCmd.MarkFlagRequired("username")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userTokenCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	hash, err := sqlite.HashPassword(userPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		Username:     userUsername,
		PasswordHash: hash,
		Email:        userEmail,
		Role:         types.RoleUser,
	}
	if userAdmin {
		user.Role = types.RoleAdmin
	}

	if err := a.Store.CreateUser(user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	if flagJSON {
		return printJSON(user)
	}
	fmt.Printf("Created user: %s (%s)\n", user.Username, user.ID)
	return nil
}

func runUserToken(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := a.resolveOwner(userUsername)
	if err != nil {
		return err
	}

	token, err := a.Store.IssueToken(user.ID, time.Duration(tokenTTLDays)*24*time.Hour)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	if flagJSON {
		return printJSON(map[string]string{"token": token})
	}
	fmt.Println(token)
	return nil
}
