package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Login flags
	email    string
	password string
	username string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Sign in with email and password. The password may also come from
BLOGCTL_PASSWORD so it stays out of shell history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogin(cmd.Context())
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegister(cmd.Context())
	},
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show who the stored session belongs to",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMe(cmd.Context())
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := newGateway()
		if err != nil {
			return err
		}
		g.Logout(cmd.Context())
		fmt.Println("Logged out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, meCmd, logoutCmd)

	loginCmd.Flags().StringVar(&email, "email", "", "Account email")
	loginCmd.Flags().StringVar(&password, "password", "", "Account password (or BLOGCTL_PASSWORD)")
	_ = loginCmd.MarkFlagRequired("email")

	registerCmd.Flags().StringVar(&username, "username", "", "Username (letters, digits, underscore)")
	registerCmd.Flags().StringVar(&email, "email", "", "Account email")
	registerCmd.Flags().StringVar(&password, "password", "", "Account password (or BLOGCTL_PASSWORD)")
	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("email")
}

func passwordFromFlagOrEnv() (string, error) {
	if password != "" {
		return password, nil
	}
	if v := os.Getenv("BLOGCTL_PASSWORD"); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("--password or BLOGCTL_PASSWORD is required")
}

func runLogin(ctx context.Context) error {
	pw, err := passwordFromFlagOrEnv()
	if err != nil {
		return err
	}
	g, err := newGateway()
	if err != nil {
		return err
	}

	user, err := g.Login(ctx, email, pw)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if jsonOutput {
		return printJSON(user)
	}
	fmt.Printf("Logged in as %s (%s)\n", user.Username, user.Role)
	return nil
}

func runRegister(ctx context.Context) error {
	pw, err := passwordFromFlagOrEnv()
	if err != nil {
		return err
	}
	g, err := newGateway()
	if err != nil {
		return err
	}

	user, err := g.Register(ctx, username, email, pw)
	if err != nil {
		return fmt.Errorf("register failed: %w", err)
	}
	if jsonOutput {
		return printJSON(user)
	}
	fmt.Printf("Registered and logged in as %s\n", user.Username)
	return nil
}

func runMe(ctx context.Context) error {
	g, err := newGateway()
	if err != nil {
		return err
	}
	if !g.CheckAuth(ctx) {
		return fmt.Errorf("not logged in")
	}

	user := g.Session.User()
	if jsonOutput {
		return printJSON(user)
	}
	fmt.Printf("%s <%s> %s\n", user.Username, user.Email, user.Role)
	return nil
}
