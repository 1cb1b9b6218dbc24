package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/EmpoweredVote/blog-backend/internal/client"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	serverURL   string
	sessionPath string
	jsonOutput  bool
)

var rootCmd = &cobra.Command{
	Use:   "blogctl",
	Short: "Command-line client for the blog API",
	Long: `blogctl signs in to the blog API and manages posts and users.

The bearer token from "blogctl login" is kept in a session file and sent
with every later command. When the server rejects it on a protected
endpoint the session file is cleared and you are asked to log in again.

Examples:
  blogctl login --email admin@admin.com --password admin123
  blogctl posts published --page 2
  blogctl users list --json`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("BLOG_API_URL", "http://localhost:5050"), "API base URL")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", defaultSessionPath(), "Session file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// newGateway loads the session file and wires the login hint as the navigator.
func newGateway() (*client.Gateway, error) {
	session, err := client.LoadSession(sessionPath)
	if err != nil {
		return nil, err
	}
	nav := client.NavigatorFunc(func(path string) {
		if path == client.LoginPath {
			fmt.Fprintln(os.Stderr, "Session expired. Run `blogctl login` to sign in again.")
		}
	})
	return client.NewGateway(serverURL, session, nav), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".blogctl-session.json"
	}
	return filepath.Join(dir, "blogctl", "session.json")
}
