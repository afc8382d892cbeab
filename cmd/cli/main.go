package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

// bcryptGenerate is a seam for tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:   "teller-cli",
		Short: "Teller CLI tool",
		Long:  `A command line interface for interacting with the Teller banking API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Teller API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("TELLER_TOKEN"), "Session token (defaults to TELLER_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication operations",
	}
	authCmd.AddCommand(registerCmd(), loginCmd(), logoutCmd())

	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}
	accountsCmd.AddCommand(createAccountCmd(), listAccountsCmd(), getAccountCmd(), depositCmd(), withdrawCmd(), historyCmd())

	bankerCmd := &cobra.Command{
		Use:   "banker",
		Short: "Banker read-only operations",
	}
	bankerCmd.AddCommand(listCustomersCmd(), searchCustomersCmd(), listAllAccountsCmd(), bankerHistoryCmd())

	rootCmd.AddCommand(authCmd, accountsCmd, bankerCmd, healthCmd(), hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func registerCmd() *cobra.Command {
	var email, fullName string

	cmd := &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Register a new customer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/auth/register", map[string]string{
				"username":  args[0],
				"password":  args[1],
				"email":     email,
				"full_name": fullName,
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&fullName, "full-name", "", "Full name")

	return cmd
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Log in and print a session token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/auth/login", map[string]string{
				"username": args[0],
				"password": args[1],
			})
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/auth/logout", nil)
		},
	}
}

func createAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Open a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/accounts", nil)
		},
	}
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/accounts", nil)
		},
	}
}

func getAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <account-id>",
		Short: "Show one of your accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/accounts/"+args[0], nil)
		},
	}
}

func depositCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "deposit <account-id> <amount>",
		Short: "Deposit money into an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/accounts/"+args[0]+"/deposit", map[string]string{
				"amount":      args[1],
				"description": description,
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Transaction description")

	return cmd
}

func withdrawCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "withdraw <account-id> <amount>",
		Short: "Withdraw money from an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/accounts/"+args[0]+"/withdraw", map[string]string{
				"amount":      args[1],
				"description": description,
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Transaction description")

	return cmd
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <account-id>",
		Short: "Show an account's transaction history, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/accounts/"+args[0]+"/transactions", nil)
		},
	}
}

func listCustomersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "customers",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/banker/customers", nil)
		},
	}
}

func searchCustomersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search customers by name or email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/banker/customers/search?q="+args[0], nil)
		},
	}
}

func listAllAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List all accounts with owner info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/banker/accounts", nil)
		},
	}
}

func bankerHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <account-id>",
		Short: "Show any account's transaction history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/banker/accounts/"+args[0]+"/transactions", nil)
		},
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check service readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/ready", nil)
		},
	}
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Hash a password for seeding banker users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}

// call sends one request to the API and prints the JSON response.
func call(method, path string, payload any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if len(respBody) > 0 {
		var parsed any
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			fmt.Println(truncate(string(respBody), 500))
		} else {
			printJSON(parsed)
		}
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render response: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
