package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "finbook-cli",
		Short: "Finbook CLI tool",
		Long:  `A command line interface for interacting with the Finbook API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Finbook API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Report commands
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Reporting operations",
	}

	reportCmd.AddCommand(trialBalanceCmd())
	reportCmd.AddCommand(consistencyCmd())
	rootCmd.AddCommand(reportCmd)

	// Account commands
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	accountCmd.AddCommand(accountBalanceCmd())
	rootCmd.AddCommand(accountCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func trialBalanceCmd() *cobra.Command {
	var asOf string
	var raw bool

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Print the trial balance",
		Run: func(cmd *cobra.Command, args []string) {
			url := baseURL + "/api/v1/reports/trial-balance"
			if asOf != "" {
				url += "?as_of=" + asOf
			}

			body, ok := get(url)
			if !ok {
				os.Exit(1)
			}

			if raw {
				var v any
				if err := json.Unmarshal(body, &v); err != nil {
					fmt.Printf("Failed to parse response: %v\n", err)
					os.Exit(1)
				}
				printJSON(v)
				return
			}

			var report trialBalanceReport
			if err := json.Unmarshal(body, &report); err != nil {
				fmt.Printf("Failed to parse response: %v\n", err)
				os.Exit(1)
			}

			printTrialBalance(report)
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "Report cutoff date (RFC 3339)")
	cmd.Flags().BoolVar(&raw, "json", false, "Print raw JSON instead of a table")

	return cmd
}

func accountBalanceCmd() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Print an account's balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			url := baseURL + "/api/v1/accounts/" + args[0] + "/balance"
			if asOf != "" {
				url += "?as_of=" + asOf
			}

			body, ok := get(url)
			if !ok {
				os.Exit(1)
			}

			var result balanceResult
			if err := json.Unmarshal(body, &result); err != nil {
				fmt.Printf("Failed to parse response: %v\n", err)
				os.Exit(1)
			}

			fmt.Println(formatBalance(result))
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "Balance cutoff date (YYYY-MM-DD or RFC 3339)")

	return cmd
}

func consistencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Run: func(cmd *cobra.Command, args []string) {
			body, ok := get(baseURL + "/api/v1/reports/consistency")
			if !ok {
				os.Exit(1)
			}

			var result struct {
				Consistent bool `json:"consistent"`
			}
			if err := json.Unmarshal(body, &result); err != nil {
				fmt.Printf("Failed to parse response: %v\n", err)
				os.Exit(1)
			}

			if !result.Consistent {
				fmt.Println("Consistency check FAILED: debits do not equal credits")
				os.Exit(1)
			}

			fmt.Println("Consistency check PASSED")
		},
	}
}

type balanceResult struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
	AsOf      string `json:"as_of,omitempty"`
}

func formatBalance(r balanceResult) string {
	if r.AsOf != "" {
		return fmt.Sprintf("%s: %s (as of %s)", r.AccountID, r.Balance, r.AsOf)
	}
	return fmt.Sprintf("%s: %s", r.AccountID, r.Balance)
}

type trialBalanceRow struct {
	Number string `json:"number"`
	Name   string `json:"name"`
	Debit  string `json:"debit"`
	Credit string `json:"credit"`
}

type trialBalanceReport struct {
	Rows        []trialBalanceRow `json:"rows"`
	TotalDebit  string            `json:"total_debit"`
	TotalCredit string            `json:"total_credit"`
}

func printTrialBalance(report trialBalanceReport) {
	fmt.Printf("%-8s %-32s %15s %15s\n", "NUMBER", "NAME", "DEBIT", "CREDIT")
	for _, row := range report.Rows {
		fmt.Printf("%-8s %-32s %15s %15s\n", row.Number, truncate(row.Name, 32), row.Debit, row.Credit)
	}
	fmt.Printf("%-8s %-32s %15s %15s\n", "", "TOTAL", report.TotalDebit, report.TotalCredit)
}

func get(url string) ([]byte, bool) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		return nil, false
	}

	return body, true
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to encode JSON: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
