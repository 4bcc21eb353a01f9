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
		Use:   "fleetledger-cli",
		Short: "FleetLedger CLI tool",
		Long:  `A command line interface for interacting with the FleetLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the FleetLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Audit client outstanding balances against unpaid builties",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}

	ledgerCmd.AddCommand(consistencyCmd)
	rootCmd.AddCommand(ledgerCmd)

	// Builty commands
	builtyCmd := &cobra.Command{
		Use:   "builty",
		Short: "Builty operations",
	}

	overdueCmd := &cobra.Command{
		Use:   "overdue",
		Short: "List builties past their due date with an unpaid balance",
		Run: func(cmd *cobra.Command, args []string) {
			listOverdue()
		},
	}

	builtyCmd.AddCommand(overdueCmd)
	rootCmd.AddCommand(builtyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func checkConsistency() {
	body := getJSON("/api/v1/ledger/consistency")

	var result struct {
		Consistent bool `json:"consistent"`
		Clients    []struct {
			ClientID   string `json:"client_id"`
			Recorded   string `json:"recorded"`
			Calculated string `json:"calculated"`
			Difference string `json:"difference"`
			Consistent bool   `json:"consistent"`
		} `json:"clients"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if result.Consistent {
		fmt.Printf("Consistency check PASSED (%d clients audited)\n", len(result.Clients))
		return
	}

	fmt.Println("Consistency check FAILED")
	for _, c := range result.Clients {
		if c.Consistent {
			continue
		}
		fmt.Printf("  client %s: recorded %s, calculated %s, drift %s\n",
			c.ClientID, c.Recorded, c.Calculated, c.Difference)
	}
	os.Exit(1)
}

func listOverdue() {
	body := getJSON("/api/v1/reports/builties/overdue")

	var result struct {
		Builties []struct {
			ID            string `json:"id"`
			BuiltyNumber  string `json:"builty_number"`
			ClientID      string `json:"client_id"`
			BalanceAmount string `json:"balance_amount"`
			DueDate       string `json:"due_date"`
		} `json:"builties"`
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if result.Total == 0 {
		fmt.Println("No overdue builties")
		return
	}

	fmt.Printf("%d overdue builties:\n", result.Total)
	for _, b := range result.Builties {
		fmt.Printf("  %s  client %s  balance %s  due %s\n",
			b.BuiltyNumber, b.ClientID, b.BalanceAmount, b.DueDate)
	}
}

func getJSON(path string) []byte {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}
