package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/jonathan/recruit-tracker/internal/config"
	"github.com/spf13/cobra"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Hash an operator password for the config file",
	Long: `Reads a password from the first line of stdin and prints the bcrypt hash to
paste into an operator's password_hash. BCRYPT_COST and PASSWORD_PEPPER must
match the values the server runs with.`,
	RunE: runHashPassword,
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}

func runHashPassword(cmd *cobra.Command, _ []string) error {
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("failed to read password from stdin: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")

	hash, err := passwordConfig.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
	return err
}
