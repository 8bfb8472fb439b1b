package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"catalog-admin/internal/service"
)

func newHashPasswordCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print the bcrypt hash for OPERATOR_PASSWORD_HASH",
		Long: `Print the bcrypt hash for OPERATOR_PASSWORD_HASH.

The password is read from --password or, if absent, from the first line of stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given on --password or stdin")
				}
				password = strings.TrimRight(line, "\r\n")
			}
			hash, err := service.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Operator password")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		hours   int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator token signed with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			authService, err := service.NewAuthService("", os.Getenv("JWT_SECRET"), hours)
			if err != nil {
				return fmt.Errorf("JWT_SECRET must be set: %w", err)
			}
			token, err := authService.IssueToken(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", service.OperatorSubject, "Token subject")
	cmd.Flags().IntVar(&hours, "expiry-hours", 24, "Hours until the token expires")
	return cmd
}
