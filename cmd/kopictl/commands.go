package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"kopikeliling/internal/domain/auth"
	"kopikeliling/internal/domain/ledger"
	"kopikeliling/internal/domain/reports"
	"kopikeliling/internal/infrastructure/archive"
)

func init() {
	rootCmd.AddCommand(seedCmd, backupCmd, restoreCmd, summaryCmd, hashPasswordCmd)

	backupCmd.Flags().StringP("out", "o", "", "output file (default kopikeliling-<timestamp>"+archive.Extension+")")
	summaryCmd.Flags().String("month", "", "month as YYYY-MM (default current month)")
	hashPasswordCmd.Flags().Int("min-length", auth.DefaultServiceConfig().PasswordMinLength, "minimum password length")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the default catalogs to an empty store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()
		if err := s.store.Seed(ctx); err != nil {
			return err
		}
		snap := s.store.Snapshot()
		fmt.Fprintf(cmd.OutOrStdout(), "seeded: %d products, %d riders, %d transactions\n",
			len(snap.Products), len(snap.Riders), len(snap.Transactions))
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export every collection to a compressed backup file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = "kopikeliling-" + time.Now().Format("20060102-150405") + archive.Extension
		}
		b, err := s.store.Export(ctx)
		if err != nil {
			return err
		}
		if err := archive.WriteFile(out, b); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "backup written to %s (%d collections)\n", out, len(b.Collections))
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore FILE",
	Short: "Replace the collections present in a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := archive.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read backup: %w", err)
		}
		ctx, s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()
		restored, err := s.store.Restore(ctx, b)
		if err != nil {
			return err
		}
		names := make([]string, len(restored))
		for i, c := range restored {
			names[i] = string(c)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "restored: %s\n", strings.Join(names, ", "))
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the monthly summary as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()
		month, _ := cmd.Flags().GetString("month")
		if month == "" {
			month = ledger.MonthKey(time.Now())
		}
		sum, err := reports.NewService(s.store, s.policy).Summary(ctx, month)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Read a password from stdin and print its bcrypt hash for OWNER_PASSWORD_HASH",
	RunE: func(cmd *cobra.Command, _ []string) error {
		minLen, _ := cmd.Flags().GetInt("min-length")
		fmt.Fprint(os.Stderr, "password: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		hash, err := auth.HashPassword(strings.TrimRight(line, "\r\n"), minLen)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}
