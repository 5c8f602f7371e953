// Package main provides the kopikeliling maintenance CLI.
// Usage: kopictl seed --driver sqlite --sqlite-path data/kopikeliling.db
//        kopictl backup -o backup.json.zst
//        kopictl restore backup.json.zst
//        kopictl summary --month 2026-10
//        kopictl hash-password
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
