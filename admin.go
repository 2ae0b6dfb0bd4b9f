package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/codingcraftz/wedding/guestbook"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Operator commands work on the database directly and skip the per-message
// password check.

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Inspect and moderate guestbook messages",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		if err := initDatabase(viper.GetString("database.path")); err != nil {
			return err
		}
		return initGuestbook()
	},
}

var listMessagesCmd = &cobra.Command{
	Use:   "list",
	Short: "List every message, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		messages, err := repo.List(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCREATED\tAUTHOR\tMESSAGE")
		for _, m := range messages {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, m.CreatedAt.Format("2006-01-02 15:04"), m.Author, preview(m.Body, 40))
		}
		return tw.Flush()
	},
}

var deleteMessageCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete messages without their password",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var failed int
		for _, id := range args {
			if err := repo.Delete(cmd.Context(), id); err != nil {
				color.New(color.FgRed).Fprintf(os.Stderr, "%s: %v\n", id, err)
				failed++
				continue
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d deletes failed", failed, len(args))
		}
		return nil
	},
}

var hashSecretCmd = &cobra.Command{
	Use:   "hash-secret <secret>",
	Short: "Print the bcrypt hash to use as guestbook.override_secret_hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := guestbook.HashSecret(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	messagesCmd.AddCommand(listMessagesCmd, deleteMessageCmd)
	rootCmd.AddCommand(messagesCmd, hashSecretCmd)
}

func preview(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
