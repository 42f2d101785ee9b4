package main

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/vulcanent/vulcanweb/internal/service"
)

var mailCmd = &cobra.Command{
	Use:   "mail",
	Short: "Mail delivery tools",
}

var mailTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test email with the configured SMTP settings",
	Long: `Send a test email with the configured SMTP settings.

Example:
  vulcan mail test                       # send to RECIPIENT_EMAIL
  vulcan mail test --to ops@example.com  # send somewhere else`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		if to, _ := cmd.Flags().GetString("to"); to != "" {
			cfg.Mail.Recipient = to
		}
		cfg.Mail.SuppressSend = false

		mailer := service.NewMailService(cfg.Mail)
		email := service.Email{
			Subject: "Vulcan website test email",
			Body:    fmt.Sprintf("This is a test email sent at %s.\n", time.Now().UTC().Format(time.RFC1123)),
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Mail.Timeout+5*time.Second)
		defer cancel()

		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
		s.Suffix = fmt.Sprintf(" Sending test email to %s via %s:%d...", cfg.Mail.Recipient, cfg.Mail.Server, cfg.Mail.Port)
		s.Start()
		err = mailer.Send(ctx, email)
		s.Stop()

		if err != nil {
			logger.Error("Failed to send test email: %v", err)
			return err
		}
		fmt.Printf("Test email sent to %s\n", cfg.Mail.Recipient)
		return nil
	},
}

func init() {
	mailCmd.AddCommand(mailTestCmd)
	mailTestCmd.Flags().String("to", "", "Recipient address (default: RECIPIENT_EMAIL)")
}
