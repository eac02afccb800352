package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"newsbalance/internal/api"
	"newsbalance/internal/validate"
)

func newContactCmd(app *App) *cobra.Command {
	var (
		name     string
		email    string
		subject  string
		message  string
		kind     string
		priority string
		files    []string
	)

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Submit a support ticket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var sizes []int64
			for _, path := range files {
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("cannot read attachment %s: %w", path, err)
				}
				sizes = append(sizes, info.Size())
			}

			form := validate.ContactForm{
				Name: name, Email: email, Subject: subject, Message: message,
				FileSizes: sizes,
			}
			if errs := validate.Contact(form); !errs.Valid() {
				printFieldErrors(app, errs)
				return fmt.Errorf("invalid input")
			}

			req := api.ContactRequest{
				Name: name, Email: email, Subject: subject, Message: message,
				Type: kind, Priority: priority,
			}
			for _, path := range files {
				content, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("cannot read attachment %s: %w", path, err)
				}
				req.Files = append(req.Files, api.Attachment{
					Filename: filepath.Base(path),
					Content:  content,
				})
			}

			ticketID, err := app.API.SubmitContact(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Println(app.T.Tf("contact.success", map[string]string{"ticketId": ticketID}))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().StringVar(&email, "email", "", "your email")
	cmd.Flags().StringVar(&subject, "subject", "", "ticket subject")
	cmd.Flags().StringVar(&message, "message", "", "ticket body")
	cmd.Flags().StringVar(&kind, "type", "general", "ticket type: error, suggestion or general")
	cmd.Flags().StringVar(&priority, "priority", "medium", "priority: low, medium or high")
	cmd.Flags().StringSliceVar(&files, "file", nil, "attachment path (repeatable, max 3, 5MB each)")
	return cmd
}
