package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"newsbalance/internal/api"
	"newsbalance/internal/validate"
)

func newLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Log in to NewsBalance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[0]

			fmt.Print("Password: ")
			reader := bufio.NewReader(os.Stdin)
			password, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = strings.TrimRight(password, "\r\n")

			if errs := validate.Login(email, password); !errs.Valid() {
				printFieldErrors(app, errs)
				return fmt.Errorf("invalid input")
			}

			user, err := app.API.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("%s: %w", app.T.T("login.failed"), err)
			}
			app.Session.Login(*user)

			fmt.Println(app.T.Tf("login.success", map[string]string{"nickname": user.Nickname}))
			return nil
		},
	}
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.API.Logout(cmd.Context()); err != nil {
				app.Logger.Warn("server logout failed", "error", err)
			}
			app.Session.Logout()
			fmt.Println(app.T.T("logout.success"))
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, ok := app.Session.User()
			if !ok {
				fmt.Println(app.T.T("room.loginRequired"))
				return nil
			}
			fmt.Printf("%s <%s>\n", user.Nickname, user.Email)
			return nil
		},
	}
}

func newSignupCmd(app *App) *cobra.Command {
	var (
		nickname  string
		birthDate string
		phone     string
		agree     bool
	)

	cmd := &cobra.Command{
		Use:   "signup <email>",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[0]
			ctx := cmd.Context()

			reader := bufio.NewReader(os.Stdin)
			fmt.Print("Password: ")
			password, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = strings.TrimRight(password, "\r\n")

			fmt.Print("Confirm password: ")
			confirm, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			confirm = strings.TrimRight(confirm, "\r\n")

			form := validate.SignupForm{
				Email:           email,
				Nickname:        nickname,
				Password:        password,
				PasswordConfirm: confirm,
				BirthDate:       birthDate,
				Phone:           phone,
				AgreedTerms:     agree,
			}
			if errs := validate.Signup(form, time.Now()); !errs.Valid() {
				printFieldErrors(app, errs)
				return fmt.Errorf("invalid input")
			}

			fmt.Printf("Password strength: %s\n", validate.PasswordStrength(password))

			available, err := app.API.CheckEmail(ctx, email)
			if err != nil {
				return err
			}
			if !available {
				return fmt.Errorf("%s", app.T.T("signup.emailTaken"))
			}

			if err := app.API.SendCode(ctx, email); err != nil {
				return err
			}
			fmt.Print("Verification code: ")
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read code: %w", err)
			}
			verified, err := app.API.VerifyCode(ctx, email, strings.TrimRight(code, "\r\n"))
			if err != nil {
				return err
			}
			if !verified {
				return fmt.Errorf("verification failed")
			}

			if err := app.API.Register(ctx, registerRequest(form)); err != nil {
				return err
			}
			fmt.Println(app.T.T("signup.success"))
			return nil
		},
	}

	cmd.Flags().StringVar(&nickname, "nickname", "", "nickname (2-12 characters)")
	cmd.Flags().StringVar(&birthDate, "birthdate", "", "birth date, YYYY-MM-DD")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number (010-XXXX-XXXX)")
	cmd.Flags().BoolVar(&agree, "agree-terms", false, "accept the required terms")
	return cmd
}

func newResetPasswordCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <email>",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[0]
			if errs := validate.Reset(email); !errs.Valid() {
				printFieldErrors(app, errs)
				return fmt.Errorf("invalid input")
			}

			err := app.API.PasswordReset(cmd.Context(), email)
			switch {
			case err == nil:
				fmt.Println(app.T.T("reset.success"))
				return nil
			case isEmailNotFound(err):
				fmt.Println(app.T.T("reset.notFound"))
				return nil
			default:
				return err
			}
		},
	}
}

func registerRequest(form validate.SignupForm) api.RegisterRequest {
	return api.RegisterRequest{
		Email:     form.Email,
		Password:  form.Password,
		Nickname:  form.Nickname,
		BirthDate: form.BirthDate,
		Phone:     form.Phone,
	}
}

func isEmailNotFound(err error) bool {
	return errors.Is(err, api.ErrEmailNotFound)
}

func printFieldErrors(app *App, errs validate.FieldErrors) {
	for field, key := range errs {
		fmt.Printf("  %s: %s\n", field, app.T.T(key))
	}
}
