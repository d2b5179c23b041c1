package cli

import (
	"fmt"

	"FoodDelivery/internal/model"

	"github.com/spf13/cobra"
)

func newRegisterCmd(a *app) *cobra.Command {
	var input model.RegisterInput
	var phone, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and start a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := a.password(password)
			if err != nil {
				return err
			}
			input.Password = pass
			if phone != "" {
				input.Phone = &phone
			}

			user, err := a.client.Register(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Registered as %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.Name, "name", "", "display name")
	cmd.Flags().StringVar(&input.Email, "email", "", "email")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := a.password(password)
			if err != nil {
				return err
			}
			user, err := a.client.Login(cmd.Context(), email, pass)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Logged in as %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and forget the stored tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "Logged out")
			return nil
		},
	}
}

func newMeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "#%d %s <%s>", user.Id, user.Name, user.Email)
			if user.Phone != nil {
				fmt.Fprintf(a.stdout, " %s", *user.Phone)
			}
			fmt.Fprintln(a.stdout)
			return nil
		},
	}
}

func newRefreshCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Obtain a new access token with the stored refresh token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Refresh(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "Access token refreshed")
			return nil
		},
	}
}
