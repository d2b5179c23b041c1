// Package cli реализует консольный клиент API доставки еды. Токены сессии хранятся
// в файле и переживают перезапуск клиента.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"FoodDelivery/internal/client"

	"github.com/spf13/cobra"
)

const defaultBaseURL = "http://localhost:5000/api"

type app struct {
	baseURL   string
	tokenPath string
	timeout   time.Duration
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	client    *client.Client
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(os.Stdin, os.Stdout, os.Stderr)
}

func newRootCommand(in io.Reader, out io.Writer, errOut io.Writer) *cobra.Command {
	a := &app{
		stdin:  in,
		stdout: out,
		stderr: errOut,
	}

	cmd := &cobra.Command{
		Use:           "food-delivery",
		Short:         "Command line client for the food delivery API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	cmd.PersistentFlags().StringVar(&a.baseURL, "api", envOr("FOOD_DELIVERY_API", defaultBaseURL), "API base URL")
	cmd.PersistentFlags().StringVar(&a.tokenPath, "tokens", defaultTokenPath(), "path to the session file")
	cmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 15*time.Second, "HTTP request timeout")

	cmd.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newMeCmd(a),
		newRefreshCmd(a),
		newRestaurantsCmd(a),
		newMenuCmd(a),
		newCategoriesCmd(a),
		newOrdersCmd(a),
	)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd
}

func (a *app) init() error {
	if a.client != nil {
		return nil
	}
	c, err := client.NewClient(a.baseURL, client.NewFileStore(a.tokenPath), a.timeout)
	if err != nil {
		return err
	}
	a.client = c
	return nil
}

func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "food-delivery", "session.json")
}

func envOr(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
