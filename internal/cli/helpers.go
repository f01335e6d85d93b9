package cli

import (
	"context"
	"encoding/json"
	"io"
	"errors"
	"net"
	"net/url"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/masomo/roster/internal/api"
	"github.com/masomo/roster/internal/config"
	"github.com/masomo/roster/internal/logging"
	"github.com/masomo/roster/internal/ui"
	"github.com/masomo/roster/internal/util"
)

// env is what most commands need: config, stored session and a logger.
type env struct {
	cfg     *config.Config
	session *config.Session
	log     *zap.Logger
	apiURL  string
}

// loadEnv reads config and session and resolves the API URL. Precedence:
// --api-url, then config (including ROSTER_API_URL), then the URL the
// session was created against.
func loadEnv(cmd *cobra.Command) (*env, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	log, err := logging.New(verbose)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, util.NewError("Failed to load config").
			WithContext(util.ConfigPath()).
			Wrap(err)
	}

	session, err := config.LoadSession()
	if err != nil {
		return nil, util.NewError("Failed to read session").
			WithContext(util.SessionPath()).
			WithSuggestion("roster logout  # Start over").
			Wrap(err)
	}

	e := &env{cfg: cfg, session: session, log: log}
	if flagURL, _ := cmd.Flags().GetString("api-url"); flagURL != "" {
		e.apiURL = flagURL
	} else if cfg.API.URL != "" {
		e.apiURL = cfg.API.URL
	} else {
		e.apiURL = session.APIURL
	}
	return e, nil
}

// client builds an API client. With authed set the stored token is required.
func (e *env) client(authed bool) (*api.Client, error) {
	if e.apiURL == "" {
		return nil, util.NoAPIURLError()
	}
	token := ""
	if authed {
		if !e.session.Valid() {
			return nil, util.NotLoggedInError()
		}
		token = e.session.Token
	}
	c, err := api.New(api.Options{
		BaseURL: e.apiURL,
		Token:   token,
		Timeout: e.cfg.RequestTimeout(),
		Logger:  e.log,
	})
	if err != nil {
		return nil, util.NewError("Invalid API URL").
			WithContext(e.apiURL).
			WithSuggestion("roster config api.url https://school.example.cd").
			Wrap(err)
	}
	return c, nil
}

// apiError turns client errors into structured errors the user can act on.
func (e *env) apiError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, util.ErrNotLoggedIn):
		return util.NotLoggedInError()
	case errors.Is(err, util.ErrNoAPIURL):
		return util.NoAPIURLError()
	case api.IsUnauthorized(err):
		return util.SessionExpiredError(err)
	case unreachable(err):
		return util.APIUnreachableError(e.apiURL, err)
	}
	return err
}

// sessionOrNetwork reports errors that no retry with other input would fix.
func sessionOrNetwork(err error) bool {
	return errors.Is(err, util.ErrNotLoggedIn) || api.IsUnauthorized(err) || unreachable(err)
}

func unreachable(err error) bool {
	var netErr net.Error
	var urlErr *url.Error
	return errors.As(err, &netErr) || errors.As(err, &urlErr)
}

// withTimeout returns a context bounded by the configured API timeout.
func (e *env) withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(commandContext(cmd), e.cfg.RequestTimeout())
}

// spin runs fn behind a spinner and reports how it went.
func spin(message string, fn func() error) error {
	s := ui.NewSpinner(message)
	s.Start()
	err := fn()
	s.Stop()
	return err
}

func isTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// commandContext makes sure cmd.Context() is usable when a command is run
// directly from tests.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
