// gdfcli is a terminal front door to the management API. It drives the same
// session store, access gate, and auth client the dashboard runs, so a full
// sign-in / sign-out / password-reset cycle can be exercised from a shell.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/globaldevelopmentfuture/gdfuture-management/internal/api"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/authclient"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/config"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/gate"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/session"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/team"
	"github.com/globaldevelopmentfuture/gdfuture-management/pkg/logger"
)

const usage = `usage: gdfcli <command> [args]

commands:
  login <email> <password>            sign in and persist the session
  logout                              clear the session
  whoami                              show the persisted session
  members                             list team members (requires a session)
  reset-request <email>               request a password reset link
  reset-validate <token>              check whether a reset token is still good
  reset-confirm <token> <new> <new>   set a new password with a reset token
  check-route <path>                  show the render mode the gate picks
`

// terminalNotifier prints store notices the way the dashboard toasts them.
type terminalNotifier struct{}

func (terminalNotifier) Notify(kind, title, message string) {
	fmt.Printf("[%s] %s: %s\n", kind, title, message)
}

// terminalNavigator just reports where the app would route to.
type terminalNavigator struct{}

func (terminalNavigator) Navigate(path string) {
	fmt.Printf("-> %s\n", path)
}

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	store := session.NewStore(
		session.NewFileStorage(cfg.Client.StateDir),
		session.WithNotifier(terminalNotifier{}),
		session.WithNavigator(terminalNavigator{}),
		session.WithSignoutDelay(cfg.Client.SignoutDelay),
	)
	store.Restore()

	transport := api.NewClient(cfg.Client.APIBaseURL, store, api.WithTimeout(cfg.Client.HTTPTimeout))
	auth := authclient.New(transport)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, os.Args[1], os.Args[2:], cfg, store, transport, auth); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string, cfg *config.Config, store *session.Store, transport *api.Client, auth *authclient.Client) error {
	switch cmd {
	case "login":
		if len(args) != 2 {
			return errors.New("login needs <email> <password>")
		}
		sess, err := auth.Login(ctx, args[0], args[1])
		if err != nil {
			if errors.Is(err, authclient.ErrInvalidCredentials) {
				return fmt.Errorf("sign-in rejected: %w", err)
			}
			return err
		}
		if err := store.Commit(*sess); err != nil {
			return fmt.Errorf("session saved in memory but not on disk: %w", err)
		}
		fmt.Printf("signed in as %s <%s>\n", sess.FullName, sess.Email)
		return nil

	case "logout":
		store.Clear()
		// let the delayed navigation fire before the process exits
		time.Sleep(cfg.Client.SignoutDelay + 100*time.Millisecond)
		return nil

	case "whoami":
		sess := store.Current()
		if !sess.Authenticated() {
			fmt.Println("not signed in")
			return nil
		}
		out, err := json.MarshalIndent(sess, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil

	case "members":
		members, err := team.New(transport).List(ctx)
		if err != nil {
			return err
		}
		for _, m := range members {
			role := "-"
			if m.UserRole != nil {
				role = string(*m.UserRole)
			}
			fmt.Printf("%4d  %-10s %-25s %s\n", m.ID, role, m.Email, m.FullName)
		}
		return nil

	case "reset-request":
		if len(args) != 1 {
			return errors.New("reset-request needs <email>")
		}
		msg, err := auth.RequestPasswordReset(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil

	case "reset-validate":
		if len(args) != 1 {
			return errors.New("reset-validate needs <token>")
		}
		fmt.Println(auth.ValidateResetToken(ctx, args[0]))
		return nil

	case "reset-confirm":
		if len(args) != 3 {
			return errors.New("reset-confirm needs <token> <new-password> <confirm-password>")
		}
		msg, err := auth.ResetPassword(ctx, args[0], args[1], args[2])
		if err != nil {
			if errors.Is(err, authclient.ErrPasswordMismatch) {
				return errors.New("passwords do not match")
			}
			return err
		}
		fmt.Println(msg)
		return nil

	case "check-route":
		if len(args) != 1 {
			return errors.New("check-route needs <path>")
		}
		g := gate.New()
		done := make(chan gate.Mode, 4)
		g.Subscribe(func(m gate.Mode) {
			if m != gate.ModeResolving {
				done <- m
			}
		})
		g.Navigate(args[0])
		select {
		case m := <-done:
			fmt.Printf("%s renders as %s\n", args[0], m)
		case <-time.After(time.Second):
			return errors.New("gate did not resolve")
		}
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}
