package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	domainauth "github.com/target/pos-console/internal/domain/auth"
	"github.com/target/pos-console/internal/service"
)

type loginOptions struct {
	User     string
	Password string
}

func parseLoginFlags(args []string) (loginOptions, error) {
	var opts loginOptions
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.User, "user", "", "username")
	fs.StringVar(&opts.Password, "password", "", "password (prefer POS_PASSWORD or stdin)")
	if err := fs.Parse(args); err != nil {
		return opts, fmt.Errorf("parse login flags: %w", err)
	}
	opts.User = strings.TrimSpace(opts.User)
	if opts.User == "" && fs.NArg() > 0 {
		opts.User = strings.TrimSpace(fs.Arg(0))
	}
	if opts.User == "" {
		return opts, errors.New("-user is required")
	}
	return opts, nil
}

// readPassword takes the first line of r.
func readPassword(r io.Reader) (string, error) {
	if r == nil {
		return "", errors.New("password is required")
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is required")
	}
	return line, nil
}

func runLogin(cmdCtx *commandContext, args []string) error {
	opts, err := parseLoginFlags(args)
	if err != nil {
		return err
	}
	password := opts.Password
	if password == "" {
		password = os.Getenv("POS_PASSWORD")
	}
	if password == "" {
		if password, err = readPassword(cmdCtx.In); err != nil {
			return err
		}
	}

	p, err := cmdCtx.Svc.Session.Login(cmdCtx.Ctx, opts.User, password)
	if err != nil {
		return err
	}
	if err := writef(cmdCtx.Out, "Signed in as %s (%s)\n", p.DisplayName(), roleName(p.Role)); err != nil {
		return err
	}
	return printContext(cmdCtx.Out, cmdCtx.Svc.Session.Context())
}

func runLogout(cmdCtx *commandContext, _ []string) error {
	wasSignedIn := cmdCtx.Svc.Session.Status() == service.StatusAuthenticated
	if err := cmdCtx.Svc.Session.Logout(cmdCtx.Ctx); err != nil {
		return err
	}
	if !wasSignedIn {
		return writeln(cmdCtx.Out, "Not signed in")
	}
	return writeln(cmdCtx.Out, "Signed out")
}

func runWhoami(cmdCtx *commandContext, _ []string) error {
	p := cmdCtx.Svc.Session.Principal()
	if p == nil {
		return service.ErrNotAuthenticated
	}
	t := newTable(cmdCtx.Out, "FIELD", "VALUE")
	t.row("id", p.ID)
	t.row("username", p.Username)
	t.row("name", p.DisplayName())
	t.row("email", fallback(p.Email, "-"))
	t.row("role", roleName(p.Role))
	t.row("partner", partnerLabel(p.Partner))
	t.row("assigned store", storeLabel(p.AssignedStore))
	t.row("default store", storeLabel(p.DefaultStore))
	return t.flush()
}

func runStatus(cmdCtx *commandContext, _ []string) error {
	svc := cmdCtx.Svc
	if svc.Session.Status() != service.StatusAuthenticated {
		return writeln(cmdCtx.Out, "Not signed in")
	}
	if err := writef(cmdCtx.Out, "Signed in as %s\n", svc.Session.Principal().Username); err != nil {
		return err
	}
	if err := printContext(cmdCtx.Out, svc.Session.Context()); err != nil {
		return err
	}
	if err := writeln(cmdCtx.Out, tokenExpiry(svc.Session.Credentials(), time.Now())); err != nil {
		return err
	}

	selected, err := svc.Selector.Ensure(cmdCtx.Ctx)
	if err != nil {
		cmdCtx.Logger.WarnContext(cmdCtx.Ctx, "load store filter", "error", err)
		return nil
	}
	return writef(cmdCtx.Out, "store filter: %s\n", storeLabel(selected))
}

func runWatch(cmdCtx *commandContext, _ []string) error {
	if err := writeln(cmdCtx.Out, "Watching session changes; interrupt to stop"); err != nil {
		return err
	}
	return cmdCtx.Svc.Run(cmdCtx.Ctx, func(snap service.Snapshot) {
		ec := snap.Context
		user := "-"
		if snap.Principal != nil {
			user = snap.Principal.Username
		}
		line := fmt.Sprintf("status=%s user=%s state=%s partner=%d store=%d",
			snap.Status, user, ec.State, ec.PartnerID, ec.StoreID)
		if err := writeln(cmdCtx.Out, line); err != nil {
			cmdCtx.Logger.WarnContext(cmdCtx.Ctx, "print session change", "error", err)
		}
	})
}

func tokenExpiry(pair domainauth.CredentialPair, now time.Time) string {
	switch {
	case pair.ExpiresAt.IsZero():
		return "token expires: unknown"
	case pair.Expired(now):
		return "token expired: " + pair.ExpiresAt.UTC().Format(time.RFC3339) + "; sign in again"
	default:
		return "token expires: " + pair.ExpiresAt.UTC().Format(time.RFC3339)
	}
}

func fallback(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
