package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/target/pos-console/internal/service"
)

// parseID reads a positive numeric ID argument.
func parseID(what, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, raw)
	}
	return id, nil
}

func singleID(what string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected exactly one %s id", what)
	}
	return parseID(what, args[0])
}

func runPartners(cmdCtx *commandContext, args []string) error {
	search := strings.Join(args, " ")
	partners, err := cmdCtx.Svc.Catalog.Partners(cmdCtx.Ctx, search)
	if err != nil {
		return err
	}
	if len(partners) == 0 {
		return writeln(cmdCtx.Out, "(no partners)")
	}
	t := newTable(cmdCtx.Out, "ID", "CODE", "NAME", "ACTIVE")
	for _, p := range partners {
		t.row(p.ID, p.Code, p.Name, yesNo(p.IsActive))
	}
	return t.flush()
}

func runImpersonatePartner(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("impersonate-partner", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	switchFirst := fs.Bool("switch", false, "leave the current partner first")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse impersonate-partner flags: %w", err)
	}
	partnerID, err := singleID("partner", fs.Args())
	if err != nil {
		return err
	}

	imp := cmdCtx.Svc.Impersonation
	var snap service.Snapshot
	if *switchFirst {
		snap, err = imp.SwitchPartner(cmdCtx.Ctx, partnerID)
	} else {
		snap, err = imp.EnterPartner(cmdCtx.Ctx, partnerID)
	}
	if err != nil {
		return err
	}
	if err := writef(cmdCtx.Out, "Now acting for %s\n", partnerLabel(snap.Context.Partner)); err != nil {
		return err
	}
	return printContext(cmdCtx.Out, snap.Context)
}

func runImpersonateStore(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("impersonate-store", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	partnerFlag := fs.Int64("partner", 0, "partner owning the store (defaults to the current partner)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse impersonate-store flags: %w", err)
	}
	storeID, err := singleID("store", fs.Args())
	if err != nil {
		return err
	}
	partnerID := *partnerFlag
	if partnerID == 0 {
		partnerID = cmdCtx.Svc.Session.Context().PartnerID
	}
	if partnerID == 0 {
		return errors.New("no partner in context; pass -partner or impersonate a partner first")
	}

	snap, err := cmdCtx.Svc.Impersonation.EnterStore(cmdCtx.Ctx, partnerID, storeID)
	if err != nil {
		return err
	}
	if err := writef(cmdCtx.Out, "Now acting in %s\n", storeLabel(snap.Context.Store)); err != nil {
		return err
	}
	return printContext(cmdCtx.Out, snap.Context)
}

func runExitStore(cmdCtx *commandContext, _ []string) error {
	snap, err := cmdCtx.Svc.Impersonation.ExitStore(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	if err := writeln(cmdCtx.Out, "Left store impersonation"); err != nil {
		return err
	}
	return printContext(cmdCtx.Out, snap.Context)
}

func runExitPartner(cmdCtx *commandContext, _ []string) error {
	snap, err := cmdCtx.Svc.Impersonation.ExitPartner(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	if err := writeln(cmdCtx.Out, "Left partner impersonation"); err != nil {
		return err
	}
	return printContext(cmdCtx.Out, snap.Context)
}

func runStores(cmdCtx *commandContext, _ []string) error {
	stores, selected, err := cmdCtx.Svc.Catalog.Stores(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	if len(stores) == 0 {
		return writeln(cmdCtx.Out, "(no stores)")
	}
	t := newTable(cmdCtx.Out, "", "ID", "CODE", "NAME", "ACTIVE", "DEFAULT")
	for _, st := range stores {
		mark := ""
		if selected != nil && selected.ID == st.ID {
			mark = "*"
		}
		t.row(mark, st.ID, st.Code, st.Name, yesNo(st.IsActive), yesNo(st.IsDefault))
	}
	return t.flush()
}

func runSelectStore(cmdCtx *commandContext, args []string) error {
	storeID, err := singleID("store", args)
	if err != nil {
		return err
	}
	selected, err := cmdCtx.Svc.Selector.Select(cmdCtx.Ctx, storeID)
	if err != nil {
		return err
	}
	return writef(cmdCtx.Out, "Store filter set to %s\n", storeLabel(selected))
}
