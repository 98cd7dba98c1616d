package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	domainauth "github.com/target/pos-console/internal/domain/auth"
	"github.com/target/pos-console/internal/domain/tenancy"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}

// table buffers rows and aligns them on flush.
type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer, header ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	t.row(anySlice(header)...)
	return t
}

func (t *table) row(cells ...any) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprint(c)
	}
	// Errors surface on flush.
	_, _ = io.WriteString(t.tw, strings.Join(parts, "\t")+"\n")
}

func (t *table) flush() error {
	return t.tw.Flush()
}

func anySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// money renders an API decimal string with locale grouping and two decimals.
// Unparseable values are shown as received.
func money(p *message.Printer, amount string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		return amount
	}
	return p.Sprint(number.Decimal(v, number.Scale(2)))
}

func count(p *message.Printer, n int) string {
	return p.Sprint(number.Decimal(n))
}

func roleName(r domainauth.Role) string {
	if r == nil {
		return "-"
	}
	return r.String()
}

func partnerLabel(p *domainauth.PartnerRef) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%s (#%d)", p.Name, p.ID)
}

func storeLabel(s *domainauth.StoreRef) string {
	if s == nil {
		return "-"
	}
	return fmt.Sprintf("%s (#%d)", s.Name, s.ID)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// printContext writes the effective context as aligned key/value lines.
func printContext(w io.Writer, ec tenancy.EffectiveContext) error {
	t := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	lines := [][2]string{
		{"role", roleName(ec.Role)},
		{"state", ec.State.String()},
		{"partner", partnerLabel(ec.Partner)},
		{"store", storeLabel(ec.Store)},
		{"impersonating partner", yesNo(ec.IsImpersonatingPartner)},
		{"impersonating store", yesNo(ec.IsImpersonatingStore)},
		{"can use pos", yesNo(ec.CanUsePOS())},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(t, "%s:\t%s\n", l[0], l[1]); err != nil {
			return err
		}
	}
	return t.Flush()
}
