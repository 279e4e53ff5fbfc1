package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/trezcool/eduhelp/core"
	"github.com/trezcool/eduhelp/core/dashboard"
	"github.com/trezcool/eduhelp/core/guard"
	"github.com/trezcool/eduhelp/core/intake"
	"github.com/trezcool/eduhelp/core/session"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf     *core.Config
	adminSvc *dashboard.AdminService
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  guard -path PATH [-email EMAIL]  - show what a visitor gets on PATH")
	fmt.Fprintln(cli.out, "  quote -service TYPE              - show the price of a service type")
	fmt.Fprintln(cli.out, "  routes                           - print the access rules")
	fmt.Fprintln(cli.out, "  overview [-q TERM]               - print the admin stats & requests")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	guardCmd := flag.NewFlagSet("guard", flag.ContinueOnError)
	guardCmd.SetOutput(cli.out)
	guardPath := guardCmd.String("path", "", "The requested path.")
	guardEmail := guardCmd.String("email", "", "The signed-in visitor's email. Anonymous when empty.")

	quoteCmd := flag.NewFlagSet("quote", flag.ContinueOnError)
	quoteCmd.SetOutput(cli.out)
	quoteService := quoteCmd.String("service", "", "One of tutoring, assignment or instant.")

	overviewCmd := flag.NewFlagSet("overview", flag.ContinueOnError)
	overviewCmd.SetOutput(cli.out)
	overviewSearch := overviewCmd.String("q", "", "Only list the requests matching this term.")

	switch args[1] {
	case "guard":
		if err := guardCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *guardPath == "" {
			guardCmd.Usage()
			return errHelp
		}
		return cli.guard(*guardPath, *guardEmail)
	case "quote":
		if err := quoteCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *quoteService == "" {
			quoteCmd.Usage()
			return errHelp
		}
		return cli.quote(*quoteService)
	case "routes":
		return cli.routes()
	case "overview":
		if err := overviewCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.overview(*overviewSearch)
	default:
		cli.printUsage()
		return errHelp
	}
}

// guard prints the outcome for a visitor; the visitor is admin when email is the configured admin address.
func (cli *commandLine) guard(path, email string) error {
	var ident *session.Identity
	if email = core.CleanString(email); email != "" {
		ident = &session.Identity{Email: email, IsAdmin: email == cli.conf.AdminEmail}
	}
	fmt.Fprintf(cli.out, "%s (%s): %s\n", path, guard.Resolve(path), guard.Evaluate(path, ident))
	return nil
}

func (cli *commandLine) quote(service string) error {
	q, ok := intake.QuoteFor(intake.ServiceType(core.CleanString(service, true /* lower */)))
	if !ok {
		return fmt.Errorf("%q: unknown service type", service)
	}
	fmt.Fprintf(cli.out, "%s: $%d\n", q.Label, q.Price)
	return nil
}

func (cli *commandLine) routes() error {
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tROUTE\tVISITOR\tOUTCOME")
	for _, r := range guard.Table() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Path, r.Route, r.Condition, r.Outcome)
	}
	return w.Flush()
}

func (cli *commandLine) overview(search string) error {
	ov, err := cli.adminSvc.Overview(context.Background(), search)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "users: %d, active tutors: %d, pending requests: %d, revenue: $%.2f\n",
		ov.Stats.TotalUsers, ov.Stats.ActiveTutors, ov.Stats.PendingRequests, ov.Stats.Revenue)

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTUDENT\tSUBJECT\tSTATUS\tPROGRESS")
	for _, r := range ov.Requests {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\n", r.ID, r.Name, r.Subject, r.Status, r.Progress)
	}
	return w.Flush()
}
