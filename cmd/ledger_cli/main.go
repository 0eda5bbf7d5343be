package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/banking-records-ledger/internal/banking"
	"github.com/banking-records-ledger/internal/config"
	"github.com/banking-records-ledger/internal/data"
	"github.com/banking-records-ledger/internal/domain/account"
	"github.com/banking-records-ledger/internal/domain/credential"
	"github.com/banking-records-ledger/internal/domain/ledger"
	"github.com/banking-records-ledger/internal/domain/profile"
	"github.com/banking-records-ledger/internal/logger"
	"github.com/shopspring/decimal"
)

var errUsage = errors.New("invalid usage")

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}
	if cmd := os.Args[1]; cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage(os.Stdout)
		return
	}

	cfg, err := config.LoadConfig("ledger_cli")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewLogger(cfg)

	ctx := context.Background()
	store, closeStore, err := data.OpenStore(ctx, log, cfg)
	if err != nil {
		log.Error("Failed to open record store", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(ctx); err != nil {
			log.Error("Error closing record store", "error", err)
		}
	}()

	repos := data.NewRepositories(log, store)
	app := &cli{
		bank:   banking.New(log, repos.Banking(), banking.OptionsFromConfig(cfg.Bank)),
		caller: credential.Admin(),
		out:    os.Stdout,
	}

	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "%v\n\n", err)
			printUsage(os.Stderr)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Banking Ledger CLI")
	fmt.Fprintln(w, "\nUsage:")
	fmt.Fprintln(w, "  ledger_cli <command> [options]")
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  create            Open an account with a customer profile")
	fmt.Fprintln(w, "  deposit           Deposit into an account")
	fmt.Fprintln(w, "  withdraw          Withdraw from an account")
	fmt.Fprintln(w, "  balance           Show the balance of an account")
	fmt.Fprintln(w, "  transfer          Move money between two accounts")
	fmt.Fprintln(w, "  history           List the transactions of an account")
	fmt.Fprintln(w, "  update            Change one profile field")
	fmt.Fprintln(w, "  deactivate        Mark an account Inactive")
	fmt.Fprintln(w, "  restore           Mark an account Active again")
	fmt.Fprintln(w, "  search            Find profiles by NIC or phone")
	fmt.Fprintln(w, "  apply-interest    Credit this month's interest to Savings accounts")
	fmt.Fprintln(w, "  interest-history  List every interest credit")
	fmt.Fprintln(w, "  help              Show this help message")
	fmt.Fprintln(w, "\nRun 'ledger_cli <command> -h' for more information on a command.")
}

// cli runs one command against the bank and prints the result
type cli struct {
	bank   *banking.Bank
	caller credential.Caller
	out    io.Writer
}

func (c *cli) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "create":
		return c.runCreate(ctx, args)
	case "deposit":
		return c.runMove(ctx, "deposit", c.bank.Accounts.Deposit, args)
	case "withdraw":
		return c.runMove(ctx, "withdraw", c.bank.Accounts.Withdraw, args)
	case "balance":
		return c.runBalance(ctx, args)
	case "transfer":
		return c.runTransfer(ctx, args)
	case "history":
		return c.runHistory(ctx, args)
	case "update":
		return c.runUpdate(ctx, args)
	case "deactivate":
		return c.runDeactivate(ctx, args)
	case "restore":
		return c.runRestore(ctx, args)
	case "search":
		return c.runSearch(ctx, args)
	case "apply-interest":
		return c.runApplyInterest(ctx, args)
	case "interest-history":
		return c.runInterestHistory(ctx, args)
	default:
		return fmt.Errorf("%w: unknown command %s", errUsage, command)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func required(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: -%s is required", errUsage, name)
	}
	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: -amount is required", errUsage)
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount %q", errUsage, s)
	}
	return amount, nil
}

func (c *cli) runCreate(ctx context.Context, args []string) error {
	fs := newFlagSet("create")
	name := fs.String("name", "", "Customer full name")
	nic := fs.String("nic", "", "National identity card number")
	dob := fs.String("dob", "", "Date of birth, YYYY-MM-DD")
	phone := fs.String("phone", "", "Ten digit phone number")
	email := fs.String("email", "", "Email address")
	address := fs.String("address", "", "Postal address")
	gender := fs.String("gender", "", "Male or Female")
	accountType := fs.String("type", "Savings", "Savings or Current")
	opening := fs.String("opening-balance", "0", "Initial deposit")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required("name", *name); err != nil {
		return err
	}

	kind, err := profile.ParseAccountType(*accountType)
	if err != nil {
		return err
	}
	openingBalance, err := decimal.NewFromString(*opening)
	if err != nil {
		return fmt.Errorf("%w: invalid opening balance %q", errUsage, *opening)
	}

	created, err := c.bank.Customers.Create(ctx, c.caller, profile.Details{
		Name:        *name,
		NIC:         *nic,
		DateOfBirth: *dob,
		Phone:       *phone,
		Email:       *email,
		Address:     *address,
		Gender:      *gender,
		AccountType: kind,
	}, openingBalance)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Account %s created for %s\n", created.Account.Number, created.Profile.Name)
	fmt.Fprintf(c.out, "Balance:  %s\n", created.Account.Balance.StringFixed(2))
	fmt.Fprintf(c.out, "Username: %s\n", created.Username)
	fmt.Fprintf(c.out, "Password: %s\n", created.Password)
	return nil
}

type moveFunc func(ctx context.Context, caller credential.Caller, accountNumber string, amount decimal.Decimal) (*account.Account, error)

func (c *cli) runMove(ctx context.Context, name string, move moveFunc, args []string) error {
	fs := newFlagSet(name)
	number := fs.String("account", "", "Account number")
	amountArg := fs.String("amount", "", "Amount, at most two decimal places")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required("account", *number); err != nil {
		return err
	}
	amount, err := parseAmount(*amountArg)
	if err != nil {
		return err
	}

	acc, err := move(ctx, c.caller, *number, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "New balance of %s: %s\n", acc.Number, acc.Balance.StringFixed(2))
	return nil
}

func (c *cli) runBalance(ctx context.Context, args []string) error {
	fs := newFlagSet("balance")
	number := fs.String("account", "", "Account number")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required("account", *number); err != nil {
		return err
	}

	acc, err := c.bank.Accounts.CheckBalance(ctx, c.caller, *number)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Account %s (%s): %s\n", acc.Number, acc.OwnerName, acc.Balance.StringFixed(2))
	return nil
}

func (c *cli) runTransfer(ctx context.Context, args []string) error {
	fs := newFlagSet("transfer")
	from := fs.String("from", "", "Sending account number")
	to := fs.String("to", "", "Receiving account number")
	amountArg := fs.String("amount", "", "Amount, at most two decimal places")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required("from", *from); err != nil {
		return err
	}
	if err := required("to", *to); err != nil {
		return err
	}
	amount, err := parseAmount(*amountArg)
	if err != nil {
		return err
	}

	result, err := c.bank.Transfers.Transfer(ctx, c.caller, *from, *to, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Transferred %s from %s to %s\n", result.Amount.StringFixed(2), result.From.Number, result.To.Number)
	fmt.Fprintf(c.out, "Balance of %s: %s\n", result.From.Number, result.From.Balance.StringFixed(2))
	fmt.Fprintf(c.out, "Balance of %s: %s\n", result.To.Number, result.To.Balance.StringFixed(2))
	return nil
}

func (c *cli) runHistory(ctx context.Context, args []string) error {
	fs := newFlagSet("history")
	number := fs.String("account", "", "Account number")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required("account", *number); err != nil {
		return err
	}

	txs, err := c.bank.Transactions.QueryByAccount(ctx, c.caller, *number)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		fmt.Fprintf(c.out, "No transactions for account %s\n", *number)
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tKIND\tAMOUNT")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", tx.Timestamp.Format(ledger.TimestampLayout), tx.Kind, tx.Amount.StringFixed(2))
	}
	return tw.Flush()
}

func (c *cli) runUpdate(ctx context.Context, args []string) error {
	fs := newFlagSet("update")
	number := fs.String("account", "", "Account number")
	field := fs.String("field", "", "Profile field: name, nic, dob, phone, email, address, gender")
	value := fs.String("value", "", "New value")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required("account", *number); err != nil {
		return err
	}
	if err := required("field", *field); err != nil {
		return err
	}

	p, err := c.bank.Customers.Update(ctx, c.caller, *number, *field, *value)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Profile of %s updated\n", p.AccountNumber)
	return c.printProfiles(profile.Profiles{p})
}

func (c *cli) runDeactivate(ctx context.Context, args []string) error {
	fs := newFlagSet("deactivate")
	number := fs.String("account", "", "Account number")
	reason := fs.String("reason", "", "Reason recorded in the deactivation log")
	confirm := fs.Bool("yes", false, "Confirm the deactivation")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required("account", *number); err != nil {
		return err
	}

	changed, err := c.bank.Customers.Deactivate(ctx, c.caller, *number, *reason, *confirm)
	if err != nil {
		return err
	}
	if changed {
		fmt.Fprintf(c.out, "Account %s deactivated\n", *number)
	} else {
		fmt.Fprintf(c.out, "Account %s is already inactive\n", *number)
	}
	return nil
}

func (c *cli) runRestore(ctx context.Context, args []string) error {
	fs := newFlagSet("restore")
	number := fs.String("account", "", "Account number")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required("account", *number); err != nil {
		return err
	}

	changed, err := c.bank.Customers.Restore(ctx, c.caller, *number)
	if err != nil {
		return err
	}
	if changed {
		fmt.Fprintf(c.out, "Account %s restored\n", *number)
	} else {
		fmt.Fprintf(c.out, "Account %s is already active\n", *number)
	}
	return nil
}

func (c *cli) runSearch(ctx context.Context, args []string) error {
	fs := newFlagSet("search")
	by := fs.String("by", "nic", "Search field: nic or phone")
	value := fs.String("value", "", "Value to match")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required("value", *value); err != nil {
		return err
	}

	found, err := c.bank.Customers.Search(ctx, c.caller, *by, *value)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Fprintln(c.out, "No matching profiles")
		return nil
	}
	return c.printProfiles(found)
}

func (c *cli) runApplyInterest(ctx context.Context, args []string) error {
	if err := parse(newFlagSet("apply-interest"), args); err != nil {
		return err
	}

	run, err := c.bank.Interest.Apply(ctx, c.caller)
	if err != nil {
		return err
	}
	for _, entry := range run.Applied {
		fmt.Fprintf(c.out, "Credited %s to %s\n", entry.InterestAmount.StringFixed(2), entry.AccountNumber)
	}
	fmt.Fprintf(c.out, "Interest applied to %d account(s), %d already credited this month\n", len(run.Applied), run.Skipped)
	return nil
}

func (c *cli) runInterestHistory(ctx context.Context, args []string) error {
	if err := parse(newFlagSet("interest-history"), args); err != nil {
		return err
	}

	entries, err := c.bank.Interest.History(ctx, c.caller)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "No interest has been applied")
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ACCOUNT\tDATE\tINTEREST\tRATE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s%%\n", e.AccountNumber, e.Date.Format(ledger.DateLayout), e.InterestAmount.StringFixed(2), e.RatePercent.StringFixed(2))
	}
	return tw.Flush()
}

func (c *cli) printProfiles(ps profile.Profiles) error {
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ACCOUNT\tNAME\tNIC\tPHONE\tTYPE\tSTATUS")
	for _, p := range ps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.AccountNumber, p.Name, p.NIC, p.Phone, p.AccountType, p.Status)
	}
	return tw.Flush()
}
