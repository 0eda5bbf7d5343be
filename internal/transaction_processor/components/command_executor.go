package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/banking-records-ledger/internal/banking"
	"github.com/banking-records-ledger/internal/domain/account"
	"github.com/banking-records-ledger/internal/domain/credential"
	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/banking-records-ledger/internal/transaction_processor/service"
	"github.com/shopspring/decimal"
)

// AccountMover is the single-account part of the ledger
type AccountMover interface {
	Deposit(ctx context.Context, caller credential.Caller, accountNumber string, amount decimal.Decimal) (*account.Account, error)
	Withdraw(ctx context.Context, caller credential.Caller, accountNumber string, amount decimal.Decimal) (*account.Account, error)
}

type FundsTransferer interface {
	Transfer(ctx context.Context, caller credential.Caller, from, to string, amount decimal.Decimal) (*banking.TransferResult, error)
}

type InterestApplier interface {
	Apply(ctx context.Context, caller credential.Caller) (*banking.InterestRun, error)
}

// CommandExecutorImpl runs commands through the banking services. Callers were
// authorized when the command was accepted, so commands run with admin rights.
type CommandExecutorImpl struct {
	accounts  AccountMover
	transfers FundsTransferer
	interest  InterestApplier
	logger    *slog.Logger
}

func NewCommandExecutor(accounts AccountMover, transfers FundsTransferer, interest InterestApplier, logger *slog.Logger) service.CommandExecutor {
	return &CommandExecutorImpl{
		accounts:  accounts,
		transfers: transfers,
		interest:  interest,
		logger:    logger,
	}
}

func (e *CommandExecutorImpl) Execute(ctx context.Context, command *shared.CommandRequest) (string, error) {
	caller := credential.Admin()

	switch command.Type {
	case shared.CommandTypeDeposit:
		acc, err := e.accounts.Deposit(ctx, caller, command.AccountNumber, command.Amount)
		if err != nil {
			return "", err
		}
		return "balance " + acc.Balance.StringFixed(2), nil

	case shared.CommandTypeWithdrawal:
		acc, err := e.accounts.Withdraw(ctx, caller, command.AccountNumber, command.Amount)
		if err != nil {
			return "", err
		}
		return "balance " + acc.Balance.StringFixed(2), nil

	case shared.CommandTypeTransfer:
		result, err := e.transfers.Transfer(ctx, caller, command.AccountNumber, command.TargetAccount, command.Amount)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("balances %s=%s %s=%s",
			result.From.Number, result.From.Balance.StringFixed(2),
			result.To.Number, result.To.Balance.StringFixed(2)), nil

	case shared.CommandTypeApplyInterest:
		run, err := e.interest.Apply(ctx, caller)
		if err != nil {
			return "", err
		}
		e.logger.Info("Interest applied from command", "command_id", command.CommandID.String(), "applied", len(run.Applied), "skipped", run.Skipped)
		return fmt.Sprintf("applied %d skipped %d", len(run.Applied), run.Skipped), nil
	}

	return "", fmt.Errorf("%w: %q", shared.ErrInvalidCommandType, command.Type)
}
