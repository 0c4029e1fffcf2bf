package exchange

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/metrics"
	exchangedto "github.com/LavaJover/shvark-wallet-service/internal/usecase/dto/exchange"
	"github.com/shopspring/decimal"
)

const commitMessage = "Exchange completed successfully"

// compensation undoes one applied settlement step.
type compensation struct {
	step string
	undo func(ctx context.Context) error
}

// settle applies the commit under the owner lock. Once the wallet debit
// has landed, every failure path runs the applied compensations in reverse
// before returning.
func (uc *DefaultExchangeUsecase) settle(ctx context.Context, r *run, req *request, rate, toAmount decimal.Decimal) (*exchangedto.Commit, error) {
	unlock := uc.locks.Lock(req.ownerID)
	defer unlock()

	r.to(StateSettling)

	if err := uc.walletRepo.Debit(ctx, req.ownerID, req.from, req.amount); err != nil {
		return nil, uc.reject(ctx, r, req, err)
	}
	applied := []compensation{{
		step: "wallet_refund",
		undo: func(ctx context.Context) error {
			return uc.walletRepo.Credit(ctx, req.ownerID, req.from, req.amount)
		},
	}}

	fail := func(err error) (*exchangedto.Commit, error) {
		uc.compensate(ctx, req, applied, err)
		return nil, uc.reject(ctx, r, req, err)
	}

	if !req.physical() {
		if err := uc.walletRepo.Credit(ctx, req.ownerID, req.to, toAmount); err != nil {
			return fail(err)
		}
		applied = append(applied, compensation{
			step: "wallet_reverse_credit",
			undo: func(ctx context.Context) error {
				return uc.walletRepo.Debit(ctx, req.ownerID, req.to, toAmount)
			},
		})
	} else {
		if err := uc.poolRepo.Swap(ctx, req.from, req.amount, req.to, toAmount); err != nil {
			return fail(err)
		}
		applied = append(applied, compensation{
			step: "pool_reverse_swap",
			undo: func(ctx context.Context) error {
				return uc.poolRepo.Swap(ctx, req.to, toAmount, req.from, req.amount)
			},
		})
	}

	tx := &domain.Transaction{
		OwnerID:         req.ownerID,
		FromCurrency:    req.from,
		ToCurrency:      req.to,
		FromAmount:      req.amount,
		ToAmount:        toAmount,
		Rate:            rate,
		DeliveryAddress: req.address,
		DigitalDelivery: req.digital,
		Status:          domain.TransactionStatusCompleted,
		Type:            domain.TransactionTypeExchange,
		Delivered:       req.physical(),
		Confirmed:       true,
	}
	if err := uc.ledger.Append(ctx, tx); err != nil {
		if !errors.Is(err, domain.ErrInternal) {
			err = domain.Internal("append transaction", err)
		}
		return fail(err)
	}

	r.to(StateCommitted)
	uc.metrics.RecordExchange(kindCommit, req.delivery, metrics.ResultSuccess)
	uc.metrics.RecordExchangeAmount(req.from, req.to, req.amount)
	slog.Info("exchange committed",
		"owner_id", req.ownerID,
		"transaction_id", tx.ID,
		"from", req.from,
		"to", req.to,
		"amount", req.amount.String(),
		"to_amount", toAmount.String(),
		"delivered", tx.Delivered,
	)
	uc.publish(ctx, tx)

	return &exchangedto.Commit{
		Message:       commitMessage,
		TransactionID: tx.ID,
		Success:       true,
	}, nil
}

// compensate undoes applied steps in reverse on a context detached from
// request cancellation. It stops at the first step that fails.
func (uc *DefaultExchangeUsecase) compensate(ctx context.Context, req *request, applied []compensation, cause error) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.cfg.CompensateTimeout)
	defer cancel()

	for i := len(applied) - 1; i >= 0; i-- {
		c := applied[i]
		if err := c.undo(cctx); err != nil {
			uc.metrics.RecordCompensation(c.step, metrics.ResultFailed)
			slog.Error("exchange compensation failed",
				"owner_id", req.ownerID,
				"step", c.step,
				"cause", cause,
				"error", err,
			)
			uc.auditEvent(cctx, req, domain.AuditStageCompensationFailed, err, map[string]string{
				"step":  c.step,
				"cause": cause.Error(),
			})
			return
		}
		uc.metrics.RecordCompensation(c.step, metrics.ResultSuccess)
		slog.Warn("exchange compensated", "owner_id", req.ownerID, "step", c.step, "cause", cause)
		uc.auditEvent(cctx, req, domain.AuditStageCompensated, cause, map[string]string{"step": c.step})
	}
}

func (uc *DefaultExchangeUsecase) reject(ctx context.Context, r *run, req *request, err error) error {
	r.to(StateRejected)

	result := metrics.ResultRejected
	kind := domain.Kind(err)
	if kind == domain.ErrInternal || kind == domain.ErrUpstream {
		result = metrics.ResultFailed
		slog.Error("exchange failed", "owner_id", req.ownerID, "from", req.from, "to", req.to, "error", err)
	} else {
		slog.Info("exchange rejected", "owner_id", req.ownerID, "from", req.from, "to", req.to, "reason", err.Error())
	}
	uc.metrics.RecordExchange(req.kind(), req.delivery, result)
	uc.auditEvent(context.WithoutCancel(ctx), req, domain.AuditStageRejected, err, nil)
	return err
}

func (uc *DefaultExchangeUsecase) auditEvent(ctx context.Context, req *request, stage string, err error, details map[string]string) {
	if uc.audit == nil {
		return
	}
	if details == nil {
		details = make(map[string]string, 4)
	}
	details["from_currency"] = req.from
	details["to_currency"] = req.to
	details["amount"] = req.amount.String()
	details["confirm"] = strconv.FormatBool(req.confirm)

	event := domain.AuditEvent{
		OwnerID:   req.ownerID,
		Operation: operationExchange,
		Stage:     stage,
		Kind:      domain.Kind(err).Error(),
		Message:   err.Error(),
		Details:   details,
	}
	if auditErr := uc.audit.LogSettlementEvent(ctx, event); auditErr != nil {
		slog.Warn("failed to write audit event", "owner_id", req.ownerID, "stage", stage, "error", auditErr)
	}
}

// publish is best effort and never blocks the response.
func (uc *DefaultExchangeUsecase) publish(ctx context.Context, tx *domain.Transaction) {
	if uc.events == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.cfg.PublishTimeout)
	go func() {
		defer cancel()
		if err := uc.events.PublishTransactionCommitted(pctx, tx); err != nil {
			slog.Warn("failed to publish transaction event", "transaction_id", tx.ID, "error", err)
		}
	}()
}
