package settlement

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/LavaJover/shvark-wallet-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-wallet-service/internal/usecase"
	settlementdto "github.com/LavaJover/shvark-wallet-service/internal/usecase/dto/settlement"
	"github.com/shopspring/decimal"
)

const operationReturnMoney = "return_money"

type SettlementUsecase interface {
	ReturnMoney(ctx context.Context, input *settlementdto.ReturnMoneyInput) (*settlementdto.ReturnMoneyOutput, error)
}

type Config struct {
	HomeCurrency      string
	AmountScale       int32
	CompensateTimeout time.Duration
}

// DefaultSettlementUsecase converts a whole wallet slot into the home
// currency and credits it to a linked bank account.
type DefaultSettlementUsecase struct {
	walletRepo   domain.WalletRepository
	bankLinkRepo domain.BankLinkRepository
	rates        domain.RateSource
	locks        *usecase.OwnerLocks
	cfg          Config
	audit        domain.AuditLogger
	metrics      *metrics.WalletMetrics
}

func NewDefaultSettlementUsecase(
	walletRepo domain.WalletRepository,
	bankLinkRepo domain.BankLinkRepository,
	rates domain.RateSource,
	locks *usecase.OwnerLocks,
	cfg Config,
	audit domain.AuditLogger,
	m *metrics.WalletMetrics,
) *DefaultSettlementUsecase {
	cfg.HomeCurrency = domain.NormalizeCurrency(cfg.HomeCurrency)
	if cfg.CompensateTimeout <= 0 {
		cfg.CompensateTimeout = 10 * time.Second
	}
	return &DefaultSettlementUsecase{
		walletRepo:   walletRepo,
		bankLinkRepo: bankLinkRepo,
		rates:        rates,
		locks:        locks,
		cfg:          cfg,
		audit:        audit,
		metrics:      m,
	}
}

func (uc *DefaultSettlementUsecase) ReturnMoney(ctx context.Context, input *settlementdto.ReturnMoneyInput) (*settlementdto.ReturnMoneyOutput, error) {
	ownerID := strings.TrimSpace(input.OwnerID)
	currency := domain.NormalizeCurrency(input.Currency)
	bankName := strings.TrimSpace(input.BankName)

	out, err := uc.returnMoney(ctx, ownerID, currency, bankName)
	if err != nil {
		uc.metrics.RecordSettlement(currency, resultOf(err))
		uc.auditEvent(context.WithoutCancel(ctx), ownerID, currency, bankName, domain.AuditStageRejected, err, nil)
		slog.Info("return money rejected", "owner_id", ownerID, "currency", currency, "bank_name", bankName, "reason", err.Error())
		return nil, err
	}
	uc.metrics.RecordSettlement(currency, metrics.ResultSuccess)
	uc.metrics.RecordSettlementAmount(uc.cfg.HomeCurrency, out.ConvertedAmount)
	return out, nil
}

func (uc *DefaultSettlementUsecase) returnMoney(ctx context.Context, ownerID, currency, bankName string) (*settlementdto.ReturnMoneyOutput, error) {
	switch {
	case ownerID == "":
		return nil, domain.Errorf(domain.ErrValidation, "uid is required")
	case bankName == "":
		return nil, domain.Errorf(domain.ErrValidation, "bankName is required")
	}
	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	wallet, err := uc.walletRepo.GetWallet(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !wallet.Amount(currency).IsPositive() {
		return nil, noBalance(currency)
	}

	link, err := uc.bankLinkRepo.GetBankLinkByName(ctx, ownerID, bankName)
	if err != nil {
		return nil, err
	}

	rate, err := uc.rate(ctx, currency)
	if err != nil {
		return nil, err
	}

	unlock := uc.locks.Lock(ownerID)
	defer unlock()

	drained, err := uc.walletRepo.Drain(ctx, ownerID, currency)
	if err != nil {
		return nil, err
	}
	if !drained.IsPositive() {
		// emptied by a concurrent request after the check above
		return nil, noBalance(currency)
	}

	converted := drained.Mul(rate).Round(uc.cfg.AmountScale)
	if !converted.IsPositive() {
		uc.restore(ctx, ownerID, currency, bankName, drained, nil)
		return nil, domain.Errorf(domain.ErrValidation,
			"%s balance of %s is too small to convert to %s", currency, drained, uc.cfg.HomeCurrency)
	}

	if err := uc.bankLinkRepo.CreditBankLink(ctx, link.ID, converted); err != nil {
		uc.restore(ctx, ownerID, currency, bankName, drained, err)
		return nil, err
	}

	slog.Info("money returned to bank",
		"owner_id", ownerID,
		"bank_link_id", link.ID,
		"currency", currency,
		"amount", drained.String(),
		"rate", rate.String(),
		"converted", converted.String(),
		"home_currency", uc.cfg.HomeCurrency,
	)
	return &settlementdto.ReturnMoneyOutput{
		ConvertedAmount: converted,
		HomeCurrency:    uc.cfg.HomeCurrency,
		Success:         true,
	}, nil
}

// rate is 1 without an upstream call when currency is already the home currency.
func (uc *DefaultSettlementUsecase) rate(ctx context.Context, currency string) (decimal.Decimal, error) {
	if currency == uc.cfg.HomeCurrency {
		return decimal.NewFromInt(1), nil
	}
	return uc.rates.Rate(ctx, currency, uc.cfg.HomeCurrency)
}

// restore puts a drained amount back into the wallet slot.
func (uc *DefaultSettlementUsecase) restore(ctx context.Context, ownerID, currency, bankName string, amount decimal.Decimal, cause error) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.cfg.CompensateTimeout)
	defer cancel()

	const step = "wallet_restore"
	if err := uc.walletRepo.Credit(cctx, ownerID, currency, amount); err != nil {
		uc.metrics.RecordCompensation(step, metrics.ResultFailed)
		slog.Error("return money compensation failed",
			"owner_id", ownerID, "currency", currency, "amount", amount.String(), "cause", cause, "error", err)
		uc.auditEvent(cctx, ownerID, currency, bankName, domain.AuditStageCompensationFailed, err, map[string]string{"step": step})
		return
	}
	uc.metrics.RecordCompensation(step, metrics.ResultSuccess)
	if cause != nil {
		slog.Warn("return money compensated", "owner_id", ownerID, "currency", currency, "cause", cause)
		uc.auditEvent(cctx, ownerID, currency, bankName, domain.AuditStageCompensated, cause, map[string]string{"step": step})
	}
}

func (uc *DefaultSettlementUsecase) auditEvent(ctx context.Context, ownerID, currency, bankName, stage string, err error, details map[string]string) {
	if uc.audit == nil {
		return
	}
	if details == nil {
		details = make(map[string]string, 2)
	}
	details["currency"] = currency
	details["bank_name"] = bankName

	event := domain.AuditEvent{
		OwnerID:   ownerID,
		Operation: operationReturnMoney,
		Stage:     stage,
		Kind:      domain.Kind(err).Error(),
		Message:   err.Error(),
		Details:   details,
	}
	if auditErr := uc.audit.LogSettlementEvent(ctx, event); auditErr != nil {
		slog.Warn("failed to write audit event", "owner_id", ownerID, "stage", stage, "error", auditErr)
	}
}

func noBalance(currency string) error {
	return domain.Errorf(domain.ErrValidation, "no convertible balance available for %s", currency)
}

func resultOf(err error) string {
	switch domain.Kind(err) {
	case domain.ErrInternal, domain.ErrUpstream:
		return metrics.ResultFailed
	default:
		return metrics.ResultRejected
	}
}
