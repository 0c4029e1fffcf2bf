package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/LavaJover/shvark-wallet-service/internal/domain"
	"github.com/shopspring/decimal"
)

type BankLinkRepository struct {
	mu    sync.Mutex
	links map[string][]*domain.BankLink
	byID  map[string]*domain.BankLink
	now   func() time.Time
}

func NewBankLinkRepository() *BankLinkRepository {
	return &BankLinkRepository{
		links: make(map[string][]*domain.BankLink),
		byID:  make(map[string]*domain.BankLink),
		now:   time.Now,
	}
}

func (r *BankLinkRepository) CreateBankLink(_ context.Context, link *domain.BankLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.links[link.OwnerID] {
		if strings.EqualFold(existing.BankName, link.BankName) {
			return domain.ErrBankLinkExists
		}
	}
	stored := *link
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.now()
	}
	link.CreatedAt = stored.CreatedAt
	r.links[link.OwnerID] = append(r.links[link.OwnerID], &stored)
	r.byID[stored.ID] = &stored
	return nil
}

func (r *BankLinkRepository) GetBankLinkByName(_ context.Context, ownerID, bankName string) (*domain.BankLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, link := range r.links[ownerID] {
		if strings.EqualFold(link.BankName, strings.TrimSpace(bankName)) {
			copied := *link
			return &copied, nil
		}
	}
	return nil, domain.ErrBankLinkNotFound
}

func (r *BankLinkRepository) GetBankLinksByOwnerID(_ context.Context, ownerID string) ([]*domain.BankLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.BankLink, 0, len(r.links[ownerID]))
	for _, link := range r.links[ownerID] {
		copied := *link
		out = append(out, &copied)
	}
	return out, nil
}

func (r *BankLinkRepository) CreditBankLink(_ context.Context, linkID string, amount decimal.Decimal) error {
	if err := domain.RequirePositive(amount); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	link, ok := r.byID[linkID]
	if !ok {
		return domain.ErrBankLinkNotFound
	}
	link.Balance = link.Balance.Add(amount)
	return nil
}
