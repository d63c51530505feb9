package service

import (
	"context"
	"errors"

	"tokopos/internal/model"
	"tokopos/internal/repository"
)

// ErrTransactionNotFound is returned when no transaction matches the
// requested display code.
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionService exposes the committed sale history, newest first.
type TransactionService struct {
	backend repository.BackendFunc
}

func NewTransactionService(backend repository.BackendFunc) *TransactionService {
	return &TransactionService{backend: backend}
}

// List returns the transaction history, newest first.
func (s *TransactionService) List(ctx context.Context) ([]model.Transaction, error) {
	var history []model.Transaction
	if err := s.backend().ReadCollection(ctx, repository.CollectionTransactions, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// Get looks up a transaction by its display code.
func (s *TransactionService) Get(ctx context.Context, code string) (*model.Transaction, error) {
	history, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range history {
		if history[i].ID == code {
			return &history[i], nil
		}
	}
	return nil, ErrTransactionNotFound
}
