package usecase

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Transaction é uma saga simples: executa os passos em ordem e, se um falhar,
// roda as compensações dos passos já concluídos em ordem reversa.
type Transaction struct {
	steps []step
}

type step struct {
	name       string
	fn         func(context.Context) error
	compensate func(context.Context) error
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

// AddStep registra uma operação e sua compensação (pode ser nil).
func (t *Transaction) AddStep(name string, fn, compensate func(context.Context) error) {
	t.steps = append(t.steps, step{name: name, fn: fn, compensate: compensate})
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, s := range t.steps {
		if err := s.fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", s.name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAt int) {
	// Compensations run even if the request context was cancelled.
	ctx = context.WithoutCancel(ctx)
	for i := failedAt - 1; i >= 0; i-- {
		s := t.steps[i]
		if s.compensate == nil {
			continue
		}
		if err := s.compensate(ctx); err != nil {
			log.WithFields(log.Fields{"step": s.name, "error": err}).
				Error("⚠️ Compensação falhou (risco de inconsistência!)")
		}
	}
}
