package worker

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

type OfferExpirer interface {
	Execute(ctx context.Context) (int64, error)
}

// OfferExpirationWorker marca como expired as ofertas abertas cujo prazo passou.
// O lead continua contacted; expirar não é uma transição de status.
type OfferExpirationWorker struct {
	expirer      OfferExpirer
	tickInterval time.Duration
}

func NewOfferExpirationWorker(expirer OfferExpirer, tickInterval time.Duration) *OfferExpirationWorker {
	if tickInterval <= 0 {
		tickInterval = time.Minute
	}
	return &OfferExpirationWorker{
		expirer:      expirer,
		tickInterval: tickInterval,
	}
}

func (w *OfferExpirationWorker) Start(ctx context.Context) {
	log.WithField("interval", w.tickInterval).Info("🕒 Offer Expiration Worker iniciado")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.expireOffers(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("⚠️ Offer Expiration Worker encerrado")
			return
		case <-ticker.C:
			w.expireOffers(ctx)
		}
	}
}

func (w *OfferExpirationWorker) expireOffers(ctx context.Context) {
	n, err := w.expirer.Execute(ctx)
	if err != nil {
		log.WithError(err).Error("❌ Erro ao expirar ofertas")
		return
	}
	if n > 0 {
		log.WithField("count", n).Info("✅ Ofertas marcadas como expired")
	}
}
