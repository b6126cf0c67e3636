package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
	"github.com/xavierca1/rendetalje-leads/internal/messaging"
	"github.com/xavierca1/rendetalje-leads/internal/scheduling"
)

// monday 2025-10-20 09:00 UTC
var testNow = time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func testComposer() *messaging.Composer {
	return messaging.NewComposer(messaging.Company{Name: "Rendetalje", Phone: "71 99 88 77", Email: "info@rendetalje.dk"}, nil)
}

func testGenerator(t *testing.T) *scheduling.Generator {
	t.Helper()
	g, err := scheduling.NewGenerator(scheduling.DefaultWorkingHours(time.UTC))
	require.NoError(t, err)
	return g
}

func contactedLead(t *testing.T) *entity.Lead {
	t.Helper()
	lead, err := entity.NewLead(entity.SourceLeadmail, 3, 349, testNow.Add(-time.Hour))
	require.NoError(t, err)
	lead.CustomerName = "Lars Nielsen"
	lead.CustomerEmail = "lars@example.dk"
	lead.CustomerPhone = "+4522334455"
	lead.ServiceType = "Generel rengøring"
	lead.Address = "Nørrebrogade 123"
	lead.City = "København"
	require.NoError(t, lead.MarkOfferSent(testNow.Add(-time.Hour)))
	lead.Version = 2
	return lead
}

func openOffer(t *testing.T, lead *entity.Lead) *entity.Offer {
	t.Helper()
	slots := testGenerator(t).Generate(testNow.Add(-time.Hour), entity.OfferSize, 3*time.Hour, nil)
	offer, err := entity.NewOffer(lead.ID, slots, 72*time.Hour, testNow.Add(-time.Hour))
	require.NoError(t, err)
	return offer
}
