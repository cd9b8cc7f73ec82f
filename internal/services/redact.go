package services

import (
	"github.com/shopspring/decimal"

	"github.com/agrihub/inventory-service/internal/authz"
	"github.com/agrihub/inventory-service/internal/models"
)

// canSeeFinancials reports whether movement money fields may be shown to
// the actor. Redaction happens after the cache so one cached result
// serves every role.
func canSeeFinancials(actor *models.User, tenantID string) bool {
	return authz.Can(actor, authz.ActionViewFinancials, tenantID)
}

// redactMovementFinancials clears money fields from movement rows for
// actors without the financials capability. Quantities stay visible.
func redactMovementFinancials(movements []models.StockMovement) {
	for i := range movements {
		movements[i].PricePerQuintal = decimal.Zero
		movements[i].TotalPrice = decimal.Zero
	}
}

// redactRankedFinancials clears the money column of a top-N ranking
func redactRankedFinancials(ranked []models.RankedEntity) {
	for i := range ranked {
		ranked[i].Amount = decimal.Zero
	}
}
