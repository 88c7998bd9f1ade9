package cleaning

import (
	"fmt"
	"strings"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
	"github.com/kleinfit/klein-data-pipeline/internal/utils"
)

// buildSubscriptions emits one row per receipt entry for every eligible user
// that carries a latestReceiptInfo list. Non-object entries are skipped and
// audited; timestamp anomalies are flagged but the row is still written.
func (e *Engine) buildSubscriptions(snapshot models.Snapshot, ids []string, log *Log) []models.SubscriptionRow {
	now := e.now()
	var rows []models.SubscriptionRow
	for _, id := range ids {
		info, ok := e.triage(models.SectionSubscriptions, id, snapshot[id], log)
		if !ok || info.LatestReceiptInfo == nil {
			continue
		}
		numTx := len(info.LatestReceiptInfo)
		for _, raw := range info.LatestReceiptInfo {
			tx, ok := models.DecodeTransaction(raw)
			if !ok {
				log.Skipped(models.SectionSubscriptions, id, models.ReasonInvalidTx,
					"Transaction data: "+strings.TrimSpace(string(raw)))
				continue
			}
			purchase := models.RenderValue(tx.PurchaseDateMs)
			expires := models.RenderValue(tx.ExpiresDateMs)
			if truthy(tx.PurchaseDateMs) && truthy(tx.ExpiresDateMs) {
				purchasedAt, perr := utils.ParseEpochMillis(purchase)
				expiresAt, eerr := utils.ParseEpochMillis(expires)
				if perr != nil || eerr != nil || purchasedAt.After(now) || expiresAt.Before(purchasedAt) {
					log.Flagged(models.SectionSubscriptions, id, models.ReasonInvalidTimestamp,
						fmt.Sprintf("Purchase: %s, Expires: %s", purchase, expires))
				}
			}
			rows = append(rows, models.SubscriptionRow{
				UserID:               id,
				PurchaseDate:         tx.PurchaseDateMs,
				ExpirationDate:       tx.ExpiresDateMs,
				OriginalPurchaseDate: tx.OriginalPurchaseDateMs,
				ProductID:            tx.ProductID,
				NumTransactions:      numTx,
			})
		}
		log.Processed(models.SectionSubscriptions, id, models.ReasonValidData, fmt.Sprintf("Transactions: %d", numTx))
	}

	// A user id appearing on more than one row should not normally happen;
	// every occurrence is flagged, none is dropped.
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.UserID]++
	}
	for _, r := range rows {
		if n := counts[r.UserID]; n > 1 {
			log.Flagged(models.SectionSubscriptions, r.UserID, models.ReasonDuplicateUserID,
				fmt.Sprintf("Found %d entries", n))
		}
	}
	return rows
}
