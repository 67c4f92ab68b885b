package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: loads the sale, renders the PDF
// receipt and, when the sale belongs to an affiliate with an email address,
// enqueues an email job with the receipt attached.

import (
	"context"
	"encoding/json"
	"fmt"

	"verttraue/internal/infra"
	"verttraue/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	SaleID string `json:"sale_id"`
}

type ReceiptWorker struct {
	saleRepo    repository.SaleRepository
	dispatcher  *Dispatcher
	rdb         *redis.Client
	storagePath string
}

func NewReceiptWorker(saleRepo repository.SaleRepository, dispatcher *Dispatcher, rdb *redis.Client, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{
		saleRepo:    saleRepo,
		dispatcher:  dispatcher,
		rdb:         rdb,
		storagePath: storagePath,
	}
}

// Process handles a single receipt job:
//  1. Parse ReceiptJobPayload from the job envelope
//  2. Fetch the sale (with items and affiliate) from DB
//  3. Generate the PDF receipt with retry (max 3 attempts)
//  4. Enqueue an email job when the affiliate has an email address
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	sale, err := w.saleRepo.FindByID(ctx, payload.SaleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: sale not found")
		return
	}

	var pdfPath string
	pdfErr := withRetry(ctx, 3, func(attempt int) error {
		path, err := infra.GenerateReceiptPDF(sale, w.storagePath)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("sale_id", payload.SaleID).
				Msg("receipt_worker: PDF attempt failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})
	if pdfErr != nil {
		log.Error().Err(pdfErr).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generation failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueReceipt, "receipt", raw, pdfErr.Error(), 3)
		return
	}
	log.Info().Str("pdf", pdfPath).Str("sale_id", payload.SaleID).Msg("receipt_worker: receipt generated")

	if sale.Affiliate == nil || sale.Affiliate.Email == nil || *sale.Affiliate.Email == "" {
		return
	}

	emailJob := EmailJobPayload{
		ToEmail: *sale.Affiliate.Email,
		Subject: fmt.Sprintf("verttraue receipt for sale %s", sale.ID),
		Body:    fmt.Sprintf("Attached is the receipt for sale %s.\nTotal: $%s", sale.ID, sale.Total.StringFixed(2)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", *sale.Affiliate.Email).Msg("receipt_worker: failed to enqueue email")
		return
	}
	log.Info().Str("email", *sale.Affiliate.Email).Msg("receipt_worker: email job enqueued")
}
