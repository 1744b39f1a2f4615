package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/infra"
)

// LowStockWorker sends low-stock alert emails. The SMTP call runs through a
// circuit breaker so a downed mail server fast-fails instead of stalling the
// pool; failed jobs are retried by the pool and eventually dead-lettered.
type LowStockWorker struct {
	mailer  *infra.Mailer
	cb      *infra.Breaker
	alertTo string
}

func NewLowStockWorker(mailer *infra.Mailer, cb *infra.Breaker, alertTo string) *LowStockWorker {
	return &LowStockWorker{mailer: mailer, cb: cb, alertTo: alertTo}
}

// Process sends one alert email for a low-stock product.
func (w *LowStockWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload LowStockAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("lowstock_worker: invalid payload")
		return nil // malformed payload — retrying cannot help
	}
	if w.alertTo == "" {
		log.Debug().Msg("lowstock_worker: no alert recipient configured — skipping")
		return nil
	}

	subject := fmt.Sprintf("Low stock: %s", payload.ProductName)
	body := fmt.Sprintf(
		"Product %s (barcode %s) is down to %d units (minimum %d).\nProduct ID: %s\n",
		payload.ProductName, payload.Barcode, payload.Quantity, payload.MinimumQuantity, payload.ProductID)

	err := w.cb.Call(func() error {
		return w.mailer.Send(w.alertTo, subject, body)
	})
	if err != nil {
		log.Error().Err(err).Str("product", payload.ProductName).Msg("lowstock_worker: failed to send alert")
		return err
	}
	log.Info().Str("product", payload.ProductName).Int("quantity", payload.Quantity).
		Msg("lowstock_worker: alert sent")
	return nil
}
