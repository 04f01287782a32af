package main

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	cartrepo "pujaseva-backend/internal/domains/cart/repository"
	paymentsvc "pujaseva-backend/internal/domains/payment/service"
	"pujaseva-backend/pkg/logger"
)

// active carts untouched this long get abandoned
const staleCartAge = 30 * 24 * time.Hour

// ============================================
// Expire Pending Payments Handler
// ============================================

type ExpirePendingPaymentsHandler struct {
	payments paymentsvc.PaymentService
}

func NewExpirePendingPaymentsHandler(payments paymentsvc.PaymentService) *ExpirePendingPaymentsHandler {
	return &ExpirePendingPaymentsHandler{payments: payments}
}

func (h *ExpirePendingPaymentsHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	expired, err := h.payments.ExpirePendingPayments(ctx)
	if err != nil {
		logger.Error("Pending payment sweep failed", err)
		return err
	}

	logger.Info("Pending payment sweep finished", map[string]interface{}{
		"expired": expired,
	})
	return nil
}

// ============================================
// Abandon Stale Carts Handler
// ============================================

type AbandonStaleCartsHandler struct {
	carts cartrepo.CartRepository
}

func NewAbandonStaleCartsHandler(carts cartrepo.CartRepository) *AbandonStaleCartsHandler {
	return &AbandonStaleCartsHandler{carts: carts}
}

func (h *AbandonStaleCartsHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	cutoff := time.Now().Add(-staleCartAge)

	abandoned, err := h.carts.AbandonStale(ctx, cutoff)
	if err != nil {
		logger.Error("Stale cart sweep failed", err)
		return err
	}

	logger.Info("Stale cart sweep finished", map[string]interface{}{
		"abandoned": abandoned,
	})
	return nil
}
