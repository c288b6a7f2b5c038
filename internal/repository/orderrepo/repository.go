package orderrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"shoemarket/internal/domain"
	apperrors "shoemarket/internal/errors"
	"shoemarket/internal/pkg/logger"
)

// OrderRepository implementa domain.OrderRepository.
type OrderRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewOrderRepository cria o repositório de pedidos.
func NewOrderRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *OrderRepository {
	return &OrderRepository{DB: db, DBTimeout: dbTimeout, logger: log}
}

// Save grava o pedido. Itens e dados de entrega são guardados como JSONB.
func (r *OrderRepository) Save(ctx context.Context, order domain.Order) (domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return domain.Order{}, apperrors.NewInternalError("falha ao serializar itens do pedido", err)
	}
	shipping, err := json.Marshal(order.Shipping)
	if err != nil {
		return domain.Order{}, apperrors.NewInternalError("falha ao serializar dados de entrega", err)
	}

	var userID sql.NullString
	if order.UserID != "" {
		userID = sql.NullString{String: order.UserID, Valid: true}
	}

	query := `
        INSERT INTO orders (id, order_number, user_id, user_email, customer_type, items, shipping_info,
                            payment_method, item_count, subtotal, shipping_cost, tax, total,
                            status, notes, estimated_delivery, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err = r.DB.ExecContext(ctxTimeout, query,
		order.ID, order.OrderNumber, userID, order.UserEmail, order.CustomerType, items, shipping,
		string(order.PaymentMethod), order.Totals.ItemCount, order.Totals.Subtotal, order.Totals.Shipping,
		order.Totals.Tax, order.Totals.Total, string(order.Status), order.Notes, order.EstimatedDelivery, order.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir pedido no DB.", err)
		return domain.Order{}, apperrors.NewDBError("Falha ao gravar pedido", err)
	}

	r.logger.Info("Pedido gravado.", map[string]interface{}{"order_id": order.ID, "order_number": order.OrderNumber})
	return order, nil
}
