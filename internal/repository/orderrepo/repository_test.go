package orderrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoemarket/internal/domain"
	"shoemarket/internal/pkg/logger"
	"shoemarket/internal/repository/orderrepo"
)

func TestSave_GuestOrderHasNullUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := orderrepo.NewOrderRepository(db, time.Second, logger.NewLogger("error"))

	order := domain.Order{
		OrderNumber:   "ORD-1",
		CustomerType:  "guest",
		Items:         []domain.OrderItem{{ListingID: "s1", Quantity: 1, UnitPrice: 50, TotalPrice: 50}},
		PaymentMethod: domain.PaymentCash,
		Status:        domain.OrderConfirmed,
	}
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(sqlmock.AnyArg(), "ORD-1", nil, "", "guest",
			sqlmock.AnyArg(), sqlmock.AnyArg(), "cash", 0, 0.0, 0.0, 0.0, 0.0, "confirmed", "",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	saved, err := repo.Save(context.Background(), order)

	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_DBFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := orderrepo.NewOrderRepository(db, time.Second, logger.NewLogger("error"))
	mock.ExpectExec("INSERT INTO orders").WillReturnError(errors.New("disco cheio"))

	_, err = repo.Save(context.Background(), domain.Order{OrderNumber: "ORD-2"})

	assert.Error(t, err)
}
