package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlourenco/stockbook-backend/internal/domain"
)

func TestPortfolioRepository_GetByID(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewPortfolioRepository(&DB{DB: conn})
	id := uuid.New()
	created := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, name, description, created_at FROM portfolios`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at"}).
			AddRow(id.String(), "Retirement", "long horizon", created))

	p, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Retirement", p.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPortfolioRepository_GetByID_NotFound(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewPortfolioRepository(&DB{DB: conn})
	id := uuid.New()

	mock.ExpectQuery(`SELECT id, name, description, created_at FROM portfolios`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at"}))

	_, err = repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPortfolioRepository_Update_NotFound(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewPortfolioRepository(&DB{DB: conn})
	p := &domain.Portfolio{ID: uuid.New(), Name: "Renamed"}

	mock.ExpectExec(`UPDATE portfolios`).
		WithArgs(p.ID, p.Name, p.Description).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), p)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
