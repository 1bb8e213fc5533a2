package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/restaurant-review-api/internal/domain/apperror"
)

const restaurantID = "7d3c5a9e-2f41-4c8b-9d0e-1a2b3c4d5e6f"

var restaurantCols = []string{
	"id", "name", "description", "country", "postal_code", "address",
	"webpage", "phone_number", "disabled", "avg_rating", "photo_url", "created_at",
}

func restaurantRow(avg float64) *pgxmock.Rows {
	return pgxmock.NewRows(restaurantCols).AddRow(
		restaurantID, "Chez Nous", "Bistro", "FR", "75001", "1 Rue de Rivoli",
		"", "", false, avg, "", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	)
}

func TestReviewRepository_Create_UpdatesAverageInSameTx(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM restaurants WHERE id = $1 FOR UPDATE`)).
		WithArgs(restaurantID).
		WillReturnRows(restaurantRow(3.0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*), COALESCE(SUM(rating), 0)`)).
		WithArgs(restaurantID).
		WillReturnRows(pgxmock.NewRows([]string{"count", "sum"}).AddRow(int64(2), int64(6)))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO reviews`)).
		WithArgs(restaurantID, "user-1", 5, "great").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("review-1", created))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE restaurants SET avg_rating = $2 WHERE id = $1`)).
		WithArgs(restaurantID, 3.7).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	repo := NewReviewRepository(mock)
	rv, rest, err := repo.Create(context.Background(), restaurantID, "user-1", 5, "great")
	require.NoError(t, err)
	require.Equal(t, "review-1", rv.ID)
	require.Equal(t, 5, rv.Rating)
	require.Equal(t, created, rv.CreatedAt)
	require.Equal(t, 3.7, rest.AvgRating)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_FirstReviewSetsAverageToRating(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs(restaurantID).
		WillReturnRows(restaurantRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`COALESCE(SUM(rating), 0)`)).
		WithArgs(restaurantID).
		WillReturnRows(pgxmock.NewRows([]string{"count", "sum"}).AddRow(int64(0), int64(0)))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO reviews`)).
		WithArgs(restaurantID, "", 4, "fine").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("review-1", time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE restaurants SET avg_rating`)).
		WithArgs(restaurantID, 4.0).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	_, rest, err := NewReviewRepository(mock).Create(context.Background(), restaurantID, "", 4, "fine")
	require.NoError(t, err)
	require.Equal(t, 4.0, rest.AvgRating)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_MissingRestaurantWritesNothing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs(restaurantID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, _, err = NewReviewRepository(mock).Create(context.Background(), restaurantID, "user-1", 5, "great")
	require.ErrorIs(t, err, apperror.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_RollsBackWhenAverageUpdateFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs(restaurantID).
		WillReturnRows(restaurantRow(5))
	mock.ExpectQuery(regexp.QuoteMeta(`COALESCE(SUM(rating), 0)`)).
		WithArgs(restaurantID).
		WillReturnRows(pgxmock.NewRows([]string{"count", "sum"}).AddRow(int64(1), int64(5)))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO reviews`)).
		WithArgs(restaurantID, "user-1", 1, "bad").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("review-2", time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE restaurants SET avg_rating`)).
		WithArgs(restaurantID, 3.0).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, _, err = NewReviewRepository(mock).Create(context.Background(), restaurantID, "user-1", 1, "bad")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Best_NoReviews(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY rating DESC, created_at ASC, id ASC LIMIT 1`)).
		WithArgs(restaurantID).
		WillReturnError(pgx.ErrNoRows)

	rv, err := NewReviewRepository(mock).Best(context.Background(), restaurantID)
	require.NoError(t, err)
	require.Nil(t, rv)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_List_FiltersByRating(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"id", "restaurant_id", "user_id", "rating", "review", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE restaurant_id = $1 AND rating = $2 ORDER BY created_at, id OFFSET $3 LIMIT $4`)).
		WithArgs(restaurantID, 5, 0, 10).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("r1", restaurantID, "u1", 5, "great", time.Now()).
			AddRow("r2", restaurantID, "", 5, "superb", time.Now()))

	got, err := NewReviewRepository(mock).List(context.Background(), restaurantID, 5, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Empty(t, got[1].UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Count_IgnoresOutOfRangeRating(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM reviews WHERE restaurant_id = \$1$`).
		WithArgs(restaurantID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	n, err := NewReviewRepository(mock).Count(context.Background(), restaurantID, 0)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
