//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

type HotelRow struct {
	Name                 string
	Status               string
	OwnerID              *uuid.UUID
	BasePrice            int64
	NormalRate           int64
	WeekendRate          int64
	ExtraHourRate        int64
	CancellationHourRate int64
}

func DefaultHotel(ownerID uuid.UUID) HotelRow {
	return HotelRow{
		Name:        "Harbor View",
		Status:      "approved",
		OwnerID:     &ownerID,
		BasePrice:   2400,
		NormalRate:  1000,
		WeekendRate: 1500,
	}
}

func CreateTestHotel(t *testing.T, db DBLike, row HotelRow) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO hotels (id, name, status, owner_id, base_price, normal_rate, weekend_rate,
		                    extra_hour_rate, cancellation_hour_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, row.Name, row.Status, row.OwnerID, row.BasePrice, row.NormalRate, row.WeekendRate,
		row.ExtraHourRate, row.CancellationHourRate)
	require.NoError(t, err)
	return id
}

func CreateTestRoom(t *testing.T, db DBLike, hotelID uuid.UUID, roomType string, price int64) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO rooms (id, hotel_id, room_type, price) VALUES ($1, $2, $3, $4)",
		id, hotelID, roomType, price)
	require.NoError(t, err)
	return id
}

func CreateTestCoupon(t *testing.T, db DBLike, code string, discount, usageLimit int, hotelID *uuid.UUID) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO coupons (id, code, discount, usage_limit, hotel_id) VALUES ($1, $2, $3, $4, $5)",
		id, code, discount, usageLimit, hotelID)
	require.NoError(t, err)
	return id
}

func CouponUsed(t *testing.T, db DBLike, id uuid.UUID) int {
	t.Helper()

	var used int
	err := db.QueryRow(context.Background(), "SELECT used FROM coupons WHERE id = $1", id).Scan(&used)
	require.NoError(t, err)
	return used
}

func BookingMessages(t *testing.T, db DBLike, bookingID uuid.UUID) []string {
	t.Helper()

	rows, err := db.Query(context.Background(),
		"SELECT body FROM booking_messages WHERE booking_id = $1 ORDER BY created_at, id", bookingID)
	require.NoError(t, err)
	defer rows.Close()

	var out []string
	for rows.Next() {
		var body string
		require.NoError(t, rows.Scan(&body))
		out = append(out, body)
	}
	require.NoError(t, rows.Err())
	return out
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO settings (id, hold_minutes, tax_rate) VALUES (1, 15, 0.1000)
		ON CONFLICT (id) DO NOTHING;
	`)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
