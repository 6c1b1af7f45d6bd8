package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"latribu-backend/internal/models"
)

func newMockRepo(t *testing.T) (*SearchHistoryRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm open error: %v", err)
	}
	return NewSearchHistoryRepository(db), mock
}

func TestRecordAssignsID(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`INSERT INTO "search_records"`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := &models.SearchRecord{OriginText: "Pasto", DestinationText: "Ipiales", DepartureDate: "2026-10-19", ResultsCount: 4}
	if err := repo.Record(context.Background(), rec); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if len(rec.ID) != 36 {
		t.Fatalf("uuid not assigned: %q", rec.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordWrapsError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`INSERT INTO "search_records"`).WillReturnError(errors.New("disk full"))

	if err := repo.Record(context.Background(), &models.SearchRecord{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPopular(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT origin_text, destination_text, COUNT\(\*\) AS total FROM "search_records" GROUP BY origin_text, destination_text ORDER BY total DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"origin_text", "destination_text", "total"}).
			AddRow("Pasto", "Ipiales", 12).
			AddRow("Cali", "Pasto", 7))

	routes, err := repo.Popular(context.Background(), 5)
	if err != nil {
		t.Fatalf("popular error: %v", err)
	}
	if len(routes) != 2 || routes[0].OriginText != "Pasto" || routes[0].Total != 12 {
		t.Fatalf("routes = %+v", routes)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNilDatabaseIsNoop(t *testing.T) {
	repo := NewSearchHistoryRepository(nil)
	if err := repo.Record(context.Background(), &models.SearchRecord{}); err != nil {
		t.Fatalf("record on nil db: %v", err)
	}
	routes, err := repo.Popular(context.Background(), 5)
	if err != nil || routes == nil || len(routes) != 0 {
		t.Fatalf("popular on nil db = %v, %v", routes, err)
	}
}
