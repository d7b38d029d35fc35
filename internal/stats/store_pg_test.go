package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"resume-analyzer/internal/analyses"
)

func TestPGSnapshotAggregates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM documents`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("extracted", 2).
			AddRow("uploaded", 1))
	mock.ExpectQuery(`SELECT mime_type, COUNT\(\*\) FROM documents`).
		WillReturnRows(sqlmock.NewRows([]string{"mime_type", "count"}).
			AddRow("application/pdf", 2).
			AddRow("application/x-tar", 1))
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM analyses`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("completed", 2).
			AddRow("failed", 1))
	mock.ExpectQuery(`SELECT mode, COUNT\(\*\) FROM analyses`).
		WillReturnRows(sqlmock.NewRows([]string{"mode", "count"}).
			AddRow("basic", 2).
			AddRow("weighted", 1))
	mock.ExpectQuery(`SELECT error_code, COUNT\(\*\) FROM analyses`).
		WithArgs(analyses.StatusFailed).
		WillReturnRows(sqlmock.NewRows([]string{"error_code", "count"}).
			AddRow("CORRUPT_FILE", 1))
	mock.ExpectQuery(`SELECT AVG\(total_score\) FROM analyses`).
		WithArgs(analyses.StatusCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(73.333))
	mock.ExpectCommit()

	snap, err := NewPGStore(db).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if snap.Documents.Total != 3 {
		t.Fatalf("documents total = %d, want 3", snap.Documents.Total)
	}
	if snap.Documents.ByFormat["pdf"] != 2 || snap.Documents.ByFormat["other"] != 1 {
		t.Fatalf("documents by format = %v", snap.Documents.ByFormat)
	}
	if snap.Analyses.Total != 3 {
		t.Fatalf("analyses total = %d, want 3", snap.Analyses.Total)
	}
	if snap.Analyses.ByMode["weighted"] != 1 {
		t.Fatalf("analyses by mode = %v", snap.Analyses.ByMode)
	}
	if snap.Analyses.FailuresByCode["CORRUPT_FILE"] != 1 {
		t.Fatalf("failures by code = %v", snap.Analyses.FailuresByCode)
	}
	if snap.Analyses.AverageScore == nil || *snap.Analyses.AverageScore != 73.33 {
		t.Fatalf("average score = %v, want 73.33", snap.Analyses.AverageScore)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGSnapshotEmptyTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM documents`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}))
	mock.ExpectQuery(`SELECT mime_type, COUNT\(\*\) FROM documents`).
		WillReturnRows(sqlmock.NewRows([]string{"mime_type", "count"}))
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM analyses`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}))
	mock.ExpectQuery(`SELECT mode, COUNT\(\*\) FROM analyses`).
		WillReturnRows(sqlmock.NewRows([]string{"mode", "count"}))
	mock.ExpectQuery(`SELECT error_code, COUNT\(\*\) FROM analyses`).
		WithArgs(analyses.StatusFailed).
		WillReturnRows(sqlmock.NewRows([]string{"error_code", "count"}))
	mock.ExpectQuery(`SELECT AVG\(total_score\) FROM analyses`).
		WithArgs(analyses.StatusCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(nil))
	mock.ExpectCommit()

	snap, err := NewPGStore(db).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Documents.Total != 0 || snap.Analyses.Total != 0 {
		t.Fatalf("totals = %d/%d, want 0/0", snap.Documents.Total, snap.Analyses.Total)
	}
	if snap.Analyses.AverageScore != nil {
		t.Fatalf("average score = %v, want nil", *snap.Analyses.AverageScore)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGSnapshotQueryErrorRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM documents`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	if _, err := NewPGStore(db).Snapshot(context.Background()); err == nil {
		t.Fatal("expected an error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
