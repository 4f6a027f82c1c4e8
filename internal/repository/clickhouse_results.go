package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"WaveCast/internal/domain/models"
	domrepo "WaveCast/internal/domain/repository"
	pkgch "WaveCast/pkg/clickhouse"
	applogger "WaveCast/pkg/logger"
)

// Schema statements for the backtest result tables, applied idempotently at
// startup via Client.InitSchema.
var Schema = []string{
	`CREATE DATABASE IF NOT EXISTS wavecast`,
	`CREATE TABLE IF NOT EXISTS wavecast.backtest_reports (
        symbol               String,
        run_at               DateTime,
        days_back            Int32,
        test_period          Int32,
        evaluated            Int32,
        skipped              Int32,
        directional_accuracy Float64,
        target_hit_rate      Float64,
        mape                 Float64,
        avg_confidence       Float64
    ) ENGINE = MergeTree()
    ORDER BY (symbol, run_at)`,
	`CREATE TABLE IF NOT EXISTS wavecast.backtest_results (
        symbol          String,
        run_at          DateTime,
        anchor_time     DateTime,
        current_wave    String,
        next_wave       String,
        direction       String,
        target_price    Float64,
        target_low      Float64,
        target_high     Float64,
        realized_price  Float64,
        directional_hit UInt8,
        target_hit      UInt8,
        abs_pct_error   Float64,
        confidence      Float64
    ) ENGINE = MergeTree()
    ORDER BY (symbol, run_at, anchor_time)`,
}

// CHResultStore implements ResultStore backed by ClickHouse.
type CHResultStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHResultStore(ch *pkgch.Client) *CHResultStore {
	return &CHResultStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHResultStore) SetLogger(l *applogger.Logger) { s.l = l }

var _ domrepo.ResultStore = (*CHResultStore)(nil)

func (s *CHResultStore) SaveReport(ctx context.Context, report *models.BacktestReport) error {
	start := time.Now()

	const reportQ = `
        INSERT INTO wavecast.backtest_reports
            (symbol, run_at, days_back, test_period, evaluated, skipped,
             directional_accuracy, target_hit_rate, mape, avg_confidence)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	if _, err := s.db.ExecContext(ctx, reportQ,
		report.Symbol, report.RunAt, report.DaysBack, report.TestPeriod,
		report.Evaluated, report.Skipped,
		report.DirectionalAccuracy, report.TargetHitRate, report.MAPE, report.AvgConfidence,
	); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse save_report insert error",
				applogger.String("symbol", report.Symbol),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("insert report: %w", err)
	}

	if len(report.Results) > 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin results batch: %w", err)
		}
		const resultQ = `
            INSERT INTO wavecast.backtest_results
                (symbol, run_at, anchor_time, current_wave, next_wave, direction,
                 target_price, target_low, target_high, realized_price,
                 directional_hit, target_hit, abs_pct_error, confidence)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        `
		stmt, err := tx.PrepareContext(ctx, resultQ)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("prepare results batch: %w", err)
		}
		for _, r := range report.Results {
			if _, err := stmt.ExecContext(ctx,
				r.Symbol, report.RunAt, r.AnchorTime,
				string(r.Prediction.CurrentWave), string(r.Prediction.NextWave), r.Prediction.Direction,
				r.Prediction.TargetPrice, r.Prediction.TargetLow, r.Prediction.TargetHigh,
				r.RealizedPrice, boolToUInt8(r.DirectionalHit), boolToUInt8(r.TargetHit),
				r.AbsPctError, r.Prediction.Confidence,
			); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("insert result row: %w", err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit results batch: %w", err)
		}
	}

	if s.l != nil {
		s.l.Info("clickhouse save_report ok",
			applogger.String("symbol", report.Symbol),
			applogger.Int("results", len(report.Results)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHResultStore) LatestLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	start := time.Now()
	const q = `
        SELECT
            symbol,
            argMax(directional_accuracy, run_at) AS acc,
            argMax(target_hit_rate, run_at)      AS hit,
            argMax(mape, run_at)                 AS mape,
            argMax(evaluated, run_at)            AS evaluated
        FROM wavecast.backtest_reports
        GROUP BY symbol
        ORDER BY acc DESC, mape ASC, symbol ASC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse leaderboard query error", applogger.Error(err))
		}
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	out := make([]models.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var e models.LeaderboardEntry
		var evaluated int32
		if err := rows.Scan(&e.Symbol, &e.DirectionalAccuracy, &e.TargetHitRate, &e.MAPE, &evaluated); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		e.Evaluated = int(evaluated)
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if s.l != nil {
		s.l.Info("clickhouse leaderboard ok",
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHResultStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
