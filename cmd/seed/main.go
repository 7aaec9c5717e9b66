// Команда seed подготавливает базу: применяет миграции и загружает стандартный набор вопросов.
//
//	go run ./cmd/seed            # миграции + данные (существующие id пропускаются)
//	go run ./cmd/seed -reset     # очистить таблицы перед загрузкой
//	go run ./cmd/seed -force 1   # снять флаг dirty после упавшей миграции
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/yourusername/trivia-catalog/internal/config"
	"github.com/yourusername/trivia-catalog/internal/logger"
	"github.com/yourusername/trivia-catalog/pkg/database"
)

func main() {
	dsn := flag.String("dsn", "", "строка подключения к PostgreSQL (по умолчанию из конфигурации)")
	reset := flag.Bool("reset", false, "очистить таблицы перед загрузкой")
	force := flag.Int("force", -1, "принудительно выставить версию миграций и выйти")
	flag.Parse()

	zapLogger, err := logger.New("dev")
	if err != nil {
		log.Fatal(err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	if *dsn == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = config.DefaultConfigPath
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			zapLogger.Fatal("failed to load config", zap.Error(err))
		}
		*dsn = cfg.Database.DSN()
	}

	db, err := sql.Open("postgres", *dsn)
	if err != nil {
		zapLogger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if *force >= 0 {
		if err := database.ForceVersion(db, *force); err != nil {
			zapLogger.Fatal("failed to force migration version", zap.Error(err))
		}
		zapLogger.Info("migration version forced, dirty state cleaned", zap.Int("version", *force))
		return
	}

	if err := database.MigrateSQL(db, zapLogger); err != nil {
		zapLogger.Fatal("failed to migrate database", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	inserted, err := seed(ctx, db, *reset)
	if err != nil {
		zapLogger.Fatal("failed to seed database", zap.Error(err))
	}
	zapLogger.Info("database seeded",
		zap.Int("categories", len(fixtureCategories)),
		zap.Int("questions", len(fixtureQuestions)),
		zap.Int64("rows_inserted", inserted),
		zap.Bool("reset", *reset))
}

// seed загружает набор в одной транзакции и возвращает число вставленных строк
func seed(ctx context.Context, db *sql.DB, reset bool) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if reset {
		if _, err := tx.ExecContext(ctx, `TRUNCATE questions, categories RESTART IDENTITY`); err != nil {
			return 0, fmt.Errorf("truncate: %w", err)
		}
	}

	var inserted int64
	for _, c := range fixtureCategories {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, type) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
			c.ID, c.Type)
		if err != nil {
			return 0, fmt.Errorf("insert category %d: %w", c.ID, err)
		}
		n, _ := res.RowsAffected()
		inserted += n
	}

	for _, q := range fixtureQuestions {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO questions (id, question, answer, category, difficulty) VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO NOTHING`,
			q.ID, q.Question, q.Answer, q.Category, q.Difficulty)
		if err != nil {
			return 0, fmt.Errorf("insert question %d: %w", q.ID, err)
		}
		n, _ := res.RowsAffected()
		inserted += n
	}

	// Новые записи не должны конфликтовать с загруженными id
	for _, table := range []string{"categories", "questions"} {
		if _, err := tx.ExecContext(ctx, sequenceResetQuery(table)); err != nil {
			return 0, fmt.Errorf("reset %s sequence: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// sequenceResetQuery сдвигает последовательность id таблицы за максимальный id.
// Последовательность только растет: id вопроса, удаленного через API, не выдается повторно.
func sequenceResetQuery(table string) string {
	return fmt.Sprintf(`SELECT setval('%[1]s_id_seq', GREATEST(
		(SELECT last_value FROM %[1]s_id_seq),
		COALESCE((SELECT MAX(id) FROM %[1]s), 1)))`, table)
}
