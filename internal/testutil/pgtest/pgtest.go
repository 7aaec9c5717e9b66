// Package pgtest поднимает PostgreSQL для интеграционных тестов репозиториев и cmd/seed.
//
// TEST_DATABASE_URL указывает на уже запущенную базу. Без нее TEST_POSTGRES_DOCKER=1
// запускает временный контейнер через dockertest. Если не задано ни то, ни другое,
// интеграционные тесты пропускаются. Пакеты делят одну базу и очищают ее перед
// каждым тестом, поэтому запускать их нужно последовательно: go test -p 1 ./...
package pgtest

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/yourusername/trivia-catalog/pkg/database"
)

const (
	EnvDSN    = "TEST_DATABASE_URL"
	EnvDocker = "TEST_POSTGRES_DOCKER"

	image = "postgres"
	tag   = "16-alpine"
)

// Start возвращает DSN тестовой базы и функцию остановки.
// Пустой DSN без ошибки означает, что база не настроена.
func Start() (string, func(), error) {
	if dsn := os.Getenv(EnvDSN); dsn != "" {
		return dsn, func() {}, nil
	}
	if os.Getenv(EnvDocker) != "1" {
		return "", func() {}, nil
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		return "", nil, fmt.Errorf("failed to connect to docker: %w", err)
	}
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: image,
		Tag:        tag,
		Env: []string{
			"POSTGRES_USER=trivia",
			"POSTGRES_PASSWORD=trivia",
			"POSTGRES_DB=trivia_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to start postgres container: %w", err)
	}
	stop := func() { _ = pool.Purge(resource) }

	// Контейнер не переживет упавший тестовый процесс дольше пяти минут
	_ = resource.Expire(300)

	dsn := fmt.Sprintf("postgres://trivia:trivia@%s/trivia_test?sslmode=disable", resource.GetHostPort("5432/tcp"))
	err = pool.Retry(func() error {
		db, err := database.NewPostgresDB(dsn, database.DefaultPoolConfig())
		if err != nil {
			return err
		}
		ping := database.Ping(db)
		defer func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}()
		return ping(context.Background())
	})
	if err != nil {
		stop()
		return "", nil, fmt.Errorf("postgres container did not become ready: %w", err)
	}
	return dsn, stop, nil
}
