// Package repository реализует хранилище данных на основе PostgreSQL
// для управления пользователями, каталогом, подписками и кампаниями.
// Предоставляет методы создания, чтения, обновления и удаления записей.
//
// Нарушения ограничений уникальности и внешних ключей транслируются в
// сентинельные ошибки ErrDuplicate и ErrRestricted, чтобы вызывающий код
// мог отличить гонку конкурентных запросов от прочих сбоев.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Сентинельные ошибки хранилища.
var (
	// ErrNotFound запись с указанным идентификатором отсутствует.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate нарушено ограничение уникальности.
	ErrDuplicate = errors.New("duplicate record")
	// ErrRestricted удаление запрещено ссылающимися записями (FK RESTRICT).
	ErrRestricted = errors.New("record is referenced and cannot be deleted")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с доменными сущностями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// translatePgError сводит ошибки драйвера к сентинелям пакета:
// sql.ErrNoRows -> ErrNotFound, 23505 -> ErrDuplicate, 23503 -> ErrRestricted.
func translatePgError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: %w", op, ErrDuplicate)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, ErrRestricted)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// inTx выполняет fn внутри транзакции: коммит после успешного завершения,
// полный откат при любой ошибке.
func (s *Storage) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
