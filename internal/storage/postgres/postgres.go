// postgres предоставляет реализацию хранилищ contacts-service на базе PostgreSQL.
//
// Файлы пакета:
// profiles.go — профили и пресеты раскрытия;
// contacts.go — граф связей (одна строка на пару, транзакционные мутации);
// qrtokens.go — одноразовые QR-токены (CAS-погашение);
// posts.go — публикации для ленты.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pribylovaa/contacts-service/internal/storage"
)

type Storage struct {
	db *pgxpool.Pool
}

// New создает и инициализирует пул соединений к PostgreSQL.
func New(ctx context.Context, dbURL string) (*Storage, error) {
	const op = "storage/postgres/New"

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// Close закрывает пул соединений.
// Должен вызываться при остановке приложения.
func (s *Storage) Close() {
	s.db.Close()
}

// Проверки выполнения контрактов верхнего уровня.
var (
	_ storage.ProfilesStorage = (*Storage)(nil)
	_ storage.ContactsStorage = (*Storage)(nil)
	_ storage.QRTokensStorage = (*Storage)(nil)
	_ storage.PostsStorage    = (*Storage)(nil)
)
