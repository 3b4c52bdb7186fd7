package db

import (
	"errors"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func Migration(dbDSN, migratePath string) error {
	m, err := migrate.New("file://"+migratePath, dbDSN)
	if err != nil {
		log.Println("[ERROR] Не удалось инициализировать миграции:", err)
		return err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Println("[ERROR] Ошибка закрытия источника миграций:", srcErr)
		}
		if dbErr != nil {
			log.Println("[ERROR] Ошибка закрытия соединения миграций:", dbErr)
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Println("[ERROR] Не удалось применить миграции:", err)
		return err
	}
	return nil
}
