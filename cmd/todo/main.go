package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todoapp/internal/server"
	db "todoapp/repository/db"
	inmemory "todoapp/repository/inmemory"
)

func main() {
	log.Println("Запуск сервиса задач...")

	cfg := server.ReadConfig()
	if cfg.Secret == "" {
		log.Fatal("[ERROR] Не задан секрет подписи токенов: укажите JWT_SECRET или флаг -secret")
	}

	if err := db.Migration(cfg.DBStr, cfg.MigratePath); err != nil {
		log.Println("[WARN] Ошибка применения миграций:", err)
	} else {
		log.Println("[SUCCESS] Миграции применены успешно")
	}

	var userRepo server.UserRepository
	var todoRepo server.TodoRepository
	var tagRepo server.TagRepository

	dbStorage, err := db.NewStorage(cfg.DBStr)
	if err != nil {
		log.Println("[WARN] Не удалось подключиться к БД, используем память:", err)
		inmem := inmemory.NewStorage()
		userRepo = inmem
		todoRepo = inmem
		tagRepo = inmem
	} else {
		defer dbStorage.Close()
		userRepo = dbStorage
		todoRepo = dbStorage
		tagRepo = dbStorage
	}

	api := server.NewTodoAPI(userRepo, todoRepo, tagRepo, cfg)
	if api == nil {
		log.Fatal("[ERROR] Не удалось инициализировать API")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Сервис запущен на %s:%d", cfg.Addr, cfg.Port)
		if err := api.Start(); err != nil {
			serverErr <- err
		}
	}()

	select {
	case sig := <-sigChan:
		log.Printf("[INFO] Получен сигнал %v, начинаем graceful shutdown...", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := api.Shutdown(shutdownCtx); err != nil {
			log.Printf("[ERROR] Ошибка при graceful shutdown: %v", err)
		} else {
			log.Println("[SUCCESS] Graceful shutdown выполнен успешно")
		}

	case err := <-serverErr:
		log.Printf("[ERROR] Ошибка сервера: %v", err)
	}

	log.Println("Сервис завершен")
}
