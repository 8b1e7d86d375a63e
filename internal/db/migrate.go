package db

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"digistore/internal/model"
)

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductOption{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderStatusLog{},
		&model.Review{},
	}
}

// Migrate runs auto-migrations for all models. When reset is set, tables are dropped first.
func Migrate(db *gorm.DB, reset bool) error {
	models := Models()
	if reset {
		log.Println("RESET_DB=true detected, dropping all tables...")
		for i := len(models) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(models[i]); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
