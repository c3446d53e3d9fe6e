package client

import (
	"log"
	"restaurant-checkout/internal/model"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB connects to MySQL when a DATABASE_URL is set, otherwise falls
// back to a local sqlite file for development.
func InitDB(databaseURL, sqlitePath string) *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)
	if databaseURL != "" {
		db, err = gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	} else {
		db, err = gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{})
	}
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.Customer{},
		&model.Location{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.Address{},
		&model.PaymentMethod{},
		&model.PaymentProfile{},
	); err != nil {
		log.Fatal(err)
	}

	return db
}
