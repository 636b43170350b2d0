package config

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	model "labelforge.com/labelforge/internal/models"
)

func NewDatabase(dsn string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	err = db.AutoMigrate(
		&model.Project{},
		&model.Dataset{},
		&model.Task{},
		&model.Comment{},
	)
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	return db
}
