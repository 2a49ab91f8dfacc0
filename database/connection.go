package database

import (
	"github.com/passai/material-service/config"
	"github.com/passai/material-service/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB(cfg *config.Config) *gorm.DB {
	dsn := "host=" + cfg.Database.DBHost +
		" user=" + cfg.Database.DBUser +
		" password=" + cfg.Database.DBPassword +
		" dbname=" + cfg.Database.DBName +
		" port=" + cfg.Database.DBPort +
		" sslmode=disable TimeZone=UTC"
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database: " + err.Error())
	}
	if err := db.AutoMigrate(&models.Material{}); err != nil {
		panic("failed to migrate database: " + err.Error())
	}
	return db
}
