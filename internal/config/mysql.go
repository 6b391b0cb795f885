package config

import (
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// DB is the single storage handle shared by every request for the process lifetime.
var DB *gorm.DB

// InitDB opens the MySQL connection pool.
func InitDB(s Settings) *gorm.DB {
	var err error
	DB, err = gorm.Open(mysql.Open(s.DBDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		Logger.Fatal("Error connecting to the database", zap.Error(err))
	}

	sqlDB, err := DB.DB()
	if err != nil {
		Logger.Fatal("Error getting raw DB", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(s.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(s.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(s.DBMaxLifetime)

	Logger.Info("Database connected")
	return DB
}
