package models

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	sqliteEncrypt "github.com/Daskott/gorm-sqlite-cipher"
	"github.com/openbhoukal/emergency-contacts/server/logger"
	"github.com/openbhoukal/emergency-contacts/utils"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const DB_NAME = "contacts.db"

var logg = logger.NewLogger()
var db *gorm.DB

// AutoMigrate opens the sqlite db & auto-migrates the schema.
func AutoMigrate(passPhrase string, dbRootDir string) error {
	err := openDB(passPhrase, dbRootDir)
	if err != nil {
		return err
	}

	return db.AutoMigrate(&Contact{})
}

// InitializeTestDb swaps the package db for a fresh in-memory sqlite db.
// Only for use in tests.
func InitializeTestDb() {
	var err error

	// cache=shared keeps every pooled connection on the same in-memory db,
	// so the table dropped & recreated here is the one queries see.
	db, err = gorm.Open(sqliteEncrypt.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		logg.Panicf("failed to open test database: %v", err)
	}

	if err = db.Migrator().DropTable(&Contact{}); err != nil {
		logg.Panicf("failed to reset test database: %v", err)
	}

	if err = db.AutoMigrate(&Contact{}); err != nil {
		logg.Panicf("failed to migrate test database: %v", err)
	}
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//
func openDB(passPhrase string, dbRootDir string) error {
	var err error
	var dbDSNVal string

	dbDSNVal, err = dbDSN(passPhrase, dbRootDir)
	if err != nil {
		return fmt.Errorf("failed to set sqlite DSN: %v", err)
	}

	db, err = gorm.Open(sqliteEncrypt.Open(dbDSNVal), &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				LogLevel:                  gormLogger.Silent,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %v", err)
	}

	return nil
}

func dbDSN(passPhrase string, dbRootDir string) (string, error) {
	dbDir, err := DbDirectory(dbRootDir)
	if err != nil {
		return "", err
	}

	dbFilePath := filepath.Join(dbDir, DB_NAME)
	dbName := fmt.Sprintf("file:%v", dbFilePath)

	return fmt.Sprintf(
		"%v?_pragma_key=%s&_pragma_cipher_page_size=4096&_journal_mode=WAL",
		dbName,
		passPhrase,
	), nil
}

func DbDirectory(dbRootDir string) (string, error) {
	dbDir := filepath.Join(dbRootDir, "db")

	err := utils.CreateDirIfNotExist(dbDir)
	if err != nil {
		return "", err
	}

	return dbDir, nil
}
