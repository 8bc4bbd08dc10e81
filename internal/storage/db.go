package storage

import (
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"

	defaultSQLiteDSN = "recruiter.db"
)

// Open connects to the configured database. Duplicate-key errors are translated
// to gorm.ErrDuplicatedKey for every driver.
func Open(driver, dsn string) (*gorm.DB, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	dsn = strings.TrimSpace(dsn)

	var dialector gorm.Dialector
	switch driver {
	case "", DriverSQLite:
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		dialector = sqlite.Open(dsn)
	case DriverMySQL:
		if dsn == "" {
			return nil, fmt.Errorf("database dsn is required for driver %q", driver)
		}
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	// Every pooled connection to an in-memory sqlite database would see its own empty schema.
	if strings.Contains(dsn, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("configure connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&knowledgeRecord{},
		&knowledgeKeyword{},
		&postingRecord{},
		&applicationRecord{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	if err := backfillCategorySearch(db); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// backfillCategorySearch fills category_search for rows written before the
// column existed. Folding happens in Go because SQL LOWER is ASCII-only on sqlite.
func backfillCategorySearch(db *gorm.DB) error {
	var records []knowledgeRecord
	if err := db.Select("id", "category").
		Where("category_search IS NULL OR category_search = ?", "").
		Find(&records).Error; err != nil {
		return err
	}

	for _, record := range records {
		folded := strings.ToLower(strings.TrimSpace(record.Category))
		if err := db.Model(&knowledgeRecord{}).Where("id = ?", record.ID).
			UpdateColumn("category_search", folded).Error; err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
