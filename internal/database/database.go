package database

import (
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/maxkhm/SageBot/internal/database/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func InitDB(dsn string) *gorm.DB {
	db, err := gorm.Open(openDialector(dsn), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	db.Config.Logger = logger.Default.LogMode(logger.Silent)

	if err := Migrate(db); err != nil {
		panic(err)
	}

	SeedPlans(db)

	return db
}

func openDialector(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		return postgres.Open(dsn)
	}
	if dsn == "" {
		dsn = "sagebot.db"
	}
	return sqlite.Open(dsn)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.UsageHourlyQuota{},

		&models.SubscriptionPlan{},
		&models.SubscriptionCard{},
		&models.UserSubscription{},
	)
}

func SeedPlans(db *gorm.DB) {
	plans := []models.SubscriptionPlan{
		{
			ID:                 1,
			Code:               "FREE",
			Name:               "Free",
			Description:        "Default tier",
			HourlyMessageLimit: 10,
			Priority:           0,
			MonthlyPrice:       0,
			IsDefault:          true,
			IsActive:           true,
		},
		{
			ID:                 2,
			Code:               "PLUS",
			Name:               "Plus",
			Description:        "More messages per hour",
			HourlyMessageLimit: 50,
			Priority:           10,
			MonthlyPrice:       4.99,
			IsActive:           true,
		},
		{
			ID:                 3,
			Code:               "PRO",
			Name:               "Pro",
			Description:        "Highest hourly quota",
			HourlyMessageLimit: 120,
			Priority:           20,
			MonthlyPrice:       9.99,
			IsActive:           true,
		},
	}

	for _, plan := range plans {
		db.Clauses(
			clause.OnConflict{UpdateAll: true},
		).Create(&plan)
	}
}
