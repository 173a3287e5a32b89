package database

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ligna-erp/ligna-api/internal/models"
	"github.com/ligna-erp/ligna-api/pkg/logger"
)

// Seed loads the chart of accounts, the production units and a default
// admin user. Every step is idempotent; already-populated tables are
// left alone.
func Seed(db *gorm.DB, adminEmail, adminPassword string) error {
	if err := seedAccounts(db); err != nil {
		return fmt.Errorf("seeding accounts: %w", err)
	}
	if err := seedProductionUnits(db); err != nil {
		return fmt.Errorf("seeding production units: %w", err)
	}
	if err := seedSequence(db); err != nil {
		return fmt.Errorf("seeding invoice sequence: %w", err)
	}
	if err := seedAdmin(db, adminEmail, adminPassword); err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}
	return nil
}

type seedAccount struct {
	code  string
	label string
	class int
	typ   string
	level int
}

// Algerian chart of accounts, classes 1 to 8, plus the detail accounts
// the posting engine routes to.
var chartOfAccounts = []seedAccount{
	{"10", "Capital", 1, models.AccountTypeCapital, 1},
	{"11", "Reserves", 1, models.AccountTypeCapital, 1},
	{"12", "Retained earnings", 1, models.AccountTypeCapital, 1},

	{"20", "Intangible assets", 2, models.AccountTypeAsset, 1},
	{"21", "Tangible assets", 2, models.AccountTypeAsset, 1},
	{"23", "Assets under construction", 2, models.AccountTypeAsset, 1},
	{"27", "Translation differences", 2, models.AccountTypeAsset, 1},

	{"31", "Raw materials", 3, models.AccountTypeAsset, 1},
	{"35", "Finished goods", 3, models.AccountTypeAsset, 1},
	{"38", "Other supplies", 3, models.AccountTypeAsset, 1},
	{"311000", "Raw materials stock", 3, models.AccountTypeAsset, 2},
	{"351000", "Finished goods stock", 3, models.AccountTypeAsset, 2},
	{"351001", "Semi-finished goods stock", 3, models.AccountTypeAsset, 2},

	{"40", "Suppliers", 4, models.AccountTypeLiability, 1},
	{"41", "Customers", 4, models.AccountTypeAsset, 1},
	{"401000", "Suppliers - purchases", 4, models.AccountTypeLiability, 2},
	{"411000", "Customers - sales", 4, models.AccountTypeAsset, 2},
	{"4456", "Deductible VAT on purchases", 4, models.AccountTypeAsset, 2},
	{"4457", "Collected VAT", 4, models.AccountTypeLiability, 2},
	{"4458", "Stamp duty", 4, models.AccountTypeLiability, 2},

	{"51", "Banks", 5, models.AccountTypeAsset, 1},
	{"53", "Cash", 5, models.AccountTypeAsset, 1},
	{"530000", "Main cash register", 5, models.AccountTypeAsset, 2},

	{"60", "Purchases", 6, models.AccountTypeExpense, 1},
	{"61", "External services", 6, models.AccountTypeExpense, 1},
	{"62", "Other external services", 6, models.AccountTypeExpense, 1},
	{"64", "Staff costs", 6, models.AccountTypeExpense, 1},
	{"68", "Depreciation allowances", 6, models.AccountTypeExpense, 1},
	{"606100", "Energy and utilities", 6, models.AccountTypeExpense, 2},
	{"611000", "Production overhead", 6, models.AccountTypeExpense, 2},
	{"641000", "Wages and salaries", 6, models.AccountTypeExpense, 2},
	{"658000", "Miscellaneous operating expenses", 6, models.AccountTypeExpense, 2},
	{"681100", "Depreciation of fixed assets", 6, models.AccountTypeExpense, 2},

	{"70", "Sales", 7, models.AccountTypeRevenue, 1},
	{"71", "Stored production", 7, models.AccountTypeRevenue, 1},
	{"701003", "Sales of wood waste", 7, models.AccountTypeRevenue, 2},
	{"701004", "Sales of semi-finished goods", 7, models.AccountTypeRevenue, 2},
	{"713000", "Change in stored production", 7, models.AccountTypeRevenue, 2},
	{"758000", "Miscellaneous operating income", 7, models.AccountTypeRevenue, 2},
}

func seedAccounts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Account{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, a := range chartOfAccounts {
		account := models.Account{
			Code:  a.code,
			Label: a.label,
			Class: a.class,
			Type:  a.typ,
			Level: a.level,
		}
		if err := db.Create(&account).Error; err != nil {
			return err
		}
	}

	logger.Info("chart of accounts seeded", "accounts", len(chartOfAccounts))
	return nil
}

func seedProductionUnits(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ProductionUnit{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	units := []models.ProductionUnit{
		{Code: models.DefaultProductionUnit, Name: "General stock", Description: "Default stock location"},
		{Code: "SCIERIE", Name: "Sawmill", Description: "Wood sawing unit"},
		{Code: "DEROULAGE", Name: "Peeling", Description: "Veneer peeling unit"},
		{Code: "ATELIER_NORD", Name: "North workshop", Description: "Finishing workshop"},
		{Code: "BROYEUR", Name: "Grinder", Description: "Waste grinding unit"},
	}
	for i := range units {
		if err := db.Create(&units[i]).Error; err != nil {
			return err
		}
	}

	logger.Info("production units seeded", "units", len(units))
	return nil
}

func seedSequence(db *gorm.DB) error {
	year := time.Now().Year()

	var count int64
	if err := db.Model(&models.Sequence{}).Where("year = ?", year).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Create(&models.Sequence{Year: year, LastNumber: 0}).Error
}

func seedAdmin(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:             email,
		EncryptedPassword: string(hash),
		FullName:          "Administrator",
		Role:              models.RoleAdmin,
		Status:            models.StatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("admin user seeded", "email", email)
	return nil
}
