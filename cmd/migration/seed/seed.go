package seed

import (
	"geoportal/config"
	"geoportal/internal/database"
	"geoportal/internal/logger"
	. "geoportal/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

// Seed runs inside one transaction: either the full development fixture
// lands or none of it does.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("Seed")
	log.Info("Seeding development data")

	tx := db.Begin()
	if tx.Error != nil {
		return log.Err("failed to begin seed transaction", tx.Error)
	}
	defer database.TXDefer(tx, log)

	users := []User{
		{Username: "ada", Password: "password"},
		{Username: "grace", Password: "password"},
	}

	for i, user := range users {
		var existingUser User
		if err := tx.First(&existingUser, "username = ?", user.Username).Error; err == nil {
			log.Info("User already exists", "username", user.Username)
			users[i] = existingUser
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			_ = tx.AddError(err)
			return log.Err("failed to hash seed password", err, "username", user.Username)
		}
		user.Password = string(hash)

		log.Info("Seeding user", "username", user.Username)
		if err := tx.Create(&user).Error; err != nil {
			_ = tx.AddError(err)
			return log.Err("failed to create seed user", err, "username", user.Username)
		}
		users[i] = user
	}

	requests := []Request{
		{
			VariableName:   VariableTemperature,
			PressureLevels: IntList{1000, 850},
			Years:          IntList{2020, 2021},
			Months:         IntList{1, 2},
			Days:           IntList{1, 15},
			Hours:          IntList{0, 12},
			AreaCovered:    FloatList(FullAreaCovered()),
			MapTypes:       MapTypeList{MapTypeCont},
			MapRanges:      MapRangeList{MapRangeMax},
			MapLevels:      IntList(DefaultMapLevels()),
			FileFormat:     FormatSVG,
			OwnerID:        &users[0].ID,
		},
		{
			VariableName:   VariableGeopotential,
			PressureLevels: IntList{500},
			Years:          IntList{2022},
			Months:         IntList{6},
			Days:           IntList{21},
			Hours:          IntList{6, 18},
			AreaCovered:    FloatList{60, -10, 30, 40},
			MapTypes:       MapTypeList{MapTypeDisp, MapTypeComb},
			MapRanges:      MapRangeList{MapRangeBoth},
			MapLevels:      IntList{30},
			FileFormat:     FormatPNG,
			OutDir:         stringPtr("/tmp/geoportal"),
			Debug:          true,
			OwnerID:        &users[0].ID,
		},
	}

	for _, request := range requests {
		log.Info("Seeding request", "variableName", request.VariableName)
		if err := tx.Create(&request).Error; err != nil {
			_ = tx.AddError(err)
			return log.Err("failed to create seed request", err, "variableName", request.VariableName)
		}
	}

	return nil
}
