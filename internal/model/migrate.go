package model

import "gorm.io/gorm"

// AutoMigrate creates the schema and seeds the fixed statuses reference table.
// Shared by the server entrypoint and the test setup.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Organization{},
		&Person{},
		&Portfolio{},
		&Unit{},
		&CustomizedGrade{},
		&UnityGrade{},
		&Criterion{},
		&Project{},
		&Task{},
		&Evaluation{},
		&Status{},
		&ProjectStatus{},
	); err != nil {
		return err
	}
	return seedStatuses(db)
}

func seedStatuses(db *gorm.DB) error {
	for _, code := range AllStatuses() {
		status := Status{ID: uint(code), Name: code.String()}
		if err := db.Where("id = ?", status.ID).FirstOrCreate(&status).Error; err != nil {
			return err
		}
	}
	return nil
}
