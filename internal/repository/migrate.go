package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the SQL schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&userModel{}, &postModel{})
}
