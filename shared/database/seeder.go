package database

import (
	"log"

	"github.com/google/uuid"

	"ngoconnect-backend/shared/database/models"
	utils "ngoconnect-backend/shared/utils/auth"
)

// CreateAdmin creates the platform admin account when it does not exist.
func CreateAdmin(email, password string) error {
	var count int64
	if err := DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("✅ Admin user already exists: %s", email)
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: hash,
		Role:     models.RoleAdmin,
	}

	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", email)
	return nil
}

// SeedDatabase inserts a demo NGO so the listing and upload flows have
// something to work against in development.
func SeedDatabase() error {
	var count int64
	if err := DB.Model(&models.NGO{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("✅ NGOs already seeded - skipping")
		return nil
	}

	demo := models.NGO{
		ID:                 uuid.New(),
		Name:               "Helping Hands",
		Webpage:            "https://helpinghands.example.org",
		Description:        "Community support and volunteering network",
		MainRepresentative: "Jordan Reyes",
		Affinities:         models.StringList{"community", "volunteering"},
		Contact: models.Contact{
			Address:      "12 Main Street",
			Phone:        "+1 555 0100",
			ContactHours: "Mon-Fri 9:00-17:00",
		},
		DocumentState: models.DocumentStatePending,
		Documents:     models.DocumentRefs{},
	}

	if err := DB.Create(&demo).Error; err != nil {
		return err
	}

	log.Println("✅ Demo NGO created")
	return nil
}
