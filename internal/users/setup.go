package users

import (
	"log"

	"github.com/EmpoweredVote/blog-backend/internal/db"
	"github.com/EmpoweredVote/blog-backend/internal/models"
)

func Init() {
	if err := db.EnsureSchema(db.DB, db.Schema); err != nil {
		log.Fatal("Failed to ensure schema blog: ", err)
	}

	if err := db.DB.AutoMigrate(&models.User{}); err != nil {
		log.Fatal("Failed to auto-migrate users table: ", err)
	}
}
