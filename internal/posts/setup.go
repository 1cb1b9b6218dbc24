package posts

import (
	"log"

	"github.com/EmpoweredVote/blog-backend/internal/db"
	"github.com/EmpoweredVote/blog-backend/internal/models"
)

// Init migrates the posts table. Run users.Init first; posts reference users.
func Init() {
	if err := db.DB.AutoMigrate(&models.Post{}); err != nil {
		log.Fatal("Failed to auto-migrate posts table: ", err)
	}
}
