// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"concord/internal/models"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// DefaultPassword is the password every seeded account gets.
const DefaultPassword = "password123"

var visibilities = []string{
	models.VisibilityPublic,
	models.VisibilityPublic,
	models.VisibilityFriends,
	models.VisibilityPrivate,
}

// Run populates the database with a social mesh: users, a connection graph
// with some pending requests, and posts with engagement spread across the
// graph.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	if opts.NumUsers <= 0 {
		opts.NumUsers = 25
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = opts.NumUsers * 4
	}

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return fmt.Errorf("failed to clean database: %w", err)
		}
	}

	users, err := seedUsers(db, opts.NumUsers)
	if err != nil {
		return err
	}
	if err := seedConnections(db, users); err != nil {
		return err
	}
	posts, err := seedPosts(db, users, opts.NumPosts)
	if err != nil {
		return err
	}
	if err := seedEngagement(db, users, posts); err != nil {
		return err
	}

	log.Printf("Seeded %d users and %d posts", len(users), len(posts))
	return nil
}

func clean(db *gorm.DB) error {
	tables := []any{
		&models.SavedPost{}, &models.Share{}, &models.Like{}, &models.Comment{},
		&models.Post{}, &models.ConnectionRequest{}, &models.Connection{}, &models.User{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedUsers(db *gorm.DB, n int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		name := gofakeit.Name()
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i)
		user := models.User{
			Name:       name,
			Username:   username,
			Email:      fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
			Password:   string(hash),
			Bio:        gofakeit.Sentence(8),
			Location:   gofakeit.City(),
			Occupation: gofakeit.JobTitle(),
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", username, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// seedConnections links each user to a handful of others, both directions,
// and leaves a few pending requests in the mix.
func seedConnections(db *gorm.DB, users []models.User) error {
	for i := range users {
		degree := 2 + rand.Intn(4)
		for j := 0; j < degree; j++ {
			other := rand.Intn(len(users))
			if other == i {
				continue
			}
			pair := []models.Connection{
				{UserID: users[i].ID, ConnectionID: users[other].ID},
				{UserID: users[other].ID, ConnectionID: users[i].ID},
			}
			for _, edge := range pair {
				if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error; err != nil {
					return err
				}
			}
		}
	}

	// A few pending requests between users that are not yet connected.
	pending := len(users) / 3
	for i := 0; i < pending; i++ {
		requester := users[rand.Intn(len(users))]
		target := users[rand.Intn(len(users))]
		if requester.ID == target.ID {
			continue
		}
		var connected int64
		db.Model(&models.Connection{}).
			Where("user_id = ? AND connection_id = ?", requester.ID, target.ID).
			Count(&connected)
		if connected > 0 {
			continue
		}
		req := models.ConnectionRequest{TargetID: target.ID, RequesterID: requester.ID}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&req).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedPosts(db *gorm.DB, users []models.User, n int) ([]models.Post, error) {
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]
		post := models.Post{
			UserID:     author.ID,
			Content:    gofakeit.Paragraph(1, 3, 8, " "),
			Visibility: visibilities[rand.Intn(len(visibilities))],
		}
		if err := db.Create(&post).Error; err != nil {
			return nil, fmt.Errorf("failed to create post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func seedEngagement(db *gorm.DB, users []models.User, posts []models.Post) error {
	for _, post := range posts {
		likers := rand.Intn(len(users) / 2)
		for i := 0; i < likers; i++ {
			like := models.Like{UserID: users[rand.Intn(len(users))].ID, PostID: post.ID}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return err
			}
		}

		comments := rand.Intn(4)
		for i := 0; i < comments; i++ {
			comment := models.Comment{
				UserID:  users[rand.Intn(len(users))].ID,
				PostID:  post.ID,
				Content: gofakeit.Sentence(10),
			}
			if err := db.Create(&comment).Error; err != nil {
				return err
			}
		}

		if rand.Intn(4) == 0 {
			share := models.Share{UserID: users[rand.Intn(len(users))].ID, PostID: post.ID}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&share).Error; err != nil {
				return err
			}
		}
		if rand.Intn(5) == 0 {
			saved := models.SavedPost{UserID: users[rand.Intn(len(users))].ID, PostID: post.ID}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&saved).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
