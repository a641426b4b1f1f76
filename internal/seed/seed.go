// Package seed bootstraps the default organization so a fresh install is
// usable without any manual setup.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	organizationdomain "github.com/opencanteen/mensa/internal/organization/domain"
	"gorm.io/gorm"
)

// EnsureMainOrg creates the named organization if no row with its slug exists.
func EnsureMainOrg(db *gorm.DB, name string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Main Canteen"
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orgSlug := slug.Make(name)

		var existing organizationdomain.Organization
		err := tx.Where("slug = ?", orgSlug).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now().UTC()
		return tx.Create(&organizationdomain.Organization{
			ID:         node.Generate(),
			Name:       name,
			Slug:       orgSlug,
			CodePrefix: codePrefix(name),
			CreatedAt:  now,
			UpdatedAt:  now,
		}).Error
	})
}

func codePrefix(name string) string {
	cleaned := strings.ToUpper(slug.Make(name))
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	if len(cleaned) > 3 {
		cleaned = cleaned[:3]
	}
	if cleaned == "" {
		cleaned = "EMP"
	}
	return cleaned
}
