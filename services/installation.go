package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"feedback-github-sync/models"
)

var ErrInstallationLinked = errors.New("installation is already linked to another organization")

// UpsertInstallation records a github app installation. installation.created
// can be redelivered, so an existing row with the same installation id is
// updated in place instead of duplicated. The organization link is attempted
// by matching the account login against an organization slug and silently
// skipped when nothing matches.
func UpsertInstallation(db *gorm.DB, installationID, accountID, appID int64, accountLogin string) (*models.Installation, error) {
	orgID := ""
	var org models.Organization
	err := db.Where("slug = ?", strings.ToLower(accountLogin)).First(&org).Error
	if err == nil {
		orgID = org.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up organization for %s: %w", accountLogin, err)
	}

	var installation models.Installation
	err = db.Where("installation_id = ?", installationID).First(&installation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		installation = models.Installation{
			ID:             uuid.NewString(),
			InstallationID: installationID,
			AccountLogin:   accountLogin,
			AccountID:      accountID,
			AppID:          appID,
			OrganizationID: orgID,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}
		if err := db.Create(&installation).Error; err != nil {
			return nil, fmt.Errorf("failed to create installation: %w", err)
		}
		log.Printf("installation %d registered (login: %s, org: %q)", installationID, accountLogin, orgID)
		return &installation, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up installation: %w", err)
	}

	installation.AccountLogin = accountLogin
	installation.AccountID = accountID
	installation.AppID = appID
	if installation.OrganizationID == "" {
		installation.OrganizationID = orgID
	}
	installation.UpdatedAt = time.Now()
	if err := db.Save(&installation).Error; err != nil {
		return nil, fmt.Errorf("failed to update installation: %w", err)
	}
	log.Printf("installation %d updated (login: %s)", installationID, accountLogin)
	return &installation, nil
}

// DeleteInstallation removes the row for a github installation id. Deleting
// an unknown installation is a no-op.
func DeleteInstallation(db *gorm.DB, installationID int64) error {
	result := db.Where("installation_id = ?", installationID).Delete(&models.Installation{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete installation: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("installation %d deleted", installationID)
	}
	return nil
}

// GetOrganizationByInstallation resolves the organization an installation is
// linked to. Returns "" when the installation is unknown or unlinked.
func GetOrganizationByInstallation(db *gorm.DB, installationID int64) (string, error) {
	var installation models.Installation
	err := db.Where("installation_id = ?", installationID).First(&installation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up installation: %w", err)
	}
	return installation.OrganizationID, nil
}

// LinkInstallation sets the organization link. An installation already
// linked to a different organization is not silently re-linked; that
// returns ErrInstallationLinked. Linking to the same organization again is
// a no-op.
func LinkInstallation(db *gorm.DB, installationID int64, organizationID string) error {
	var installation models.Installation
	if err := db.Where("installation_id = ?", installationID).First(&installation).Error; err != nil {
		return fmt.Errorf("failed to look up installation: %w", err)
	}

	if installation.OrganizationID == organizationID {
		return nil
	}
	if installation.OrganizationID != "" {
		return ErrInstallationLinked
	}

	installation.OrganizationID = organizationID
	installation.UpdatedAt = time.Now()
	if err := db.Save(&installation).Error; err != nil {
		return fmt.Errorf("failed to link installation: %w", err)
	}
	log.Printf("installation %d linked to organization %s", installationID, organizationID)
	return nil
}

// UnlinkInstallation clears the organization link.
func UnlinkInstallation(db *gorm.DB, installationID int64) error {
	var installation models.Installation
	if err := db.Where("installation_id = ?", installationID).First(&installation).Error; err != nil {
		return fmt.Errorf("failed to look up installation: %w", err)
	}

	installation.OrganizationID = ""
	installation.UpdatedAt = time.Now()
	if err := db.Save(&installation).Error; err != nil {
		return fmt.Errorf("failed to unlink installation: %w", err)
	}
	log.Printf("installation %d unlinked", installationID)
	return nil
}
