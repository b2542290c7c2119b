package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v71/github"
	"gorm.io/gorm"

	"feedback-github-sync/models"
	"feedback-github-sync/services"
)

// InstallationClientFactory builds a github client for one installation.
// Injected so tests can substitute a stubbed client.
type InstallationClientFactory func(appID, installationID int64) (*github.Client, error)

// AdminHandler serves the installation-management endpoints used by the
// admin API layer.
type AdminHandler struct {
	DB            *gorm.DB
	AppSlug       string
	ClientFactory InstallationClientFactory
}

func NewAdminHandler(db *gorm.DB, appSlug string, factory InstallationClientFactory) *AdminHandler {
	return &AdminHandler{
		DB:            db,
		AppSlug:       appSlug,
		ClientFactory: factory,
	}
}

func (h *AdminHandler) HandleInstallURL(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"url": services.InstallURL(h.AppSlug)})
}

func (h *AdminHandler) HandleInstallationStatus(c *gin.Context) {
	installationID, err := strconv.ParseInt(c.Param("installation_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid installation id"})
		return
	}

	var installation models.Installation
	err = h.DB.Where("installation_id = ?", installationID).First(&installation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "installation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up installation"})
		return
	}

	repoCount := 0
	if h.ClientFactory != nil {
		client, err := h.ClientFactory(installation.AppID, installation.InstallationID)
		if err == nil {
			// best-effort; the status response is still useful without it
			repoCount, _ = services.InstallationRepoCount(c.Request.Context(), client)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"installation_id": installation.InstallationID,
		"account_login":   installation.AccountLogin,
		"organization_id": installation.OrganizationID,
		"linked":          installation.OrganizationID != "",
		"repo_count":      repoCount,
	})
}

func (h *AdminHandler) HandleLinkInstallation(c *gin.Context) {
	installationID, err := strconv.ParseInt(c.Param("installation_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid installation id"})
		return
	}

	var body struct {
		OrganizationID string `json:"organization_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "organization_id is required"})
		return
	}

	err = services.LinkInstallation(h.DB, installationID, body.OrganizationID)
	if errors.Is(err, services.ErrInstallationLinked) {
		c.JSON(http.StatusConflict, gin.H{"error": "installation is linked to another organization"})
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "installation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to link installation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "installation linked"})
}

func (h *AdminHandler) HandleUnlinkInstallation(c *gin.Context) {
	installationID, err := strconv.ParseInt(c.Param("installation_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid installation id"})
		return
	}

	err = services.UnlinkInstallation(h.DB, installationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "installation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unlink installation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "installation unlinked"})
}
