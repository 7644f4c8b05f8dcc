package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/crewclock/crewclock/internal/apperr"
	"github.com/crewclock/crewclock/internal/models"
)

type SiteRepository struct {
	db *sql.DB
}

func NewSiteRepository(db *sql.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

func (r *SiteRepository) Create(req *models.CreateSiteRequest) (*models.Site, error) {
	site := &models.Site{
		ID:          uuid.NewString(),
		SiteNumber:  req.SiteNumber,
		Title:       req.Title,
		Address:     req.Address,
		Description: req.Description,
	}

	_, err := r.db.Exec(
		"INSERT INTO sites (id, site_number, title, address, description) VALUES (?, ?, ?, ?, ?)",
		site.ID, site.SiteNumber, site.Title, site.Address, site.Description,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create site: %w", err)
	}
	return site, nil
}

func (r *SiteRepository) GetByID(id string) (*models.Site, error) {
	var site models.Site
	err := r.db.QueryRow(
		"SELECT id, site_number, title, address, description FROM sites WHERE id = ?", id,
	).Scan(&site.ID, &site.SiteNumber, &site.Title, &site.Address, &site.Description)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("site", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	return &site, nil
}

func (r *SiteRepository) GetAll() ([]models.Site, error) {
	rows, err := r.db.Query("SELECT id, site_number, title, address, description FROM sites ORDER BY site_number")
	if err != nil {
		return nil, fmt.Errorf("failed to query sites: %w", err)
	}
	defer rows.Close()

	var sites []models.Site
	for rows.Next() {
		var site models.Site
		if err := rows.Scan(&site.ID, &site.SiteNumber, &site.Title, &site.Address, &site.Description); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return sites, nil
}

func (r *SiteRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM sites WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete site: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("site", id)
	}
	return nil
}
