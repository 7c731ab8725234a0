/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/humaidq/glucolens/labs"
)

// Profile is a stored patient profile.
type Profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	labs.Profile
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateProfile stores a new profile and returns its ID.
func CreateProfile(ctx context.Context, name string, p labs.Profile) (string, error) {
	if pool == nil {
		return "", ErrDatabaseConnectionNotInitialized
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrProfileNameRequired
	}

	id := uuid.NewString()
	query := `
		INSERT INTO profiles (id, name, age, gender, height_cm, weight_kg, diabetes_type, treatment_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := pool.Exec(ctx, query,
		id, name, p.Age, p.Gender,
		p.HeightCm, p.WeightKg,
		p.DiabetesType, p.TreatmentType,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create profile: %w", err)
	}

	logger.Debug("Created profile", "profile_id", id)

	return id, nil
}

// GetProfile returns a single profile by ID.
func GetProfile(ctx context.Context, id string) (*Profile, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}

	var p Profile
	query := `
		SELECT id::text, name, age, gender, height_cm, weight_kg, diabetes_type, treatment_type, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	err := pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Age, &p.Gender,
		&p.HeightCm, &p.WeightKg,
		&p.DiabetesType, &p.TreatmentType,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &p, nil
}
