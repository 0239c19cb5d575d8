package repository

import "healthmon-backend/internal/domain/entity"

// Immunizations and milestones are only written by the sheet sync.
type (
	ImmunizationRepository = SyncRepository[entity.Immunization]
	MilestoneRepository    = SyncRepository[entity.Milestone]
)
