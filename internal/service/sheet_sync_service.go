package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"healthmon-backend/internal/delivery/dto"
	"healthmon-backend/internal/domain/entity"
	domainRepo "healthmon-backend/internal/domain/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// =============================================================================
// Errors
// =============================================================================

var (
	errMissingField   = errors.New("missing required field")
	errUnknownPatient = errors.New("patient_id is not in the patient set")
	errInvalidValue   = errors.New("invalid value")
)

// =============================================================================
// Constants
// =============================================================================

// Tabs are reconciled in this order; every child tab checks patient_id
// against the patients that exist once the patients tab is done.
const (
	TabPatients      = "patients"
	TabCheckups      = "checkups"
	TabAlerts        = "alerts"
	TabVitamins      = "vitamins"
	TabImmunizations = "immunizations"
	TabMilestones    = "milestones"
)

// Data rows start on the second sheet row.
const firstDataRow = 2

var sheetDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2/1/2006 15:04:05",
	"2/1/2006",
}

// =============================================================================
// Types
// =============================================================================

// SheetReader returns the data rows of one tab keyed by normalized header.
type SheetReader interface {
	ReadTab(ctx context.Context, tab string) ([]map[string]string, error)
}

// SheetSyncService treats the spreadsheet as the source of truth: each run
// deletes rows whose id is gone from a tab and upserts every valid row.
//
// Rows are written one statement at a time outside a transaction so a bad
// row is skipped without aborting the rest of the tab.
type SheetSyncService struct {
	db     *gorm.DB
	log    *logrus.Logger
	reader SheetReader

	patientRepo      domainRepo.PatientRepository
	checkupRepo      domainRepo.CheckupRepository
	alertRepo        domainRepo.AlertRepository
	vitaminRepo      domainRepo.VitaminRepository
	immunizationRepo domainRepo.ImmunizationRepository
	milestoneRepo    domainRepo.MilestoneRepository

	now func() time.Time
}

// parsedRow is a sheet row converted to an entity, or the reason it was rejected.
type parsedRow[T any] struct {
	line int
	id   int
	row  *T
	err  error
}

// =============================================================================
// Constructor
// =============================================================================

func NewSheetSyncService(
	db *gorm.DB,
	log *logrus.Logger,
	reader SheetReader,
	patientRepo domainRepo.PatientRepository,
	checkupRepo domainRepo.CheckupRepository,
	alertRepo domainRepo.AlertRepository,
	vitaminRepo domainRepo.VitaminRepository,
	immunizationRepo domainRepo.ImmunizationRepository,
	milestoneRepo domainRepo.MilestoneRepository,
) *SheetSyncService {
	return &SheetSyncService{
		db:               db,
		log:              log,
		reader:           reader,
		patientRepo:      patientRepo,
		checkupRepo:      checkupRepo,
		alertRepo:        alertRepo,
		vitaminRepo:      vitaminRepo,
		immunizationRepo: immunizationRepo,
		milestoneRepo:    milestoneRepo,
		now:              time.Now,
	}
}

// =============================================================================
// Public Methods
// =============================================================================

// Run reconciles every tab once. A tab that cannot be read is reported and
// left untouched; the remaining tabs still run.
func (s *SheetSyncService) Run(ctx context.Context) (*dto.SyncResponse, error) {
	report := &dto.SyncResponse{StartedAt: s.now()}
	s.log.Info("Starting sheet sync")

	report.Entities = append(report.Entities, reconcileTab[entity.Patient](ctx, s, TabPatients, s.patientRepo, s.parsePatient))

	patientIDs, err := s.patientRepo.ListIDs(ctx, s.db)
	if err != nil {
		s.log.Errorf("Failed to list patient ids, child tabs skipped: %+v", err)
		report.FinishedAt = s.now()
		return report, err
	}
	known := make(map[int]struct{}, len(patientIDs))
	for _, id := range patientIDs {
		known[id] = struct{}{}
	}

	report.Entities = append(report.Entities,
		reconcileTab[entity.Checkup](ctx, s, TabCheckups, s.checkupRepo, s.checkupParser(ctx, known)),
		reconcileTab[entity.Alert](ctx, s, TabAlerts, s.alertRepo, s.alertParser(known)),
		reconcileTab[entity.Vitamin](ctx, s, TabVitamins, s.vitaminRepo, s.vitaminParser(known)),
		reconcileTab[entity.Immunization](ctx, s, TabImmunizations, s.immunizationRepo, s.immunizationParser(known)),
		reconcileTab[entity.Milestone](ctx, s, TabMilestones, s.milestoneRepo, s.milestoneParser(known)),
	)

	report.FinishedAt = s.now()
	for _, e := range report.Entities {
		s.log.Infof("Sheet sync %s: inserted=%d updated=%d deleted=%d skipped=%d",
			e.Entity, e.Inserted, e.Updated, e.Deleted, e.Skipped)
	}
	s.log.Infof("Sheet sync finished in %s", report.FinishedAt.Sub(report.StartedAt))
	return report, nil
}

// =============================================================================
// Reconciliation
// =============================================================================

// reconcileTab runs one tab:
//  1. collect the ids present in the sheet
//  2. delete store rows whose id is absent, unless the sheet has no ids at all
//  3. upsert rows that carry an id, realign the id sequence, then insert
//     rows without one
func reconcileTab[T any](
	ctx context.Context,
	s *SheetSyncService,
	tab string,
	repo domainRepo.SyncRepository[T],
	parse func(record map[string]string) (int, *T, error),
) dto.SyncEntityResult {
	result := dto.SyncEntityResult{Entity: tab}

	records, err := s.reader.ReadTab(ctx, tab)
	if err != nil {
		s.log.Warnf("Failed to read tab %s, leaving it untouched: %+v", tab, err)
		result.Error = err.Error()
		return result
	}

	rows := make([]parsedRow[T], len(records))
	sheetIDs := make([]int, 0, len(records))
	for i, record := range records {
		id, row, err := parse(record)
		rows[i] = parsedRow[T]{line: i + firstDataRow, id: id, row: row, err: err}
		if id > 0 {
			sheetIDs = append(sheetIDs, id)
		}
	}

	existing, err := repo.ListIDs(ctx, s.db)
	if err != nil {
		s.log.Warnf("Failed to list %s ids: %+v", tab, err)
		result.Error = err.Error()
		return result
	}
	present := make(map[int]struct{}, len(existing))
	for _, id := range existing {
		present[id] = struct{}{}
	}

	if len(sheetIDs) > 0 {
		deleted, err := repo.DeleteNotIn(ctx, s.db, sheetIDs)
		if err != nil {
			s.log.Warnf("Failed to delete %s rows missing from the sheet: %+v", tab, err)
			result.Error = err.Error()
			return result
		}
		result.Deleted = deleted
	}

	var withoutID []parsedRow[T]
	for _, r := range rows {
		if r.err != nil {
			s.log.Warnf("Sheet sync %s row %d skipped: %v", tab, r.line, r.err)
			result.Skipped++
			continue
		}
		if r.id == 0 {
			withoutID = append(withoutID, r)
			continue
		}
		if err := repo.Upsert(ctx, s.db, r.row); err != nil {
			s.log.Warnf("Sheet sync %s row %d (id %d) failed: %+v", tab, r.line, r.id, err)
			result.Skipped++
			continue
		}
		if _, ok := present[r.id]; ok {
			result.Updated++
		} else {
			result.Inserted++
			present[r.id] = struct{}{}
		}
	}

	if err := repo.ResetSequence(ctx, s.db); err != nil {
		s.log.Warnf("Failed to reset %s id sequence: %+v", tab, err)
	}

	for _, r := range withoutID {
		if err := repo.Upsert(ctx, s.db, r.row); err != nil {
			s.log.Warnf("Sheet sync %s row %d failed: %+v", tab, r.line, err)
			result.Skipped++
			continue
		}
		result.Inserted++
	}

	return result
}

// =============================================================================
// Row parsers
// =============================================================================

func (s *SheetSyncService) parsePatient(record map[string]string) (int, *entity.Patient, error) {
	id, err := parseID(record["id"])
	if err != nil {
		return 0, nil, err
	}

	name := record["name"]
	if name == "" {
		return id, nil, fmt.Errorf("%w: name", errMissingField)
	}
	gender := entity.Gender(record["gender"])
	if !gender.IsValid() {
		return id, nil, fmt.Errorf("%w: gender %q", errInvalidValue, record["gender"])
	}
	category := entity.Category(record["category"])
	if !category.IsValid() && !category.IsInfant() {
		return id, nil, fmt.Errorf("%w: category %q", errInvalidValue, record["category"])
	}
	status := entity.PatientStatus(record["status"])
	if status == "" {
		status = entity.PatientStatusStable
	}
	if !status.IsValid() {
		return id, nil, fmt.Errorf("%w: status %q", errInvalidValue, record["status"])
	}

	birthDate, err := parseSheetDate(record["birth_date"])
	if err != nil {
		return id, nil, err
	}
	lastCheckup, err := parseSheetDate(record["last_checkup_date"])
	if err != nil {
		return id, nil, err
	}

	age := record["age"]
	if age == "" && category.IsInfant() && birthDate != nil {
		if label, err := entity.AgeLabel(*birthDate, s.now()); err == nil {
			age = label
		}
	}
	if age == "" {
		return id, nil, fmt.Errorf("%w: age", errMissingField)
	}

	return id, &entity.Patient{
		ID:               id,
		Name:             name,
		Age:              age,
		Gender:           gender,
		Category:         category,
		NIK:              optionalCell(record["nik"]),
		GuardianName:     optionalCell(record["guardian_name"]),
		MotherNIK:        optionalCell(record["mother_nik"]),
		ChildNIK:         optionalCell(record["child_nik"]),
		FamilyCardNumber: optionalCell(record["family_card_number"]),
		BirthDate:        birthDate,
		LastCheckupDate:  lastCheckup,
		Status:           status,
	}, nil
}

// checkupParser dates a row with a blank date cell at the time it is first
// inserted; later runs keep the stored date.
func (s *SheetSyncService) checkupParser(ctx context.Context, known map[int]struct{}) func(map[string]string) (int, *entity.Checkup, error) {
	return func(record map[string]string) (int, *entity.Checkup, error) {
		id, patientID, err := parseChildKeys(record, known)
		if err != nil {
			return id, nil, err
		}

		date, err := parseSheetDate(record["date"])
		if err != nil {
			return id, nil, err
		}
		checkup := &entity.Checkup{ID: id, PatientID: patientID, Date: s.now()}
		switch {
		case date != nil:
			checkup.Date = *date
		case id > 0:
			stored, err := s.checkupRepo.FindByID(ctx, s.db, id)
			if err != nil {
				return id, nil, err
			}
			if stored != nil {
				checkup.Date = stored.Date
			}
		}

		if checkup.Weight, err = parseSheetDecimal(record["weight"]); err != nil {
			return id, nil, err
		}
		if checkup.Height, err = parseSheetDecimal(record["height"]); err != nil {
			return id, nil, err
		}
		if checkup.HeadCircumference, err = parseSheetDecimal(record["head_circumference"]); err != nil {
			return id, nil, err
		}
		if bp := record["blood_pressure"]; bp != "" {
			checkup.BloodPressure = &bp
			checkup.Systolic, checkup.Diastolic = entity.ParseBloodPressure(bp)
		}
		if checkup.BloodSugar, err = parseSheetInt(record["blood_sugar"]); err != nil {
			return id, nil, err
		}
		return id, checkup, nil
	}
}

func (s *SheetSyncService) alertParser(known map[int]struct{}) func(map[string]string) (int, *entity.Alert, error) {
	return func(record map[string]string) (int, *entity.Alert, error) {
		id, patientID, err := parseChildKeys(record, known)
		if err != nil {
			return id, nil, err
		}
		alertType := entity.AlertType(record["alert_type"])
		if !alertType.IsValid() {
			return id, nil, fmt.Errorf("%w: alert_type %q", errInvalidValue, record["alert_type"])
		}
		return id, &entity.Alert{
			ID:          id,
			PatientID:   patientID,
			AlertType:   alertType,
			Description: record["description"],
		}, nil
	}
}

func (s *SheetSyncService) vitaminParser(known map[int]struct{}) func(map[string]string) (int, *entity.Vitamin, error) {
	return func(record map[string]string) (int, *entity.Vitamin, error) {
		id, patientID, err := parseChildKeys(record, known)
		if err != nil {
			return id, nil, err
		}
		name, err := entity.NormalizeVitaminName(record["vitamin_name"])
		if err != nil {
			return id, nil, fmt.Errorf("%w: vitamin_name", errMissingField)
		}
		status, err := parseDoseStatus(record["status"])
		if err != nil {
			return id, nil, err
		}
		date, err := parseSheetDate(record["date"])
		if err != nil {
			return id, nil, err
		}
		return id, &entity.Vitamin{ID: id, PatientID: patientID, VitaminName: name, Status: status, Date: date}, nil
	}
}

func (s *SheetSyncService) immunizationParser(known map[int]struct{}) func(map[string]string) (int, *entity.Immunization, error) {
	return func(record map[string]string) (int, *entity.Immunization, error) {
		id, patientID, err := parseChildKeys(record, known)
		if err != nil {
			return id, nil, err
		}
		name := record["vaccine_name"]
		if name == "" {
			return id, nil, fmt.Errorf("%w: vaccine_name", errMissingField)
		}
		status, err := parseDoseStatus(record["status"])
		if err != nil {
			return id, nil, err
		}
		date, err := parseSheetDate(record["date"])
		if err != nil {
			return id, nil, err
		}
		return id, &entity.Immunization{ID: id, PatientID: patientID, VaccineName: name, Status: status, Date: date}, nil
	}
}

func (s *SheetSyncService) milestoneParser(known map[int]struct{}) func(map[string]string) (int, *entity.Milestone, error) {
	return func(record map[string]string) (int, *entity.Milestone, error) {
		id, patientID, err := parseChildKeys(record, known)
		if err != nil {
			return id, nil, err
		}
		name := record["milestone_name"]
		if name == "" {
			return id, nil, fmt.Errorf("%w: milestone_name", errMissingField)
		}
		date, err := parseSheetDate(record["date"])
		if err != nil {
			return id, nil, err
		}
		return id, &entity.Milestone{
			ID:            id,
			PatientID:     patientID,
			MilestoneName: name,
			Achieved:      parseSheetBool(record["achieved"]),
			Date:          date,
		}, nil
	}
}

// =============================================================================
// Cell helpers
// =============================================================================

// parseID returns 0 for a blank cell. A non-blank cell must be a positive integer.
func parseID(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", errInvalidValue, raw)
	}
	return id, nil
}

func parseChildKeys(record map[string]string, known map[int]struct{}) (int, int, error) {
	id, err := parseID(record["id"])
	if err != nil {
		return 0, 0, err
	}
	if record["patient_id"] == "" {
		return id, 0, fmt.Errorf("%w: patient_id", errMissingField)
	}
	patientID, err := strconv.Atoi(record["patient_id"])
	if err != nil {
		return id, 0, fmt.Errorf("%w: patient_id %q", errInvalidValue, record["patient_id"])
	}
	if _, ok := known[patientID]; !ok {
		return id, 0, fmt.Errorf("%w: %d", errUnknownPatient, patientID)
	}
	return id, patientID, nil
}

func parseSheetDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range sheetDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: date %q", errInvalidValue, raw)
}

// parseSheetDecimal accepts a decimal comma as written by Indonesian locales.
func parseSheetDecimal(raw string) (decimal.NullDecimal, error) {
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: number %q", errInvalidValue, raw)
	}
	return decimal.NewNullDecimal(d), nil
}

func parseSheetInt(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: integer %q", errInvalidValue, raw)
	}
	return &n, nil
}

func parseSheetBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "1", "ya", "yes":
		return true
	}
	return false
}

func parseDoseStatus(raw string) (entity.DoseStatus, error) {
	if raw == "" {
		return entity.DoseStatusScheduled, nil
	}
	status := entity.DoseStatus(raw)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: status %q", errInvalidValue, raw)
	}
	return status, nil
}

func optionalCell(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}
