package usecase

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"healthmon-backend/internal/delivery/dto"
	"healthmon-backend/internal/domain/entity"
	"healthmon-backend/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	exportDateLayout = "02/01/2006"
	maxColumnWidth   = 50
)

// Export is a generated spreadsheet ready to be sent as an attachment.
type Export struct {
	Filename string
	Content  []byte
}

type ReportUsecase interface {
	GetStats(ctx context.Context) (*dto.StatsResponse, error)
	ExportPatients(ctx context.Context, category string) (*Export, error)
}

type reportUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	patientRepo repository.PatientRepository
	now         func() time.Time
}

func NewReportUsecase(db *gorm.DB, log *logrus.Logger, patientRepo repository.PatientRepository) ReportUsecase {
	return &reportUsecase{
		db:          db,
		log:         log,
		patientRepo: patientRepo,
		now:         time.Now,
	}
}

// GetStats runs the dashboard counts concurrently.
func (u *reportUsecase) GetStats(ctx context.Context) (*dto.StatsResponse, error) {
	stats := &dto.StatsResponse{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := u.patientRepo.Count(gctx, u.db)
		stats.TotalPatients = n
		return err
	})
	g.Go(func() error {
		n, err := u.patientRepo.CountByCategory(gctx, u.db, entity.CategoryBayi, entity.CategoryAnak)
		stats.TotalBabies = n
		return err
	})
	g.Go(func() error {
		n, err := u.patientRepo.CountByCategory(gctx, u.db, entity.CategoryDewasa)
		stats.TotalAdults = n
		return err
	})
	g.Go(func() error {
		n, err := u.patientRepo.CountByCategory(gctx, u.db, entity.CategoryLansia)
		stats.TotalElders = n
		return err
	})
	g.Go(func() error {
		n, err := u.patientRepo.CountByStatus(gctx, u.db, entity.PatientStatusCritical, entity.PatientStatusAttention)
		stats.ActiveAlerts = n
		return err
	})

	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to compute stats: %+v", err)
		return nil, err
	}
	return stats, nil
}

// ExportPatients renders one row per patient with its latest checkup.
// "Semua" or an empty category exports everyone.
func (u *reportUsecase) ExportPatients(ctx context.Context, category string) (*Export, error) {
	if category == "Semua" {
		category = ""
	}
	if category != "" && !entity.Category(category).IsValid() {
		return nil, entity.ErrInvalidCategory
	}

	patients, err := u.patientRepo.FindForExport(ctx, u.db, entity.Category(category))
	if err != nil {
		u.log.Warnf("Failed to load patients for export: %+v", err)
		return nil, err
	}

	sheetName := "Semua Pasien"
	label := "Semua"
	if category != "" {
		sheetName = "Pasien " + category
		label = category
	}

	content, err := renderPatientSheet(sheetName, exportColumns(entity.Category(category)), patients)
	if err != nil {
		u.log.Warnf("Failed to render export: %+v", err)
		return nil, err
	}

	return &Export{
		Filename: fmt.Sprintf("Data_Pasien_%s_%s.xlsx", label, u.now().Format("2006-01-02")),
		Content:  content,
	}, nil
}

type exportColumn struct {
	header string
	value  func(p *entity.Patient, latest *entity.Checkup) interface{}
}

func exportColumns(category entity.Category) []exportColumn {
	infant := category == "" || category.IsInfant()
	adult := category == "" || !category.IsInfant()

	cols := []exportColumn{
		{"ID", func(p *entity.Patient, _ *entity.Checkup) interface{} { return p.ID }},
		{"Nama", func(p *entity.Patient, _ *entity.Checkup) interface{} { return p.Name }},
		{"Kategori", func(p *entity.Patient, _ *entity.Checkup) interface{} { return string(p.Category) }},
		{"Jenis Kelamin", func(p *entity.Patient, _ *entity.Checkup) interface{} { return string(p.Gender) }},
		{"Usia", func(p *entity.Patient, _ *entity.Checkup) interface{} { return p.Age }},
		{"Status Kesehatan", func(p *entity.Patient, _ *entity.Checkup) interface{} { return string(p.Status) }},
	}

	if infant {
		cols = append(cols,
			exportColumn{"Tanggal Lahir", func(p *entity.Patient, _ *entity.Checkup) interface{} { return formatDate(p.BirthDate) }},
			exportColumn{"Nama Orang Tua", func(p *entity.Patient, _ *entity.Checkup) interface{} { return deref(p.GuardianName) }},
			exportColumn{"NIK Ibu", func(p *entity.Patient, _ *entity.Checkup) interface{} { return deref(p.MotherNIK) }},
			exportColumn{"NIK Anak", func(p *entity.Patient, _ *entity.Checkup) interface{} { return deref(p.ChildNIK) }},
			exportColumn{"No KK", func(p *entity.Patient, _ *entity.Checkup) interface{} { return deref(p.FamilyCardNumber) }},
		)
	}
	if adult {
		cols = append(cols, exportColumn{"NIK", func(p *entity.Patient, _ *entity.Checkup) interface{} { return deref(p.NIK) }})
	}

	cols = append(cols,
		exportColumn{"Tanggal Pemeriksaan Terakhir", func(_ *entity.Patient, c *entity.Checkup) interface{} {
			if c == nil {
				return ""
			}
			return c.Date.Format(exportDateLayout)
		}},
		exportColumn{"Berat Badan (kg)", func(_ *entity.Patient, c *entity.Checkup) interface{} {
			if c == nil || !c.Weight.Valid {
				return ""
			}
			return c.Weight.Decimal.InexactFloat64()
		}},
		exportColumn{"Tinggi Badan (cm)", func(_ *entity.Patient, c *entity.Checkup) interface{} {
			if c == nil || !c.Height.Valid {
				return ""
			}
			return c.Height.Decimal.InexactFloat64()
		}},
	)

	if infant {
		cols = append(cols,
			exportColumn{"Lingkar Kepala (cm)", func(_ *entity.Patient, c *entity.Checkup) interface{} {
				if c == nil || !c.HeadCircumference.Valid {
					return ""
				}
				return c.HeadCircumference.Decimal.InexactFloat64()
			}},
			exportColumn{"Jumlah Vitamin", func(p *entity.Patient, _ *entity.Checkup) interface{} {
				if !p.IsInfant() {
					return ""
				}
				return len(p.Vitamins)
			}},
			exportColumn{"Vitamin Selesai", func(p *entity.Patient, _ *entity.Checkup) interface{} {
				if !p.IsInfant() {
					return ""
				}
				done := 0
				for _, v := range p.Vitamins {
					if v.Status == entity.DoseStatusDone {
						done++
					}
				}
				return done
			}},
		)
	}
	if adult {
		cols = append(cols,
			exportColumn{"Tekanan Darah", func(_ *entity.Patient, c *entity.Checkup) interface{} {
				if c == nil {
					return ""
				}
				if c.Systolic != nil && c.Diastolic != nil {
					return fmt.Sprintf("%d/%d", *c.Systolic, *c.Diastolic)
				}
				return deref(c.BloodPressure)
			}},
			exportColumn{"Gula Darah (mg/dL)", func(_ *entity.Patient, c *entity.Checkup) interface{} {
				if c == nil || c.BloodSugar == nil {
					return ""
				}
				return *c.BloodSugar
			}},
		)
	}

	cols = append(cols, exportColumn{"Tanggal Terdaftar", func(p *entity.Patient, _ *entity.Checkup) interface{} {
		return p.CreatedAt.Format(exportDateLayout)
	}})
	return cols
}

func renderPatientSheet(sheetName string, cols []exportColumn, patients []entity.Patient) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(cols))
	widths := make([]int, len(cols))
	for i, col := range cols {
		header[i] = col.header
		widths[i] = len(col.header) + 2
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return nil, err
	}

	for r := range patients {
		p := &patients[r]
		var latest *entity.Checkup
		if len(p.Checkups) > 0 {
			latest = &p.Checkups[0]
		}

		row := make([]interface{}, len(cols))
		for i, col := range cols {
			row[i] = col.value(p, latest)
			if w := len(fmt.Sprint(row[i])) + 2; w > widths[i] {
				widths[i] = w
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, name, name, float64(min(w, maxColumnWidth))); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportDateLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
