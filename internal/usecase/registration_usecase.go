package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"healthmon-backend/internal/delivery/dto"
	"healthmon-backend/internal/domain/entity"
	"healthmon-backend/internal/service"

	"github.com/sirupsen/logrus"
)

const (
	categoryChoicePrefix = "category_"
	genderChoicePrefix   = "gender_"
	noneMarker           = "-"
)

// Option is one selectable answer, rendered by the transport as a button.
type Option struct {
	Label string
	Data  string
}

// Reply is what the conversation says next. Done marks the end of a
// registration, successful or not.
type Reply struct {
	Text    string
	Options []Option
	Done    bool
}

// PatientCreator is the single creation path shared with the REST API.
type PatientCreator interface {
	Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientDetailResponse, error)
}

// RegistrationUsecase walks one user at a time through registering a patient:
//
//	category -> gender -> name -> Bayi: birth_date -> guardian_name -> mother_nik -> child_nik -> family_card_number
//	                             other: age -> nik
//
// Bad input on a step is reported and the step is asked again. Reaching the
// last step submits the patient and ends the session whatever the outcome.
type RegistrationUsecase interface {
	Start(ctx context.Context, chatID int64) (*Reply, error)
	// HandleChoice handles button data such as "category_Bayi". A nil reply means the input was ignored.
	HandleChoice(ctx context.Context, chatID int64, data string) (*Reply, error)
	// HandleText handles free text. A nil reply means there is no active session.
	HandleText(ctx context.Context, chatID int64, text string) (*Reply, error)
}

type registrationUsecase struct {
	log      *logrus.Logger
	sessions service.SessionStore
	creator  PatientCreator
	now      func() time.Time
}

func NewRegistrationUsecase(log *logrus.Logger, sessions service.SessionStore, creator PatientCreator) RegistrationUsecase {
	return &registrationUsecase{
		log:      log,
		sessions: sessions,
		creator:  creator,
		now:      time.Now,
	}
}

func (u *registrationUsecase) Start(ctx context.Context, chatID int64) (*Reply, error) {
	session := entity.NewRegistrationSession()
	if err := u.sessions.Save(ctx, chatID, session); err != nil {
		u.log.Warnf("Failed to start registration for chat %d: %+v", chatID, err)
		return nil, err
	}

	return &Reply{
		Text:    "🏥 Pendaftaran Pasien Baru\n\nLangkah 1: Pilih kategori pasien:",
		Options: categoryOptions(),
	}, nil
}

func (u *registrationUsecase) HandleChoice(ctx context.Context, chatID int64, data string) (*Reply, error) {
	session, err := u.sessions.Get(ctx, chatID)
	if err != nil {
		u.log.Warnf("Failed to load registration session for chat %d: %+v", chatID, err)
		return nil, err
	}
	if session == nil {
		return &Reply{Text: "Sesi berakhir. Ketik /daftar untuk mulai lagi."}, nil
	}

	switch {
	case session.Step == entity.StepCategory && strings.HasPrefix(data, categoryChoicePrefix):
		category := entity.Category(strings.TrimPrefix(data, categoryChoicePrefix))
		if !category.IsValid() {
			return nil, nil
		}
		session.Category = category
		session.Step = entity.StepGender
		return u.advance(ctx, chatID, session, genderOptions())

	case session.Step == entity.StepGender && strings.HasPrefix(data, genderChoicePrefix):
		gender := entity.Gender(strings.TrimPrefix(data, genderChoicePrefix))
		if !gender.IsValid() {
			return nil, nil
		}
		session.Gender = gender
		session.Step = entity.StepName
		return u.advance(ctx, chatID, session, nil)
	}

	return nil, nil
}

func (u *registrationUsecase) HandleText(ctx context.Context, chatID int64, text string) (*Reply, error) {
	session, err := u.sessions.Get(ctx, chatID)
	if err != nil {
		u.log.Warnf("Failed to load registration session for chat %d: %+v", chatID, err)
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	text = strings.TrimSpace(text)

	switch session.Step {
	case entity.StepCategory:
		return &Reply{Text: "Silakan pilih kategori dengan tombol di bawah.", Options: categoryOptions()}, nil

	case entity.StepGender:
		return &Reply{Text: "Silakan pilih jenis kelamin dengan tombol di bawah.", Options: genderOptions()}, nil

	case entity.StepName:
		if text == "" {
			return u.retry(session, "Nama tidak boleh kosong."), nil
		}
		session.Name = text
		if session.Category.IsInfant() {
			session.Step = entity.StepBirthDate
		} else {
			session.Step = entity.StepAge
		}

	case entity.StepBirthDate:
		birthDate, err := entity.ParseBirthDate(text)
		if err != nil {
			return u.retry(session, "❌ Format tanggal salah! Gunakan: DD/MM/YYYY\nContoh: 15/02/2023"), nil
		}
		age, err := entity.AgeLabel(birthDate, u.now())
		if err != nil {
			return u.retry(session, "❌ Tanggal lahir tidak boleh di masa depan."), nil
		}
		session.BirthDate = birthDate.Format("2006-01-02")
		session.Age = age
		session.Step = entity.StepGuardianName

	case entity.StepGuardianName:
		if text != noneMarker {
			session.GuardianName = text
		}
		session.Step = entity.StepMotherNIK

	case entity.StepMotherNIK:
		value, ok := identifier(text)
		if !ok {
			return u.retry(session, "❌ NIK harus 16 digit angka, atau ketik - jika tidak ada."), nil
		}
		session.MotherNIK = value
		session.Step = entity.StepChildNIK

	case entity.StepChildNIK:
		value, ok := identifier(text)
		if !ok {
			return u.retry(session, "❌ NIK harus 16 digit angka, atau ketik - jika tidak ada."), nil
		}
		session.ChildNIK = value
		session.Step = entity.StepFamilyCardNumber

	case entity.StepFamilyCardNumber:
		value, ok := identifier(text)
		if !ok {
			return u.retry(session, "❌ Nomor KK harus 16 digit angka, atau ketik - jika tidak ada."), nil
		}
		session.FamilyCardNumber = value
		return u.submit(ctx, chatID, session)

	case entity.StepAge:
		if text == "" {
			return u.retry(session, "Usia tidak boleh kosong."), nil
		}
		session.Age = text
		session.Step = entity.StepNIK

	case entity.StepNIK:
		value, ok := identifier(text)
		if !ok {
			return u.retry(session, "❌ NIK harus 16 digit angka, atau ketik - jika tidak ada."), nil
		}
		session.NIK = value
		return u.submit(ctx, chatID, session)

	default:
		return nil, nil
	}

	return u.advance(ctx, chatID, session, nil)
}

func (u *registrationUsecase) advance(ctx context.Context, chatID int64, session *entity.RegistrationSession, options []Option) (*Reply, error) {
	if err := u.sessions.Save(ctx, chatID, session); err != nil {
		u.log.Warnf("Failed to save registration session for chat %d: %+v", chatID, err)
		return nil, err
	}
	return &Reply{
		Text:    summarize(session) + "\n\n" + prompt(session),
		Options: options,
	}, nil
}

// retry re-asks the current step without touching the stored session.
func (u *registrationUsecase) retry(session *entity.RegistrationSession, problem string) *Reply {
	return &Reply{Text: problem + "\n\n" + prompt(session)}
}

// submit ends the session before creating the patient, so a failed attempt
// always restarts from the category step.
func (u *registrationUsecase) submit(ctx context.Context, chatID int64, session *entity.RegistrationSession) (*Reply, error) {
	if err := u.sessions.Delete(ctx, chatID); err != nil {
		u.log.Warnf("Failed to delete registration session for chat %d: %+v", chatID, err)
	}

	req := &dto.CreatePatientRequest{
		Name:             session.Name,
		Age:              session.Age,
		Gender:           string(session.Gender),
		Category:         string(session.Category),
		NIK:              session.NIK,
		GuardianName:     session.GuardianName,
		MotherNIK:        session.MotherNIK,
		ChildNIK:         session.ChildNIK,
		FamilyCardNumber: session.FamilyCardNumber,
		BirthDate:        session.BirthDate,
	}

	patient, err := u.creator.Create(ctx, req)
	if err != nil {
		u.log.Warnf("Registration from chat %d failed: %+v", chatID, err)
		return &Reply{
			Text: "❌ Gagal menyimpan data!\n\nError: " + err.Error() + "\n\nSilakan coba lagi dengan /daftar",
			Done: true,
		}, nil
	}

	return &Reply{Text: RegisteredMessage(patient), Done: true}, nil
}

// RegisteredMessage confirms a new patient and lists follow-up commands.
func RegisteredMessage(p *dto.PatientDetailResponse) string {
	var b strings.Builder
	b.WriteString("✅ Pasien berhasil didaftarkan!\n\n📋 Detail Pasien:\n")
	fmt.Fprintf(&b, "ID: %d\nNama: %s\n", p.ID, p.Name)
	if entity.Category(p.Category).IsInfant() {
		fmt.Fprintf(&b, "Tanggal Lahir: %s\n", displayDate(p.BirthDate))
		fmt.Fprintf(&b, "Usia: %s\nJenis Kelamin: %s\nKategori: %s\n", p.Age, p.Gender, p.Category)
		fmt.Fprintf(&b, "Nama Orang Tua: %s\n", orDash(p.GuardianName))
		fmt.Fprintf(&b, "NIK Ibu: %s\nNIK Anak: %s\n", orDash(p.MotherNIK), orDash(p.ChildNIK))
		fmt.Fprintf(&b, "No Kartu Keluarga: %s\n", orDash(p.FamilyCardNumber))
	} else {
		fmt.Fprintf(&b, "Usia: %s\nJenis Kelamin: %s\nKategori: %s\n", p.Age, p.Gender, p.Category)
		fmt.Fprintf(&b, "NIK: %s\n", orDash(p.NIK))
	}
	fmt.Fprintf(&b, "Status: %s\n\n", p.Status)
	fmt.Fprintf(&b, "📊 Command lanjutan:\n/checkup %d - Input checkup\n/vitamin %d - Input vitamin", p.ID, p.ID)
	return b.String()
}

func categoryOptions() []Option {
	return []Option{
		{Label: "👶 Bayi (0-5 tahun)", Data: categoryChoicePrefix + string(entity.CategoryBayi)},
		{Label: "👨 Dewasa (18-60 tahun)", Data: categoryChoicePrefix + string(entity.CategoryDewasa)},
		{Label: "👴 Lansia (60+ tahun)", Data: categoryChoicePrefix + string(entity.CategoryLansia)},
	}
}

func genderOptions() []Option {
	return []Option{
		{Label: "👦 Laki-laki", Data: genderChoicePrefix + string(entity.GenderMale)},
		{Label: "👧 Perempuan", Data: genderChoicePrefix + string(entity.GenderFemale)},
	}
}

// identifier accepts "-" for none or a 16-digit number.
func identifier(text string) (string, bool) {
	if text == noneMarker {
		return "", true
	}
	if entity.ValidNIK(text) {
		return text, true
	}
	return "", false
}

func summarize(s *entity.RegistrationSession) string {
	lines := []string{"📋 Kategori: " + string(s.Category)}
	if s.Gender != "" {
		lines = append(lines, "👥 Jenis Kelamin: "+string(s.Gender))
	}
	if s.Name != "" {
		lines = append(lines, "📝 Nama: "+s.Name)
	}
	if s.BirthDate != "" {
		lines = append(lines, "📅 Tanggal Lahir: "+displayDate(&s.BirthDate))
	}
	if s.Age != "" {
		lines = append(lines, "🎂 Usia: "+s.Age)
	}
	if s.Step == entity.StepMotherNIK || s.Step == entity.StepChildNIK || s.Step == entity.StepFamilyCardNumber {
		lines = append(lines, "👨‍👩‍👧 Nama Orang Tua: "+orDash(&s.GuardianName))
	}
	if s.Step == entity.StepChildNIK || s.Step == entity.StepFamilyCardNumber {
		lines = append(lines, "🆔 NIK Ibu: "+orDash(&s.MotherNIK))
	}
	if s.Step == entity.StepFamilyCardNumber {
		lines = append(lines, "👶 NIK Anak: "+orDash(&s.ChildNIK))
	}
	return strings.Join(lines, "\n")
}

func prompt(s *entity.RegistrationSession) string {
	n, total := s.StepNumber()
	step := fmt.Sprintf("Langkah %d/%d: ", n, total)

	switch s.Step {
	case entity.StepGender:
		return step + "Pilih jenis kelamin:"
	case entity.StepName:
		if s.Category.IsInfant() {
			return step + "Ketik nama bayi:"
		}
		return step + "Ketik nama pasien:"
	case entity.StepBirthDate:
		return step + "Ketik tanggal lahir (DD/MM/YYYY):\nContoh: 15/02/2023"
	case entity.StepGuardianName:
		return step + "Ketik nama orang tua:"
	case entity.StepMotherNIK:
		return step + "Ketik NIK Ibu (16 digit):\nAtau ketik - jika tidak ada"
	case entity.StepChildNIK:
		return step + "Ketik NIK Anak (16 digit):\nAtau ketik - jika tidak ada"
	case entity.StepFamilyCardNumber:
		return step + "Ketik Nomor Kartu Keluarga (16 digit):\nAtau ketik - jika tidak ada"
	case entity.StepAge:
		return step + "Ketik usia:\nContoh: 25 tahun"
	case entity.StepNIK:
		return step + "Ketik NIK (16 digit):\nAtau ketik - jika tidak ada"
	}
	return "Langkah 1: Pilih kategori pasien:"
}

func displayDate(iso *string) string {
	if iso == nil || *iso == "" {
		return "-"
	}
	t, err := time.Parse("2006-01-02", *iso)
	if err != nil {
		return *iso
	}
	return t.Format("02/01/2006")
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
