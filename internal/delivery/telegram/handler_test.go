package telegram

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"healthmon-backend/internal/domain/entity"
	"healthmon-backend/internal/repository"
	"healthmon-backend/internal/service"
	"healthmon-backend/internal/testutil"
	"healthmon-backend/internal/usecase"

	"gorm.io/gorm"
)

func newTestHandler(t *testing.T) (*CommandHandler, *gorm.DB) {
	t.Helper()

	db := testutil.NewTestDB(t)
	log := testutil.NewLogger()

	patientRepo := repository.NewPatientRepository()
	checkupRepo := repository.NewCheckupRepository()
	vitaminRepo := repository.NewVitaminRepository()

	patientUsecase := usecase.NewPatientUsecase(db, log, patientRepo, checkupRepo)
	registration := usecase.NewRegistrationUsecase(log, service.NewMemorySessionStore(time.Minute), patientUsecase)

	return NewCommandHandler(
		log,
		registration,
		patientUsecase,
		usecase.NewCheckupUsecase(db, log, patientRepo, checkupRepo),
		usecase.NewVitaminUsecase(db, log, patientRepo, vitaminRepo),
	), db
}

func seedPatient(t *testing.T, db *gorm.DB, name string, category entity.Category) *entity.Patient {
	t.Helper()
	p := &entity.Patient{
		Name:     name,
		Age:      "45 tahun",
		Gender:   entity.GenderMale,
		Category: category,
		Status:   entity.PatientStatusStable,
	}
	if category.IsInfant() {
		p.Age = "6 bulan"
	}
	if err := repository.NewPatientRepository().Create(context.Background(), db, p); err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	return p
}

func assertContains(t *testing.T, reply *usecase.Reply, want ...string) {
	t.Helper()
	if reply == nil {
		t.Fatalf("expected a reply containing %q, got nil", want)
	}
	for _, w := range want {
		if !strings.Contains(reply.Text, w) {
			t.Fatalf("expected reply to contain %q, got:\n%s", w, reply.Text)
		}
	}
}

func TestStaticCommands(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()

	tests := []struct {
		command string
		want    string
	}{
		{"start", "Selamat datang di HealthMon Bot"},
		{"help", "Panduan Lengkap"},
		{"HELP", "Panduan Lengkap"},
		{"hapus", "Command tidak dikenali"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			assertContains(t, h.HandleCommand(ctx, 1, tt.command, ""), tt.want)
		})
	}
}

func TestCheckupCommand(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := context.Background()
	budi := seedPatient(t, db, "Budi", entity.CategoryDewasa)
	ani := seedPatient(t, db, "Ani", entity.CategoryBayi)

	reply := h.HandleCommand(ctx, 1, "checkup", itoa(budi.ID)+" 65|165|120/80|95")
	assertContains(t, reply, "Checkup Berhasil Disimpan", "Budi", "Berat: 65 kg", "Tekanan Darah: 120/80", "Gula Darah: 95 mg/dL")

	reply = h.HandleCommand(ctx, 1, "checkup", itoa(ani.ID)+" 7.5|65|42")
	assertContains(t, reply, "Berat: 7.5 kg", "Lingkar Kepala: 42 cm")

	var n int64
	db.Model(&entity.Checkup{}).Count(&n)
	if n != 2 {
		t.Fatalf("expected 2 checkups, got %d", n)
	}
}

func TestCheckupCommandErrors(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := context.Background()
	budi := seedPatient(t, db, "Budi", entity.CategoryLansia)

	tests := []struct {
		name string
		args string
		want string
	}{
		{"missing payload", itoa(budi.ID), "Format salah"},
		{"non numeric id", "abc 65|165|120/80|95", "Format salah"},
		{"unknown patient", "999 65|165|120/80|95", "Pasien dengan ID 999 tidak ditemukan"},
		{"incomplete", itoa(budi.ID) + " 65|165", "Data tidak lengkap untuk kategori Lansia"},
		{"bad weight", itoa(budi.ID) + " berat|165|120/80|95", "harus berupa angka"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertContains(t, h.HandleCommand(ctx, 1, "checkup", tt.args), tt.want)
		})
	}

	var n int64
	db.Model(&entity.Checkup{}).Count(&n)
	if n != 0 {
		t.Fatalf("expected no checkups, got %d", n)
	}
}

func TestVitaminCommand(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := context.Background()
	ani := seedPatient(t, db, "Ani", entity.CategoryBayi)

	reply := h.HandleCommand(ctx, 1, "vitamin", itoa(ani.ID)+" vit. a")
	assertContains(t, reply, "Vitamin Berhasil Disimpan", "Vitamin: Vit A", "Status: Selesai")

	assertContains(t, h.HandleCommand(ctx, 1, "vitamin", itoa(ani.ID)), "Format salah")
	assertContains(t, h.HandleCommand(ctx, 1, "vitamin", "999 Vitamin A"), "tidak ditemukan")
}

func TestStatusCommand(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := context.Background()
	budi := seedPatient(t, db, "Budi", entity.CategoryDewasa)

	assertContains(t, h.HandleCommand(ctx, 1, "status", itoa(budi.ID)),
		"Nama: Budi", "Kategori: Dewasa", "Belum ada riwayat pemeriksaan", "Belum ada riwayat vitamin")

	for i := 0; i < 7; i++ {
		h.HandleCommand(ctx, 1, "checkup", itoa(budi.ID)+" 70|170|120/80|90")
	}
	h.HandleCommand(ctx, 1, "vitamin", itoa(budi.ID)+" Vitamin D")

	reply := h.HandleCommand(ctx, 1, "status", itoa(budi.ID))
	assertContains(t, reply, "Riwayat Pemeriksaan (5 terakhir)", "5. ", "Vitamin D")
	if strings.Contains(reply.Text, "\n6. ") {
		t.Fatalf("expected history capped at 5 entries:\n%s", reply.Text)
	}

	assertContains(t, h.HandleCommand(ctx, 1, "status", ""), "Format salah")
	assertContains(t, h.HandleCommand(ctx, 1, "status", "42"), "Pasien dengan ID 42 tidak ditemukan")
}

func TestRegistrationThroughHandler(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := context.Background()
	const chatID = 77

	if reply := h.HandleText(ctx, chatID, "halo"); reply != nil {
		t.Fatalf("expected text outside a registration to be ignored, got %q", reply.Text)
	}

	reply := h.HandleCommand(ctx, chatID, "daftar", "")
	if reply == nil || len(reply.Options) != 3 {
		t.Fatalf("expected 3 category options, got %+v", reply)
	}

	if reply := h.HandleCallback(ctx, chatID, "gender_Laki-laki"); reply != nil {
		t.Fatalf("expected out-of-step choice to be ignored, got %q", reply.Text)
	}

	reply = h.HandleCallback(ctx, chatID, "category_Dewasa")
	if reply == nil || len(reply.Options) != 2 {
		t.Fatalf("expected gender options, got %+v", reply)
	}
	h.HandleCallback(ctx, chatID, "gender_Laki-laki")
	h.HandleText(ctx, chatID, "Joko")
	h.HandleText(ctx, chatID, "40 tahun")
	reply = h.HandleText(ctx, chatID, "3201234567890123")
	if reply == nil || !reply.Done {
		t.Fatalf("expected registration to finish, got %+v", reply)
	}

	var joko entity.Patient
	if err := db.Where("name = ?", "Joko").First(&joko).Error; err != nil {
		t.Fatalf("expected registered patient: %v", err)
	}
	if joko.NIK == nil || *joko.NIK != "3201234567890123" {
		t.Fatalf("unexpected NIK: %v", joko.NIK)
	}

	assertContains(t, h.HandleCallback(ctx, chatID, "category_Bayi"), "Ketik /daftar")
}

func TestKeyboardOneButtonPerRow(t *testing.T) {
	markup := keyboard([]usecase.Option{{Label: "Bayi", Data: "category_Bayi"}, {Label: "Dewasa", Data: "category_Dewasa"}})
	if len(markup.InlineKeyboard) != 2 || len(markup.InlineKeyboard[0]) != 1 {
		t.Fatalf("unexpected layout: %+v", markup.InlineKeyboard)
	}
	if data := markup.InlineKeyboard[1][0].CallbackData; data == nil || *data != "category_Dewasa" {
		t.Fatalf("unexpected callback data: %v", data)
	}
}

func itoa(id int) string {
	return strconv.Itoa(id)
}
