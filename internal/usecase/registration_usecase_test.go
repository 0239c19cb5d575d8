package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"healthmon-backend/internal/domain/entity"
	"healthmon-backend/internal/service"
	"healthmon-backend/internal/testutil"
)

func newRegistration(t *testing.T) (*fixture, *registrationUsecase, *service.MemorySessionStore) {
	t.Helper()
	f := newFixture(t)
	store := service.NewMemorySessionStore(30 * time.Minute)
	uc := NewRegistrationUsecase(testutil.NewLogger(), store, f.patientUsecase()).(*registrationUsecase)
	uc.now = func() time.Time { return fixedNow }
	return f, uc, store
}

// replyChecker fails the test on an error or a missing reply.
func replyChecker(t *testing.T) func(*Reply, error) *Reply {
	return func(reply *Reply, err error) *Reply {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reply == nil {
			t.Fatalf("expected a reply")
		}
		return reply
	}
}

func TestRegistrationInfantFlow(t *testing.T) {
	f, uc, store := newRegistration(t)
	ctx := context.Background()
	must := replyChecker(t)
	const chat = int64(100)

	reply := must(uc.Start(ctx, chat))
	if len(reply.Options) != 3 {
		t.Fatalf("expected 3 category options, got %d", len(reply.Options))
	}

	must(uc.HandleChoice(ctx, chat, "category_Bayi"))
	must(uc.HandleChoice(ctx, chat, "gender_Perempuan"))
	must(uc.HandleText(ctx, chat, "Siti Aminah"))

	reply = must(uc.HandleText(ctx, chat, "17/02/2026"))
	if !strings.Contains(reply.Text, "8 bulan") {
		t.Fatalf("expected derived age in summary, got %q", reply.Text)
	}

	must(uc.HandleText(ctx, chat, "Ibu Aminah"))
	must(uc.HandleText(ctx, chat, "3201234567890123"))
	must(uc.HandleText(ctx, chat, "-"))
	reply = must(uc.HandleText(ctx, chat, "3201234567890999"))

	if !reply.Done || !strings.Contains(reply.Text, "berhasil didaftarkan") {
		t.Fatalf("expected success reply, got %+v", reply)
	}
	if store.Len() != 0 {
		t.Fatalf("expected session to be removed")
	}

	patients, err := f.patients.FindAll(ctx, f.db, entity.CategoryBayi)
	if err != nil || len(patients) != 1 {
		t.Fatalf("expected one infant, got %d (%v)", len(patients), err)
	}
	p := patients[0]
	if p.Age != "8 bulan" || p.ChildNIK != nil || p.MotherNIK == nil || *p.MotherNIK != "3201234567890123" {
		t.Fatalf("unexpected patient: %+v", p)
	}
	if p.FamilyCardNumber == nil || *p.FamilyCardNumber != "3201234567890999" {
		t.Fatalf("unexpected family card number: %v", p.FamilyCardNumber)
	}
}

func TestRegistrationAdultFlowWithInvalidNIK(t *testing.T) {
	f, uc, _ := newRegistration(t)
	ctx := context.Background()
	must := replyChecker(t)
	const chat = int64(200)

	must(uc.Start(ctx, chat))
	must(uc.HandleChoice(ctx, chat, "category_Lansia"))
	must(uc.HandleChoice(ctx, chat, "gender_Laki-laki"))
	must(uc.HandleText(ctx, chat, "Pak Harjo"))

	reply := must(uc.HandleText(ctx, chat, "67 tahun"))
	if !strings.Contains(reply.Text, "Langkah 5/5") {
		t.Fatalf("expected last step prompt, got %q", reply.Text)
	}

	reply = must(uc.HandleText(ctx, chat, "12345"))
	if reply.Done || !strings.Contains(reply.Text, "16 digit") {
		t.Fatalf("expected re-prompt, got %+v", reply)
	}
	session, _ := uc.sessions.Get(ctx, chat)
	if session == nil || session.Step != entity.StepNIK || session.NIK != "" {
		t.Fatalf("expected session unchanged at nik step, got %+v", session)
	}

	reply = must(uc.HandleText(ctx, chat, "3201234567890123"))
	if !reply.Done {
		t.Fatalf("expected registration to finish")
	}
	if n := f.count(t, &entity.Patient{}); n != 1 {
		t.Fatalf("expected one patient, got %d", n)
	}
}

func TestRegistrationFailureEndsSession(t *testing.T) {
	f, uc, store := newRegistration(t)
	ctx := context.Background()
	must := replyChecker(t)
	nik := "3201234567890123"
	existing := f.seedPatient(t, "Budi", entity.CategoryDewasa)
	existing.NIK = &nik
	if err := f.patients.Update(ctx, f.db, existing); err != nil {
		t.Fatalf("update seed: %v", err)
	}

	const chat = int64(300)
	must(uc.Start(ctx, chat))
	must(uc.HandleChoice(ctx, chat, "category_Dewasa"))
	must(uc.HandleChoice(ctx, chat, "gender_Laki-laki"))
	must(uc.HandleText(ctx, chat, "Budi Kedua"))
	must(uc.HandleText(ctx, chat, "40 tahun"))
	reply := must(uc.HandleText(ctx, chat, nik))

	if !reply.Done || !strings.Contains(reply.Text, "Gagal menyimpan") {
		t.Fatalf("expected failure reply, got %+v", reply)
	}
	if store.Len() != 0 {
		t.Fatalf("expected session to be removed after failure")
	}
}

func TestRegistrationIgnoresInputWithoutSession(t *testing.T) {
	_, uc, _ := newRegistration(t)
	ctx := context.Background()
	must := replyChecker(t)

	reply, err := uc.HandleText(ctx, 999, "hello")
	if err != nil || reply != nil {
		t.Fatalf("expected nil reply, got %+v (%v)", reply, err)
	}

	must(uc.Start(ctx, 999))
	reply, err = uc.HandleChoice(ctx, 999, "gender_Perempuan")
	if err != nil || reply != nil {
		t.Fatalf("expected out-of-step choice to be ignored, got %+v (%v)", reply, err)
	}
	reply = must(uc.HandleText(ctx, 999, "Bayi"))
	if len(reply.Options) != 3 {
		t.Fatalf("expected category buttons to be shown again")
	}
}

func TestRegistrationRejectsFutureBirthDate(t *testing.T) {
	_, uc, _ := newRegistration(t)
	ctx := context.Background()
	must := replyChecker(t)
	const chat = int64(400)

	must(uc.Start(ctx, chat))
	must(uc.HandleChoice(ctx, chat, "category_Bayi"))
	must(uc.HandleChoice(ctx, chat, "gender_Laki-laki"))
	must(uc.HandleText(ctx, chat, "Adi"))

	for _, input := range []string{"2026-13-45", "01/01/2027"} {
		reply := must(uc.HandleText(ctx, chat, input))
		if reply.Done {
			t.Fatalf("expected re-prompt for %q", input)
		}
	}
	session, _ := uc.sessions.Get(ctx, chat)
	if session.Step != entity.StepBirthDate {
		t.Fatalf("expected to stay on birth date step, got %s", session.Step)
	}
}
