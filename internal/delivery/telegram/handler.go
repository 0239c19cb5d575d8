package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"healthmon-backend/internal/domain/entity"
	"healthmon-backend/internal/usecase"

	"github.com/sirupsen/logrus"
)

// CommandHandler turns bot commands, free text and button presses into
// usecase calls. It knows nothing about the Telegram API so it can be
// tested without a bot.
type CommandHandler struct {
	log            *logrus.Logger
	registration   usecase.RegistrationUsecase
	patientUsecase usecase.PatientUsecase
	checkupUsecase usecase.CheckupUsecase
	vitaminUsecase usecase.VitaminUsecase
}

func NewCommandHandler(
	log *logrus.Logger,
	registration usecase.RegistrationUsecase,
	patientUsecase usecase.PatientUsecase,
	checkupUsecase usecase.CheckupUsecase,
	vitaminUsecase usecase.VitaminUsecase,
) *CommandHandler {
	return &CommandHandler{
		log:            log,
		registration:   registration,
		patientUsecase: patientUsecase,
		checkupUsecase: checkupUsecase,
		vitaminUsecase: vitaminUsecase,
	}
}

// HandleCommand answers a slash command. args is everything after the command word.
func (h *CommandHandler) HandleCommand(ctx context.Context, chatID int64, command, args string) *usecase.Reply {
	args = strings.TrimSpace(args)

	switch strings.ToLower(command) {
	case "start":
		return text(welcomeText)
	case "help":
		return text(helpText)
	case "daftar":
		reply, err := h.registration.Start(ctx, chatID)
		if err != nil {
			h.log.Errorf("Failed to start registration for chat %d: %+v", chatID, err)
			return text("❌ Gagal memulai pendaftaran. Coba lagi nanti.")
		}
		return reply
	case "checkup":
		return h.checkup(ctx, args)
	case "vitamin":
		return h.vitamin(ctx, args)
	case "status":
		return h.status(ctx, args)
	default:
		return text(unknownCommandText)
	}
}

// HandleText forwards free text to an active registration. A nil reply
// means the message is not part of any conversation and is ignored.
func (h *CommandHandler) HandleText(ctx context.Context, chatID int64, message string) *usecase.Reply {
	reply, err := h.registration.HandleText(ctx, chatID, message)
	if err != nil {
		h.log.Errorf("Failed to handle registration input for chat %d: %+v", chatID, err)
		return text("❌ Terjadi kesalahan. Ketik /daftar untuk mulai lagi.")
	}
	return reply
}

// HandleCallback handles an inline button press. A nil reply means the
// press did not fit the current step and is ignored.
func (h *CommandHandler) HandleCallback(ctx context.Context, chatID int64, data string) *usecase.Reply {
	reply, err := h.registration.HandleChoice(ctx, chatID, data)
	if err != nil {
		h.log.Errorf("Failed to handle registration choice for chat %d: %+v", chatID, err)
		return text("❌ Terjadi kesalahan. Ketik /daftar untuk mulai lagi.")
	}
	return reply
}

func (h *CommandHandler) checkup(ctx context.Context, args string) *usecase.Reply {
	idText, payload, ok := strings.Cut(args, " ")
	payload = strings.TrimSpace(payload)
	if !ok || payload == "" {
		return text(checkupUsage)
	}
	patientID, err := strconv.Atoi(idText)
	if err != nil || patientID <= 0 {
		return text(checkupUsage)
	}

	result, err := h.checkupUsecase.RecordCommand(ctx, patientID, payload)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPatientNotFound):
			return text(patientNotFoundText(idText))
		case errors.Is(err, entity.ErrIncompleteCheckup):
			return text(h.incompleteCheckupText(ctx, patientID))
		case errors.Is(err, entity.ErrInvalidMeasurement):
			return text("❌ Berat dan tinggi harus berupa angka!\n\nKetik /help untuk melihat format.")
		}
		h.log.Errorf("Failed to record checkup for patient %d: %+v", patientID, err)
		return text("❌ Gagal menyimpan checkup. Coba lagi nanti.")
	}
	return text(checkupSavedText(result))
}

func (h *CommandHandler) incompleteCheckupText(ctx context.Context, patientID int) string {
	patient, err := h.patientUsecase.GetByID(ctx, patientID)
	if err != nil {
		return checkupUsage
	}
	format, example := entity.AdultCheckupFormat, "65|165|120/80|95"
	if entity.Category(patient.Category).IsInfant() {
		format, example = entity.InfantCheckupFormat, "5.2|55|42"
	}
	return fmt.Sprintf("❌ Data tidak lengkap untuk kategori %s!\n\nFormat: /checkup %d %s\nContoh: /checkup %d %s",
		patient.Category, patientID, format, patientID, example)
}

func (h *CommandHandler) vitamin(ctx context.Context, args string) *usecase.Reply {
	idText, name, ok := strings.Cut(args, " ")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return text(vitaminUsage)
	}
	patientID, err := strconv.Atoi(idText)
	if err != nil || patientID <= 0 {
		return text(vitaminUsage)
	}

	result, err := h.vitaminUsecase.RecordGiven(ctx, patientID, name)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPatientNotFound):
			return text(patientNotFoundText(idText))
		case errors.Is(err, entity.ErrEmptyVitaminName):
			return text(vitaminUsage)
		}
		h.log.Errorf("Failed to record vitamin for patient %d: %+v", patientID, err)
		return text("❌ Gagal menyimpan vitamin. Coba lagi nanti.")
	}
	return text(vitaminSavedText(patientID, result))
}

func (h *CommandHandler) status(ctx context.Context, args string) *usecase.Reply {
	patientID, err := strconv.Atoi(args)
	if err != nil || patientID <= 0 {
		return text(statusUsage)
	}

	patient, err := h.patientUsecase.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, usecase.ErrPatientNotFound) {
			return text(patientNotFoundText(args))
		}
		h.log.Errorf("Failed to load patient %d: %+v", patientID, err)
		return text("❌ Gagal mengambil data pasien. Coba lagi nanti.")
	}
	return text(statusText(patient))
}

func text(s string) *usecase.Reply {
	return &usecase.Reply{Text: s}
}
