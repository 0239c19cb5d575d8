package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"healthmon-backend/internal/delivery/dto"
	"healthmon-backend/internal/domain/entity"
)

const statusHistoryLimit = 5

const welcomeText = `🏥 Selamat datang di HealthMon Bot!

Bot ini untuk input data pasien yang langsung masuk ke database.

📋 Command yang tersedia:

/daftar - Daftarkan pasien baru
/checkup - Input data checkup
/vitamin - Input data vitamin
/status - Cek status pasien
/help - Bantuan lengkap

💡 Cara pakai:
Ketik /daftar untuk memulai pendaftaran pasien.`

const helpText = `📚 Panduan Lengkap HealthMon Bot

1️⃣ Daftar Pasien Baru
Ketik: /daftar
Bot memandu langkah demi langkah dengan tombol:
• Pilih kategori (Bayi/Dewasa/Lansia)
• Pilih jenis kelamin
• Input nama, tanggal lahir, NIK, dll

2️⃣ Input Checkup
Format Bayi: /checkup ID berat|tinggi|lingkar_kepala
Format Dewasa/Lansia: /checkup ID berat|tinggi|tekanan_darah|gula_darah
Contoh: /checkup 1 5.2|55|42

3️⃣ Input Vitamin
Format: /vitamin ID nama_vitamin
Contoh:
/vitamin 1 Vitamin A
/vitamin 2 Vit D
📊 Status otomatis: Selesai (sudah diberikan)

4️⃣ Cek Status
Format: /status ID
Contoh: /status 1`

const checkupUsage = `❌ Format salah!

📝 Format untuk Bayi:
/checkup ID berat|tinggi|lingkar_kepala
Contoh: /checkup 11 5.2|55|42

📝 Format untuk Dewasa/Lansia:
/checkup ID berat|tinggi|tekanan_darah|gula_darah
Contoh: /checkup 11 65|165|120/80|95

💡 Tips:
- Berat dalam kg (contoh: 5.2, 65)
- Tinggi dalam cm (contoh: 55, 165)
- Lingkar kepala dalam cm (contoh: 42)
- Tekanan darah format sistol/diastol (contoh: 120/80)
- Gula darah dalam mg/dL (contoh: 95)`

const vitaminUsage = `❌ Format salah!

📝 Format:
/vitamin ID nama_vitamin

Contoh:
/vitamin 1 Vitamin A
/vitamin 2 Vit D
/vitamin 3 Vit. B12

💡 Nama vitamin bisa ditulis dengan berbagai cara (Vitamin A, Vit A, Vit. A)
📊 Status otomatis: Selesai (sudah diberikan)`

const statusUsage = `❌ Format salah!

📝 Format: /status ID
Contoh: /status 11`

const unknownCommandText = "❓ Command tidak dikenali.\n\nKetik /help untuk melihat daftar command."

func patientNotFoundText(id string) string {
	return fmt.Sprintf("❌ Pasien dengan ID %s tidak ditemukan!", id)
}

func checkupSavedText(r *dto.RecordCheckupResponse) string {
	var b strings.Builder
	b.WriteString("✅ Checkup Berhasil Disimpan!\n\n")
	fmt.Fprintf(&b, "👤 Pasien: %s\n🆔 ID: %d\n📋 Kategori: %s\n\n", r.Patient.Name, r.Patient.ID, r.Patient.Category)
	b.WriteString("📊 Data Pemeriksaan:\n")
	writeCheckupLines(&b, &r.Checkup, "")
	fmt.Fprintf(&b, "\n📊 Command lanjutan:\n/status %d - Lihat semua data pasien", r.Patient.ID)
	return b.String()
}

func vitaminSavedText(patientID int, v *dto.VitaminResponse) string {
	var b strings.Builder
	b.WriteString("✅ Data Vitamin Berhasil Disimpan!\n\n")
	fmt.Fprintf(&b, "🆔 ID Pasien: %d\n💊 Vitamin: %s\n📊 Status: %s\n📅 Tanggal: %s\n\n", patientID, v.VitaminName, v.Status, formatDate(v.Date))
	fmt.Fprintf(&b, "📝 Command lanjutan:\n/status %d - Lihat riwayat lengkap\n/vitamin %d - Input vitamin lagi", patientID, patientID)
	return b.String()
}

func statusText(p *dto.PatientDetailResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Status Pasien\n\n👤 Nama: %s\n🆔 ID: %d\n", p.Name, p.ID)

	if entity.Category(p.Category).IsInfant() {
		fmt.Fprintf(&b, "📅 Tanggal Lahir: %s\n", orDash(isoToDisplay(p.BirthDate)))
		fmt.Fprintf(&b, "🎂 Usia: %s\n👥 Gender: %s\n📋 Kategori: %s\n", p.Age, p.Gender, p.Category)
		fmt.Fprintf(&b, "👨‍👩‍👧 Nama Orang Tua: %s\n", orDash(deref(p.GuardianName)))
		fmt.Fprintf(&b, "🆔 NIK Ibu: %s\n👶 NIK Anak: %s\n", orDash(deref(p.MotherNIK)), orDash(deref(p.ChildNIK)))
		fmt.Fprintf(&b, "📇 No Kartu Keluarga: %s\n", orDash(deref(p.FamilyCardNumber)))
	} else {
		fmt.Fprintf(&b, "🎂 Usia: %s\n👥 Gender: %s\n📋 Kategori: %s\n", p.Age, p.Gender, p.Category)
		fmt.Fprintf(&b, "🆔 NIK: %s\n", orDash(deref(p.NIK)))
	}
	fmt.Fprintf(&b, "🩺 Status: %s\n", p.Status)

	if len(p.Checkups) == 0 {
		b.WriteString("\n📋 Belum ada riwayat pemeriksaan\n")
	} else {
		fmt.Fprintf(&b, "\n📋 Riwayat Pemeriksaan (%d terakhir):\n", statusHistoryLimit)
		for i, c := range p.Checkups {
			if i == statusHistoryLimit {
				break
			}
			fmt.Fprintf(&b, "\n%d. %s\n", i+1, c.Date.Format("02/01/2006"))
			writeCheckupLines(&b, &c, "   ")
		}
	}

	if len(p.Vitamins) == 0 {
		b.WriteString("\n💊 Belum ada riwayat vitamin\n")
	} else {
		fmt.Fprintf(&b, "\n💊 Riwayat Vitamin (%d terakhir):\n", statusHistoryLimit)
		for i, v := range p.Vitamins {
			if i == statusHistoryLimit {
				break
			}
			fmt.Fprintf(&b, "\n%d. %s\n   📊 Status: %s\n   📅 Tanggal: %s\n", i+1, v.VitaminName, v.Status, formatDate(v.Date))
		}
	}

	fmt.Fprintf(&b, "\n📝 Command lanjutan:\n/checkup %d - Input pemeriksaan baru\n/vitamin %d - Input vitamin baru", p.ID, p.ID)
	return b.String()
}

func writeCheckupLines(b *strings.Builder, c *dto.CheckupResponse, indent string) {
	if c.Weight != nil {
		fmt.Fprintf(b, "%s⚖️ Berat: %s kg\n", indent, formatFloat(*c.Weight))
	}
	if c.Height != nil {
		fmt.Fprintf(b, "%s📏 Tinggi: %s cm\n", indent, formatFloat(*c.Height))
	}
	if c.HeadCircumference != nil {
		fmt.Fprintf(b, "%s👶 Lingkar Kepala: %s cm\n", indent, formatFloat(*c.HeadCircumference))
	}
	if c.BloodPressure != nil {
		fmt.Fprintf(b, "%s💉 Tekanan Darah: %s\n", indent, *c.BloodPressure)
	}
	if c.BloodSugar != nil {
		fmt.Fprintf(b, "%s🩸 Gula Darah: %d mg/dL\n", indent, *c.BloodSugar)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02/01/2006")
}

func isoToDisplay(iso *string) string {
	if iso == nil {
		return ""
	}
	t, err := time.Parse("2006-01-02", *iso)
	if err != nil {
		return *iso
	}
	return t.Format("02/01/2006")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
