package services

import (
	"time"

	"github.com/pneumacap/PoolTableTracker/models"
	"github.com/pneumacap/PoolTableTracker/utils"
)

// ComputeCost menghitung biaya satu sesi berdasarkan rentang waktu dan
// konfigurasi tarif. start dan end harus sudah dalam waktu lokal bisnis.
//
// Aturan:
//   - Jika start dan end berada di jam dinding yang sama, seluruh
//     chargedMinutes ditagih dengan satu tarif mengikuti instant start.
//   - Jika melewati batas jam, durasi dipecah per segmen jam; tarif tiap
//     segmen mengikuti instant awal segmen itu.
//   - chargedMinutes boleh lebih besar dari rentang sebenarnya (minimum
//     charge); sisa menitnya melanjutkan walk segmen melewati end.
//
// Akumulasi segmen memakai presisi penuh, pembulatan 2 desimal
// (half-up) hanya sekali di akhir.
func ComputeCost(start, end time.Time, chargedMinutes int, cfg models.BusinessConfig) float64 {
	if chargedMinutes <= 0 {
		return 0
	}

	peakStart, err := models.ParseClock(cfg.PeakStart)
	if err != nil {
		peakStart = 0
	}
	peakEnd, err := models.ParseClock(cfg.PeakEnd)
	if err != nil {
		peakEnd = 0
	}

	// Jam dinding sama -> satu tarif untuk seluruh durasi
	if sameClockHour(start, end) {
		rate := cfg.StandardRate
		if inPeakWindow(start, peakStart, peakEnd) {
			rate = cfg.PeakRate
		}
		return utils.RoundCurrency(float64(chargedMinutes) / 60.0 * rate)
	}

	total := 0.0
	remaining := chargedMinutes
	cursor := start
	for remaining > 0 {
		untilBoundary := 60 - cursor.Minute()
		segment := remaining
		if untilBoundary < segment {
			segment = untilBoundary
		}

		rate := cfg.StandardRate
		if inPeakWindow(cursor, peakStart, peakEnd) {
			rate = cfg.PeakRate
		}
		total += float64(segment) / 60.0 * rate

		cursor = cursor.Add(time.Duration(segment) * time.Minute)
		remaining -= segment
	}

	return utils.RoundCurrency(total)
}

// ActualMinutes menghitung durasi sesi dalam menit bulat.
// Kebijakan presisi: hitung dalam detik utuh, lalu bulatkan half-up ke
// menit sekali di sini; seluruh perhitungan billing selanjutnya
// bekerja pada menit bulat.
func ActualMinutes(start, end time.Time) int {
	seconds := end.Sub(start).Seconds()
	if seconds < 0 {
		return 0
	}
	return int((seconds + 30) / 60)
}

// ChargedMinutes menerapkan minimum charge.
func ChargedMinutes(actual, minimum int) int {
	if actual < minimum {
		return minimum
	}
	return actual
}

func sameClockHour(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay() && a.Hour() == b.Hour()
}

// inPeakWindow menguji apakah time-of-day t masuk peak window.
// Window yang melewati tengah malam (end <= start) ditangani dengan
// test OR pada kedua sisinya.
func inPeakWindow(t time.Time, peakStart, peakEnd int) bool {
	tod := t.Hour()*60 + t.Minute()
	if peakEnd > peakStart {
		return tod >= peakStart && tod <= peakEnd
	}
	return tod >= peakStart || tod <= peakEnd
}
