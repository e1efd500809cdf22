package utils

import (
	"fmt"
	"math"
)

// RoundCurrency membulatkan nominal ke 2 desimal (half-up).
// Pembulatan hanya dilakukan sekali di akhir perhitungan biaya,
// bukan per segmen.
func RoundCurrency(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// FormatCurrency memformat nominal untuk tampilan, selalu 2 desimal.
// Example: 18.75 -> "18.75"
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("%.2f", RoundCurrency(amount))
}
