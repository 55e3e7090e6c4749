package service

import "math"

// round2 pembulatan 2 desimal (half away from zero, cocok untuk nilai).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeQuizScore: earned/total*100 dibulatkan 2 desimal.
// total == 0 → 0 (hindari pembagian nol; quiz tanpa bobot poin positif).
func ComputeQuizScore(earnedPoints, totalPoints float64) float64 {
	if totalPoints <= 0 {
		return 0
	}
	return round2(earnedPoints / totalPoints * 100)
}

// ApplyLatePenalty: potongan persentase untuk submission telat.
// Dipanggil HANYA bila is_late && allow_late_submissions && penalty > 0;
// clamp ke 0 supaya nilai tidak negatif.
func ApplyLatePenalty(rawGrade, penaltyPercentage float64) float64 {
	final := rawGrade - rawGrade*penaltyPercentage/100
	if final < 0 {
		return 0
	}
	return round2(final)
}

// FinalGradeFor: penalty hanya aktif pada kombinasi telat +
// telat-diizinkan + penalty nonzero.
func FinalGradeFor(rawGrade float64, isLate, allowLate bool, penaltyPercentage float64) float64 {
	if isLate && allowLate && penaltyPercentage > 0 {
		return ApplyLatePenalty(rawGrade, penaltyPercentage)
	}
	return round2(rawGrade)
}
