package app

import "strings"

// Dictionary-based Arabic substitution for hotel names, categories, and
// address tokens. Best-effort: unknown words pass through unchanged.

var hotelNamesAR = map[string]string{
	"Grand Makkah Hotel":   "فندق مكة الكبير",
	"Madinah Plaza":        "بلازا المدينة",
	"Al Safwah Towers":     "أبراج الصفوة",
	"Jabal Omar Residence": "مساكن جبل عمر",
}

var categoriesAR = map[string]string{
	"Hotel":      "فندق",
	"Apartment":  "شقة",
	"Resort":     "منتجع",
	"Villa":      "فيلا",
	"Guesthouse": "بيت ضيافة",
}

var wordsAR = map[string]string{
	"Hotel":    "فندق",
	"Grand":    "الكبير",
	"Plaza":    "بلازا",
	"Towers":   "أبراج",
	"Palace":   "قصر",
	"Royal":    "ملكي",
	"Makkah":   "مكة",
	"Mecca":    "مكة",
	"Madinah":  "المدينة",
	"Medina":   "المدينة",
	"Jeddah":   "جدة",
	"Riyadh":   "الرياض",
	"Street":   "شارع",
	"Road":     "طريق",
	"King":     "الملك",
	"Abdullah": "عبدالله",
	"Fahd":     "فهد",
	"District": "حي",
	"Central":  "المركزية",
	"Saudi":    "السعودية",
	"Arabia":   "العربية",
}

// TranslateName prefers a whole-phrase match, then falls back to per-word
// substitution.
func TranslateName(name string) string {
	if ar, ok := hotelNamesAR[name]; ok {
		return ar
	}
	return translateWords(name)
}

func TranslateCategory(cat string) string {
	if ar, ok := categoriesAR[cat]; ok {
		return ar
	}
	return cat
}

func TranslateAddress(addr string) string {
	if addr == "" {
		return addr
	}
	parts := strings.Split(addr, ",")
	for i, p := range parts {
		parts[i] = translateWords(strings.TrimSpace(p))
	}
	return strings.Join(parts, "، ")
}

func translateWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if ar, ok := wordsAR[w]; ok {
			words[i] = ar
		}
	}
	return strings.Join(words, " ")
}
