package lang

import (
	"regexp"

	"github.com/recipereel/colette/internal/recipe"
)

func init() {
	register(&Rules{
		Code: "tr",

		Units: map[string]string{
			"su bardağı": "su bardağı", "bardak": "su bardağı",
			"yemek kaşığı": "yemek kaşığı", "çay kaşığı": "çay kaşığı", "tatlı kaşığı": "tatlı kaşığı",
			"adet": "adet", "tane": "adet",
			"paket": "paket",
			"gram":  "g", "gr": "g", "g": "g",
			"kilogram": "kg", "kilo": "kg", "kg": "kg",
			"mililitre": "ml", "ml": "ml",
			"litre": "l", "lt": "l", "l": "l",
			"dilim": "dilim", "diş": "diş", "demet": "demet",
			"avuç": "avuç", "tutam": "tutam", "çimdik": "tutam",
		},

		NumberWords: map[string]string{
			"bir": "1", "iki": "2", "üç": "3", "dört": "4", "beş": "5",
			"altı": "6", "yedi": "7", "sekiz": "8", "dokuz": "9", "on": "10",
			"yarım": "1/2", "çeyrek": "1/4",
		},

		IngredientHeadings: []string{
			"malzemeler", "malzeme listesi", "gerekenler", "ihtiyacınız olanlar",
		},
		StepHeadings: []string{
			"yapılışı", "hazırlanışı", "adımlar", "tarif", "nasıl yapılır",
		},

		ImperativeVerbs: []string{
			"karıştır", "ekle", "dök", "pişir", "çırp", "ısıt", "doğra",
			"kes", "yoğur", "beklet", "dinlendir", "al", "koy",
			"ilave", "hazırla", "yıka", "temizle", "soy", "dilimle",
			"kavur", "haşla", "kaynat", "kızart", "servis", "süsle",
			"tat", "kontrol", "çevir", "karış", "yap", "oluştur", "rendele", "eridik", "erit",
		},

		NoiseWords: []string{
			"takip et", "takip edin", "beğenmeyi unutma", "yorum yap",
			"kaydet", "arkadaşını etiketle", "bio", "link", "abone ol",
		},

		DurationPattern: regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:-\s*\d+\s*)?(dakika|dk|saat|saniye|sn)\b`),
		ServingsPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(\d+)\s*kişilik`),
			regexp.MustCompile(`(?i)(\d+)\s*porsiyon`),
			regexp.MustCompile(`(?i)(\d+)\s*servis`),
		},
		PrepLabels:     []string{"hazırlık süresi", "hazırlık:"},
		CookLabels:     []string{"pişirme süresi", "pişirme:"},
		CaloriePattern: regexp.MustCompile(`(?i)(\d+)\s*(?:k?cal|kalori)\b`),

		EasyWords: []string{"kolay", "basit", "pratik", "zahmetsiz"},
		HardWords: []string{"zor", "profesyonel", "ileri", "zahmetli", "ustalık"},
		DifficultyLabels: map[recipe.Difficulty]string{
			recipe.DifficultyEasy:   "Kolay",
			recipe.DifficultyMedium: "Orta",
			recipe.DifficultyHard:   "Zor",
		},

		SequenceMarkers: []string{
			"sonra", "ardından", "daha sonra", "son olarak", "bu arada", "akabinde",
		},

		FallbackTitle: "Tarif",
		Messages: map[string]string{
			"SOURCE_UNAVAILABLE":     "Gönderi platformdan alınamadı.",
			"UNSTRUCTURABLE_CONTENT": "Bu açıklamadan tarif çıkarılamadı.",
			"UNSUPPORTED_PLATFORM":   "Sadece Instagram, TikTok ve YouTube linkleri desteklenir.",
			"INVALID_URL":            "Geçersiz gönderi linki.",
			"RATE_LIMITED":           "Platform istekleri sınırlandırıyor, kısa süre sonra tekrar deneyin.",
			"INTERNAL":               "Tarif çıkarılırken hata oluştu.",
		},
	})
}
