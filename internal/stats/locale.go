package stats

import "strings"

// Locale holds the user-facing labels used in reports and exports.
type Locale struct {
	Code              string
	DefaultExamTitle  string
	DateLabelLayout   string
	ExportDateLayout  string
	CSVHeader         []string
	BandLabels        map[Band]string
	LevelLabels       map[LevelKey]string
	RankLabels        map[RankKey]string
	AchievementTitles map[AchievementID]string
}

// Arabic is the default locale of the application.
var Arabic = Locale{
	Code:             "ar",
	DefaultExamTitle: "امتحان",
	DateLabelLayout:  "02/01",
	ExportDateLayout: "2006-01-02 15:04",
	CSVHeader: []string{
		"تاريخ_الامتحان",
		"اسم_الامتحان",
		"النتيجة",
		"الإجابات_الصحيحة",
		"إجمالي_الأسئلة",
		"الوقت_المستغرق_بالدقائق",
	},
	BandLabels: map[Band]string{
		BandExcellent: "ممتاز (90%+)",
		BandGood:      "جيد (70-89%)",
		BandFair:      "مقبول (60-69%)",
		BandPoor:      "ضعيف (<60%)",
	},
	LevelLabels: map[LevelKey]string{
		LevelLegend:       "أسطورة",
		LevelExpert:       "خبير",
		LevelAdvanced:     "متقدم",
		LevelIntermediate: "متوسط",
		LevelBeginner:     "مبتدئ",
		LevelNew:          "جديد",
	},
	RankLabels: map[RankKey]string{
		RankFirst:         "الأول",
		RankSecond:        "الثاني",
		RankThird:         "الثالث",
		RankDistinguished: "المتميز",
		RankDiligent:      "المجتهد",
		RankBeginner:      "المبتدئ",
	},
	AchievementTitles: map[AchievementID]string{
		AchievementExcellent:  "النجم المتألق",
		AchievementPersistent: "المثابر",
		AchievementConsistent: "الثابت",
		AchievementSpeedy:     "السريع",
		AchievementPerfect:    "الكمال",
		AchievementDedicated:  "المتفاني",
	},
}

// English mirrors Arabic for clients that request "en".
var English = Locale{
	Code:             "en",
	DefaultExamTitle: "Exam",
	DateLabelLayout:  "02/01",
	ExportDateLayout: "2006-01-02 15:04",
	CSVHeader: []string{
		"exam_date",
		"exam_title",
		"score",
		"correct_answers",
		"total_questions",
		"time_minutes",
	},
	BandLabels: map[Band]string{
		BandExcellent: "Excellent (90%+)",
		BandGood:      "Good (70-89%)",
		BandFair:      "Fair (60-69%)",
		BandPoor:      "Poor (<60%)",
	},
	LevelLabels: map[LevelKey]string{
		LevelLegend:       "Legend",
		LevelExpert:       "Expert",
		LevelAdvanced:     "Advanced",
		LevelIntermediate: "Intermediate",
		LevelBeginner:     "Beginner",
		LevelNew:          "New",
	},
	RankLabels: map[RankKey]string{
		RankFirst:         "First",
		RankSecond:        "Second",
		RankThird:         "Third",
		RankDistinguished: "Distinguished",
		RankDiligent:      "Diligent",
		RankBeginner:      "Beginner",
	},
	AchievementTitles: map[AchievementID]string{
		AchievementExcellent:  "Shining Star",
		AchievementPersistent: "Persistent",
		AchievementConsistent: "Consistent",
		AchievementSpeedy:     "Speedy",
		AchievementPerfect:    "Perfectionist",
		AchievementDedicated:  "Dedicated",
	},
}

// LocaleFor returns the locale for a language code, defaulting to Arabic.
func LocaleFor(code string) Locale {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "en":
		return English
	default:
		return Arabic
	}
}

// IsSupportedLocale reports whether code names a locale with its own labels.
func IsSupportedLocale(code string) bool {
	switch code {
	case "ar", "en":
		return true
	}
	return false
}
