package stats

// LevelKey identifies a performance level.
type LevelKey string

const (
	LevelLegend       LevelKey = "legend"
	LevelExpert       LevelKey = "expert"
	LevelAdvanced     LevelKey = "advanced"
	LevelIntermediate LevelKey = "intermediate"
	LevelBeginner     LevelKey = "beginner"
	LevelNew          LevelKey = "new"
)

type levelStep struct {
	key      LevelKey
	minScore float64
	progress int
}

// levelSteps is ordered from the highest level down.
var levelSteps = []levelStep{
	{LevelLegend, 95, 100},
	{LevelExpert, 90, 90},
	{LevelAdvanced, 80, 80},
	{LevelIntermediate, 70, 60},
	{LevelBeginner, 60, 40},
	{LevelNew, 0, 20},
}

// Level is the user's performance level derived from their average score.
type Level struct {
	Key       LevelKey `json:"key"`
	Label     string   `json:"label"`
	Progress  int      `json:"progress"`
	NextLevel *string  `json:"next_level"`
}

// LevelFor maps an average score to a level. NextLevel is nil at the top.
func LevelFor(avg float64, locale Locale) Level {
	for i, step := range levelSteps {
		if avg < step.minScore {
			continue
		}
		lvl := Level{
			Key:      step.key,
			Label:    locale.LevelLabels[step.key],
			Progress: step.progress,
		}
		if i > 0 {
			next := locale.LevelLabels[levelSteps[i-1].key]
			lvl.NextLevel = &next
		}
		return lvl
	}
	// Negative averages cannot come out of validated data.
	last := levelSteps[len(levelSteps)-1]
	next := locale.LevelLabels[levelSteps[len(levelSteps)-2].key]
	return Level{Key: last.key, Label: locale.LevelLabels[last.key], Progress: last.progress, NextLevel: &next}
}

// RankKey identifies a leaderboard-style rank badge.
type RankKey string

const (
	RankFirst         RankKey = "first"
	RankSecond        RankKey = "second"
	RankThird         RankKey = "third"
	RankDistinguished RankKey = "distinguished"
	RankDiligent      RankKey = "diligent"
	RankBeginner      RankKey = "beginner"
)

var rankSteps = []struct {
	key      RankKey
	minScore float64
	icon     string
}{
	{RankFirst, 95, "👑"},
	{RankSecond, 90, "🥈"},
	{RankThird, 85, "🥉"},
	{RankDistinguished, 80, "⭐"},
	{RankDiligent, 70, "📚"},
	{RankBeginner, 0, "🌱"},
}

// Rank is a badge shown next to the user's name.
type Rank struct {
	Key   RankKey `json:"key"`
	Label string  `json:"label"`
	Icon  string  `json:"icon"`
}

// RankFor maps an average score to a rank.
func RankFor(avg float64, locale Locale) Rank {
	for _, step := range rankSteps {
		if avg >= step.minScore {
			return Rank{Key: step.key, Label: locale.RankLabels[step.key], Icon: step.icon}
		}
	}
	last := rankSteps[len(rankSteps)-1]
	return Rank{Key: last.key, Label: locale.RankLabels[last.key], Icon: last.icon}
}
