package stats

// AchievementID identifies an achievement badge.
type AchievementID string

const (
	AchievementExcellent  AchievementID = "excellent"
	AchievementPersistent AchievementID = "persistent"
	AchievementConsistent AchievementID = "consistent"
	AchievementSpeedy     AchievementID = "speedy"
	AchievementPerfect    AchievementID = "perfect"
	AchievementDedicated  AchievementID = "dedicated"
)

const (
	excellentTarget  = 5
	persistentUnlock = 5
	persistentTarget = 10
	consistentRun    = 3
	speedyLimit      = 40 * 60 // seconds
	speedyUnlock     = 3
	speedyTarget     = 5
	perfectTarget    = 3
	dedicatedUnlock  = 10 * 60 * 60 // seconds
	dedicatedTarget  = 20 * 60 * 60
)

// Achievement is the state of one badge for a user.
type Achievement struct {
	ID       AchievementID `json:"id"`
	Title    string        `json:"title"`
	Unlocked bool          `json:"unlocked"`
	Progress float64       `json:"progress"`
}

// EvaluateAchievements computes every badge from the user's completed attempts.
// The result order is stable.
func EvaluateAchievements(attempts []Attempt, locale Locale) []Achievement {
	var excellent, perfect, speedy, totalTime int
	for _, a := range attempts {
		if a.Score >= excellentThreshold {
			excellent++
		}
		if a.Score == 100 {
			perfect++
		}
		if a.TimeTaken > 0 && a.TimeTaken < speedyLimit {
			speedy++
		}
		totalTime += a.TimeTaken
	}

	consistent := false
	if len(attempts) >= consistentRun {
		consistent = true
		for _, a := range ByRecency(attempts)[:consistentRun] {
			if a.Score < goodThreshold {
				consistent = false
				break
			}
		}
	}

	n := len(attempts)
	build := func(id AchievementID, unlocked bool, progress float64) Achievement {
		return Achievement{ID: id, Title: locale.AchievementTitles[id], Unlocked: unlocked, Progress: progress}
	}

	return []Achievement{
		build(AchievementExcellent, excellent >= 1, progressOf(excellent, excellentTarget)),
		build(AchievementPersistent, n >= persistentUnlock, progressOf(n, persistentTarget)),
		build(AchievementConsistent, consistent, boolProgress(consistent)),
		build(AchievementSpeedy, speedy >= speedyUnlock, progressOf(speedy, speedyTarget)),
		build(AchievementPerfect, perfect >= 1, progressOf(perfect, perfectTarget)),
		build(AchievementDedicated, totalTime >= dedicatedUnlock, progressOf(totalTime, dedicatedTarget)),
	}
}

// UnlockedAchievements filters achievements down to the unlocked ones.
func UnlockedAchievements(achievements []Achievement) []Achievement {
	out := make([]Achievement, 0, len(achievements))
	for _, a := range achievements {
		if a.Unlocked {
			out = append(out, a)
		}
	}
	return out
}

func progressOf(n, target int) float64 {
	return min(float64(n)/float64(target)*100, 100)
}

func boolProgress(ok bool) float64 {
	if ok {
		return 100
	}
	return 0
}
