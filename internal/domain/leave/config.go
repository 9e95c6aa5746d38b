package leave

// CategoryConfig is the static rule set for one leave category. The table
// below is process-wide constant data; nothing mutates it after init.
type CategoryConfig struct {
	QuotaPerYear          int
	AllowedDurationTypes  []DurationType
	CalculatedByTenure    bool
	BirthdayGated         bool
	MaxConsecutiveDays    int // 0 means unlimited
	MinDaysNotice         int // 0 means no notice rule
	RequiresDocumentation bool
}

var categoryConfigs = map[Category]CategoryConfig{
	CategorySick: {
		QuotaPerYear:         30,
		AllowedDurationTypes: []DurationType{DurationFullDay, DurationHalfDay, DurationTimeBased},
	},
	CategoryPersonal: {
		QuotaPerYear:         6,
		AllowedDurationTypes: []DurationType{DurationFullDay, DurationHalfDay, DurationTimeBased},
		MinDaysNotice:        3,
	},
	CategoryVacation: {
		AllowedDurationTypes: []DurationType{DurationFullDay, DurationHalfDay},
		CalculatedByTenure:   true,
		MaxConsecutiveDays:   5,
	},
	CategoryBirthday: {
		QuotaPerYear:         1,
		AllowedDurationTypes: []DurationType{DurationFullDay},
		BirthdayGated:        true,
		MaxConsecutiveDays:   1,
	},
	CategoryOther: {
		QuotaPerYear:          3,
		AllowedDurationTypes:  []DurationType{DurationFullDay, DurationHalfDay, DurationTimeBased},
		RequiresDocumentation: true,
	},
}

func ConfigFor(category Category) (CategoryConfig, bool) {
	cfg, ok := categoryConfigs[category]
	return cfg, ok
}

func Categories() []Category {
	return []Category{CategorySick, CategoryPersonal, CategoryVacation, CategoryBirthday, CategoryOther}
}

func (c CategoryConfig) AllowsDuration(dt DurationType) bool {
	for _, allowed := range c.AllowedDurationTypes {
		if allowed == dt {
			return true
		}
	}
	return false
}
